// Package configure orchestrates one resolution run: layered configuration
// merge, lazy secret resolution against the durable store, template
// rendering, store flush, and env file derivation. It owns the run
// sequencing so the main package stays focused on CLI parsing.
package configure
