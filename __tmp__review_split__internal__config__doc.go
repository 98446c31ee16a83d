// Package config loads the tool's runtime settings from environment
// variables and CLI flags with precedence: CLI flags > Environment variables
// > Defaults. The YAML documents the tool consumes are pipeline inputs, not
// tool settings; they are loaded and merged by the configure package.
package config


