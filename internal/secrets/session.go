package secrets

import (
	"fmt"
	"sort"
	"strings"

	"github.com/whisper-darkly/sticky-dvr/internal/confmap"
)

// Flat keys are pinned under this section of the configuration tree.
const pinSection = "secrets"

// Session resolves secret references for a single run. Resolution order is
// strictly pinned (merged tree), then persisted (loaded store records), then
// generated. Every resolved value is memoized, so a key yields one value per
// run no matter how many templates reference it, even before any flush.
// A Session is not safe for concurrent use; the pipeline is sequential.
type Session struct {
	tree      confmap.Tree
	records   map[string]string
	resolved  map[string]string
	generated []string
	dirty     bool
}

// NewSession binds a resolver to the fully merged tree and the record set
// loaded from the store. The records map is copied; the tree is read, never
// written, and must not change for the lifetime of the session.
func NewSession(tree confmap.Tree, records map[string]string) *Session {
	copied := make(map[string]string, len(records))
	for key, value := range records {
		copied[key] = value
	}
	return &Session{
		tree:     tree,
		records:  copied,
		resolved: map[string]string{},
	}
}

// Resolve returns the value for key, choosing the first non-empty source in
// pinned > persisted > generated order. Generation records the new value
// in-memory and marks the session dirty; reads never do. Repeated calls with
// the same key return the memoized value regardless of descriptor.
func (s *Session) Resolve(key string, d Descriptor) (string, error) {
	if value, ok := s.resolved[key]; ok {
		return value, nil
	}

	if value, ok := s.pinned(key); ok {
		s.resolved[key] = value
		return value, nil
	}

	if value := s.records[key]; value != "" {
		s.resolved[key] = value
		return value, nil
	}

	value, err := Generate(d)
	if err != nil {
		return "", fmt.Errorf("generate secret %q: %w", key, err)
	}
	s.records[key] = value
	s.resolved[key] = value
	s.generated = append(s.generated, key)
	s.dirty = true
	return value, nil
}

// pinned looks the key up in the merged tree. A flat key pins at
// "secrets.<key>"; a dotted key is its own path. Only non-empty scalars pin:
// strings are used as-is, numbers and booleans are formatted as text, and
// mappings, sequences, and nulls fall through to the next tier.
func (s *Session) pinned(key string) (string, bool) {
	path := key
	if !strings.Contains(key, ".") {
		path = pinSection + "." + key
	}

	value, ok := confmap.Get(s.tree, path)
	if !ok {
		return "", false
	}
	switch v := value.(type) {
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	case nil, map[string]any, []any:
		return "", false
	default:
		return fmt.Sprintf("%v", v), true
	}
}

// Dirty reports whether at least one secret was generated this run.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Records returns a copy of the full record set, previously persisted
// entries plus any generated this run, ready to hand to Store.Flush.
func (s *Session) Records() map[string]string {
	out := make(map[string]string, len(s.records))
	for key, value := range s.records {
		out[key] = value
	}
	return out
}

// Generated returns the keys generated this run in sorted order.
func (s *Session) Generated() []string {
	out := make([]string, len(s.generated))
	copy(out, s.generated)
	sort.Strings(out)
	return out
}
