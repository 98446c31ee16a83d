package confmap

import (
	"fmt"
	"strings"
)

// Get walks a dot-separated path through nested mappings. Traversing into a
// non-mapping value or a missing key reports not-found, never a panic.
func Get(t Tree, path string) (any, bool) {
	current := any(t)
	for _, key := range strings.Split(path, ".") {
		mapping, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = mapping[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// GetString returns the value at path formatted as text, or fallback when
// the path is absent or holds a null. Non-string scalars are formatted the
// way they would print, so a numeric port becomes its decimal form.
func GetString(t Tree, path, fallback string) string {
	value, ok := Get(t, path)
	if !ok || value == nil {
		return fallback
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

// Set stores value at a dot-separated path, creating intermediate mappings
// as needed. A non-mapping value found at an intermediate key is replaced.
func Set(t Tree, path string, value any) {
	keys := strings.Split(path, ".")
	current := t
	for _, key := range keys[:len(keys)-1] {
		next, ok := current[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[key] = next
		}
		current = next
	}
	current[keys[len(keys)-1]] = value
}
