package confmap

// Tree is a nested string-keyed configuration mapping as decoded from YAML.
// Values are scalars, []any sequences, or nested map[string]any mappings.
type Tree = map[string]any

// Merge applies override on top of base and returns base. When both sides
// hold a mapping under the same key the merge recurses; any other collision
// replaces the base value wholesale, sequences included. Layers folded
// left-to-right in ascending precedence therefore end with the highest
// layer winning every conflicting scalar.
func Merge(base, override Tree) Tree {
	if base == nil {
		base = Tree{}
	}
	for key, incoming := range override {
		if current, ok := base[key]; ok {
			currentMap, currentOK := current.(map[string]any)
			incomingMap, incomingOK := incoming.(map[string]any)
			if currentOK && incomingOK {
				base[key] = Merge(currentMap, incomingMap)
				continue
			}
		}
		base[key] = incoming
	}
	return base
}

// Clone returns a deep copy of the tree. Mutating the copy, including nested
// mappings and sequences, leaves the original untouched.
func Clone(t Tree) Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for key, value := range t {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		return Clone(value)
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}


