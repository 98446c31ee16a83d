package confmap

import (
	"reflect"
	"testing"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		base     Tree
		override Tree
		want     Tree
	}{
		{
			name:     "OverrideWinsScalar",
			base:     Tree{"a": 1, "b": "keep"},
			override: Tree{"a": 2},
			want:     Tree{"a": 2, "b": "keep"},
		},
		{
			name:     "MappingsRecurse",
			base:     Tree{"a": map[string]any{"x": 1, "y": 2}},
			override: Tree{"a": map[string]any{"y": 3, "z": 4}},
			want:     Tree{"a": map[string]any{"x": 1, "y": 3, "z": 4}},
		},
		{
			name:     "ScalarReplacesMapping",
			base:     Tree{"a": map[string]any{"x": 1}},
			override: Tree{"a": "scalar"},
			want:     Tree{"a": "scalar"},
		},
		{
			name:     "MappingReplacesScalar",
			base:     Tree{"a": "scalar"},
			override: Tree{"a": map[string]any{"x": 1}},
			want:     Tree{"a": map[string]any{"x": 1}},
		},
		{
			name:     "SequenceReplacedWholesale",
			base:     Tree{"hosts": []any{"a", "b", "c"}},
			override: Tree{"hosts": []any{"d"}},
			want:     Tree{"hosts": []any{"d"}},
		},
		{
			name:     "NewKeysAdded",
			base:     Tree{"a": 1},
			override: Tree{"b": map[string]any{"c": true}},
			want:     Tree{"a": 1, "b": map[string]any{"c": true}},
		},
		{
			name:     "EmptyOverrideKeepsBase",
			base:     Tree{"a": 1},
			override: Tree{},
			want:     Tree{"a": 1},
		},
		{
			name:     "NilBaseBecomesOverride",
			base:     nil,
			override: Tree{"a": 1},
			want:     Tree{"a": 1},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := Merge(tc.base, tc.override)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("unexpected merge result: got %v want %v", got, tc.want)
			}
		})
	}
}

func TestMergeCumulativeFold(t *testing.T) {
	t.Parallel()

	layerA := Tree{"db": map[string]any{"host": "localhost", "port": 5432}, "debug": false}
	layerB := Tree{"db": map[string]any{"host": "postgres"}, "media": map[string]any{"root": "/srv"}}
	layerC := Tree{"db": map[string]any{"port": 6543}, "debug": true}

	folded := Tree{}
	for _, layer := range []Tree{layerA, layerB, layerC} {
		folded = Merge(folded, Clone(layer))
	}
	partial := Merge(Merge(Tree{}, Clone(layerA)), Clone(layerB))
	staged := Merge(partial, Clone(layerC))

	if !reflect.DeepEqual(folded, staged) {
		t.Fatalf("cumulative fold diverged: %v vs %v", folded, staged)
	}
	if got := GetString(folded, "db.host", ""); got != "postgres" {
		t.Fatalf("expected db.host postgres, got %q", got)
	}
	if got := GetString(folded, "db.port", ""); got != "6543" {
		t.Fatalf("expected db.port 6543, got %q", got)
	}
}

func TestMergeReturnsBase(t *testing.T) {
	t.Parallel()

	base := Tree{"a": 1}
	got := Merge(base, Tree{"b": 2})
	if !reflect.DeepEqual(base, got) {
		t.Fatalf("expected merge to mutate and return base")
	}
	if base["b"] != 2 {
		t.Fatalf("expected base to carry merged key, got %v", base)
	}
}

func TestClone(t *testing.T) {
	t.Parallel()

	original := Tree{
		"db":    map[string]any{"host": "postgres"},
		"hosts": []any{"a", "b"},
	}

	copied := Clone(original)
	copied["db"].(map[string]any)["host"] = "mutated"
	copied["hosts"].([]any)[0] = "mutated"

	if got := GetString(original, "db.host", ""); got != "postgres" {
		t.Fatalf("clone mutation leaked into original mapping: %q", got)
	}
	if got := original["hosts"].([]any)[0]; got != "a" {
		t.Fatalf("clone mutation leaked into original sequence: %v", got)
	}
}

func TestCloneNil(t *testing.T) {
	t.Parallel()

	if got := Clone(nil); got != nil {
		t.Fatalf("expected nil clone, got %v", got)
	}
}
