package dom

import "testing"

func TestDiffProps(t *testing.T) {
	tests := []struct {
		name string
		prev map[string]any
		next map[string]any
		want map[string]any
	}{
		{
			name: "changed and added",
			prev: map[string]any{"a": 1, "b": 2},
			next: map[string]any{"a": 1, "b": 3, "c": 4},
			want: map[string]any{"b": 3, "c": 4},
		},
		{
			name: "removed key",
			prev: map[string]any{"a": 1, "b": 2},
			next: map[string]any{"a": 1},
			want: map[string]any{"b": Unset},
		},
		{
			name: "unchanged",
			prev: map[string]any{"a": "x"},
			next: map[string]any{"a": "x"},
			want: map[string]any{},
		},
		{
			name: "type change counts as change",
			prev: map[string]any{"w": 1},
			next: map[string]any{"w": 1.0},
			want: map[string]any{"w": 1.0},
		},
		{
			name: "nil maps",
			prev: nil,
			next: map[string]any{"a": true},
			want: map[string]any{"a": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiffProps(tt.prev, tt.next)
			if len(got) != len(tt.want) {
				t.Fatalf("DiffProps = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				gv, ok := got[k]
				if !ok {
					t.Errorf("missing key %q", k)
					continue
				}
				if IsUnset(v) != IsUnset(gv) || (!IsUnset(v) && !propsEqual(v, gv)) {
					t.Errorf("key %q = %v, want %v", k, gv, v)
				}
			}
		})
	}
}

func TestDiffPropsNestedValues(t *testing.T) {
	prev := map[string]any{"shadow": map[string]any{"x": 1, "y": 2}}
	same := map[string]any{"shadow": map[string]any{"x": 1, "y": 2}}
	changed := map[string]any{"shadow": map[string]any{"x": 1, "y": 3}}

	if d := DiffProps(prev, same); len(d) != 0 {
		t.Errorf("DiffProps(equal nested) = %v, want empty", d)
	}
	if d := DiffProps(prev, changed); len(d) != 1 {
		t.Errorf("DiffProps(changed nested) = %v, want one key", d)
	}
}

func TestMergePropsLastWins(t *testing.T) {
	layout := map[string]any{"color": "red", "width": 10}
	ext := map[string]any{"color": "blue"}

	got := mergeProps(layout, ext)
	if got["color"] != "blue" || got["width"] != 10 {
		t.Errorf("mergeProps = %v", got)
	}
}
