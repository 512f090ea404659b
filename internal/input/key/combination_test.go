package key

import (
	"testing"
)

func TestCombinationEqual(t *testing.T) {
	tests := []struct {
		a, b    Combination
		equal   bool
		sameSet bool
	}{
		{Keys("ctrl (left)", "k"), Keys("ctrl (left)", "k"), true, true},
		{Keys("ctrl (left)", "k"), Keys("k", "ctrl (left)"), false, true},
		{Keys("g", "g"), Keys("g"), false, false},
		{Keys("g", "g", "h"), Keys("g", "h", "h"), false, false},
		{Keys("a", "b"), Keys("a", "c"), false, false},
		{nil, Combination{}, true, true},
	}

	for _, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.equal {
			t.Errorf("%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.equal)
		}
		if got := tt.a.SameSet(tt.b); got != tt.sameSet {
			t.Errorf("%v.SameSet(%v) = %v, want %v", tt.a, tt.b, got, tt.sameSet)
		}
		if got := tt.a.Matches(tt.b, true); got != tt.equal {
			t.Errorf("%v.Matches(%v, ordered) = %v, want %v", tt.a, tt.b, got, tt.equal)
		}
		if got := tt.a.Matches(tt.b, false); got != tt.sameSet {
			t.Errorf("%v.Matches(%v, unordered) = %v, want %v", tt.a, tt.b, got, tt.sameSet)
		}
	}
}

func TestCombinationHelpers(t *testing.T) {
	c := Keys("Ctrl", "K")

	folded := c.Fold()
	if !folded.Equal(Keys("ctrl", "k")) {
		t.Errorf("Fold() = %v", folded)
	}
	if c[0] != "Ctrl" {
		t.Error("Fold() modified the receiver")
	}

	clone := folded.Clone()
	clone[0] = "alt"
	if folded[0] != "ctrl" {
		t.Error("Clone() shares storage with the receiver")
	}

	if folded.First() != "ctrl" {
		t.Errorf("First() = %q", folded.First())
	}
	if (Combination{}).First() != "" {
		t.Error("First() of empty combination should be empty")
	}
	if !folded.Contains("k") || folded.Contains("j") {
		t.Error("Contains() mismatch")
	}
	if !folded.HasGeneric() || Keys("ctrl (left)", "k").HasGeneric() {
		t.Error("HasGeneric() mismatch")
	}
	if got := folded.String(); got != "ctrl+k" {
		t.Errorf("String() = %q, want %q", got, "ctrl+k")
	}
	if folded.Len() != 2 || folded.IsEmpty() || !(Combination{}).IsEmpty() {
		t.Error("Len()/IsEmpty() mismatch")
	}
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name  string
		combo Combination
		want  []Combination
	}{
		{
			name:  "no modifiers",
			combo: Keys("g", "g"),
			want:  []Combination{Keys("g", "g")},
		},
		{
			name:  "sided modifier untouched",
			combo: Keys("ctrl (right)", "k"),
			want:  []Combination{Keys("ctrl (right)", "k")},
		},
		{
			name:  "one generic",
			combo: Keys("ctrl", "k"),
			want: []Combination{
				Keys("ctrl (left)", "k"),
				Keys("ctrl (right)", "k"),
			},
		},
		{
			name:  "two generics",
			combo: Keys("ctrl", "shift", "p"),
			want: []Combination{
				Keys("ctrl (left)", "shift (left)", "p"),
				Keys("ctrl (left)", "shift (right)", "p"),
				Keys("ctrl (right)", "shift (left)", "p"),
				Keys("ctrl (right)", "shift (right)", "p"),
			},
		},
		{
			name:  "position preserved",
			combo: Keys("k", "meta"),
			want: []Combination{
				Keys("k", "meta (left)"),
				Keys("k", "meta (right)"),
			},
		},
		{
			name:  "empty",
			combo: Combination{},
			want:  []Combination{{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(tt.combo)
			if len(got) != len(tt.want) {
				t.Fatalf("Expand(%v) returned %d combinations, want %d", tt.combo, len(got), len(tt.want))
			}
			for i := range got {
				if !got[i].Equal(tt.want[i]) {
					t.Errorf("Expand(%v)[%d] = %v, want %v", tt.combo, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExpandCardinality(t *testing.T) {
	generics := []Key{Ctrl, Shift, Alt, Meta}
	for n := 0; n <= len(generics); n++ {
		combo := append(Combination{}, generics[:n]...)
		combo = append(combo, "x")

		got := Expand(combo)
		if want := 1 << n; len(got) != want {
			t.Errorf("Expand(%v) returned %d combinations, want %d", combo, len(got), want)
		}
		for _, c := range got {
			if c.HasGeneric() {
				t.Errorf("Expand(%v) left a generic modifier in %v", combo, c)
			}
			if len(c) != len(combo) {
				t.Errorf("Expand(%v) changed the length: %v", combo, c)
			}
		}
	}
}

func TestExpandDoesNotAliasInput(t *testing.T) {
	combo := Keys("a", "b")
	got := Expand(combo)
	got[0][0] = "z"
	if combo[0] != "a" {
		t.Error("Expand() result shares storage with its input")
	}
}

func TestExpandAll(t *testing.T) {
	got := ExpandAll([]Combination{Keys("ctrl", "k"), Keys("g", "g")})
	if len(got) != 3 {
		t.Fatalf("ExpandAll() returned %d combinations, want 3", len(got))
	}
	if !got[2].Equal(Keys("g", "g")) {
		t.Errorf("ExpandAll()[2] = %v", got[2])
	}
}
