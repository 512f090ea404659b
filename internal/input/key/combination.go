package key

import "strings"

// Combination is an ordered list of keys. Chords compare as multisets;
// sequences compare positionally.
type Combination []Key

// Keys builds a combination from key names without validation.
func Keys(names ...string) Combination {
	c := make(Combination, len(names))
	for i, n := range names {
		c[i] = Key(n)
	}
	return c
}

// Fold returns a copy with every key in canonical case.
func (c Combination) Fold() Combination {
	out := make(Combination, len(c))
	for i, k := range c {
		out[i] = Fold(k)
	}
	return out
}

// Clone returns a copy of c.
func (c Combination) Clone() Combination {
	if c == nil {
		return nil
	}
	out := make(Combination, len(c))
	copy(out, c)
	return out
}

// Len returns the number of keys.
func (c Combination) Len() int {
	return len(c)
}

// IsEmpty returns true if c has no keys.
func (c Combination) IsEmpty() bool {
	return len(c) == 0
}

// First returns the first key, or "" if c is empty.
func (c Combination) First() Key {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Equal reports positional equality.
func (c Combination) Equal(o Combination) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// SameSet reports whether c and o hold the same keys with the same
// multiplicity, in any order.
func (c Combination) SameSet(o Combination) bool {
	if len(c) != len(o) {
		return false
	}
	counts := make(map[Key]int, len(c))
	for _, k := range c {
		counts[k]++
	}
	for _, k := range o {
		counts[k]--
		if counts[k] < 0 {
			return false
		}
	}
	return true
}

// Matches compares c with o positionally when ordered is set, and as a
// multiset otherwise.
func (c Combination) Matches(o Combination, ordered bool) bool {
	if ordered {
		return c.Equal(o)
	}
	return c.SameSet(o)
}

// Contains returns true if k appears in c.
func (c Combination) Contains(k Key) bool {
	for _, x := range c {
		if x == k {
			return true
		}
	}
	return false
}

// HasGeneric returns true if any key is a bare modifier.
func (c Combination) HasGeneric() bool {
	for _, k := range c {
		if k.IsGeneric() {
			return true
		}
	}
	return false
}

// Strings returns the keys as plain strings.
func (c Combination) Strings() []string {
	out := make([]string, len(c))
	for i, k := range c {
		out[i] = string(k)
	}
	return out
}

// String joins the keys with "+".
func (c Combination) String() string {
	return strings.Join(c.Strings(), "+")
}
