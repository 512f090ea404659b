package key

// Expand replaces every bare modifier in c with its left and right
// variants and returns the cartesian product, left variants first.
// Other keys keep their position. A combination without bare modifiers
// yields a single-element result holding a copy of c.
func Expand(c Combination) []Combination {
	out := []Combination{make(Combination, 0, len(c))}
	for _, k := range c {
		if !k.IsGeneric() {
			for i := range out {
				out[i] = append(out[i], k)
			}
			continue
		}

		variants := k.Modifier().Variants()
		next := make([]Combination, 0, len(out)*len(variants))
		for _, prefix := range out {
			for _, v := range variants {
				grown := make(Combination, len(prefix), len(c))
				copy(grown, prefix)
				next = append(next, append(grown, v))
			}
		}
		out = next
	}
	return out
}

// ExpandAll expands each combination in turn and concatenates the results.
func ExpandAll(cs []Combination) []Combination {
	var out []Combination
	for _, c := range cs {
		out = append(out, Expand(c)...)
	}
	return out
}
