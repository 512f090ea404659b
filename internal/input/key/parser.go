package key

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Parse errors
var (
	ErrEmptySpec        = errors.New("empty key specification")
	ErrInvalidSpec      = errors.New("invalid key specification")
	ErrUnknownKey       = errors.New("unknown key")
	ErrUnmatchedBracket = errors.New("unmatched bracket in key specification")
)

// ParseError describes a key name that could not be resolved.
type ParseError struct {
	Spec       string
	Name       string
	Suggestion Key
	Err        error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s %q in %q", e.Err, e.Name, e.Spec)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion.Label())
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// maxSuggestDistance bounds the edit distance of "did you mean" hints.
const maxSuggestDistance = 2

// nameAliases maps alternative key names to canonical keys.
var nameAliases = map[string]Key{
	"escape":      Escape,
	"return":      Enter,
	"cr":          Enter,
	"bs":          Backspace,
	"del":         Delete,
	"ins":         Insert,
	"pgup":        PageUp,
	"pageup":      PageUp,
	"pgdn":        PageDown,
	"pagedown":    PageDown,
	"up":          ArrowUp,
	"down":        ArrowDown,
	"left":        ArrowLeft,
	"right":       ArrowRight,
	"spacebar":    Space,
	"capslock":    "caps lock",
	"printscreen": "print screen",
	"prtsc":       "print screen",
	"menu":        "context menu",
	"comma":       ",",
	"period":      ".",
	"minus":       "-",
	"equal":       "=",
	"slash":       "/",
	"backslash":   "\\",
	"bslash":      "\\",
	"semicolon":   ";",
	"quote":       "'",
	"backquote":   "`",
	"lbracket":    "[",
	"rbracket":    "]",
}

// Lookup resolves a key name to its canonical key. Names are matched
// case-insensitively against display labels, canonical keys, modifier
// aliases and common aliases. Physical identifiers ("KeyA", "ControlLeft")
// are also accepted.
func Lookup(name string) (Key, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	lower := strings.ToLower(name)
	if k, ok := nameAliases[lower]; ok {
		return k, true
	}
	if k, ok := modifierAliases[lower]; ok {
		return k, true
	}
	if _, ok := vocabulary[Key(lower)]; ok {
		return Key(lower), true
	}
	if IsPhysical(name) {
		return Normalize(name), true
	}
	return "", false
}

// Suggest returns the closest known key name to name, or "" if nothing
// is close enough.
func Suggest(name string) Key {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return ""
	}

	candidates := make([]string, 0, len(vocabulary)+len(nameAliases))
	for k := range vocabulary {
		candidates = append(candidates, string(k))
	}
	for a := range nameAliases {
		candidates = append(candidates, a)
	}
	for a := range modifierAliases {
		candidates = append(candidates, a)
	}
	sort.Strings(candidates)

	best, bestDist := "", maxSuggestDistance+1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(lower, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	if best == "" {
		return ""
	}
	k, _ := Lookup(best)
	return k
}

func unknown(spec, name string) error {
	return &ParseError{
		Spec:       spec,
		Name:       strings.TrimSpace(name),
		Suggestion: Suggest(name),
		Err:        ErrUnknownKey,
	}
}

// Parse parses a chord specification into a combination of canonical keys.
//
// Supported formats:
//   - Single key: "a", "K", "Enter", "F5", "Page Up"
//   - Chords: "Ctrl+S", "Alt+F4", "ctrl + shift + p", "Ctrl+Numpad +"
//   - Vim-style: "<C-s>", "<A-f>", "<C-S-p>", "<CR>", "<Esc>"
//
// Bare modifiers are kept generic; use Expand for concrete variants.
func Parse(spec string) (Combination, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, ErrEmptySpec
	}

	if strings.HasPrefix(spec, "<") {
		if !strings.HasSuffix(spec, ">") || len(spec) < 3 {
			return nil, fmt.Errorf("%w: %q", ErrUnmatchedBracket, spec)
		}
		return parseVimStyle(spec, spec[1:len(spec)-1])
	}

	parts := splitChord(spec)
	if parts == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
	}

	combo := make(Combination, 0, len(parts))
	for _, p := range parts {
		k, ok := Lookup(p)
		if !ok {
			return nil, unknown(spec, p)
		}
		combo = append(combo, k)
	}
	return combo, nil
}

// splitChord splits on "+". A "+" preceded by a space and ending a token
// belongs to the key name ("numpad +"). Returns nil on empty tokens.
func splitChord(spec string) []string {
	raw := strings.Split(spec, "+")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p == "" {
			n := len(parts)
			if n == 0 || !strings.HasSuffix(parts[n-1], " ") {
				return nil
			}
			parts[n-1] += "+"
			continue
		}
		if strings.TrimSpace(p) == "" {
			return nil
		}
		parts = append(parts, p)
	}
	return parts
}

// parseVimStyle parses Vim-style notation like "C-s", "A-F4", "CR", "Esc".
func parseVimStyle(spec, inner string) (Combination, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
	}

	// Split by hyphen to get modifiers and key. A doubled trailing "-" is the key.
	parts := strings.Split(inner, "-")
	switch {
	case inner == "-":
		parts = []string{"-"}
	case strings.HasSuffix(inner, "--"):
		parts = append(strings.Split(strings.TrimSuffix(inner, "--"), "-"), "-")
	}

	var combo Combination
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "c":
			combo = append(combo, Ctrl)
		case "a", "m":
			combo = append(combo, Alt)
		case "s":
			combo = append(combo, Shift)
		case "d": // D is Vim's notation for Command/Meta
			combo = append(combo, Meta)
		default:
			return nil, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
	}

	keyPart := parts[len(parts)-1]
	k, ok := Lookup(keyPart)
	if !ok {
		return nil, unknown(spec, keyPart)
	}
	return append(combo, k), nil
}

// ParseSequence parses a sequence specification into the ordered keys
// to be pressed.
//
// Steps are separated by commas ("g, g", "ctrl+k, ctrl+s") or, when no
// comma is present, by whitespace ("g g", "arrow up arrow down"). With
// whitespace separation multi-word key names are matched greedily. A
// chord step contributes its keys in order.
func ParseSequence(spec string) (Combination, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, ErrEmptySpec
	}

	if strings.Contains(spec, ",") {
		var combo Combination
		for _, step := range strings.Split(spec, ",") {
			if strings.TrimSpace(step) == "" {
				return nil, fmt.Errorf("%w: empty step in %q", ErrInvalidSpec, spec)
			}
			keys, err := Parse(step)
			if err != nil {
				return nil, err
			}
			combo = append(combo, keys...)
		}
		return combo, nil
	}

	words := strings.Fields(spec)
	var combo Combination
	for i := 0; i < len(words); {
		n := 1
		for try := min(3, len(words)-i); try > 1; try-- {
			if k, ok := Lookup(strings.Join(words[i:i+try], " ")); ok {
				combo = append(combo, k)
				n = try
				break
			}
		}
		if n == 1 {
			keys, err := Parse(words[i])
			if err != nil {
				var pe *ParseError
				if errors.As(err, &pe) {
					pe.Spec = spec
				}
				return nil, err
			}
			combo = append(combo, keys...)
		}
		i += n
	}
	return combo, nil
}

// ParseBinding parses spec as a sequence when sequential is set and as a
// chord otherwise.
func ParseBinding(spec string, sequential bool) (Combination, error) {
	if sequential {
		return ParseSequence(spec)
	}
	return Parse(spec)
}

// MustParse parses a chord specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Combination {
	c, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return c
}

// Format renders c with display labels in a form ParseBinding accepts.
func Format(c Combination, sequential bool) string {
	labels := make([]string, len(c))
	for i, k := range c {
		labels[i] = k.Label()
		if sequential && k == "," {
			labels[i] = "Comma"
		}
	}
	if sequential {
		return strings.Join(labels, ", ")
	}
	return strings.Join(labels, "+")
}
