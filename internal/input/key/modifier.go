package key

import "strings"

// Modifier represents a modifier family. The left and right physical
// keys of a family share one Modifier value.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS, Win on Windows).
	ModMeta
)

// families lists every modifier family in display order.
var families = []Modifier{ModCtrl, ModShift, ModAlt, ModMeta}

var modifierKeys = map[Modifier][3]Key{
	ModCtrl:  {Ctrl, CtrlLeft, CtrlRight},
	ModShift: {Shift, ShiftLeft, ShiftRight},
	ModAlt:   {Alt, AltLeft, AltRight},
	ModMeta:  {Meta, MetaLeft, MetaRight},
}

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// Generic returns the bare key for a single modifier family ("ctrl").
// Returns "" for ModNone or combined modifiers.
func (m Modifier) Generic() Key {
	return modifierKeys[m][0]
}

// Left returns the left-side key of a single modifier family.
func (m Modifier) Left() Key {
	return modifierKeys[m][1]
}

// Right returns the right-side key of a single modifier family.
func (m Modifier) Right() Key {
	return modifierKeys[m][2]
}

// Variants returns the concrete left and right keys of a single modifier
// family, left first.
func (m Modifier) Variants() []Key {
	v, ok := modifierKeys[m]
	if !ok {
		return nil
	}
	return []Key{v[1], v[2]}
}

// String returns a human-readable representation like "Ctrl+Alt".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}

	var parts []string
	for _, f := range families {
		if m.Has(f) {
			parts = append(parts, f.Generic().Label())
		}
	}
	return strings.Join(parts, "+")
}

// Modifier returns the modifier family of k, or ModNone if k is not a
// modifier key.
func (k Key) Modifier() Modifier {
	k = Fold(k)
	for _, f := range families {
		for _, v := range modifierKeys[f] {
			if v == k {
				return f
			}
		}
	}
	return ModNone
}

// IsModifier returns true for generic and sided modifier keys.
func (k Key) IsModifier() bool {
	return k.Modifier() != ModNone
}

// IsGeneric returns true for a bare modifier that stands for either side.
func (k Key) IsGeneric() bool {
	m := k.Modifier()
	return m != ModNone && Fold(k) == m.Generic()
}

// Collapse maps a sided modifier to its generic key. Other keys are
// returned folded.
func Collapse(k Key) Key {
	if m := k.Modifier(); m != ModNone {
		return m.Generic()
	}
	return Fold(k)
}

// modifierAliases maps alternative modifier names to generic keys.
var modifierAliases = map[string]Key{
	"control": Ctrl,
	"ctl":     Ctrl,
	"option":  Alt,
	"opt":     Alt,
	"cmd":     Meta,
	"command": Meta,
	"win":     Meta,
	"windows": Meta,
	"super":   Meta,
	"os":      Meta,
}

// ModifierFromName returns the Modifier for a given name (case-insensitive).
// Sided names ("Ctrl (Left)") resolve to their family.
// Returns ModNone if the name is not recognized.
func ModifierFromName(name string) Modifier {
	name = strings.ToLower(strings.TrimSpace(name))
	if k, ok := modifierAliases[name]; ok {
		return k.Modifier()
	}
	return Key(name).Modifier()
}
