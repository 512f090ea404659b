package key

// shiftedRunes maps characters typed with shift on a US layout to the
// character of the same key without shift.
var shiftedRunes = map[rune]rune{
	'!': '1', '@': '2', '#': '3', '$': '4', '%': '5',
	'^': '6', '&': '7', '*': '8', '(': '9', ')': '0',
	'_': '-', '+': '=', '{': '[', '}': ']', '|': '\\',
	':': ';', '"': '\'', '<': ',', '>': '.', '?': '/',
	'~': '`',
}

// RuneCode returns the physical identifier of the key that types r on a
// US layout and whether shift must be held. Returns false for characters
// no key produces, such as non-ASCII letters.
func RuneCode(r rune) (code string, shift, ok bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return "Key" + string(r-('a'-'A')), false, true
	case r >= 'A' && r <= 'Z':
		return "Key" + string(r), true, true
	case r == ' ':
		return "Space", false, true
	}

	if base, shifted := shiftedRunes[r]; shifted {
		r, shift = base, true
	}
	code, ok = Code(Key(string(r)))
	if !ok {
		return "", false, false
	}
	return code, shift, true
}
