package key

import (
	"errors"
	"testing"
)

func TestParseChords(t *testing.T) {
	tests := []struct {
		spec string
		want Combination
	}{
		{"a", Keys("a")},
		{"K", Keys("k")},
		{"Enter", Keys("enter")},
		{"Return", Keys("enter")},
		{"esc", Keys("esc")},
		{"Escape", Keys("esc")},
		{"Page Up", Keys("page up")},
		{"pgdn", Keys("page down")},
		{"Up", Keys("arrow up")},
		{"F5", Keys("f5")},
		{"Ctrl+S", Keys("ctrl", "s")},
		{"ctrl + shift + p", Keys("ctrl", "shift", "p")},
		{"Control+K", Keys("ctrl", "k")},
		{"Cmd+Option+I", Keys("meta", "alt", "i")},
		{"Alt+F4", Keys("alt", "f4")},
		{"Ctrl (Left)+K", Keys("ctrl (left)", "k")},
		{"numpad +", Keys("numpad +")},
		{"Ctrl+Numpad +", Keys("ctrl", "numpad +")},
		{"ControlLeft+KeyA", Keys("ctrl (left)", "a")},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Parse(tt.spec)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.spec, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseVimStyle(t *testing.T) {
	tests := []struct {
		spec string
		want Combination
	}{
		{"<C-s>", Keys("ctrl", "s")},
		{"<A-f>", Keys("alt", "f")},
		{"<C-S-p>", Keys("ctrl", "shift", "p")},
		{"<D-k>", Keys("meta", "k")},
		{"<CR>", Keys("enter")},
		{"<Esc>", Keys("esc")},
		{"<BS>", Keys("backspace")},
		{"<C-->", Keys("ctrl", "-")},
	}

	for _, tt := range tests {
		got, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("Parse(%q) = %v, want %v", tt.spec, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr error
	}{
		{"", ErrEmptySpec},
		{"   ", ErrEmptySpec},
		{"ctrl++", ErrInvalidSpec},
		{"+k", ErrInvalidSpec},
		{"<C-s", ErrUnmatchedBracket},
		{"<>", ErrUnmatchedBracket},
		{"<X-s>", ErrInvalidSpec},
		{"ctrl+nope", ErrUnknownKey},
		{"hyper+k", ErrUnknownKey},
	}

	for _, tt := range tests {
		_, err := Parse(tt.spec)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("Parse(%q) error = %v, want %v", tt.spec, err, tt.wantErr)
		}
	}
}

func TestParseErrorSuggestion(t *testing.T) {
	_, err := Parse("Ctrl+Entr")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Parse() error = %v, want *ParseError", err)
	}
	if pe.Name != "Entr" {
		t.Errorf("Name = %q, want %q", pe.Name, "Entr")
	}
	if pe.Suggestion != Enter {
		t.Errorf("Suggestion = %q, want %q", pe.Suggestion, Enter)
	}

	_, err = Parse("zzzzzzzz")
	if !errors.As(err, &pe) {
		t.Fatalf("Parse() error = %v, want *ParseError", err)
	}
	if pe.Suggestion != "" {
		t.Errorf("Suggestion = %q, want none", pe.Suggestion)
	}
}

func TestParseSequence(t *testing.T) {
	tests := []struct {
		spec string
		want Combination
	}{
		{"g g", Keys("g", "g")},
		{"g, g", Keys("g", "g")},
		{"G,G", Keys("g", "g")},
		{"ctrl k ctrl s", Keys("ctrl", "k", "ctrl", "s")},
		{"ctrl+k, ctrl+s", Keys("ctrl", "k", "ctrl", "s")},
		{"arrow up arrow up arrow down", Keys("arrow up", "arrow up", "arrow down")},
		{"page up g", Keys("page up", "g")},
		{"numpad 1 numpad 2", Keys("numpad 1", "numpad 2")},
		{"Comma, Period", Keys(",", ".")},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseSequence(tt.spec)
			if err != nil {
				t.Fatalf("ParseSequence(%q) error = %v", tt.spec, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseSequence(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseSequenceErrors(t *testing.T) {
	if _, err := ParseSequence(""); !errors.Is(err, ErrEmptySpec) {
		t.Errorf("ParseSequence(\"\") error = %v, want ErrEmptySpec", err)
	}
	if _, err := ParseSequence("g,,g"); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("ParseSequence(g,,g) error = %v, want ErrInvalidSpec", err)
	}

	_, err := ParseSequence("g qq")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("ParseSequence() error = %v, want *ParseError", err)
	}
	if pe.Spec != "g qq" {
		t.Errorf("Spec = %q, want the whole sequence", pe.Spec)
	}
}

func TestParseBinding(t *testing.T) {
	chord, err := ParseBinding("ctrl+k", false)
	if err != nil || !chord.Equal(Keys("ctrl", "k")) {
		t.Errorf("ParseBinding(chord) = %v, %v", chord, err)
	}
	seq, err := ParseBinding("g g", true)
	if err != nil || !seq.Equal(Keys("g", "g")) {
		t.Errorf("ParseBinding(sequence) = %v, %v", seq, err)
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse did not panic on an invalid spec")
		}
	}()
	MustParse("ctrl+nope")
}

func TestFormatRoundTrip(t *testing.T) {
	tests := []struct {
		combo      Combination
		sequential bool
		want       string
	}{
		{Keys("ctrl", "k"), false, "Ctrl+K"},
		{Keys("ctrl (left)", "numpad +"), false, "Ctrl (Left)+Numpad +"},
		{Keys("g", "g"), true, "G, G"},
		{Keys(",", "arrow up"), true, "Comma, Arrow Up"},
	}

	for _, tt := range tests {
		got := Format(tt.combo, tt.sequential)
		if got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.combo, got, tt.want)
		}
		back, err := ParseBinding(got, tt.sequential)
		if err != nil {
			t.Errorf("ParseBinding(%q) error = %v", got, err)
			continue
		}
		if !back.Equal(tt.combo) {
			t.Errorf("ParseBinding(Format(%v)) = %v", tt.combo, back)
		}
	}
}
