// Package tea feeds Bubble Tea key messages into an input engine.
//
// Like terminals, Bubble Tea reports presses only; Feed synthesizes the
// matching releases. Model hosts an engine inside a tea.Program so
// handlers run on the program's update loop.
package tea

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
)

// Source is an input.Source fed with tea.KeyMsg values.
type Source struct {
	mu       sync.Mutex
	listener input.Listener
}

// NewSource creates a source.
func NewSource() *Source {
	return &Source{}
}

// Attach implements input.Source.
func (s *Source) Attach(l input.Listener) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = l
	return nil
}

// Detach implements input.Source.
func (s *Source) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = nil
}

// Feed delivers msg as key-down and key-up events. Returns false if msg
// has no physical key or no listener is attached.
func (s *Source) Feed(msg tea.KeyMsg) bool {
	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()
	if l == nil {
		return false
	}

	mods, code, text := Translate(msg)
	if code == "" {
		return false
	}

	for _, m := range mods {
		l.KeyDown(&input.Event{Code: m})
	}
	l.KeyDown(&input.Event{Code: code, Text: text})
	l.KeyUp(&input.Event{Code: code, Text: text})
	for i := len(mods) - 1; i >= 0; i-- {
		l.KeyUp(&input.Event{Code: mods[i]})
	}
	return true
}

// Translate converts a key message into the physical identifiers of the
// held modifiers, the key and the text it types. Pastes and multi-rune
// messages yield an empty code.
func Translate(msg tea.KeyMsg) (mods []string, code, text string) {
	var ctrl, shift bool

	switch {
	case msg.Paste:
		return nil, "", ""

	case msg.Type == tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return nil, "", ""
		}
		r := msg.Runes[0]
		text = string(r)
		c, shifted, ok := key.RuneCode(r)
		if ok {
			code, shift = c, shifted
		} else {
			code = text
		}

	case msg.Type == tea.KeySpace:
		code, text = "Space", " "

	case msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ && !isNamedControl(msg.Type):
		ctrl = true
		code = "Key" + string(rune('A'+(msg.Type-tea.KeyCtrlA)))

	default:
		k, ok := specialKeys[msg.Type]
		if !ok {
			return nil, "", ""
		}
		code, ctrl, shift = k.code, k.ctrl, k.shift
	}

	if ctrl {
		mods = append(mods, "ControlLeft")
	}
	if shift {
		mods = append(mods, "ShiftLeft")
	}
	if msg.Alt {
		mods = append(mods, "AltLeft")
	}
	return mods, code, text
}

// isNamedControl reports control codes Bubble Tea also names as keys.
func isNamedControl(t tea.KeyType) bool {
	switch t {
	case tea.KeyTab, tea.KeyEnter, tea.KeyCtrlH:
		return true
	}
	return false
}

type special struct {
	code        string
	ctrl, shift bool
}

var specialKeys = map[tea.KeyType]special{
	tea.KeyEnter:          {code: "Enter"},
	tea.KeyTab:            {code: "Tab"},
	tea.KeyShiftTab:       {code: "Tab", shift: true},
	tea.KeyBackspace:      {code: "Backspace"},
	tea.KeyCtrlH:          {code: "Backspace"},
	tea.KeyEsc:            {code: "Escape"},
	tea.KeyDelete:         {code: "Delete"},
	tea.KeyInsert:         {code: "Insert"},
	tea.KeyHome:           {code: "Home"},
	tea.KeyEnd:            {code: "End"},
	tea.KeyPgUp:           {code: "PageUp"},
	tea.KeyPgDown:         {code: "PageDown"},
	tea.KeyCtrlPgUp:       {code: "PageUp", ctrl: true},
	tea.KeyCtrlPgDown:     {code: "PageDown", ctrl: true},
	tea.KeyUp:             {code: "ArrowUp"},
	tea.KeyDown:           {code: "ArrowDown"},
	tea.KeyLeft:           {code: "ArrowLeft"},
	tea.KeyRight:          {code: "ArrowRight"},
	tea.KeyShiftUp:        {code: "ArrowUp", shift: true},
	tea.KeyShiftDown:      {code: "ArrowDown", shift: true},
	tea.KeyShiftLeft:      {code: "ArrowLeft", shift: true},
	tea.KeyShiftRight:     {code: "ArrowRight", shift: true},
	tea.KeyCtrlUp:         {code: "ArrowUp", ctrl: true},
	tea.KeyCtrlDown:       {code: "ArrowDown", ctrl: true},
	tea.KeyCtrlLeft:       {code: "ArrowLeft", ctrl: true},
	tea.KeyCtrlRight:      {code: "ArrowRight", ctrl: true},
	tea.KeyCtrlShiftUp:    {code: "ArrowUp", ctrl: true, shift: true},
	tea.KeyCtrlShiftDown:  {code: "ArrowDown", ctrl: true, shift: true},
	tea.KeyCtrlShiftLeft:  {code: "ArrowLeft", ctrl: true, shift: true},
	tea.KeyCtrlShiftRight: {code: "ArrowRight", ctrl: true, shift: true},
	tea.KeyF1:             {code: "F1"},
	tea.KeyF2:             {code: "F2"},
	tea.KeyF3:             {code: "F3"},
	tea.KeyF4:             {code: "F4"},
	tea.KeyF5:             {code: "F5"},
	tea.KeyF6:             {code: "F6"},
	tea.KeyF7:             {code: "F7"},
	tea.KeyF8:             {code: "F8"},
	tea.KeyF9:             {code: "F9"},
	tea.KeyF10:            {code: "F10"},
	tea.KeyF11:            {code: "F11"},
	tea.KeyF12:            {code: "F12"},
}
