package terminal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/keymap"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) KeyDown(e *input.Event) { r.add("down " + e.Code) }
func (r *recorder) KeyUp(e *input.Event)   { r.add("up " + e.Code) }

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, s)
}

func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		mods []string
		code string
		text string
	}{
		{"letter", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), nil, "KeyA", "a"},
		{"upper letter", tcell.NewEventKey(tcell.KeyRune, 'A', tcell.ModNone), []string{"ShiftLeft"}, "KeyA", "A"},
		{"shifted symbol", tcell.NewEventKey(tcell.KeyRune, '&', tcell.ModNone), []string{"ShiftLeft"}, "Digit7", "&"},
		{"alt letter", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), []string{"AltLeft"}, "KeyX", "x"},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), nil, "Space", " "},
		{"unknown rune", tcell.NewEventKey(tcell.KeyRune, 'é', tcell.ModNone), nil, "é", "é"},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), nil, "Escape", ""},
		{"arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift), []string{"ShiftLeft"}, "ArrowUp", ""},
		{"function", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), nil, "F5", ""},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), []string{"ShiftLeft"}, "Tab", ""},
		{"page down", tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModCtrl), []string{"ControlLeft"}, "PageDown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mods, code, text := Translate(tt.ev)
			assert.Equal(t, tt.mods, mods)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.text, text)
		})
	}
}

func TestTranslateControlLetter(t *testing.T) {
	mods, code, _ := Translate(tcell.NewEventKey(tcell.KeyCtrlK, 0, tcell.ModCtrl))
	assert.Equal(t, []string{"ControlLeft"}, mods)
	assert.Equal(t, "KeyK", code)
}

func TestHandleEventSynthesizesRelease(t *testing.T) {
	rec := &recorder{}
	s := NewWithScreen(tcell.NewSimulationScreen("UTF-8"))
	require.NoError(t, s.Attach(rec))

	assert.True(t, s.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModCtrl|tcell.ModAlt)))
	assert.Equal(t, []string{
		"down ControlLeft",
		"down AltLeft",
		"down KeyX",
		"up KeyX",
		"up AltLeft",
		"up ControlLeft",
	}, rec.take())

	s.Detach()
	s.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	assert.Empty(t, rec.take())
}

func TestHandleEventInterrupt(t *testing.T) {
	s := NewWithScreen(tcell.NewSimulationScreen("UTF-8"))

	ran := false
	assert.True(t, s.HandleEvent(tcell.NewEventInterrupt(func() { ran = true })))
	assert.True(t, ran)

	assert.False(t, s.HandleEvent(tcell.NewEventInterrupt(stopSignal{})))
}

func TestEngineReceivesTerminalKeys(t *testing.T) {
	s := NewWithScreen(tcell.NewSimulationScreen("UTF-8"))
	e, err := input.New(s)
	require.NoError(t, err)

	fired := 0
	_, err = e.Bind("alt+shift+p", func(*input.Event) { fired++ }, keymap.Options{})
	require.NoError(t, err)

	s.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'P', tcell.ModAlt))
	assert.Equal(t, 1, fired)
	assert.Empty(t, e.PressedKeys())
}

func TestRunAndPost(t *testing.T) {
	s := NewWithScreen(tcell.NewSimulationScreen("UTF-8"))
	assert.ErrorIs(t, s.Post(func() {}), ErrNotRunning)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()

	posted := make(chan struct{})
	require.Eventually(t, func() bool {
		err := s.Post(func() { close(posted) })
		return !errors.Is(err, ErrNotRunning)
	}, time.Second, 5*time.Millisecond)

	select {
	case <-posted:
	case <-time.After(time.Second):
		t.Fatal("posted function did not run")
	}

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
