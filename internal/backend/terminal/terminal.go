// Package terminal feeds terminal key presses into an input engine using
// tcell.
//
// Terminals report key presses but not releases, so each press is turned
// into a synthesized sequence: key-down for each held modifier, key-down
// and key-up for the key, then key-up for the modifiers in reverse order.
// The Source owns the input loop; work from other goroutines is posted to
// it with Post.
package terminal

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
)

// ErrNotRunning is returned by Post when the input loop is not running.
var ErrNotRunning = errors.New("terminal input loop not running")

// stopSignal wakes the loop when the context is done.
type stopSignal struct{}

// Source is an input.Source backed by a tcell screen.
type Source struct {
	screen tcell.Screen
	logger *slog.Logger

	mu       sync.Mutex
	listener input.Listener
	running  bool

	draw     func(tcell.Screen)
	onResize func(width, height int)
}

// Option configures a Source.
type Option func(*Source)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDraw sets a function called to repaint the screen after every
// event.
func WithDraw(fn func(tcell.Screen)) Option {
	return func(s *Source) {
		s.draw = fn
	}
}

// WithResize sets a function called when the terminal is resized.
func WithResize(fn func(width, height int)) Option {
	return func(s *Source) {
		s.onResize = fn
	}
}

// New creates a source for the controlling terminal.
func New(opts ...Option) (*Source, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, opts...), nil
}

// NewWithScreen creates a source reading from screen. The screen is
// initialized by Run.
func NewWithScreen(screen tcell.Screen, opts ...Option) *Source {
	s := &Source{
		screen: screen,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
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

// Screen returns the underlying screen.
func (s *Source) Screen() tcell.Screen {
	return s.screen
}

// Run initializes the screen and processes events until ctx is done.
// The screen is restored before Run returns.
func (s *Source) Run(ctx context.Context) error {
	if err := s.screen.Init(); err != nil {
		return err
	}
	defer s.screen.Fini()
	s.screen.EnablePaste()

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.screen.PostEvent(tcell.NewEventInterrupt(stopSignal{}))
		case <-done:
		}
	}()

	s.repaint()
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !s.HandleEvent(ev) {
			return nil
		}
		s.repaint()
	}
}

// Post runs fn on the input loop. It is safe to call from any goroutine.
func (s *Source) Post(fn func()) error {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if !running {
		return ErrNotRunning
	}
	return s.screen.PostEvent(tcell.NewEventInterrupt(fn))
}

// HandleEvent processes one tcell event. Returns false when the loop
// should stop.
func (s *Source) HandleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventKey:
		s.dispatch(e)

	case *tcell.EventInterrupt:
		switch data := e.Data().(type) {
		case stopSignal:
			return false
		case func():
			data()
		}

	case *tcell.EventResize:
		w, h := e.Size()
		s.screen.Sync()
		if s.onResize != nil {
			s.onResize(w, h)
		}

	case *tcell.EventError:
		s.logger.Error("terminal error", "error", e.Error())
	}
	return true
}

func (s *Source) dispatch(ev *tcell.EventKey) {
	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()
	if l == nil {
		return
	}

	mods, code, text := Translate(ev)
	if code == "" {
		s.logger.Debug("untranslatable key", "key", ev.Name())
		return
	}

	for _, m := range mods {
		l.KeyDown(&input.Event{Code: m})
	}
	l.KeyDown(&input.Event{Code: code, Text: text})
	l.KeyUp(&input.Event{Code: code, Text: text})
	for i := len(mods) - 1; i >= 0; i-- {
		l.KeyUp(&input.Event{Code: mods[i]})
	}
}

func (s *Source) repaint() {
	if s.draw == nil {
		return
	}
	s.screen.Clear()
	s.draw(s.screen)
	s.screen.Show()
}

// Translate converts a tcell key event into the physical identifiers of
// the held modifiers, the key itself and any text it types. code is empty
// for keys with no physical identifier.
func Translate(ev *tcell.EventKey) (mods []string, code, text string) {
	mod := ev.Modifiers()
	k := ev.Key()

	switch {
	case k == tcell.KeyRune:
		r := ev.Rune()
		c, shift, ok := key.RuneCode(r)
		if !ok {
			// Unknown characters still reach typing listeners.
			return modCodes(mod), string(r), string(r)
		}
		if shift {
			mod |= tcell.ModShift
		}
		code, text = c, string(r)

	case k == tcell.KeyBacktab:
		mod |= tcell.ModShift
		code = "Tab"

	case k == tcell.KeyCtrlSpace:
		mod |= tcell.ModCtrl
		code = "Space"

	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ && !isNamedControl(k):
		mod |= tcell.ModCtrl
		code = "Key" + string(rune('A'+(k-tcell.KeyCtrlA)))

	default:
		c, ok := specialKeys[k]
		if !ok {
			return nil, "", ""
		}
		code = c
	}
	return modCodes(mod), code, text
}

// isNamedControl reports control codes that tcell also names as keys.
func isNamedControl(k tcell.Key) bool {
	switch k {
	case tcell.KeyTab, tcell.KeyEnter, tcell.KeyBackspace:
		return true
	}
	return false
}

// modCodes returns the left-side identifiers for the modifiers in m, in
// ctrl, shift, alt, meta order.
func modCodes(m tcell.ModMask) []string {
	var codes []string
	if m&tcell.ModCtrl != 0 {
		codes = append(codes, "ControlLeft")
	}
	if m&tcell.ModShift != 0 {
		codes = append(codes, "ShiftLeft")
	}
	if m&tcell.ModAlt != 0 {
		codes = append(codes, "AltLeft")
	}
	if m&tcell.ModMeta != 0 {
		codes = append(codes, "MetaLeft")
	}
	return codes
}

var specialKeys = map[tcell.Key]string{
	tcell.KeyEscape:     "Escape",
	tcell.KeyEnter:      "Enter",
	tcell.KeyTab:        "Tab",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyDelete:     "Delete",
	tcell.KeyInsert:     "Insert",
	tcell.KeyHome:       "Home",
	tcell.KeyEnd:        "End",
	tcell.KeyPgUp:       "PageUp",
	tcell.KeyPgDn:       "PageDown",
	tcell.KeyUp:         "ArrowUp",
	tcell.KeyDown:       "ArrowDown",
	tcell.KeyLeft:       "ArrowLeft",
	tcell.KeyRight:      "ArrowRight",
	tcell.KeyF1:         "F1",
	tcell.KeyF2:         "F2",
	tcell.KeyF3:         "F3",
	tcell.KeyF4:         "F4",
	tcell.KeyF5:         "F5",
	tcell.KeyF6:         "F6",
	tcell.KeyF7:         "F7",
	tcell.KeyF8:         "F8",
	tcell.KeyF9:         "F9",
	tcell.KeyF10:        "F10",
	tcell.KeyF11:        "F11",
	tcell.KeyF12:        "F12",
}
