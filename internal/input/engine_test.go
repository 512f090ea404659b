package input

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/input/scope"
)

// fakeSource delivers events synchronously to the attached listener.
type fakeSource struct {
	listener  Listener
	attachErr error
	attaches  int
	detaches  int
}

func (f *fakeSource) Attach(l Listener) error {
	if f.attachErr != nil {
		return f.attachErr
	}
	f.listener = l
	f.attaches++
	return nil
}

func (f *fakeSource) Detach() {
	f.listener = nil
	f.detaches++
}

func (f *fakeSource) down(codes ...string) *Event {
	var last *Event
	for _, c := range codes {
		last = &Event{Code: c, Text: c}
		if f.listener != nil {
			f.listener.KeyDown(last)
		}
	}
	return last
}

func (f *fakeSource) up(codes ...string) {
	for _, c := range codes {
		if f.listener != nil {
			f.listener.KeyUp(&Event{Code: c, Text: c})
		}
	}
}

// tap presses and releases each code in turn.
func (f *fakeSource) tap(codes ...string) {
	for _, c := range codes {
		f.down(c)
		f.up(c)
	}
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type harness struct {
	src    *fakeSource
	clock  *fakeClock
	engine *Engine
	logs   *bytes.Buffer
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		src:   &fakeSource{},
		clock: &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		logs:  &bytes.Buffer{},
	}
	logger := slog.New(slog.NewTextHandler(h.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	opts = append([]Option{WithClock(h.clock.Now), WithLogger(logger)}, opts...)

	e, err := New(h.src, opts...)
	require.NoError(t, err)
	h.engine = e
	return h
}

// counter returns a handler that counts its calls.
func counter(n *int) Handler {
	return func(*Event) { *n++ }
}

func combos(specs ...string) []key.Combination {
	out := make([]key.Combination, len(specs))
	for i, s := range specs {
		out[i] = key.MustParse(s)
	}
	return out
}

func sequence(spec string) []key.Combination {
	c, err := key.ParseSequence(spec)
	if err != nil {
		panic(err)
	}
	return []key.Combination{c}
}

func TestNewRequiresSource(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNoInputSource)
}

func TestNewWrapsAttachError(t *testing.T) {
	boom := errors.New("no terminal")
	_, err := New(&fakeSource{attachErr: boom})
	assert.ErrorIs(t, err, boom)
}

func TestChordFiresWithEitherModifierSide(t *testing.T) {
	h := newHarness(t)
	var n int
	_, err := h.engine.Register(combos("ctrl+k"), counter(&n), keymap.Options{})
	require.NoError(t, err)

	h.src.down("ControlLeft", "KeyK")
	h.src.up("KeyK", "ControlLeft")
	h.src.down("ControlRight", "KeyK")
	h.src.up("KeyK", "ControlRight")

	assert.Equal(t, 2, n)
}

func TestChordIgnoresOrderOfPresses(t *testing.T) {
	h := newHarness(t)
	var n int
	_, err := h.engine.Register(combos("ctrl+k"), counter(&n), keymap.Options{})
	require.NoError(t, err)

	h.src.down("KeyK", "ControlLeft")
	assert.Equal(t, 1, n)
}

func TestRegisterReplacesIdenticalCombination(t *testing.T) {
	h := newHarness(t)
	var first, second int
	_, err := h.engine.Register(combos("ctrl+k"), counter(&first), keymap.Options{})
	require.NoError(t, err)
	reg, err := h.engine.Register(combos("ctrl+k"), counter(&second), keymap.Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, reg.Replaced)
	assert.Len(t, h.engine.Shortcuts(), 2)

	h.src.down("ControlLeft", "KeyK")
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestSequenceWithinTimeoutFires(t *testing.T) {
	h := newHarness(t)
	var n int
	_, err := h.engine.Register(sequence("g g"), counter(&n), keymap.Options{
		Sequential:      true,
		SequenceTimeout: 500 * time.Millisecond,
	})
	require.NoError(t, err)

	h.src.tap("KeyG")
	h.clock.Advance(200 * time.Millisecond)
	h.src.tap("KeyG")

	assert.Equal(t, 1, n)
	assert.Empty(t, h.engine.PendingSequences())
}

func TestSequenceAfterTimeoutDoesNotFire(t *testing.T) {
	h := newHarness(t)
	var n int
	_, err := h.engine.Register(sequence("g g"), counter(&n), keymap.Options{
		Sequential:      true,
		SequenceTimeout: 500 * time.Millisecond,
	})
	require.NoError(t, err)

	h.src.tap("KeyG")
	h.clock.Advance(600 * time.Millisecond)
	h.src.tap("KeyG")
	assert.Equal(t, 0, n)

	// The late press starts a fresh attempt.
	h.clock.Advance(100 * time.Millisecond)
	h.src.tap("KeyG")
	assert.Equal(t, 1, n)
}

func TestSequenceMismatchDestroysBuffer(t *testing.T) {
	h := newHarness(t)
	var n int
	_, err := h.engine.Register(sequence("g g"), counter(&n), keymap.Options{Sequential: true})
	require.NoError(t, err)

	h.src.tap("KeyG")
	require.Len(t, h.engine.PendingSequences(), 1)
	pending := h.engine.PendingSequences()[0]
	assert.True(t, pending.Keys.Equal(key.Keys("g", "g")))
	assert.True(t, pending.Entered.Equal(key.Keys("g")))

	h.src.tap("KeyX")
	assert.Empty(t, h.engine.PendingSequences())
	assert.Equal(t, uint64(1), h.engine.Metrics().Snapshot().SequenceMismatches)

	h.src.tap("KeyG")
	assert.Equal(t, 0, n)
	h.src.tap("KeyG")
	assert.Equal(t, 1, n)
}

func TestSequenceUsesDefaultTimeout(t *testing.T) {
	h := newHarness(t, WithSequenceTimeout(300*time.Millisecond))
	var n int
	_, err := h.engine.Register(sequence("a b"), counter(&n), keymap.Options{Sequential: true})
	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, h.engine.Shortcuts()[0].Options.SequenceTimeout)

	h.src.tap("KeyA")
	h.clock.Advance(400 * time.Millisecond)
	h.src.tap("KeyB")
	assert.Equal(t, 0, n)
}

func TestSingleKeySequenceFiresImmediately(t *testing.T) {
	h := newHarness(t)
	var n int
	_, err := h.engine.Register(sequence("q"), counter(&n), keymap.Options{Sequential: true})
	require.NoError(t, err)

	h.src.tap("KeyQ")
	assert.Equal(t, 1, n)
	assert.Empty(t, h.engine.PendingSequences())
}

func TestChordShortCircuitsButSequencesDoNot(t *testing.T) {
	h := newHarness(t)
	var seq, chordA, chordB int
	_, err := h.engine.Register(sequence("a b"), counter(&seq), keymap.Options{Sequential: true})
	require.NoError(t, err)
	_, err = h.engine.Register(combos("b"), counter(&chordA), keymap.Options{})
	require.NoError(t, err)
	_, err = h.engine.Register(combos("b"), counter(&chordB), keymap.Options{Scope: scope.Global})
	require.NoError(t, err)
	var later int
	_, err = h.engine.Register(combos("b+c"), counter(&later), keymap.Options{})
	require.NoError(t, err)

	h.src.down("KeyC", "KeyA", "KeyB")

	assert.Equal(t, 1, seq, "sequence fires and evaluation continues")
	assert.Equal(t, 0, chordA, "replaced by the second registration")
	assert.Equal(t, 1, chordB, "first matching chord stops evaluation")
	assert.Equal(t, 0, later, "shortcuts after a fired chord are skipped")
}

func TestPurgeRunsAfterChordShortCircuit(t *testing.T) {
	h := newHarness(t)
	var chord int
	_, err := h.engine.Register(combos("x"), counter(&chord), keymap.Options{})
	require.NoError(t, err)
	_, err = h.engine.Register(sequence("g g"), func(*Event) {}, keymap.Options{
		Sequential:      true,
		SequenceTimeout: 500 * time.Millisecond,
	})
	require.NoError(t, err)

	h.src.tap("KeyG")
	require.Len(t, h.engine.PendingSequences(), 1)

	h.clock.Advance(time.Second)
	h.src.tap("KeyX")
	assert.Equal(t, 1, chord)
	assert.Empty(t, h.engine.PendingSequences())
}

func TestScopedShortcutsOnlyFireInActiveScope(t *testing.T) {
	h := newHarness(t)
	var global, modal int
	reg, err := h.engine.Register(combos("esc"), counter(&global), keymap.Options{})
	require.NoError(t, err)
	assert.Equal(t, scope.Global, reg.Scope)

	reg, err = h.engine.Register(combos("enter"), counter(&modal), keymap.Options{Scope: "modal"})
	require.NoError(t, err)
	assert.Equal(t, "modal", reg.Scope)
	assert.Equal(t, "modal", h.engine.ActiveScope())

	h.src.tap("Escape", "Enter")
	assert.Equal(t, 0, global)
	assert.Equal(t, 1, modal)

	name, ok := h.engine.PopScope()
	require.True(t, ok)
	assert.Equal(t, "modal", name)

	h.src.tap("Escape", "Enter")
	assert.Equal(t, 1, global)
	assert.Equal(t, 1, modal)
}

func TestRegisterResolvesActiveScope(t *testing.T) {
	h := newHarness(t)
	h.engine.PushScope("editor")

	reg, err := h.engine.Register(combos("ctrl+s"), func(*Event) {}, keymap.Options{})
	require.NoError(t, err)
	assert.Equal(t, "editor", reg.Scope)
	assert.Equal(t, []string{"editor", "editor"}, h.engine.ScopeHistory())
	for _, s := range h.engine.Shortcuts() {
		assert.Equal(t, "editor", s.Scope())
	}
}

func TestRegisterPushesScopeOncePerCall(t *testing.T) {
	h := newHarness(t)
	_, err := h.engine.Register(combos("ctrl+a", "ctrl+b"), func(*Event) {}, keymap.Options{Scope: "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, h.engine.ScopeHistory())
}

func TestDisableAndEnableAll(t *testing.T) {
	h := newHarness(t)
	var n int
	_, err := h.engine.Register(combos("ctrl+k"), counter(&n), keymap.Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, h.engine.Disable(key.MustParse("ctrl+k"), ""))
	h.src.down("ControlLeft", "KeyK")
	h.src.up("KeyK", "ControlLeft")
	assert.Equal(t, 0, n)

	h.engine.EnableAll()
	h.src.down("ControlLeft", "KeyK")
	assert.Equal(t, 1, n)
}

func TestEnableDisableSidedCombination(t *testing.T) {
	h := newHarness(t)
	var n int
	_, err := h.engine.Register(combos("ctrl+k"), counter(&n), keymap.Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, h.engine.Disable(key.MustParse("ctrl (right)+k"), scope.Global))
	h.src.down("ControlRight", "KeyK")
	h.src.up("KeyK", "ControlRight")
	assert.Equal(t, 0, n)

	h.src.down("ControlLeft", "KeyK")
	assert.Equal(t, 1, n)

	assert.Equal(t, 1, h.engine.Toggle(key.MustParse("ctrl (right)+k"), ""))
	assert.True(t, h.engine.Shortcuts()[1].Enabled)
}

func TestNoMatchLogsWarning(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 0, h.engine.Enable(key.MustParse("ctrl+z"), "editor"))
	assert.Contains(t, h.logs.String(), "level=WARN")
	assert.Contains(t, h.logs.String(), "no matching shortcut")
	assert.Contains(t, h.logs.String(), "scope=editor")
}

func TestDisableAllByScope(t *testing.T) {
	h := newHarness(t)
	_, err := h.engine.Register(combos("a"), func(*Event) {}, keymap.Options{Scope: "one"})
	require.NoError(t, err)
	_, err = h.engine.Register(combos("b"), func(*Event) {}, keymap.Options{Scope: "two"})
	require.NoError(t, err)

	assert.Equal(t, 1, h.engine.DisableAll("one"))
	shortcuts := h.engine.Shortcuts()
	assert.False(t, shortcuts[0].Enabled)
	assert.True(t, shortcuts[1].Enabled)
}

func TestCheatSheetDeduplicatesVariants(t *testing.T) {
	h := newHarness(t)
	_, err := h.engine.Register(combos("ctrl+s", "meta+s"), func(*Event) {}, keymap.Options{
		Data: keymap.NewMetadata("id", "save", "description", "Save file"),
	})
	require.NoError(t, err)

	sheet := h.engine.CheatSheet()
	require.Len(t, sheet, 1)
	assert.Equal(t, "save", sheet[0].ID)
	assert.Equal(t, []string{"CTRL + S", "META + S"}, sheet[0].Keys)
	assert.Equal(t, "Save file", sheet[0].Data.Value("description"))
}

func TestCheatSheetMergesSidedModifiers(t *testing.T) {
	h := newHarness(t)
	bindings := []key.Combination{
		key.Keys("ctrl(left)", "s"),
		key.Keys("ctrl(right)", "s"),
	}
	_, err := h.engine.Register(bindings, func(*Event) {}, keymap.Options{
		Scope: "editor",
		Data:  keymap.NewMetadata("id", "save"),
	})
	require.NoError(t, err)

	sheet := h.engine.CheatSheet("editor")
	require.Len(t, sheet, 1)
	assert.Equal(t, "save", sheet[0].ID)
	assert.Equal(t, []string{"CTRL + S"}, sheet[0].Keys)

	var n int
	_, err = h.engine.Register(bindings[:1], counter(&n), keymap.Options{Scope: "editor"})
	require.NoError(t, err)
	h.src.down("ControlLeft", "KeyS")
	assert.Equal(t, 1, n)
}

func TestUnregisterAndScopesInfo(t *testing.T) {
	h := newHarness(t)
	_, err := h.engine.Register(combos("ctrl+k"), func(*Event) {}, keymap.Options{ID: "k"})
	require.NoError(t, err)
	_, err = h.engine.Register(combos("esc"), func(*Event) {}, keymap.Options{ID: "close", Scope: "modal"})
	require.NoError(t, err)

	assert.Equal(t, 2, h.engine.Unregister(key.MustParse("ctrl+k"), ""))
	assert.Equal(t, 0, h.engine.Unregister(key.MustParse("esc"), ""))

	infos := h.engine.ScopesInfo()
	require.Len(t, infos, 1)
	assert.Equal(t, "modal", infos[0].Name)
	assert.True(t, infos[0].Active)
	assert.Equal(t, []string{"ESC"}, infos[0].Shortcuts[0].Keys)

	_, ok := h.engine.ScopeInfo(scope.Global)
	assert.False(t, ok)
}

func TestRegistrationIDs(t *testing.T) {
	h := newHarness(t)

	reg, err := h.engine.Register(combos("a"), func(*Event) {}, keymap.Options{ID: "explicit"})
	require.NoError(t, err)
	assert.Equal(t, "explicit", reg.ID)

	reg, err = h.engine.Register(combos("b"), func(*Event) {}, keymap.Options{Data: keymap.NewMetadata("id", "from-data")})
	require.NoError(t, err)
	assert.Equal(t, "from-data", reg.ID)

	reg, err = h.engine.Register(combos("c"), func(*Event) {}, keymap.Options{})
	require.NoError(t, err)
	_, err = uuid.Parse(reg.ID)
	assert.NoError(t, err)
}

func TestRegisterValidation(t *testing.T) {
	h := newHarness(t)

	_, err := h.engine.Register(combos("a"), nil, keymap.Options{})
	assert.ErrorIs(t, err, ErrNilHandler)

	_, err = h.engine.Register(nil, func(*Event) {}, keymap.Options{})
	assert.ErrorIs(t, err, ErrNoBindings)

	_, err = h.engine.Register([]key.Combination{{}}, func(*Event) {}, keymap.Options{})
	assert.ErrorIs(t, err, ErrNoBindings)

	_, err = h.engine.Bind("ctrl+nope", func(*Event) {}, keymap.Options{})
	assert.ErrorIs(t, err, key.ErrUnknownKey)
}

func TestBindSequence(t *testing.T) {
	h := newHarness(t)
	var n int
	_, err := h.engine.Bind("ctrl, k", counter(&n), keymap.Options{Sequential: true})
	require.NoError(t, err)
	assert.Len(t, h.engine.Shortcuts(), 2)

	h.src.tap("ControlRight", "KeyK")
	assert.Equal(t, 1, n)

	// The buffer for the left variant is never seeded by the right key.
	assert.Empty(t, h.engine.PendingSequences())
}

func TestPreventDefault(t *testing.T) {
	h := newHarness(t)
	_, err := h.engine.Register(combos("ctrl+s"), func(*Event) {}, keymap.Options{PreventDefault: true})
	require.NoError(t, err)
	_, err = h.engine.Register(combos("ctrl+o"), func(*Event) {}, keymap.Options{})
	require.NoError(t, err)

	h.src.down("ControlLeft")
	ev := h.src.down("KeyS")
	assert.True(t, ev.DefaultPrevented())
	h.src.up("KeyS")

	ev = h.src.down("KeyO")
	assert.False(t, ev.DefaultPrevented())
}

func TestFiredHookRunsAfterHandler(t *testing.T) {
	var order []string
	h := newHarness(t, WithFiredHook(func(s *keymap.Shortcut) {
		order = append(order, "fired:"+s.ID)
	}))
	_, err := h.engine.Register(combos("a"), func(*Event) { order = append(order, "handler") }, keymap.Options{ID: "a"})
	require.NoError(t, err)

	h.src.tap("KeyA")
	assert.Equal(t, []string{"handler", "fired:a"}, order)
	assert.Equal(t, uint64(1), h.engine.Metrics().Snapshot().Fired)
}

func TestPanickingHandlerSuppressesFired(t *testing.T) {
	fired := 0
	h := newHarness(t, WithFiredHook(func(*keymap.Shortcut) { fired++ }))
	_, err := h.engine.Register(sequence("g g"), func(*Event) { panic("handler failed") }, keymap.Options{Sequential: true})
	require.NoError(t, err)

	h.src.tap("KeyG")
	assert.Panics(t, func() { h.src.down("KeyG") })
	assert.Equal(t, 0, fired)
	assert.Empty(t, h.engine.PendingSequences(), "buffer is destroyed before the handler runs")
}

func TestOnFiredReplacesHook(t *testing.T) {
	h := newHarness(t)
	var got []string
	h.engine.OnFired(func(s *keymap.Shortcut) { got = append(got, s.ID) })
	_, err := h.engine.Register(combos("a"), func(*Event) {}, keymap.Options{ID: "x"})
	require.NoError(t, err)

	h.src.tap("KeyA")
	assert.Equal(t, []string{"x"}, got)
}

func TestTypingSubscribers(t *testing.T) {
	h := newHarness(t)
	var a, b []string
	unsubA := h.engine.OnTyping(func(ev TypingEvent) { a = append(a, ev.Key) })
	h.engine.OnTyping(func(ev TypingEvent) { b = append(b, ev.Event.Code) })
	assert.Equal(t, 2, h.engine.typing.count())

	h.src.tap("KeyA")
	unsubA()
	unsubA()
	h.src.tap("KeyB")

	assert.Equal(t, []string{"KeyA"}, a)
	assert.Equal(t, []string{"KeyA", "KeyB"}, b)
	assert.Equal(t, 1, h.engine.typing.count())
}

func TestPressedKeys(t *testing.T) {
	h := newHarness(t)
	h.src.down("ShiftLeft", "KeyA", "Unidentified")
	assert.Equal(t, []key.Key{"a", "shift (left)", "unidentified"}, h.engine.PressedKeys())

	h.src.up("KeyA", "Unidentified")
	assert.Equal(t, []key.Key{"shift (left)"}, h.engine.PressedKeys())
}

func TestUnrecognizedCodesMatchFolded(t *testing.T) {
	h := newHarness(t)
	var n int
	_, err := h.engine.Register([]key.Combination{key.Keys("Hyper")}, counter(&n), keymap.Options{})
	require.NoError(t, err)

	h.src.tap("Hyper")
	assert.Equal(t, 1, n)
}

func TestClearKeepsRegistry(t *testing.T) {
	h := newHarness(t)
	var n int
	_, err := h.engine.Register(combos("a"), counter(&n), keymap.Options{Scope: "x"})
	require.NoError(t, err)
	h.src.down("ShiftLeft")

	h.engine.Clear()
	assert.False(t, h.engine.Attached())
	assert.Equal(t, 1, h.src.detaches)
	assert.Empty(t, h.engine.PressedKeys())
	assert.Equal(t, scope.Global, h.engine.ActiveScope())
	assert.Len(t, h.engine.Shortcuts(), 1)

	h.src.tap("KeyA")
	assert.Equal(t, 0, n, "no events while detached")

	require.NoError(t, h.engine.Start())
	require.NoError(t, h.engine.Start())
	assert.Equal(t, 2, h.src.attaches)

	h.engine.PushScope("x")
	h.src.tap("KeyA")
	assert.Equal(t, 1, n)
	assert.Contains(t, h.logs.String(), "engine cleared")
}

func TestDestroy(t *testing.T) {
	h := newHarness(t)
	_, err := h.engine.Register(combos("a"), func(*Event) {}, keymap.Options{})
	require.NoError(t, err)

	h.engine.Destroy()
	h.engine.Destroy()
	assert.Empty(t, h.engine.Shortcuts())
	assert.Equal(t, scope.Global, h.engine.ActiveScope())

	_, err = h.engine.Register(combos("a"), func(*Event) {}, keymap.Options{})
	assert.ErrorIs(t, err, ErrDestroyed)
	assert.ErrorIs(t, h.engine.Start(), ErrDestroyed)
	assert.Contains(t, h.logs.String(), "engine destroyed")
}

func TestHandlerCanRegisterDuringDispatch(t *testing.T) {
	h := newHarness(t)
	var late int
	_, err := h.engine.Register(combos("a"), func(*Event) {
		_, _ = h.engine.Register(combos("b"), counter(&late), keymap.Options{})
	}, keymap.Options{})
	require.NoError(t, err)

	h.src.tap("KeyA")
	assert.Equal(t, 0, late)
	h.src.tap("KeyB")
	assert.Equal(t, 1, late)
}

func TestOnScopeChange(t *testing.T) {
	h := newHarness(t)
	var changes []string
	h.engine.OnScopeChange(func(from, to string) { changes = append(changes, from+">"+to) })

	h.engine.PushScope("a")
	h.engine.ResetScope()
	assert.Equal(t, []string{"global>a", "a>global"}, changes)
}
