package input

import (
	"time"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
)

// outcome is the result of feeding one key to a sequence buffer.
type outcome int

const (
	// outcomeNone means no buffer exists and the key cannot start one.
	outcomeNone outcome = iota
	// outcomePending means the buffer needs more keys.
	outcomePending
	// outcomeSatisfied means the sequence completed.
	outcomeSatisfied
	// outcomeMismatch means the buffer was full and wrong.
	outcomeMismatch
)

// evaluation caches the outcome of one expected sequence for the current
// key-down, so shortcuts sharing a buffer advance it once.
type evaluation struct {
	keys    key.Combination
	outcome outcome
}

// KeyDown processes a key press. It implements Listener.
func (e *Engine) KeyDown(ev *Event) {
	start := time.Now()
	now := e.now()
	k := ev.Key()

	e.press(k)
	e.typing.emit(TypingEvent{Key: ev.Text, Event: ev})

	var evals []evaluation
	for _, s := range e.registry.All() {
		if e.destroyed {
			break
		}
		if !s.Enabled {
			continue
		}
		if sc := s.Scope(); sc != "" && sc != e.scopes.Active() {
			continue
		}

		if s.Sequential() {
			var result outcome
			evals, result = e.evaluate(evals, s, k, now)
			if result == outcomeSatisfied {
				e.fire(s, ev)
			}
			continue
		}

		if e.chordHeld(s.Keys) {
			e.fire(s, ev)
			break
		}
	}

	e.purge(now)
	e.metrics.RecordKeyDown(time.Since(start))
}

// KeyUp processes a key release. It implements Listener.
func (e *Engine) KeyUp(ev *Event) {
	e.release(ev.Key())
	e.metrics.RecordKeyUp()
}

// evaluate feeds k to the buffer for s.Keys, reusing an outcome already
// computed for identical keys during this key-down.
func (e *Engine) evaluate(evals []evaluation, s *keymap.Shortcut, k key.Key, now time.Time) ([]evaluation, outcome) {
	for _, ev := range evals {
		if ev.keys.Equal(s.Keys) {
			return evals, ev.outcome
		}
	}

	result := e.advance(s, k, now)
	return append(evals, evaluation{keys: s.Keys, outcome: result}), result
}

// advance applies one key to the sequence buffer of s.
func (e *Engine) advance(s *keymap.Shortcut, k key.Key, now time.Time) outcome {
	expected := s.Keys
	buf := e.buffer(expected)

	if buf == nil {
		if k != expected.First() {
			return outcomeNone
		}
		if len(expected) == 1 {
			return outcomeSatisfied
		}
		e.sequences = append(e.sequences, newSequenceBuffer(expected, k, now))
		return outcomePending
	}

	buf.push(k, now)
	if dropped := buf.expire(now, s.Options.Timeout()); dropped > 0 {
		e.metrics.RecordSequenceTimeout()
	}

	switch {
	case buf.satisfied():
		e.dropBuffer(buf)
		return outcomeSatisfied
	case buf.full():
		e.dropBuffer(buf)
		e.metrics.RecordSequenceMismatch()
		e.logger.Debug("sequence mismatch", "expected", expected.String(), "entered", buf.entered().String())
		return outcomeMismatch
	}
	return outcomePending
}

// fire runs a shortcut's handler, then the fired notification.
func (e *Engine) fire(s *keymap.Shortcut, ev *Event) {
	if s.Options.PreventDefault {
		ev.PreventDefault()
	}
	s.Handler(ev)

	e.metrics.RecordFired()
	e.logger.Debug("shortcut fired", "id", s.ID, "keys", s.Keys.String(), "scope", s.Scope())
	if e.fired != nil {
		e.fired(s)
	}
}

// chordHeld returns true if every key in keys is pressed.
func (e *Engine) chordHeld(keys key.Combination) bool {
	for _, k := range keys {
		if !e.isPressed(k) {
			return false
		}
	}
	return true
}

// purge drops buffers whose oldest entry is older than the timeout of the
// first shortcut with the same keys.
func (e *Engine) purge(now time.Time) {
	kept := e.sequences[:0]
	for _, b := range e.sequences {
		timeout, ok := e.registry.Timeout(b.keys)
		if !ok {
			timeout = e.sequenceTimeout
		}
		if now.Sub(b.started()) <= timeout {
			kept = append(kept, b)
			continue
		}
		e.metrics.RecordSequenceTimeout()
	}
	for i := len(kept); i < len(e.sequences); i++ {
		e.sequences[i] = nil
	}
	e.sequences = kept
}

func (e *Engine) buffer(keys key.Combination) *sequenceBuffer {
	for _, b := range e.sequences {
		if b.keys.Equal(keys) {
			return b
		}
	}
	return nil
}

func (e *Engine) dropBuffer(buf *sequenceBuffer) {
	for i, b := range e.sequences {
		if b == buf {
			e.sequences = append(e.sequences[:i], e.sequences[i+1:]...)
			return
		}
	}
}

func (e *Engine) press(k key.Key) {
	if !e.isPressed(k) {
		e.pressed = append(e.pressed, k)
	}
}

func (e *Engine) release(k key.Key) {
	for i, p := range e.pressed {
		if p == k {
			e.pressed = append(e.pressed[:i], e.pressed[i+1:]...)
			return
		}
	}
}

func (e *Engine) isPressed(k key.Key) bool {
	for _, p := range e.pressed {
		if p == k {
			return true
		}
	}
	return false
}
