package input

import (
	"time"

	"github.com/dshills/keychord/internal/input/key"
)

// entry is one key recorded by a sequence buffer.
type entry struct {
	key key.Key
	at  time.Time
}

// sequenceBuffer tracks progress through one expected sequence. Every
// shortcut with identical keys shares a buffer.
type sequenceBuffer struct {
	keys    key.Combination
	entries []entry
}

func newSequenceBuffer(keys key.Combination, first key.Key, at time.Time) *sequenceBuffer {
	b := &sequenceBuffer{
		keys:    keys,
		entries: make([]entry, 0, len(keys)),
	}
	b.push(first, at)
	return b
}

func (b *sequenceBuffer) push(k key.Key, at time.Time) {
	b.entries = append(b.entries, entry{key: k, at: at})
}

// expire drops entries older than timeout and returns how many were
// dropped.
func (b *sequenceBuffer) expire(now time.Time, timeout time.Duration) int {
	kept := b.entries[:0]
	for _, e := range b.entries {
		if now.Sub(e.at) <= timeout {
			kept = append(kept, e)
		}
	}
	dropped := len(b.entries) - len(kept)
	b.entries = kept
	return dropped
}

// full returns true when as many keys were entered as expected.
func (b *sequenceBuffer) full() bool {
	return len(b.entries) == len(b.keys)
}

// satisfied returns true when the entered keys equal the expected keys.
func (b *sequenceBuffer) satisfied() bool {
	return b.full() && b.entered().Equal(b.keys)
}

func (b *sequenceBuffer) entered() key.Combination {
	out := make(key.Combination, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.key
	}
	return out
}

// started returns the time of the oldest entry.
func (b *sequenceBuffer) started() time.Time {
	if len(b.entries) == 0 {
		return time.Time{}
	}
	return b.entries[0].at
}

// PendingSequence describes a partially entered sequence.
type PendingSequence struct {
	// Keys is the expected sequence.
	Keys key.Combination

	// Entered holds the keys recorded so far.
	Entered key.Combination

	// Started is when the oldest recorded key was pressed.
	Started time.Time
}

func (b *sequenceBuffer) pending() PendingSequence {
	return PendingSequence{
		Keys:    b.keys.Clone(),
		Entered: b.entered(),
		Started: b.started(),
	}
}
