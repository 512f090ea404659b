package input

import (
	"log/slog"
	"time"

	"github.com/dshills/keychord/internal/input/keymap"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards all records.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock sets the time source used for sequence timing.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithSequenceTimeout sets the timeout for sequential shortcuts
// registered without one. Non-positive values are ignored.
func WithSequenceTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.sequenceTimeout = d
		}
	}
}

// WithFiredHook sets the function called after any shortcut's handler
// returns.
func WithFiredHook(fn func(*keymap.Shortcut)) Option {
	return func(e *Engine) {
		e.fired = fn
	}
}

// WithMetrics sets the metrics collector. Pass nil to use a private one.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}
