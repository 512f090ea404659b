package input

// TypingEvent is delivered to typing subscribers on every key-down.
type TypingEvent struct {
	// Key is the produced key text, e.g. "k" or "Enter".
	Key string

	// Event is the raw event.
	Event *Event
}

// subscriptionID uniquely identifies a typing subscriber.
type subscriptionID uint64

type subscription struct {
	id subscriptionID
	fn func(TypingEvent)
}

// typingHub fans key-downs out to subscribers in subscription order.
type typingHub struct {
	subs   []subscription
	nextID subscriptionID
}

func newTypingHub() *typingHub {
	return &typingHub{
		subs: make([]subscription, 0),
	}
}

func (h *typingHub) subscribe(fn func(TypingEvent)) subscriptionID {
	h.nextID++
	h.subs = append(h.subs, subscription{id: h.nextID, fn: fn})
	return h.nextID
}

// unsubscribe removes a subscriber. Removing twice is a no-op.
func (h *typingHub) unsubscribe(id subscriptionID) bool {
	for i := range h.subs {
		if h.subs[i].id == id {
			subs := make([]subscription, 0, len(h.subs)-1)
			subs = append(subs, h.subs[:i]...)
			h.subs = append(subs, h.subs[i+1:]...)
			return true
		}
	}
	return false
}

// emit calls every subscriber. Subscribers added or removed during emit
// take effect on the next key-down.
func (h *typingHub) emit(ev TypingEvent) {
	for _, s := range h.subs {
		if s.fn != nil {
			s.fn(ev)
		}
	}
}

func (h *typingHub) count() int {
	return len(h.subs)
}
