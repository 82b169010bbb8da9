package notify

import "sync"

// hub tracks the live subscribers of one channel
type hub struct {
	channel string
	done    chan struct{}

	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func newHub(channel string) *hub {
	return &hub{
		channel: channel,
		done:    make(chan struct{}),
		subs:    make(map[*Subscription]struct{}),
	}
}

func (h *hub) add(sub *Subscription) {
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) remove(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}

func (h *hub) empty() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs) == 0
}

// broadcast delivers one wake to every subscriber. Each subscription's
// buffer holds a single pending wake, so a subscriber that has not drained
// the last one is not woken twice.
func (h *hub) broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}
