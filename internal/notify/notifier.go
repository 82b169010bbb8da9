package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/broadside/internal/storage"
)

// DefaultPollInterval is how often channel flags are polled when a channel
// has subscribers
const DefaultPollInterval = 500 * time.Millisecond

// Notifier is the change-notification fan-out. State changes raise a
// level-triggered flag in the store; while a channel has subscribers a
// poller consumes the flag at a fixed interval and emits one wake to every
// subscriber. Changes between polls coalesce into a single wake.
//
// The flag lives in the store rather than in process memory so that
// horizontally scaled instances observe each other's signals.
type Notifier struct {
	storage  storage.Storage
	logger   *slog.Logger
	interval time.Duration

	mu   sync.Mutex
	hubs map[string]*hub
}

// New creates a Notifier polling at the given interval; zero means
// DefaultPollInterval
func New(storage storage.Storage, interval time.Duration, logger *slog.Logger) *Notifier {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Notifier{
		storage:  storage,
		logger:   logger.With(slog.String("component", "notify")),
		interval: interval,
		hubs:     make(map[string]*hub),
	}
}

// Signal raises the channel's flag. Subscribers are woken on the next poll;
// repeated signals before then coalesce.
func (n *Notifier) Signal(ctx context.Context, channel string) {
	if err := n.storage.SetFlag(ctx, channel); err != nil {
		n.logger.Error("failed to raise change flag",
			slog.String("channel", channel),
			slog.String("error", err.Error()),
		)
	}
}

// Subscription is one subscriber's wake stream. C receives one value per
// observed flag raise; Close releases the subscription.
type Subscription struct {
	ID      string
	C       <-chan struct{}
	channel string
	ch      chan struct{}
	n       *Notifier
	once    sync.Once
}

// Close releases the subscription; the channel's poller stops when its
// last subscriber leaves
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.n.unsubscribe(s.channel, s)
	})
}

// Subscribe registers a wake-event subscriber on a channel, starting the
// channel's poller if it is the first
func (n *Notifier) Subscribe(channel string) *Subscription {
	sub := &Subscription{
		ID:      uuid.NewString(),
		channel: channel,
		ch:      make(chan struct{}, 1),
		n:       n,
	}
	sub.C = sub.ch

	n.mu.Lock()
	h, ok := n.hubs[channel]
	if !ok {
		h = newHub(channel)
		n.hubs[channel] = h
		go n.poll(h)
	}
	h.add(sub)
	n.mu.Unlock()

	n.logger.Debug("subscriber registered",
		slog.String("channel", channel),
		slog.String("subscriber", sub.ID),
	)
	return sub
}

func (n *Notifier) unsubscribe(channel string, sub *Subscription) {
	n.mu.Lock()
	h, ok := n.hubs[channel]
	if ok {
		h.remove(sub)
		if h.empty() {
			close(h.done)
			delete(n.hubs, channel)
		}
	}
	n.mu.Unlock()
}

// poll consumes the channel's flag on a fixed cadence and broadcasts a
// wake whenever it was set
func (n *Notifier) poll(h *hub) {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), n.interval)
			set, err := n.storage.ConsumeFlag(ctx, h.channel)
			cancel()
			if err != nil {
				n.logger.Warn("change flag poll failed",
					slog.String("channel", h.channel),
					slog.String("error", err.Error()),
				)
				continue
			}
			if set {
				h.broadcast()
			}
		}
	}
}
