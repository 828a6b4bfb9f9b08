package inspect

import (
	"log/slog"
	"sync"

	"github.com/vango-dev/shadow/pkg/render"
)

// DefaultSubscriberBuffer is the number of commits queued per subscriber.
const DefaultSubscriberBuffer = 32

// Hub fans commits out to stream subscribers. A subscriber whose queue is
// full misses commits rather than blocking the publisher.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan render.Commit]struct{}
	buffer int
	logger *slog.Logger
}

// NewHub creates a Hub. A nil logger uses slog.Default().
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[chan render.Commit]struct{}),
		buffer: DefaultSubscriberBuffer,
		logger: logger,
	}
}

// Publish delivers c to every subscriber without blocking.
// It matches render.OnCommit so a Recorder can feed the Hub directly.
func (h *Hub) Publish(c render.Commit) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- c:
		default:
			h.logger.Warn("stream subscriber lagging, commit dropped", "seq", c.Seq)
		}
	}
}

// Subscribe registers a new subscriber. The returned cancel func
// unregisters it and closes the channel; it is safe to call twice.
func (h *Hub) Subscribe() (<-chan render.Commit, func()) {
	ch := make(chan render.Commit, h.buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
