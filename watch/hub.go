package watch

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// notifyTimeout bounds delivery to a single subscriber so one stalled
// connection cannot hold up the rest.
const notifyTimeout = 5 * time.Second

// lifecycle is the stop signal of a watcher's background work.
type lifecycle struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newLifecycle() lifecycle {
	ctx, cancel := context.WithCancel(context.Background())
	return lifecycle{ctx: ctx, cancel: cancel}
}

func (l lifecycle) stopped() bool         { return l.ctx.Err() != nil }
func (l lifecycle) done() <-chan struct{} { return l.ctx.Done() }
func (l lifecycle) stop()                 { l.cancel() }

type subscriber struct {
	id       string
	notifier Notifier
}

// Hub fans notifications out to its subscribers in the order they
// subscribed.
type Hub struct {
	prefix  string
	timeout time.Duration

	mu   sync.Mutex
	subs []subscriber
}

func NewHub(prefix string) *Hub {
	return &Hub{prefix: prefix, timeout: notifyTimeout}
}

// Add registers n and returns the new subscription ID.
func (h *Hub) Add(n Notifier) string {
	id := h.prefix + "_" + uuid.NewString()

	h.mu.Lock()
	h.subs = append(h.subs, subscriber{id: id, notifier: n})
	h.mu.Unlock()
	return id
}

// Remove drops one subscription and reports whether it existed.
func (h *Hub) Remove(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	before := len(h.subs)
	h.subs = slices.DeleteFunc(h.subs, func(s subscriber) bool { return s.id == id })
	return len(h.subs) < before
}

// RemoveNotifier drops every subscription delivered through n.
func (h *Hub) RemoveNotifier(n Notifier) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	before := len(h.subs)
	h.subs = slices.DeleteFunc(h.subs, func(s subscriber) bool { return s.notifier == n })
	return before - len(h.subs)
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Broadcast delivers method to every subscriber, building the params per
// subscription ID. Failed deliveries are logged and skipped. It returns
// the number of successful deliveries.
func (h *Hub) Broadcast(ctx context.Context, method string, params func(id string) any) int {
	h.mu.Lock()
	subs := slices.Clone(h.subs)
	h.mu.Unlock()

	delivered := 0
	for _, s := range subs {
		sendCtx, cancel := context.WithTimeout(ctx, h.timeout)
		err := s.notifier.Notify(sendCtx, Notification{Method: method, Params: params(s.id)})
		cancel()
		if err != nil {
			slog.Debug("failed to notify subscriber", "id", s.id, "method", method, "error", err)
			continue
		}
		delivered++
	}
	return delivered
}
