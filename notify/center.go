package notify

import (
	"sync"
	"time"
)

const DefaultDismissAfter = 4 * time.Second

// Sink displays notifications.
type Sink interface {
	Show(n Notification)
	Dismiss()
}

// Center shows one notification at a time. A new one replaces the current
// one, and each is dismissed after a fixed delay.
type Center struct {
	sink         Sink
	dismissAfter time.Duration
	now          func() time.Time

	mu      sync.Mutex
	current *Notification
	timer   *time.Timer
	gen     uint64
}

type Option func(*Center)

func WithDismissAfter(d time.Duration) Option {
	return func(c *Center) { c.dismissAfter = d }
}

func NewCenter(sink Sink, opts ...Option) *Center {
	c := &Center{
		sink:         sink,
		dismissAfter: DefaultDismissAfter,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Center) Show(n Notification) {
	if n.Text == "" {
		return
	}
	if n.At.IsZero() {
		n.At = c.now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	if c.current != nil {
		c.sink.Dismiss()
	}

	c.gen++
	gen := c.gen
	c.current = &n
	c.sink.Show(n)
	c.timer = time.AfterFunc(c.dismissAfter, func() { c.expire(gen) })
}

// Current returns the notification on display.
func (c *Center) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Notification{}, false
	}
	return *c.current, true
}

// Dismiss hides the current notification early.
func (c *Center) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dismissLocked()
}

// Stop cancels a pending dismissal without touching the display.
func (c *Center) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Center) expire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.dismissLocked()
}

// Caller must hold c.mu.
func (c *Center) dismissLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.current == nil {
		return
	}
	c.current = nil
	c.sink.Dismiss()
}
