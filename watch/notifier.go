package watch

import "context"

// Notification is a message pushed to a subscriber.
type Notification struct {
	Method string
	Params any
}

// Notifier delivers notifications to one subscriber. Bridge clients use a
// JSON-RPC notifier; tests and in-process consumers provide their own.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Watcher is a background component with an explicit lifecycle.
type Watcher interface {
	Start() error
	Stop()
}
