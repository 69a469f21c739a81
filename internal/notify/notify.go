package notify

import (
	"context"
	"log"
	"sync"
)

type Severity string

const SeverityError Severity = "error"

// Notification is a user-facing message.
type Notification struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Notifier delivers user-facing messages. Fire and forget: implementations
// handle their own failures.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, n Notification)

func (f Func) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Multi fans a notification out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, notifier := range m {
		notifier.Notify(ctx, n)
	}
}

// Logger writes notifications to the standard logger.
type Logger struct{}

func (Logger) Notify(_ context.Context, n Notification) {
	log.Printf("notify [%s]: %s", n.Severity, n.Message)
}

type inboxKey struct{}

// Inbox collects the notifications raised while serving one request.
type Inbox struct {
	mu    sync.Mutex
	items []Notification
}

// WithInbox attaches a fresh Inbox to ctx.
func WithInbox(ctx context.Context) (context.Context, *Inbox) {
	inbox := &Inbox{}
	return context.WithValue(ctx, inboxKey{}, inbox), inbox
}

// Drain returns the collected notifications and empties the inbox.
func (i *Inbox) Drain() []Notification {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := i.items
	i.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

func (i *Inbox) add(n Notification) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.items = append(i.items, n)
}

// ContextInbox delivers to the Inbox attached to ctx, if any.
type ContextInbox struct{}

func (ContextInbox) Notify(ctx context.Context, n Notification) {
	if inbox, ok := ctx.Value(inboxKey{}).(*Inbox); ok {
		inbox.add(n)
	}
}

type sessionKey struct{}

// WithSessionID tags ctx with the cart session the notification belongs to.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

func SessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionKey{}).(string); ok {
		return id
	}
	return ""
}
