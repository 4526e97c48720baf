package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain/event"
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Notifier pushes events to the session currently representing a user.
// An offline user is the common case and is not an error.
type Notifier struct {
	presence contract.IPresenceRegistry
	timeout  time.Duration
	log      *slog.Logger

	delivered atomic.Uint64
	dropped   atomic.Uint64
}

func NewNotifier(log *slog.Logger, presence contract.IPresenceRegistry, timeout time.Duration) *Notifier {
	return &Notifier{presence: presence, timeout: timeout, log: log}
}

func (n *Notifier) Notify(ctx context.Context, userID string, e event.DomainEvent) bool {
	session, sink, ok := n.presence.Resolve(userID)
	if !ok {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := sink.Consume(ctx, e); err != nil {
		n.log.Warn("Push failed",
			"user", userID,
			"connection", session.ConnectionID,
			"event", e.EventName(),
			"error", err)
		n.dropped.Add(1)
		return false
	}
	n.delivered.Add(1)
	return true
}

// Counts reports pushes handed to a sink and pushes a live sink refused.
func (n *Notifier) Counts() (delivered, dropped uint64) {
	return n.delivered.Load(), n.dropped.Load()
}
