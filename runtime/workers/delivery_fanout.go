package workers

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"context"
	"log/slog"

	"github.com/samber/lo"
)

// DeliveryFanout pushes persisted group messages to the live sessions of
// their members, one push per member.
//
// Delivery is best-effort: a member without a live session, or whose push
// fails, reconciles from the group history. Only members listed in the job
// are ever contacted.
type DeliveryFanout struct {
	log        *slog.Logger
	notifier   contract.INotifier
	deliveries chan chat.GroupDelivery
}

func NewDeliveryFanout(log *slog.Logger, notifier contract.INotifier, bufferSize int) *DeliveryFanout {
	return &DeliveryFanout{
		log:        log,
		notifier:   notifier,
		deliveries: make(chan chat.GroupDelivery, bufferSize),
	}
}

// Enqueue never blocks the sender. It reports false when the buffer is full.
func (w *DeliveryFanout) Enqueue(delivery chat.GroupDelivery) bool {
	select {
	case w.deliveries <- delivery:
		return true
	default:
		return false
	}
}

// Backlog is the number of deliveries waiting in the buffer.
func (w *DeliveryFanout) Backlog() int  { return len(w.deliveries) }
func (w *DeliveryFanout) Capacity() int { return cap(w.deliveries) }

func (w *DeliveryFanout) Run(ctx context.Context) error {
	for {
		select {
		case delivery := <-w.deliveries:
			w.Fanout(ctx, delivery)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping group fan-out", "pending", len(w.deliveries))
			return nil
		}
	}
}

// Fanout one push per recipient, plus an unread flag for those not viewing the group.
func (w *DeliveryFanout) Fanout(ctx context.Context, delivery chat.GroupDelivery) {
	message := delivery.Message
	conversation := chat.InGroup(message.GroupID)
	delivered := 0

	for _, userID := range delivery.Recipients {
		if userID == message.SenderID {
			continue
		}
		if w.notifier.Notify(ctx, userID, event.GroupMessageReceived{Message: message}) {
			delivered++
		}
		if lo.Contains(delivery.Unread, userID) {
			w.notifier.Notify(ctx, userID, event.UnreadChanged{Conversation: conversation, Unread: true})
		}
	}

	w.log.Debug("Group message fanned out",
		"group", message.GroupID,
		"id", message.ID,
		"recipients", len(delivery.Recipients),
		"delivered", delivered)
}
