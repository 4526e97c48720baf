package workers

import (
	"chat-relay/contract"
	"chat-relay/domain/event"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RelayWorker receives events published by other nodes for sessions owned
// by this node and hands them to the local sink.
type RelayWorker struct {
	log     *slog.Logger
	client  *redis.Client
	channel string
	local   contract.IPresenceRegistry
}

func NewRelayWorker(log *slog.Logger, client *redis.Client, channel string, local contract.IPresenceRegistry) *RelayWorker {
	return &RelayWorker{log: log, client: client, channel: channel, local: local}
}

func (w *RelayWorker) Run(ctx context.Context) error {
	sub := w.client.Subscribe(ctx, w.channel)
	defer sub.Close()

	// Receive confirms the subscription before we start consuming.
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe %s: %w", w.channel, err)
	}
	w.log.Info("Relay subscribed", "channel", w.channel)

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return fmt.Errorf("relay channel %s closed", w.channel)
			}
			w.Deliver(ctx, []byte(msg.Payload))
		}
	}
}

// Deliver decodes one relay frame and pushes it to the local session.
func (w *RelayWorker) Deliver(ctx context.Context, payload []byte) bool {
	var frame event.RelayFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		w.log.Warn("Invalid relay frame", "error", err)
		return false
	}
	evt, err := event.Decode(frame.Envelope)
	if err != nil {
		w.log.Warn("Invalid relayed event", "user", frame.UserID, "error", err)
		return false
	}

	_, sink, ok := w.local.Resolve(frame.UserID)
	if !ok {
		w.log.Debug("Relayed event for a session that left", "user", frame.UserID)
		return false
	}
	if err := sink.Consume(ctx, evt); err != nil {
		w.log.Warn("Relayed push failed", "user", frame.UserID, "error", err)
		return false
	}
	return true
}
