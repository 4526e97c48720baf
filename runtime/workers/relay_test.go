package workers

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"chat-relay/mocks"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mama165/sdk-go/logs"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func relayFrame(t *testing.T, userID string, e event.DomainEvent) []byte {
	t.Helper()
	envelope, err := event.Encode(e)
	require.NoError(t, err)
	frame, err := json.Marshal(event.RelayFrame{UserID: userID, ConnectionID: "c1", Envelope: envelope})
	require.NoError(t, err)
	return frame
}

func TestRelayWorker_Forwards_Published_Frames(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	local := mocks.NewMockIPresenceRegistry(ctrl)
	sink := mocks.NewMockEventSink(ctrl)
	evt := event.UnreadChanged{Conversation: chat.InGroup("g"), Unread: true}

	done := make(chan struct{})
	local.EXPECT().Resolve("u1").Return(chat.Session{UserID: "u1", ConnectionID: "c1"}, sink, true)
	sink.EXPECT().Consume(gomock.Any(), evt).DoAndReturn(func(context.Context, event.DomainEvent) error {
		close(done)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker := NewRelayWorker(log, client, "relay:node-a", local)
	go func() { _ = worker.Run(ctx) }()

	// Given the worker is subscribed
	req.Eventually(func() bool {
		return len(server.PubSubChannels("relay:*")) == 1
	}, time.Second, 10*time.Millisecond)

	// When another node publishes a frame
	req.NoError(client.Publish(ctx, "relay:node-a", relayFrame(t, "u1", evt)).Err())

	// Then the local sink receives the event
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Relayed event was not delivered")
	}
}

func TestRelayWorker_Deliver_Ignores_Invalid_And_Departed(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	local := mocks.NewMockIPresenceRegistry(ctrl)
	worker := NewRelayWorker(slog.Default(), nil, "relay:node-a", local)

	req.False(worker.Deliver(context.Background(), []byte("{not json")))
	req.False(worker.Deliver(context.Background(), []byte(`{"userId":"u1","envelope":{"event":"nope"}}`)))

	local.EXPECT().Resolve("u1").Return(chat.Session{}, nil, false)
	req.False(worker.Deliver(context.Background(), relayFrame(t, "u1", event.UnreadChanged{})))
}

type countingRefresher struct {
	calls chan struct{}
}

func (r countingRefresher) Refresh(context.Context) error {
	r.calls <- struct{}{}
	return nil
}

func TestPresenceHeartbeatWorker_Refreshes_Periodically(t *testing.T) {
	req := require.New(t)
	refresher := countingRefresher{calls: make(chan struct{}, 10)}
	worker := NewPresenceHeartbeatWorker(slog.Default(), refresher, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-refresher.calls:
		case <-time.After(time.Second):
			req.Fail("Heartbeat did not refresh presence")
		}
	}
}
