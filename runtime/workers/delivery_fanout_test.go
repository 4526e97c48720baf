package workers

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"chat-relay/mocks"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func groupDelivery() chat.GroupDelivery {
	return chat.GroupDelivery{
		Message: chat.GroupMessage{
			ID:        uuid.New(),
			GroupID:   "g",
			SenderID:  "u1",
			Content:   "welcome",
			CreatedAt: time.Now(),
		},
		Recipients: []string{"u2", "u3"},
		Unread:     []string{"u3"},
	}
}

func TestDeliveryFanout_Pushes_To_Members_Only(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	notifier := mocks.NewMockINotifier(ctrl)
	worker := NewDeliveryFanout(log, notifier, 10)
	delivery := groupDelivery()
	received := event.GroupMessageReceived{Message: delivery.Message}
	unread := event.UnreadChanged{Conversation: chat.InGroup("g"), Unread: true}

	// Given u2 is viewing the group and u3 is offline
	notifier.EXPECT().Notify(gomock.Any(), "u2", received).Return(true)
	notifier.EXPECT().Notify(gomock.Any(), "u3", received).Return(false)
	notifier.EXPECT().Notify(gomock.Any(), "u3", unread).Return(false)

	// When the message is fanned out
	// Then no other user than u2 and u3 is contacted
	worker.Fanout(context.Background(), delivery)
}

func TestDeliveryFanout_Run_Drains_Queue(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	notifier := mocks.NewMockINotifier(ctrl)
	worker := NewDeliveryFanout(log, notifier, 10)

	done := make(chan struct{})
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any()).Return(true).Times(2)
	notifier.EXPECT().Notify(gomock.Any(), "u3", gomock.AssignableToTypeOf(event.UnreadChanged{})).
		DoAndReturn(func(context.Context, string, event.DomainEvent) bool {
			close(done)
			return true
		})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	req.True(worker.Enqueue(groupDelivery()))

	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Fan-out did not complete in time")
	}
}

func TestDeliveryFanout_Enqueue_Full_Buffer(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	worker := NewDeliveryFanout(slog.Default(), mocks.NewMockINotifier(ctrl), 1)

	// Given nobody drains the queue
	req.True(worker.Enqueue(groupDelivery()))

	// Then the next job is dropped instead of blocking the sender
	req.False(worker.Enqueue(groupDelivery()))
}
