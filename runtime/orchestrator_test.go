package runtime

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"chat-relay/mocks"
	"chat-relay/repositories"
	"chat-relay/runtime/workers"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type RecordingSink struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (s *RecordingSink) Consume(_ context.Context, e event.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *RecordingSink) Events() []event.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.DomainEvent(nil), s.events...)
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, Stores) {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })

	stores := Stores{
		Conversations: repositories.NewConversationRepository(db, log),
		Groups:        repositories.NewGroupRepository(db, log),
		GroupMessages: repositories.NewGroupMessageRepository(db, log, 50),
		Search:        repositories.NewSearchIndex(writer, log),
	}
	o, err := NewOrchestrator(log, workers.NewSupervisor(log, 10*time.Millisecond), NewRegistry(), stores,
		OrchestratorConfig{DeliveryTimeout: time.Second, FanoutBufferSize: 16, MaxContentLength: 500, CharReplacement: '*'})
	require.NoError(t, err)
	return o, stores
}

func Test_Orchestrator_Routes_Direct_Message_To_Live_Recipient(t *testing.T) {
	req := require.New(t)
	o, stores := newTestOrchestrator(t)
	sink := &RecordingSink{}

	// Given u2 is online and not viewing the conversation
	o.RegisterParticipant(chat.Session{UserID: "u2", ConnectionID: "c2"}, sink)

	// When u1 sends hello
	message, err := o.Router().SendDirect(context.Background(), chat.SendDirectCommand{SenderID: "u1", RecipientID: "u2", Content: "hello"})
	req.NoError(err)

	// Then u2 receives the message then the unread flag
	events := sink.Events()
	req.Len(events, 2)
	req.Equal(event.DirectMessageReceived{Message: message}, events[0])
	req.Equal(event.UnreadChanged{Conversation: chat.Direct("u1"), Unread: true}, events[1])

	// When u2 disconnects and u1 sends again
	o.UnregisterParticipant(chat.Session{UserID: "u2", ConnectionID: "c2"})
	_, err = o.Router().SendDirect(context.Background(), chat.SendDirectCommand{SenderID: "u1", RecipientID: "u2", Content: "still there?"})
	req.NoError(err)

	// Then nothing is pushed but the message is stored
	req.Len(sink.Events(), 2)
	history, err := stores.Conversations.List("u1", "u2")
	req.NoError(err)
	req.Len(history, 2)
}

func Test_Orchestrator_Group_Fanout_Reaches_Members_Only(t *testing.T) {
	req := require.New(t)
	o, stores := newTestOrchestrator(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go o.Start(ctx)

	member, outsider := &RecordingSink{}, &RecordingSink{}
	req.NoError(stores.Groups.Create(chat.NewGroup("g", "study", "u1", []string{"u2"}, time.Now())))
	o.RegisterParticipant(chat.Session{UserID: "u2", ConnectionID: "c2"}, member)
	o.RegisterParticipant(chat.Session{UserID: "u9", ConnectionID: "c9"}, outsider)

	message, err := o.Router().SendGroup(ctx, chat.SendGroupCommand{SenderID: "u1", GroupID: "g", Content: "welcome"})
	req.NoError(err)

	req.Eventually(func() bool { return len(member.Events()) == 2 }, time.Second, 10*time.Millisecond)
	req.Equal(event.GroupMessageReceived{Message: message}, member.Events()[0])
	req.Empty(outsider.Events())
}

func Test_Orchestrator_Unregister_Stale_Session(t *testing.T) {
	ctrl := gomock.NewController(t)
	presence := mocks.NewMockIPresenceRegistry(ctrl)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	o, err := NewOrchestrator(log, workers.NewSupervisor(log, time.Millisecond), presence, Stores{},
		OrchestratorConfig{CharReplacement: '*'})
	require.NoError(t, err)

	presence.EXPECT().Disconnect("old").Return(false)
	o.UnregisterParticipant(chat.Session{UserID: "u1", ConnectionID: "old"})
}
