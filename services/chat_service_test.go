package services

import (
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type chatMocks struct {
	conversations *mocks.MockIConversationRepository
	groups        *mocks.MockIGroupRepository
	groupMessages *mocks.MockIGroupMessageRepository
	search        *mocks.MockISearchIndex
	presence      *mocks.MockIPresenceRegistry
}

func newTestChatService(t *testing.T) (*ChatService, chatMocks) {
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	m := chatMocks{
		conversations: mocks.NewMockIConversationRepository(ctrl),
		groups:        mocks.NewMockIGroupRepository(ctrl),
		groupMessages: mocks.NewMockIGroupMessageRepository(ctrl),
		search:        mocks.NewMockISearchIndex(ctrl),
		presence:      mocks.NewMockIPresenceRegistry(ctrl),
	}
	stores := runtime.Stores{
		Conversations: m.conversations,
		Groups:        m.groups,
		GroupMessages: m.groupMessages,
		Search:        m.search,
	}
	o, err := runtime.NewOrchestrator(log, workers.NewSupervisor(log, time.Millisecond), m.presence, stores,
		runtime.OrchestratorConfig{DeliveryTimeout: time.Second, FanoutBufferSize: 4, MaxContentLength: 100, CharReplacement: '*'})
	require.NoError(t, err)
	return NewChatService(o, stores), m
}

func TestChatService_GroupMessages_Members_Only(t *testing.T) {
	req := require.New(t)
	svc, m := newTestChatService(t)
	group := chat.NewGroup("g", "study", "u1", []string{"u2"}, time.Now())
	before := time.Now()

	m.groups.EXPECT().Get("g").Return(group, nil).Times(2)
	m.groupMessages.EXPECT().List("g", 10, &before).Return([]chat.GroupMessage{{GroupID: "g", Content: "hi"}}, nil)

	messages, err := svc.GroupMessages(chat.FetchGroupMessagesCommand{GroupID: "g", RequesterID: "u2", Limit: 10, Before: &before})
	req.NoError(err)
	req.Len(messages, 1)

	_, err = svc.GroupMessages(chat.FetchGroupMessagesCommand{GroupID: "g", RequesterID: "u9"})
	req.ErrorIs(err, errors.ErrNotMember)

	_, err = svc.GroupMessages(chat.FetchGroupMessagesCommand{RequesterID: "u9"})
	req.ErrorIs(err, errors.ErrValidation)
}

func TestChatService_Search_Scopes(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	svc, m := newTestChatService(t)

	m.search.EXPECT().Search(ctx, chat.DirectScope("u1", "u2"), "homework", 5).Return(nil, nil)
	_, err := svc.Search(ctx, "u2", chat.Direct("u1"), "homework", 5)
	req.NoError(err)

	m.groups.EXPECT().Get("g").Return(chat.NewGroup("g", "study", "u1", nil, time.Now()), nil)
	_, err = svc.Search(ctx, "u2", chat.InGroup("g"), "homework", 5)
	req.ErrorIs(err, errors.ErrNotMember)

	_, err = svc.Search(ctx, "u2", chat.Direct("u1"), "  ", 5)
	req.ErrorIs(err, errors.ErrValidation)
}

func TestChatService_Conversation(t *testing.T) {
	req := require.New(t)
	svc, m := newTestChatService(t)

	m.conversations.EXPECT().List("u1", "u2").Return([]chat.DirectMessage{{SenderID: "u1", RecipientID: "u2", Content: "hello"}}, nil)
	messages, err := svc.Conversation("u1", "u2")
	req.NoError(err)
	req.Len(messages, 1)

	_, err = svc.Conversation("u1", "")
	req.ErrorIs(err, errors.ErrValidation)
}

func TestChatService_Presence(t *testing.T) {
	req := require.New(t)
	svc, m := newTestChatService(t)
	session := chat.Session{UserID: "u1", ConnectionID: "c1"}

	m.presence.EXPECT().Connect("u1", "c1", nil)
	m.presence.EXPECT().Resolve("u1").Return(session, nil, true)
	m.presence.EXPECT().Disconnect("c1").Return(true)
	m.presence.EXPECT().Resolve("u1").Return(chat.Session{}, nil, false)

	svc.Connect(session, nil)
	req.True(svc.IsOnline("u1"))
	svc.Disconnect(session)
	req.False(svc.IsOnline("u1"))
}
