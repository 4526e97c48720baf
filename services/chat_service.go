//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_services.go -package=mocks chat-relay/services IChatService,IGroupService
package services

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"chat-relay/projection"
	"chat-relay/runtime"
	"context"
	"fmt"
	"strings"
)

type IChatService interface {
	SendDirect(ctx context.Context, cmd chat.SendDirectCommand) (chat.DirectMessage, error)
	SendGroup(ctx context.Context, cmd chat.SendGroupCommand) (chat.GroupMessage, error)
	Conversation(userID, counterpartID string) ([]chat.DirectMessage, error)
	GroupMessages(cmd chat.FetchGroupMessagesCommand) ([]chat.GroupMessage, error)
	MarkRead(ctx context.Context, recipientID, senderID string) (int, error)
	MarkGroupRead(ctx context.Context, groupID, userID string) (int, error)
	HasUnreadFrom(userID, counterpartID string) (bool, error)
	Unread(userID string) (projection.UnreadSummary, error)
	Open(ctx context.Context, session chat.Session, conversation chat.Conversation) error
	Close(session chat.Session)
	Search(ctx context.Context, userID string, conversation chat.Conversation, text string, limit int) ([]chat.SearchHit, error)
	Connect(session chat.Session, sink contract.EventSink)
	Disconnect(session chat.Session)
	IsOnline(userID string) bool
}

type ChatService struct {
	orchestrator  *runtime.Orchestrator
	conversations contract.IConversationRepository
	groups        contract.IGroupRepository
	groupMessages contract.IGroupMessageRepository
	search        contract.ISearchIndex
}

func NewChatService(o *runtime.Orchestrator, stores runtime.Stores) *ChatService {
	return &ChatService{
		orchestrator:  o,
		conversations: stores.Conversations,
		groups:        stores.Groups,
		groupMessages: stores.GroupMessages,
		search:        stores.Search,
	}
}

func (s *ChatService) SendDirect(ctx context.Context, cmd chat.SendDirectCommand) (chat.DirectMessage, error) {
	return s.orchestrator.Router().SendDirect(ctx, cmd)
}

func (s *ChatService) SendGroup(ctx context.Context, cmd chat.SendGroupCommand) (chat.GroupMessage, error) {
	return s.orchestrator.Router().SendGroup(ctx, cmd)
}

// Conversation returns the whole history between two users, oldest first.
func (s *ChatService) Conversation(userID, counterpartID string) ([]chat.DirectMessage, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(counterpartID) == "" {
		return nil, fmt.Errorf("%w: both user ids are required", errors.ErrValidation)
	}
	messages, err := s.conversations.List(userID, counterpartID)
	if err != nil {
		return nil, errors.Persistence("list conversation", err)
	}
	return messages, nil
}

// GroupMessages returns one page of history, oldest first, to a current member.
func (s *ChatService) GroupMessages(cmd chat.FetchGroupMessagesCommand) ([]chat.GroupMessage, error) {
	if err := chat.Validate(&cmd); err != nil {
		return nil, err
	}
	if _, err := s.memberGroup(cmd.GroupID, cmd.RequesterID); err != nil {
		return nil, err
	}
	messages, err := s.groupMessages.List(cmd.GroupID, cmd.Limit, cmd.Before)
	if err != nil {
		return nil, errors.Persistence("list group messages", err)
	}
	return messages, nil
}

func (s *ChatService) MarkRead(ctx context.Context, recipientID, senderID string) (int, error) {
	return s.orchestrator.Tracker().MarkRead(ctx, recipientID, senderID)
}

func (s *ChatService) MarkGroupRead(ctx context.Context, groupID, userID string) (int, error) {
	return s.orchestrator.Tracker().MarkGroupRead(ctx, groupID, userID)
}

func (s *ChatService) HasUnreadFrom(userID, counterpartID string) (bool, error) {
	return s.orchestrator.Tracker().HasUnreadFrom(userID, counterpartID)
}

func (s *ChatService) Unread(userID string) (projection.UnreadSummary, error) {
	return s.orchestrator.Tracker().Summary(userID)
}

func (s *ChatService) Open(ctx context.Context, session chat.Session, conversation chat.Conversation) error {
	return s.orchestrator.Tracker().Open(ctx, session, conversation)
}

func (s *ChatService) Close(session chat.Session) {
	s.orchestrator.Tracker().Close(session)
}

// Search looks for text inside one conversation the user takes part in.
func (s *ChatService) Search(ctx context.Context, userID string, conversation chat.Conversation, text string, limit int) ([]chat.SearchHit, error) {
	if strings.TrimSpace(text) == "" || conversation.ID == "" {
		return nil, fmt.Errorf("%w: a query and a conversation are required", errors.ErrValidation)
	}

	var scope string
	switch conversation.Kind {
	case chat.KindDirect:
		scope = chat.DirectScope(userID, conversation.ID)
	case chat.KindGroup:
		if _, err := s.memberGroup(conversation.ID, userID); err != nil {
			return nil, err
		}
		scope = chat.GroupScope(conversation.ID)
	default:
		return nil, fmt.Errorf("%w: unknown conversation kind %q", errors.ErrValidation, conversation.Kind)
	}

	hits, err := s.search.Search(ctx, scope, text, limit)
	if err != nil {
		return nil, errors.Persistence("search", err)
	}
	return hits, nil
}

func (s *ChatService) Connect(session chat.Session, sink contract.EventSink) {
	s.orchestrator.RegisterParticipant(session, sink)
}

func (s *ChatService) Disconnect(session chat.Session) {
	s.orchestrator.UnregisterParticipant(session)
}

func (s *ChatService) IsOnline(userID string) bool {
	_, _, ok := s.orchestrator.Presence().Resolve(userID)
	return ok
}

func (s *ChatService) memberGroup(groupID, userID string) (chat.Group, error) {
	group, err := s.groups.Get(groupID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return chat.Group{}, err
		}
		return chat.Group{}, errors.Persistence("load group", err)
	}
	if !group.HasMember(userID) {
		return chat.Group{}, errors.ErrNotMember
	}
	return group, nil
}
