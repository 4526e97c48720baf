// Package projection derives per-user views from the durable stores and the
// event stream: unread state on the server side, the optimistic timeline on
// the client side.
package projection

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"context"
	"log/slog"
	"sync"
)

// UnreadSummary is the unread state of every conversation of one user.
type UnreadSummary struct {
	Direct map[string]int  `json:"direct"`
	Groups map[string]bool `json:"groups"`
}

type viewer struct {
	connectionID string
	conversation chat.Conversation
}

// UnreadTracker answers read/unread questions for direct and group
// conversations from the durable store, and remembers which conversation
// each live session has open.
type UnreadTracker struct {
	log           *slog.Logger
	conversations contract.IConversationRepository
	groups        contract.IGroupRepository
	groupMessages contract.IGroupMessageRepository
	notifier      contract.INotifier

	mu      sync.RWMutex
	viewing map[string]viewer // userID -> open conversation
}

func NewUnreadTracker(log *slog.Logger,
	conversations contract.IConversationRepository,
	groups contract.IGroupRepository,
	groupMessages contract.IGroupMessageRepository,
	notifier contract.INotifier) *UnreadTracker {
	return &UnreadTracker{
		log:           log,
		conversations: conversations,
		groups:        groups,
		groupMessages: groupMessages,
		notifier:      notifier,
		viewing:       make(map[string]viewer),
	}
}

func (t *UnreadTracker) IsViewing(userID string, conversation chat.Conversation) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.viewing[userID]
	return ok && v.conversation == conversation
}

// Open records that the session is looking at conversation and clears its unread state.
func (t *UnreadTracker) Open(ctx context.Context, session chat.Session, conversation chat.Conversation) error {
	switch conversation.Kind {
	case chat.KindDirect:
	case chat.KindGroup:
		if err := t.authorize(conversation.ID, session.UserID); err != nil {
			return err
		}
	default:
		return errors.ErrInvalidPayload
	}

	t.mu.Lock()
	t.viewing[session.UserID] = viewer{connectionID: session.ConnectionID, conversation: conversation}
	t.mu.Unlock()

	if conversation.Kind == chat.KindGroup {
		_, err := t.markGroupRead(ctx, conversation.ID, session.UserID)
		return err
	}
	_, err := t.MarkRead(ctx, session.UserID, conversation.ID)
	return err
}

// Close forgets the open conversation, unless a newer session of the same user replaced it.
func (t *UnreadTracker) Close(session chat.Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if v, ok := t.viewing[session.UserID]; ok && v.connectionID == session.ConnectionID {
		delete(t.viewing, session.UserID)
	}
}

// MarkRead flags every message sent by senderID to recipientID as read.
// Calling it again is a no-op.
func (t *UnreadTracker) MarkRead(ctx context.Context, recipientID, senderID string) (int, error) {
	updated, err := t.conversations.MarkRead(recipientID, senderID)
	if err != nil {
		return 0, errors.Persistence("mark conversation read", err)
	}
	if updated > 0 {
		t.notifier.Notify(ctx, recipientID, event.UnreadChanged{Conversation: chat.Direct(senderID), Unread: false})
	}
	return updated, nil
}

// MarkGroupRead clears the unread markers of a member.
func (t *UnreadTracker) MarkGroupRead(ctx context.Context, groupID, userID string) (int, error) {
	if err := t.authorize(groupID, userID); err != nil {
		return 0, err
	}
	return t.markGroupRead(ctx, groupID, userID)
}

func (t *UnreadTracker) markGroupRead(ctx context.Context, groupID, userID string) (int, error) {
	cleared, err := t.groupMessages.MarkRead(groupID, userID)
	if err != nil {
		return 0, errors.Persistence("mark group read", err)
	}
	if cleared > 0 {
		t.notifier.Notify(ctx, userID, event.UnreadChanged{Conversation: chat.InGroup(groupID), Unread: false})
	}
	return cleared, nil
}

// HasUnreadFrom is true iff counterpartID sent userID a message not yet read.
func (t *UnreadTracker) HasUnreadFrom(userID, counterpartID string) (bool, error) {
	unread, err := t.conversations.HasUnread(userID, counterpartID)
	if err != nil {
		return false, errors.Persistence("read unread state", err)
	}
	return unread, nil
}

func (t *UnreadTracker) HasUnreadInGroup(userID, groupID string) (bool, error) {
	if err := t.authorize(groupID, userID); err != nil {
		return false, err
	}
	unread, err := t.groupMessages.HasUnread(groupID, userID)
	if err != nil {
		return false, errors.Persistence("read group unread state", err)
	}
	return unread, nil
}

// Summary lists unread counts per sender and the unread flag of every group of userID.
func (t *UnreadTracker) Summary(userID string) (UnreadSummary, error) {
	direct, err := t.conversations.UnreadCounts(userID)
	if err != nil {
		return UnreadSummary{}, errors.Persistence("count unread", err)
	}
	groups, err := t.groups.ListForUser(userID)
	if err != nil {
		return UnreadSummary{}, errors.Persistence("list groups", err)
	}

	summary := UnreadSummary{Direct: direct, Groups: make(map[string]bool, len(groups))}
	for _, g := range groups {
		unread, err := t.groupMessages.HasUnread(g.ID, userID)
		if err != nil {
			return UnreadSummary{}, errors.Persistence("read group unread state", err)
		}
		summary.Groups[g.ID] = unread
	}
	return summary, nil
}

func (t *UnreadTracker) authorize(groupID, userID string) error {
	group, err := t.groups.Get(groupID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return err
		}
		return errors.Persistence("load group", err)
	}
	if !group.HasMember(userID) {
		return errors.ErrNotMember
	}
	return nil
}
