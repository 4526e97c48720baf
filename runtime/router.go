package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Router persists outbound messages then pushes them to live recipients.
type Router struct {
	log              *slog.Logger
	conversations    contract.IConversationRepository
	groups           contract.IGroupRepository
	groupMessages    contract.IGroupMessageRepository
	search           contract.ISearchIndex
	censor           contract.ICensor
	notifier         contract.INotifier
	viewing          contract.IViewing
	deliveries       contract.IDeliveryQueue
	sequencer        *sequencer
	maxContentLength int
}

type RouterConfig struct {
	MaxContentLength int
	Now              func() time.Time
}

func NewRouter(log *slog.Logger,
	conversations contract.IConversationRepository,
	groups contract.IGroupRepository,
	groupMessages contract.IGroupMessageRepository,
	search contract.ISearchIndex,
	censor contract.ICensor,
	notifier contract.INotifier,
	viewing contract.IViewing,
	deliveries contract.IDeliveryQueue,
	config RouterConfig) *Router {
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &Router{
		log:              log,
		conversations:    conversations,
		groups:           groups,
		groupMessages:    groupMessages,
		search:           search,
		censor:           censor,
		notifier:         notifier,
		viewing:          viewing,
		deliveries:       deliveries,
		sequencer:        newSequencer(now),
		maxContentLength: config.MaxContentLength,
	}
}

// SendDirect persists a direct message and pushes it to the recipient if online.
// The returned message is the authoritative record used to acknowledge the sender.
func (r *Router) SendDirect(ctx context.Context, cmd chat.SendDirectCommand) (chat.DirectMessage, error) {
	if err := chat.Validate(&cmd); err != nil {
		return chat.DirectMessage{}, contentError(cmd.Content, err)
	}
	content, err := r.moderate(cmd.Content)
	if err != nil {
		return chat.DirectMessage{}, err
	}
	if cmd.SenderID == cmd.RecipientID {
		return chat.DirectMessage{}, errors.ErrSelfMessage
	}

	var message chat.DirectMessage
	err = r.sequencer.Do(chat.DirectScope(cmd.SenderID, cmd.RecipientID), func(at time.Time) error {
		message = chat.DirectMessage{
			ID:          uuid.New(),
			SenderID:    cmd.SenderID,
			RecipientID: cmd.RecipientID,
			Content:     content,
			CreatedAt:   at,
			Read:        r.viewing.IsViewing(cmd.RecipientID, chat.Direct(cmd.SenderID)),
		}
		return r.conversations.Store(message)
	})
	if err != nil {
		return chat.DirectMessage{}, errors.Persistence("store direct message", err)
	}

	if err := r.search.IndexDirect(message); err != nil {
		r.log.Warn("Unable to index direct message", "id", message.ID, "error", err)
	}

	delivered := r.notifier.Notify(ctx, message.RecipientID, event.DirectMessageReceived{Message: message})
	if !message.Read {
		r.notifier.Notify(ctx, message.RecipientID, event.UnreadChanged{
			Conversation: chat.Direct(message.SenderID),
			Unread:       true,
		})
	}
	r.log.Debug("Direct message routed",
		"id", message.ID,
		"sender", message.SenderID,
		"recipient", message.RecipientID,
		"delivered", delivered)
	return message, nil
}

// SendGroup persists a group message for a current member and queues the
// fan-out to the other members.
func (r *Router) SendGroup(ctx context.Context, cmd chat.SendGroupCommand) (chat.GroupMessage, error) {
	if err := chat.Validate(&cmd); err != nil {
		return chat.GroupMessage{}, contentError(cmd.Content, err)
	}
	content, err := r.moderate(cmd.Content)
	if err != nil {
		return chat.GroupMessage{}, err
	}

	group, err := r.groups.Get(cmd.GroupID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return chat.GroupMessage{}, err
		}
		return chat.GroupMessage{}, errors.Persistence("load group", err)
	}
	if !group.HasMember(cmd.SenderID) {
		return chat.GroupMessage{}, errors.ErrNotMember
	}

	recipients := group.OtherMembers(cmd.SenderID)
	var message chat.GroupMessage
	var unread []string
	err = r.sequencer.Do(chat.GroupScope(group.ID), func(at time.Time) error {
		message = chat.GroupMessage{
			ID:         uuid.New(),
			GroupID:    group.ID,
			SenderID:   cmd.SenderID,
			SenderName: lo.Ternary(cmd.SenderName != "", cmd.SenderName, cmd.SenderID),
			Content:    content,
			CreatedAt:  at,
		}
		unread = lo.Filter(recipients, func(userID string, _ int) bool {
			return !r.viewing.IsViewing(userID, chat.InGroup(group.ID))
		})
		return r.groupMessages.Store(message, unread)
	})
	if err != nil {
		return chat.GroupMessage{}, errors.Persistence("store group message", err)
	}

	if err := r.search.IndexGroup(message); err != nil {
		r.log.Warn("Unable to index group message", "id", message.ID, "error", err)
	}

	if !r.deliveries.Enqueue(chat.GroupDelivery{Message: message, Recipients: recipients, Unread: unread}) {
		r.log.Warn("Group fan-out dropped, members will reconcile from history",
			"group", group.ID, "id", message.ID)
	}
	return message, nil
}

// moderate bounds the content length and censors it.
func (r *Router) moderate(content string) (string, error) {
	if r.maxContentLength > 0 && utf8.RuneCountInString(content) > r.maxContentLength {
		return "", fmt.Errorf("%w (max %d characters)", errors.ErrContentTooLong, r.maxContentLength)
	}
	censored, words := r.censor.Censor(content)
	if len(words) > 0 {
		r.log.Debug("Message content censored", "count", len(words))
	}
	return censored, nil
}

func contentError(content string, err error) error {
	if content == "" {
		return fmt.Errorf("%w: %w", errors.ErrEmptyContent, err)
	}
	return err
}
