package repositories

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	pb "chat-relay/proto/storage"
	"log/slog"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
)

const (
	groupMessageNamespace = "gmsg"
	groupUnreadNamespace  = "gmu"
)

var _ contract.IGroupMessageRepository = GroupMessageRepository{}

// GroupMessageRepository stores group history under "gmsg:{group}:{timestamp_padded}:{uuid}".
//
// Read state is durable and per recipient: storing a message writes one marker
// "gmu:{group}:{user}:{timestamp_padded}:{uuid}" for every member but the sender,
// MarkRead drops the markers of one user.
type GroupMessageRepository struct {
	db              *badger.DB
	log             *slog.Logger
	defaultPageSize int
}

func NewGroupMessageRepository(db *badger.DB, log *slog.Logger, defaultPageSize int) GroupMessageRepository {
	return GroupMessageRepository{db: db, log: log, defaultPageSize: defaultPageSize}
}

// Store persists the message and its unread markers in one transaction.
func (r GroupMessageRepository) Store(message chat.GroupMessage, recipients []string) error {
	bytes, err := proto.Marshal(fromGroupMessage(message))
	if err != nil {
		return err
	}
	ts := timestamp(message.CreatedAt)
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key(groupMessageNamespace, escape(message.GroupID), ts, message.ID.String()), bytes); err != nil {
			return err
		}
		for _, recipient := range recipients {
			if recipient == message.SenderID {
				continue
			}
			markerKey := key(groupUnreadNamespace, escape(message.GroupID), escape(recipient), ts, message.ID.String())
			if err := txn.Set(markerKey, nil); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns up to limit messages strictly older than before (or the latest ones
// when before is nil), in chronological order. The scan walks the group newest first
// and the page is reversed before returning.
func (r GroupMessageRepository) List(groupID string, limit int, before *time.Time) ([]chat.GroupMessage, error) {
	if limit <= 0 {
		limit = r.defaultPageSize
	}
	p := prefix(groupMessageNamespace, escape(groupID))
	var messages []chat.GroupMessage
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch before {
		case nil:
			seekKey = append(slices.Clone(p), []byte(maxTimestamp)...)
		default:
			// Every key of that exact instant sorts after the bare timestamp,
			// so the reverse seek lands on the newest strictly older message.
			seekKey = append(slices.Clone(p), []byte(timestamp(*before))...)
		}

		for it.Seek(seekKey); it.ValidForPrefix(p); it.Next() {
			if len(messages) == limit {
				break
			}
			err := it.Item().Value(func(value []byte) error {
				var messagePb pb.GroupMessage
				if err := proto.Unmarshal(value, &messagePb); err != nil {
					return err
				}
				message, err := toGroupMessage(&messagePb)
				if err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Reverse(messages)
	return messages, nil
}

func (r GroupMessageRepository) MarkRead(groupID, userID string) (int, error) {
	return deletePrefix(r.db, prefix(groupUnreadNamespace, escape(groupID), escape(userID)))
}

func (r GroupMessageRepository) HasUnread(groupID, userID string) (bool, error) {
	return hasPrefix(r.db, prefix(groupUnreadNamespace, escape(groupID), escape(userID)))
}

// DeleteByGroup drops the history of a group and every unread marker pointing into it.
func (r GroupMessageRepository) DeleteByGroup(groupID string) error {
	messages, err := deletePrefix(r.db, prefix(groupMessageNamespace, escape(groupID)))
	if err != nil {
		return err
	}
	markers, err := deletePrefix(r.db, prefix(groupUnreadNamespace, escape(groupID)))
	if err != nil {
		return err
	}
	r.log.Debug("Group history deleted", "group_id", groupID, "messages", messages, "markers", markers)
	return nil
}

func fromGroupMessage(m chat.GroupMessage) *pb.GroupMessage {
	return &pb.GroupMessage{
		Id:         m.ID.String(),
		GroupId:    m.GroupID,
		SenderId:   m.SenderID,
		SenderName: m.SenderName,
		Content:    m.Content,
		At:         m.CreatedAt.UnixNano(),
	}
}

func toGroupMessage(messagePb *pb.GroupMessage) (chat.GroupMessage, error) {
	parsedID, err := uuid.Parse(messagePb.Id)
	if err != nil {
		return chat.GroupMessage{}, err
	}
	return chat.GroupMessage{
		ID:         parsedID,
		GroupID:    messagePb.GroupId,
		SenderID:   messagePb.SenderId,
		SenderName: messagePb.SenderName,
		Content:    messagePb.Content,
		CreatedAt:  time.Unix(0, messagePb.At).UTC(),
	}, nil
}
