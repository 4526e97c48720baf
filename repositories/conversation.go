package repositories

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	pb "chat-relay/proto/storage"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
)

const (
	directNamespace = "dm"
	unreadNamespace = "dmu"
)

var _ contract.IConversationRepository = ConversationRepository{}

// ConversationRepository stores direct messages in BadgerDB.
//
// Messages live under "dm:{low}:{high}:{timestamp_padded}:{uuid}" where low/high are the
// two participants in lexical order, so one prefix scan returns a conversation in
// chronological order. Every unread message also owns an index entry
// "dmu:{recipient}:{sender}:{timestamp_padded}:{uuid}" pointing at the message key;
// it is written with the message and removed by MarkRead.
type ConversationRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewConversationRepository(db *badger.DB, log *slog.Logger) ConversationRepository {
	return ConversationRepository{db: db, log: log}
}

func (r ConversationRepository) Store(message chat.DirectMessage) error {
	bytes, err := proto.Marshal(fromDirectMessage(message))
	if err != nil {
		return err
	}
	messageKey := directMessageKey(message)
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(messageKey, bytes); err != nil {
			return err
		}
		if message.Read {
			return nil
		}
		return txn.Set(unreadKey(message), messageKey)
	})
}

// List returns the whole conversation between userA and userB, oldest first.
func (r ConversationRepository) List(userA, userB string) ([]chat.DirectMessage, error) {
	var messages []chat.DirectMessage
	p := conversationPrefix(userA, userB)
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = p
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				message, err := decodeDirectMessage(value)
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
	return messages, err
}

// MarkRead flips every unread message sent by senderID to recipientID.
// Each row is rewritten on its own: a concurrent List sees any given message either
// fully read or fully unread. Messages stored after the scan stay unread.
func (r ConversationRepository) MarkRead(recipientID, senderID string) (int, error) {
	type pending struct {
		indexKey []byte
		message  *pb.DirectMessage
		key      []byte
	}
	var toUpdate []pending
	p := prefix(unreadNamespace, escape(recipientID), escape(senderID))
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = p
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			indexKey := it.Item().KeyCopy(nil)
			messageKey, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			item, err := txn.Get(messageKey)
			if err == badger.ErrKeyNotFound {
				// Dangling index entry, drop it with the others.
				toUpdate = append(toUpdate, pending{indexKey: indexKey})
				continue
			}
			if err != nil {
				return err
			}
			disk := &pb.DirectMessage{}
			if err = item.Value(func(value []byte) error {
				return proto.Unmarshal(value, disk)
			}); err != nil {
				return err
			}
			toUpdate = append(toUpdate, pending{indexKey: indexKey, message: disk, key: messageKey})
		}
		return nil
	})
	if err != nil || len(toUpdate) == 0 {
		return 0, err
	}

	wb := r.db.NewWriteBatch()
	defer wb.Cancel()
	updated := 0
	for _, u := range toUpdate {
		if u.key != nil {
			u.message.Read = true
			bytes, err := proto.Marshal(u.message)
			if err != nil {
				return 0, err
			}
			if err = wb.Set(u.key, bytes); err != nil {
				return 0, err
			}
			updated++
		}
		if err = wb.Delete(u.indexKey); err != nil {
			return 0, err
		}
	}
	if err = wb.Flush(); err != nil {
		return 0, err
	}
	r.log.Debug("Messages marked as read", "recipient_id", recipientID, "sender_id", senderID, "count", updated)
	return updated, nil
}

func (r ConversationRepository) HasUnread(recipientID, senderID string) (bool, error) {
	return hasPrefix(r.db, prefix(unreadNamespace, escape(recipientID), escape(senderID)))
}

// UnreadCounts returns, per sender, how many messages recipientID has not read yet.
func (r ConversationRepository) UnreadCounts(recipientID string) (map[string]int, error) {
	p := prefix(unreadNamespace, escape(recipientID))
	keys, err := keysWithPrefix(r.db, p)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, k := range keys {
		rest := strings.TrimPrefix(string(k), string(p))
		sender, _, found := strings.Cut(rest, ":")
		if !found {
			continue
		}
		counts[unescape(sender)]++
	}
	return counts, nil
}

func conversationPrefix(userA, userB string) []byte {
	low, high := userA, userB
	if low > high {
		low, high = high, low
	}
	return prefix(directNamespace, escape(low), escape(high))
}

func directMessageKey(m chat.DirectMessage) []byte {
	p := conversationPrefix(m.SenderID, m.RecipientID)
	return append(p, key(timestamp(m.CreatedAt), m.ID.String())...)
}

func unreadKey(m chat.DirectMessage) []byte {
	return key(unreadNamespace, escape(m.RecipientID), escape(m.SenderID), timestamp(m.CreatedAt), m.ID.String())
}

func fromDirectMessage(m chat.DirectMessage) *pb.DirectMessage {
	return &pb.DirectMessage{
		Id:          m.ID.String(),
		SenderId:    m.SenderID,
		RecipientId: m.RecipientID,
		Content:     m.Content,
		At:          m.CreatedAt.UnixNano(),
		Read:        m.Read,
	}
}

func decodeDirectMessage(value []byte) (chat.DirectMessage, error) {
	var messagePb pb.DirectMessage
	if err := proto.Unmarshal(value, &messagePb); err != nil {
		return chat.DirectMessage{}, err
	}
	return toDirectMessage(&messagePb)
}

func toDirectMessage(messagePb *pb.DirectMessage) (chat.DirectMessage, error) {
	parsedID, err := uuid.Parse(messagePb.Id)
	if err != nil {
		return chat.DirectMessage{}, err
	}
	return chat.DirectMessage{
		ID:          parsedID,
		SenderID:    messagePb.SenderId,
		RecipientID: messagePb.RecipientId,
		Content:     messagePb.Content,
		CreatedAt:   time.Unix(0, messagePb.At).UTC(),
		Read:        messagePb.Read,
	}, nil
}
