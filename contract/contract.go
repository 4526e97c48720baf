//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"context"
	"reflect"
	"time"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself, the supervisor restarts it.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker for logs.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is the push side of one live connection.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IPresenceRegistry maps a user to the live connection currently representing it.
type IPresenceRegistry interface {
	Connect(userID, connectionID string, sink EventSink)
	Disconnect(connectionID string) bool
	Resolve(userID string) (chat.Session, EventSink, bool)
	Online() []string
}

// INotifier pushes an event to whichever session currently represents a user.
// It reports false when the user has no live session or the push failed.
type INotifier interface {
	Notify(ctx context.Context, userID string, e event.DomainEvent) bool
}

// IViewing answers whether a user currently has a conversation open.
type IViewing interface {
	IsViewing(userID string, conversation chat.Conversation) bool
}

// IDeliveryQueue accepts group fan-out jobs. It reports false when the job was dropped.
type IDeliveryQueue interface {
	Enqueue(delivery chat.GroupDelivery) bool
}

type ICensor interface {
	Censor(original string) (string, []string)
}

type IConversationRepository interface {
	Store(message chat.DirectMessage) error
	List(userA, userB string) ([]chat.DirectMessage, error)
	MarkRead(recipientID, senderID string) (int, error)
	HasUnread(recipientID, senderID string) (bool, error)
	UnreadCounts(recipientID string) (map[string]int, error)
}

type IGroupRepository interface {
	Create(group chat.Group) error
	Get(groupID string) (chat.Group, error)
	// Mutate applies fn to the current group and stores the result atomically.
	Mutate(groupID string, fn func(*chat.Group) error) (chat.Group, error)
	Delete(groupID string) error
	ListForUser(userID string) ([]chat.Group, error)
}

type IGroupMessageRepository interface {
	Store(message chat.GroupMessage, recipients []string) error
	List(groupID string, limit int, before *time.Time) ([]chat.GroupMessage, error)
	MarkRead(groupID, userID string) (int, error)
	HasUnread(groupID, userID string) (bool, error)
	DeleteByGroup(groupID string) error
}

type ISearchIndex interface {
	IndexDirect(message chat.DirectMessage) error
	IndexGroup(message chat.GroupMessage) error
	Search(ctx context.Context, scope, text string, limit int) ([]chat.SearchHit, error)
	DeleteScope(ctx context.Context, scope string) error
}
