package projection

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"context"
	"slices"
	"sync"
	"time"
)

// DeliveryState tells an optimistic local echo apart from a confirmed message.
type DeliveryState string

const (
	Pending DeliveryState = "pending"
	Sent    DeliveryState = "sent"
	Failed  DeliveryState = "failed"
)

// Entry is one line of a local timeline.
// Until acknowledged, ID holds the temporary correlation id.
type Entry struct {
	ID            string
	CorrelationID string
	Conversation  chat.Conversation
	SenderID      string
	SenderName    string
	Content       string
	CreatedAt     time.Time
	State         DeliveryState
	Reason        string
}

// Timeline is the client-side projection of everything a user sent or received.
// It de-duplicates by message id and reconciles optimistic entries on ack.
type Timeline struct {
	mu      sync.Mutex
	Owner   string
	entries []Entry
	index   map[string]int // message id or correlation id -> position
	unread  map[chat.Conversation]bool
}

func NewTimeline(owner string) *Timeline {
	return &Timeline{
		Owner:  owner,
		index:  make(map[string]int),
		unread: make(map[chat.Conversation]bool),
	}
}

// AddPending appends the optimistic echo of a message being sent.
func (t *Timeline) AddPending(correlationID string, conversation chat.Conversation, content string, at time.Time) Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := Entry{
		ID:            correlationID,
		CorrelationID: correlationID,
		Conversation:  conversation,
		SenderID:      t.Owner,
		Content:       content,
		CreatedAt:     at,
		State:         Pending,
	}
	t.index[correlationID] = len(t.entries)
	t.entries = append(t.entries, entry)
	return entry
}

// Consume applies a server event to the timeline.
func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch evt := e.(type) {
	case event.DirectMessageReceived:
		t.add(fromDirect(t.Owner, evt.Message))
	case event.GroupMessageReceived:
		t.add(fromGroup(evt.Message))
	case event.MessageSent:
		t.reconcile(evt.CorrelationID, fromDirect(t.Owner, evt.Message))
	case event.GroupMessageSent:
		t.reconcile(evt.CorrelationID, fromGroup(evt.Message))
	case event.Failure:
		t.fail(evt.CorrelationID, evt.Message)
	case event.UnreadChanged:
		t.unread[evt.Conversation] = evt.Unread
	}
	return nil
}

// Fail marks a still pending entry as failed, typically after an ack timeout.
func (t *Timeline) Fail(correlationID, reason string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fail(correlationID, reason)
}

// Messages returns the entries of one conversation in chronological order.
func (t *Timeline) Messages(conversation chat.Conversation) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	var res []Entry
	for _, e := range t.entries {
		if e.Conversation == conversation {
			res = append(res, e)
		}
	}
	slices.SortStableFunc(res, func(a, b Entry) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return res
}

func (t *Timeline) Entry(id string) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i, ok := t.index[id]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

func (t *Timeline) Unread(conversation chat.Conversation) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unread[conversation]
}

func (t *Timeline) add(entry Entry) {
	if _, ok := t.index[entry.ID]; ok {
		return
	}
	t.index[entry.ID] = len(t.entries)
	t.entries = append(t.entries, entry)
}

// reconcile swaps the temporary id and timestamp of a pending entry for the server ones.
// An ack without a pending entry (another tab sent it) is added as is.
func (t *Timeline) reconcile(correlationID string, confirmed Entry) {
	i, ok := t.index[correlationID]
	if !ok || correlationID == "" {
		t.add(confirmed)
		return
	}
	if _, dup := t.index[confirmed.ID]; dup && confirmed.ID != correlationID {
		// The push arrived before the ack.
		t.remove(i)
		return
	}
	confirmed.CorrelationID = correlationID
	t.entries[i] = confirmed
	delete(t.index, correlationID)
	t.index[confirmed.ID] = i
}

func (t *Timeline) fail(correlationID, reason string) bool {
	i, ok := t.index[correlationID]
	if !ok || t.entries[i].State != Pending {
		return false
	}
	t.entries[i].State = Failed
	t.entries[i].Reason = reason
	return true
}

func (t *Timeline) remove(i int) {
	t.entries = slices.Delete(t.entries, i, i+1)
	t.index = make(map[string]int, len(t.entries))
	for pos, e := range t.entries {
		t.index[e.ID] = pos
		if e.State == Pending {
			t.index[e.CorrelationID] = pos
		}
	}
}

func fromDirect(owner string, m chat.DirectMessage) Entry {
	return Entry{
		ID:           m.ID.String(),
		Conversation: chat.Direct(m.Counterpart(owner)),
		SenderID:     m.SenderID,
		Content:      m.Content,
		CreatedAt:    m.CreatedAt,
		State:        Sent,
	}
}

func fromGroup(m chat.GroupMessage) Entry {
	return Entry{
		ID:           m.ID.String(),
		Conversation: chat.InGroup(m.GroupID),
		SenderID:     m.SenderID,
		SenderName:   m.SenderName,
		Content:      m.Content,
		CreatedAt:    m.CreatedAt,
		State:        Sent,
	}
}
