// Package chat contains core concepts of the messaging core.
// Messages are immutable once persisted, only the read flag of a direct message moves.
// No runtime, network, or storage logic should be added here.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// DirectMessage is a one-to-one message between two users.
type DirectMessage struct {
	ID          uuid.UUID `json:"id"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
	Read        bool      `json:"read"`
}

// Counterpart returns the other side of the conversation as seen by userID.
func (m DirectMessage) Counterpart(userID string) string {
	if m.SenderID == userID {
		return m.RecipientID
	}
	return m.SenderID
}

// GroupMessage is addressed to every member of a group.
// SenderName is captured at send time and never refreshed.
type GroupMessage struct {
	ID         uuid.UUID `json:"id"`
	GroupID    string    `json:"groupId"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SearchHit is one match returned by the message search index.
type SearchHit struct {
	ID        string    `json:"id"`
	Scope     string    `json:"scope"`
	SenderID  string    `json:"senderId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Score     float64   `json:"score"`
}

// GroupDelivery is one fan-out job: push Message to Recipients and flag the
// group as unread for the subset listed in Unread.
type GroupDelivery struct {
	Message    GroupMessage
	Recipients []string
	Unread     []string
}
