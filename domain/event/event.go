// Package event defines what the messaging core pushes to live sessions.
package event

import (
	"chat-relay/domain/chat"
)

const (
	NameReceiveMessage      = "receiveMessage"
	NameReceiveGroupMessage = "receiveGroupMessage"
	NameMessageSent         = "messageSent"
	NameGroupMessageSent    = "groupMessageSent"
	NameUnreadChanged       = "unreadChanged"
	NameError               = "error"
)

// DomainEvent is anything a sink can receive.
type DomainEvent interface {
	EventName() string
}

// Correlated events answer a client request and echo its correlation id.
type Correlated interface {
	Correlation() string
}

type DirectMessageReceived struct {
	Message chat.DirectMessage
}

func (DirectMessageReceived) EventName() string { return NameReceiveMessage }

type GroupMessageReceived struct {
	Message chat.GroupMessage
}

func (GroupMessageReceived) EventName() string { return NameReceiveGroupMessage }

// MessageSent acknowledges a direct send with the persisted record.
type MessageSent struct {
	CorrelationID string
	Message       chat.DirectMessage
}

func (MessageSent) EventName() string     { return NameMessageSent }
func (m MessageSent) Correlation() string { return m.CorrelationID }

type GroupMessageSent struct {
	CorrelationID string
	Message       chat.GroupMessage
}

func (GroupMessageSent) EventName() string     { return NameGroupMessageSent }
func (m GroupMessageSent) Correlation() string { return m.CorrelationID }

// UnreadChanged tells a user that the unread state of one conversation flipped.
type UnreadChanged struct {
	Conversation chat.Conversation `json:"conversation"`
	Unread       bool              `json:"unread"`
}

func (UnreadChanged) EventName() string { return NameUnreadChanged }

// Failure reports a rejected request back to the session that issued it.
type Failure struct {
	CorrelationID string `json:"correlationId,omitempty"`
	Code          string `json:"code"`
	Message       string `json:"message"`
}

func (Failure) EventName() string     { return NameError }
func (f Failure) Correlation() string { return f.CorrelationID }
