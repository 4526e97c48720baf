package websocket

import (
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"encoding/json"
	"fmt"
)

// Events a client may send.
const (
	InUserOnline        = "userOnline"
	InSendMessage       = "sendMessage"
	InSendGroupMessage  = "sendGroupMessage"
	InOpenConversation  = "openConversation"
	InCloseConversation = "closeConversation"
	InJoinGroup         = "joinGroup"
	InLeaveGroup        = "leaveGroup"
)

type UserOnlinePayload struct {
	UserID string `json:"userId"`
}

// SendMessagePayload is a direct send, or a group send when GroupID is set.
type SendMessagePayload struct {
	SenderID    string `json:"senderId"`
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
	GroupID     string `json:"groupId,omitempty"`
	GroupName   string `json:"groupName,omitempty"`
	SenderName  string `json:"senderName,omitempty"`
}

type SendGroupMessagePayload struct {
	SenderID   string `json:"senderId"`
	GroupID    string `json:"groupId"`
	Content    string `json:"content"`
	SenderName string `json:"senderName"`
}

// ConversationPayload names what the client opened: a user or a group.
type ConversationPayload struct {
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
}

func (p ConversationPayload) Conversation() (chat.Conversation, error) {
	switch {
	case p.GroupID != "" && p.UserID == "":
		return chat.InGroup(p.GroupID), nil
	case p.UserID != "" && p.GroupID == "":
		return chat.Direct(p.UserID), nil
	default:
		return chat.Conversation{}, fmt.Errorf("%w: exactly one of userId or groupId is required", errors.ErrInvalidPayload)
	}
}

func decodePayload[P any](data json.RawMessage) (P, error) {
	var payload P
	if len(data) == 0 {
		return payload, fmt.Errorf("%w: missing data", errors.ErrInvalidPayload)
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, fmt.Errorf("%w: %w", errors.ErrInvalidPayload, err)
	}
	return payload, nil
}
