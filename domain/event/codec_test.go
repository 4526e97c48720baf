package event

import (
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestEncode_Ack_Carries_Correlation_At_Envelope_Level(t *testing.T) {
	req := require.New(t)
	msg := chat.DirectMessage{
		ID:          uuid.New(),
		SenderID:    "u1",
		RecipientID: "u2",
		Content:     "hello",
		CreatedAt:   time.Now().UTC(),
	}

	raw, err := Encode(MessageSent{CorrelationID: "tmp-1", Message: msg})
	req.NoError(err)

	var env Envelope
	req.NoError(json.Unmarshal(raw, &env))
	req.Equal(NameMessageSent, env.Event)
	req.Equal("tmp-1", env.CorrelationID)

	var payload chat.DirectMessage
	req.NoError(json.Unmarshal(env.Data, &payload))
	req.Equal(msg.ID, payload.ID)
	req.Equal("hello", payload.Content)
}

func TestDecode_Restores_Group_Message(t *testing.T) {
	req := require.New(t)
	msg := chat.GroupMessage{
		ID:         uuid.New(),
		GroupID:    "g",
		SenderID:   "u1",
		SenderName: "Ada",
		Content:    "welcome",
		CreatedAt:  time.Now().UTC(),
	}
	raw, err := Encode(GroupMessageReceived{Message: msg})
	req.NoError(err)

	decoded, err := Decode(raw)
	req.NoError(err)
	received, ok := decoded.(GroupMessageReceived)
	req.True(ok)
	req.Equal(msg.ID, received.Message.ID)
	req.Equal(msg.SenderName, received.Message.SenderName)
	req.True(msg.CreatedAt.Equal(received.Message.CreatedAt))
}

func TestDecode_Unread_And_Failure(t *testing.T) {
	req := require.New(t)

	raw, err := Encode(UnreadChanged{Conversation: chat.InGroup("g"), Unread: true})
	req.NoError(err)
	decoded, err := Decode(raw)
	req.NoError(err)
	req.Equal(UnreadChanged{Conversation: chat.InGroup("g"), Unread: true}, decoded)

	raw, err = Encode(Failure{CorrelationID: "tmp-2", Code: "validation_error", Message: "empty"})
	req.NoError(err)
	decoded, err = Decode(raw)
	req.NoError(err)
	req.Equal(Failure{CorrelationID: "tmp-2", Code: "validation_error", Message: "empty"}, decoded)
}

func TestDecode_Unknown_Event(t *testing.T) {
	req := require.New(t)
	_, err := Decode([]byte(`{"event":"teleport","data":{}}`))
	req.ErrorIs(err, errors.ErrUnknownEvent)
	req.ErrorIs(err, errors.ErrValidation)

	_, err = Decode([]byte(`not json`))
	req.ErrorIs(err, errors.ErrInvalidPayload)
}
