package event

import (
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"encoding/json"
	"fmt"
)

// Envelope is the wire frame shared by the websocket transport and the presence relay.
type Envelope struct {
	Event         string          `json:"event"`
	CorrelationID string          `json:"correlationId,omitempty"`
	Data          json.RawMessage `json:"data,omitempty"`
}

// Encode frames an event. Acks carry the client's correlation id at envelope level.
func Encode(e DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(payloadOf(e))
	if err != nil {
		return nil, err
	}
	env := Envelope{Event: e.EventName(), Data: payload}
	if c, ok := e.(Correlated); ok {
		env.CorrelationID = c.Correlation()
	}
	return json.Marshal(env)
}

// Decode is the inverse of Encode for every outbound event.
func Decode(raw []byte) (DomainEvent, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidPayload, err)
	}
	return decodeInto(env)
}

func decodeInto(env Envelope) (DomainEvent, error) {
	var err error
	switch env.Event {
	case NameReceiveMessage:
		var m chat.DirectMessage
		err = json.Unmarshal(env.Data, &m)
		return DirectMessageReceived{Message: m}, wrap(err)
	case NameReceiveGroupMessage:
		var m chat.GroupMessage
		err = json.Unmarshal(env.Data, &m)
		return GroupMessageReceived{Message: m}, wrap(err)
	case NameMessageSent:
		var m chat.DirectMessage
		err = json.Unmarshal(env.Data, &m)
		return MessageSent{CorrelationID: env.CorrelationID, Message: m}, wrap(err)
	case NameGroupMessageSent:
		var m chat.GroupMessage
		err = json.Unmarshal(env.Data, &m)
		return GroupMessageSent{CorrelationID: env.CorrelationID, Message: m}, wrap(err)
	case NameUnreadChanged:
		var u UnreadChanged
		err = json.Unmarshal(env.Data, &u)
		return u, wrap(err)
	case NameError:
		var f Failure
		err = json.Unmarshal(env.Data, &f)
		f.CorrelationID = env.CorrelationID
		return f, wrap(err)
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownEvent, env.Event)
	}
}

func payloadOf(e DomainEvent) any {
	switch evt := e.(type) {
	case DirectMessageReceived:
		return evt.Message
	case GroupMessageReceived:
		return evt.Message
	case MessageSent:
		return evt.Message
	case GroupMessageSent:
		return evt.Message
	default:
		return evt
	}
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errors.ErrInvalidPayload, err)
}

// RelayFrame carries an encoded event to the node that owns the target session.
type RelayFrame struct {
	UserID       string          `json:"userId"`
	ConnectionID string          `json:"connectionId"`
	Envelope     json.RawMessage `json:"envelope"`
}
