package websocket

import (
	"chat-relay/auth"
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/services"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

// Connection serves one authenticated socket. Inbound events are processed
// one at a time in arrival order; outbound frames go through the sink.
type Connection struct {
	log      *slog.Logger
	conn     *websocket.Conn
	sink     *Sink
	session  chat.Session
	identity auth.Identity
	chat     services.IChatService
	options  Options
}

func (c *Connection) Serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.chat.Connect(c.session, c.sink)
	defer c.chat.Disconnect(c.session)

	go c.writePump(ctx)
	c.readPump(ctx)
}

func (c *Connection) readPump(ctx context.Context) {
	defer func() { _ = c.conn.Close() }()

	c.conn.SetReadLimit(c.options.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.options.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.options.PongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("Read error", "error", err)
			}
			return
		}
		if reply := c.Handle(ctx, raw); reply != nil {
			if err := c.sink.Consume(ctx, reply); err != nil {
				c.log.Warn("Reply dropped", "event", reply.EventName(), "error", err)
			}
		}
	}
}

func (c *Connection) writePump(ctx context.Context) {
	ticker := time.NewTicker(c.options.PingPeriod())
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.options.WriteWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case frame := <-c.sink.Frames():
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.options.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.options.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Handle processes one inbound frame and returns the reply for the sender, if any.
func (c *Connection) Handle(ctx context.Context, raw []byte) event.DomainEvent {
	var env event.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return c.failure("", fmt.Errorf("%w: %w", errors.ErrInvalidPayload, err))
	}

	reply, err := c.dispatch(ctx, env)
	if err != nil {
		c.log.Debug("Request rejected", "event", env.Event, "user", c.identity.UserID, "error", err)
		return c.failure(env.CorrelationID, err)
	}
	return reply
}

func (c *Connection) dispatch(ctx context.Context, env event.Envelope) (event.DomainEvent, error) {
	switch env.Event {
	case InUserOnline:
		payload, err := decodeOptional[UserOnlinePayload](env.Data)
		if err != nil {
			return nil, err
		}
		if err := c.checkSelf(payload.UserID); err != nil {
			return nil, err
		}
		c.chat.Connect(c.session, c.sink)
		return nil, nil

	case InSendMessage:
		payload, err := decodePayload[SendMessagePayload](env.Data)
		if err != nil {
			return nil, err
		}
		if err := c.checkSelf(payload.SenderID); err != nil {
			return nil, err
		}
		if payload.GroupID != "" {
			return c.sendGroup(ctx, env.CorrelationID, payload.GroupID, payload.Content, payload.SenderName)
		}
		message, err := c.chat.SendDirect(ctx, chat.SendDirectCommand{
			SenderID:    c.identity.UserID,
			RecipientID: payload.RecipientID,
			Content:     payload.Content,
		})
		if err != nil {
			return nil, err
		}
		return event.MessageSent{CorrelationID: env.CorrelationID, Message: message}, nil

	case InSendGroupMessage:
		payload, err := decodePayload[SendGroupMessagePayload](env.Data)
		if err != nil {
			return nil, err
		}
		if err := c.checkSelf(payload.SenderID); err != nil {
			return nil, err
		}
		return c.sendGroup(ctx, env.CorrelationID, payload.GroupID, payload.Content, payload.SenderName)

	case InOpenConversation:
		payload, err := decodePayload[ConversationPayload](env.Data)
		if err != nil {
			return nil, err
		}
		conversation, err := payload.Conversation()
		if err != nil {
			return nil, err
		}
		return nil, c.chat.Open(ctx, c.session, conversation)

	case InCloseConversation:
		c.chat.Close(c.session)
		return nil, nil

	case InJoinGroup, InLeaveGroup:
		// Membership lives in the group registry, not in socket rooms.
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownEvent, env.Event)
	}
}

func (c *Connection) sendGroup(ctx context.Context, correlationID, groupID, content, senderName string) (event.DomainEvent, error) {
	if senderName == "" {
		senderName = c.identity.Name
	}
	message, err := c.chat.SendGroup(ctx, chat.SendGroupCommand{
		SenderID:   c.identity.UserID,
		GroupID:    groupID,
		SenderName: senderName,
		Content:    content,
	})
	if err != nil {
		return nil, err
	}
	return event.GroupMessageSent{CorrelationID: correlationID, Message: message}, nil
}

// checkSelf rejects payloads claiming another identity than the token's.
func (c *Connection) checkSelf(claimed string) error {
	if claimed != "" && claimed != c.identity.UserID {
		return fmt.Errorf("%w: cannot act as %s", errors.ErrForbidden, claimed)
	}
	return nil
}

func (c *Connection) failure(correlationID string, err error) event.Failure {
	return event.Failure{CorrelationID: correlationID, Code: errors.Code(err), Message: err.Error()}
}

func decodeOptional[P any](data json.RawMessage) (P, error) {
	if len(data) == 0 || string(data) == "null" {
		var zero P
		return zero, nil
	}
	return decodePayload[P](data)
}
