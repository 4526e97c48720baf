// Package client is a realtime chat client. Sends are echoed optimistically
// into a local timeline and reconciled when the server acknowledges them.
package client

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"chat-relay/projection"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ReasonAckTimeout is the failure reason of a message the server never acknowledged.
const ReasonAckTimeout = "no acknowledgement from server"

type Client struct {
	log      *slog.Logger
	conn     *websocket.Conn
	config   Config
	timeline *projection.Timeline
	events   chan event.DomainEvent

	writeMu sync.Mutex
	mu      sync.Mutex
	timers  map[string]*time.Timer
}

// Dial opens the socket of config.UserID, who must own the token.
func Dial(ctx context.Context, log *slog.Logger, config Config) (*Client, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+config.Token)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.ServerURL, header)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", config.ServerURL, err)
	}
	c := &Client{
		log:      log,
		conn:     conn,
		config:   config,
		timeline: projection.NewTimeline(config.UserID),
		events:   make(chan event.DomainEvent, 64),
		timers:   make(map[string]*time.Timer),
	}
	if err := c.write("userOnline", "", map[string]string{"userId": config.UserID}); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) Timeline() *projection.Timeline { return c.timeline }

// Events exposes every server event after it was applied to the timeline.
// Events are dropped when nobody reads them.
func (c *Client) Events() <-chan event.DomainEvent { return c.events }

// Run reads server events until the socket or ctx closes.
func (c *Client) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = c.conn.Close()
	}()
	defer close(c.events)

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("socket error: %w", err)
		}
		e, err := event.Decode(raw)
		if err != nil {
			c.log.Warn("Unreadable event", "error", err)
			continue
		}
		if correlated, ok := e.(event.Correlated); ok {
			c.settle(correlated.Correlation())
		}
		_ = c.timeline.Consume(ctx, e)

		select {
		case c.events <- e:
		default:
		}
	}
}

// SendDirect echoes the message locally as pending and sends it.
func (c *Client) SendDirect(recipientID, content string) (projection.Entry, error) {
	return c.send(chat.Direct(recipientID), content, "sendMessage", map[string]string{
		"recipientId": recipientID,
		"content":     content,
	})
}

func (c *Client) SendGroup(groupID, senderName, content string) (projection.Entry, error) {
	return c.send(chat.InGroup(groupID), content, "sendGroupMessage", map[string]string{
		"groupId":    groupID,
		"senderName": senderName,
		"content":    content,
	})
}

func (c *Client) Open(conversation chat.Conversation) error {
	payload := map[string]string{"userId": conversation.ID}
	if conversation.Kind == chat.KindGroup {
		payload = map[string]string{"groupId": conversation.ID}
	}
	return c.write("openConversation", "", payload)
}

func (c *Client) CloseConversation() error {
	return c.write("closeConversation", "", nil)
}

// Close says goodbye to the server and releases the socket.
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	c.writeMu.Unlock()

	c.mu.Lock()
	for id, timer := range c.timers {
		timer.Stop()
		delete(c.timers, id)
	}
	c.mu.Unlock()
	return c.conn.Close()
}

func (c *Client) send(conversation chat.Conversation, content, name string, payload any) (projection.Entry, error) {
	correlationID := "tmp-" + uuid.NewString()
	entry := c.timeline.AddPending(correlationID, conversation, content, time.Now().UTC())

	c.mu.Lock()
	c.timers[correlationID] = time.AfterFunc(c.config.AckTimeout, func() {
		c.mu.Lock()
		delete(c.timers, correlationID)
		c.mu.Unlock()
		if c.timeline.Fail(correlationID, ReasonAckTimeout) {
			c.log.Warn("Message not acknowledged", "correlation", correlationID)
		}
	})
	c.mu.Unlock()

	if err := c.write(name, correlationID, payload); err != nil {
		c.settle(correlationID)
		c.timeline.Fail(correlationID, err.Error())
		return entry, err
	}
	return entry, nil
}

func (c *Client) settle(correlationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if timer, ok := c.timers[correlationID]; ok {
		timer.Stop()
		delete(c.timers, correlationID)
	}
}

func (c *Client) write(name, correlationID string, payload any) error {
	env := event.Envelope{Event: name, CorrelationID: correlationID}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		env.Data = data
	}
	frame, err := json.Marshal(env)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}
