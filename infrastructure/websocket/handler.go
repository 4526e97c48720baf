// Package websocket is the realtime transport: one authenticated socket per
// session, JSON envelopes in both directions.
package websocket

import (
	"chat-relay/auth"
	"chat-relay/domain/chat"
	"chat-relay/services"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Options struct {
	BufferSize int
	ReadLimit  int64
	PongWait   time.Duration
	WriteWait  time.Duration
}

func DefaultOptions(bufferSize int) Options {
	return Options{
		BufferSize: bufferSize,
		ReadLimit:  64 << 10,
		PongWait:   60 * time.Second,
		WriteWait:  10 * time.Second,
	}
}

func (o Options) PingPeriod() time.Duration { return (o.PongWait * 9) / 10 }

type Handler struct {
	log      *slog.Logger
	chat     services.IChatService
	upgrader websocket.Upgrader
	options  Options
	// ctx bounds every connection, canceled on shutdown.
	ctx context.Context
}

func NewHandler(ctx context.Context, log *slog.Logger, chat services.IChatService, options Options) *Handler {
	return &Handler{
		log:  log,
		chat: chat,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		options: options,
		ctx:     ctx,
	}
}

// Serve upgrades an authenticated request and blocks until the socket closes.
func (h *Handler) Serve(c *gin.Context) {
	identity, ok := auth.FromContext(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("Upgrade failed", "user", identity.UserID, "error", err)
		return
	}

	session := chat.Session{UserID: identity.UserID, ConnectionID: uuid.NewString()}
	connection := &Connection{
		log:      h.log.With("user", session.UserID, "connection", session.ConnectionID),
		conn:     conn,
		sink:     NewSink(h.options.BufferSize),
		session:  session,
		identity: identity,
		chat:     h.chat,
		options:  h.options,
	}
	connection.log.Info("Socket connected")
	connection.Serve(h.ctx)
	connection.log.Info("Socket disconnected")
}
