package rest

import (
	"chat-relay/auth"
	"chat-relay/infrastructure/websocket"
	"chat-relay/observability"
	"chat-relay/services"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	Tokens *auth.Tokens
	Chat   services.IChatService
	Groups services.IGroupService
	// Socket and Monitor are optional.
	Socket  *websocket.Handler
	Monitor *observability.MonitoringManager
}

// NewRouter mounts the REST API under /api and the realtime socket on /ws.
func NewRouter(log *slog.Logger, deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	if deps.Monitor != nil {
		r.GET("/debug/stats", func(c *gin.Context) { ok(c, http.StatusOK, deps.Monitor.GetLatest()) })
	}
	if deps.Socket != nil {
		r.GET("/ws", auth.Middleware(deps.Tokens), deps.Socket.Serve)
	}

	chats := NewChatController(log, deps.Chat)
	groups := NewGroupController(log, deps.Groups)

	api := r.Group("/api")
	api.Use(auth.Middleware(deps.Tokens))
	{
		api.GET("/conversations/:userID", chats.Conversation)
		api.POST("/conversations/:userID/read", chats.MarkRead)
		api.GET("/unread", chats.Unread)
		api.GET("/unread/:userID", chats.HasUnreadFrom)
		api.GET("/search", chats.Search)
		api.GET("/presence/:userID", chats.Presence)

		api.POST("/groups", groups.Create)
		api.GET("/groups", groups.List)
		api.GET("/groups/:groupID", groups.Get)
		api.DELETE("/groups/:groupID", groups.Delete)
		api.POST("/groups/:groupID/members", groups.AddMember)
		api.DELETE("/groups/:groupID/members/:memberID", groups.RemoveMember)
		api.POST("/groups/:groupID/messages", chats.SendGroup)
		api.GET("/groups/:groupID/messages", chats.GroupMessages)
		api.POST("/groups/:groupID/read", chats.MarkGroupRead)
	}
	return r
}
