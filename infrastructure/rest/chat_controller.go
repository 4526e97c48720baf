package rest

import (
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"chat-relay/services"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultSearchLimit = 20

type ChatController struct {
	log  *slog.Logger
	chat services.IChatService
}

func NewChatController(log *slog.Logger, chat services.IChatService) *ChatController {
	return &ChatController{log: log, chat: chat}
}

func (h *ChatController) Conversation(c *gin.Context) {
	messages, err := h.chat.Conversation(identity(c).UserID, c.Param("userID"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, messages)
}

func (h *ChatController) MarkRead(c *gin.Context) {
	n, err := h.chat.MarkRead(c.Request.Context(), identity(c).UserID, c.Param("userID"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"marked": n})
}

func (h *ChatController) Unread(c *gin.Context) {
	summary, err := h.chat.Unread(identity(c).UserID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, summary)
}

func (h *ChatController) HasUnreadFrom(c *gin.Context) {
	unread, err := h.chat.HasUnreadFrom(identity(c).UserID, c.Param("userID"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"unread": unread})
}

type sendGroupRequest struct {
	Content    string `json:"content"`
	SenderName string `json:"senderName"`
}

func (h *ChatController) SendGroup(c *gin.Context) {
	var body sendGroupRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, h.log, fmt.Errorf("%w: %w", errors.ErrInvalidPayload, err))
		return
	}
	me := identity(c)
	if body.SenderName == "" {
		body.SenderName = me.Name
	}
	message, err := h.chat.SendGroup(c.Request.Context(), chat.SendGroupCommand{
		SenderID:   me.UserID,
		GroupID:    c.Param("groupID"),
		SenderName: body.SenderName,
		Content:    body.Content,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, http.StatusCreated, message)
}

func (h *ChatController) GroupMessages(c *gin.Context) {
	cmd := chat.FetchGroupMessagesCommand{GroupID: c.Param("groupID"), RequesterID: identity(c).UserID}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			fail(c, h.log, fmt.Errorf("%w: limit must be a number", errors.ErrValidation))
			return
		}
		cmd.Limit = limit
	}
	if raw := c.Query("before"); raw != "" {
		before, err := parseTime(raw)
		if err != nil {
			fail(c, h.log, err)
			return
		}
		cmd.Before = &before
	}

	messages, err := h.chat.GroupMessages(cmd)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, messages)
}

func (h *ChatController) MarkGroupRead(c *gin.Context) {
	n, err := h.chat.MarkGroupRead(c.Request.Context(), c.Param("groupID"), identity(c).UserID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"marked": n})
}

// Search expects exactly one of "with" (a user) or "group".
func (h *ChatController) Search(c *gin.Context) {
	with, group := c.Query("with"), c.Query("group")
	var conversation chat.Conversation
	switch {
	case with != "" && group == "":
		conversation = chat.Direct(with)
	case group != "" && with == "":
		conversation = chat.InGroup(group)
	default:
		fail(c, h.log, fmt.Errorf("%w: exactly one of with or group is required", errors.ErrValidation))
		return
	}

	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			fail(c, h.log, fmt.Errorf("%w: limit must be a positive number", errors.ErrValidation))
			return
		}
		limit = n
	}

	hits, err := h.chat.Search(c.Request.Context(), identity(c).UserID, conversation, c.Query("q"), limit)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, hits)
}

func (h *ChatController) Presence(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"online": h.chat.IsOnline(c.Param("userID"))})
}
