package rest

import (
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"chat-relay/services"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	log    *slog.Logger
	groups services.IGroupService
}

func NewGroupController(log *slog.Logger, groups services.IGroupService) *GroupController {
	return &GroupController{log: log, groups: groups}
}

type createGroupRequest struct {
	Name    string   `json:"name" binding:"required"`
	Members []string `json:"members"`
}

type addMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *GroupController) Create(c *gin.Context) {
	var body createGroupRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, h.log, fmt.Errorf("%w: %w", errors.ErrInvalidPayload, err))
		return
	}
	group, err := h.groups.CreateGroup(chat.CreateGroupCommand{
		Name:      body.Name,
		CreatorID: identity(c).UserID,
		Members:   body.Members,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, http.StatusCreated, group)
}

func (h *GroupController) List(c *gin.Context) {
	groups, err := h.groups.ListGroups(identity(c).UserID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, groups)
}

func (h *GroupController) Get(c *gin.Context) {
	group, err := h.groups.GetGroup(c.Param("groupID"), identity(c).UserID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, group)
}

func (h *GroupController) Delete(c *gin.Context) {
	if err := h.groups.DeleteGroup(c.Request.Context(), c.Param("groupID"), identity(c).UserID); err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, nil)
}

func (h *GroupController) AddMember(c *gin.Context) {
	var body addMemberRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, h.log, fmt.Errorf("%w: %w", errors.ErrInvalidPayload, err))
		return
	}
	group, err := h.groups.AddMember(c.Param("groupID"), identity(c).UserID, body.UserID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, group)
}

func (h *GroupController) RemoveMember(c *gin.Context) {
	group, err := h.groups.RemoveMember(c.Param("groupID"), identity(c).UserID, c.Param("memberID"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, group)
}

func parseTime(raw string) (time.Time, error) {
	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: before must be an RFC 3339 timestamp", errors.ErrValidation)
	}
	return at, nil
}
