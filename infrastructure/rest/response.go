// Package rest exposes the pull side of the messaging core over HTTP.
// Every route runs behind auth.Middleware and acts as the token's user.
package rest

import (
	"chat-relay/auth"
	"chat-relay/errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, response{Success: true, Data: data})
}

func fail(c *gin.Context, log *slog.Logger, err error) {
	status := errors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, response{Success: false, Message: err.Error()})
}

func identity(c *gin.Context) auth.Identity {
	id, _ := auth.FromContext(c)
	return id
}
