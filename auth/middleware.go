package auth

import (
	"chat-relay/errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Middleware rejects requests without a valid bearer token and stores the
// identity in the gin context. Websocket upgrades may pass the token as the
// "token" query parameter since browsers cannot set headers on them.
func Middleware(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := BearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			raw = c.Query("token")
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "authorization token is missing",
			})
			return
		}

		identity, err := tokens.Validate(raw)
		if err != nil {
			c.AbortWithStatusJSON(errors.StatusCode(err), gin.H{
				"success": false,
				"message": errors.ErrInvalidToken.Error(),
			})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// FromContext returns the identity stored by Middleware.
func FromContext(c *gin.Context) (Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	identity, ok := value.(Identity)
	return identity, ok
}

// BearerToken extracts the token of a "Bearer <token>" header value.
func BearerToken(header string) string {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}
