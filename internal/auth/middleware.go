package auth

import (
	"net/http"
	"strings"

	"todolist/internal/logger"

	"github.com/gin-gonic/gin"
)

const contextKeyUserID = "user_id"

// Rejection messages, one per failure class.
const (
	MsgNoToken        = "No token provided."
	MsgMalformedToken = "Token malformatted."
	MsgInvalidToken   = "Token invalid."
)

// TokenVerifier is what RequireToken needs from a TokenService.
type TokenVerifier interface {
	Verify(raw string) (int64, error)
}

// UserIDFromContext returns the current user ID set by RequireToken. 0 if not set.
func UserIDFromContext(c *gin.Context) int64 {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return 0
	}
	id, ok := v.(int64)
	if !ok {
		return 0
	}
	return id
}

// RequireToken returns a middleware that checks the "Authorization: Bearer <token>"
// header and sets the current user ID in context. Any failure responds with 401.
// The user id is trusted as signed; it is not looked up in the store.
func RequireToken(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": MsgNoToken})
			return
		}

		scheme, raw, _ := strings.Cut(header, " ")
		if !strings.EqualFold(scheme, "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": MsgMalformedToken})
			return
		}

		userID, err := tokens.Verify(raw)
		if err != nil {
			logger.FromContext(c).Debug().Err(err).Msg("bearer token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": MsgInvalidToken})
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}
