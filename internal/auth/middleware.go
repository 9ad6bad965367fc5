package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/response"
)

const (
	UserKey = "user"
	// TokenQueryParam carries the token on websocket upgrades.
	TokenQueryParam = "access_token"
)

// bearerToken prefers the Authorization header and falls back to the query
// parameter only on websocket upgrades.
func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return c.Query(TokenQueryParam)
	}
	return ""
}

func AuthMiddleware(provider Provider, env string, logger internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString(response.RequestIDKey)
		token := bearerToken(c)
		if token == "" {
			logger.Infof("[request_id=%s] no token on %s", requestID, c.FullPath())
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized("missing bearer token").WithRequestID(requestID))
			return
		}

		var user *internal.User
		var err error
		if env == "development" {
			user, err = provider.ValidateTokenLocal(token)
		} else {
			user, err = provider.ValidateTokenRemote(c.Request.Context(), token)
		}
		if err != nil {
			logger.Warnf("[request_id=%s] rejected token on %s: %v", requestID, c.FullPath(), err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized("Unauthorized").WithRequestID(requestID))
			return
		}
		c.Set(UserKey, user)
		c.Next()
	}
}
