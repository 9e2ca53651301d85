package auth

import (
	"net/http"
	"strings"

	"github.com/Sintu8737/timesheet/internal"
	"github.com/gin-gonic/gin"
)

// UserKey is the gin context key holding the authenticated *internal.Identity.
const UserKey = "user"

func AuthMiddleware(provider Provider, logger internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			user, err := provider.ValidateToken(c.Request.Context(), token)
			if err == nil {
				c.Set(UserKey, user)
				c.Next()
				return
			}
			logger.Warnf("[request_id=%s] rejected session token: %v", c.GetString("request_id"), err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, internal.NewAppError(http.StatusUnauthorized, "Unauthorized"))
	}
}

// CurrentUser returns the identity set by AuthMiddleware, if any.
func CurrentUser(c *gin.Context) (*internal.Identity, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*internal.Identity)
	return user, ok
}
