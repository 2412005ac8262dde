package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-parser-backend/internal/shared/server/respond"
)

const userIDKey = "userId"

// Identity resolves the caller identity from the X-User-Id header and stores it
// in the request context. Authentication proper is handled upstream (gateway);
// this service only needs a stable owner id for scoping queries.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		userID := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if userID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing user identity", nil)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserIDFromContext returns the identity stored by Identity middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
