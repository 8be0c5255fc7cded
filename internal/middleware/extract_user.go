package middleware

import (
	"net/http"

	"github.com/shankar7055/sewa-volunteer-app/internal/shared/contextutil"
	"github.com/shankar7055/sewa-volunteer-app/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExtractUserID validates the user id set by AuthMiddleware and propagates it
// into the request context, tagging the request-scoped logger on the way.
// Runs after ContextLogger, which cannot see the id itself because it is
// registered globally ahead of the auth chain.
func ExtractUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User is not authenticated", nil)
			c.Abort()
			return
		}

		userIDStr, ok := userID.(string)
		if !ok || userIDStr == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_USER_ID", "Invalid user_id format", nil)
			c.Abort()
			return
		}

		c.Set("user_id_validated", userIDStr)

		ctx := contextutil.WithUserID(c.Request.Context(), userIDStr)
		logger := contextutil.GetLogger(ctx, zap.L()).With(zap.String("user_id", userIDStr))
		ctx = contextutil.WithLogger(ctx, logger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
