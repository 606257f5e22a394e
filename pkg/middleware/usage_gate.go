package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"subgate/pkg/utils"
)

// UsageConsumer spends one unit of the caller's daily allowance and reports
// how much is left.
type UsageConsumer interface {
	ConsumeUsage(ctx context.Context, userID uuid.UUID) (int, error)
}

// UsageGate guards routes behind an active subscription with remaining daily
// allowance. Runs after JWTAuthMiddleware; the remaining count is stored in
// the context under "usage_remaining".
func UsageGate(consumer UsageConsumer) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.GetString("user_id"))
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid token subject")
			c.Abort()
			return
		}

		remaining, err := consumer.ConsumeUsage(c.Request.Context(), userID)
		if err != nil {
			utils.HandleServiceError(c, err)
			c.Abort()
			return
		}

		c.Set("usage_remaining", remaining)
		c.Next()
	}
}
