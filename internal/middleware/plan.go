package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ladle-dev/ladle/internal/plans"
	"github.com/ladle-dev/ladle/internal/types"
)

// RequirePlan gates a route group at a minimum subscription tier. Must
// run after Auth.
func RequirePlan(required string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, exists := ctx.Get(types.ContextUserKey)

		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
			return
		}

		user, ok := value.(AuthenticatedUser)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
			return
		}

		if !plans.Allows(user.Plan, required) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": fmt.Sprintf("This feature requires the %s plan or higher (current plan: %s)", required, user.Plan),
			})
			return
		}

		ctx.Next()
	}
}
