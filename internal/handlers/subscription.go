package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ladle-dev/ladle/internal/models"
	"github.com/ladle-dev/ladle/internal/plans"
	"github.com/ladle-dev/ladle/internal/utils"
)

type ChangePlanRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// ChangePlan switches the tenant's subscription tier. Paid tiers start
// a 30-day period; downgrading to free clears the expiry. Billing
// itself is out of scope, this only records the outcome.
func (h *Handler) ChangePlan(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req ChangePlanRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	if !plans.Valid(req.Plan) {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Unknown plan"})
		return
	}

	var user models.User

	if err := h.db.First(&user, currentUser.ID).Error; err != nil {
		h.log.WithError(err).Error("fetching user")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	updates := map[string]interface{}{
		"plan":                req.Plan,
		"subscription_status": "active",
	}

	if req.Plan == plans.Free {
		updates["subscription_expires_at"] = nil
	} else {
		expiry := time.Now().Add(30 * 24 * time.Hour)
		updates["subscription_expires_at"] = &expiry
	}

	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		h.log.WithError(err).Error("updating subscription")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if err := h.db.First(&user, user.ID).Error; err != nil {
		h.log.WithError(err).Error("refreshing user")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":                 "Subscription updated",
		"user":                    userResponse(&user),
		"subscription_status":     user.SubscriptionStatus,
		"subscription_expires_at": user.SubscriptionExpiresAt,
	})
}
