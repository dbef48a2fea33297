package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ladle-dev/ladle/internal/models"
	"github.com/ladle-dev/ladle/internal/utils"
)

type DashboardSummary struct {
	Recipes              int64   `json:"recipes"`
	InventoryItems       int64   `json:"inventory_items"`
	LowStockItems        int64   `json:"low_stock_items"`
	Tables               int64   `json:"tables"`
	OpenOrders           int64   `json:"open_orders"`
	OrdersToday          int64   `json:"orders_today"`
	RevenueToday         float64 `json:"revenue_today"`
	UpcomingReservations int64   `json:"upcoming_reservations"`
}

// GetDashboardSummary aggregates tenant counts for the dashboard
// header cards.
func (h *Handler) GetDashboardSummary(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var summary DashboardSummary

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	counts := []func() error{
		func() error {
			return h.db.Model(&models.Recipe{}).Where("user_id = ? AND is_active = ?", userID, true).Count(&summary.Recipes).Error
		},
		func() error {
			return h.db.Model(&models.InventoryItem{}).Where("user_id = ?", userID).Count(&summary.InventoryItems).Error
		},
		func() error {
			return h.db.Model(&models.InventoryItem{}).Where("user_id = ? AND current_stock <= min_stock", userID).Count(&summary.LowStockItems).Error
		},
		func() error {
			return h.db.Model(&models.DiningTable{}).Where("user_id = ?", userID).Count(&summary.Tables).Error
		},
		func() error {
			return h.db.Model(&models.Order{}).
				Where("user_id = ? AND status NOT IN ?", userID, []string{models.OrderCompleted, models.OrderCancelled}).
				Count(&summary.OpenOrders).Error
		},
		func() error {
			return h.db.Model(&models.Order{}).Where("user_id = ? AND placed_at >= ?", userID, startOfDay).Count(&summary.OrdersToday).Error
		},
		func() error {
			return h.db.Model(&models.Reservation{}).
				Where("user_id = ? AND reserved_for >= ? AND status IN ?", userID, now,
					[]string{models.ReservationPending, models.ReservationConfirmed}).
				Count(&summary.UpcomingReservations).Error
		},
	}

	for _, count := range counts {
		if err := count(); err != nil {
			h.log.WithError(err).Error("building dashboard summary")
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to build summary"})
			return
		}
	}

	err = h.db.Model(&models.Order{}).
		Where("user_id = ? AND status = ? AND placed_at >= ?", userID, models.OrderCompleted, startOfDay).
		Select("COALESCE(SUM(total), 0)").Scan(&summary.RevenueToday).Error

	if err != nil {
		h.log.WithError(err).Error("summing revenue")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to build summary"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"summary": summary})
}

// Export dumps every record the tenant owns as a single JSON document.
func (h *Handler) Export(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var (
		recipes       []models.Recipe
		inventory     []models.InventoryItem
		suppliers     []models.Supplier
		restockOrders []models.RestockOrder
		tables        []models.DiningTable
		orders        []models.Order
		reservations  []models.Reservation
	)

	scoped := func(dest interface{}) error {
		return h.db.Where("user_id = ?", userID).Order("id").Find(dest).Error
	}

	for _, dest := range []interface{}{
		&recipes, &inventory, &suppliers, &restockOrders, &tables, &orders, &reservations,
	} {
		if err := scoped(dest); err != nil {
			h.log.WithError(err).Error("exporting tenant data")
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to export data"})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"exported_at":    time.Now().Format(time.RFC3339),
		"recipes":        recipes,
		"inventory":      inventory,
		"suppliers":      suppliers,
		"restock_orders": restockOrders,
		"tables":         tables,
		"orders":         orders,
		"reservations":   reservations,
	})
}
