package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ladle-dev/ladle/internal/models"
	"github.com/ladle-dev/ladle/internal/utils"
)

type CreateRestockOrderRequest struct {
	InventoryItemID uint    `json:"inventory_item_id" binding:"required"`
	SupplierID      *uint   `json:"supplier_id"`
	Quantity        float64 `json:"quantity" binding:"required,gt=0"`
	UnitCost        float64 `json:"unit_cost"`
}

type UpdateRestockOrderRequest struct {
	Status string `json:"status" binding:"required"`
}

type RestockOrderResponse struct {
	ID              uint       `json:"id"`
	InventoryItemID uint       `json:"inventory_item_id"`
	SupplierID      *uint      `json:"supplier_id"`
	Quantity        float64    `json:"quantity"`
	UnitCost        float64    `json:"unit_cost"`
	Status          string     `json:"status"`
	ReceivedAt      *time.Time `json:"received_at"`
}

var restockStatuses = map[string]bool{
	"pending":   true,
	"ordered":   true,
	"received":  true,
	"cancelled": true,
}

func restockOrderResponse(order *models.RestockOrder) RestockOrderResponse {
	return RestockOrderResponse{
		ID:              order.ID,
		InventoryItemID: order.InventoryItemID,
		SupplierID:      order.SupplierID,
		Quantity:        order.Quantity,
		UnitCost:        order.UnitCost,
		Status:          order.Status,
		ReceivedAt:      order.ReceivedAt,
	}
}

func (h *Handler) CreateRestockOrder(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req CreateRestockOrderRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	var item models.InventoryItem

	if err := h.db.Where("id = ? AND user_id = ?", req.InventoryItemID, userID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Inventory item not found"})
		} else {
			h.log.WithError(err).Error("fetching inventory item")
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	ok, err := h.resolveSupplier(userID, req.SupplierID)

	if err != nil {
		h.log.WithError(err).Error("resolving supplier")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Supplier not found"})
		return
	}

	order := models.RestockOrder{
		UserID:          userID,
		InventoryItemID: req.InventoryItemID,
		SupplierID:      req.SupplierID,
		Quantity:        req.Quantity,
		UnitCost:        req.UnitCost,
		Status:          "pending",
	}

	if err := h.db.Create(&order).Error; err != nil {
		h.log.WithError(err).Error("creating restock order")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create restock order"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"restock_order": restockOrderResponse(&order)})
}

func (h *Handler) ListRestockOrders(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	page := getPageParams(ctx)

	query := h.db.Model(&models.RestockOrder{}).Where("user_id = ?", userID)

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64

	if err := query.Count(&total).Error; err != nil {
		h.log.WithError(err).Error("counting restock orders")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve restock orders"})
		return
	}

	var orders []models.RestockOrder

	if err := query.Order("id").Offset(page.Offset()).Limit(page.Limit).Find(&orders).Error; err != nil {
		h.log.WithError(err).Error("listing restock orders")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve restock orders"})
		return
	}

	items := make([]RestockOrderResponse, 0, len(orders))

	for i := range orders {
		items = append(items, restockOrderResponse(&orders[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items":      items,
		"pagination": makePagination(page, total),
	})
}

// UpdateRestockOrder changes the order status. The first move to
// "received" stamps the timestamp and adds the quantity to the item's
// stock; a ReceivedAt already set means the stock was counted, so
// cycling the status never counts it twice.
func (h *Handler) UpdateRestockOrder(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	id, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return
	}

	var req UpdateRestockOrderRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	if !restockStatuses[req.Status] {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Unknown status"})
		return
	}

	var order models.RestockOrder

	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Restock order not found"})
		} else {
			h.log.WithError(err).Error("fetching restock order")
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve restock order"})
		}
		return
	}

	receiving := req.Status == "received" && order.ReceivedAt == nil

	order.Status = req.Status

	if receiving {
		now := time.Now()
		order.ReceivedAt = &now
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		if receiving {
			return tx.Model(&models.InventoryItem{}).
				Where("id = ? AND user_id = ?", order.InventoryItemID, userID).
				Update("current_stock", gorm.Expr("current_stock + ?", order.Quantity)).Error
		}

		return nil
	})

	if err != nil {
		h.log.WithError(err).Error("updating restock order")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update restock order"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"restock_order": restockOrderResponse(&order)})
}

func (h *Handler) DeleteRestockOrder(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	id, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return
	}

	var order models.RestockOrder

	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Restock order not found"})
		} else {
			h.log.WithError(err).Error("fetching restock order")
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve restock order"})
		}
		return
	}

	if err := h.db.Delete(&order).Error; err != nil {
		h.log.WithError(err).Error("deleting restock order")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete restock order"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Restock order deleted"})
}
