package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ladle-dev/ladle/internal/models"
	"github.com/ladle-dev/ladle/internal/utils"
)

type CreateInventoryItemRequest struct {
	Name         string  `json:"name" binding:"required"`
	Category     string  `json:"category"`
	Unit         string  `json:"unit"`
	CurrentStock float64 `json:"current_stock"`
	MinStock     float64 `json:"min_stock"`
	CostPerUnit  float64 `json:"cost_per_unit"`
	SupplierID   *uint   `json:"supplier_id"`
}

type UpdateInventoryItemRequest = CreateInventoryItemRequest

type InventoryItemResponse struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Unit         string  `json:"unit"`
	CurrentStock float64 `json:"current_stock"`
	MinStock     float64 `json:"min_stock"`
	CostPerUnit  float64 `json:"cost_per_unit"`
	SupplierID   *uint   `json:"supplier_id"`
	LowStock     bool    `json:"low_stock"`
}

func inventoryItemResponse(item *models.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ID:           item.ID,
		Name:         item.Name,
		Category:     item.Category,
		Unit:         item.Unit,
		CurrentStock: item.CurrentStock,
		MinStock:     item.MinStock,
		CostPerUnit:  item.CostPerUnit,
		SupplierID:   item.SupplierID,
		LowStock:     item.LowStock(),
	}
}

// resolveSupplier checks that a referenced supplier belongs to the
// tenant. Foreign suppliers read as absent.
func (h *Handler) resolveSupplier(userID uint, supplierID *uint) (bool, error) {
	if supplierID == nil {
		return true, nil
	}

	var supplier models.Supplier

	err := h.db.Where("id = ? AND user_id = ?", *supplierID, userID).First(&supplier).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	return err == nil, err
}

func (h *Handler) CreateInventoryItem(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req CreateInventoryItemRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
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

	item := models.InventoryItem{
		UserID:       userID,
		Name:         req.Name,
		Category:     req.Category,
		Unit:         req.Unit,
		CurrentStock: req.CurrentStock,
		MinStock:     req.MinStock,
		CostPerUnit:  req.CostPerUnit,
		SupplierID:   req.SupplierID,
	}

	if err := h.db.Create(&item).Error; err != nil {
		h.log.WithError(err).Error("creating inventory item")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create inventory item"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"item": inventoryItemResponse(&item)})
}

func (h *Handler) ListInventory(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	page := getPageParams(ctx)

	query := h.db.Model(&models.InventoryItem{}).Where("user_id = ?", userID)

	if category := ctx.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64

	if err := query.Count(&total).Error; err != nil {
		h.log.WithError(err).Error("counting inventory")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve inventory"})
		return
	}

	var inventory []models.InventoryItem

	if err := query.Order("id").Offset(page.Offset()).Limit(page.Limit).Find(&inventory).Error; err != nil {
		h.log.WithError(err).Error("listing inventory")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve inventory"})
		return
	}

	items := make([]InventoryItemResponse, 0, len(inventory))

	for i := range inventory {
		items = append(items, inventoryItemResponse(&inventory[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items":      items,
		"pagination": makePagination(page, total),
	})
}

// ListLowStock returns every item at or below its minimum stock level.
func (h *Handler) ListLowStock(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var inventory []models.InventoryItem

	err = h.db.Where("user_id = ? AND current_stock <= min_stock", userID).
		Order("id").Find(&inventory).Error

	if err != nil {
		h.log.WithError(err).Error("listing low stock")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve inventory"})
		return
	}

	items := make([]InventoryItemResponse, 0, len(inventory))

	for i := range inventory {
		items = append(items, inventoryItemResponse(&inventory[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) getInventoryItem(ctx *gin.Context) (*models.InventoryItem, bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return nil, false
	}

	id, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return nil, false
	}

	var item models.InventoryItem

	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Inventory item not found"})
		} else {
			h.log.WithError(err).Error("fetching inventory item")
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve inventory item"})
		}
		return nil, false
	}

	return &item, true
}

func (h *Handler) GetInventoryItem(ctx *gin.Context) {
	item, ok := h.getInventoryItem(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"item": inventoryItemResponse(item)})
}

func (h *Handler) UpdateInventoryItem(ctx *gin.Context) {
	item, ok := h.getInventoryItem(ctx)

	if !ok {
		return
	}

	var req UpdateInventoryItemRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	okSupplier, err := h.resolveSupplier(item.UserID, req.SupplierID)

	if err != nil {
		h.log.WithError(err).Error("resolving supplier")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if !okSupplier {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Supplier not found"})
		return
	}

	item.Name = req.Name
	item.Category = req.Category
	item.Unit = req.Unit
	item.CurrentStock = req.CurrentStock
	item.MinStock = req.MinStock
	item.CostPerUnit = req.CostPerUnit
	item.SupplierID = req.SupplierID

	if err := h.db.Save(item).Error; err != nil {
		h.log.WithError(err).Error("updating inventory item")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update inventory item"})
		return
	}

	if item.LowStock() && h.hub != nil {
		h.hub.Broadcast(item.UserID, Event{
			Type:    "low_stock",
			Message: item.Name + " is low on stock",
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"item": inventoryItemResponse(item)})
}

func (h *Handler) DeleteInventoryItem(ctx *gin.Context) {
	item, ok := h.getInventoryItem(ctx)

	if !ok {
		return
	}

	if err := h.db.Delete(item).Error; err != nil {
		h.log.WithError(err).Error("deleting inventory item")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete inventory item"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted"})
}
