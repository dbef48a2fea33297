package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ladle-dev/ladle/internal/models"
	"github.com/ladle-dev/ladle/internal/types"
	"github.com/ladle-dev/ladle/internal/utils"
)

const taxRate = 0.10

type CreateOrderRequest struct {
	TableID *uint             `json:"table_id"`
	Type    string            `json:"type" binding:"required,oneof=dine_in takeout delivery"`
	Items   []types.OrderItem `json:"items" binding:"required,min=1"`
	Notes   string            `json:"notes"`
}

type UpdateOrderRequest struct {
	TableID *uint             `json:"table_id"`
	Items   []types.OrderItem `json:"items" binding:"required,min=1"`
	Notes   string            `json:"notes"`
}

type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type OrderResponse struct {
	ID       uint              `json:"id"`
	Number   string            `json:"number"`
	TableID  *uint             `json:"table_id"`
	Type     string            `json:"type"`
	Status   string            `json:"status"`
	Items    []types.OrderItem `json:"items"`
	Subtotal float64           `json:"subtotal"`
	Tax      float64           `json:"tax"`
	Total    float64           `json:"total"`
	Notes    string            `json:"notes"`
	PlacedAt time.Time         `json:"placed_at"`
	ClosedAt *time.Time        `json:"closed_at"`
}

func orderResponse(order *models.Order) OrderResponse {
	var items []types.OrderItem
	if len(order.Items) > 0 {
		_ = json.Unmarshal(order.Items, &items)
	}

	return OrderResponse{
		ID:       order.ID,
		Number:   order.Number,
		TableID:  order.TableID,
		Type:     order.Type,
		Status:   order.Status,
		Items:    items,
		Subtotal: order.Subtotal,
		Tax:      order.Tax,
		Total:    order.Total,
		Notes:    order.Notes,
		PlacedAt: order.PlacedAt,
		ClosedAt: order.ClosedAt,
	}
}

func orderTotals(items []types.OrderItem) (subtotal, tax, total float64) {
	for _, item := range items {
		subtotal += float64(item.Quantity) * item.UnitPrice
	}
	tax = subtotal * taxRate
	total = subtotal + tax
	return subtotal, tax, total
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

// resolveTable checks that a referenced table belongs to the tenant.
func (h *Handler) resolveTable(userID uint, tableID *uint) (bool, error) {
	if tableID == nil {
		return true, nil
	}

	var table models.DiningTable

	err := h.db.Where("id = ? AND user_id = ?", *tableID, userID).First(&table).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	return err == nil, err
}

func (h *Handler) CreateOrder(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req CreateOrderRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	ok, err := h.resolveTable(userID, req.TableID)

	if err != nil {
		h.log.WithError(err).Error("resolving table")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Table not found"})
		return
	}

	raw, err := json.Marshal(req.Items)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid items"})
		return
	}

	subtotal, tax, total := orderTotals(req.Items)

	order := models.Order{
		UserID:   userID,
		Number:   newOrderNumber(),
		TableID:  req.TableID,
		Type:     req.Type,
		Status:   models.OrderPending,
		Items:    datatypes.JSON(raw),
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
		Notes:    req.Notes,
		PlacedAt: time.Now(),
	}

	if err := h.db.Create(&order).Error; err != nil {
		h.log.WithError(err).Error("creating order")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create order"})
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(userID, Event{Type: "order_created", Message: order.Number})
	}

	ctx.JSON(http.StatusCreated, gin.H{"order": orderResponse(&order)})
}

func (h *Handler) ListOrders(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	page := getPageParams(ctx)

	query := h.db.Model(&models.Order{}).Where("user_id = ?", userID)

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if orderType := ctx.Query("type"); orderType != "" {
		query = query.Where("type = ?", orderType)
	}

	var total int64

	if err := query.Count(&total).Error; err != nil {
		h.log.WithError(err).Error("counting orders")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve orders"})
		return
	}

	var orders []models.Order

	if err := query.Order("placed_at DESC").Offset(page.Offset()).Limit(page.Limit).Find(&orders).Error; err != nil {
		h.log.WithError(err).Error("listing orders")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve orders"})
		return
	}

	items := make([]OrderResponse, 0, len(orders))

	for i := range orders {
		items = append(items, orderResponse(&orders[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items":      items,
		"pagination": makePagination(page, total),
	})
}

func (h *Handler) getOrder(ctx *gin.Context) (*models.Order, bool) {
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

	var order models.Order

	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		} else {
			h.log.WithError(err).Error("fetching order")
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve order"})
		}
		return nil, false
	}

	return &order, true
}

func (h *Handler) GetOrder(ctx *gin.Context) {
	order, ok := h.getOrder(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": orderResponse(order)})
}

// UpdateOrder edits items, table, and notes while the order is still
// open. Totals are recomputed server-side.
func (h *Handler) UpdateOrder(ctx *gin.Context) {
	order, ok := h.getOrder(ctx)

	if !ok {
		return
	}

	if models.OrderTerminal(order.Status) {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Order is closed"})
		return
	}

	var req UpdateOrderRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	okTable, err := h.resolveTable(order.UserID, req.TableID)

	if err != nil {
		h.log.WithError(err).Error("resolving table")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if !okTable {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Table not found"})
		return
	}

	raw, err := json.Marshal(req.Items)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid items"})
		return
	}

	subtotal, tax, total := orderTotals(req.Items)

	order.TableID = req.TableID
	order.Items = datatypes.JSON(raw)
	order.Subtotal = subtotal
	order.Tax = tax
	order.Total = total
	order.Notes = req.Notes

	if err := h.db.Save(order).Error; err != nil {
		h.log.WithError(err).Error("updating order")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update order"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": orderResponse(order)})
}

// UpdateOrderStatus moves the order along its lifecycle; transitions
// outside the table are rejected.
func (h *Handler) UpdateOrderStatus(ctx *gin.Context) {
	order, ok := h.getOrder(ctx)

	if !ok {
		return
	}

	var req OrderStatusRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	if !models.CanTransitionOrder(order.Status, req.Status) {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"message": "Cannot transition order from " + order.Status + " to " + req.Status,
		})
		return
	}

	order.Status = req.Status

	if models.OrderTerminal(order.Status) {
		now := time.Now()
		order.ClosedAt = &now
	}

	if err := h.db.Save(order).Error; err != nil {
		h.log.WithError(err).Error("updating order status")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update order"})
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(order.UserID, Event{
			Type:    "order_status",
			Message: order.Number + " is " + order.Status,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"order": orderResponse(order)})
}

func (h *Handler) DeleteOrder(ctx *gin.Context) {
	order, ok := h.getOrder(ctx)

	if !ok {
		return
	}

	if err := h.db.Delete(order).Error; err != nil {
		h.log.WithError(err).Error("deleting order")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete order"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}
