package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ladle-dev/ladle/internal/models"
	"github.com/ladle-dev/ladle/internal/utils"
)

type CreateTableRequest struct {
	Number   int    `json:"number" binding:"required"`
	Capacity int    `json:"capacity"`
	Location string `json:"location"`
	Status   string `json:"status" binding:"omitempty,oneof=available occupied reserved"`
}

type UpdateTableRequest = CreateTableRequest

type TableResponse struct {
	ID       uint   `json:"id"`
	Number   int    `json:"number"`
	Capacity int    `json:"capacity"`
	Location string `json:"location"`
	Status   string `json:"status"`
}

func tableResponse(table *models.DiningTable) TableResponse {
	return TableResponse{
		ID:       table.ID,
		Number:   table.Number,
		Capacity: table.Capacity,
		Location: table.Location,
		Status:   table.Status,
	}
}

func (h *Handler) CreateTable(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req CreateTableRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	status := req.Status
	if status == "" {
		status = "available"
	}

	table := models.DiningTable{
		UserID:   userID,
		Number:   req.Number,
		Capacity: req.Capacity,
		Location: req.Location,
		Status:   status,
	}

	if err := h.db.Create(&table).Error; err != nil {
		h.log.WithError(err).Error("creating table")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create table"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"table": tableResponse(&table)})
}

func (h *Handler) ListTables(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	page := getPageParams(ctx)

	query := h.db.Model(&models.DiningTable{}).Where("user_id = ?", userID)

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64

	if err := query.Count(&total).Error; err != nil {
		h.log.WithError(err).Error("counting tables")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve tables"})
		return
	}

	var tables []models.DiningTable

	if err := query.Order("number").Offset(page.Offset()).Limit(page.Limit).Find(&tables).Error; err != nil {
		h.log.WithError(err).Error("listing tables")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve tables"})
		return
	}

	items := make([]TableResponse, 0, len(tables))

	for i := range tables {
		items = append(items, tableResponse(&tables[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items":      items,
		"pagination": makePagination(page, total),
	})
}

func (h *Handler) getTable(ctx *gin.Context) (*models.DiningTable, bool) {
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

	var table models.DiningTable

	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Table not found"})
		} else {
			h.log.WithError(err).Error("fetching table")
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve table"})
		}
		return nil, false
	}

	return &table, true
}

func (h *Handler) GetTable(ctx *gin.Context) {
	table, ok := h.getTable(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"table": tableResponse(table)})
}

func (h *Handler) UpdateTable(ctx *gin.Context) {
	table, ok := h.getTable(ctx)

	if !ok {
		return
	}

	var req UpdateTableRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	table.Number = req.Number
	table.Capacity = req.Capacity
	table.Location = req.Location

	if req.Status != "" {
		table.Status = req.Status
	}

	if err := h.db.Save(table).Error; err != nil {
		h.log.WithError(err).Error("updating table")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update table"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"table": tableResponse(table)})
}

// DeleteTable hard-deletes; orders and reservations pointing at the
// table get their table link nulled.
func (h *Handler) DeleteTable(ctx *gin.Context) {
	table, ok := h.getTable(ctx)

	if !ok {
		return
	}

	if err := h.db.Delete(table).Error; err != nil {
		h.log.WithError(err).Error("deleting table")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete table"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Table deleted"})
}
