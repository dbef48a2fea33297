package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ladle-dev/ladle/internal/models"
	"github.com/ladle-dev/ladle/internal/utils"
)

type CreateSupplierRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Notes       string `json:"notes"`
}

type UpdateSupplierRequest = CreateSupplierRequest

type SupplierResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Notes       string `json:"notes"`
}

func supplierResponse(supplier *models.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:          supplier.ID,
		Name:        supplier.Name,
		ContactName: supplier.ContactName,
		Email:       supplier.Email,
		Phone:       supplier.Phone,
		Address:     supplier.Address,
		Notes:       supplier.Notes,
	}
}

func (h *Handler) CreateSupplier(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req CreateSupplierRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	supplier := models.Supplier{
		UserID:      userID,
		Name:        req.Name,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Notes:       req.Notes,
	}

	if err := h.db.Create(&supplier).Error; err != nil {
		h.log.WithError(err).Error("creating supplier")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create supplier"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"supplier": supplierResponse(&supplier)})
}

func (h *Handler) ListSuppliers(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	page := getPageParams(ctx)

	query := h.db.Model(&models.Supplier{}).Where("user_id = ?", userID)

	if search := ctx.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64

	if err := query.Count(&total).Error; err != nil {
		h.log.WithError(err).Error("counting suppliers")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve suppliers"})
		return
	}

	var suppliers []models.Supplier

	if err := query.Order("id").Offset(page.Offset()).Limit(page.Limit).Find(&suppliers).Error; err != nil {
		h.log.WithError(err).Error("listing suppliers")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve suppliers"})
		return
	}

	items := make([]SupplierResponse, 0, len(suppliers))

	for i := range suppliers {
		items = append(items, supplierResponse(&suppliers[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items":      items,
		"pagination": makePagination(page, total),
	})
}

func (h *Handler) getSupplier(ctx *gin.Context) (*models.Supplier, bool) {
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

	var supplier models.Supplier

	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Supplier not found"})
		} else {
			h.log.WithError(err).Error("fetching supplier")
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve supplier"})
		}
		return nil, false
	}

	return &supplier, true
}

func (h *Handler) GetSupplier(ctx *gin.Context) {
	supplier, ok := h.getSupplier(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"supplier": supplierResponse(supplier)})
}

func (h *Handler) UpdateSupplier(ctx *gin.Context) {
	supplier, ok := h.getSupplier(ctx)

	if !ok {
		return
	}

	var req UpdateSupplierRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	supplier.Name = req.Name
	supplier.ContactName = req.ContactName
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	supplier.Notes = req.Notes

	if err := h.db.Save(supplier).Error; err != nil {
		h.log.WithError(err).Error("updating supplier")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update supplier"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"supplier": supplierResponse(supplier)})
}

func (h *Handler) DeleteSupplier(ctx *gin.Context) {
	supplier, ok := h.getSupplier(ctx)

	if !ok {
		return
	}

	if err := h.db.Delete(supplier).Error; err != nil {
		h.log.WithError(err).Error("deleting supplier")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete supplier"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Supplier deleted"})
}
