package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ladle-dev/ladle/internal/models"
	"github.com/ladle-dev/ladle/internal/utils"
)

type CreateReservationRequest struct {
	CustomerName  string    `json:"customer_name" binding:"required"`
	CustomerPhone string    `json:"customer_phone"`
	CustomerEmail string    `json:"customer_email" binding:"omitempty,email"`
	PartySize     int       `json:"party_size" binding:"required,gt=0"`
	TableID       *uint     `json:"table_id"`
	ReservedFor   time.Time `json:"reserved_for" binding:"required"`
	Notes         string    `json:"notes"`
}

type UpdateReservationRequest = CreateReservationRequest

type ReservationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ReservationResponse struct {
	ID               uint      `json:"id"`
	CustomerName     string    `json:"customer_name"`
	CustomerPhone    string    `json:"customer_phone"`
	CustomerEmail    string    `json:"customer_email"`
	PartySize        int       `json:"party_size"`
	TableID          *uint     `json:"table_id"`
	ReservedFor      time.Time `json:"reserved_for"`
	ConfirmationCode string    `json:"confirmation_code"`
	Status           string    `json:"status"`
	Notes            string    `json:"notes"`
}

func reservationResponse(reservation *models.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:               reservation.ID,
		CustomerName:     reservation.CustomerName,
		CustomerPhone:    reservation.CustomerPhone,
		CustomerEmail:    reservation.CustomerEmail,
		PartySize:        reservation.PartySize,
		TableID:          reservation.TableID,
		ReservedFor:      reservation.ReservedFor,
		ConfirmationCode: reservation.ConfirmationCode,
		Status:           reservation.Status,
		Notes:            reservation.Notes,
	}
}

func newConfirmationCode() string {
	return strings.ToUpper(uuid.NewString()[:6])
}

func (h *Handler) CreateReservation(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req CreateReservationRequest

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

	reservation := models.Reservation{
		UserID:           userID,
		CustomerName:     req.CustomerName,
		CustomerPhone:    req.CustomerPhone,
		CustomerEmail:    req.CustomerEmail,
		PartySize:        req.PartySize,
		TableID:          req.TableID,
		ReservedFor:      req.ReservedFor,
		ConfirmationCode: newConfirmationCode(),
		Status:           models.ReservationPending,
		Notes:            req.Notes,
	}

	if err := h.db.Create(&reservation).Error; err != nil {
		h.log.WithError(err).Error("creating reservation")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create reservation"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"reservation": reservationResponse(&reservation)})
}

func (h *Handler) ListReservations(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	page := getPageParams(ctx)

	query := h.db.Model(&models.Reservation{}).Where("user_id = ?", userID)

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if date := ctx.Query("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		query = query.Where("reserved_for >= ? AND reserved_for < ?", day, day.Add(24*time.Hour))
	}

	var total int64

	if err := query.Count(&total).Error; err != nil {
		h.log.WithError(err).Error("counting reservations")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve reservations"})
		return
	}

	var reservations []models.Reservation

	if err := query.Order("reserved_for").Offset(page.Offset()).Limit(page.Limit).Find(&reservations).Error; err != nil {
		h.log.WithError(err).Error("listing reservations")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve reservations"})
		return
	}

	items := make([]ReservationResponse, 0, len(reservations))

	for i := range reservations {
		items = append(items, reservationResponse(&reservations[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items":      items,
		"pagination": makePagination(page, total),
	})
}

func (h *Handler) getReservation(ctx *gin.Context) (*models.Reservation, bool) {
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

	var reservation models.Reservation

	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Reservation not found"})
		} else {
			h.log.WithError(err).Error("fetching reservation")
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve reservation"})
		}
		return nil, false
	}

	return &reservation, true
}

func (h *Handler) GetReservation(ctx *gin.Context) {
	reservation, ok := h.getReservation(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"reservation": reservationResponse(reservation)})
}

func (h *Handler) UpdateReservation(ctx *gin.Context) {
	reservation, ok := h.getReservation(ctx)

	if !ok {
		return
	}

	var req UpdateReservationRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	okTable, err := h.resolveTable(reservation.UserID, req.TableID)

	if err != nil {
		h.log.WithError(err).Error("resolving table")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if !okTable {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Table not found"})
		return
	}

	reservation.CustomerName = req.CustomerName
	reservation.CustomerPhone = req.CustomerPhone
	reservation.CustomerEmail = req.CustomerEmail
	reservation.PartySize = req.PartySize
	reservation.TableID = req.TableID
	reservation.ReservedFor = req.ReservedFor
	reservation.Notes = req.Notes

	if err := h.db.Save(reservation).Error; err != nil {
		h.log.WithError(err).Error("updating reservation")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update reservation"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"reservation": reservationResponse(reservation)})
}

func (h *Handler) UpdateReservationStatus(ctx *gin.Context) {
	reservation, ok := h.getReservation(ctx)

	if !ok {
		return
	}

	var req ReservationStatusRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	if !models.CanTransitionReservation(reservation.Status, req.Status) {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"message": "Cannot transition reservation from " + reservation.Status + " to " + req.Status,
		})
		return
	}

	reservation.Status = req.Status

	if err := h.db.Save(reservation).Error; err != nil {
		h.log.WithError(err).Error("updating reservation status")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update reservation"})
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(reservation.UserID, Event{
			Type:    "reservation_status",
			Message: reservation.CustomerName + " reservation is " + reservation.Status,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"reservation": reservationResponse(reservation)})
}

func (h *Handler) DeleteReservation(ctx *gin.Context) {
	reservation, ok := h.getReservation(ctx)

	if !ok {
		return
	}

	if err := h.db.Delete(reservation).Error; err != nil {
		h.log.WithError(err).Error("deleting reservation")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete reservation"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Reservation deleted"})
}
