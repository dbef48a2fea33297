package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/ladle-dev/ladle/internal/auth"
	"github.com/ladle-dev/ladle/internal/types"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Handler carries the shared dependencies for every endpoint. The
// database handle is passed in at construction; nothing here is
// package-level state.
type Handler struct {
	db     *gorm.DB
	tokens *auth.JWT
	hub    *Hub
	log    *logrus.Logger
}

func New(conn *gorm.DB, tokens *auth.JWT, hub *Hub, log *logrus.Logger) *Handler {
	return &Handler{db: conn, tokens: tokens, hub: hub, log: log}
}

type pageParams struct {
	Page  int
	Limit int
}

func (p pageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

func getPageParams(ctx *gin.Context) pageParams {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return pageParams{Page: page, Limit: limit}
}

func makePagination(p pageParams, total int64) types.Pagination {
	pages := int(total) / p.Limit
	if int(total)%p.Limit != 0 {
		pages++
	}

	return types.Pagination{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: pages,
	}
}
