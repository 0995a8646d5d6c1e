package documents

import (
	"errors"
	"strconv"

	"go_mes/api/v1/middleware"
	"go_mes/internal/cache"
	"go_mes/internal/httpx"
	"go_mes/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler serves document column routes
type Handler struct {
	svc *service.DocumentService
}

// NewHandler creates a documents handler
func NewHandler(svc *service.DocumentService) *Handler {
	return &Handler{svc: svc}
}

func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		httpx.FailErr(c, httpx.ErrNotFound("document column not found"))
	case errors.Is(err, service.ErrNoFields):
		httpx.FailErr(c, httpx.ErrNoFieldsToUpdate())
	default:
		httpx.FailErr(c, httpx.ErrDatabase("", err))
	}
}

// Create handles POST /documents/columns/create
func (h *Handler) Create(c *gin.Context) {
	var req service.CreateColumnInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrValidation("docCode and partName are required"))
		return
	}

	column, err := h.svc.CreateColumn(middleware.Actor(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	cache.Invalidate(c.Request.Context(), cache.DashboardSummaryKey)
	httpx.OK(c, column)
}

// UpdateRequest is the sparse update body
type UpdateRequest struct {
	ID     int            `json:"id" binding:"required"`
	Fields map[string]any `json:"fields" binding:"required"`
}

// Update handles POST /documents/columns/update
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrValidation("id and fields are required"))
		return
	}

	column, err := h.svc.UpdateColumn(req.ID, middleware.Actor(c), req.Fields)
	if err != nil {
		fail(c, err)
		return
	}
	cache.Invalidate(c.Request.Context(), cache.DashboardSummaryKey)
	httpx.OK(c, column)
}

// IDRequest carries just a column id
type IDRequest struct {
	ID int `json:"id" binding:"required"`
}

// Delete handles POST /documents/columns/delete
func (h *Handler) Delete(c *gin.Context) {
	var req IDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrValidation("id is required"))
		return
	}

	if err := h.svc.DeleteColumn(req.ID, middleware.Actor(c)); err != nil {
		fail(c, err)
		return
	}
	cache.Invalidate(c.Request.Context(), cache.DashboardSummaryKey)
	httpx.OKMsg(c, "deleted", nil)
}

// Restore handles POST /documents/columns/restore
func (h *Handler) Restore(c *gin.Context) {
	var req IDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrValidation("id is required"))
		return
	}

	if err := h.svc.RestoreColumn(req.ID, middleware.Actor(c)); err != nil {
		fail(c, err)
		return
	}
	cache.Invalidate(c.Request.Context(), cache.DashboardSummaryKey)
	httpx.OKMsg(c, "restored", nil)
}

// List handles GET /documents/columns
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "15"))

	filter := service.ColumnFilter{
		DocCode:  c.Query("docCode"),
		Overdue:  c.Query("overdue") == "1",
		Page:     page,
		PageSize: pageSize,
	}
	columns, total, err := h.svc.ListColumns(filter)
	if err != nil {
		fail(c, err)
		return
	}
	httpx.OKItems(c, columns, total, filter.Page, filter.PageSize)
}

// Get handles GET /documents/columns/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrValidation("id must be an integer"))
		return
	}

	column, err := h.svc.GetColumn(id)
	if err != nil {
		fail(c, err)
		return
	}
	httpx.OK(c, column)
}

// History handles GET /documents/columns/:id/history
func (h *Handler) History(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrValidation("id must be an integer"))
		return
	}

	rows, err := h.svc.ColumnHistory(id)
	if err != nil {
		fail(c, err)
		return
	}
	httpx.OK(c, gin.H{"history": rows})
}
