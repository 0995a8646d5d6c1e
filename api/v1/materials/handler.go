package materials

import (
	"errors"
	"strconv"

	"go_mes/api/v1/middleware"
	"go_mes/internal/cache"
	"go_mes/internal/export"
	"go_mes/internal/httpx"
	"go_mes/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler serves material sheet routes. Every route carries the material
// kind as a path segment; the service rejects unknown kinds.
type Handler struct {
	svc      *service.SheetService
	exporter *export.Exporter
}

// NewHandler creates a materials handler
func NewHandler(svc *service.SheetService, exporter *export.Exporter) *Handler {
	return &Handler{svc: svc, exporter: exporter}
}

// fail maps service sentinels onto the API error envelope
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownKind):
		httpx.FailErr(c, httpx.ErrValidation("unknown material kind"))
	case errors.Is(err, service.ErrNotFound):
		httpx.FailErr(c, httpx.ErrNotFound("material sheet not found"))
	case errors.Is(err, service.ErrNoFields):
		httpx.FailErr(c, httpx.ErrNoFieldsToUpdate())
	case errors.Is(err, service.ErrLengthMismatch):
		httpx.FailErr(c, httpx.ErrLengthMismatch("lotDates must pair with lotNos"))
	case errors.Is(err, service.ErrStateConflict):
		httpx.FailErr(c, httpx.ErrStateConflict(""))
	default:
		httpx.FailErr(c, httpx.ErrDatabase("", err))
	}
}

// Create handles POST /materials/:kind/create
func (h *Handler) Create(c *gin.Context) {
	var req service.CreateSheetsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrValidation("materialCode is required"))
		return
	}

	sheets, err := h.svc.CreateSheets(c.Param("kind"), middleware.Actor(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	cache.Invalidate(c.Request.Context(), cache.DashboardSummaryKey)
	httpx.OK(c, gin.H{"sheets": sheets, "count": len(sheets)})
}

// UpdateRequest is the sparse update body
type UpdateRequest struct {
	ID     int            `json:"id" binding:"required"`
	Fields map[string]any `json:"fields" binding:"required"`
}

// Update handles POST /materials/:kind/update
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrValidation("id and fields are required"))
		return
	}

	sheet, notified, err := h.svc.UpdateSheet(c.Param("kind"), req.ID, middleware.Actor(c), req.Fields)
	if err != nil {
		fail(c, err)
		return
	}
	cache.Invalidate(c.Request.Context(), cache.DashboardSummaryKey)
	httpx.OK(c, gin.H{"sheet": sheet, "notified": notified})
}

// DeleteRequest is the soft-delete body
type DeleteRequest struct {
	ID   int    `json:"id" binding:"required"`
	Note string `json:"note"`
}

// Delete handles POST /materials/:kind/delete
func (h *Handler) Delete(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrValidation("id is required"))
		return
	}

	if err := h.svc.SoftDeleteSheet(c.Param("kind"), req.ID, middleware.Actor(c), req.Note); err != nil {
		fail(c, err)
		return
	}
	cache.Invalidate(c.Request.Context(), cache.DashboardSummaryKey)
	httpx.OKMsg(c, "deleted", nil)
}

// List handles GET /materials/:kind
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "15"))

	filter := service.SheetFilter{
		Status:       c.Query("status"),
		MaterialCode: c.Query("materialCode"),
		Page:         page,
		PageSize:     pageSize,
	}
	sheets, total, err := h.svc.ListSheets(c.Param("kind"), filter)
	if err != nil {
		fail(c, err)
		return
	}
	httpx.OKItems(c, sheets, total, filter.Page, filter.PageSize)
}

// Get handles GET /materials/:kind/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrValidation("id must be an integer"))
		return
	}

	sheet, err := h.svc.GetSheet(c.Param("kind"), id)
	if err != nil {
		fail(c, err)
		return
	}
	httpx.OK(c, sheet)
}

// History handles GET /materials/:kind/:id/history
func (h *Handler) History(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrValidation("id must be an integer"))
		return
	}

	rows, err := h.svc.SheetHistory(c.Param("kind"), id)
	if err != nil {
		fail(c, err)
		return
	}
	httpx.OK(c, gin.H{"history": rows})
}

// Export handles GET /materials/:kind/:id/export, streaming the sheet as
// an XLSX workbook.
func (h *Handler) Export(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrValidation("id must be an integer"))
		return
	}

	sheet, err := h.svc.GetSheet(c.Param("kind"), id)
	if err != nil {
		fail(c, err)
		return
	}

	path, err := h.exporter.SheetFile(sheet)
	if err != nil {
		httpx.FailErr(c, httpx.ErrDependency("failed to render workbook", err))
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.FileAttachment(path, sheet.Kind+"_"+sheet.MaterialCode+".xlsx")
}
