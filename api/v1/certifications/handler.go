package certifications

import (
	"errors"
	"strconv"

	"go_mes/api/v1/middleware"
	"go_mes/internal/cache"
	"go_mes/internal/httpx"
	"go_mes/internal/model"
	"go_mes/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler serves UL certification request routes
type Handler struct {
	svc *service.CertService
}

// NewHandler creates a certifications handler
func NewHandler(svc *service.CertService) *Handler {
	return &Handler{svc: svc}
}

func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownKind):
		httpx.FailErr(c, httpx.ErrValidation("unknown material kind"))
	case errors.Is(err, service.ErrNotFound):
		httpx.FailErr(c, httpx.ErrNotFound("certification request not found"))
	case errors.Is(err, service.ErrStateConflict):
		httpx.FailErr(c, httpx.ErrStateConflict(""))
	default:
		httpx.FailErr(c, httpx.ErrDatabase("", err))
	}
}

// CreateRequest is the submit body
type CreateRequest struct {
	SheetKind string  `json:"sheetKind" binding:"required"`
	SheetID   int     `json:"sheetId" binding:"required"`
	ULFileNo  *string `json:"ulFileNo"`
	Remark    *string `json:"remark"`
}

// Create handles POST /certifications/create
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrValidation("sheetKind and sheetId are required"))
		return
	}

	created, err := h.svc.CreateRequest(req.SheetKind, req.SheetID, middleware.Actor(c), req.ULFileNo, req.Remark)
	if err != nil {
		if errors.Is(err, service.ErrStateConflict) {
			httpx.FailErr(c, httpx.ErrStateConflict("sheet must be approved before certification"))
			return
		}
		fail(c, err)
		return
	}
	cache.Invalidate(c.Request.Context(), cache.DashboardSummaryKey)
	httpx.OK(c, created)
}

// TransitionRequest is the status-change body
type TransitionRequest struct {
	ID     int    `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// Transition handles POST /certifications/transition
func (h *Handler) Transition(c *gin.Context) {
	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrValidation("id and status are required"))
		return
	}

	switch req.Status {
	case model.CertStatusTesting, model.CertStatusCertified, model.CertStatusRejected:
	default:
		httpx.FailErr(c, httpx.ErrValidation("unknown certification status"))
		return
	}

	updated, notified, err := h.svc.Transition(req.ID, req.Status, middleware.Actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	cache.Invalidate(c.Request.Context(), cache.DashboardSummaryKey)
	httpx.OK(c, gin.H{"request": updated, "notified": notified})
}

// List handles GET /certifications
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "15"))

	reqs, total, err := h.svc.ListRequests(c.Query("status"), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	httpx.OKItems(c, reqs, total, page, pageSize)
}
