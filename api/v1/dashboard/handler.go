package dashboard

import (
	"time"

	"go_mes/internal/cache"
	"go_mes/internal/httpx"
	"go_mes/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const summaryCacheTTL = 5 * time.Minute

// Handler serves the landing-page aggregation
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a dashboard handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// Summary is the cached aggregation payload
type Summary struct {
	SheetsByKind    map[string]int64 `json:"sheetsByKind"`
	PendingSheets   int64            `json:"pendingSheets"`
	OverdueColumns  int64            `json:"overdueColumns"`
	OpenCertsByStat map[string]int64 `json:"certsByStatus"`
	OpenTasks       int64            `json:"openTasks"`
	GeneratedAt     string           `json:"generatedAt"`
}

// GetSummary handles GET /dashboard/summary. The result is cached for a
// few minutes; a cold or unavailable cache falls through to the DB.
func (h *Handler) GetSummary(c *gin.Context) {
	var summary Summary
	if cache.GetJSON(c.Request.Context(), cache.DashboardSummaryKey, &summary) {
		httpx.OK(c, summary)
		return
	}

	summary, err := h.build()
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabase("", err))
		return
	}

	cache.SetJSON(c.Request.Context(), cache.DashboardSummaryKey, summary, summaryCacheTTL)
	httpx.OK(c, summary)
}

func (h *Handler) build() (Summary, error) {
	summary := Summary{
		SheetsByKind:    map[string]int64{},
		OpenCertsByStat: map[string]int64{},
		GeneratedAt:     time.Now().Format(time.RFC3339),
	}

	type kindCount struct {
		Kind  string
		Count int64
	}
	var kinds []kindCount
	err := h.db.Model(&model.MaterialSheet{}).
		Select("kind, COUNT(*) as count").
		Where("is_deleted = ?", false).
		Group("kind").
		Scan(&kinds).Error
	if err != nil {
		return summary, err
	}
	for _, k := range kinds {
		summary.SheetsByKind[k.Kind] = k.Count
	}

	err = h.db.Model(&model.MaterialSheet{}).
		Where("is_deleted = ? AND status = ?", false, model.SheetStatusPending).
		Count(&summary.PendingSheets).Error
	if err != nil {
		return summary, err
	}

	err = h.db.Model(&model.DocumentColumn{}).
		Where("is_deleted = ? AND review_deadline IS NOT NULL AND review_deadline < ?", false, time.Now()).
		Count(&summary.OverdueColumns).Error
	if err != nil {
		return summary, err
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var certs []statusCount
	err = h.db.Model(&model.CertificationRequest{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&certs).Error
	if err != nil {
		return summary, err
	}
	for _, s := range certs {
		summary.OpenCertsByStat[s.Status] = s.Count
	}

	err = h.db.Model(&model.Task{}).
		Where("status IN ?", []string{model.TaskStatusOpen, model.TaskStatusInProgress}).
		Count(&summary.OpenTasks).Error
	return summary, err
}
