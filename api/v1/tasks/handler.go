package tasks

import (
	"errors"
	"strconv"
	"time"

	"go_mes/api/v1/middleware"
	"go_mes/internal/cache"
	"go_mes/internal/httpx"
	"go_mes/internal/model"
	"go_mes/internal/patch"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler serves task routes
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a tasks handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateRequest is the create body
type CreateRequest struct {
	ProjectID   int     `json:"projectId" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	AssigneeID  *int    `json:"assigneeId"`
	DueDate     *string `json:"dueDate"`
}

// Create handles POST /tasks/create. The task's project must exist and
// be active.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrValidation("projectId and title are required"))
		return
	}

	var project model.Project
	if err := h.db.First(&project, req.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound("project not found"))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabase("", err))
		return
	}
	if project.Status != model.ProjectStatusActive {
		httpx.FailErr(c, httpx.ErrStateConflict("project is closed"))
		return
	}

	task := model.Task{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Status:      model.TaskStatusOpen,
		CreatedBy:   middleware.Actor(c),
	}
	if req.DueDate != nil {
		if d, ok := patch.Coerce(patch.Date, *req.DueDate).(time.Time); ok {
			task.DueDate = &d
		}
	}
	if err := h.db.Create(&task).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabase("failed to create task", err))
		return
	}
	cache.Invalidate(c.Request.Context(), cache.DashboardSummaryKey)
	httpx.OK(c, task)
}

// UpdateRequest is the update body
type UpdateRequest struct {
	ID          int     `json:"id" binding:"required"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	AssigneeID  *int    `json:"assigneeId"`
	Status      *string `json:"status"`
	DueDate     *string `json:"dueDate"`
}

// Update handles POST /tasks/update. Moving to done stamps CompletedAt;
// moving away clears it.
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrValidation("id is required"))
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.AssigneeID != nil {
		updates["assignee_id"] = *req.AssigneeID
	}
	if req.DueDate != nil {
		if d, ok := patch.Coerce(patch.Date, *req.DueDate).(time.Time); ok {
			updates["due_date"] = d
		} else {
			updates["due_date"] = nil
		}
	}
	if req.Status != nil {
		switch *req.Status {
		case model.TaskStatusOpen, model.TaskStatusInProgress, model.TaskStatusDone, model.TaskStatusCancelled:
		default:
			httpx.FailErr(c, httpx.ErrValidation("unknown task status"))
			return
		}
		updates["status"] = *req.Status
		if *req.Status == model.TaskStatusDone {
			updates["completed_at"] = time.Now()
		} else {
			updates["completed_at"] = nil
		}
	}
	if len(updates) == 0 {
		httpx.FailErr(c, httpx.ErrNoFieldsToUpdate())
		return
	}

	res := h.db.Model(&model.Task{}).Where("id = ?", req.ID).Updates(updates)
	if res.Error != nil {
		httpx.FailErr(c, httpx.ErrDatabase("failed to update task", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		httpx.FailErr(c, httpx.ErrNotFound("task not found"))
		return
	}

	var task model.Task
	if err := h.db.First(&task, req.ID).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabase("", err))
		return
	}
	cache.Invalidate(c.Request.Context(), cache.DashboardSummaryKey)
	httpx.OK(c, task)
}

// List handles GET /tasks
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "15"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 15
	}

	query := h.db.Model(&model.Task{})
	if pid := c.Query("projectId"); pid != "" {
		query = query.Where("project_id = ?", pid)
	}
	if aid := c.Query("assigneeId"); aid != "" {
		query = query.Where("assignee_id = ?", aid)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabase("", err))
		return
	}

	var tasks []model.Task
	err := query.Preload("Assignee").
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&tasks).Error
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabase("", err))
		return
	}
	httpx.OKItems(c, tasks, total, page, pageSize)
}
