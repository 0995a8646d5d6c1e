package projects

import (
	"errors"
	"strconv"
	"strings"

	"go_mes/internal/httpx"
	"go_mes/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler serves project routes
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a projects handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateRequest is the create body
type CreateRequest struct {
	Code        string  `json:"code" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// Create handles POST /projects/create
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrValidation("code and name are required"))
		return
	}

	project := model.Project{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     c.GetInt("uid"),
		Status:      model.ProjectStatusActive,
	}
	if err := h.db.Create(&project).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			httpx.FailErr(c, httpx.ErrAlreadyExists("project code already taken"))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabase("failed to create project", err))
		return
	}
	httpx.OK(c, project)
}

// UpdateRequest is the update body. Only name, description and status
// can change; the code is immutable.
type UpdateRequest struct {
	ID          int     `json:"id" binding:"required"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// Update handles POST /projects/update
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrValidation("id is required"))
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		if *req.Status != model.ProjectStatusActive && *req.Status != model.ProjectStatusClosed {
			httpx.FailErr(c, httpx.ErrValidation("unknown project status"))
			return
		}
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		httpx.FailErr(c, httpx.ErrNoFieldsToUpdate())
		return
	}

	res := h.db.Model(&model.Project{}).Where("id = ?", req.ID).Updates(updates)
	if res.Error != nil {
		httpx.FailErr(c, httpx.ErrDatabase("failed to update project", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		httpx.FailErr(c, httpx.ErrNotFound("project not found"))
		return
	}

	var project model.Project
	if err := h.db.First(&project, req.ID).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabase("", err))
		return
	}
	httpx.OK(c, project)
}

// List handles GET /projects
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "15"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 15
	}

	query := h.db.Model(&model.Project{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabase("", err))
		return
	}

	var projects []model.Project
	err := query.Preload("Owner").
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&projects).Error
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabase("", err))
		return
	}
	httpx.OKItems(c, projects, total, page, pageSize)
}

// Get handles GET /projects/:id, tasks included
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrValidation("id must be an integer"))
		return
	}

	var project model.Project
	if err := h.db.Preload("Owner").Preload("Tasks").First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound("project not found"))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabase("", err))
		return
	}
	httpx.OK(c, project)
}
