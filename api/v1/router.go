package v1

import (
	"go_mes/api/v1/auth"
	"go_mes/api/v1/certifications"
	"go_mes/api/v1/dashboard"
	"go_mes/api/v1/documents"
	"go_mes/api/v1/materials"
	"go_mes/api/v1/middleware"
	"go_mes/api/v1/projects"
	"go_mes/api/v1/tasks"
	"go_mes/internal/config"
	"go_mes/internal/export"
	"go_mes/internal/httpx"
	"go_mes/internal/model"
	"go_mes/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the shared collaborators the route handlers close over
type Deps struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Sheets   *service.SheetService
	Docs     *service.DocumentService
	Certs    *service.CertService
	Exporter *export.Exporter
}

// SetupRouter sets up the API v1 routes
func SetupRouter(r *gin.Engine, deps Deps) {
	v1 := r.Group("/api/v1")
	{
		// Public routes (no authentication required)
		v1.GET("/ping", pingHandler)

		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", auth.LoginHandler(deps.DB, deps.Cfg))
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/me", meHandler)
			protected.POST("/auth/change-password", auth.ChangePasswordHandler(deps.DB))

			// User administration
			admin := protected.Group("/users")
			admin.Use(middleware.RequireRole(model.RoleAdmin))
			{
				admin.POST("/create", auth.CreateUserHandler(deps.DB))
			}

			// Material sheet routes, one tree per kind
			materialsHandler := materials.NewHandler(deps.Sheets, deps.Exporter)
			materialsGroup := protected.Group("/materials/:kind")
			{
				materialsGroup.GET("", materialsHandler.List)
				materialsGroup.POST("/create", materialsHandler.Create)
				materialsGroup.POST("/update", materialsHandler.Update)
				materialsGroup.POST("/delete", materialsHandler.Delete)
				materialsGroup.GET("/:id", materialsHandler.Get)
				materialsGroup.GET("/:id/history", materialsHandler.History)
				materialsGroup.GET("/:id/export", materialsHandler.Export)
			}

			// Document column routes
			documentsHandler := documents.NewHandler(deps.Docs)
			documentsGroup := protected.Group("/documents/columns")
			{
				documentsGroup.GET("", documentsHandler.List)
				documentsGroup.POST("/create", documentsHandler.Create)
				documentsGroup.POST("/update", documentsHandler.Update)
				documentsGroup.POST("/delete", documentsHandler.Delete)
				documentsGroup.POST("/restore", documentsHandler.Restore)
				documentsGroup.GET("/:id", documentsHandler.Get)
				documentsGroup.GET("/:id/history", documentsHandler.History)
			}

			// UL certification routes
			certsHandler := certifications.NewHandler(deps.Certs)
			certsGroup := protected.Group("/certifications")
			{
				certsGroup.GET("", certsHandler.List)
				certsGroup.POST("/create", certsHandler.Create)

				// Only managers and admins move requests through the workflow
				certsGroup.POST("/transition",
					middleware.RequireRole(model.RoleAdmin, model.RoleManager),
					certsHandler.Transition)
			}

			// Project and task routes
			projectsHandler := projects.NewHandler(deps.DB)
			projectsGroup := protected.Group("/projects")
			{
				projectsGroup.GET("", projectsHandler.List)
				projectsGroup.POST("/create", projectsHandler.Create)
				projectsGroup.POST("/update", projectsHandler.Update)
				projectsGroup.GET("/:id", projectsHandler.Get)
			}

			tasksHandler := tasks.NewHandler(deps.DB)
			tasksGroup := protected.Group("/tasks")
			{
				tasksGroup.GET("", tasksHandler.List)
				tasksGroup.POST("/create", tasksHandler.Create)
				tasksGroup.POST("/update", tasksHandler.Update)
			}

			// Dashboard aggregation
			dashboardHandler := dashboard.NewHandler(deps.DB)
			protected.GET("/dashboard/summary", dashboardHandler.GetSummary)
		}
	}
}

// pingHandler handles the ping request using unified response
func pingHandler(c *gin.Context) {
	httpx.OK(c, gin.H{
		"pong": true,
	})
}

// meHandler returns current user information
func meHandler(c *gin.Context) {
	uid, _ := c.Get("uid")
	username, _ := c.Get("username")
	role, _ := c.Get("role")
	department, _ := c.Get("department")

	httpx.OK(c, gin.H{
		"uid":        uid,
		"username":   username,
		"role":       role,
		"department": department,
	})
}
