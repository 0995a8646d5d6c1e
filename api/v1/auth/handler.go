package auth

import (
	"errors"
	"strings"
	"time"

	"go_mes/internal/auth"
	"go_mes/internal/config"
	"go_mes/internal/httpx"
	"go_mes/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents login response data
type LoginResponse struct {
	Token    string   `json:"token"`
	ExpireAt string   `json:"expireAt"`
	User     UserInfo `json:"user"`
}

// UserInfo represents user information in response
type UserInfo struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	FullName   string `json:"fullName"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// LoginHandler handles user login
func LoginHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.FailErr(c, httpx.ErrValidation("invalid request body"))
			return
		}

		// Query user by username
		var user model.User
		if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// User not found or wrong password - return same error for security
				httpx.FailErr(c, httpx.ErrInvalidCredentials())
				return
			}
			httpx.FailErr(c, httpx.ErrDatabase("database error", err))
			return
		}

		// Verify password
		if err := auth.ComparePassword(user.Password, req.Password); err != nil {
			httpx.FailErr(c, httpx.ErrInvalidCredentials())
			return
		}

		// Generate JWT token
		expireAt := time.Now().Add(time.Duration(cfg.JWT.ExpireMinutes) * time.Minute)
		token, err := auth.GenerateToken(user.ID, user.Username, user.Role, user.Department, expireAt, cfg.JWT.Issuer)
		if err != nil {
			httpx.FailErr(c, httpx.ErrDatabase("failed to generate token", err))
			return
		}

		httpx.OK(c, LoginResponse{
			Token:    token,
			ExpireAt: expireAt.Format(time.RFC3339),
			User: UserInfo{
				ID:         user.ID,
				Username:   user.Username,
				FullName:   user.FullName,
				Role:       user.Role,
				Department: user.Department,
			},
		})
	}
}

// ChangePasswordRequest represents the change-password body
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// ChangePasswordHandler lets the authenticated user rotate their own password
func ChangePasswordHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.FailErr(c, httpx.ErrValidation("oldPassword and newPassword (min 8 chars) are required"))
			return
		}

		var user model.User
		if err := db.First(&user, c.GetInt("uid")).Error; err != nil {
			httpx.FailErr(c, httpx.ErrDatabase("database error", err))
			return
		}

		if err := auth.ComparePassword(user.Password, req.OldPassword); err != nil {
			httpx.FailErr(c, httpx.ErrValidation("old password is incorrect"))
			return
		}

		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			httpx.FailErr(c, httpx.ErrDatabase("failed to hash password", err))
			return
		}
		if err := db.Model(&user).Update("password", hash).Error; err != nil {
			httpx.FailErr(c, httpx.ErrDatabase("failed to update password", err))
			return
		}

		httpx.OKMsg(c, "password updated", nil)
	}
}

// CreateUserRequest represents the admin create-user body
type CreateUserRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required,min=8"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// CreateUserHandler creates a portal account. Admin only; the router
// applies the role gate.
func CreateUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.FailErr(c, httpx.ErrValidation("username and password (min 8 chars) are required"))
			return
		}

		role := req.Role
		if role == "" {
			role = model.RoleStaff
		}
		switch role {
		case model.RoleAdmin, model.RoleManager, model.RoleStaff:
		default:
			httpx.FailErr(c, httpx.ErrValidation("unknown role"))
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			httpx.FailErr(c, httpx.ErrDatabase("failed to hash password", err))
			return
		}

		user := model.User{
			Username:   req.Username,
			Password:   hash,
			FullName:   req.FullName,
			Email:      req.Email,
			Role:       role,
			Department: req.Department,
		}
		if err := db.Create(&user).Error; err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique") ||
				strings.Contains(strings.ToLower(err.Error()), "duplicate") {
				httpx.FailErr(c, httpx.ErrAlreadyExists("username already taken"))
				return
			}
			httpx.FailErr(c, httpx.ErrDatabase("failed to create user", err))
			return
		}

		httpx.OK(c, UserInfo{
			ID:         user.ID,
			Username:   user.Username,
			FullName:   user.FullName,
			Role:       user.Role,
			Department: user.Department,
		})
	}
}
