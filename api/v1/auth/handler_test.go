package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"go_mes/internal/auth"
	"go_mes/internal/config"
	"go_mes/internal/httpx"
	"go_mes/internal/model"
)

func setup(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth.InitJWT("test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))

	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpireMinutes: 60, Issuer: "go_mes"},
	}

	r := gin.New()
	r.POST("/login", LoginHandler(db, cfg))
	// Stand-in for the JWT middleware on protected routes
	r.POST("/change-password", func(c *gin.Context) {
		c.Set("uid", 1)
		c.Next()
	}, ChangePasswordHandler(db))
	r.POST("/users/create", CreateUserHandler(db))

	return r, db
}

func seedUser(t *testing.T, db *gorm.DB, username, password string) model.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user := model.User{
		Username:   username,
		Password:   hash,
		Role:       model.RoleStaff,
		Department: model.DeptDesign,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func doJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) httpx.Response {
	t.Helper()
	var resp httpx.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestLoginSuccess(t *testing.T) {
	r, db := setup(t)
	seedUser(t, db, "lin.wei", "s3cret-pass")

	w := doJSON(t, r, "/login", gin.H{"username": "lin.wei", "password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, httpx.CodeSuccess, resp.Code)
	data := resp.Data.(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	claims, err := auth.ParseToken(data["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "lin.wei", claims.Username)
	assert.Equal(t, model.DeptDesign, claims.Department)
}

func TestLoginWrongPassword(t *testing.T) {
	r, db := setup(t)
	seedUser(t, db, "lin.wei", "s3cret-pass")

	w := doJSON(t, r, "/login", gin.H{"username": "lin.wei", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, httpx.CodeInvalidCredentials, decode(t, w).Code)
}

func TestLoginUnknownUserSameError(t *testing.T) {
	r, _ := setup(t)

	w := doJSON(t, r, "/login", gin.H{"username": "ghost", "password": "whatever"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, httpx.CodeInvalidCredentials, decode(t, w).Code)
}

func TestChangePassword(t *testing.T) {
	r, db := setup(t)
	seedUser(t, db, "lin.wei", "old-password")

	w := doJSON(t, r, "/change-password", gin.H{
		"oldPassword": "old-password",
		"newPassword": "new-password",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Old password no longer works
	w = doJSON(t, r, "/login", gin.H{"username": "lin.wei", "password": "old-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, "/login", gin.H{"username": "lin.wei", "password": "new-password"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChangePasswordWrongOld(t *testing.T) {
	r, db := setup(t)
	seedUser(t, db, "lin.wei", "old-password")

	w := doJSON(t, r, "/change-password", gin.H{
		"oldPassword": "not-it",
		"newPassword": "new-password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	r, db := setup(t)
	seedUser(t, db, "lin.wei", "s3cret-pass")

	w := doJSON(t, r, "/users/create", gin.H{
		"username": "lin.wei",
		"password": "another-pass",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, httpx.CodeAlreadyExists, decode(t, w).Code)
}

func TestCreateUserUnknownRole(t *testing.T) {
	r, _ := setup(t)

	w := doJSON(t, r, "/users/create", gin.H{
		"username": "new.user",
		"password": "password123",
		"role":     "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, httpx.CodeValidation, decode(t, w).Code)
}
