package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kwadjoe/campuslinkbackend/models"
	"github.com/kwadjoe/campuslinkbackend/services"
	"github.com/kwadjoe/campuslinkbackend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(blacklist *services.TokenBlacklist) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(blacklist), func(c *gin.Context) {
		role, _ := c.Get("role")
		c.JSON(http.StatusOK, gin.H{"role": role})
	})
	r.GET("/admin-only", AuthMiddleware(blacklist), RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	r := newProtectedRouter(services.NewTokenBlacklist())
	w := get(r, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newProtectedRouter(services.NewTokenBlacklist())

	token, err := utils.GenerateAccessToken("user-1", "jane@northeastern.edu", "student", time.Hour)
	require.NoError(t, err)

	w := get(r, "/protected", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "student")
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newProtectedRouter(services.NewTokenBlacklist())

	token, err := utils.GenerateAccessToken("user-1", "jane@northeastern.edu", "student", -time.Minute)
	require.NoError(t, err)

	w := get(r, "/protected", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	blacklist := services.NewTokenBlacklist()
	r := newProtectedRouter(blacklist)

	token, err := utils.GenerateAccessToken("user-1", "jane@northeastern.edu", "student", time.Hour)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, get(r, "/protected", token).Code)
	blacklist.Revoke(token)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/protected", token).Code)
}

func TestRequireRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newProtectedRouter(services.NewTokenBlacklist())

	student, err := utils.GenerateAccessToken("user-1", "jane@northeastern.edu", "student", time.Hour)
	require.NoError(t, err)
	admin, err := utils.GenerateAccessToken("user-2", "ops@northeastern.edu", "admin", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(r, "/admin-only", student).Code)
	assert.Equal(t, http.StatusOK, get(r, "/admin-only", admin).Code)
}
