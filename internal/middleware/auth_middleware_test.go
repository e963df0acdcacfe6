package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/blaze-nyan/brillar-lms/internal/middleware"
	"github.com/blaze-nyan/brillar-lms/internal/session"
)

func testManager() *session.Manager {
	return session.NewManager(session.Config{
		AccessSecret:       "employee-access-secret",
		RefreshSecret:      "employee-refresh-secret",
		AdminAccessSecret:  "admin-access-secret",
		AdminRefreshSecret: "admin-refresh-secret",
	})
}

func protectedRouter(manager *session.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/employee-only", middleware.RequireEmployee(manager), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"principalId": c.GetString(middleware.CtxPrincipalID),
			"role":        c.GetString(middleware.CtxRole),
		})
	})
	r.GET("/admin-only", middleware.RequireAdmin(manager), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireEmployeePassesValidToken(t *testing.T) {
	manager := testManager()
	principalID := uuid.New().String()
	pair, err := manager.IssuePair(principalID, "aye@example.com", session.RoleEmployee)
	assert.NoError(t, err)

	r := protectedRouter(manager)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/employee-only", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), principalID)
	assert.Contains(t, w.Body.String(), session.RoleEmployee)
}

func TestMissingTokenRejected(t *testing.T) {
	r := protectedRouter(testManager())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employee-only", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Access token required")
}

func TestGarbageTokenRejected(t *testing.T) {
	r := protectedRouter(testManager())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/employee-only", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCrossRoleTokenIsForbiddenNotUnauthorized(t *testing.T) {
	manager := testManager()
	pair, err := manager.IssuePair(uuid.New().String(), "aye@example.com", session.RoleEmployee)
	assert.NoError(t, err)

	r := protectedRouter(manager)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	r.ServeHTTP(w, req)

	// A valid employee token on an admin route is an authorization failure.
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRefreshTokenRejectedOnProtectedRoute(t *testing.T) {
	manager := testManager()
	pair, err := manager.IssuePair(uuid.New().String(), "aye@example.com", session.RoleEmployee)
	assert.NoError(t, err)

	r := protectedRouter(manager)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/employee-only", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCookieFallback(t *testing.T) {
	manager := testManager()
	pair, err := manager.IssuePair(uuid.New().String(), "aye@example.com", session.RoleEmployee)
	assert.NoError(t, err)

	r := protectedRouter(manager)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/employee-only", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: pair.AccessToken})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
