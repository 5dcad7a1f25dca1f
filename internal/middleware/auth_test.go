package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/roadwatch/highway-incident-api/internal/models"
)

func adminOnlyRouter(user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		if user != nil {
			c.Set(ContextUserKey, user)
		}
	}, AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestAdminOnlyAllowsAdmin(t *testing.T) {
	r := adminOnlyRouter(&models.User{ID: "a1", Role: models.RoleAdmin})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/admin", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdminOnlyRejectsStaff(t *testing.T) {
	r := adminOnlyRouter(&models.User{ID: "u1", Role: models.RoleStaff})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/admin", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminOnlyRejectsAnonymous(t *testing.T) {
	r := adminOnlyRouter(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/admin", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
