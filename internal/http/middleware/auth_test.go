package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/fapdigital/editais-backend/internal/pkg/logger"
)

func newAdminRouter(t *testing.T, token string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	am := NewAdminAuthMiddleware(log, token)
	r := gin.New()
	r.GET("/api/admin/ping", am.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireAdminAcceptsConfiguredToken(t *testing.T) {
	t.Parallel()
	r := newAdminRouter(t, "s3cret")

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("X-Admin-Token", "s3cret")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("header token rejected: got=%d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("bearer token rejected: got=%d", rec.Code)
	}
}

func TestRequireAdminRejectsBadOrMissingToken(t *testing.T) {
	t.Parallel()
	r := newAdminRouter(t, "s3cret")

	cases := map[string]func(*http.Request){
		"missing":      func(req *http.Request) {},
		"wrong header": func(req *http.Request) { req.Header.Set("X-Admin-Token", "nope") },
		"wrong bearer": func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") },
	}
	for name, setup := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
		setup(req)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: got=%d want=%d", name, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestRequireAdminRejectsWhenUnconfigured(t *testing.T) {
	t.Parallel()
	r := newAdminRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("X-Admin-Token", "")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unconfigured token must reject: got=%d", rec.Code)
	}
}
