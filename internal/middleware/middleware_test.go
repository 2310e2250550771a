package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"surveylyze_backend/internal/config"
	"surveylyze_backend/internal/model"
	"surveylyze_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const testSecret = "middleware-test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}

	r := gin.New()
	r.Use(RequestID())
	r.GET("/teacher", AuthMiddleware(cfg), RoleMiddleware(model.RoleTeacher), func(c *gin.Context) {
		util.Success(c, util.GetUserFromContext(c).UserID)
	})
	return r
}

func token(t *testing.T, role model.UserRole, secret string, ttl time.Duration) string {
	t.Helper()
	tok, err := util.GenerateJWT(42, role, secret, ttl)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	return tok
}

func TestAuthAndRole(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + token(t, model.RoleTeacher, "other", time.Hour), http.StatusUnauthorized},
		{"expired", "Bearer " + token(t, model.RoleTeacher, testSecret, -time.Minute), http.StatusUnauthorized},
		{"student", "Bearer " + token(t, model.RoleStudent, testSecret, time.Hour), http.StatusForbidden},
		{"teacher", "Bearer " + token(t, model.RoleTeacher, testSecret, time.Hour), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/teacher", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	r := newRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teacher", nil))
	if id := w.Header().Get(RequestIDHeader); len(id) != 36 {
		t.Fatalf("generated request id = %q", id)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/teacher", nil)
	req.Header.Set(RequestIDHeader, "trace-me")
	r.ServeHTTP(w, req)
	if id := w.Header().Get(RequestIDHeader); id != "trace-me" {
		t.Fatalf("request id = %q, want the incoming one", id)
	}
}
