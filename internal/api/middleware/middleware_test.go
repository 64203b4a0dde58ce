package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"hkexpatjobs/internal/auth"
)

type stubVerifier map[string]auth.Identity

func (s stubVerifier) Verify(token string) (auth.Identity, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return auth.Identity{}, errors.New("bad token")
}

func newTestRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	verifier := stubVerifier{
		"rec": {ID: 1, Username: "rita", Role: auth.RoleRecruiter},
		"app": {ID: 2, Username: "alice", Role: auth.RoleApplicant},
	}
	r := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(verifier)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRoles(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := IdentityFromContext(c)
		c.JSON(http.StatusOK, gin.H{"username": id.Username, "userID": c.GetUint("userID")})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newTestRouter()
	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic rec", http.StatusUnauthorized},
		{"extra parts", "Bearer rec extra", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer rec", http.StatusOK},
		{"scheme case-insensitive", "bearer app", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	r := newTestRouter(auth.RoleRecruiter, auth.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer app")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("applicant should be forbidden, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer rec")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("recruiter should pass, got %d", w.Code)
	}
}

func TestRequireRoles_WithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/gate", RequireRoles(auth.RoleApplicant), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gate", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", w.Code)
	}
}

func TestCorrelationIDAndTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CorrelationIDMiddleware(), TimeoutMiddleware(time.Second))
	r.GET("/ping", func(c *gin.Context) {
		if _, ok := c.Request.Context().Deadline(); !ok {
			t.Error("expected request deadline")
		}
		c.String(http.StatusOK, GetCorrelationID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Correlation-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "abc-123" || w.Header().Get("X-Correlation-ID") != "abc-123" {
		t.Fatalf("correlation id not propagated: body=%q header=%q", w.Body.String(), w.Header().Get("X-Correlation-ID"))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Header().Get("X-Correlation-ID") == "" {
		t.Fatal("expected generated correlation id")
	}
}

func TestCorrelationID_RejectsUnsafeValues(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CorrelationIDMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Correlation-ID", "bad id\nwith newline")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Correlation-ID"); got == "" || got == "bad id\nwith newline" {
		t.Fatalf("unsafe correlation id should be replaced, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Correlation-ID"); got != "req-42" {
		t.Fatalf("expected X-Request-ID fallback, got %q", got)
	}
}
