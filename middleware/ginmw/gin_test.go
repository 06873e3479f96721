package ginmw_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chimerakang/authgate"
	"github.com/chimerakang/authgate/authz"
	"github.com/chimerakang/authgate/middleware/ginmw"
	"github.com/chimerakang/authgate/revocation"
	"github.com/chimerakang/authgate/token"
	"github.com/gin-gonic/gin"
)

var testSecret = []byte("middleware-test-secret")

func testRouter(t *testing.T, svc *token.Service, registry *revocation.Registry, extra ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	e := gin.New()
	handlers := append([]gin.HandlerFunc{ginmw.Auth(svc, registry)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		claims := ginmw.GetClaims(c)
		if claims == nil {
			t.Error("claims missing after Auth")
		}
		if authgate.ClaimsFromContext(c.Request.Context()) == nil {
			t.Error("claims missing from request context after Auth")
		}
		c.JSON(http.StatusOK, gin.H{"email": ginmw.GetEmail(c)})
	})
	e.GET("/protected", handlers...)
	return e
}

func issueAccess(t *testing.T, svc *token.Service, role authgate.Role) string {
	t.Helper()
	signed, err := svc.IssueAccessToken(authgate.Claims{UserID: 1, Email: "a@b.com", Role: role})
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func doRequest(e *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthGateOrdering(t *testing.T) {
	svc, err := token.NewService(testSecret)
	if err != nil {
		t.Fatal(err)
	}
	registry := revocation.NewRegistry()

	valid := issueAccess(t, svc, authgate.RoleUser)
	revoked := issueAccess(t, svc, authgate.RoleUser)
	registry.Revoke(context.Background(), revoked)

	// A revoked token that would never verify: revocation wins regardless.
	registry.Revoke(context.Background(), "garbage-token")

	otherSvc, err := token.NewService([]byte("some-other-secret"))
	if err != nil {
		t.Fatal(err)
	}
	foreign := issueAccess(t, otherSvc, authgate.RoleUser)

	e := testRouter(t, svc, registry)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"no header", "", http.StatusUnauthorized, "Unauthorized"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "Unauthorized"},
		{"not bearer scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "Unauthorized"},
		{"revoked valid token", "Bearer " + revoked, http.StatusForbidden, "Forbidden"},
		{"revoked garbage token", "Bearer garbage-token", http.StatusForbidden, "Forbidden"},
		{"bad signature", "Bearer " + foreign, http.StatusForbidden, "Forbidden"},
		{"malformed token", "Bearer not-a-jwt", http.StatusForbidden, "Forbidden"},
		{"valid token", "Bearer " + valid, http.StatusOK, "a@b.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(e, tt.header)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if body := rec.Body.String(); tt.wantBody != "" && !strings.Contains(body, tt.wantBody) {
				t.Errorf("body = %s, want substring %q", body, tt.wantBody)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	svc, err := token.NewService(testSecret)
	if err != nil {
		t.Fatal(err)
	}
	registry := revocation.NewRegistry()

	adminOnly := ginmw.RequireRoles(authz.NewChecker(authgate.RoleAdmin))
	e := testRouter(t, svc, registry, adminOnly)

	adminTok := issueAccess(t, svc, authgate.RoleAdmin)
	userTok := issueAccess(t, svc, authgate.RoleUser)

	refreshTok, err := svc.IssueRefreshToken(1)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"admin allowed", "Bearer " + adminTok, http.StatusOK},
		{"user denied", "Bearer " + userTok, http.StatusForbidden},
		// A refresh token verifies but carries no role, so the role gate
		// rejects it.
		{"refresh token denied", "Bearer " + refreshTok, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(e, tt.header)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireRolesWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.GET("/x", ginmw.RequireRoles(authz.NewChecker(authgate.RoleAdmin)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("status without claims = %d, want 403", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.Use(ginmw.RequestID())
	e.GET("/x", func(c *gin.Context) {
		if ginmw.GetRequestID(c) == "" {
			t.Error("request id not set in gin context")
		}
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}

	// Caller-provided ids are preserved.
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "req-fixed")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "req-fixed" {
		t.Errorf("X-Request-ID = %q, want req-fixed", got)
	}
}
