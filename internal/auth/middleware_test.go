package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func echoRole() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetUserFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Write([]byte(claims.Role))
	})
}

func TestMiddleware(t *testing.T) {
	a := New(Config{}, zerolog.Nop())
	handler := a.Middleware(echoRole())

	admin := signedToken(t, jwt.MapClaims{
		"email":        "ana@example.com",
		"realm_access": map[string]interface{}{"roles": []interface{}{"viewer", "admin"}},
		"exp":          float64(time.Now().Add(time.Hour).Unix()),
	})
	expired := signedToken(t, jwt.MapClaims{
		"email": "ana@example.com",
		"exp":   float64(time.Now().Add(-time.Hour).Unix()),
	})
	cognito := signedToken(t, jwt.MapClaims{
		"cognito:groups": []interface{}{"monti-supervisors"},
	})

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"health is public", "/health", "", http.StatusTeapot, ""},
		{"metrics is public", "/metrics", "", http.StatusTeapot, ""},
		{"missing token", "/api/kpis", "", http.StatusUnauthorized, ""},
		{"not a bearer token", "/api/kpis", "Basic abc", http.StatusUnauthorized, ""},
		{"garbage token", "/api/kpis", "Bearer not-a-jwt", http.StatusUnauthorized, ""},
		{"expired token", "/api/kpis", "Bearer " + expired, http.StatusUnauthorized, ""},
		{"realm admin", "/api/kpis", "Bearer " + admin, http.StatusOK, "admin"},
		{"cognito group", "/api/kpis", "Bearer " + cognito, http.StatusOK, "supervisor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestMiddlewareSkipAuth(t *testing.T) {
	handler := New(Config{SkipAuth: true}, zerolog.Nop()).Middleware(echoRole())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != RoleAdmin {
		t.Errorf("expected dev admin user, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestMiddlewareVerifyWithoutIssuer(t *testing.T) {
	handler := New(Config{VerifySignature: true}, zerolog.Nop()).Middleware(echoRole())

	req := httptest.NewRequest(http.MethodGet, "/api/kpis", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, jwt.MapClaims{"email": "x"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without an issuer, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequireRole(RoleAdmin)(ok)

	tests := []struct {
		name   string
		claims *Claims
		want   int
	}{
		{"admin", &Claims{Role: RoleAdmin}, http.StatusNoContent},
		{"viewer", &Claims{Role: RoleViewer}, http.StatusForbidden},
		{"anonymous", nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/reload", nil)
			if tt.claims != nil {
				req = req.WithContext(context.WithValue(req.Context(), UserContextKey, tt.claims))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestExtractRoleDefaultsToViewer(t *testing.T) {
	if got := extractRole(jwt.MapClaims{}); got != RoleViewer {
		t.Errorf("expected viewer, got %s", got)
	}
}
