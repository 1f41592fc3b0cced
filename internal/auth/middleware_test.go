package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"booth-monitor/internal/topology"
)

func TestAuthMiddleware_NoToken(t *testing.T) {
	secret := []byte("test-secret")
	policy := NewDefaultPolicy(nil, nil)
	mw := NewMiddleware(secret, policy)
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/overview", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthMiddleware_ClientForbiddenExports(t *testing.T) {
	secret := []byte("test-secret")
	token := mustToken(t, secret, "acme", "client")
	policy := NewDefaultPolicy(nil, nil)
	mw := NewMiddleware(secret, policy)
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exports/status.csv", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestAuthMiddleware_ClientIdentityInContext(t *testing.T) {
	secret := []byte("test-secret")
	token := mustToken(t, secret, "acme", "client")
	policy := NewDefaultPolicy(nil, nil)
	mw := NewMiddleware(secret, policy)

	var scope string
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope = TenantScope(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/overview", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if scope != "acme" {
		t.Fatalf("expected client scope acme, got %q", scope)
	}
}

func TestAuthMiddleware_ExemptPath(t *testing.T) {
	secret := []byte("test-secret")
	policy := NewDefaultPolicy([]string{"/healthz"}, nil)
	mw := NewMiddleware(secret, policy)
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for exempt path, got %d", resp.Code)
	}
}

func TestBoothChecker(t *testing.T) {
	resolver, err := topology.NewResolver(context.Background(), staticLoader{assignments: []topology.Assignment{
		{ClientName: "acme", Location: "Adelaide", Booth: "Booth A"},
		{ClientName: "globex", Location: "Sydney", Booth: "Booth B"},
	}})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	checker, err := NewBoothChecker(resolver)
	if err != nil {
		t.Fatalf("new checker: %v", err)
	}

	clientCtx := WithIdentity(context.Background(), "acme", RoleClient, "user-1")
	if err := checker.EnsureBoothAccess(clientCtx, "Adelaide", "Booth A"); err != nil {
		t.Fatalf("expected access to own booth: %v", err)
	}
	if err := checker.EnsureBoothAccess(clientCtx, "Sydney", "Booth B"); err != ErrAccessDenied {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if err := checker.EnsureBoothAccess(clientCtx, "Adelaide", "Booth Z"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	adminCtx := WithIdentity(context.Background(), "", RoleAdmin, "admin-1")
	if err := checker.EnsureBoothAccess(adminCtx, "Sydney", "Booth B"); err != nil {
		t.Fatalf("expected admin access: %v", err)
	}
}

type staticLoader struct {
	assignments []topology.Assignment
}

func (l staticLoader) Load(_ context.Context) ([]topology.Assignment, error) {
	return l.assignments, nil
}

func mustToken(t *testing.T, secret []byte, clientName, role string) string {
	t.Helper()
	claims := Claims{
		ClientName: clientName,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
