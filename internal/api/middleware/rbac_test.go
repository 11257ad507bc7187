package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/civicvoice-api/internal/core/domain"
)

func newGuardContext(t *testing.T, target string, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(UserContextKey, user)
	}
	return c, rec
}

func TestRequireAuthenticated_Allows(t *testing.T) {
	c, rec := newGuardContext(t, "/reports", &domain.User{ID: 1, Role: domain.RoleCitizen})

	called := false
	handler := RequireAuthenticated()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("authenticated request rejected: called=%v code=%d", called, rec.Code)
	}
}

func TestRequireAuthenticated_RejectsWithLoginPath(t *testing.T) {
	c, rec := newGuardContext(t, "/reports/7/history", nil)

	handler := RequireAuthenticated()(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})
	_ = handler(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if !strings.HasPrefix(body["login"], "/login?next=") {
		t.Fatalf("missing login path: %q", body["login"])
	}
	if !strings.Contains(body["login"], "%2Freports%2F7%2Fhistory") {
		t.Fatalf("original path not preserved: %q", body["login"])
	}
}

func TestRequireRole_Allows(t *testing.T) {
	c, rec := newGuardContext(t, "/reports/7/status", &domain.User{ID: 2, Role: domain.RoleAuthority})

	handler := RequireRole(domain.RoleAuthority, domain.RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_ForbidsWrongRole(t *testing.T) {
	c, rec := newGuardContext(t, "/admin/users", &domain.User{ID: 3, Role: domain.RoleCitizen})

	handler := RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})
	_ = handler(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRole_UnauthenticatedGets401(t *testing.T) {
	c, rec := newGuardContext(t, "/admin/users", nil)

	handler := RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})
	_ = handler(c)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
