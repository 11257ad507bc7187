package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/civicvoice-api/internal/core/domain"
	"github.com/civicvoice/civicvoice-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) Profile(context.Context, int64) (*domain.User, error) { return nil, nil }
func (s *stubAuthService) UpdateProfile(context.Context, int64, string, string, string) (*domain.User, error) {
	return nil, nil
}
func (s *stubAuthService) CreateAuthority(context.Context, ports.RegisterInput) (*domain.User, error) {
	return nil, nil
}
func (s *stubAuthService) ListUsers(context.Context) ([]*domain.User, error) { return nil, nil }
func (s *stubAuthService) RemoveAuthority(context.Context, int64) error      { return nil }

type stubSessions struct {
	destroyed []string
}

func (s *stubSessions) Create(context.Context, int64, bool, string, string) (*domain.Session, error) {
	return nil, nil
}
func (s *stubSessions) Validate(context.Context, string) (*domain.User, bool) { return nil, false }
func (s *stubSessions) Destroy(_ context.Context, token string) {
	s.destroyed = append(s.destroyed, token)
}
func (s *stubSessions) DestroyAllForUser(context.Context, int64) {}

func newAuthTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.FullName != "Ana Lopez" || in.Email != "ana@example.com" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: 1, Username: "ana_lopez", FullName: in.FullName, Email: in.Email, Role: domain.RoleCitizen}, nil
		},
	}
	h := NewAuthHandler(stub, &stubSessions{}, NewSessionCookies("cv_session"))

	c, rec := newAuthTestContext(http.MethodPost, "/auth/register",
		`{"full_name":"Ana Lopez","email":"ana@example.com","password":"secret123"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "ana_lopez" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Register_ValidationRejected(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubSessions{}, NewSessionCookies("cv_session"))

	c, _ := newAuthTestContext(http.MethodPost, "/auth/register",
		`{"full_name":"Ana","email":"not-an-email","password":"secret123"}`)
	err := h.Register(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_SetsSessionCookie(t *testing.T) {
	expires := time.Now().Add(30 * 24 * time.Hour)
	stub := &stubAuthService{
		loginFn: func(_ context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
			if !in.RememberMe {
				t.Fatalf("remember_me not propagated")
			}
			return &ports.LoginResult{
				User:    &domain.User{ID: 1, Username: "ana_lopez", Role: domain.RoleCitizen},
				Session: &domain.Session{Token: "tok123", ExpiresAt: expires},
			}, nil
		},
	}
	h := NewAuthHandler(stub, &stubSessions{}, NewSessionCookies("cv_session"))

	c, rec := newAuthTestContext(http.MethodPost, "/auth/login",
		`{"login":"ana_lopez","password":"secret123","remember_me":true}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var session *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "cv_session" {
			session = cookie
		}
	}
	if session == nil || session.Value != "tok123" {
		t.Fatalf("session cookie not set")
	}
	if !session.HttpOnly {
		t.Fatalf("cookie must be httpOnly")
	}
	if session.MaxAge <= 0 {
		t.Fatalf("remember-me cookie must be persistent")
	}
	if strings.Contains(rec.Body.String(), "tok123") {
		t.Fatalf("session token leaked into the response body")
	}
}

func TestAuthHandler_Login_SessionCookieNotPersistentByDefault(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
			return &ports.LoginResult{
				User:    &domain.User{ID: 1, Role: domain.RoleCitizen},
				Session: &domain.Session{Token: "tok456", ExpiresAt: time.Now().Add(2 * time.Hour)},
			}, nil
		},
	}
	h := NewAuthHandler(stub, &stubSessions{}, NewSessionCookies("cv_session"))

	c, rec := newAuthTestContext(http.MethodPost, "/auth/login",
		`{"login":"ana_lopez","password":"secret123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "cv_session" && (cookie.MaxAge != 0 || !cookie.Expires.IsZero()) {
			t.Fatalf("plain login cookie must be a browser-session cookie")
		}
	}
}

func TestAuthHandler_Login_FailurePropagates(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, ports.LoginInput) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, &stubSessions{}, NewSessionCookies("cv_session"))

	c, rec := newAuthTestContext(http.MethodPost, "/auth/login",
		`{"login":"ana_lopez","password":"wrong"}`)
	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "cv_session" {
			t.Fatalf("cookie set on failed login")
		}
	}
}

func TestAuthHandler_Logout_DestroysSessionAndClearsCookie(t *testing.T) {
	sessions := &stubSessions{}
	h := NewAuthHandler(&stubAuthService{}, sessions, NewSessionCookies("cv_session"))

	c, rec := newAuthTestContext(http.MethodPost, "/auth/logout", "")
	c.Request().AddCookie(&http.Cookie{Name: "cv_session", Value: "tok123"})

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(sessions.destroyed) != 1 || sessions.destroyed[0] != "tok123" {
		t.Fatalf("session not destroyed: %v", sessions.destroyed)
	}

	cleared := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "cv_session" && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("cookie not cleared")
	}
}

func TestAuthHandler_Logout_WithoutCookieIsIdempotent(t *testing.T) {
	sessions := &stubSessions{}
	h := NewAuthHandler(&stubAuthService{}, sessions, NewSessionCookies("cv_session"))

	c, rec := newAuthTestContext(http.MethodPost, "/auth/logout", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(sessions.destroyed) != 0 {
		t.Fatalf("nothing should be destroyed without a cookie")
	}
}
