package ports

import (
	"context"

	"github.com/civicvoice/civicvoice-api/internal/core/domain"
)

// RegisterInput carries the fields collected at registration. Username is
// derived from FullName by the service, never supplied by the client.
type RegisterInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
}

// LoginInput carries login form data plus client metadata for the session row.
type LoginInput struct {
	Login      string // username or email
	Password   string
	RememberMe bool
	IPAddress  string
	UserAgent  string
}

// LoginResult bundles the authenticated user with the freshly issued session.
type LoginResult struct {
	User    *domain.User
	Session *domain.Session
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Profile(ctx context.Context, userID int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, fullName, email, phone string) (*domain.User, error)
	CreateAuthority(ctx context.Context, in RegisterInput) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	RemoveAuthority(ctx context.Context, userID int64) error
}
