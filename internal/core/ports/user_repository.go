package ports

import (
	"context"

	"github.com/civicvoice/civicvoice-api/internal/core/domain"
)

// UserRepository defines persistence operations for the credential store.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// FindActiveByEmail and FindActiveByUsername only match rows with
	// is_active = true; inactive accounts behave as missing.
	FindActiveByEmail(ctx context.Context, email string) (*domain.User, error)
	FindActiveByUsername(ctx context.Context, username string) (*domain.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	// EmailExists ignores the row with excludeID, so a user keeping their
	// own address on a profile edit does not collide with themselves.
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	UpdateProfile(ctx context.Context, id int64, fullName, email, phone string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
