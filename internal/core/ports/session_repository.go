package ports

import (
	"context"
	"time"

	"github.com/civicvoice/civicvoice-api/internal/core/domain"
)

// SessionRepository defines persistence operations for login sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	// FindUserByToken resolves a token to its user in one joined query.
	// The match requires expires_at > now and an active user; any miss
	// returns domain.ErrSessionNotFound without a reason.
	FindUserByToken(ctx context.Context, token string, now time.Time) (*domain.User, error)
	// DeleteByToken is idempotent: deleting an unknown token is not an error.
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
