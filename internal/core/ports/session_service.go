package ports

import (
	"context"

	"github.com/civicvoice/civicvoice-api/internal/core/domain"
)

// SessionService owns the lifecycle of persistent login sessions.
type SessionService interface {
	Create(ctx context.Context, userID int64, rememberMe bool, ip, agent string) (*domain.Session, error)
	// Validate resolves a cookie token to its user. Every failure mode —
	// unknown token, expired session, inactive user, store error — is
	// reported as ok=false with no distinguishing reason.
	Validate(ctx context.Context, token string) (*domain.User, bool)
	// Destroy is idempotent; store errors are logged, not returned.
	Destroy(ctx context.Context, token string)
	// DestroyAllForUser forces re-authentication on every device.
	DestroyAllForUser(ctx context.Context, userID int64)
}
