package ports

import (
	"context"
	"time"

	"github.com/civicvoice/civicvoice-api/internal/core/domain"
)

// ResetTokenRepository defines persistence operations for password reset
// tokens. Liveness predicates (used = false, expires_at > now) live in the
// queries themselves so concurrent requests cannot observe half-applied state.
type ResetTokenRepository interface {
	Create(ctx context.Context, token *domain.PasswordResetToken) error
	// InvalidateForUser marks every unused token of the user as used,
	// enforcing the at-most-one-active-token invariant at insertion time.
	InvalidateForUser(ctx context.Context, userID int64, now time.Time) error
	// FindActiveByEmailAndCode returns the newest unused, unexpired token
	// matching the pair, or domain.ErrSessionNotFound-style nil on miss.
	FindActiveByEmailAndCode(ctx context.Context, email, code string, now time.Time) (*domain.PasswordResetToken, error)
	// ExistsByEmailAndCode matches the pair regardless of used/expired state.
	ExistsByEmailAndCode(ctx context.Context, email, code string) (bool, error)
	// IncrementAttempts bumps the attempts counter on the currently active
	// tokens for the email. Rate-limit signal only.
	IncrementAttempts(ctx context.Context, email string, now time.Time) error
	// FinalizeReset atomically updates the user's password hash, marks the
	// token used, and deletes all of the user's sessions. All three apply
	// or none do.
	FinalizeReset(ctx context.Context, userID, tokenID int64, passwordHash string, now time.Time) error
	// DeleteStale removes rows that are expired or already used.
	DeleteStale(ctx context.Context, now time.Time) (int64, error)
}
