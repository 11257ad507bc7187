package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicvoice/civicvoice-api/internal/core/domain"
)

type ResetTokenRepository struct {
	db *pgxpool.Pool
}

func NewResetTokenRepository(db *pgxpool.Pool) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

func (r *ResetTokenRepository) Create(ctx context.Context, token *domain.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (user_id, email, otp_code, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.db.QueryRow(ctx, query,
		token.UserID, token.Email, token.OTPCode, token.Token, token.ExpiresAt, token.CreatedAt,
	).Scan(&token.ID)
	if err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}
	return nil
}

func (r *ResetTokenRepository) InvalidateForUser(ctx context.Context, userID int64, now time.Time) error {
	query := `
		UPDATE password_reset_tokens
		SET used = TRUE, used_at = $1
		WHERE user_id = $2 AND used = FALSE`
	if _, err := r.db.Exec(ctx, query, now, userID); err != nil {
		return fmt.Errorf("invalidate reset tokens: %w", err)
	}
	return nil
}

// FindActiveByEmailAndCode takes the newest live row for the pair. Ordering
// by created_at makes the most recent request authoritative when two
// overlapped.
func (r *ResetTokenRepository) FindActiveByEmailAndCode(ctx context.Context, email, code string, now time.Time) (*domain.PasswordResetToken, error) {
	query := `
		SELECT id, user_id, email, otp_code, token, expires_at, used, used_at, attempts, created_at
		FROM password_reset_tokens
		WHERE email = $1 AND otp_code = $2 AND used = FALSE AND expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1`
	var t domain.PasswordResetToken
	err := r.db.QueryRow(ctx, query, email, code, now).Scan(
		&t.ID, &t.UserID, &t.Email, &t.OTPCode, &t.Token,
		&t.ExpiresAt, &t.Used, &t.UsedAt, &t.Attempts, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrResetTokenNotFound
		}
		return nil, fmt.Errorf("find reset token: %w", err)
	}
	return &t, nil
}

func (r *ResetTokenRepository) ExistsByEmailAndCode(ctx context.Context, email, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM password_reset_tokens WHERE email = $1 AND otp_code = $2)`,
		email, code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("reset token exists: %w", err)
	}
	return exists, nil
}

func (r *ResetTokenRepository) IncrementAttempts(ctx context.Context, email string, now time.Time) error {
	query := `
		UPDATE password_reset_tokens
		SET attempts = attempts + 1
		WHERE email = $1 AND used = FALSE AND expires_at > $2`
	if _, err := r.db.Exec(ctx, query, email, now); err != nil {
		return fmt.Errorf("increment attempts: %w", err)
	}
	return nil
}

// FinalizeReset commits the terminal step of the workflow in one transaction:
// new password hash, token consumed, every session of the user gone. Partial
// application would leave old sessions alive after a password change, so any
// failure rolls back all three.
func (r *ResetTokenRepository) FinalizeReset(ctx context.Context, userID, tokenID int64, passwordHash string, now time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reset tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		passwordHash, now, userID,
	); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE password_reset_tokens SET used = TRUE, used_at = $1 WHERE id = $2`,
		now, tokenID,
	); err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM user_sessions WHERE user_id = $1`,
		userID,
	); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reset tx: %w", err)
	}
	return nil
}

func (r *ResetTokenRepository) DeleteStale(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM password_reset_tokens WHERE expires_at < $1 OR used = TRUE`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("delete stale reset tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
