package domain

import (
	"errors"
	"time"
)

var ErrResetTokenNotFound = errors.New("reset token not found")

// OTPLength is the exact number of decimal digits in a reset code.
const OTPLength = 6

// ResetTokenTTL bounds the lifetime of a reset token.
const ResetTokenTTL = 10 * time.Minute

// PasswordResetToken is one issued OTP. At most one unused, unexpired token
// is active per user: issuing a new one marks the older ones used, and
// verification always takes the newest matching row.
type PasswordResetToken struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Email     string     `json:"email"`
	OTPCode   string     `json:"-"`
	Token     string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	Used      bool       `json:"used"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	Attempts  int        `json:"attempts"`
	CreatedAt time.Time  `json:"created_at"`
}

// Active reports whether the token can still be consumed at the given instant.
func (t *PasswordResetToken) Active(now time.Time) bool {
	return !t.Used && t.ExpiresAt.After(now)
}
