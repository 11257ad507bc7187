package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/civicvoice/civicvoice-api/internal/core/domain"
	"github.com/civicvoice/civicvoice-api/internal/core/ports"
)

var otpPattern = regexp.MustCompile(`^[0-9]{6}$`)

// ResetService implements the OTP password-reset workflow:
//
//	EMAIL_ENTRY → OTP_ISSUED → OTP_VERIFIED → PASSWORD_RESET
//
// Every step re-checks the token row fresh against the store; nothing trusts
// client-supplied "already verified" state. All failures are converted into
// result values at this boundary.
type ResetService struct {
	users  ports.UserRepository
	tokens ports.ResetTokenRepository
	mailer ports.MailDispatcher

	passwordMinLength int
	bcryptCost        int
	log               zerolog.Logger
}

func NewResetService(
	users ports.UserRepository,
	tokens ports.ResetTokenRepository,
	mailer ports.MailDispatcher,
	passwordMinLength, bcryptCost int,
	log zerolog.Logger,
) *ResetService {
	if passwordMinLength <= 0 {
		passwordMinLength = 6
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 12
	}
	return &ResetService{
		users:             users,
		tokens:            tokens,
		mailer:            mailer,
		passwordMinLength: passwordMinLength,
		bcryptCost:        bcryptCost,
		log:               log,
	}
}

// Request issues a fresh OTP for the email and dispatches it. Unknown or
// inactive emails answer exactly like known ones.
func (s *ResetService) Request(ctx context.Context, email string) ports.ResetRequestResult {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return ports.ResetRequestResult{Success: false, Message: publicMessage(outcomeEmailInvalid)}
	}

	user, err := s.users.FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Anti-enumeration: no token is created, but the caller sees
			// the same outcome as for a real account.
			return ports.ResetRequestResult{Success: true, Message: publicMessage(outcomeCodeAccepted)}
		}
		s.log.Error().Err(err).Msg("reset request: user lookup failed")
		return ports.ResetRequestResult{Success: false, Message: publicMessage(outcomeRequestFailed)}
	}

	// Opportunistic sweep of expired/used rows. Best effort.
	now := time.Now().UTC()
	if n, err := s.tokens.DeleteStale(ctx, now); err != nil {
		s.log.Warn().Err(err).Msg("reset token sweep failed")
	} else if n > 0 {
		s.log.Debug().Int64("deleted", n).Msg("swept stale reset tokens")
	}

	// Newest token wins: older unused tokens are invalidated before insert
	// rather than deleted, so a concurrent request cannot leave two rows
	// active.
	if err := s.tokens.InvalidateForUser(ctx, user.ID, now); err != nil {
		s.log.Error().Err(err).Int64("user_id", user.ID).Msg("reset request: invalidating prior tokens failed")
		return ports.ResetRequestResult{Success: false, Message: publicMessage(outcomeRequestFailed)}
	}

	code, err := generateOTP()
	if err != nil {
		s.log.Error().Err(err).Msg("reset request: otp generation failed")
		return ports.ResetRequestResult{Success: false, Message: publicMessage(outcomeRequestFailed)}
	}
	verification, err := generateOpaqueToken()
	if err != nil {
		s.log.Error().Err(err).Msg("reset request: token generation failed")
		return ports.ResetRequestResult{Success: false, Message: publicMessage(outcomeRequestFailed)}
	}

	token := &domain.PasswordResetToken{
		UserID:    user.ID,
		Email:     email,
		OTPCode:   code,
		Token:     verification,
		ExpiresAt: now.Add(domain.ResetTokenTTL),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		s.log.Error().Err(err).Int64("user_id", user.ID).Msg("reset request: token insert failed")
		return ports.ResetRequestResult{Success: false, Message: publicMessage(outcomeRequestFailed)}
	}

	if err := s.mailer.Send(ctx, otpMail(email, code)); err != nil {
		// No transition: the row stays and is superseded by the next
		// request.
		s.log.Error().Err(err).Int64("user_id", user.ID).Msg("reset request: otp mail dispatch failed")
		return ports.ResetRequestResult{Success: false, Message: publicMessage(outcomeSendFailed)}
	}

	s.log.Info().Int64("user_id", user.ID).Time("expires_at", token.ExpiresAt).Msg("password reset otp issued")
	return ports.ResetRequestResult{Success: true, Message: publicMessage(outcomeCodeAccepted), Token: verification}
}

// VerifyOTP checks an emailed code against the newest active token.
func (s *ResetService) VerifyOTP(ctx context.Context, email, code string) ports.VerifyOTPResult {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	if email == "" || !otpPattern.MatchString(code) {
		return ports.VerifyOTPResult{Valid: false, Message: publicMessage(outcomeOTPMalformed)}
	}

	now := time.Now().UTC()
	token, err := s.tokens.FindActiveByEmailAndCode(ctx, email, code, now)
	if err == nil {
		return ports.VerifyOTPResult{
			Valid:   true,
			Message: publicMessage(outcomeOTPValid),
			Token:   token.Token,
			UserID:  token.UserID,
		}
	}
	if !errors.Is(err, domain.ErrResetTokenNotFound) {
		s.log.Error().Err(err).Msg("otp verification: lookup failed")
		return ports.VerifyOTPResult{Valid: false, Message: publicMessage(outcomeVerifyFailed)}
	}

	// The pair exists but is expired or consumed.
	exists, err := s.tokens.ExistsByEmailAndCode(ctx, email, code)
	if err != nil {
		s.log.Error().Err(err).Msg("otp verification: stale lookup failed")
		return ports.VerifyOTPResult{Valid: false, Message: publicMessage(outcomeVerifyFailed)}
	}
	if exists {
		return ports.VerifyOTPResult{Valid: false, Message: publicMessage(outcomeOTPStale)}
	}

	// Wrong code: bump the attempts counter on the active tokens as a
	// rate-limit signal. No lockout is enforced here.
	if err := s.tokens.IncrementAttempts(ctx, email, now); err != nil {
		s.log.Warn().Err(err).Msg("otp verification: attempts increment failed")
	}
	return ports.VerifyOTPResult{Valid: false, Message: publicMessage(outcomeOTPWrong)}
}

// Reset finalizes the workflow. The (email, code) pair is re-validated
// against the store even when the caller verified it moments earlier, because
// the token may have expired or been superseded in between. On success the
// password update, token consumption and global session logout commit as one
// transaction.
func (s *ResetService) Reset(ctx context.Context, email, code, newPassword string) ports.ResetPasswordResult {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	if email == "" || !otpPattern.MatchString(code) {
		return ports.ResetPasswordResult{Success: false, Message: publicMessage(outcomeOTPMalformed)}
	}
	if len(newPassword) < s.passwordMinLength {
		return ports.ResetPasswordResult{Success: false, Message: passwordTooShortMessage(s.passwordMinLength)}
	}

	now := time.Now().UTC()
	token, err := s.tokens.FindActiveByEmailAndCode(ctx, email, code, now)
	if err != nil {
		if errors.Is(err, domain.ErrResetTokenNotFound) {
			return ports.ResetPasswordResult{Success: false, Message: publicMessage(outcomeResetInvalidCode)}
		}
		s.log.Error().Err(err).Msg("password reset: token lookup failed")
		return ports.ResetPasswordResult{Success: false, Message: publicMessage(outcomeResetFailed)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		s.log.Error().Err(err).Msg("password reset: hashing failed")
		return ports.ResetPasswordResult{Success: false, Message: publicMessage(outcomeResetFailed)}
	}

	if err := s.tokens.FinalizeReset(ctx, token.UserID, token.ID, string(hash), now); err != nil {
		s.log.Error().Err(err).Int64("user_id", token.UserID).Msg("password reset: commit failed")
		return ports.ResetPasswordResult{Success: false, Message: publicMessage(outcomeResetFailed)}
	}

	s.log.Info().Int64("user_id", token.UserID).Msg("password reset completed, all sessions revoked")
	return ports.ResetPasswordResult{Success: true, Message: publicMessage(outcomeResetDone)}
}

// generateOTP draws a uniform code in 000000–999999, left-zero-padded.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// generateOpaqueToken returns 256 bits of entropy, hex-encoded.
func generateOpaqueToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
