package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicvoice/civicvoice-api/internal/core/domain"
	"github.com/civicvoice/civicvoice-api/internal/core/ports"
)

// SessionService issues, validates and revokes persistent login sessions.
// Validation never explains a miss: unknown token, expired row, inactive user
// and store errors are all "not logged in".
type SessionService struct {
	sessions ports.SessionRepository

	ttl         time.Duration // short-lived window
	rememberTTL time.Duration // "remember me" window
	log         zerolog.Logger
}

func NewSessionService(sessions ports.SessionRepository, ttl, rememberTTL time.Duration, log zerolog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	if rememberTTL <= 0 {
		rememberTTL = 30 * 24 * time.Hour
	}
	return &SessionService{sessions: sessions, ttl: ttl, rememberTTL: rememberTTL, log: log}
}

// Create persists a new session and returns it for the caller to set as an
// httpOnly cookie. Expired rows are swept opportunistically afterwards.
func (s *SessionService) Create(ctx context.Context, userID int64, rememberMe bool, ip, agent string) (*domain.Session, error) {
	token, err := generateOpaqueToken()
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	now := time.Now().UTC()
	ttl := s.ttl
	if rememberMe {
		ttl = s.rememberTTL
	}
	session := &domain.Session{
		UserID:    userID,
		Token:     token,
		IPAddress: ip,
		UserAgent: agent,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if n, err := s.sessions.DeleteExpired(ctx, now); err != nil {
		s.log.Warn().Err(err).Msg("expired session sweep failed")
	} else if n > 0 {
		s.log.Debug().Int64("deleted", n).Msg("swept expired sessions")
	}

	s.log.Info().Int64("user_id", userID).Bool("remember_me", rememberMe).Msg("session created")
	return session, nil
}

// Validate resolves a cookie token to its user.
func (s *SessionService) Validate(ctx context.Context, token string) (*domain.User, bool) {
	if token == "" {
		return nil, false
	}
	user, err := s.sessions.FindUserByToken(ctx, token, time.Now().UTC())
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			// Auth must never crash the request; degrade to logged-out.
			s.log.Error().Err(err).Msg("session validation failed")
		}
		return nil, false
	}
	return user, true
}

// Destroy deletes the session matching the token, if any.
func (s *SessionService) Destroy(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.sessions.DeleteByToken(ctx, token); err != nil {
		s.log.Warn().Err(err).Msg("session removal failed")
	}
}

// DestroyAllForUser revokes every session of the user.
func (s *SessionService) DestroyAllForUser(ctx context.Context, userID int64) {
	n, err := s.sessions.DeleteByUserID(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("bulk session removal failed")
		return
	}
	s.log.Info().Int64("user_id", userID).Int64("sessions", n).Msg("all sessions revoked")
}
