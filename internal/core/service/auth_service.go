package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/civicvoice/civicvoice-api/internal/core/domain"
	"github.com/civicvoice/civicvoice-api/internal/core/ports"
)

var usernameStrip = regexp.MustCompile(`[^a-z0-9\s]`)
var usernameSquash = regexp.MustCompile(`_{2,}`)

// AuthService implements registration, login and account management on top of
// the credential store and the session manager.
type AuthService struct {
	users    ports.UserRepository
	reports  ports.ReportRepository
	sessions ports.SessionService

	passwordMinLength int
	bcryptCost        int
	log               zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	reports ports.ReportRepository,
	sessions ports.SessionService,
	passwordMinLength, bcryptCost int,
	log zerolog.Logger,
) *AuthService {
	if passwordMinLength <= 0 {
		passwordMinLength = 6
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 12
	}
	return &AuthService{
		users:             users,
		reports:           reports,
		sessions:          sessions,
		passwordMinLength: passwordMinLength,
		bcryptCost:        bcryptCost,
		log:               log,
	}
}

// Register creates a citizen account. The username is derived from the full
// name and deduplicated with a numeric suffix.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.createUser(ctx, in, domain.RoleCitizen)
}

// CreateAuthority creates an authority account. Admin-only at the transport
// layer.
func (s *AuthService) CreateAuthority(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.createUser(ctx, in, domain.RoleAuthority)
}

func (s *AuthService) createUser(ctx context.Context, in ports.RegisterInput, role domain.Role) (*domain.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	if in.FullName == "" || len(in.Password) < s.passwordMinLength {
		return nil, domain.ErrInvalidCredentials
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	taken, err := s.users.EmailExists(ctx, in.Email, 0)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	username, err := s.generateUsername(ctx, in.FullName)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Str("role", string(role)).Msg("user registered")
	return created, nil
}

// Login authenticates by username or email and issues a persistent session.
// Every failure mode answers with the same generic error.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	login := strings.TrimSpace(in.Login)
	if login == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	var user *domain.User
	var err error
	if _, mailErr := mail.ParseAddress(login); mailErr == nil {
		user, err = s.users.FindActiveByEmail(ctx, login)
	} else {
		user, err = s.users.FindActiveByUsername(ctx, login)
	}
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	session, err := s.sessions.Create(ctx, user.ID, in.RememberMe, in.IPAddress, in.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &ports.LoginResult{User: user, Session: session}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile changes name, email and phone. The email must stay unique
// across other accounts.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, fullName, email, phone string) (*domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if fullName == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	taken, err := s.users.EmailExists(ctx, email, userID)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}
	return s.users.UpdateProfile(ctx, userID, fullName, email, strings.TrimSpace(phone))
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// RemoveAuthority hard-deletes an authority account unless it has produced
// status-update history, which must remain attributable.
func (s *AuthService) RemoveAuthority(ctx context.Context, userID int64) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != domain.RoleAuthority {
		return domain.ErrForbidden
	}

	hasHistory, err := s.reports.HasStatusUpdatesBy(ctx, userID)
	if err != nil {
		return fmt.Errorf("remove authority: %w", err)
	}
	if hasHistory {
		return domain.ErrAuthorityHasHistory
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.sessions.DestroyAllForUser(ctx, userID)
	s.log.Info().Int64("user_id", userID).Msg("authority account removed")
	return nil
}

// generateUsername lowercases the full name, strips special characters,
// replaces spaces with underscores and appends _N until the result is free.
func (s *AuthService) generateUsername(ctx context.Context, fullName string) (string, error) {
	base := strings.ToLower(fullName)
	base = usernameStrip.ReplaceAllString(base, "")
	base = strings.Join(strings.Fields(base), "_")
	base = usernameSquash.ReplaceAllString(base, "_")
	base = strings.Trim(base, "_")
	if base == "" {
		base = "user"
	}

	candidate := base
	for n := 1; ; n++ {
		exists, err := s.users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("generate username: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", base, n)
	}
}
