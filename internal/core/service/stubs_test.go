package service

import (
	"context"
	"time"

	"github.com/civicvoice/civicvoice-api/internal/core/domain"
	"github.com/civicvoice/civicvoice-api/internal/core/ports"
)

// ── user repository stub ──────────────────────────────────────────────────────

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) add(u *domain.User) *domain.User {
	copy := cloneUser(u)
	copy.ID = r.nextID
	r.nextID++
	r.users[copy.ID] = copy
	return cloneUser(copy)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	return r.add(user), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindActiveByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.IsActive {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindActiveByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.IsActive {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) EmailExists(_ context.Context, email string, excludeID int64) (bool, error) {
	for _, u := range r.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id int64, fullName, email, phone string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.FullName = fullName
	u.Email = email
	u.Phone = phone
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// ── session repository stub ───────────────────────────────────────────────────

type stubSessionRepo struct {
	sessions map[string]*domain.Session
	users    *stubUserRepo
	nextID   int64
}

func newStubSessionRepo(users *stubUserRepo) *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]*domain.Session), users: users, nextID: 1}
}

func (r *stubSessionRepo) Create(_ context.Context, session *domain.Session) error {
	copy := *session
	copy.ID = r.nextID
	r.nextID++
	r.sessions[copy.Token] = &copy
	session.ID = copy.ID
	return nil
}

func (r *stubSessionRepo) FindUserByToken(_ context.Context, token string, now time.Time) (*domain.User, error) {
	s, ok := r.sessions[token]
	if !ok || s.Expired(now) {
		return nil, domain.ErrSessionNotFound
	}
	u, ok := r.users.users[s.UserID]
	if !ok || !u.IsActive {
		return nil, domain.ErrSessionNotFound
	}
	return cloneUser(u), nil
}

func (r *stubSessionRepo) DeleteByToken(_ context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

func (r *stubSessionRepo) DeleteByUserID(_ context.Context, userID int64) (int64, error) {
	var n int64
	for token, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, token)
			n++
		}
	}
	return n, nil
}

func (r *stubSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for token, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, token)
			n++
		}
	}
	return n, nil
}

func (r *stubSessionRepo) countForUser(userID int64) int {
	n := 0
	for _, s := range r.sessions {
		if s.UserID == userID {
			n++
		}
	}
	return n
}

// ── reset token repository stub ───────────────────────────────────────────────

// stubTokenRepo keeps tokens in insertion order, newest appended last, and
// reaches into the user and session stubs for FinalizeReset so the atomic
// commit is observable in tests.
type stubTokenRepo struct {
	tokens   []*domain.PasswordResetToken
	users    *stubUserRepo
	sessions *stubSessionRepo
	nextID   int64

	finalizeErr error
}

func newStubTokenRepo(users *stubUserRepo, sessions *stubSessionRepo) *stubTokenRepo {
	return &stubTokenRepo{users: users, sessions: sessions, nextID: 1}
}

func (r *stubTokenRepo) Create(_ context.Context, token *domain.PasswordResetToken) error {
	copy := *token
	copy.ID = r.nextID
	r.nextID++
	r.tokens = append(r.tokens, &copy)
	token.ID = copy.ID
	return nil
}

func (r *stubTokenRepo) InvalidateForUser(_ context.Context, userID int64, now time.Time) error {
	for _, t := range r.tokens {
		if t.UserID == userID && !t.Used {
			t.Used = true
			at := now
			t.UsedAt = &at
		}
	}
	return nil
}

func (r *stubTokenRepo) FindActiveByEmailAndCode(_ context.Context, email, code string, now time.Time) (*domain.PasswordResetToken, error) {
	for i := len(r.tokens) - 1; i >= 0; i-- {
		t := r.tokens[i]
		if t.Email == email && t.OTPCode == code && t.Active(now) {
			copy := *t
			return &copy, nil
		}
	}
	return nil, domain.ErrResetTokenNotFound
}

func (r *stubTokenRepo) ExistsByEmailAndCode(_ context.Context, email, code string) (bool, error) {
	for _, t := range r.tokens {
		if t.Email == email && t.OTPCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubTokenRepo) IncrementAttempts(_ context.Context, email string, now time.Time) error {
	for _, t := range r.tokens {
		if t.Email == email && t.Active(now) {
			t.Attempts++
		}
	}
	return nil
}

func (r *stubTokenRepo) FinalizeReset(_ context.Context, userID, tokenID int64, passwordHash string, now time.Time) error {
	if r.finalizeErr != nil {
		return r.finalizeErr
	}
	u, ok := r.users.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = now
	for _, t := range r.tokens {
		if t.ID == tokenID {
			t.Used = true
			at := now
			t.UsedAt = &at
		}
	}
	_, _ = r.sessions.DeleteByUserID(context.Background(), userID)
	return nil
}

func (r *stubTokenRepo) DeleteStale(_ context.Context, now time.Time) (int64, error) {
	kept := r.tokens[:0]
	var n int64
	for _, t := range r.tokens {
		if t.Active(now) {
			kept = append(kept, t)
		} else {
			n++
		}
	}
	r.tokens = kept
	return n, nil
}

func (r *stubTokenRepo) activeFor(email string, now time.Time) []*domain.PasswordResetToken {
	var out []*domain.PasswordResetToken
	for _, t := range r.tokens {
		if t.Email == email && t.Active(now) {
			out = append(out, t)
		}
	}
	return out
}

// ── mail dispatcher stub ──────────────────────────────────────────────────────

type stubMailer struct {
	sent    []ports.MailMessage
	sendErr error
}

func (m *stubMailer) Send(_ context.Context, msg ports.MailMessage) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

// ── report repository stub ────────────────────────────────────────────────────

type stubReportRepo struct {
	reports map[int64]*domain.Report
	history []*domain.StatusUpdate
	nextID  int64
}

func newStubReportRepo() *stubReportRepo {
	return &stubReportRepo{reports: make(map[int64]*domain.Report), nextID: 1}
}

func (r *stubReportRepo) Create(_ context.Context, report *domain.Report) (*domain.Report, error) {
	copy := *report
	copy.ID = r.nextID
	r.nextID++
	r.reports[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubReportRepo) FindByID(_ context.Context, id int64) (*domain.Report, error) {
	if rep, ok := r.reports[id]; ok {
		copy := *rep
		return &copy, nil
	}
	return nil, domain.ErrReportNotFound
}

func (r *stubReportRepo) List(_ context.Context, filter ports.ListReportsFilter) ([]*domain.Report, error) {
	var out []*domain.Report
	for _, rep := range r.reports {
		if filter.Status != "" && string(rep.Status) != filter.Status {
			continue
		}
		if filter.Category != "" && string(rep.Category) != filter.Category {
			continue
		}
		if filter.UserID != 0 && rep.UserID != filter.UserID {
			continue
		}
		copy := *rep
		out = append(out, &copy)
	}
	return out, nil
}

func (r *stubReportRepo) UpdateStatus(_ context.Context, id int64, oldStatus, newStatus domain.ReportStatus, actorID int64) error {
	rep, ok := r.reports[id]
	if !ok {
		return domain.ErrReportNotFound
	}
	rep.Status = newStatus
	rep.UpdatedAt = time.Now().UTC()
	r.history = append(r.history, &domain.StatusUpdate{
		ID:        int64(len(r.history) + 1),
		ReportID:  id,
		UpdatedBy: actorID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (r *stubReportRepo) History(_ context.Context, reportID int64) ([]*domain.StatusUpdate, error) {
	var out []*domain.StatusUpdate
	for _, h := range r.history {
		if h.ReportID == reportID {
			copy := *h
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *stubReportRepo) Stats(_ context.Context, userID int64) (*domain.ReportStats, error) {
	stats := &domain.ReportStats{}
	for _, rep := range r.reports {
		if userID != 0 && rep.UserID != userID {
			continue
		}
		stats.Total++
		switch rep.Status {
		case domain.ReportPending:
			stats.Pending++
		case domain.ReportInProgress:
			stats.InProgress++
		case domain.ReportFixed:
			stats.Fixed++
		}
	}
	return stats, nil
}

func (r *stubReportRepo) HasStatusUpdatesBy(_ context.Context, userID int64) (bool, error) {
	for _, h := range r.history {
		if h.UpdatedBy == userID {
			return true, nil
		}
	}
	return false, nil
}
