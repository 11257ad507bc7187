package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/civicvoice/civicvoice-api/internal/core/domain"
	"github.com/civicvoice/civicvoice-api/internal/core/ports"
)

// ReportService implements report submission, triage and dashboards.
type ReportService struct {
	repo ports.ReportRepository
	log  zerolog.Logger
}

func NewReportService(repo ports.ReportRepository, log zerolog.Logger) *ReportService {
	return &ReportService{repo: repo, log: log}
}

// Submit files a new report. Status always starts at pending; the public
// reference is a UUID so report URLs are not enumerable.
func (s *ReportService) Submit(ctx context.Context, in ports.SubmitReportInput) (*domain.Report, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	if in.Title == "" || in.Description == "" || in.Location == "" {
		return nil, domain.ErrMissingFields
	}

	category := domain.ReportCategory(in.Category)
	if !category.Valid() {
		return nil, domain.ErrInvalidCategory
	}
	priority := domain.ReportPriority(in.Priority)
	if in.Priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, domain.ErrInvalidPriority
	}

	now := time.Now().UTC()
	report := &domain.Report{
		Reference:   uuid.NewString(),
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		Category:    category,
		Location:    in.Location,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Status:      domain.ReportPending,
		Priority:    priority,
		PhotoPath:   in.PhotoPath,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := s.repo.Create(ctx, report)
	if err != nil {
		s.log.Error().Err(err).Msg("report creation failed")
		return nil, err
	}

	s.log.Info().Int64("report_id", created.ID).Str("category", in.Category).Int64("user_id", in.UserID).Msg("report submitted")
	return created, nil
}

func (s *ReportService) List(ctx context.Context, filter ports.ListReportsFilter) ([]*domain.Report, error) {
	if filter.Status != "" && !domain.ReportStatus(filter.Status).Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if filter.Category != "" && !domain.ReportCategory(filter.Category).Valid() {
		return nil, domain.ErrInvalidCategory
	}
	return s.repo.List(ctx, filter)
}

func (s *ReportService) Get(ctx context.Context, id int64) (*domain.Report, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ReportService) History(ctx context.Context, reportID int64) ([]*domain.StatusUpdate, error) {
	if _, err := s.repo.FindByID(ctx, reportID); err != nil {
		return nil, err
	}
	return s.repo.History(ctx, reportID)
}

// UpdateStatus applies a triage decision and records the audit row. Unknown
// and unchanged statuses are rejected before any write.
func (s *ReportService) UpdateStatus(ctx context.Context, reportID int64, newStatus string, actorID int64) error {
	next := domain.ReportStatus(newStatus)
	if !next.Valid() {
		return domain.ErrInvalidStatus
	}

	report, err := s.repo.FindByID(ctx, reportID)
	if err != nil {
		return err
	}
	if report.Status == next {
		return domain.ErrStatusUnchanged
	}

	if err := s.repo.UpdateStatus(ctx, reportID, report.Status, next, actorID); err != nil {
		s.log.Error().Err(err).Int64("report_id", reportID).Msg("status update failed")
		return err
	}

	s.log.Info().
		Int64("report_id", reportID).
		Str("old_status", string(report.Status)).
		Str("new_status", string(next)).
		Int64("updated_by", actorID).
		Msg("report status updated")
	return nil
}

func (s *ReportService) Stats(ctx context.Context, viewer *domain.User) (*domain.ReportStats, error) {
	var scope int64
	if viewer.Role == domain.RoleCitizen {
		scope = viewer.ID
	}
	return s.repo.Stats(ctx, scope)
}

func (s *ReportService) Export(ctx context.Context, viewer *domain.User) ([]*domain.Report, error) {
	filter := ports.ListReportsFilter{}
	if viewer.Role == domain.RoleCitizen {
		filter.UserID = viewer.ID
	}
	return s.repo.List(ctx, filter)
}
