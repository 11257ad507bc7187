package ports

import (
	"context"

	"github.com/civicvoice/civicvoice-api/internal/core/domain"
)

// ListReportsFilter carries the optional query parameters for listing reports.
type ListReportsFilter struct {
	Status   string // optional: filter by status
	Category string // optional: filter by category
	UserID   int64  // non-zero: scoped to one reporter
}

// ReportRepository defines persistence operations for reports and their
// status-update audit trail.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) (*domain.Report, error)
	FindByID(ctx context.Context, id int64) (*domain.Report, error)
	// List returns reports joined with the reporter's name, newest first.
	List(ctx context.Context, filter ListReportsFilter) ([]*domain.Report, error)
	// UpdateStatus applies the new status and writes the audit row in one
	// transaction.
	UpdateStatus(ctx context.Context, id int64, oldStatus, newStatus domain.ReportStatus, actorID int64) error
	History(ctx context.Context, reportID int64) ([]*domain.StatusUpdate, error)
	// Stats aggregates counts; userID 0 means all reports.
	Stats(ctx context.Context, userID int64) (*domain.ReportStats, error)
	// HasStatusUpdatesBy reports whether the user authored any audit rows.
	HasStatusUpdatesBy(ctx context.Context, userID int64) (bool, error)
}
