package ports

import (
	"context"

	"github.com/civicvoice/civicvoice-api/internal/core/domain"
)

// SubmitReportInput is the DTO passed from the transport layer when a citizen
// files a new report.
type SubmitReportInput struct {
	UserID      int64
	Title       string
	Description string
	Category    string
	Location    string
	Latitude    *float64
	Longitude   *float64
	Priority    string // empty defaults to medium
	PhotoPath   string
}

type ReportService interface {
	Submit(ctx context.Context, in SubmitReportInput) (*domain.Report, error)
	List(ctx context.Context, filter ListReportsFilter) ([]*domain.Report, error)
	Get(ctx context.Context, id int64) (*domain.Report, error)
	History(ctx context.Context, reportID int64) ([]*domain.StatusUpdate, error)
	UpdateStatus(ctx context.Context, reportID int64, newStatus string, actorID int64) error
	// Stats is scoped to the viewer: citizens see their own counts,
	// authorities and admins see the city-wide totals.
	Stats(ctx context.Context, viewer *domain.User) (*domain.ReportStats, error)
	// Export returns the rows for a PDF export under the same scoping rule.
	Export(ctx context.Context, viewer *domain.User) ([]*domain.Report, error)
}
