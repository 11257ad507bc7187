package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/civicvoice/civicvoice-api/internal/core/domain"
	"github.com/civicvoice/civicvoice-api/internal/core/ports"
)

func validSubmit(userID int64) ports.SubmitReportInput {
	return ports.SubmitReportInput{
		UserID:      userID,
		Title:       "Broken streetlight",
		Description: "The light at the corner has been out for a week.",
		Category:    "streetlight",
		Location:    "5th Ave & Main St",
	}
}

func TestReportService_Submit_Defaults(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, zerolog.Nop())

	report, err := svc.Submit(context.Background(), validSubmit(7))
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if report.Status != domain.ReportPending {
		t.Fatalf("expected pending status, got %s", report.Status)
	}
	if report.Priority != domain.PriorityMedium {
		t.Fatalf("expected medium priority default, got %s", report.Priority)
	}
	if report.Reference == "" {
		t.Fatalf("expected a public reference")
	}
}

func TestReportService_Submit_Validation(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, zerolog.Nop())
	ctx := context.Background()

	missing := validSubmit(7)
	missing.Title = "   "
	if _, err := svc.Submit(ctx, missing); err != domain.ErrMissingFields {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}

	badCategory := validSubmit(7)
	badCategory.Category = "aliens"
	if _, err := svc.Submit(ctx, badCategory); err != domain.ErrInvalidCategory {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}

	badPriority := validSubmit(7)
	badPriority.Priority = "urgent"
	if _, err := svc.Submit(ctx, badPriority); err != domain.ErrInvalidPriority {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestReportService_List_ValidatesFilters(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.List(ctx, ports.ListReportsFilter{Status: "done"}); err != domain.ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.List(ctx, ports.ListReportsFilter{Category: "ufo"}); err != domain.ErrInvalidCategory {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
	if _, err := svc.List(ctx, ports.ListReportsFilter{Status: "pending", Category: "pothole"}); err != nil {
		t.Fatalf("valid filter rejected: %v", err)
	}
}

func TestReportService_UpdateStatus_WritesAuditTrail(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, zerolog.Nop())
	ctx := context.Background()

	report, _ := svc.Submit(ctx, validSubmit(7))

	if err := svc.UpdateStatus(ctx, report.ID, "in-progress", 42); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}

	updated, _ := svc.Get(ctx, report.ID)
	if updated.Status != domain.ReportInProgress {
		t.Fatalf("status not applied: %s", updated.Status)
	}

	history, err := svc.History(ctx, report.ID)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(history))
	}
	entry := history[0]
	if entry.OldStatus != domain.ReportPending || entry.NewStatus != domain.ReportInProgress || entry.UpdatedBy != 42 {
		t.Fatalf("unexpected audit row: %+v", entry)
	}
}

func TestReportService_UpdateStatus_Rejections(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, zerolog.Nop())
	ctx := context.Background()

	report, _ := svc.Submit(ctx, validSubmit(7))

	if err := svc.UpdateStatus(ctx, report.ID, "done", 42); err != domain.ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if err := svc.UpdateStatus(ctx, report.ID, "pending", 42); err != domain.ErrStatusUnchanged {
		t.Fatalf("expected ErrStatusUnchanged, got %v", err)
	}
	if err := svc.UpdateStatus(ctx, 999, "fixed", 42); err != domain.ErrReportNotFound {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
	if len(repo.history) != 0 {
		t.Fatalf("rejected updates must not write audit rows")
	}
}

func TestReportService_History_UnknownReport(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, zerolog.Nop())

	if _, err := svc.History(context.Background(), 12); err != domain.ErrReportNotFound {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestReportService_Stats_ScopedByRole(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, zerolog.Nop())
	ctx := context.Background()

	mine, _ := svc.Submit(ctx, validSubmit(7))
	svc.Submit(ctx, validSubmit(8))
	svc.Submit(ctx, validSubmit(8))
	svc.UpdateStatus(ctx, mine.ID, "fixed", 42)

	citizen := &domain.User{ID: 7, Role: domain.RoleCitizen}
	stats, err := svc.Stats(ctx, citizen)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.Total != 1 || stats.Fixed != 1 || stats.Pending != 0 {
		t.Fatalf("citizen stats not scoped: %+v", stats)
	}

	authority := &domain.User{ID: 42, Role: domain.RoleAuthority}
	stats, err = svc.Stats(ctx, authority)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.Total != 3 || stats.Pending != 2 || stats.Fixed != 1 {
		t.Fatalf("authority stats not city-wide: %+v", stats)
	}
}

func TestReportService_Export_ScopedByRole(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, zerolog.Nop())
	ctx := context.Background()

	svc.Submit(ctx, validSubmit(7))
	svc.Submit(ctx, validSubmit(8))

	citizen := &domain.User{ID: 7, Role: domain.RoleCitizen}
	rows, err := svc.Export(ctx, citizen)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("citizen export not scoped: %d rows", len(rows))
	}

	admin := &domain.User{ID: 1, Role: domain.RoleAdmin}
	rows, err = svc.Export(ctx, admin)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("admin export should include everything: %d rows", len(rows))
	}
}
