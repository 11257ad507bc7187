package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicvoice/civicvoice-api/internal/core/domain"
	"github.com/civicvoice/civicvoice-api/internal/core/ports"
)

const reportColumns = `r.id, r.reference, r.user_id, u.full_name, r.title, r.description, r.category,
	r.location, r.latitude, r.longitude, r.status, r.priority, r.photo_path, r.created_at, r.updated_at`

type ReportRepository struct {
	db *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	query := `
		INSERT INTO reports (reference, user_id, title, description, category, location,
			latitude, longitude, status, priority, photo_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	err := r.db.QueryRow(ctx, query,
		report.Reference, report.UserID, report.Title, report.Description, report.Category,
		report.Location, report.Latitude, report.Longitude, report.Status, report.Priority,
		report.PhotoPath, report.CreatedAt, report.UpdatedAt,
	).Scan(&report.ID)
	if err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}
	return report, nil
}

func (r *ReportRepository) FindByID(ctx context.Context, id int64) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports r JOIN users u ON u.id = r.user_id WHERE r.id = $1`
	report, err := scanReport(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("find report: %w", err)
	}
	return report, nil
}

func (r *ReportRepository) List(ctx context.Context, filter ports.ListReportsFilter) ([]*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports r JOIN users u ON u.id = r.user_id WHERE 1=1`
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND r.status = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND r.category = $%d", len(args))
	}
	if filter.UserID != 0 {
		args = append(args, filter.UserID)
		query += fmt.Sprintf(" AND r.user_id = $%d", len(args))
	}
	query += " ORDER BY r.created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// UpdateStatus applies the triage decision and its audit row atomically.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id int64, oldStatus, newStatus domain.ReportStatus, actorID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin status tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE reports SET status = $1, updated_at = now() WHERE id = $2`,
		newStatus, id,
	)
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReportNotFound
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO status_updates (report_id, updated_by_user_id, old_status, new_status) VALUES ($1, $2, $3, $4)`,
		id, actorID, oldStatus, newStatus,
	); err != nil {
		return fmt.Errorf("insert status update: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit status tx: %w", err)
	}
	return nil
}

func (r *ReportRepository) History(ctx context.Context, reportID int64) ([]*domain.StatusUpdate, error) {
	query := `
		SELECT s.id, s.report_id, s.updated_by_user_id, u.full_name, s.old_status, s.new_status, s.created_at
		FROM status_updates s
		JOIN users u ON u.id = s.updated_by_user_id
		WHERE s.report_id = $1
		ORDER BY s.created_at DESC`
	rows, err := r.db.Query(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("report history: %w", err)
	}
	defer rows.Close()

	var updates []*domain.StatusUpdate
	for rows.Next() {
		var u domain.StatusUpdate
		if err := rows.Scan(&u.ID, &u.ReportID, &u.UpdatedBy, &u.UpdaterName, &u.OldStatus, &u.NewStatus, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status update: %w", err)
		}
		updates = append(updates, &u)
	}
	return updates, rows.Err()
}

func (r *ReportRepository) Stats(ctx context.Context, userID int64) (*domain.ReportStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'in-progress'),
			COUNT(*) FILTER (WHERE status = 'fixed')
		FROM reports
		WHERE ($1 = 0 OR user_id = $1)`
	var stats domain.ReportStats
	err := r.db.QueryRow(ctx, query, userID).Scan(&stats.Total, &stats.Pending, &stats.InProgress, &stats.Fixed)
	if err != nil {
		return nil, fmt.Errorf("report stats: %w", err)
	}
	return &stats, nil
}

func (r *ReportRepository) HasStatusUpdatesBy(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM status_updates WHERE updated_by_user_id = $1)`,
		userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("status updates exist: %w", err)
	}
	return exists, nil
}

func scanReport(row pgx.Row) (*domain.Report, error) {
	var rep domain.Report
	err := row.Scan(
		&rep.ID, &rep.Reference, &rep.UserID, &rep.Reporter, &rep.Title, &rep.Description,
		&rep.Category, &rep.Location, &rep.Latitude, &rep.Longitude, &rep.Status,
		&rep.Priority, &rep.PhotoPath, &rep.CreatedAt, &rep.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}
