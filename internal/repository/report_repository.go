package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Geraldo-Morris/tvriapp/internal/domain"
	apperrors "github.com/Geraldo-Morris/tvriapp/pkg/util"
)

// ReportRepository encapsulates report persistence.
type ReportRepository interface {
	// Create persists a new pending report together with its seeded
	// history. Non-pending status is rejected.
	Create(ctx context.Context, report *domain.Report) error
	// GetByID loads a report with its full history.
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	// List returns reports visible under scope, newest first, without
	// history.
	List(ctx context.Context, scope ReportScope) ([]domain.Report, error)
	// Update writes the report conditionally on expectedVersion and appends
	// newEntries to its history in the same transaction. A version mismatch
	// yields a Conflict the caller must resolve by re-fetching.
	Update(ctx context.Context, report *domain.Report, expectedVersion int64, newEntries []domain.HistoryEntry) error
	// ListHistory returns the audit trail ordered by timestamp ascending.
	ListHistory(ctx context.Context, reportID string) ([]domain.HistoryEntry, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates the repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

const reportColumns = `id, title, description, category, location_floor, location_room,
               reported_by, reporter_name, status, assigned_to, technician_name, version,
               created_at, updated_at, assigned_at, resolved_at, unresolved_at`

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	if report.Status != domain.ReportStatusPending {
		return apperrors.NewValidationError("new reports must have pending status",
			map[string]any{"status": report.Status})
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO reports (title, description, category, location_floor, location_room,
            reported_by, reporter_name, status, version, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id`
	if err := tx.QueryRow(ctx, query,
		report.Title,
		report.Description,
		report.Category,
		report.Location.Floor,
		report.Location.Room,
		report.ReportedBy,
		report.ReporterName,
		report.Status,
		report.Version,
		report.CreatedAt,
		report.UpdatedAt,
	).Scan(&report.ID); err != nil {
		return err
	}

	for i := range report.History {
		if err := insertHistory(ctx, tx, report.ID, &report.History[i]); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	query := fmt.Sprintf(`SELECT %s FROM reports WHERE id=$1`, reportColumns)
	report, err := scanReport(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("report", map[string]any{"report_id": id})
		}
		return nil, err
	}
	history, err := r.ListHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	report.History = history
	return report, nil
}

func (r *reportRepository) List(ctx context.Context, scope ReportScope) ([]domain.Report, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM reports`, reportColumns)
	args := []any{}
	switch scope.Kind {
	case ScopeByReporter:
		args = append(args, scope.UserID)
		query += " WHERE reported_by=$1"
	case ScopeByAssignee:
		args = append(args, scope.UserID)
		query += " WHERE assigned_to=$1"
	}
	query += " ORDER BY updated_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *report)
	}
	return result, rows.Err()
}

func (r *reportRepository) Update(ctx context.Context, report *domain.Report, expectedVersion int64, newEntries []domain.HistoryEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        UPDATE reports SET status=$1, assigned_to=$2, technician_name=$3, version=$4,
            updated_at=$5, assigned_at=$6, resolved_at=$7, unresolved_at=$8
        WHERE id=$9 AND version=$10`
	cmd, err := tx.Exec(ctx, query,
		report.Status,
		report.AssignedTo,
		report.TechnicianName,
		report.Version,
		report.UpdatedAt,
		report.AssignedAt,
		report.ResolvedAt,
		report.UnresolvedAt,
		report.ID,
		expectedVersion,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var current int64
		err := tx.QueryRow(ctx, `SELECT version FROM reports WHERE id=$1`, report.ID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("report", map[string]any{"report_id": report.ID})
		}
		if err != nil {
			return err
		}
		return apperrors.NewConflict("report was modified concurrently",
			map[string]any{"expected_version": expectedVersion, "current_version": current})
	}

	for i := range newEntries {
		if err := insertHistory(ctx, tx, report.ID, &newEntries[i]); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *reportRepository) ListHistory(ctx context.Context, reportID string) ([]domain.HistoryEntry, error) {
	const query = `
        SELECT id, status, action, comment, updated_by, updated_by_name, created_at
        FROM report_history WHERE report_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Status,
			&entry.Action,
			&entry.Comment,
			&entry.UpdatedBy,
			&entry.UpdatedByName,
			&entry.Timestamp,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func insertHistory(ctx context.Context, tx pgx.Tx, reportID string, entry *domain.HistoryEntry) error {
	const query = `
        INSERT INTO report_history (report_id, status, action, comment, updated_by, updated_by_name, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id`
	return tx.QueryRow(ctx, query,
		reportID,
		entry.Status,
		entry.Action,
		entry.Comment,
		entry.UpdatedBy,
		entry.UpdatedByName,
		entry.Timestamp,
	).Scan(&entry.ID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*domain.Report, error) {
	var report domain.Report
	if err := row.Scan(
		&report.ID,
		&report.Title,
		&report.Description,
		&report.Category,
		&report.Location.Floor,
		&report.Location.Room,
		&report.ReportedBy,
		&report.ReporterName,
		&report.Status,
		&report.AssignedTo,
		&report.TechnicianName,
		&report.Version,
		&report.CreatedAt,
		&report.UpdatedAt,
		&report.AssignedAt,
		&report.ResolvedAt,
		&report.UnresolvedAt,
	); err != nil {
		return nil, err
	}
	return &report, nil
}
