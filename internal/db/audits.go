package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// SaveAudit stores a finished audit and its JSON report, replacing any audit
// with the same ID.
func (db *DB) SaveAudit(ctx context.Context, run AuditRun, report any) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO audit_runs (id, strategy, status, fulfilled, total, percentage, report, created_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		 ON CONFLICT (id) DO UPDATE SET
		   strategy = $2, status = $3, fulfilled = $4, total = $5, percentage = $6,
		   report = $7, completed_at = NOW()`,
		run.ID, run.Strategy, run.Status, run.Fulfilled, run.Total, run.Percentage, reportJSON, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save audit %s: %w", run.ID, err)
	}
	return nil
}

// GetAuditReport returns the raw JSON report of an audit.
func (db *DB) GetAuditReport(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var report []byte
	err := db.pool.QueryRow(ctx, `SELECT report FROM audit_runs WHERE id = $1`, id).Scan(&report)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: audit %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get audit report: %w", err)
	}
	return report, nil
}

// ListAudits returns audits newest first.
func (db *DB) ListAudits(ctx context.Context, filters AuditFilters) ([]AuditRun, error) {
	query, args := auditListQuery(filters)
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audits: %w", err)
	}
	defer rows.Close()

	var runs []AuditRun
	for rows.Next() {
		var r AuditRun
		if err := rows.Scan(&r.ID, &r.Strategy, &r.Status, &r.Fulfilled, &r.Total, &r.Percentage, &r.CreatedAt, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// DeleteAudit deletes an audit
func (db *DB) DeleteAudit(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM audit_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete audit: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: audit %s", ErrNotFound, id)
	}
	return nil
}

// auditListQuery builds the list query and its positional arguments.
func auditListQuery(filters AuditFilters) (string, []any) {
	if filters.Limit <= 0 {
		filters.Limit = defaultListLimit
	}

	query := `SELECT id, strategy, status, fulfilled, total, percentage, created_at, completed_at
		FROM audit_runs WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Strategy != "" {
		query += fmt.Sprintf(" AND strategy = $%d", argNum)
		args = append(args, filters.Strategy)
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}
	if filters.MinPercentage > 0 {
		query += fmt.Sprintf(" AND percentage >= $%d", argNum)
		args = append(args, filters.MinPercentage)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)
	return query, args
}
