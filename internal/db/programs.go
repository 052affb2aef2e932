package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/degree-tracker/internal/types"
)

// SaveProgram upserts a program by ID.
func (db *DB) SaveProgram(ctx context.Context, p types.Program) error {
	content, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal program: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO programs (id, name, program_type, source_url, content)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
		   name = $2, program_type = $3, source_url = $4, content = $5, updated_at = NOW()`,
		p.ID, p.Name, string(p.Type), p.SourceURL, content,
	)
	if err != nil {
		return fmt.Errorf("failed to save program %s: %w", p.ID, err)
	}
	return nil
}

// ListPrograms returns stored programs oldest first, so reloading them
// preserves import order.
func (db *DB) ListPrograms(ctx context.Context) ([]types.Program, error) {
	rows, err := db.pool.Query(ctx, `SELECT content FROM programs ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	defer rows.Close()

	var programs []types.Program
	for rows.Next() {
		var content []byte
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("failed to scan program: %w", err)
		}
		var p types.Program
		if err := json.Unmarshal(content, &p); err != nil {
			return nil, fmt.Errorf("failed to decode stored program: %w", err)
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

// DeleteProgram deletes a stored program
func (db *DB) DeleteProgram(ctx context.Context, id string) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM programs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete program: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: program %s", ErrNotFound, id)
	}
	return nil
}
