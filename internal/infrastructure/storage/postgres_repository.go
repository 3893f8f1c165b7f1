// Package storage persists terminal run snapshots.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
)

// PostgresRepository persists run snapshots into Postgres.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.SnapshotStore = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Save upserts the terminal snapshot keyed by run id. The data bag is stored
// as JSONB and the error trail as a text array.
func (r *PostgresRepository) Save(ctx context.Context, snapshot domain.RunSnapshot) error {
	if r.db == nil {
		return nil
	}

	data, err := json.Marshal(snapshot.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}

	query, args, err := r.builder.
		Insert("run_snapshots").
		Columns("run_id", "stage", "progress", "data", "errors").
		Values(snapshot.RunID, string(snapshot.Stage), snapshot.Progress, data, pq.Array(snapshot.Errors)).
		Suffix(`ON CONFLICT (run_id) DO UPDATE
	            SET stage = EXCLUDED.stage,
	                progress = EXCLUDED.progress,
	                data = EXCLUDED.data,
	                errors = EXCLUDED.errors,
	                updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// Load reads a previously saved snapshot by run id.
func (r *PostgresRepository) Load(ctx context.Context, runID string) (domain.RunSnapshot, error) {
	if r.db == nil {
		return domain.RunSnapshot{}, sql.ErrNoRows
	}

	query, args, err := r.builder.
		Select("run_id", "stage", "progress", "data", "errors").
		From("run_snapshots").
		Where(sq.Eq{"run_id": runID}).
		ToSql()
	if err != nil {
		return domain.RunSnapshot{}, fmt.Errorf("build select: %w", err)
	}

	var snapshot domain.RunSnapshot
	var data []byte
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&snapshot.RunID, &snapshot.Stage, &snapshot.Progress, &data, pq.Array(&snapshot.Errors)); err != nil {
		return domain.RunSnapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}

	if err := json.Unmarshal(data, &snapshot.Data); err != nil {
		return domain.RunSnapshot{}, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	return snapshot, nil
}
