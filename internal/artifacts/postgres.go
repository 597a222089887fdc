package artifacts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"collateral-pipeline/internal/models"
)

// PostgresSink upserts one row per artifact in a single transaction.
type PostgresSink struct {
	db    *sql.DB
	table string
}

func NewPostgresSink(db *sql.DB, table string) *PostgresSink {
	return &PostgresSink{db: db, table: pq.QuoteIdentifier(table)}
}

func (s *PostgresSink) Name() string { return SinkPostgres }

// EnsureTable creates the artifact table when missing.
func (s *PostgresSink) EnsureTable(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		run_id     TEXT        NOT NULL,
		name       TEXT        NOT NULL,
		body       JSONB       NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (run_id, name)
	)`, s.table)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresSink) Write(ctx context.Context, run models.RunArtifacts) error {
	docs, err := Encode(run)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(
		`INSERT INTO %s (run_id, name, body) VALUES ($1, $2, $3)
		ON CONFLICT (run_id, name) DO UPDATE SET body = EXCLUDED.body`, s.table)

	for _, doc := range docs {
		if _, err := tx.ExecContext(ctx, query, run.RunID, doc.Name, string(doc.Body)); err != nil {
			return fmt.Errorf("insert %s: %w", doc.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
