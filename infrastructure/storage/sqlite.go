package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/hireloop/interview-engine/internal/domain"
	"github.com/hireloop/interview-engine/internal/ports"
)

var _ ports.InterviewRepository = (*SQLiteRepository)(nil)

// schema stores the interview aggregate as a JSON document keyed by id.
// The record is always read and written whole, matching the engine's
// read-modify-write cycle, so a document column beats a normalized layout
// here.
const schema = `
CREATE TABLE IF NOT EXISTS interviews (
	id TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	document TEXT NOT NULL,
	updated_at INTEGER NOT NULL DEFAULT (unixepoch())
);
CREATE INDEX IF NOT EXISTS idx_interviews_status ON interviews(status);
`

// SQLiteRepository persists interview records in a SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the database at dsn and ensures
// the schema exists. Use ":memory:" for an ephemeral database.
func NewSQLiteRepository(ctx context.Context, dsn string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Close releases the underlying database connection.
func (r *SQLiteRepository) Close() error { return r.db.Close() }

// Load fetches and decodes the interview document, or returns
// ports.ErrInterviewNotFound.
func (r *SQLiteRepository) Load(ctx context.Context, id string) (*domain.Interview, error) {
	var document string
	err := r.db.QueryRowContext(ctx,
		`SELECT document FROM interviews WHERE id = ?`, id,
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrInterviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query interview %s: %w", id, err)
	}

	var iv domain.Interview
	if err := json.Unmarshal([]byte(document), &iv); err != nil {
		return nil, fmt.Errorf("decode interview %s: %w", id, err)
	}
	return &iv, nil
}

// Save upserts the interview document. The write replaces the whole
// record, so the next load observes exactly this state.
func (r *SQLiteRepository) Save(ctx context.Context, iv *domain.Interview) error {
	document, err := json.Marshal(iv)
	if err != nil {
		return fmt.Errorf("encode interview %s: %w", iv.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO interviews(id, status, document, updated_at)
		VALUES(?, ?, ?, unixepoch())
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			document = excluded.document,
			updated_at = excluded.updated_at`,
		iv.ID, string(iv.Status), string(document),
	)
	if err != nil {
		return fmt.Errorf("save interview %s: %w", iv.ID, err)
	}
	return nil
}

// ListByStatus returns the ids of interviews in the given status, most
// recently updated first.
func (r *SQLiteRepository) ListByStatus(ctx context.Context, status domain.InterviewStatus) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM interviews WHERE status = ? ORDER BY updated_at DESC`, string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("list interviews by status %s: %w", status, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan interview id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
