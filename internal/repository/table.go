package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool the repository needs
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type TableRepository interface {
	EnsureSchema(ctx context.Context) error
	SaveDocumentTable(ctx context.Context, document string, rows [][]string) error
}

type tableRepository struct {
	db DBTX
}

func NewTableRepository(db DBTX) TableRepository {
	return &tableRepository{
		db: db,
	}
}

func (r *tableRepository) EnsureSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS document_tables (
		document   TEXT PRIMARY KEY,
		row_count  INTEGER NOT NULL,
		rows       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create document_tables: %w", err)
	}
	return nil
}

// SaveDocumentTable stores the rows of one document, replacing any previous
// conversion of the same document.
func (r *tableRepository) SaveDocumentTable(ctx context.Context, document string, rows [][]string) error {
	if rows == nil {
		rows = [][]string{}
	}

	query := `
	INSERT INTO document_tables (document, row_count, rows) 
	VALUES ($1, $2, $3) 
	ON CONFLICT (document) 
	DO UPDATE SET row_count = $2, rows = $3, updated_at = now()`
	_, err := r.db.Exec(ctx, query, document, len(rows), rows)
	if err != nil {
		return fmt.Errorf("failed to save table for %s: %w", document, err)
	}

	return nil
}
