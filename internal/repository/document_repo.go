package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"accidata/internal/domain"
)

type DocumentRepository interface {
	Insert(ctx context.Context, record domain.AttachmentRecord) error
	ListBySessionID(ctx context.Context, sessionID string) ([]domain.AttachmentRecord, error)
}

type PgDocumentRepository struct {
	pool *pgxpool.Pool
}

func NewPgDocumentRepository(pool *pgxpool.Pool) *PgDocumentRepository {
	return &PgDocumentRepository{pool: pool}
}

func (r *PgDocumentRepository) Insert(ctx context.Context, record domain.AttachmentRecord) error {
	const query = `
		INSERT INTO documents (session_id, filename, file_url, file_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		record.SessionID,
		record.FileName,
		record.URL,
		record.FileType,
		record.CreatedAt,
	)
	return err
}

func (r *PgDocumentRepository) ListBySessionID(ctx context.Context, sessionID string) ([]domain.AttachmentRecord, error) {
	const query = `
		SELECT session_id, filename, file_url, file_type, created_at
		FROM documents
		WHERE session_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.AttachmentRecord
	for rows.Next() {
		var rec domain.AttachmentRecord
		err = rows.Scan(
			&rec.SessionID,
			&rec.FileName,
			&rec.URL,
			&rec.FileType,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
