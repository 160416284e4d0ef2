package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"accidata/internal/domain"
)

type ResponseRepository interface {
	Insert(ctx context.Context, record domain.ResponseRecord) error
	ListBySessionID(ctx context.Context, sessionID string) ([]domain.ResponseRecord, error)
}

type PgResponseRepository struct {
	pool *pgxpool.Pool
}

func NewPgResponseRepository(pool *pgxpool.Pool) *PgResponseRepository {
	return &PgResponseRepository{pool: pool}
}

func (r *PgResponseRepository) Insert(ctx context.Context, record domain.ResponseRecord) error {
	const query = `
		INSERT INTO user_responses (id, session_id, question_id, question, answer, category, response_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.SessionID,
		record.QuestionID,
		record.Question,
		record.Answer,
		record.Category,
		string(record.Modality),
		record.CreatedAt,
	)
	return err
}

func (r *PgResponseRepository) ListBySessionID(ctx context.Context, sessionID string) ([]domain.ResponseRecord, error) {
	const query = `
		SELECT id, session_id, question_id, question, answer, category, response_type, created_at
		FROM user_responses
		WHERE session_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ResponseRecord
	for rows.Next() {
		var rec domain.ResponseRecord
		var modality string
		err = rows.Scan(
			&rec.ID,
			&rec.SessionID,
			&rec.QuestionID,
			&rec.Question,
			&rec.Answer,
			&rec.Category,
			&modality,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		rec.Modality = domain.Modality(modality)
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
