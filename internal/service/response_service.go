package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"accidata/internal/domain"
	"accidata/internal/repository"
)

// ResponseService persists answers local-first and mirrors them into the
// user_responses table best-effort. A remote failure never blocks the flow;
// it is logged and counted so the state endpoint can surface it.
type ResponseService struct {
	store          ResponseStore
	responses      repository.ResponseRepository
	logger         *zap.Logger
	remoteFailures atomic.Int64
}

func NewResponseService(store ResponseStore, responses repository.ResponseRepository, logger *zap.Logger) *ResponseService {
	return &ResponseService{
		store:     store,
		responses: responses,
		logger:    logger,
	}
}

// Record appends the answer to the local store and attempts one remote
// insert. Fire and forget on the remote side: no retry, no queue.
func (s *ResponseService) Record(ctx context.Context, record domain.ResponseRecord) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if s.store != nil {
		ok := s.store.Append(record.Modality, domain.StoredResponse{
			Question:  record.Question,
			Answer:    record.Answer,
			Timestamp: record.CreatedAt.UnixMilli(),
		})
		if !ok {
			s.logger.Warn("local response store append failed",
				zap.String("session_id", record.SessionID),
				zap.Int("question_id", record.QuestionID),
			)
		}
	}

	if s.responses == nil {
		return
	}
	if err := s.responses.Insert(ctx, record); err != nil {
		s.remoteFailures.Add(1)
		s.logger.Warn("remote response insert failed",
			zap.String("session_id", record.SessionID),
			zap.Int("question_id", record.QuestionID),
			zap.Error(err),
		)
	}
}

// RemoteFailures reports how many mirror inserts have failed since start.
func (s *ResponseService) RemoteFailures() int64 {
	return s.remoteFailures.Load()
}

// LocalResponses returns the locally stored list for a modality.
func (s *ResponseService) LocalResponses(modality domain.Modality) []domain.StoredResponse {
	if s.store == nil {
		return nil
	}
	return s.store.ReadAll(modality)
}

// ClearLocal drops the local list for a modality.
func (s *ResponseService) ClearLocal(modality domain.Modality) bool {
	if s.store == nil {
		return false
	}
	return s.store.Clear(modality)
}

// History reads the mirrored rows for a session from Postgres.
func (s *ResponseService) History(ctx context.Context, sessionID string) ([]domain.ResponseRecord, error) {
	if s.responses == nil {
		return nil, nil
	}
	return s.responses.ListBySessionID(ctx, sessionID)
}
