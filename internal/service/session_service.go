package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"accidata/internal/catalog"
	"accidata/internal/domain"
	"accidata/internal/repository"
)

var ErrSessionNotFound = errors.New("session not found")

const sessionTTL = 24 * time.Hour

// SessionService creates questionnaire sessions and keeps one live engine
// per session. The Postgres row is best-effort: a failed insert is logged
// and the session proceeds locally.
type SessionService struct {
	sessions repository.SessionRepository
	catalog  *catalog.Catalog
	recorder AnswerRecorder
	logger   *zap.Logger

	mu      sync.Mutex
	engines map[string]*sessionEntry
}

type sessionEntry struct {
	session domain.Session
	engine  *Engine
}

func NewSessionService(sessions repository.SessionRepository, cat *catalog.Catalog, recorder AnswerRecorder, logger *zap.Logger) *SessionService {
	return &SessionService{
		sessions: sessions,
		catalog:  cat,
		recorder: recorder,
		logger:   logger,
		engines:  make(map[string]*sessionEntry),
	}
}

// Create opens a new session: opaque id and token, engine at question zero.
func (s *SessionService) Create(ctx context.Context) (domain.Session, *Engine) {
	session := domain.Session{
		ID:        uuid.NewString(),
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().UTC().Add(sessionTTL),
		CreatedAt: time.Now().UTC(),
	}

	if s.sessions != nil {
		if err := s.sessions.Create(ctx, session); err != nil {
			s.logger.Warn("session row insert failed, continuing locally",
				zap.String("session_id", session.ID),
				zap.Error(err),
			)
		}
	}

	engine := NewEngine(s.catalog, session.ID, s.recorder)

	s.mu.Lock()
	s.engines[session.ID] = &sessionEntry{session: session, engine: engine}
	s.mu.Unlock()

	return session, engine
}

// Engine returns the live engine for a session, dropping expired entries on
// the way.
func (s *SessionService) Engine(sessionID string) (*Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.engines[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if time.Now().UTC().After(entry.session.ExpiresAt) {
		delete(s.engines, sessionID)
		return nil, ErrSessionNotFound
	}
	return entry.engine, nil
}

// Session returns the session metadata for a live session.
func (s *SessionService) Session(sessionID string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.engines[sessionID]
	if !ok {
		return domain.Session{}, ErrSessionNotFound
	}
	return entry.session, nil
}

// Restart resets the session's engine back to the first question.
func (s *SessionService) Restart(sessionID string) error {
	engine, err := s.Engine(sessionID)
	if err != nil {
		return err
	}
	engine.Start()
	return nil
}
