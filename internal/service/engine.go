package service

import (
	"context"
	"errors"
	"sync"

	"accidata/internal/catalog"
	"accidata/internal/domain"
)

var (
	ErrQuestionnaireComplete = errors.New("questionnaire complete")
	ErrNotCurrentQuestion    = errors.New("answer does not target the current question")
)

// AnswerRecorder receives every recorded answer. Implementations persist
// best-effort and must not block the engine.
type AnswerRecorder interface {
	Record(ctx context.Context, record domain.ResponseRecord)
}

// EngineState is a read-only snapshot of the engine.
type EngineState struct {
	Position       int    `json:"position"`
	ActiveCategory string `json:"active_category"`
	Complete       bool   `json:"complete"`
	Answered       int    `json:"answered"`
	Total          int    `json:"total"`
}

// Engine is the question-sequencing state machine for one session. It owns
// the current position, the answers collected so far and the completion
// flag; every transition happens under its lock.
type Engine struct {
	mu        sync.Mutex
	catalog   *catalog.Catalog
	sessionID string
	recorder  AnswerRecorder

	position       int
	responses      map[int]string
	activeCategory string
	complete       bool
}

func NewEngine(cat *catalog.Catalog, sessionID string, recorder AnswerRecorder) *Engine {
	e := &Engine{
		catalog:   cat,
		sessionID: sessionID,
		recorder:  recorder,
	}
	e.Start()
	return e
}

// Start resets the engine to the first question. Also used for restart.
// An empty catalog completes immediately.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.position = 0
	e.responses = make(map[int]string)
	e.complete = e.catalog.Len() == 0
	e.activeCategory = ""
	if q, ok := e.catalog.At(0); ok {
		e.activeCategory = q.Category
	}
}

// CurrentQuestion returns the question at the current position.
func (e *Engine) CurrentQuestion() (domain.Question, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentLocked()
}

func (e *Engine) currentLocked() (domain.Question, error) {
	if e.complete {
		return domain.Question{}, ErrQuestionnaireComplete
	}
	q, ok := e.catalog.At(e.position)
	if !ok {
		return domain.Question{}, ErrQuestionnaireComplete
	}
	return q, nil
}

// RecordAnswer stores the answer for the current question and emits one
// record to the recorder. Re-answering the same question overwrites the
// in-memory answer; the stores keep the full append-only history. The
// position does not move.
func (e *Engine) RecordAnswer(ctx context.Context, questionID int, answer string, modality domain.Modality) error {
	e.mu.Lock()
	q, err := e.currentLocked()
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if q.ID != questionID {
		e.mu.Unlock()
		return ErrNotCurrentQuestion
	}
	e.responses[questionID] = answer
	recorder := e.recorder
	sessionID := e.sessionID
	e.mu.Unlock()

	if recorder != nil {
		recorder.Record(ctx, domain.ResponseRecord{
			SessionID:  sessionID,
			QuestionID: q.ID,
			Question:   q.Text,
			Answer:     answer,
			Category:   q.Category,
			Modality:   modality,
		})
	}
	return nil
}

// Advance moves to the next question, or marks the session complete past the
// last one. An answer at the current position is a caller contract, not
// enforced here.
func (e *Engine) Advance() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.complete {
		return true
	}
	if e.position+1 < e.catalog.Len() {
		e.position++
		if q, ok := e.catalog.At(e.position); ok {
			e.activeCategory = q.Category
		}
		return false
	}
	e.complete = true
	return true
}

// Retreat steps back one question. No-op at position zero or once complete.
func (e *Engine) Retreat() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.complete || e.position == 0 {
		return
	}
	e.position--
	if q, ok := e.catalog.At(e.position); ok {
		e.activeCategory = q.Category
	}
}

// HasAnswer reports whether a non-empty answer was recorded for the id.
func (e *Engine) HasAnswer(questionID int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.responses[questionID] != ""
}

// Answer returns the current in-memory answer for the id.
func (e *Engine) Answer(questionID int) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	answer, ok := e.responses[questionID]
	return answer, ok
}

// Answers returns a copy of the current answers keyed by question id.
func (e *Engine) Answers() map[int]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[int]string, len(e.responses))
	for id, answer := range e.responses {
		out[id] = answer
	}
	return out
}

// Snapshot returns the current engine state.
func (e *Engine) Snapshot() EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()

	answered := 0
	for _, answer := range e.responses {
		if answer != "" {
			answered++
		}
	}
	return EngineState{
		Position:       e.position,
		ActiveCategory: e.activeCategory,
		Complete:       e.complete,
		Answered:       answered,
		Total:          e.catalog.Len(),
	}
}

// Catalog exposes the engine's question list.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// SessionID returns the session this engine belongs to.
func (e *Engine) SessionID() string {
	return e.sessionID
}
