package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"accidata/internal/catalog"
	"accidata/internal/domain"
	"accidata/internal/service"
)

// QuestionnaireHandler exposes the question flow over HTTP.
type QuestionnaireHandler struct {
	logger      *zap.Logger
	catalog     *catalog.Catalog
	sessionSvc  *service.SessionService
	responseSvc *service.ResponseService
	capture     service.TextCapture
}

func NewQuestionnaireHandler(
	logger *zap.Logger,
	cat *catalog.Catalog,
	sessionSvc *service.SessionService,
	responseSvc *service.ResponseService,
) *QuestionnaireHandler {
	return &QuestionnaireHandler{
		logger:      logger,
		catalog:     cat,
		sessionSvc:  sessionSvc,
		responseSvc: responseSvc,
	}
}

// ListQuestions handles GET /questions.
func (h *QuestionnaireHandler) ListQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.catalog.GroupByCategory()})
}

// GetState handles GET /session/:id/state.
func (h *QuestionnaireHandler) GetState(c *gin.Context) {
	engine, err := h.sessionSvc.Engine(c.Param("id"))
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":           engine.Snapshot(),
		"remote_failures": h.responseSvc.RemoteFailures(),
	})
}

// GetCurrentQuestion handles GET /session/:id/question.
func (h *QuestionnaireHandler) GetCurrentQuestion(c *gin.Context) {
	engine, err := h.sessionSvc.Engine(c.Param("id"))
	if err != nil {
		h.respondSessionError(c, err)
		return
	}

	question, err := engine.CurrentQuestion()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "questionnaire already complete"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"question":   question,
		"has_answer": engine.HasAnswer(question.ID),
	})
}

// PostAnswer handles POST /session/:id/answer. The position does not move;
// callers advance explicitly once they hold a non-empty answer.
func (h *QuestionnaireHandler) PostAnswer(c *gin.Context) {
	var req struct {
		QuestionID int    `json:"question_id" binding:"required"`
		Answer     string `json:"answer" binding:"required"`
		Modality   string `json:"modality" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid answer request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	modality, err := domain.ParseModality(req.Modality)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "modality must be chat or voice"})
		return
	}

	answer, ok := h.capture.Normalize(req.Answer)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "answer is empty"})
		return
	}

	engine, err := h.sessionSvc.Engine(c.Param("id"))
	if err != nil {
		h.respondSessionError(c, err)
		return
	}

	if err := engine.RecordAnswer(c.Request.Context(), req.QuestionID, answer, modality); err != nil {
		switch {
		case errors.Is(err, service.ErrQuestionnaireComplete):
			c.JSON(http.StatusConflict, gin.H{"error": "questionnaire already complete"})
		case errors.Is(err, service.ErrNotCurrentQuestion):
			c.JSON(http.StatusConflict, gin.H{"error": "answer must target the current question"})
		default:
			h.logger.Error("record answer failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record answer"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"has_answer": engine.HasAnswer(req.QuestionID),
		"state":      engine.Snapshot(),
	})
}

// Advance handles POST /session/:id/advance.
func (h *QuestionnaireHandler) Advance(c *gin.Context) {
	engine, err := h.sessionSvc.Engine(c.Param("id"))
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	complete := engine.Advance()
	c.JSON(http.StatusOK, gin.H{"complete": complete, "state": engine.Snapshot()})
}

// Retreat handles POST /session/:id/retreat.
func (h *QuestionnaireHandler) Retreat(c *gin.Context) {
	engine, err := h.sessionSvc.Engine(c.Param("id"))
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	engine.Retreat()
	c.JSON(http.StatusOK, gin.H{"state": engine.Snapshot()})
}

// ListLocalResponses handles GET /session/:id/responses?modality=chat|voice.
func (h *QuestionnaireHandler) ListLocalResponses(c *gin.Context) {
	modality, err := domain.ParseModality(c.Query("modality"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "modality must be chat or voice"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"responses": h.responseSvc.LocalResponses(modality)})
}

// ClearLocalResponses handles DELETE /session/:id/responses?modality=.
func (h *QuestionnaireHandler) ClearLocalResponses(c *gin.Context) {
	modality, err := domain.ParseModality(c.Query("modality"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "modality must be chat or voice"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": h.responseSvc.ClearLocal(modality)})
}

// ListHistory handles GET /session/:id/history: the mirrored Postgres rows.
func (h *QuestionnaireHandler) ListHistory(c *gin.Context) {
	records, err := h.responseSvc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("list history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"responses": records})
}

func (h *QuestionnaireHandler) respondSessionError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	h.logger.Error("session lookup failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
