package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"accidata/internal/service"
)

// SessionHandler owns session lifecycle endpoints.
type SessionHandler struct {
	logger      *zap.Logger
	sessionSvc  *service.SessionService
	tokenSvc    *service.TokenService
	reportSvc   *service.ReportService
	attachments *service.AttachmentService
}

func NewSessionHandler(
	logger *zap.Logger,
	sessionSvc *service.SessionService,
	tokenSvc *service.TokenService,
	reportSvc *service.ReportService,
	attachments *service.AttachmentService,
) *SessionHandler {
	return &SessionHandler{
		logger:      logger,
		sessionSvc:  sessionSvc,
		tokenSvc:    tokenSvc,
		reportSvc:   reportSvc,
		attachments: attachments,
	}
}

// CreateSession handles POST /session.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	session, engine := h.sessionSvc.Create(c.Request.Context())

	accessToken := ""
	if h.tokenSvc != nil {
		token, err := h.tokenSvc.GenerateAccessToken(session)
		if err != nil {
			h.logger.Error("generate session token failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
			return
		}
		accessToken = token
	}

	c.JSON(http.StatusCreated, gin.H{
		"session":      session,
		"access_token": accessToken,
		"state":        engine.Snapshot(),
	})
}

// RestartSession handles POST /session/:id/restart.
func (h *SessionHandler) RestartSession(c *gin.Context) {
	sessionID := c.Param("id")
	if err := h.sessionSvc.Restart(sessionID); err != nil {
		h.respondSessionError(c, err)
		return
	}

	engine, err := h.sessionSvc.Engine(sessionID)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": engine.Snapshot()})
}

// SendSummary handles POST /session/:id/summary.
func (h *SessionHandler) SendSummary(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid summary request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sessionID := c.Param("id")
	engine, err := h.sessionSvc.Engine(sessionID)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}

	summary := h.reportSvc.BuildSummary(engine.Catalog(), engine.Answers(), h.attachments.Attachments(sessionID))
	if err := h.reportSvc.SendSummary(c.Request.Context(), req.Email, sessionID, summary); err != nil {
		if errors.Is(err, service.ErrReportInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to summarize yet"})
			return
		}
		h.logger.Error("send summary failed", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not send summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent": true})
}

func (h *SessionHandler) respondSessionError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	h.logger.Error("session lookup failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
