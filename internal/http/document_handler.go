package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"accidata/internal/service"
)

// DocumentHandler owns attachment upload and listing.
type DocumentHandler struct {
	logger      *zap.Logger
	sessionSvc  *service.SessionService
	attachments *service.AttachmentService
}

func NewDocumentHandler(logger *zap.Logger, sessionSvc *service.SessionService, attachments *service.AttachmentService) *DocumentHandler {
	return &DocumentHandler{
		logger:      logger,
		sessionSvc:  sessionSvc,
		attachments: attachments,
	}
}

// UploadDocument handles POST /session/:id/documents (multipart). The upload
// is tagged with the engine's current question; it never moves the engine.
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	sessionID := c.Param("id")
	engine, err := h.sessionSvc.Engine(sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h.logger.Error("session lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	questionID := 0
	if q, err := engine.CurrentQuestion(); err == nil {
		questionID = q.ID
	}
	if raw := c.PostForm("question_id"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			questionID = id
		}
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.attachments.Validate(fileHeader.Filename, contentType, fileHeader.Size); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("open uploaded file failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read file"})
		return
	}
	defer file.Close()

	record, err := h.attachments.Upload(c.Request.Context(), sessionID, questionID, fileHeader.Filename, contentType, file, fileHeader.Size, nil)
	if err != nil {
		h.logger.Error("upload document failed",
			zap.String("session_id", sessionID),
			zap.String("filename", fileHeader.Filename),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not upload document"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"document": record})
}

// ListDocuments handles GET /session/:id/documents.
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	records, err := h.attachments.SessionDocuments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("list documents failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list documents"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": records})
}
