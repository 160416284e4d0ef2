package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"accidata/internal/service"
)

// NewRouter configures the gin router with middlewares and routes.
func NewRouter(
	logger *zap.Logger,
	sessionH *SessionHandler,
	questionnaireH *QuestionnaireHandler,
	documentH *DocumentHandler,
	voiceH *VoiceHandler,
	tokenSvc *service.TokenService,
) *gin.Engine {
	r := gin.New()

	// Basic middlewares: logging, recovery and JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/questions", questionnaireH.ListQuestions)
	r.POST("/session", sessionH.CreateSession)

	session := r.Group("/session/:id")
	session.Use(SessionAuthMiddleware(tokenSvc))
	session.POST("/restart", sessionH.RestartSession)
	session.GET("/state", questionnaireH.GetState)
	session.GET("/question", questionnaireH.GetCurrentQuestion)
	session.POST("/answer", questionnaireH.PostAnswer)
	session.POST("/advance", questionnaireH.Advance)
	session.POST("/retreat", questionnaireH.Retreat)
	session.GET("/responses", questionnaireH.ListLocalResponses)
	session.DELETE("/responses", questionnaireH.ClearLocalResponses)
	session.GET("/history", questionnaireH.ListHistory)
	session.POST("/documents", documentH.UploadDocument)
	session.GET("/documents", documentH.ListDocuments)
	session.POST("/summary", sessionH.SendSummary)
	session.GET("/voice", voiceH.Stream)

	return r
}

// zapLoggerMiddleware is a simple request-logging middleware.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware forces Content-Type: application/json on responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
