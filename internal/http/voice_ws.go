package http

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"accidata/internal/domain"
	"accidata/internal/service"
)

// VoiceHandler streams a voice questionnaire pass over a websocket. The
// browser does the actual speech work and relays events; the server runs the
// capture state machine and the engine.
type VoiceHandler struct {
	logger     *zap.Logger
	sessionSvc *service.SessionService
	cfg        service.VoiceConfig
	upgrader   websocket.Upgrader
}

func NewVoiceHandler(logger *zap.Logger, sessionSvc *service.SessionService, cfg service.VoiceConfig) *VoiceHandler {
	return &VoiceHandler{
		logger:     logger,
		sessionSvc: sessionSvc,
		cfg:        cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// voiceMessage is a client-to-server event.
type voiceMessage struct {
	Type        string `json:"type"`
	Text        string `json:"text,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Aborted     bool   `json:"aborted,omitempty"`
	Enabled     *bool  `json:"enabled,omitempty"`
	Recognition *bool  `json:"recognition,omitempty"`
}

// voiceEvent is a server-to-client command or notification.
type voiceEvent struct {
	Type       string               `json:"type"`
	Text       string               `json:"text,omitempty"`
	Level      string               `json:"level,omitempty"`
	Message    string               `json:"message,omitempty"`
	QuestionID int                  `json:"question_id,omitempty"`
	Answer     string               `json:"answer,omitempty"`
	Complete   bool                 `json:"complete,omitempty"`
	Question   *domain.Question     `json:"question,omitempty"`
	State      *service.EngineState `json:"state,omitempty"`
}

// Stream handles GET /session/:id/voice.
func (h *VoiceHandler) Stream(c *gin.Context) {
	engine, err := h.sessionSvc.Engine(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h.logger.Error("session lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()

	conn := &voiceConn{ws: ws, logger: h.logger}
	voice := service.NewVoiceSession(engine, conn, conn, conn, h.cfg, h.logger)
	defer voice.Close()

	voice.SetOnFinal(func(question domain.Question, answer string, complete bool) {
		conn.send(voiceEvent{Type: "answer", QuestionID: question.ID, Answer: answer, Complete: complete})
		if complete {
			state := engine.Snapshot()
			conn.send(voiceEvent{Type: "state", State: &state})
			conn.send(voiceEvent{Type: "notice", Level: "info", Message: "Accident report complete. Thank you."})
		}
	})

	h.readLoop(conn, voice, engine)
}

func (h *VoiceHandler) readLoop(conn *voiceConn, voice *service.VoiceSession, engine *service.Engine) {
	recognitionAvailable := true
	for {
		var msg voiceMessage
		if err := conn.ws.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("voice websocket read", zap.Error(err))
			}
			return
		}

		switch msg.Type {
		case "capabilities":
			if msg.Recognition != nil && !*msg.Recognition {
				recognitionAvailable = false
				voice.SetAutoMode(false)
				conn.send(voiceEvent{Type: "notice", Level: "warning",
					Message: "Speech recognition is not available in this browser. Please continue with text input."})
			}
		case "start":
			if question, err := engine.CurrentQuestion(); err == nil {
				conn.send(voiceEvent{Type: "question", Question: &question})
			}
			if err := voice.SpeakQuestion(); err != nil && errors.Is(err, service.ErrQuestionnaireComplete) {
				conn.send(voiceEvent{Type: "notice", Level: "info", Message: "This report is already complete."})
			}
		case "listen":
			if !recognitionAvailable {
				conn.send(voiceEvent{Type: "notice", Level: "warning", Message: "Speech recognition is unavailable."})
				continue
			}
			if err := voice.StartListening(); err != nil {
				h.logger.Warn("start listening failed", zap.Error(err))
			}
		case "stop":
			voice.StopListening()
		case "transcript":
			voice.OnTranscript(msg.Text)
		case "speech_end":
			conn.speechEnded()
		case "recognition_error":
			voice.OnRecognitionError(msg.Reason, msg.Aborted)
		case "recognition_end":
			voice.OnRecognitionEnd()
		case "auto":
			if msg.Enabled != nil {
				voice.SetAutoMode(*msg.Enabled && recognitionAvailable)
			}
		case "advance":
			complete := engine.Advance()
			state := engine.Snapshot()
			conn.send(voiceEvent{Type: "state", State: &state})
			if !complete {
				if question, err := engine.CurrentQuestion(); err == nil {
					conn.send(voiceEvent{Type: "question", Question: &question})
				}
			}
		case "retreat":
			engine.Retreat()
			state := engine.Snapshot()
			conn.send(voiceEvent{Type: "state", State: &state})
			if question, err := engine.CurrentQuestion(); err == nil {
				conn.send(voiceEvent{Type: "question", Question: &question})
			}
		default:
			h.logger.Debug("unknown voice message", zap.String("type", msg.Type))
		}
	}
}

// voiceConn adapts the websocket into the capture's Speaker, Recognizer and
// Notifier. Writes are serialized behind a mutex; gorilla allows a single
// concurrent writer.
type voiceConn struct {
	ws     *websocket.Conn
	logger *zap.Logger

	writeMu sync.Mutex

	speechMu      sync.Mutex
	pendingSpeech func()
}

func (c *voiceConn) send(event voiceEvent) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.WriteJSON(event); err != nil {
		c.logger.Debug("voice websocket write", zap.Error(err))
	}
}

// Speak asks the client to synthesize the text. done fires when the client
// reports speech_end, unless Cancel runs first.
func (c *voiceConn) Speak(text string, done func()) error {
	c.speechMu.Lock()
	c.pendingSpeech = done
	c.speechMu.Unlock()
	c.send(voiceEvent{Type: "speak", Text: text})
	return nil
}

// Cancel suppresses the pending done callback and tells the client to stop
// playback.
func (c *voiceConn) Cancel() {
	c.speechMu.Lock()
	c.pendingSpeech = nil
	c.speechMu.Unlock()
	c.send(voiceEvent{Type: "speak_cancel"})
}

func (c *voiceConn) speechEnded() {
	c.speechMu.Lock()
	done := c.pendingSpeech
	c.pendingSpeech = nil
	c.speechMu.Unlock()
	if done != nil {
		done()
	}
}

func (c *voiceConn) Start() error {
	c.send(voiceEvent{Type: "listen_start"})
	return nil
}

func (c *voiceConn) Stop() error {
	c.send(voiceEvent{Type: "listen_stop"})
	return nil
}

func (c *voiceConn) Abort() error {
	c.send(voiceEvent{Type: "listen_abort"})
	return nil
}

func (c *voiceConn) Notify(level, message string) {
	c.send(voiceEvent{Type: "notice", Level: level, Message: message})
}
