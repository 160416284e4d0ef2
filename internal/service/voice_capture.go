package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"accidata/internal/domain"
)

// VoicePhase is the capture track of a voice session. Listening and Speaking
// are mutually exclusive.
type VoicePhase int

const (
	PhaseIdle VoicePhase = iota
	PhaseListening
	PhaseSpeaking
)

// Recognizer controls a continuous, interim-results speech-recognition
// engine. Results come back through the session's On* methods, not through
// return values.
type Recognizer interface {
	Start() error
	Stop() error
	Abort() error
}

// Speaker plays a question aloud. done fires exactly once when playback
// finishes; Cancel suppresses a pending done.
type Speaker interface {
	Speak(text string, done func()) error
	Cancel()
}

// Notifier surfaces non-blocking user notices (the toast of the original UI).
type Notifier interface {
	Notify(level, message string)
}

// VoiceConfig carries the timing knobs of the voice capture.
type VoiceConfig struct {
	SilenceWindow time.Duration
	RetryBackoff  time.Duration
	AutoMode      bool
}

const (
	DefaultSilenceWindow = 2000 * time.Millisecond
	DefaultRetryBackoff  = 1000 * time.Millisecond
)

// VoiceSession drives one voice pass over the questionnaire: speak the
// question, listen for the answer, finalize on silence or manual stop. All
// event handlers re-check the current phase under the lock before acting,
// because recognition and synthesis callbacks arrive in no guaranteed order.
type VoiceSession struct {
	mu sync.Mutex

	engine     *Engine
	recognizer Recognizer
	speaker    Speaker
	notifier   Notifier
	logger     *zap.Logger
	cfg        VoiceConfig

	phase        VoicePhase
	transcript   string
	silenceTimer *time.Timer
	retryTimer   *time.Timer
	closed       bool

	// onFinal reports every finalized answer to the transport layer.
	onFinal func(question domain.Question, answer string, complete bool)
}

func NewVoiceSession(engine *Engine, recognizer Recognizer, speaker Speaker, notifier Notifier, cfg VoiceConfig, logger *zap.Logger) *VoiceSession {
	if cfg.SilenceWindow <= 0 {
		cfg.SilenceWindow = DefaultSilenceWindow
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}
	return &VoiceSession{
		engine:     engine,
		recognizer: recognizer,
		speaker:    speaker,
		notifier:   notifier,
		logger:     logger,
		cfg:        cfg,
	}
}

// SetOnFinal registers the finalized-answer callback. Call before starting.
func (v *VoiceSession) SetOnFinal(fn func(question domain.Question, answer string, complete bool)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onFinal = fn
}

// SetAutoMode toggles hands-free traversal.
func (v *VoiceSession) SetAutoMode(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cfg.AutoMode = enabled
}

// Phase returns the current capture phase.
func (v *VoiceSession) Phase() VoicePhase {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.phase
}

// Transcript returns the accumulated interim transcript.
func (v *VoiceSession) Transcript() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.transcript
}

// SpeakQuestion reads the current question aloud. Entering Speaking forcibly
// stops Listening; when auto mode is on, playback completion starts
// Listening again.
func (v *VoiceSession) SpeakQuestion() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	question, err := v.engine.CurrentQuestion()
	if err != nil {
		v.mu.Unlock()
		return err
	}
	if v.phase == PhaseListening {
		v.stopRecognizerLocked()
	}
	v.clearSilenceTimerLocked()
	v.transcript = ""
	v.phase = PhaseSpeaking
	speaker := v.speaker
	v.mu.Unlock()

	if speaker == nil {
		v.speechDone()
		return nil
	}
	if err := speaker.Speak(question.Text, v.speechDone); err != nil {
		v.mu.Lock()
		v.phase = PhaseIdle
		v.mu.Unlock()
		v.logger.Warn("question playback failed", zap.Int("question_id", question.ID), zap.Error(err))
		v.notify("error", "Could not read the question aloud.")
		return err
	}
	return nil
}

func (v *VoiceSession) speechDone() {
	v.mu.Lock()
	if v.closed || v.phase != PhaseSpeaking {
		v.mu.Unlock()
		return
	}
	v.phase = PhaseIdle
	auto := v.cfg.AutoMode
	v.mu.Unlock()

	if auto {
		v.StartListening()
	}
}

// StartListening opens the recognition session. Starting while already
// Listening is a no-op, so a double start never trips the underlying
// engine's "already started" fault.
func (v *VoiceSession) StartListening() error {
	v.mu.Lock()
	if v.closed || v.phase == PhaseListening {
		v.mu.Unlock()
		return nil
	}
	wasSpeaking := v.phase == PhaseSpeaking
	v.phase = PhaseListening
	v.transcript = ""
	recognizer := v.recognizer
	speaker := v.speaker
	v.mu.Unlock()

	if wasSpeaking && speaker != nil {
		speaker.Cancel()
	}
	if recognizer == nil {
		return nil
	}
	if err := recognizer.Start(); err != nil {
		v.mu.Lock()
		v.phase = PhaseIdle
		v.mu.Unlock()
		v.logger.Warn("recognition start failed", zap.Error(err))
		v.notify("error", "Could not start listening.")
		return err
	}
	return nil
}

// OnTranscript receives the cumulative transcript of the active recognition
// session. Every update restarts the silence countdown.
func (v *VoiceSession) OnTranscript(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || v.phase != PhaseListening {
		return
	}
	v.transcript = text
	v.clearSilenceTimerLocked()
	v.silenceTimer = time.AfterFunc(v.cfg.SilenceWindow, v.silenceElapsed)
}

// silenceElapsed fires when no transcript update arrived for a full quiet
// period. Only acts when still Listening and auto mode is on.
func (v *VoiceSession) silenceElapsed() {
	v.mu.Lock()
	if v.closed || v.phase != PhaseListening || !v.cfg.AutoMode {
		v.mu.Unlock()
		return
	}
	v.mu.Unlock()
	v.finalize(false)
}

// StopListening is the manual stop: it bypasses the silence timer and
// finalizes whatever transcript is present, falling back to the question's
// reference answer when blank. No-op while not Listening.
func (v *VoiceSession) StopListening() {
	v.mu.Lock()
	if v.closed || v.phase != PhaseListening {
		v.mu.Unlock()
		return
	}
	v.mu.Unlock()
	v.finalize(true)
}

func (v *VoiceSession) finalize(manual bool) {
	v.mu.Lock()
	if v.closed || v.phase != PhaseListening {
		v.mu.Unlock()
		return
	}
	v.clearSilenceTimerLocked()
	v.stopRecognizerLocked()
	v.phase = PhaseIdle
	answer := v.transcript
	v.transcript = ""
	auto := v.cfg.AutoMode
	onFinal := v.onFinal
	v.mu.Unlock()

	question, err := v.engine.CurrentQuestion()
	if err != nil {
		return
	}
	if answer == "" && manual {
		answer = question.ReferenceAnswer
	}

	if err := v.engine.RecordAnswer(context.Background(), question.ID, answer, domain.ModalityVoice); err != nil {
		v.logger.Warn("record voice answer failed", zap.Int("question_id", question.ID), zap.Error(err))
		return
	}

	complete := false
	if auto {
		complete = v.engine.Advance()
	}
	if onFinal != nil {
		onFinal(question, answer, complete)
	}
	if auto && !complete {
		if err := v.SpeakQuestion(); err != nil {
			v.logger.Warn("auto playback of next question failed", zap.Error(err))
		}
	}
}

// OnRecognitionError handles an error event from the recognition engine.
// A user-initiated abort stays silent; anything else notifies and, in auto
// mode, schedules one guarded retry of Listening.
func (v *VoiceSession) OnRecognitionError(reason string, aborted bool) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.clearSilenceTimerLocked()
	if v.phase == PhaseListening {
		v.phase = PhaseIdle
	}
	auto := v.cfg.AutoMode
	v.mu.Unlock()

	if aborted {
		return
	}
	v.logger.Warn("recognition error", zap.String("reason", reason))
	v.notify("error", "Speech recognition hit a problem. Retrying shortly.")

	if !auto {
		return
	}
	v.mu.Lock()
	if v.retryTimer != nil {
		v.retryTimer.Stop()
	}
	v.retryTimer = time.AfterFunc(v.cfg.RetryBackoff, func() {
		v.mu.Lock()
		// The retry is skipped when listening already resumed meanwhile.
		if v.closed || v.phase != PhaseIdle {
			v.mu.Unlock()
			return
		}
		v.mu.Unlock()
		v.StartListening()
	})
	v.mu.Unlock()
}

// OnRecognitionEnd handles the engine ending on its own. The pending silence
// timer is dropped; finalization only ever happens through the timer or a
// manual stop.
func (v *VoiceSession) OnRecognitionEnd() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || v.phase != PhaseListening {
		return
	}
	v.clearSilenceTimerLocked()
	v.phase = PhaseIdle
}

// Close releases every scoped resource: pending timers, in-flight playback
// and the recognition session. Safe to call from any state, more than once.
func (v *VoiceSession) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.clearSilenceTimerLocked()
	if v.retryTimer != nil {
		v.retryTimer.Stop()
		v.retryTimer = nil
	}
	speaker := v.speaker
	recognizer := v.recognizer
	v.mu.Unlock()

	if speaker != nil {
		speaker.Cancel()
	}
	if recognizer != nil {
		if err := recognizer.Abort(); err != nil {
			v.logger.Debug("recognition abort on close", zap.Error(err))
		}
	}
}

func (v *VoiceSession) clearSilenceTimerLocked() {
	if v.silenceTimer != nil {
		v.silenceTimer.Stop()
		v.silenceTimer = nil
	}
}

func (v *VoiceSession) stopRecognizerLocked() {
	if v.recognizer == nil {
		return
	}
	if err := v.recognizer.Stop(); err != nil {
		v.logger.Debug("recognition stop", zap.Error(err))
	}
}

func (v *VoiceSession) notify(level, message string) {
	if v.notifier != nil {
		v.notifier.Notify(level, message)
	}
}
