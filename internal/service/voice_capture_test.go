package service

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"accidata/internal/catalog"
	"accidata/internal/domain"
)

type mockRecognizer struct {
	mu     sync.Mutex
	starts int
	stops  int
	aborts int
}

func (m *mockRecognizer) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts++
	return nil
}

func (m *mockRecognizer) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	return nil
}

func (m *mockRecognizer) Abort() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aborts++
	return nil
}

func (m *mockRecognizer) counts() (int, int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts, m.stops, m.aborts
}

type mockSpeaker struct {
	mu      sync.Mutex
	spoken  []string
	done    func()
	cancels int
}

func (m *mockSpeaker) Speak(text string, done func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spoken = append(m.spoken, text)
	m.done = done
	return nil
}

func (m *mockSpeaker) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancels++
	m.done = nil
}

func (m *mockSpeaker) finishPlayback() {
	m.mu.Lock()
	done := m.done
	m.done = nil
	m.mu.Unlock()
	if done != nil {
		done()
	}
}

func (m *mockSpeaker) spokenTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.spoken))
	copy(out, m.spoken)
	return out
}

type mockNotifier struct {
	mu    sync.Mutex
	notes []string
}

func (m *mockNotifier) Notify(_, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = append(m.notes, message)
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.notes)
}

func voiceTestCatalog() *catalog.Catalog {
	return catalog.New([]domain.Question{
		{ID: 1, Category: "A", Text: "Q1", ReferenceAnswer: "Reference one."},
		{ID: 2, Category: "B", Text: "Q2", ReferenceAnswer: "Reference two."},
	})
}

func newTestVoiceSession(t *testing.T, auto bool, window time.Duration) (*VoiceSession, *Engine, *mockRecognizer, *mockSpeaker, *mockNotifier) {
	t.Helper()
	engine := NewEngine(voiceTestCatalog(), "s1", nil)
	recognizer := &mockRecognizer{}
	speaker := &mockSpeaker{}
	notifier := &mockNotifier{}
	session := NewVoiceSession(engine, recognizer, speaker, notifier, VoiceConfig{
		SilenceWindow: window,
		RetryBackoff:  20 * time.Millisecond,
		AutoMode:      auto,
	}, zap.NewNop())
	t.Cleanup(session.Close)
	return session, engine, recognizer, speaker, notifier
}

func TestVoiceStartListeningReentrancy(t *testing.T) {
	session, _, recognizer, _, _ := newTestVoiceSession(t, false, time.Second)

	if err := session.StartListening(); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if err := session.StartListening(); err != nil {
		t.Fatalf("second start: %v", err)
	}

	if starts, _, _ := recognizer.counts(); starts != 1 {
		t.Fatalf("expected exactly one recognition start, got %d", starts)
	}
	if session.Phase() != PhaseListening {
		t.Fatalf("expected Listening phase")
	}
}

func TestVoiceSilenceDebounce(t *testing.T) {
	session, engine, _, speaker, _ := newTestVoiceSession(t, true, 100*time.Millisecond)

	if err := session.StartListening(); err != nil {
		t.Fatalf("start: %v", err)
	}
	session.OnTranscript("it happened")
	time.Sleep(50 * time.Millisecond)
	// A new partial result inside the quiet period cancels the pending stop.
	session.OnTranscript("it happened yesterday")
	time.Sleep(60 * time.Millisecond)
	if engine.HasAnswer(1) {
		t.Fatalf("auto-stop fired before the quiet period elapsed")
	}

	time.Sleep(100 * time.Millisecond)
	if !engine.HasAnswer(1) {
		t.Fatalf("expected silence to finalize the answer")
	}
	if answer, _ := engine.Answer(1); answer != "it happened yesterday" {
		t.Fatalf("expected accumulated transcript, got %q", answer)
	}
	// Auto mode advanced and began reading the next question.
	if state := engine.Snapshot(); state.Position != 1 {
		t.Fatalf("expected auto advance to position 1, got %+v", state)
	}
	if texts := speaker.spokenTexts(); len(texts) == 0 || texts[len(texts)-1] != "Q2" {
		t.Fatalf("expected next question playback, got %v", texts)
	}
}

func TestVoiceManualStopFallsBackToReference(t *testing.T) {
	session, engine, recognizer, _, _ := newTestVoiceSession(t, false, time.Second)

	if err := session.StartListening(); err != nil {
		t.Fatalf("start: %v", err)
	}
	session.StopListening()

	if answer, _ := engine.Answer(1); answer != "Reference one." {
		t.Fatalf("expected reference answer fallback, got %q", answer)
	}
	if _, stops, _ := recognizer.counts(); stops != 1 {
		t.Fatalf("expected recognition stop, got %d", stops)
	}
	// Manual mode does not advance.
	if state := engine.Snapshot(); state.Position != 0 {
		t.Fatalf("expected position to stay, got %+v", state)
	}
}

func TestVoiceStopWhileIdleIsNoop(t *testing.T) {
	session, engine, recognizer, _, _ := newTestVoiceSession(t, false, time.Second)

	session.StopListening()

	if engine.HasAnswer(1) {
		t.Fatalf("stop while idle must not record an answer")
	}
	if _, stops, _ := recognizer.counts(); stops != 0 {
		t.Fatalf("expected no recognition stop, got %d", stops)
	}
}

func TestVoiceSpeakingStopsListening(t *testing.T) {
	session, _, recognizer, speaker, _ := newTestVoiceSession(t, true, time.Second)

	if err := session.StartListening(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := session.SpeakQuestion(); err != nil {
		t.Fatalf("speak: %v", err)
	}

	if _, stops, _ := recognizer.counts(); stops != 1 {
		t.Fatalf("expected listening stopped on speak, got %d stops", stops)
	}
	if session.Phase() != PhaseSpeaking {
		t.Fatalf("expected Speaking phase")
	}
	if texts := speaker.spokenTexts(); len(texts) != 1 || texts[0] != "Q1" {
		t.Fatalf("expected Q1 playback, got %v", texts)
	}

	// Playback completion re-opens listening in auto mode.
	speaker.finishPlayback()
	if starts, _, _ := recognizer.counts(); starts != 2 {
		t.Fatalf("expected listening to resume after playback, got %d starts", starts)
	}
}

func TestVoiceRecognitionErrorRetries(t *testing.T) {
	session, _, recognizer, _, notifier := newTestVoiceSession(t, true, time.Second)

	if err := session.StartListening(); err != nil {
		t.Fatalf("start: %v", err)
	}
	session.OnRecognitionError("network", false)

	if notifier.count() != 1 {
		t.Fatalf("expected one notification, got %d", notifier.count())
	}
	time.Sleep(60 * time.Millisecond)
	if starts, _, _ := recognizer.counts(); starts != 2 {
		t.Fatalf("expected one retry start, got %d total starts", starts)
	}
}

func TestVoiceAbortedErrorStaysSilent(t *testing.T) {
	session, _, recognizer, _, notifier := newTestVoiceSession(t, true, time.Second)

	if err := session.StartListening(); err != nil {
		t.Fatalf("start: %v", err)
	}
	session.OnRecognitionError("aborted", true)

	if notifier.count() != 0 {
		t.Fatalf("user-initiated abort must not notify")
	}
	time.Sleep(60 * time.Millisecond)
	if starts, _, _ := recognizer.counts(); starts != 1 {
		t.Fatalf("user-initiated abort must not retry, got %d starts", starts)
	}
}

func TestVoiceCloseReleasesEverything(t *testing.T) {
	session, engine, recognizer, speaker, _ := newTestVoiceSession(t, true, 30*time.Millisecond)

	if err := session.StartListening(); err != nil {
		t.Fatalf("start: %v", err)
	}
	session.OnTranscript("partial")
	session.Close()
	session.Close() // idempotent

	if _, _, aborts := recognizer.counts(); aborts != 1 {
		t.Fatalf("expected one abort on close, got %d", aborts)
	}
	speaker.mu.Lock()
	cancels := speaker.cancels
	speaker.mu.Unlock()
	if cancels != 1 {
		t.Fatalf("expected one playback cancel on close, got %d", cancels)
	}

	// The pending silence timer must not fire after close.
	time.Sleep(60 * time.Millisecond)
	if engine.HasAnswer(1) {
		t.Fatalf("closed session must not finalize answers")
	}

	if err := session.StartListening(); err != nil {
		t.Fatalf("start after close: %v", err)
	}
	if starts, _, _ := recognizer.counts(); starts != 1 {
		t.Fatalf("closed session must not restart listening, got %d starts", starts)
	}
}
