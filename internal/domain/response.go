package domain

import (
	"errors"
	"strings"
	"time"
)

// Modality is the input channel a response arrived through.
type Modality string

const (
	ModalityChat  Modality = "chat"
	ModalityVoice Modality = "voice"
)

var ErrUnknownModality = errors.New("unknown modality")

// ParseModality normalizes a modality label from the wire.
func ParseModality(raw string) (Modality, error) {
	switch Modality(strings.ToLower(strings.TrimSpace(raw))) {
	case ModalityChat:
		return ModalityChat, nil
	case ModalityVoice:
		return ModalityVoice, nil
	default:
		return "", ErrUnknownModality
	}
}

// ResponseRecord is the full answer row mirrored into the user_responses table.
type ResponseRecord struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	QuestionID int       `json:"question_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Category   string    `json:"category"`
	Modality   Modality  `json:"response_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// StoredResponse is the compact shape kept in the local response store,
// one JSON array per modality key. Timestamp is unix milliseconds.
type StoredResponse struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Timestamp int64  `json:"timestamp"`
}
