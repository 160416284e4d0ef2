package domain

import "time"

// AttachmentRecord describes one uploaded file. QuestionID is the question
// that was active when the upload happened, zero when none was.
type AttachmentRecord struct {
	SessionID  string    `json:"session_id"`
	FileName   string    `json:"filename"`
	URL        string    `json:"file_url"`
	FileType   string    `json:"file_type"`
	QuestionID int       `json:"question_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
