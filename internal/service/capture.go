package service

import "strings"

// TextCapture is the typed-input capture variant: trim, reject empty.
type TextCapture struct{}

// Normalize returns the trimmed answer and whether it is usable. An input
// that is empty after trimming yields ok == false and must be ignored.
func (TextCapture) Normalize(raw string) (string, bool) {
	answer := strings.TrimSpace(raw)
	return answer, answer != ""
}
