package domain

// Question is one entry of the static accident questionnaire. The ID is the
// ordering key; the category label groups consecutive questions.
type Question struct {
	ID              int    `json:"id"`
	Category        string `json:"category"`
	Text            string `json:"text"`
	ReferenceAnswer string `json:"reference_answer,omitempty"`
}
