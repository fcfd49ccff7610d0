package models

// QuestionData is the wire shape of a question shared by the importers,
// AI generation responses and the create-test payload.
type QuestionData struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

// QuestionEntry is one editable question block of a draft.
type QuestionEntry struct {
	ID           int      `json:"id"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}
