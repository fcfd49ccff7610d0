package composer

import "fmt"

type OptionView struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Correct bool   `json:"correct"`
}

type QuestionView struct {
	ID      int          `json:"id"`
	Ordinal int          `json:"ordinal"`
	Heading string       `json:"heading"`
	Text    string       `json:"text"`
	Options []OptionView `json:"options"`
}

type View struct {
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	OptionCount   int            `json:"num_options"`
	Randomization Randomization  `json:"randomization"`
	Questions     []QuestionView `json:"questions"`
}

// Render projects the form into what the editor displays. It does not mutate
// the form.
func (f *FormState) Render() View {
	v := View{
		Title:         f.Title,
		Description:   f.Description,
		OptionCount:   f.optionCount,
		Randomization: f.Randomization,
		Questions:     make([]QuestionView, 0, len(f.order)),
	}
	for i, id := range f.order {
		e := f.entries[id]
		q := QuestionView{
			ID:      e.ID,
			Ordinal: i + 1,
			Heading: fmt.Sprintf("Question %d", i+1),
			Text:    e.Text,
			Options: make([]OptionView, len(e.Options)),
		}
		for j, value := range e.Options {
			q.Options[j] = OptionView{
				Label:   OptionLabel(j),
				Value:   value,
				Correct: j == e.CorrectIndex,
			}
		}
		v.Questions = append(v.Questions, q)
	}
	return v
}

// OptionLabel returns "A" for 0, "B" for 1 and so on.
func OptionLabel(i int) string {
	return string(rune('A' + i))
}
