// Package composer holds the in-memory state of a test being authored: the
// ordered question blocks, the shared option count and the variant settings.
package composer

import (
	"log"
	"strings"

	"smartgrader-composer/internal/models"
)

const (
	MinOptions     = 2
	MaxOptions     = 5
	DefaultOptions = 4

	RemovePrompt = "Are you sure you want to remove this question?"
)

// ConfirmFunc asks the user to confirm a destructive action.
type ConfirmFunc func(prompt string) bool

// Confirmed accepts every prompt.
func Confirmed(string) bool { return true }

type Randomization struct {
	Enabled             bool `json:"enabled"`
	VariantCount        int  `json:"variant_count"`
	QuestionsPerVariant int  `json:"questions_per_variant"`
}

// EntryPatch carries the fields a user edited in one question block. Nil
// fields are left as they are.
type EntryPatch struct {
	Text         *string
	Options      []string
	CorrectIndex *int
}

// FormState is not safe for concurrent use; callers serialize access.
type FormState struct {
	Title         string
	Description   string
	Randomization Randomization

	optionCount int
	order       []int
	entries     map[int]*models.QuestionEntry
	nextID      int
}

// New returns an empty form. Out-of-range option counts fall back to
// DefaultOptions.
func New(optionCount int) *FormState {
	if !validOptionCount(optionCount) {
		optionCount = DefaultOptions
	}
	return &FormState{
		optionCount: optionCount,
		entries:     make(map[int]*models.QuestionEntry),
	}
}

func validOptionCount(n int) bool {
	return n >= MinOptions && n <= MaxOptions
}

func (f *FormState) OptionCount() int { return f.optionCount }

func (f *FormState) Len() int { return len(f.order) }

// Entries returns copies of the entries in display order.
func (f *FormState) Entries() []models.QuestionEntry {
	out := make([]models.QuestionEntry, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, copyEntry(f.entries[id]))
	}
	return out
}

func (f *FormState) Entry(id int) (models.QuestionEntry, bool) {
	e, ok := f.entries[id]
	if !ok {
		return models.QuestionEntry{}, false
	}
	return copyEntry(e), true
}

// Ordinal is the 1-based display position of id, or 0 if absent.
func (f *FormState) Ordinal(id int) int {
	for i, v := range f.order {
		if v == id {
			return i + 1
		}
	}
	return 0
}

func (f *FormState) AddBlank() models.QuestionEntry {
	e := f.append("", make([]string, f.optionCount), 0)
	return copyEntry(e)
}

// AddFromData appends a question built from imported or generated data. The
// block is widened to fit every supplied option.
func (f *FormState) AddFromData(q models.QuestionData) (models.QuestionEntry, error) {
	if strings.TrimSpace(q.Question) == "" || len(q.Options) == 0 {
		log.Printf("composer: skipping invalid question data (text=%q, options=%d)", q.Question, len(q.Options))
		return models.QuestionEntry{}, ErrInvalidQuestionData
	}

	width := f.optionCount
	if len(q.Options) > width {
		width = len(q.Options)
	}
	options := make([]string, width)
	copy(options, q.Options)

	correct := q.CorrectAnswer
	if correct < 0 || correct >= width {
		correct = 0
	}

	return copyEntry(f.append(q.Question, options, correct)), nil
}

func (f *FormState) append(text string, options []string, correct int) *models.QuestionEntry {
	f.nextID++
	e := &models.QuestionEntry{
		ID:           f.nextID,
		Text:         text,
		Options:      options,
		CorrectIndex: correct,
	}
	f.entries[e.ID] = e
	f.order = append(f.order, e.ID)
	return e
}

func (f *FormState) Update(id int, patch EntryPatch) error {
	e, ok := f.entries[id]
	if !ok {
		return ErrQuestionNotFound
	}
	if len(patch.Options) > len(e.Options) {
		return ErrOptionSlot
	}
	if patch.CorrectIndex != nil && (*patch.CorrectIndex < 0 || *patch.CorrectIndex >= len(e.Options)) {
		return ErrOptionSlot
	}

	if patch.Text != nil {
		e.Text = *patch.Text
	}
	copy(e.Options, patch.Options)
	if patch.CorrectIndex != nil {
		e.CorrectIndex = *patch.CorrectIndex
	}
	return nil
}

// Remove deletes the entry after confirmation. It reports false when the user
// declined. Remaining entries keep their ids; only display ordinals shift.
func (f *FormState) Remove(id int, confirm ConfirmFunc) (bool, error) {
	if _, ok := f.entries[id]; !ok {
		return false, ErrQuestionNotFound
	}
	if confirm == nil || !confirm(RemovePrompt) {
		return false, nil
	}

	delete(f.entries, id)
	for i, v := range f.order {
		if v == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// SetOptionCount resizes every entry to n slots. Values below the new width
// survive; a correct index past it resets to the first option.
func (f *FormState) SetOptionCount(n int) error {
	if !validOptionCount(n) {
		return ErrInvalidOptionCount
	}
	for _, id := range f.order {
		e := f.entries[id]
		options := make([]string, n)
		copy(options, e.Options)
		e.Options = options
		if e.CorrectIndex >= n {
			e.CorrectIndex = 0
		}
	}
	f.optionCount = n
	return nil
}

// Import replaces the whole collection with items. Nothing changes unless at
// least one item is acceptable. The shared option count grows (up to
// MaxOptions) to fit the longest option list.
func (f *FormState) Import(items []models.QuestionData) (int, error) {
	longest, valid := 0, 0
	for _, q := range items {
		if strings.TrimSpace(q.Question) == "" || len(q.Options) == 0 {
			continue
		}
		valid++
		if len(q.Options) > longest {
			longest = len(q.Options)
		}
	}
	if valid == 0 {
		return 0, ErrNoQuestionsFound
	}

	f.order = nil
	f.entries = make(map[int]*models.QuestionEntry)
	if longest > f.optionCount {
		f.optionCount = min(longest, MaxOptions)
	}

	added := 0
	for _, q := range items {
		if _, err := f.AddFromData(q); err == nil {
			added++
		}
	}
	return added, nil
}

// Collect validates the form in display order and stops at the first problem.
// Only the first OptionCount options of each entry are submitted.
func (f *FormState) Collect() ([]models.QuestionData, error) {
	if strings.TrimSpace(f.Title) == "" {
		return nil, &ValidationError{Kind: MissingTitle}
	}
	if len(f.order) == 0 {
		return nil, &ValidationError{Kind: NoQuestions}
	}

	questions := make([]models.QuestionData, 0, len(f.order))
	for i, id := range f.order {
		ordinal := i + 1
		e := f.entries[id]

		text := strings.TrimSpace(e.Text)
		if text == "" {
			return nil, &ValidationError{Kind: MissingQuestionText, Question: ordinal}
		}

		options := make([]string, 0, f.optionCount)
		for j := 0; j < f.optionCount; j++ {
			value := ""
			if j < len(e.Options) {
				value = strings.TrimSpace(e.Options[j])
			}
			if value == "" {
				return nil, &ValidationError{Kind: MissingOption, Question: ordinal}
			}
			options = append(options, value)
		}

		if e.CorrectIndex < 0 || e.CorrectIndex >= len(e.Options) {
			return nil, &ValidationError{Kind: InvalidCorrectAnswer, Question: ordinal}
		}
		if e.CorrectIndex >= f.optionCount {
			return nil, &ValidationError{Kind: CorrectAnswerHidden, Question: ordinal, Max: f.optionCount, Option: e.CorrectIndex}
		}

		questions = append(questions, models.QuestionData{
			Question:      text,
			Options:       options,
			CorrectAnswer: e.CorrectIndex,
		})
	}
	return questions, nil
}

func copyEntry(e *models.QuestionEntry) models.QuestionEntry {
	c := *e
	c.Options = append([]string(nil), e.Options...)
	return c
}
