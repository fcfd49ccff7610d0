package composer

import "smartgrader-composer/internal/models"

// Snapshot is the serializable form of a FormState, used for autosave.
type Snapshot struct {
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	OptionCount   int                    `json:"num_options"`
	Randomization Randomization          `json:"randomization"`
	NextID        int                    `json:"next_id"`
	Questions     []models.QuestionEntry `json:"questions"`
}

func (f *FormState) Snapshot() Snapshot {
	return Snapshot{
		Title:         f.Title,
		Description:   f.Description,
		OptionCount:   f.optionCount,
		Randomization: f.Randomization,
		NextID:        f.nextID,
		Questions:     f.Entries(),
	}
}

// Restore rebuilds a form from a snapshot. Ids keep increasing past the
// largest restored id even if NextID was lost.
func Restore(s Snapshot) *FormState {
	f := New(s.OptionCount)
	f.Title = s.Title
	f.Description = s.Description
	f.Randomization = s.Randomization
	f.nextID = s.NextID

	for _, q := range s.Questions {
		if _, dup := f.entries[q.ID]; dup {
			continue
		}
		e := q
		e.Options = append([]string(nil), q.Options...)
		f.entries[e.ID] = &e
		f.order = append(f.order, e.ID)
		if e.ID > f.nextID {
			f.nextID = e.ID
		}
	}
	return f
}
