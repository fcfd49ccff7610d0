package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartgrader-composer/internal/models"
)

func declined(string) bool { return false }

func filled(t *testing.T, n int) *FormState {
	t.Helper()
	f := New(3)
	f.Title = "Unit test"
	for i := 0; i < n; i++ {
		_, err := f.AddFromData(models.QuestionData{
			Question:      "Q",
			Options:       []string{"a", "b", "c"},
			CorrectAnswer: i % 3,
		})
		require.NoError(t, err)
	}
	return f
}

func TestNewFallsBackToDefaultOptions(t *testing.T) {
	assert.Equal(t, DefaultOptions, New(0).OptionCount())
	assert.Equal(t, DefaultOptions, New(9).OptionCount())
	assert.Equal(t, 5, New(5).OptionCount())
}

func TestAddBlank(t *testing.T) {
	f := New(4)
	e := f.AddBlank()
	assert.Equal(t, 1, e.ID)
	assert.Equal(t, "", e.Text)
	assert.Equal(t, []string{"", "", "", ""}, e.Options)
	assert.Equal(t, 0, e.CorrectIndex)

	assert.Equal(t, 2, f.AddBlank().ID)
	assert.Equal(t, 2, f.Len())
}

func TestIDsAreNeverReused(t *testing.T) {
	f := New(2)
	f.AddBlank()
	second := f.AddBlank()
	ok, err := f.Remove(second.ID, Confirmed)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 3, f.AddBlank().ID)
}

func TestAddFromDataRejectsIncomplete(t *testing.T) {
	f := New(4)
	for _, q := range []models.QuestionData{
		{Question: "", Options: []string{"a"}},
		{Question: "   ", Options: []string{"a"}},
		{Question: "Q", Options: nil},
		{Question: "Q", Options: []string{}},
	} {
		_, err := f.AddFromData(q)
		assert.ErrorIs(t, err, ErrInvalidQuestionData)
	}
	assert.Zero(t, f.Len())
}

func TestAddFromDataWidensAndDefaultsCorrect(t *testing.T) {
	f := New(3)

	wide, err := f.AddFromData(models.QuestionData{Question: "Q", Options: []string{"a", "b", "c", "d", "e", "f"}, CorrectAnswer: 5})
	require.NoError(t, err)
	assert.Len(t, wide.Options, 6)
	assert.Equal(t, 5, wide.CorrectIndex)

	narrow, err := f.AddFromData(models.QuestionData{Question: "Q", Options: []string{"a"}, CorrectAnswer: 7})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "", ""}, narrow.Options)
	assert.Equal(t, 0, narrow.CorrectIndex)

	negative, err := f.AddFromData(models.QuestionData{Question: "Q", Options: []string{"a", "b"}, CorrectAnswer: -1})
	require.NoError(t, err)
	assert.Equal(t, 0, negative.CorrectIndex)
}

func TestRemoveRenumbers(t *testing.T) {
	f := filled(t, 4)
	ids := []int{}
	for _, e := range f.Entries() {
		ids = append(ids, e.ID)
	}

	ok, err := f.Remove(ids[1], Confirmed)
	require.NoError(t, err)
	require.True(t, ok)

	view := f.Render()
	require.Len(t, view.Questions, 3)
	for i, q := range view.Questions {
		assert.Equal(t, i+1, q.Ordinal)
		assert.Equal(t, "Question "+string(rune('1'+i)), q.Heading)
	}
	assert.Equal(t, []int{ids[0], ids[2], ids[3]}, []int{view.Questions[0].ID, view.Questions[1].ID, view.Questions[2].ID})
	assert.Equal(t, 2, f.Ordinal(ids[2]))
	assert.Equal(t, 0, f.Ordinal(ids[1]))
}

func TestRemoveNeedsConfirmation(t *testing.T) {
	f := filled(t, 1)
	id := f.Entries()[0].ID

	ok, err := f.Remove(id, declined)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.Remove(id, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, f.Len())

	_, err = f.Remove(99, Confirmed)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestSetOptionCountPreservesValues(t *testing.T) {
	f := New(4)
	_, err := f.AddFromData(models.QuestionData{Question: "Q", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 3})
	require.NoError(t, err)
	_, err = f.AddFromData(models.QuestionData{Question: "R", Options: []string{"w", "x", "y", "z"}, CorrectAnswer: 1})
	require.NoError(t, err)

	require.NoError(t, f.SetOptionCount(2))
	entries := f.Entries()
	assert.Equal(t, []string{"a", "b"}, entries[0].Options)
	assert.Equal(t, 0, entries[0].CorrectIndex, "correct index past the new width resets")
	assert.Equal(t, 1, entries[1].CorrectIndex)

	require.NoError(t, f.SetOptionCount(5))
	entries = f.Entries()
	assert.Equal(t, []string{"a", "b", "", "", ""}, entries[0].Options, "slots dropped by a shrink stay empty")
	assert.Equal(t, 5, f.OptionCount())
}

func TestSetOptionCountIdempotent(t *testing.T) {
	f := filled(t, 3)
	f.AddBlank()

	require.NoError(t, f.SetOptionCount(4))
	once := f.Render()
	require.NoError(t, f.SetOptionCount(4))
	assert.Equal(t, once, f.Render())
}

func TestSetOptionCountRange(t *testing.T) {
	f := New(3)
	assert.ErrorIs(t, f.SetOptionCount(1), ErrInvalidOptionCount)
	assert.ErrorIs(t, f.SetOptionCount(6), ErrInvalidOptionCount)
	assert.Equal(t, 3, f.OptionCount())
}

func TestUpdate(t *testing.T) {
	f := New(3)
	e := f.AddBlank()

	text := "What is 2+2?"
	correct := 2
	require.NoError(t, f.Update(e.ID, EntryPatch{Text: &text, Options: []string{"3", "5", "4"}, CorrectIndex: &correct}))

	got, ok := f.Entry(e.ID)
	require.True(t, ok)
	assert.Equal(t, text, got.Text)
	assert.Equal(t, []string{"3", "5", "4"}, got.Options)
	assert.Equal(t, 2, got.CorrectIndex)

	tooFar := 3
	assert.ErrorIs(t, f.Update(e.ID, EntryPatch{CorrectIndex: &tooFar}), ErrOptionSlot)
	assert.ErrorIs(t, f.Update(e.ID, EntryPatch{Options: []string{"1", "2", "3", "4"}}), ErrOptionSlot)
	assert.ErrorIs(t, f.Update(42, EntryPatch{Text: &text}), ErrQuestionNotFound)
}

func TestEntriesAreCopies(t *testing.T) {
	f := filled(t, 1)
	entries := f.Entries()
	entries[0].Options[0] = "changed"
	assert.Equal(t, "a", f.Entries()[0].Options[0])
}

func TestImportReplacesCollection(t *testing.T) {
	f := New(3)
	f.AddBlank()
	f.AddBlank()

	n, err := f.Import([]models.QuestionData{
		{Question: "Q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 3},
		{Question: "", Options: []string{"a"}},
		{Question: "Q2", Options: []string{"a", "b"}, CorrectAnswer: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 4, f.OptionCount())

	entries := f.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, 3, entries[0].ID, "ids continue after the cleared entries")
	assert.Equal(t, []string{"a", "b", "", ""}, entries[1].Options)
}

func TestImportCapsOptionCount(t *testing.T) {
	f := New(2)
	_, err := f.Import([]models.QuestionData{{Question: "Q", Options: []string{"1", "2", "3", "4", "5", "6", "7"}}})
	require.NoError(t, err)
	assert.Equal(t, MaxOptions, f.OptionCount())
	assert.Len(t, f.Entries()[0].Options, 7)
}

func TestImportSixOptionsCorrectSixth(t *testing.T) {
	f := New(4)
	f.Title = "T"
	_, err := f.Import([]models.QuestionData{{Question: "Q", Options: []string{"a", "b", "c", "d", "e", "f"}, CorrectAnswer: 5}})
	require.NoError(t, err)

	view := f.Render()
	assert.Equal(t, MaxOptions, view.OptionCount)
	require.Len(t, view.Questions[0].Options, 6)
	assert.True(t, view.Questions[0].Options[5].Correct)

	_, err = f.Collect()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, CorrectAnswerHidden, verr.Kind)
	assert.Equal(t, 1, verr.Question)
	assert.Equal(t, "Question 1 marks option F as correct, but only 5 options are in use", verr.Error())
}

func TestImportWithoutValidItemsLeavesStateUntouched(t *testing.T) {
	f := filled(t, 2)
	before := f.Render()

	_, err := f.Import([]models.QuestionData{{Question: "", Options: []string{"a"}}, {Question: "Q"}})
	assert.ErrorIs(t, err, ErrNoQuestionsFound)

	_, err = f.Import(nil)
	assert.ErrorIs(t, err, ErrNoQuestionsFound)
	assert.Equal(t, before, f.Render())
}

func TestCollectRoundTrip(t *testing.T) {
	for n := MinOptions; n <= MaxOptions; n++ {
		for k := 0; k < n; k++ {
			f := New(n)
			f.Title = "T"
			options := make([]string, n)
			for i := range options {
				options[i] = OptionLabel(i)
			}
			_, err := f.AddFromData(models.QuestionData{Question: "Q", Options: options, CorrectAnswer: k})
			require.NoError(t, err)

			got, err := f.Collect()
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Len(t, got[0].Options, n)
			assert.Equal(t, k, got[0].CorrectAnswer)
		}
	}
}

func TestCollectTrims(t *testing.T) {
	f := New(2)
	f.Title = "T"
	_, err := f.AddFromData(models.QuestionData{Question: "  Q  ", Options: []string{" a ", "b\t"}})
	require.NoError(t, err)

	got, err := f.Collect()
	require.NoError(t, err)
	assert.Equal(t, models.QuestionData{Question: "Q", Options: []string{"a", "b"}}, got[0])
}

func TestCollectTruncatesWideEntries(t *testing.T) {
	f := New(2)
	f.Title = "T"
	_, err := f.AddFromData(models.QuestionData{Question: "Q", Options: []string{"a", "b", "c"}, CorrectAnswer: 1})
	require.NoError(t, err)

	got, err := f.Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got[0].Options)
}

func TestCollectErrors(t *testing.T) {
	t.Run("missing title", func(t *testing.T) {
		f := filled(t, 1)
		f.Title = "  "
		_, err := f.Collect()
		assert.True(t, IsKind(err, MissingTitle))
	})

	t.Run("no questions", func(t *testing.T) {
		f := New(3)
		f.Title = "T"
		_, err := f.Collect()
		assert.True(t, IsKind(err, NoQuestions))
	})

	t.Run("missing question text", func(t *testing.T) {
		f := filled(t, 1)
		f.AddBlank()
		_, err := f.Collect()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, MissingQuestionText, verr.Kind)
		assert.Equal(t, 2, verr.Question)
	})

	t.Run("missing option", func(t *testing.T) {
		f := filled(t, 2)
		_, err := f.AddFromData(models.QuestionData{Question: "Q3", Options: []string{"a", "", "c"}})
		require.NoError(t, err)
		_, err = f.Collect()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, MissingOption, verr.Kind)
		assert.Equal(t, 3, verr.Question)
		assert.Equal(t, "Please enter all options for question 3", verr.Error())
	})

	t.Run("invalid correct answer", func(t *testing.T) {
		f := Restore(Snapshot{Title: "T", OptionCount: 2, Questions: []models.QuestionEntry{
			{ID: 1, Text: "Q", Options: []string{"a", "b"}, CorrectIndex: 4},
		}})
		_, err := f.Collect()
		assert.True(t, IsKind(err, InvalidCorrectAnswer))
	})

	t.Run("correct answer past the option count", func(t *testing.T) {
		f := New(2)
		f.Title = "T"
		_, err := f.AddFromData(models.QuestionData{Question: "Q", Options: []string{"a", "b", "c"}, CorrectAnswer: 2})
		require.NoError(t, err)
		_, err = f.Collect()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, CorrectAnswerHidden, verr.Kind)
		assert.Equal(t, "Question 1 marks option C as correct, but only 2 options are in use", verr.Error())
	})

	t.Run("first error wins", func(t *testing.T) {
		f := New(2)
		f.Title = "T"
		f.AddBlank()
		_, err := f.AddFromData(models.QuestionData{Question: "Q", Options: []string{"a"}})
		require.NoError(t, err)
		_, err = f.Collect()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, MissingQuestionText, verr.Kind)
		assert.Equal(t, 1, verr.Question)
	})
}

func TestRender(t *testing.T) {
	f := New(3)
	f.Title = "Geo"
	_, err := f.AddFromData(models.QuestionData{Question: "Capital?", Options: []string{"Oslo", "Rome", "Bern"}, CorrectAnswer: 1})
	require.NoError(t, err)

	view := f.Render()
	assert.Equal(t, "Geo", view.Title)
	assert.Equal(t, 3, view.OptionCount)
	require.Len(t, view.Questions, 1)
	assert.Equal(t, []OptionView{
		{Label: "A", Value: "Oslo"},
		{Label: "B", Value: "Rome", Correct: true},
		{Label: "C", Value: "Bern"},
	}, view.Questions[0].Options)
}

func TestSnapshotRestore(t *testing.T) {
	f := filled(t, 3)
	f.Description = "desc"
	f.Randomization = Randomization{Enabled: true, VariantCount: 3, QuestionsPerVariant: 2}
	first := f.Entries()[0].ID
	_, err := f.Remove(first, Confirmed)
	require.NoError(t, err)

	restored := Restore(f.Snapshot())
	assert.Equal(t, f.Render(), restored.Render())
	assert.Equal(t, 4, restored.AddBlank().ID)
}

func TestRestoreRecoversNextID(t *testing.T) {
	restored := Restore(Snapshot{OptionCount: 2, Questions: []models.QuestionEntry{
		{ID: 7, Text: "Q", Options: []string{"a", "b"}},
		{ID: 7, Text: "dup", Options: []string{"a", "b"}},
	}})
	assert.Equal(t, 1, restored.Len())
	assert.Equal(t, 8, restored.AddBlank().ID)
}
