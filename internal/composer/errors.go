package composer

import (
	"errors"
	"fmt"
)

var (
	ErrQuestionNotFound    = errors.New("question not found")
	ErrInvalidOptionCount  = fmt.Errorf("number of options must be between %d and %d", MinOptions, MaxOptions)
	ErrInvalidQuestionData = errors.New("question must have text and at least one option")
	ErrOptionSlot          = errors.New("option slot does not exist")
	ErrNoQuestionsFound    = errors.New("no questions found")
)

type ErrorKind string

const (
	MissingTitle         ErrorKind = "missing_title"
	NoQuestions          ErrorKind = "no_questions"
	MissingQuestionText  ErrorKind = "missing_question_text"
	MissingOption        ErrorKind = "missing_option"
	InvalidCorrectAnswer ErrorKind = "invalid_correct_answer"
	CorrectAnswerHidden  ErrorKind = "correct_answer_hidden"
	InvalidVariantConfig ErrorKind = "invalid_variant_config"
)

// ValidationError is the first problem found while collecting a draft.
// Question is the 1-based display ordinal for per-question kinds.
type ValidationError struct {
	Kind     ErrorKind
	Question int
	// Max is the total question count for InvalidVariantConfig and the
	// option count in use for CorrectAnswerHidden.
	Max int
	// Option is the 0-based correct option, set for CorrectAnswerHidden.
	Option int
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingTitle:
		return "Please enter a test title"
	case NoQuestions:
		return "Please add at least one question"
	case MissingQuestionText:
		return fmt.Sprintf("Please enter text for question %d", e.Question)
	case MissingOption:
		return fmt.Sprintf("Please enter all options for question %d", e.Question)
	case InvalidCorrectAnswer:
		return fmt.Sprintf("Please select a correct answer for question %d", e.Question)
	case CorrectAnswerHidden:
		return fmt.Sprintf("Question %d marks option %s as correct, but only %d options are in use", e.Question, OptionLabel(e.Option), e.Max)
	case InvalidVariantConfig:
		return fmt.Sprintf("Questions per variant must be between 1 and %d, with at least 2 variants", e.Max)
	default:
		return string(e.Kind)
	}
}

// IsKind reports whether err is a ValidationError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var verr *ValidationError
	return errors.As(err, &verr) && verr.Kind == kind
}
