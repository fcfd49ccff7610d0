package composer

import (
	"strings"

	"smartgrader-composer/internal/models"
)

const DefaultVariantCount = 2

// Payload is the create-test request body.
type Payload struct {
	Title               string                `json:"title"`
	Description         string                `json:"description"`
	NumOptions          int                   `json:"num_options"`
	Questions           []models.QuestionData `json:"questions"`
	GeneratePDF         bool                  `json:"generate_pdf"`
	EnableRandomization bool                  `json:"enable_randomization"`
	NumVariants         int                   `json:"num_variants"`
	QuestionsPerVariant int                   `json:"questions_per_variant"`
}

// BuildPayload validates the form and assembles the create-test request.
// Without randomization the test is a single variant holding every question.
func BuildPayload(f *FormState, generatePDF bool) (*Payload, error) {
	questions, err := f.Collect()
	if err != nil {
		return nil, err
	}

	p := &Payload{
		Title:               strings.TrimSpace(f.Title),
		Description:         strings.TrimSpace(f.Description),
		NumOptions:          f.optionCount,
		Questions:           questions,
		GeneratePDF:         generatePDF,
		NumVariants:         1,
		QuestionsPerVariant: len(questions),
	}

	r := f.Randomization
	if !r.Enabled {
		return p, nil
	}

	variants := r.VariantCount
	if variants == 0 {
		variants = DefaultVariantCount
	}
	if variants < DefaultVariantCount || r.QuestionsPerVariant < 1 || r.QuestionsPerVariant > len(questions) {
		return nil, &ValidationError{Kind: InvalidVariantConfig, Max: len(questions)}
	}

	p.EnableRandomization = true
	p.NumVariants = variants
	p.QuestionsPerVariant = r.QuestionsPerVariant
	return p, nil
}
