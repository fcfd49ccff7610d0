package importer

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"smartgrader-composer/internal/models"
)

// Candidate keys, in precedence order, for each question field.
var (
	questionKeys = []string{"question", "text", "questionText"}
	optionKeys   = []string{"options", "answers", "choices"}
	correctKeys  = []string{"correct_answer", "correctAnswer"}
)

// ParseJSON accepts either a top-level array of question objects or an object
// with a "questions" array. Any other shape yields no questions.
func ParseJSON(text string) ([]models.QuestionData, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, &ParseError{Format: "JSON", Err: err}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Format: "JSON", Err: errors.New("unexpected data after top-level value")}
	}

	items := questionItems(root)
	result := make([]models.QuestionData, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		result = append(result, models.QuestionData{
			Question:      stringValue(firstPresent(obj, questionKeys)),
			Options:       stringList(firstPresent(obj, optionKeys)),
			CorrectAnswer: intValue(firstPresent(obj, correctKeys)),
		})
	}
	return result, nil
}

func questionItems(root any) []any {
	switch v := root.(type) {
	case []any:
		return v
	case map[string]any:
		if qs, ok := v["questions"].([]any); ok {
			return qs
		}
	}
	return nil
}

// firstPresent returns the value of the first key that exists and is not null.
func firstPresent(obj map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func stringList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, stringValue(item))
	}
	return out
}

func intValue(v any) int {
	switch t := v.(type) {
	case json.Number:
		n, _ := leadingInt(t.String())
		return n
	case string:
		n, _ := leadingInt(t)
		return n
	default:
		return 0
	}
}
