package importer

import (
	"errors"
	"strings"
	"unicode/utf8"

	"smartgrader-composer/internal/models"
)

// ParseCSV reads "question,option...,correct" rows after a single header line.
// Rows with fewer than three fields are dropped.
func ParseCSV(text string) ([]models.QuestionData, error) {
	if !utf8.ValidString(text) {
		return nil, &ParseError{Format: "CSV", Err: errors.New("file is not valid UTF-8 text")}
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return []models.QuestionData{}, nil
	}

	result := make([]models.QuestionData, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := splitRow(line)
		if len(fields) < 3 {
			continue
		}
		last := len(fields) - 1
		correct, _ := leadingInt(fields[last])
		result = append(result, models.QuestionData{
			Question:      fields[0],
			Options:       append([]string(nil), fields[1:last]...),
			CorrectAnswer: correct,
		})
	}
	return result, nil
}

// splitRow splits on commas outside double quotes. Quote characters only
// toggle the quoted state and never reach the field value, so `""` is two
// toggles rather than an escaped quote.
func splitRow(line string) []string {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	return append(fields, strings.TrimSpace(field.String()))
}
