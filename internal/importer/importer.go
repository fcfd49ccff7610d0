// Package importer turns question files (JSON or CSV) into question data.
// Parsing never validates question content; the composer does that on ingest.
package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"smartgrader-composer/internal/models"
)

var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseError reports malformed file content.
type ParseError struct {
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseFile picks the parser from the file extension. Unknown extensions are
// rejected before any content is read.
func ParseFile(filename string, data []byte) ([]models.QuestionData, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return ParseJSON(string(data))
	case ".csv":
		return ParseCSV(string(data))
	default:
		if ext == "" {
			ext = filename
		}
		return nil, fmt.Errorf("%w: %s (use .json or .csv)", ErrUnsupportedFormat, ext)
	}
}

// leadingInt reads an optionally signed integer prefix, ignoring whatever
// follows it ("2.0" and "3 (C)" both read as their leading digits).
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	i := 0
	neg := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}
	start := i
	n := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		if n > 1<<31 {
			break
		}
	}
	if i == start {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
