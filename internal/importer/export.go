package importer

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"smartgrader-composer/internal/models"
)

// ExportData is the JSON export document. It is accepted back by ParseJSON.
type ExportData struct {
	Title     string                `json:"title,omitempty"`
	Questions []models.QuestionData `json:"questions"`
}

func WriteJSON(w io.Writer, title string, questions []models.QuestionData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Title: title, Questions: questions})
}

// WriteCSV writes a header sized to the widest question followed by one row per
// question. Double quotes inside values do not survive a re-import.
func WriteCSV(w io.Writer, questions []models.QuestionData) error {
	width := 0
	for _, q := range questions {
		if len(q.Options) > width {
			width = len(q.Options)
		}
	}

	header := []string{"question"}
	for i := 1; i <= width; i++ {
		header = append(header, "option"+strconv.Itoa(i))
	}
	header = append(header, "correct")

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, q := range questions {
		row := make([]string, 0, width+2)
		row = append(row, q.Question)
		row = append(row, q.Options...)
		row = append(row, strconv.Itoa(q.CorrectAnswer))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
