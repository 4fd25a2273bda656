package workbook

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// loadQuestionsCSV reads questions from the first column of a CSV file.
// Row numbering matches the workbook layout, so row 1 is the header.
func loadQuestionsCSV(path string, layout Layout) ([]string, ReadStats, error) {
	var stats ReadStats

	f, err := os.Open(path)
	if err != nil {
		return nil, stats, fmt.Errorf("workbook: open csv %s: %w: %w", path, ErrConfigUnreadable, err)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	start := max(layout.StartRow, 1)
	questions := []string{}

	for rowNum := 1; layout.MaxRow <= 0 || rowNum <= layout.MaxRow; rowNum++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("workbook: parse csv %s: %w: %w", path, ErrConfigUnreadable, err)
		}
		if rowNum < start {
			continue
		}

		q := ""
		if len(record) > 0 {
			q = strings.TrimSpace(record[0])
		}
		if q == "" {
			stats.Skipped++
			continue
		}
		questions = append(questions, q)
		stats.Included++
	}

	return questions, stats, nil
}
