// Package workbook reads mentor and question lists from a configuration
// spreadsheet.
package workbook

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spboyer/mentorqa/internal/models"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrConfigNotFound is returned when a required sheet is missing.
	ErrConfigNotFound = errors.New("configuration not found")

	// ErrConfigUnreadable is returned when the workbook cannot be opened or parsed.
	ErrConfigUnreadable = errors.New("configuration unreadable")
)

const (
	DefaultMentorSheet    = "LLM-Url"
	DefaultQuestionSheet  = "Queries"
	DefaultStartRow       = 2
	DefaultMentorMaxRow   = 1000
	DefaultQuestionMaxRow = 100
)

// Layout locates a list inside a sheet. Rows are 1-based and inclusive.
type Layout struct {
	Sheet    string
	StartRow int
	MaxRow   int
}

// MentorLayout returns the default layout of the mentor sheet.
func MentorLayout() Layout {
	return Layout{Sheet: DefaultMentorSheet, StartRow: DefaultStartRow, MaxRow: DefaultMentorMaxRow}
}

// QuestionLayout returns the default layout of the question sheet.
func QuestionLayout() Layout {
	return Layout{Sheet: DefaultQuestionSheet, StartRow: DefaultStartRow, MaxRow: DefaultQuestionMaxRow}
}

// ReadStats counts the rows seen while reading a list.
type ReadStats struct {
	Included int
	Skipped  int
}

// Reader reads lists from an open workbook.
type Reader struct {
	path string
	f    *excelize.File
}

// Open opens the workbook at path.
func Open(path string) (*Reader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("workbook: open %s: %w: %w", path, ErrConfigUnreadable, err)
	}
	return &Reader{path: path, f: f}, nil
}

// Close releases the workbook.
func (r *Reader) Close() error {
	return r.f.Close()
}

// Sheets returns the sheet names in workbook order.
func (r *Reader) Sheets() []string {
	return r.f.GetSheetList()
}

// ReadMentors reads mentor IDs from column A and endpoints from column B.
// Rows with an empty ID or endpoint are skipped, as are repeated IDs.
func (r *Reader) ReadMentors(layout Layout) ([]models.MentorSpec, ReadStats, error) {
	var stats ReadStats
	mentors := []models.MentorSpec{}
	seen := map[string]bool{}

	err := r.eachRow(layout, func(rowNum int, cells []string) {
		id, endpoint := cell(cells, 0), cell(cells, 1)
		if id == "" || endpoint == "" {
			stats.Skipped++
			return
		}
		if seen[id] {
			log.Warn().Str("mentor", id).Int("row", rowNum).Msg("duplicate mentor id, skipping row")
			stats.Skipped++
			return
		}
		seen[id] = true
		mentors = append(mentors, models.MentorSpec{ID: id, Endpoint: endpoint})
		stats.Included++
	})
	if err != nil {
		return nil, stats, err
	}
	return mentors, stats, nil
}

// ReadQuestions reads questions from column A. Empty cells are skipped.
func (r *Reader) ReadQuestions(layout Layout) ([]string, ReadStats, error) {
	var stats ReadStats
	questions := []string{}

	err := r.eachRow(layout, func(_ int, cells []string) {
		q := cell(cells, 0)
		if q == "" {
			stats.Skipped++
			return
		}
		questions = append(questions, q)
		stats.Included++
	})
	if err != nil {
		return nil, stats, err
	}
	return questions, stats, nil
}

// eachRow calls fn for every row in [StartRow, min(MaxRow, last populated row)].
func (r *Reader) eachRow(layout Layout, fn func(rowNum int, cells []string)) error {
	idx, err := r.f.GetSheetIndex(layout.Sheet)
	if err != nil || idx < 0 {
		return fmt.Errorf("workbook: sheet %q in %s: %w", layout.Sheet, r.path, ErrConfigNotFound)
	}

	rows, err := r.f.GetRows(layout.Sheet)
	if err != nil {
		return fmt.Errorf("workbook: read sheet %q: %w: %w", layout.Sheet, ErrConfigUnreadable, err)
	}

	start := max(layout.StartRow, 1)
	last := len(rows)
	if layout.MaxRow > 0 {
		last = min(last, layout.MaxRow)
	}

	for rowNum := start; rowNum <= last; rowNum++ {
		fn(rowNum, rows[rowNum-1])
	}
	return nil
}

func cell(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

// LoadMentors opens path and reads its mentor list.
func LoadMentors(path string, layout Layout) ([]models.MentorSpec, ReadStats, error) {
	r, err := Open(path)
	if err != nil {
		return nil, ReadStats{}, err
	}
	defer r.Close() //nolint:errcheck

	return r.ReadMentors(layout)
}

// LoadQuestions reads the question list from path. A .csv file is read as a
// single column with a header row; anything else is treated as a workbook.
func LoadQuestions(path string, layout Layout) ([]string, ReadStats, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return loadQuestionsCSV(path, layout)
	}

	r, err := Open(path)
	if err != nil {
		return nil, ReadStats{}, err
	}
	defer r.Close() //nolint:errcheck

	return r.ReadQuestions(layout)
}
