package results

import (
	"fmt"

	"github.com/spboyer/mentorqa/internal/models"
	"github.com/xuri/excelize/v2"
)

// Handle appends rows to one open artifact. Every append is saved to disk
// before it returns. A Handle is not safe for concurrent use.
type Handle struct {
	path    string
	sheet   string
	f       *excelize.File
	nextRow int
	written int
	closed  bool
}

// Path returns the artifact's file path.
func (h *Handle) Path() string {
	return h.path
}

// Sheet returns the results sheet name.
func (h *Handle) Sheet() string {
	return h.sheet
}

// Written returns the number of rows appended through this handle.
func (h *Handle) Written() int {
	return h.written
}

// EnsureHeaders writes any empty header cell and applies header styling and
// column widths. It is idempotent.
func (h *Handle) EnsureHeaders() error {
	if h.closed {
		return ErrClosed
	}

	for i, col := range Columns {
		ref, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return err
		}
		v, err := h.f.GetCellValue(h.sheet, ref)
		if err != nil {
			return fmt.Errorf("results: read header %s: %w", ref, err)
		}
		if v == "" {
			if err := h.f.SetCellStr(h.sheet, ref, col.Name); err != nil {
				return fmt.Errorf("results: write header %s: %w", ref, err)
			}
		}

		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := h.f.SetColWidth(h.sheet, name, name, col.Width); err != nil {
			return fmt.Errorf("results: set width %s: %w", name, err)
		}
	}

	style, err := h.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFillColor}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("results: header style: %w", err)
	}

	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(Columns), headerRow)
	if err := h.f.SetCellStyle(h.sheet, first, last, style); err != nil {
		return fmt.Errorf("results: apply header style: %w", err)
	}
	return nil
}

// AppendRow writes row after the last used row and saves the file.
func (h *Handle) AppendRow(row models.OutputRow) error {
	if h.closed {
		return ErrClosed
	}

	r := h.nextRow
	cells := []struct {
		col int
		v   any
	}{
		{colQuestion, row.Question},
		{colResponse, row.Response},
		{colTimestamp, row.FormattedTimestamp()},
		{colStatus, string(row.Status)},
		{colScore, scoreValue(row.Score)},
	}
	for _, c := range cells {
		ref, err := excelize.CoordinatesToCellName(c.col, r)
		if err != nil {
			return err
		}
		if err := h.f.SetCellValue(h.sheet, ref, c.v); err != nil {
			return fmt.Errorf("results: write %s: %w", ref, err)
		}
	}

	if err := h.save(); err != nil {
		return err
	}
	h.nextRow++
	h.written++
	return nil
}

// Close saves and releases the file. Calling Close more than once is a no-op.
func (h *Handle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true

	saveErr := h.save()
	if err := h.f.Close(); err != nil && saveErr == nil {
		return fmt.Errorf("results: close %s: %w", h.path, err)
	}
	return saveErr
}

func (h *Handle) save() error {
	if err := h.f.SaveAs(h.path); err != nil {
		return fmt.Errorf("results: save %s: %w", h.path, err)
	}
	return nil
}

func scoreValue(s models.Score) any {
	if !s.Valid {
		return models.NotAvailable
	}
	return s.Value
}
