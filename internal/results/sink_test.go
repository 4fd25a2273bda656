package results

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spboyer/mentorqa/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func readSheet(t *testing.T, path string) (string, [][]string) {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return sheet, rows
}

func TestSink_OpenWritesHeaders(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	sink := NewSink(dir, WithClock(fixedClock))

	h, err := sink.Open("Texas")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "Texas_20240501_093000.xlsx"), h.Path())
	require.NoError(t, h.Close())
	require.NoError(t, h.Close())

	sheet, rows := readSheet(t, h.Path())
	require.Equal(t, "Texas Results", sheet)
	require.Len(t, rows, 1)

	var names []string
	for _, c := range Columns {
		names = append(names, c.Name)
	}
	require.Equal(t, names, rows[0])
}

func TestSink_AppendRows(t *testing.T) {
	sink := NewSink(t.TempDir(), WithClock(fixedClock))
	h, err := sink.Open("Texas")
	require.NoError(t, err)

	ts := time.Date(2024, 5, 1, 9, 31, 5, 0, time.UTC)
	require.NoError(t, h.AppendRow(models.NewSuccessRow("Q1", "R1", ts, models.NewScore(85))))

	// Saved before Close.
	_, rows := readSheet(t, h.Path())
	require.Len(t, rows, 2)

	require.NoError(t, h.AppendRow(models.NewFailedRow("Q2", "timeout", ts)))
	require.NoError(t, h.Close())
	require.Equal(t, 2, h.Written())

	_, rows = readSheet(t, h.Path())
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Q1", "R1", "2024-05-01 09:31:05", "Success", "85"}, rows[1])
	assert.Equal(t, []string{"Q2", "Error: timeout", "2024-05-01 09:31:05", "Failed", "N/A"}, rows[2])

	require.ErrorIs(t, h.AppendRow(models.NewFailedRow("Q3", "x", ts)), ErrClosed)
}

func TestSink_FileNameCollision(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(dir, WithClock(fixedClock))

	first, err := sink.Open("New York")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := sink.Open("New York")
	require.NoError(t, err)
	require.NoError(t, second.Close())

	require.Equal(t, filepath.Join(dir, "New York_20240501_093000.xlsx"), first.Path())
	require.Equal(t, filepath.Join(dir, "New York_20240501_093000_2.xlsx"), second.Path())
}

func TestSink_OpenExistingPreservesHeaders(t *testing.T) {
	sink := NewSink(t.TempDir(), WithClock(fixedClock))
	h, err := sink.Open("Ohio")
	require.NoError(t, err)
	require.NoError(t, h.AppendRow(models.NewSuccessRow("Q1", "R1", fixedNow, models.NoScore)))
	require.NoError(t, h.Close())

	// A reviewer renames a manual column and blanks another.
	f, err := excelize.OpenFile(h.Path())
	require.NoError(t, err)
	require.NoError(t, f.SetCellStr("Ohio Results", "F1", "Reviewer Rating"))
	require.NoError(t, f.SetCellStr("Ohio Results", "L1", ""))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	reopened, err := sink.OpenExisting(h.Path())
	require.NoError(t, err)
	require.NoError(t, reopened.EnsureHeaders())
	require.NoError(t, reopened.AppendRow(models.NewSuccessRow("Q2", "R2", fixedNow, models.NewScore(70))))
	require.NoError(t, reopened.Close())

	_, rows := readSheet(t, h.Path())
	require.Len(t, rows, 3)
	assert.Equal(t, "Reviewer Rating", rows[0][5])
	assert.Equal(t, "Date", rows[0][11])
	assert.Equal(t, "Q2", rows[2][0])
	assert.Equal(t, "70", rows[2][4])
}

func TestSink_OpenFailsOnBadDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := NewSink(filepath.Join(blocker, "out")).Open("Texas")
	require.Error(t, err)
}

func TestFileStem(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Texas", "Texas"},
		{"New York ", "New York"},
		{"a/b:c*", "abc"},
		{"São Paulo", "São Paulo"},
		{"???", "mentor"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FileStem(tt.in), tt.in)
	}
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Texas Results", SheetName("Texas"))
	assert.Equal(t, "ab Results", SheetName("a[b]"))
	assert.Equal(t, "Mentor Results", SheetName("///"))

	long := SheetName("District of Columbia Metropolitan Area")
	assert.Len(t, []rune(long), 31)
}
