package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeConfigWorkbook creates a configuration workbook with the default
// sheet names and returns its path.
func writeConfigWorkbook(t *testing.T, dir string, mentors [][2]string, questions []string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	require.NoError(t, f.SetSheetName("Sheet1", "LLM-Url"))
	require.NoError(t, f.SetSheetRow("LLM-Url", "A1", &[]any{"ID", "URL"}))
	for i, m := range mentors {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("LLM-Url", cell, &[]any{m[0], m[1]}))
	}

	_, err := f.NewSheet("Queries")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Queries", "A1", "Question"))
	for i, q := range questions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Queries", cell, q))
	}

	path := filepath.Join(dir, "config.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}
