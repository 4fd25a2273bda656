// Package results writes per-mentor evaluation spreadsheets.
package results

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// ErrClosed is returned when writing to a closed handle.
var ErrClosed = errors.New("results: handle closed")

const (
	fileTimestampLayout = "20060102_150405"
	maxSheetNameLen     = 31
)

// Sink creates result artifacts in a directory.
type Sink struct {
	dir string
	now func() time.Time
}

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithClock overrides the clock used to stamp file names.
func WithClock(now func() time.Time) SinkOption {
	return func(s *Sink) {
		s.now = now
	}
}

// NewSink returns a sink writing into dir. The directory is created on first use.
func NewSink(dir string, opts ...SinkOption) *Sink {
	s := &Sink{dir: dir, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Dir returns the output directory.
func (s *Sink) Dir() string {
	return s.dir
}

// Open creates a new artifact for mentorID, writes the header row and saves it.
func (s *Sink) Open(mentorID string) (*Handle, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("results: create output dir %s: %w", s.dir, err)
	}

	path, err := s.uniquePath(mentorID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := SheetName(mentorID)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		f.Close() //nolint:errcheck
		return nil, fmt.Errorf("results: name sheet %q: %w", sheet, err)
	}

	h := &Handle{path: path, sheet: sheet, f: f, nextRow: headerRow + 1}
	if err := h.EnsureHeaders(); err != nil {
		f.Close() //nolint:errcheck
		return nil, err
	}
	if err := h.save(); err != nil {
		f.Close() //nolint:errcheck
		return nil, err
	}

	log.Debug().Str("mentor", mentorID).Str("path", path).Msg("created results file")
	return h, nil
}

// OpenExisting reopens an artifact for appending. Missing header cells are
// filled in; existing ones are kept.
func (s *Sink) OpenExisting(path string) (*Handle, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("results: open %s: %w", path, err)
	}

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		f.Close() //nolint:errcheck
		return nil, fmt.Errorf("results: read %s: %w", path, err)
	}

	h := &Handle{path: path, sheet: sheet, f: f, nextRow: max(len(rows)+1, headerRow+1)}
	if err := h.EnsureHeaders(); err != nil {
		f.Close() //nolint:errcheck
		return nil, err
	}
	return h, nil
}

func (s *Sink) uniquePath(mentorID string) (string, error) {
	base := fmt.Sprintf("%s_%s", FileStem(mentorID), s.now().Format(fileTimestampLayout))

	for i := 1; i < 1000; i++ {
		name := base
		if i > 1 {
			name = fmt.Sprintf("%s_%d", base, i)
		}
		p := filepath.Join(s.dir, name+".xlsx")
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			return p, nil
		} else if err != nil {
			return "", fmt.Errorf("results: stat %s: %w", p, err)
		}
	}
	return "", fmt.Errorf("results: no free file name for %q in %s", mentorID, s.dir)
}

// FileStem reduces a mentor ID to a file-system-safe name: letters, digits,
// spaces, '-' and '_' are kept and trailing spaces trimmed.
func FileStem(mentorID string) string {
	var b strings.Builder
	for _, r := range mentorID {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	stem := strings.TrimRight(b.String(), " ")
	if stem == "" {
		return "mentor"
	}
	return stem
}

// SheetName returns the results sheet title for mentorID, "<id> Results",
// with characters invalid in sheet names removed and capped at 31 runes.
func SheetName(mentorID string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return -1
		}
		return r
	}, mentorID)
	cleaned = strings.Trim(strings.TrimSpace(cleaned), "'")
	if cleaned == "" {
		cleaned = "Mentor"
	}

	name := cleaned + " Results"
	if utf8.RuneCountInString(name) > maxSheetNameLen {
		name = string([]rune(name)[:maxSheetNameLen])
	}
	return strings.TrimRight(name, "'")
}
