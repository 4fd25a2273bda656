package orchestration

import (
	"github.com/spboyer/mentorqa/internal/models"
	"github.com/spboyer/mentorqa/internal/results"
)

// RowWriter is an open per-mentor artifact.
type RowWriter interface {
	Path() string
	// AppendRow persists row before returning.
	AppendRow(row models.OutputRow) error
	Close() error
}

// ResultSink creates one artifact per mentor.
type ResultSink interface {
	Open(mentorID string) (RowWriter, error)
}

// SpreadsheetSink adapts a results.Sink to ResultSink.
type SpreadsheetSink struct {
	*results.Sink
}

func (s SpreadsheetSink) Open(mentorID string) (RowWriter, error) {
	h, err := s.Sink.Open(mentorID)
	if err != nil {
		return nil, err
	}
	return h, nil
}
