package models

import (
	"fmt"
	"time"
)

// MentorSummary holds the per-mentor counts for one run.
type MentorSummary struct {
	MentorID   string `json:"mentor_id"`
	Endpoint   string `json:"endpoint"`
	OutputPath string `json:"output_path,omitempty"`

	// Attempted is the number of questions for which a row was written.
	Attempted int `json:"attempted"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`

	// SetupError is set when the mentor could not be started at all
	// (e.g. its output artifact could not be created).
	SetupError string `json:"setup_error,omitempty"`

	Scored     int     `json:"scored"`
	AvgScore   float64 `json:"avg_score"`
	MinScore   float64 `json:"min_score"`
	MaxScore   float64 `json:"max_score"`
	DurationMs int64   `json:"duration_ms"`
}

// RecordScore folds a score into the running min/max/avg.
func (m *MentorSummary) RecordScore(s Score) {
	if !s.Valid {
		return
	}
	v := float64(s.Value)
	if m.Scored == 0 {
		m.MinScore, m.MaxScore = v, v
	} else {
		m.MinScore = min(m.MinScore, v)
		m.MaxScore = max(m.MaxScore, v)
	}
	m.AvgScore = (m.AvgScore*float64(m.Scored) + v) / float64(m.Scored+1)
	m.Scored++
}

// Complete reports whether every question of the mentor succeeded.
func (m MentorSummary) Complete() bool {
	return m.SetupError == "" && m.Failed == 0 && m.Skipped == 0
}

// Label is the mentor's entry in the summary lists, e.g. "Texas (1 failures)".
func (m MentorSummary) Label() string {
	switch {
	case m.Complete():
		return m.MentorID
	case m.Processed == 0:
		return fmt.Sprintf("%s (complete failure)", m.MentorID)
	default:
		return fmt.Sprintf("%s (%d failures)", m.MentorID, m.Failed+m.Skipped)
	}
}

// RunSummary is the aggregate outcome of a run.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Mentors []MentorSummary `json:"mentors"`

	TotalProcessed int `json:"total_processed"`
	TotalFailed    int `json:"total_failed"`
	TotalSkipped   int `json:"total_skipped"`

	Successful []string `json:"successful"`
	WithIssues []string `json:"with_issues"`

	// ConfigError is set when the configuration could not be loaded and no
	// mentor was processed.
	ConfigError string `json:"config_error,omitempty"`

	// Interrupted is set when the run stopped early (timeout or cancellation).
	Interrupted bool `json:"interrupted,omitempty"`
}

// NewRunSummary returns an empty summary with non-nil lists.
func NewRunSummary(runID string, startedAt time.Time) *RunSummary {
	return &RunSummary{
		RunID:      runID,
		StartedAt:  startedAt,
		Mentors:    []MentorSummary{},
		Successful: []string{},
		WithIssues: []string{},
	}
}

// Add records a finished mentor and updates the totals.
func (s *RunSummary) Add(m MentorSummary) {
	s.Mentors = append(s.Mentors, m)
	s.TotalProcessed += m.Processed
	s.TotalFailed += m.Failed
	s.TotalSkipped += m.Skipped
	if m.Complete() {
		s.Successful = append(s.Successful, m.MentorID)
	} else {
		s.WithIssues = append(s.WithIssues, m.Label())
	}
}

// HasFailures reports whether any question failed or was skipped.
func (s *RunSummary) HasFailures() bool {
	return s.TotalFailed > 0 || s.TotalSkipped > 0 || len(s.WithIssues) > 0
}
