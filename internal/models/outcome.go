package models

import (
	"fmt"
	"strconv"
	"time"
)

// Status is the per-question outcome written to the results sheet.
type Status string

const (
	StatusSuccess Status = "Success"
	StatusFailed  Status = "Failed"
)

// NotAvailable is written in place of a score that could not be determined.
const NotAvailable = "N/A"

// TimestampLayout is the layout used for the Timestamp column.
const TimestampLayout = "2006-01-02 15:04:05"

// Score is an integer evaluation score in [0, 100], or absent.
type Score struct {
	Value int
	Valid bool
}

// NoScore is the absent score.
var NoScore = Score{}

// NewScore returns a valid score for n in [0, 100] and NoScore otherwise.
func NewScore(n int) Score {
	if n < 0 || n > 100 {
		return NoScore
	}
	return Score{Value: n, Valid: true}
}

func (s Score) String() string {
	if !s.Valid {
		return NotAvailable
	}
	return strconv.Itoa(s.Value)
}

// CaptureResult is the outcome of submitting one question to a mentor.
// A nil Err means the response was captured.
type CaptureResult struct {
	Question   string
	Response   string
	CapturedAt time.Time
	Err        error
}

// Succeeded reports whether the capture produced a response.
func (c CaptureResult) Succeeded() bool {
	return c.Err == nil
}

// Detail returns a human readable description of the failure, or "" on success.
func (c CaptureResult) Detail() string {
	if c.Err == nil {
		return ""
	}
	return c.Err.Error()
}

// OutputRow is one row of a mentor's results sheet.
type OutputRow struct {
	Question  string
	Response  string
	Timestamp time.Time
	Status    Status
	Score     Score
}

// NewSuccessRow builds the row for a captured response. score may be NoScore
// when grading was unavailable or no score could be extracted.
func NewSuccessRow(question, response string, ts time.Time, score Score) OutputRow {
	return OutputRow{
		Question:  question,
		Response:  response,
		Timestamp: ts,
		Status:    StatusSuccess,
		Score:     score,
	}
}

// NewFailedRow builds the row for a question whose response could not be captured.
func NewFailedRow(question, detail string, ts time.Time) OutputRow {
	return OutputRow{
		Question:  question,
		Response:  fmt.Sprintf("Error: %s", detail),
		Timestamp: ts,
		Status:    StatusFailed,
		Score:     NoScore,
	}
}

// Succeeded reports whether the row records a captured response.
func (r OutputRow) Succeeded() bool {
	return r.Status == StatusSuccess
}

// FormattedTimestamp renders Timestamp with TimestampLayout.
func (r OutputRow) FormattedTimestamp() string {
	return r.Timestamp.Format(TimestampLayout)
}
