package orchestration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spboyer/mentorqa/internal/capture"
	"github.com/spboyer/mentorqa/internal/graders"
	"github.com/spboyer/mentorqa/internal/models"
)

type staticSource struct {
	mentors   []models.MentorSpec
	questions []string
	err       error
}

func (s *staticSource) Mentors() ([]models.MentorSpec, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.mentors, nil
}

func (s *staticSource) Questions() ([]string, error) {
	return s.questions, nil
}

// scriptedEngine answers from fixed maps and fails unknown questions.
type scriptedEngine struct {
	mu        sync.Mutex
	responses map[string]string
	failures  map[string]string
	// onFetch runs before each Fetch with the 1-based call count.
	onFetch func(n int)
	initErr error

	fetches     []string
	initialized bool
	shutdown    bool
}

func (e *scriptedEngine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initialized = true
	return e.initErr
}

func (e *scriptedEngine) Fetch(ctx context.Context, endpoint, question string) models.CaptureResult {
	e.mu.Lock()
	e.fetches = append(e.fetches, endpoint+"|"+question)
	n := len(e.fetches)
	hook := e.onFetch
	e.mu.Unlock()

	if hook != nil {
		hook(n)
	}

	result := models.CaptureResult{Question: question, CapturedAt: time.Now()}
	if err := ctx.Err(); err != nil {
		result.Err = fmt.Errorf("%w: interrupted: %w", capture.ErrCaptureFailure, err)
		return result
	}
	if detail, ok := e.failures[question]; ok {
		result.Err = fmt.Errorf("%w: %s", capture.ErrCaptureFailure, detail)
		return result
	}
	if resp, ok := e.responses[question]; ok {
		result.Response = resp
		return result
	}
	result.Response = "answer to " + question
	return result
}

func (e *scriptedEngine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shutdown = true
	return nil
}

type memWriter struct {
	path        string
	rows        []models.OutputRow
	closed      bool
	appendCalls int
	appendErr   map[string]error
	// firstWriteErr fails only the first write of a question.
	firstWriteErr map[string]error
	tried         map[string]bool
}

func (w *memWriter) Path() string { return w.path }

func (w *memWriter) AppendRow(row models.OutputRow) error {
	w.appendCalls++
	if err, ok := w.appendErr[row.Question]; ok {
		return err
	}
	if err, ok := w.firstWriteErr[row.Question]; ok && !w.tried[row.Question] {
		w.tried[row.Question] = true
		return err
	}
	w.rows = append(w.rows, row)
	return nil
}

func (w *memWriter) Close() error {
	w.closed = true
	return nil
}

// memSink keeps artifacts in memory, keyed by mentor ID.
type memSink struct {
	writers       map[string]*memWriter
	opened        []string
	openErr       map[string]error
	appendErr     map[string]error
	firstWriteErr map[string]error
}

func newMemSink() *memSink {
	return &memSink{writers: map[string]*memWriter{}}
}

func (s *memSink) Open(mentorID string) (RowWriter, error) {
	s.opened = append(s.opened, mentorID)
	if err, ok := s.openErr[mentorID]; ok {
		return nil, err
	}
	w := &memWriter{
		path:          "mem://" + mentorID,
		appendErr:     s.appendErr,
		firstWriteErr: s.firstWriteErr,
		tried:         map[string]bool{},
	}
	s.writers[mentorID] = w
	return w, nil
}

// blockingGrader holds every Grade call until ctx is done.
type blockingGrader struct{}

func (blockingGrader) Name() string { return "blocking" }

func (blockingGrader) Grade(ctx context.Context, question, response string) (string, error) {
	<-ctx.Done()
	return "", fmt.Errorf("%w: %w", graders.ErrGradingUnavailable, ctx.Err())
}
