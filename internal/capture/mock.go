package capture

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spboyer/mentorqa/internal/models"
)

// MockEngine answers without a browser, for dry runs and tests.
type MockEngine struct {
	// ResponseFormat is a fmt format applied to the question, or a fixed
	// answer when it has no %s. Defaults to "Mock response for: %s".
	ResponseFormat string

	mu       sync.Mutex
	failures map[string]error
	requests []MockRequest
	started  bool
}

// MockRequest records one Fetch call.
type MockRequest struct {
	Endpoint string
	Question string
}

// NewMockEngine creates a new mock engine
func NewMockEngine() *MockEngine {
	return &MockEngine{failures: map[string]error{}}
}

// FailQuestion makes every Fetch of question fail with ErrCaptureFailure.
func (m *MockEngine) FailQuestion(question, detail string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[question] = fmt.Errorf("%w: %s", ErrCaptureFailure, detail)
}

// TimeoutQuestion makes every Fetch of question fail with ErrCaptureTimeout.
func (m *MockEngine) TimeoutQuestion(question, stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[question] = fmt.Errorf("%w: %s did not complete", ErrCaptureTimeout, stage)
}

func (m *MockEngine) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
	return nil
}

func (m *MockEngine) Fetch(ctx context.Context, endpoint, question string) models.CaptureResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, MockRequest{Endpoint: endpoint, Question: question})
	result := models.CaptureResult{Question: question, CapturedAt: time.Now()}

	if err := ctx.Err(); err != nil {
		result.Err = fmt.Errorf("%w: interrupted: %w", ErrCaptureFailure, err)
		return result
	}
	if err, ok := m.failures[question]; ok {
		result.Err = err
		return result
	}

	format := m.ResponseFormat
	if format == "" {
		format = "Mock response for: %s"
	}
	if strings.Contains(format, "%s") {
		result.Response = fmt.Sprintf(format, question)
	} else {
		result.Response = format
	}
	return result
}

func (m *MockEngine) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = false
	return nil
}

// Requests returns the Fetch calls seen so far.
func (m *MockEngine) Requests() []MockRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockRequest(nil), m.requests...)
}

// Started reports whether the engine is between Initialize and Shutdown.
func (m *MockEngine) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}
