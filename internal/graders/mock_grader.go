package graders

import (
	"context"
	"fmt"
	"sync"
)

// DefaultMockEvaluation is the evaluation text returned by a MockGrader
// created without an explicit response.
const DefaultMockEvaluation = "85"

// MockGrader returns a fixed evaluation, for dry runs and tests.
type MockGrader struct {
	Response string
	// Err, when set, is returned (wrapped in ErrGradingUnavailable) instead of Response.
	Err error

	mu    sync.Mutex
	calls int
}

// NewMockGrader returns a MockGrader answering response, or DefaultMockEvaluation if empty.
func NewMockGrader(response string) *MockGrader {
	if response == "" {
		response = DefaultMockEvaluation
	}
	return &MockGrader{Response: response}
}

func (m *MockGrader) Name() string {
	return "mock"
}

func (m *MockGrader) Grade(ctx context.Context, question, response string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrGradingUnavailable, err)
	}
	if m.Err != nil {
		return "", fmt.Errorf("%w: %w", ErrGradingUnavailable, m.Err)
	}
	return m.Response, nil
}

// Calls returns how many times Grade was called.
func (m *MockGrader) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
