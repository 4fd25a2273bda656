// Package capture submits questions to mentor chat pages and captures the
// answers.
package capture

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spboyer/mentorqa/internal/models"
)

var (
	// ErrCaptureTimeout is returned when a stage did not finish within its bound.
	ErrCaptureTimeout = errors.New("capture timed out")

	// ErrCaptureFailure is returned for every other capture problem.
	ErrCaptureFailure = errors.New("capture failed")
)

type Type string

const (
	TypeBrowser Type = "browser"
	TypeMock    Type = "mock"
)

// Engine submits one question at a time and captures the response.
type Engine interface {
	// Initialize starts any resources the engine needs (e.g. the browser).
	Initialize(ctx context.Context) error

	// Fetch submits question to the mentor at endpoint. It always returns a
	// result; failures are reported through CaptureResult.Err, wrapping
	// ErrCaptureTimeout or ErrCaptureFailure.
	Fetch(ctx context.Context, endpoint, question string) models.CaptureResult

	// Shutdown releases resources.
	Shutdown(ctx context.Context) error
}

// Create builds an engine from the `capture` block of the project config.
func Create(engineType Type, params map[string]any) (Engine, error) {
	switch engineType {
	case TypeBrowser:
		opts := DefaultBrowserOptions()
		if err := mapstructure.Decode(params, &opts); err != nil {
			return nil, fmt.Errorf("decoding browser capture config: %w", err)
		}
		if err := opts.Validate(); err != nil {
			return nil, err
		}
		return NewBrowserEngine(opts), nil
	case TypeMock:
		var v struct {
			Response string   `mapstructure:"response"`
			FailOn   []string `mapstructure:"fail_on"`
		}
		if err := mapstructure.Decode(params, &v); err != nil {
			return nil, fmt.Errorf("decoding mock capture config: %w", err)
		}
		m := NewMockEngine()
		m.ResponseFormat = v.Response
		for _, q := range v.FailOn {
			m.FailQuestion(q, "mock failure")
		}
		return m, nil
	default:
		return nil, fmt.Errorf("'%s' is not a valid capture type", engineType)
	}
}
