// Package graders asks a language model to grade captured responses.
package graders

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

type Type string

const (
	TypeGemini Type = "gemini"
	TypeMock   Type = "mock"
)

// ErrGradingUnavailable is returned when no evaluation text could be obtained.
var ErrGradingUnavailable = errors.New("grading unavailable")

// Grader produces free-form evaluation text for a question/response pair.
// The caller extracts the numeric score.
type Grader interface {
	// Name identifies the grader in logs, e.g. the model name.
	Name() string

	// Grade returns the model's evaluation text. Errors wrap ErrGradingUnavailable.
	Grade(ctx context.Context, question, response string) (string, error)
}

// Create builds a grader of the given type. params is the free-form
// `grading.config` block of the project config.
func Create(ctx context.Context, graderType Type, params map[string]any) (Grader, error) {
	switch graderType {
	case TypeGemini:
		var v struct {
			APIKey          string            `mapstructure:"api_key"`
			Model           string            `mapstructure:"model"`
			Temperature     *float32          `mapstructure:"temperature"`
			TopP            *float32          `mapstructure:"top_p"`
			TopK            *float32          `mapstructure:"top_k"`
			MaxOutputTokens int32             `mapstructure:"max_output_tokens"`
			SystemPrompt    string            `mapstructure:"system_prompt"`
			PromptTemplate  string            `mapstructure:"prompt_template"`
			Vars            map[string]string `mapstructure:"vars"`
			MaxRetries      *int              `mapstructure:"max_retries"`
			TimeoutSeconds  int               `mapstructure:"timeout_seconds"`
		}

		if err := mapstructure.Decode(params, &v); err != nil {
			return nil, fmt.Errorf("decoding gemini grader config: %w", err)
		}

		opts := GeminiOptions{
			Model:           v.Model,
			Temperature:     v.Temperature,
			TopP:            v.TopP,
			TopK:            v.TopK,
			MaxOutputTokens: v.MaxOutputTokens,
			SystemPrompt:    v.SystemPrompt,
			PromptTemplate:  v.PromptTemplate,
			Vars:            v.Vars,
			MaxRetries:      v.MaxRetries,
			TimeoutSeconds:  v.TimeoutSeconds,
		}
		return NewGeminiGraderFromAPIKey(ctx, v.APIKey, opts)
	case TypeMock:
		var v struct {
			Response string `mapstructure:"response"`
			Error    string `mapstructure:"error"`
		}

		if err := mapstructure.Decode(params, &v); err != nil {
			return nil, fmt.Errorf("decoding mock grader config: %w", err)
		}

		g := NewMockGrader(v.Response)
		if v.Error != "" {
			g.Err = errors.New(v.Error)
		}
		return g, nil
	default:
		return nil, fmt.Errorf("'%s' is not a valid grader type", graderType)
	}
}
