package graders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spboyer/mentorqa/internal/retry"
	"github.com/spboyer/mentorqa/internal/template"
	"google.golang.org/genai"
)

const (
	DefaultModel           = "gemini-2.5-pro"
	DefaultTemperature     = float32(0.1)
	DefaultTopP            = float32(0.95)
	DefaultTopK            = float32(40)
	DefaultMaxOutputTokens = int32(8192)
	DefaultMaxRetries      = 2
)

var errEmptyEvaluation = errors.New("model returned no text")

// GeminiOptions configures a GeminiGrader. Zero values select the defaults.
type GeminiOptions struct {
	Model           string
	Temperature     *float32
	TopP            *float32
	TopK            *float32
	MaxOutputTokens int32
	SystemPrompt    string
	PromptTemplate  string
	Vars            map[string]string
	MaxRetries      *int
	// RetryBackoff overrides the initial wait between retries.
	RetryBackoff time.Duration
	// TimeoutSeconds bounds a single grading call including retries. 0 means no bound.
	TimeoutSeconds int
}

// GeminiGrader grades with one GenerateContent call per response.
type GeminiGrader struct {
	gen            contentGenerator
	model          string
	promptTemplate string
	vars           map[string]string
	config         *genai.GenerateContentConfig
	retry          retry.Config
	timeout        time.Duration
}

// NewGeminiGraderFromAPIKey creates a Gemini API client and wraps it.
func NewGeminiGraderFromAPIKey(ctx context.Context, apiKey string, opts GeminiOptions) (*GeminiGrader, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: GOOGLE_API_KEY is not set", ErrGradingUnavailable)
	}
	gen, err := newContentGenerator(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("%w: creating gemini client: %w", ErrGradingUnavailable, err)
	}
	return newGeminiGrader(gen, opts)
}

func newGeminiGrader(gen contentGenerator, opts GeminiOptions) (*GeminiGrader, error) {
	systemPrompt := valueOr(opts.SystemPrompt, DefaultSystemPrompt)
	promptTemplate := valueOr(opts.PromptTemplate, DefaultPromptTemplate)
	if err := template.Validate(promptTemplate); err != nil {
		return nil, fmt.Errorf("grading prompt template: %w", err)
	}

	maxTokens := opts.MaxOutputTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxOutputTokens
	}

	rc := retry.DefaultConfig()
	if opts.MaxRetries != nil {
		rc.MaxRetries = *opts.MaxRetries
	}
	if opts.RetryBackoff > 0 {
		rc.BaseBackoff = opts.RetryBackoff
		rc.MaxBackoff = max(rc.MaxBackoff, opts.RetryBackoff)
		rc.MaxJitter = 0
	}
	if err := rc.Validate(); err != nil {
		return nil, fmt.Errorf("grading retry config: %w", err)
	}

	return &GeminiGrader{
		gen:            gen,
		model:          valueOr(opts.Model, DefaultModel),
		promptTemplate: promptTemplate,
		vars:           opts.Vars,
		config: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
			Temperature:       genai.Ptr(ptrOr(opts.Temperature, DefaultTemperature)),
			TopP:              genai.Ptr(ptrOr(opts.TopP, DefaultTopP)),
			TopK:              genai.Ptr(ptrOr(opts.TopK, DefaultTopK)),
			MaxOutputTokens:   maxTokens,
		},
		retry:   rc,
		timeout: time.Duration(opts.TimeoutSeconds) * time.Second,
	}, nil
}

func (g *GeminiGrader) Name() string {
	return g.model
}

// Grade sends the rubric and the rendered prompt and returns the model's text.
func (g *GeminiGrader) Grade(ctx context.Context, question, response string) (string, error) {
	prompt, err := template.Render(g.promptTemplate, &template.Context{
		Question: question,
		Response: response,
		Vars:     g.vars,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGradingUnavailable, err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := retry.Do(ctx, g.retry, "grade", retry.IsTransient, func() (string, error) {
		resp, err := g.gen.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
		if err != nil {
			return "", err
		}
		text := strings.TrimSpace(resp.Text())
		if text == "" {
			return "", errEmptyEvaluation
		}
		return text, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGradingUnavailable, err)
	}

	log.Debug().
		Str("model", g.model).
		Dur("elapsed", time.Since(start)).
		Str("evaluation", text).
		Msg("graded response")
	return text, nil
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func ptrOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
