// Package config holds the resolved settings for a single evaluation run.
package config

import (
	"time"

	"github.com/spboyer/mentorqa/internal/workbook"
)

// DefaultQuestionDelay is the pause between consecutive questions for one mentor.
const DefaultQuestionDelay = 5 * time.Second

// RunConfig is the per-run view built from the project file, the
// environment and command-line flags.
type RunConfig struct {
	configPath     string
	questionsPath  string
	outputDir      string
	summaryPath    string
	screenshotDir  string
	mentorLayout   workbook.Layout
	questionLayout workbook.Layout
	questionDelay  time.Duration
	timeout        time.Duration
	verbose        bool
}

// Option configures a RunConfig.
type Option func(*RunConfig)

// NewRunConfig creates a RunConfig for the workbook at configPath.
func NewRunConfig(configPath string, opts ...Option) *RunConfig {
	cfg := &RunConfig{
		configPath:     configPath,
		mentorLayout:   workbook.MentorLayout(),
		questionLayout: workbook.QuestionLayout(),
		questionDelay:  DefaultQuestionDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithQuestionsPath reads questions from a separate workbook or CSV file.
func WithQuestionsPath(path string) Option {
	return func(c *RunConfig) { c.questionsPath = path }
}

func WithOutputDir(dir string) Option {
	return func(c *RunConfig) { c.outputDir = dir }
}

// WithSummaryPath writes the run summary as JSON to path.
func WithSummaryPath(path string) Option {
	return func(c *RunConfig) { c.summaryPath = path }
}

func WithScreenshotDir(dir string) Option {
	return func(c *RunConfig) { c.screenshotDir = dir }
}

func WithMentorLayout(l workbook.Layout) Option {
	return func(c *RunConfig) { c.mentorLayout = l }
}

func WithQuestionLayout(l workbook.Layout) Option {
	return func(c *RunConfig) { c.questionLayout = l }
}

// WithQuestionDelay sets the pause between questions. Negative values are treated as zero.
func WithQuestionDelay(d time.Duration) Option {
	return func(c *RunConfig) { c.questionDelay = max(d, 0) }
}

// WithTimeout bounds the whole run. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(c *RunConfig) { c.timeout = max(d, 0) }
}

func WithVerbose(v bool) Option {
	return func(c *RunConfig) { c.verbose = v }
}

func (c *RunConfig) ConfigPath() string { return c.configPath }

// QuestionsPath returns the question source, which is the config workbook
// unless a separate file was given.
func (c *RunConfig) QuestionsPath() string {
	if c.questionsPath == "" {
		return c.configPath
	}
	return c.questionsPath
}

func (c *RunConfig) OutputDir() string { return c.outputDir }
func (c *RunConfig) SummaryPath() string { return c.summaryPath }
func (c *RunConfig) ScreenshotDir() string { return c.screenshotDir }
func (c *RunConfig) MentorLayout() workbook.Layout { return c.mentorLayout }
func (c *RunConfig) QuestionLayout() workbook.Layout { return c.questionLayout }
func (c *RunConfig) QuestionDelay() time.Duration { return c.questionDelay }
func (c *RunConfig) Timeout() time.Duration { return c.timeout }
func (c *RunConfig) Verbose() bool { return c.verbose }
