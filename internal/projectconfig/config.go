// Package projectconfig provides the ProjectConfig struct and loader for
// .mentorqa.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/spboyer/mentorqa/internal/hooks"
	"github.com/spboyer/mentorqa/internal/utils"
	"github.com/spboyer/mentorqa/internal/workbook"
	"gopkg.in/yaml.v3"
)

// FileName is the project config file looked up from the working directory.
const FileName = ".mentorqa.yaml"

// Default values for project configuration. These are the single source of
// truth: New() references them and no other code should duplicate them.
const (
	DefaultOutputDir = "output"

	DefaultCaptureType = "browser"
	DefaultGradingType = "gemini"

	DefaultQuestionDelaySeconds = 5
	DefaultRunTimeoutSeconds    = 0

	maxSearchDepth = 10
)

// PathsConfig holds output locations.
type PathsConfig struct {
	Output string `yaml:"output,omitempty"`
	// Screenshots receives a page screenshot for every failed capture. Empty disables it.
	Screenshots string `yaml:"screenshots,omitempty"`
}

// WorkbookConfig locates the mentor and question lists in the configuration workbook.
type WorkbookConfig struct {
	MentorSheet      string `yaml:"mentor_sheet,omitempty"`
	QuestionSheet    string `yaml:"question_sheet,omitempty"`
	MentorStartRow   int    `yaml:"mentor_start_row,omitempty"`
	QuestionStartRow int    `yaml:"question_start_row,omitempty"`
	MaxMentorRow     int    `yaml:"max_mentor_row,omitempty"`
	MaxQuestionRow   int    `yaml:"max_question_row,omitempty"`
}

// EngineConfig selects an implementation by type and carries its free-form
// settings, decoded by the implementation.
type EngineConfig struct {
	Type   string         `yaml:"type,omitempty"`
	Config map[string]any `yaml:"config,omitempty"`
}

// RunConfig holds pacing and bounds for a run.
type RunConfig struct {
	QuestionDelaySeconds *int `yaml:"question_delay_seconds,omitempty"`
	// TimeoutSeconds bounds the whole run; 0 means unbounded.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .mentorqa.yaml.
type ProjectConfig struct {
	Paths    PathsConfig       `yaml:"paths,omitempty"`
	Workbook WorkbookConfig    `yaml:"workbook,omitempty"`
	Capture  EngineConfig      `yaml:"capture,omitempty"`
	Grading  EngineConfig      `yaml:"grading,omitempty"`
	Run      RunConfig         `yaml:"run,omitempty"`
	Hooks    hooks.HooksConfig `yaml:"hooks,omitempty"`

	// Dir is the directory of the loaded file, or "" when defaults are used.
	Dir string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Output: DefaultOutputDir,
		},
		Workbook: WorkbookConfig{
			MentorSheet:      workbook.DefaultMentorSheet,
			QuestionSheet:    workbook.DefaultQuestionSheet,
			MentorStartRow:   workbook.DefaultStartRow,
			QuestionStartRow: workbook.DefaultStartRow,
			MaxMentorRow:     workbook.DefaultMentorMaxRow,
			MaxQuestionRow:   workbook.DefaultQuestionMaxRow,
		},
		Capture: EngineConfig{
			Type:   DefaultCaptureType,
			Config: map[string]any{},
		},
		Grading: EngineConfig{
			Type:   DefaultGradingType,
			Config: map[string]any{},
		},
		Run: RunConfig{
			QuestionDelaySeconds: intPtr(DefaultQuestionDelaySeconds),
			TimeoutSeconds:       DefaultRunTimeoutSeconds,
		},
	}
}

// MentorLayout returns the workbook layout of the mentor list.
func (c *ProjectConfig) MentorLayout() workbook.Layout {
	return workbook.Layout{
		Sheet:    c.Workbook.MentorSheet,
		StartRow: c.Workbook.MentorStartRow,
		MaxRow:   c.Workbook.MaxMentorRow,
	}
}

// QuestionLayout returns the workbook layout of the question list.
func (c *ProjectConfig) QuestionLayout() workbook.Layout {
	return workbook.Layout{
		Sheet:    c.Workbook.QuestionSheet,
		StartRow: c.Workbook.QuestionStartRow,
		MaxRow:   c.Workbook.MaxQuestionRow,
	}
}

// Load finds .mentorqa.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, path, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	mergeConfig(cfg, &fileCfg)
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .mentorqa.yaml and returns
// its content and path. Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) ([]byte, string, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < maxSearchDepth; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, p, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, "", os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Paths
	if src.Paths.Output != "" {
		dst.Paths.Output = src.Paths.Output
	}
	if src.Paths.Screenshots != "" {
		dst.Paths.Screenshots = src.Paths.Screenshots
	}

	// Workbook
	if src.Workbook.MentorSheet != "" {
		dst.Workbook.MentorSheet = src.Workbook.MentorSheet
	}
	if src.Workbook.QuestionSheet != "" {
		dst.Workbook.QuestionSheet = src.Workbook.QuestionSheet
	}
	if src.Workbook.MentorStartRow != 0 {
		dst.Workbook.MentorStartRow = src.Workbook.MentorStartRow
	}
	if src.Workbook.QuestionStartRow != 0 {
		dst.Workbook.QuestionStartRow = src.Workbook.QuestionStartRow
	}
	if src.Workbook.MaxMentorRow != 0 {
		dst.Workbook.MaxMentorRow = src.Workbook.MaxMentorRow
	}
	if src.Workbook.MaxQuestionRow != 0 {
		dst.Workbook.MaxQuestionRow = src.Workbook.MaxQuestionRow
	}

	// Engines
	mergeEngine(&dst.Capture, &src.Capture)
	mergeEngine(&dst.Grading, &src.Grading)

	// Run
	if src.Run.QuestionDelaySeconds != nil {
		dst.Run.QuestionDelaySeconds = src.Run.QuestionDelaySeconds
	}
	if src.Run.TimeoutSeconds != 0 {
		dst.Run.TimeoutSeconds = src.Run.TimeoutSeconds
	}

	// Hooks
	if src.Hooks.BeforeRun != nil {
		dst.Hooks.BeforeRun = src.Hooks.BeforeRun
	}
	if src.Hooks.AfterRun != nil {
		dst.Hooks.AfterRun = src.Hooks.AfterRun
	}
	if src.Hooks.BeforeMentor != nil {
		dst.Hooks.BeforeMentor = src.Hooks.BeforeMentor
	}
	if src.Hooks.AfterMentor != nil {
		dst.Hooks.AfterMentor = src.Hooks.AfterMentor
	}
}

func mergeEngine(dst, src *EngineConfig) {
	if src.Type != "" && src.Type != dst.Type {
		// Settings of a different implementation do not carry over.
		dst.Type = src.Type
		dst.Config = map[string]any{}
	}
	if dst.Config == nil {
		dst.Config = map[string]any{}
	}
	maps.Copy(dst.Config, src.Config)
}

// OutputDir returns Paths.Output resolved against the config file's directory.
func (c *ProjectConfig) OutputDir() string {
	return c.resolve(c.Paths.Output)
}

// ScreenshotDir returns Paths.Screenshots resolved like OutputDir, or "" when unset.
func (c *ProjectConfig) ScreenshotDir() string {
	if c.Paths.Screenshots == "" {
		return ""
	}
	return c.resolve(c.Paths.Screenshots)
}

func (c *ProjectConfig) resolve(p string) string {
	return utils.ResolvePath(p, c.Dir)
}

// QuestionDelaySeconds returns the configured delay, or the default when unset.
func (c *ProjectConfig) QuestionDelaySeconds() int {
	if c.Run.QuestionDelaySeconds == nil {
		return DefaultQuestionDelaySeconds
	}
	return *c.Run.QuestionDelaySeconds
}

func intPtr(i int) *int {
	return &i
}
