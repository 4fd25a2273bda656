package projectconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_ReturnsAllDefaults(t *testing.T) {
	cfg := New()

	// Paths
	assertEqual(t, "Paths.Output", "output", cfg.Paths.Output)
	assertEqual(t, "Paths.Screenshots", "", cfg.Paths.Screenshots)

	// Workbook
	assertEqual(t, "Workbook.MentorSheet", "LLM-Url", cfg.Workbook.MentorSheet)
	assertEqual(t, "Workbook.QuestionSheet", "Queries", cfg.Workbook.QuestionSheet)
	assertEqualInt(t, "Workbook.MentorStartRow", 2, cfg.Workbook.MentorStartRow)
	assertEqualInt(t, "Workbook.QuestionStartRow", 2, cfg.Workbook.QuestionStartRow)
	assertEqualInt(t, "Workbook.MaxMentorRow", 1000, cfg.Workbook.MaxMentorRow)
	assertEqualInt(t, "Workbook.MaxQuestionRow", 100, cfg.Workbook.MaxQuestionRow)

	// Engines
	assertEqual(t, "Capture.Type", "browser", cfg.Capture.Type)
	assertEqual(t, "Grading.Type", "gemini", cfg.Grading.Type)
	if cfg.Capture.Config == nil || cfg.Grading.Config == nil {
		t.Error("engine config maps should be non-nil by default")
	}

	// Run
	assertEqualInt(t, "Run.QuestionDelaySeconds", 5, cfg.QuestionDelaySeconds())
	assertEqualInt(t, "Run.TimeoutSeconds", 0, cfg.Run.TimeoutSeconds)

	// Hooks
	if len(cfg.Hooks.BeforeRun)+len(cfg.Hooks.AfterRun)+len(cfg.Hooks.BeforeMentor)+len(cfg.Hooks.AfterMentor) != 0 {
		t.Error("no hooks should be configured by default")
	}
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".mentorqa.yaml", `
paths:
  output: "results/"
  screenshots: "shots/"
workbook:
  mentor_sheet: Mentors
  question_sheet: Questions
  mentor_start_row: 3
  question_start_row: 4
  max_mentor_row: 50
  max_question_row: 20
capture:
  type: browser
  config:
    headless: true
    input_selector: "#prompt"
grading:
  type: gemini
  config:
    model: gemini-2.5-flash
    temperature: 0.2
run:
  question_delay_seconds: 0
  timeout_seconds: 3600
hooks:
  before_run:
    - command: echo start
  after_mentor:
    - command: echo "{{.MentorID}}"
      error_on_fail: true
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqual(t, "Paths.Output", "results/", cfg.Paths.Output)
	assertEqual(t, "Paths.Screenshots", "shots/", cfg.Paths.Screenshots)
	assertEqual(t, "Workbook.MentorSheet", "Mentors", cfg.Workbook.MentorSheet)
	assertEqual(t, "Workbook.QuestionSheet", "Questions", cfg.Workbook.QuestionSheet)
	assertEqualInt(t, "Workbook.MentorStartRow", 3, cfg.Workbook.MentorStartRow)
	assertEqualInt(t, "Workbook.QuestionStartRow", 4, cfg.Workbook.QuestionStartRow)
	assertEqualInt(t, "Workbook.MaxMentorRow", 50, cfg.Workbook.MaxMentorRow)
	assertEqualInt(t, "Workbook.MaxQuestionRow", 20, cfg.Workbook.MaxQuestionRow)
	assertEqual(t, "Capture.Type", "browser", cfg.Capture.Type)
	if cfg.Capture.Config["headless"] != true {
		t.Errorf("Capture.Config[headless] = %v, want true", cfg.Capture.Config["headless"])
	}
	if cfg.Capture.Config["input_selector"] != "#prompt" {
		t.Errorf("Capture.Config[input_selector] = %v, want #prompt", cfg.Capture.Config["input_selector"])
	}
	if cfg.Grading.Config["model"] != "gemini-2.5-flash" {
		t.Errorf("Grading.Config[model] = %v, want gemini-2.5-flash", cfg.Grading.Config["model"])
	}
	assertEqualInt(t, "Run.QuestionDelaySeconds", 0, cfg.QuestionDelaySeconds())
	assertEqualInt(t, "Run.TimeoutSeconds", 3600, cfg.Run.TimeoutSeconds)

	if len(cfg.Hooks.BeforeRun) != 1 || cfg.Hooks.BeforeRun[0].Command != "echo start" {
		t.Errorf("Hooks.BeforeRun = %+v", cfg.Hooks.BeforeRun)
	}
	if len(cfg.Hooks.AfterMentor) != 1 || !cfg.Hooks.AfterMentor[0].ErrorOnFail {
		t.Errorf("Hooks.AfterMentor = %+v", cfg.Hooks.AfterMentor)
	}

	ml := cfg.MentorLayout()
	if ml.Sheet != "Mentors" || ml.StartRow != 3 || ml.MaxRow != 50 {
		t.Errorf("MentorLayout() = %+v", ml)
	}
	ql := cfg.QuestionLayout()
	if ql.Sheet != "Questions" || ql.StartRow != 4 || ql.MaxRow != 20 {
		t.Errorf("QuestionLayout() = %+v", ql)
	}
}

func TestLoad_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".mentorqa.yaml", `
capture:
  type: mock
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Overridden
	assertEqual(t, "Capture.Type", "mock", cfg.Capture.Type)

	// Defaults preserved
	assertEqual(t, "Grading.Type", "gemini", cfg.Grading.Type)
	assertEqual(t, "Paths.Output", "output", cfg.Paths.Output)
	assertEqual(t, "Workbook.MentorSheet", "LLM-Url", cfg.Workbook.MentorSheet)
	assertEqualInt(t, "Run.QuestionDelaySeconds", 5, cfg.QuestionDelaySeconds())
}

func TestLoad_EngineTypeChangeResetsConfig(t *testing.T) {
	dst := New()
	dst.Grading.Config["model"] = "gemini-2.5-pro"

	mergeConfig(dst, &ProjectConfig{Grading: EngineConfig{
		Type:   "mock",
		Config: map[string]any{"response": "70"},
	}})

	assertEqual(t, "Grading.Type", "mock", dst.Grading.Type)
	if _, ok := dst.Grading.Config["model"]; ok {
		t.Error("gemini settings should not carry over to the mock grader")
	}
	if dst.Grading.Config["response"] != "70" {
		t.Errorf("Grading.Config[response] = %v, want 70", dst.Grading.Config["response"])
	}
}

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Should be identical to New()
	defaults := New()
	assertEqual(t, "Paths.Output", defaults.Paths.Output, cfg.Paths.Output)
	assertEqual(t, "Capture.Type", defaults.Capture.Type, cfg.Capture.Type)
	assertEqual(t, "Grading.Type", defaults.Grading.Type, cfg.Grading.Type)
	assertEqualInt(t, "Run.QuestionDelaySeconds", defaults.QuestionDelaySeconds(), cfg.QuestionDelaySeconds())
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".mentorqa.yaml", `
capture:
  type: [not valid yaml
    this is broken
`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load() should return error for invalid YAML")
	}
}

func TestLoad_WalksUpDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".mentorqa.yaml", `
paths:
  output: found-it
`)

	child := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(child)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqual(t, "Paths.Output", "found-it", cfg.Paths.Output)
	// Other defaults still populated
	assertEqual(t, "Capture.Type", "browser", cfg.Capture.Type)
}

func TestQuestionDelay_PointerDistinguishesZero(t *testing.T) {
	cfg := &ProjectConfig{}
	assertEqualInt(t, "unset", DefaultQuestionDelaySeconds, cfg.QuestionDelaySeconds())

	cfg.Run.QuestionDelaySeconds = intPtr(0)
	assertEqualInt(t, "explicit zero", 0, cfg.QuestionDelaySeconds())
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func assertEqual(t *testing.T, field, want, got string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func assertEqualInt(t *testing.T, field string, want, got int) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %d, want %d", field, got, want)
	}
}

func TestLoad_ResolvesPathsAgainstConfigDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".mentorqa.yaml", `
paths:
  output: results
  screenshots: /abs/shots
`)
	child := filepath.Join(root, "sub")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(child)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqual(t, "Dir", root, cfg.Dir)
	assertEqual(t, "OutputDir()", filepath.Join(root, "results"), cfg.OutputDir())
	assertEqual(t, "ScreenshotDir()", "/abs/shots", cfg.ScreenshotDir())

	defaults := New()
	assertEqual(t, "default OutputDir()", "output", defaults.OutputDir())
	assertEqual(t, "default ScreenshotDir()", "", defaults.ScreenshotDir())
}
