package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spboyer/mentorqa/internal/capture"
	"github.com/spboyer/mentorqa/internal/config"
	"github.com/spboyer/mentorqa/internal/graders"
	"github.com/spboyer/mentorqa/internal/models"
	"github.com/spboyer/mentorqa/internal/orchestration"
	"github.com/spboyer/mentorqa/internal/projectconfig"
	"github.com/spboyer/mentorqa/internal/results"
	"github.com/spboyer/mentorqa/internal/spinner"
	"github.com/spf13/cobra"
)

var (
	questionsPath  string
	outputDir      string
	summaryPath    string
	questionDelay  time.Duration
	runTimeout     time.Duration
	captureType    string
	graderType     string
	headless       bool
	maxMentorRow   int
	maxQuestionRow int
	verbose        bool
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <config.xlsx>",
		Short: "Evaluate every mentor in a configuration workbook",
		Long: `Evaluate every mentor listed in a configuration workbook.

Mentors are read from the LLM-Url sheet (column A: ID, column B: URL) and
questions from the Queries sheet (column A), unless --questions points at a
separate workbook or CSV file. Each answer is captured through the mentor's
web page, graded and appended to <output-dir>/<mentor>_<timestamp>.xlsx.

Settings are read from .mentorqa.yaml when present; flags override them.`,
		Args: cobra.ExactArgs(1),
		RunE: runCommandE,
	}

	cmd.Flags().StringVar(&questionsPath, "questions", "", "Workbook or CSV file with the questions (default: the config workbook)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for result workbooks (default: paths.output or ./output)")
	cmd.Flags().StringVar(&summaryPath, "summary", "", "Write the run summary as JSON to this file")
	cmd.Flags().DurationVar(&questionDelay, "delay", 0, "Pause between questions (default: run.question_delay_seconds or 5s)")
	cmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Stop the run after this long; 0 means no limit")
	cmd.Flags().StringVar(&captureType, "capture", "", "Capture engine: browser, mock (default: capture.type or browser)")
	cmd.Flags().StringVar(&graderType, "grader", "", "Grader: gemini, mock (default: grading.type or gemini)")
	cmd.Flags().BoolVar(&headless, "headless", false, "Run the browser without a window")
	cmd.Flags().IntVar(&maxMentorRow, "max-mentor-row", 0, "Last workbook row read for mentors")
	cmd.Flags().IntVar(&maxQuestionRow, "max-question-row", 0, "Last workbook row read for questions")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output with detailed progress")

	return cmd
}

func runCommandE(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pc, err := loadProjectConfig(ctx)
	if err != nil {
		return err
	}
	applyRunFlags(pc)

	cfg := newRunConfig(cmd, args[0], pc)

	engine, err := newCaptureEngine(pc, cfg)
	if err != nil {
		return err
	}
	grader, err := graders.Create(ctx, graders.Type(pc.Grading.Type), pc.Grading.Config)
	if err != nil {
		return fmt.Errorf("failed to create grader: %w", err)
	}

	runner := orchestration.NewRunner(cfg,
		orchestration.NewWorkbookSource(cfg),
		engine,
		grader,
		orchestration.SpreadsheetSink{Sink: results.NewSink(cfg.OutputDir())},
		orchestration.WithHooks(pc.Hooks),
	)

	out := cmd.OutOrStdout()
	progress := newProgressPrinter(out, verbose)
	defer progress.stopSpinner()
	runner.OnProgress(progress.handle)

	fmt.Fprintf(out, "Running evaluation: %s\n", cfg.ConfigPath())                //nolint:errcheck
	fmt.Fprintf(out, "Questions: %s\n", cfg.QuestionsPath())                      //nolint:errcheck
	fmt.Fprintf(out, "Capture: %s  Grader: %s\n", pc.Capture.Type, grader.Name()) //nolint:errcheck
	fmt.Fprintf(out, "Output: %s\n", cfg.OutputDir())                             //nolint:errcheck
	fmt.Fprintf(out, "Run ID: %s\n\n", runner.RunID())                            //nolint:errcheck

	summary, runErr := runner.Run(ctx)
	progress.stopSpinner()

	if summary != nil {
		printSummary(out, summary)

		if cfg.SummaryPath() != "" {
			if err := saveSummary(summary, cfg.SummaryPath()); err != nil {
				return fmt.Errorf("failed to save summary: %w", err)
			}
			fmt.Fprintf(out, "Summary saved to: %s\n", cfg.SummaryPath()) //nolint:errcheck
		}
	}

	if runErr != nil {
		return fmt.Errorf("evaluation failed: %w", runErr)
	}

	if summary.HasFailures() {
		return &QuestionFailureError{
			Message: fmt.Sprintf("evaluation completed with %d failed and %d skipped question(s)", summary.TotalFailed, summary.TotalSkipped),
		}
	}

	return nil
}

// loadProjectConfig reads .mentorqa.yaml and the environment.
func loadProjectConfig(ctx context.Context) (*projectconfig.ProjectConfig, error) {
	pc, err := projectconfig.Load(".")
	if err != nil {
		return nil, err
	}
	env, err := projectconfig.LoadEnv(ctx)
	if err != nil {
		return nil, err
	}
	pc.ApplyEnv(env)
	return pc, nil
}

// applyRunFlags overlays engine and workbook flags onto the project config.
func applyRunFlags(pc *projectconfig.ProjectConfig) {
	if captureType != "" {
		pc.Capture.Type = captureType
	}
	if graderType != "" {
		pc.Grading.Type = graderType
	}
	if headless {
		pc.Capture.Config["headless"] = true
	}
	if maxMentorRow > 0 {
		pc.Workbook.MaxMentorRow = maxMentorRow
	}
	if maxQuestionRow > 0 {
		pc.Workbook.MaxQuestionRow = maxQuestionRow
	}
}

// newRunConfig resolves the per-run settings. Paths given as flags are
// relative to the working directory; paths from .mentorqa.yaml are relative
// to the file.
func newRunConfig(cmd *cobra.Command, configPath string, pc *projectconfig.ProjectConfig) *config.RunConfig {
	flags := cmd.Flags()

	out := pc.OutputDir()
	if outputDir != "" {
		out = outputDir
	}
	delay := time.Duration(pc.QuestionDelaySeconds()) * time.Second
	if flags.Changed("delay") {
		delay = questionDelay
	}
	timeout := time.Duration(pc.Run.TimeoutSeconds) * time.Second
	if flags.Changed("timeout") {
		timeout = runTimeout
	}

	return config.NewRunConfig(configPath,
		config.WithQuestionsPath(questionsPath),
		config.WithOutputDir(out),
		config.WithSummaryPath(summaryPath),
		config.WithScreenshotDir(pc.ScreenshotDir()),
		config.WithMentorLayout(pc.MentorLayout()),
		config.WithQuestionLayout(pc.QuestionLayout()),
		config.WithQuestionDelay(delay),
		config.WithTimeout(timeout),
		config.WithVerbose(verbose),
	)
}

func newCaptureEngine(pc *projectconfig.ProjectConfig, cfg *config.RunConfig) (capture.Engine, error) {
	params := maps.Clone(pc.Capture.Config)
	if params == nil {
		params = map[string]any{}
	}
	if _, ok := params["screenshot_dir"]; !ok && cfg.ScreenshotDir() != "" {
		params["screenshot_dir"] = cfg.ScreenshotDir()
	}

	engine, err := capture.Create(capture.Type(pc.Capture.Type), params)
	if err != nil {
		return nil, fmt.Errorf("failed to create capture engine: %w", err)
	}
	return engine, nil
}

// progressPrinter renders runner events. The delay between questions is
// shown as a spinner on terminals.
type progressPrinter struct {
	w       io.Writer
	verbose bool
	stop    func()
}

func newProgressPrinter(w io.Writer, verbose bool) *progressPrinter {
	return &progressPrinter{w: w, verbose: verbose}
}

func (p *progressPrinter) stopSpinner() {
	if p.stop != nil {
		p.stop()
		p.stop = nil
	}
}

func (p *progressPrinter) handle(event orchestration.ProgressEvent) {
	p.stopSpinner()

	if event.EventType == orchestration.EventWaiting {
		d := time.Duration(event.DurationMs) * time.Millisecond
		p.stop = spinner.StartOnTerminal(p.w, fmt.Sprintf("Waiting %v before the next question...", d))
		return
	}

	if p.verbose {
		verboseProgressListener(p.w, event)
	} else {
		simpleProgressListener(p.w, event)
	}
}

func verboseProgressListener(w io.Writer, event orchestration.ProgressEvent) {
	switch event.EventType {
	case orchestration.EventRunStart:
		fmt.Fprintf(w, "Evaluating %d mentor(s) with %d question(s)...\n\n", event.TotalMentors, event.TotalQuestions) //nolint:errcheck
	case orchestration.EventMentorStart:
		fmt.Fprintf(w, "[%d/%d] Mentor: %s (%v)\n", event.MentorNum, event.TotalMentors, event.MentorID, event.Details["endpoint"]) //nolint:errcheck
	case orchestration.EventQuestionStart:
		fmt.Fprintf(w, "  [%d/%d] %s\n", event.QuestionNum, event.TotalQuestions, truncate(event.Question, 80)) //nolint:errcheck
	case orchestration.EventQuestionComplete:
		duration := time.Duration(event.DurationMs) * time.Millisecond
		fmt.Fprintf(w, "    %s %s score=%v (%v)\n", statusIcon(event.Status), event.Status, event.Details["score"], duration) //nolint:errcheck
		if resp, ok := event.Details["response"].(string); ok && resp != "" {
			fmt.Fprintf(w, "    [RESPONSE] %s\n", truncate(resp, 200)) //nolint:errcheck
		}
	case orchestration.EventMentorComplete:
		if output, ok := event.Details["output"].(string); ok && output != "" {
			fmt.Fprintf(w, "  Results saved to: %s\n", output) //nolint:errcheck
		}
		fmt.Fprintf(w, "  Mentor %s: %s\n\n", event.MentorID, event.Status) //nolint:errcheck
	case orchestration.EventRunComplete:
		duration := time.Duration(event.DurationMs) * time.Millisecond
		fmt.Fprintf(w, "Evaluation completed in %v\n\n", duration) //nolint:errcheck
	}
}

func simpleProgressListener(w io.Writer, event orchestration.ProgressEvent) {
	switch event.EventType {
	case orchestration.EventQuestionComplete:
		fmt.Fprintf(w, "%s [%d/%d] %s: %s (score %v)\n", //nolint:errcheck
			statusIcon(event.Status), event.QuestionNum, event.TotalQuestions,
			event.MentorID, truncate(event.Question, 60), event.Details["score"])
	case orchestration.EventMentorComplete:
		fmt.Fprintf(w, "%s Mentor %d/%d %s done\n\n", statusIcon(event.Status), event.MentorNum, event.TotalMentors, event.MentorID) //nolint:errcheck
	}
}

func statusIcon(s models.Status) string {
	if s == models.StatusSuccess {
		return "✓"
	}
	return "✗"
}

// truncate shortens s to maxWidth terminal columns, appending "..." if truncated.
func truncate(s string, maxWidth int) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, maxWidth, "...")
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

func printSummary(w io.Writer, summary *models.RunSummary) {
	fmt.Fprintln(w, "="+strings.Repeat("=", 50)) //nolint:errcheck
	fmt.Fprintln(w, " EVALUATION SUMMARY")       //nolint:errcheck
	fmt.Fprintln(w, "="+strings.Repeat("=", 50)) //nolint:errcheck
	fmt.Fprintln(w)                              //nolint:errcheck

	if summary.ConfigError != "" {
		fmt.Fprintf(w, "Configuration error: %s\n\n", summary.ConfigError) //nolint:errcheck
		return
	}

	fmt.Fprintf(w, "Mentors:        %d\n", len(summary.Mentors))   //nolint:errcheck
	fmt.Fprintf(w, "Processed:      %d\n", summary.TotalProcessed) //nolint:errcheck
	fmt.Fprintf(w, "Failed:         %d\n", summary.TotalFailed)    //nolint:errcheck
	fmt.Fprintf(w, "Skipped:        %d\n", summary.TotalSkipped)   //nolint:errcheck
	if !summary.FinishedAt.IsZero() {
		duration := summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond)
		fmt.Fprintf(w, "Duration:       %v\n", duration) //nolint:errcheck
	}
	if summary.Interrupted {
		fmt.Fprintln(w, "Interrupted:    yes (timeout or cancellation)") //nolint:errcheck
	}
	fmt.Fprintln(w) //nolint:errcheck

	if len(summary.Mentors) == 0 {
		fmt.Fprintln(w, "No mentors were evaluated.") //nolint:errcheck
		fmt.Fprintln(w)                               //nolint:errcheck
		return
	}

	// Per-mentor breakdown
	nameWidth := 0
	for _, m := range summary.Mentors {
		nameWidth = max(nameWidth, runewidth.StringWidth(m.MentorID))
	}
	fmt.Fprintln(w, "-"+strings.Repeat("-", 50)) //nolint:errcheck
	fmt.Fprintln(w, " PER-MENTOR BREAKDOWN")     //nolint:errcheck
	fmt.Fprintln(w, "-"+strings.Repeat("-", 50)) //nolint:errcheck
	for _, m := range summary.Mentors {
		status := models.StatusSuccess
		if !m.Complete() {
			status = models.StatusFailed
		}
		fmt.Fprintf(w, "  %s %s  processed=%d  failed=%d  skipped=%d", //nolint:errcheck
			statusIcon(status), padRight(m.MentorID, nameWidth), m.Processed, m.Failed, m.Skipped)
		if m.Scored > 0 {
			fmt.Fprintf(w, "  avg=%.2f  min=%.0f  max=%.0f", m.AvgScore, m.MinScore, m.MaxScore) //nolint:errcheck
		}
		fmt.Fprintln(w) //nolint:errcheck
		if m.SetupError != "" {
			fmt.Fprintf(w, "      error: %s\n", m.SetupError) //nolint:errcheck
		}
		if m.OutputPath != "" {
			fmt.Fprintf(w, "      file: %s\n", m.OutputPath) //nolint:errcheck
		}
	}
	fmt.Fprintln(w) //nolint:errcheck

	if len(summary.Successful) > 0 {
		fmt.Fprintln(w, "Successful mentors:") //nolint:errcheck
		for _, id := range summary.Successful {
			fmt.Fprintf(w, "  - %s\n", id) //nolint:errcheck
		}
		fmt.Fprintln(w) //nolint:errcheck
	}
	if len(summary.WithIssues) > 0 {
		fmt.Fprintln(w, "Mentors with issues:") //nolint:errcheck
		for _, label := range summary.WithIssues {
			fmt.Fprintf(w, "  - %s\n", label) //nolint:errcheck
		}
		fmt.Fprintln(w) //nolint:errcheck
	}
}

func saveSummary(summary *models.RunSummary, path string) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
