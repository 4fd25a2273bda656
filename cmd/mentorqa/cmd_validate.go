package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spboyer/mentorqa/internal/models"
	"github.com/spboyer/mentorqa/internal/workbook"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentProbes = 8

// probeResult is the reachability of one mentor endpoint.
type probeResult struct {
	Mentor   models.MentorSpec
	Status   int
	Duration time.Duration
	Err      error
}

func (p probeResult) ok() bool {
	return p.Err == nil && p.Status < http.StatusBadRequest
}

func newValidateCommand() *cobra.Command {
	var (
		questions    string
		probe        bool
		probeTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "validate <config.xlsx>",
		Short: "Check a configuration workbook without running an evaluation",
		Long: `Read the configuration workbook and report the mentors and questions
that a run would use, including rows that would be skipped.

With --probe, every mentor endpoint is also requested once (concurrently)
to check that it is reachable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateCommandE(cmd, args[0], questions, probe, probeTimeout)
		},
	}

	cmd.Flags().StringVar(&questions, "questions", "", "Workbook or CSV file with the questions (default: the config workbook)")
	cmd.Flags().BoolVar(&probe, "probe", false, "Check that every mentor endpoint responds")
	cmd.Flags().DurationVar(&probeTimeout, "probe-timeout", 10*time.Second, "Timeout for each endpoint probe")

	return cmd
}

func validateCommandE(cmd *cobra.Command, configPath, questionsFile string, probe bool, probeTimeout time.Duration) error {
	pc, err := loadProjectConfig(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	mentors, mentorStats, err := workbook.LoadMentors(configPath, pc.MentorLayout())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if questionsFile == "" {
		questionsFile = configPath
	}
	questions, questionStats, err := workbook.LoadQuestions(questionsFile, pc.QuestionLayout())
	if err != nil {
		return fmt.Errorf("invalid questions: %w", err)
	}

	fmt.Fprintf(out, "Configuration: %s\n", configPath)                                                      //nolint:errcheck
	fmt.Fprintf(out, "Mentors:   %d (%d row(s) skipped)\n", mentorStats.Included, mentorStats.Skipped)       //nolint:errcheck
	fmt.Fprintf(out, "Questions: %d (%d row(s) skipped)\n\n", questionStats.Included, questionStats.Skipped) //nolint:errcheck

	if len(mentors) > 0 {
		table := createStandardTable([]string{"#", "Mentor", "Endpoint"}, out)
		for i, m := range mentors {
			_ = table.Append([]string{strconv.Itoa(i + 1), m.ID, m.Endpoint})
		}
		_ = table.Render()
		fmt.Fprintln(out) //nolint:errcheck
	}

	if len(mentors) == 0 || len(questions) == 0 {
		fmt.Fprintln(out, "Nothing to evaluate: a run would finish without processing any question.") //nolint:errcheck
	}

	if !probe || len(mentors) == 0 {
		return nil
	}

	results := probeEndpoints(cmd.Context(), http.DefaultClient, mentors, probeTimeout)
	printProbeResults(out, results)

	unreachable := 0
	for _, r := range results {
		if !r.ok() {
			unreachable++
		}
	}
	if unreachable > 0 {
		return fmt.Errorf("%d of %d endpoint(s) unreachable", unreachable, len(results))
	}
	return nil
}

// probeEndpoints requests every endpoint once. Results keep the order of mentors.
func probeEndpoints(ctx context.Context, client *http.Client, mentors []models.MentorSpec, timeout time.Duration) []probeResult {
	results := make([]probeResult, len(mentors))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentProbes)
	for i, m := range mentors {
		g.Go(func() error {
			results[i] = probeEndpoint(ctx, client, m, timeout)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func probeEndpoint(ctx context.Context, client *http.Client, m models.MentorSpec, timeout time.Duration) probeResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	status, err := fetchStatus(ctx, client, m.Endpoint)
	return probeResult{Mentor: m, Status: status, Duration: time.Since(start), Err: err}
}

func fetchStatus(ctx context.Context, client *http.Client, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close() //nolint:errcheck
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	return resp.StatusCode, nil
}

func printProbeResults(w io.Writer, results []probeResult) {
	table := createStandardTable([]string{"", "Mentor", "Status", "Time"}, w)
	for _, r := range results {
		icon := "✓"
		if !r.ok() {
			icon = "✗"
		}
		status := fmt.Sprintf("%d %s", r.Status, http.StatusText(r.Status))
		if r.Err != nil {
			status = r.Err.Error()
		}
		_ = table.Append([]string{icon, r.Mentor.ID, status, r.Duration.Round(time.Millisecond).String()})
	}
	_ = table.Render()
}

// createStandardTable creates a markdown-style table with left-aligned cells.
func createStandardTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 120,
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}
