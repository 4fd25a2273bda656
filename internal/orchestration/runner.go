// Package orchestration drives an evaluation run: every question of the
// battery is submitted to every mentor, graded and persisted in order.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spboyer/mentorqa/internal/capture"
	"github.com/spboyer/mentorqa/internal/config"
	"github.com/spboyer/mentorqa/internal/graders"
	"github.com/spboyer/mentorqa/internal/hooks"
	"github.com/spboyer/mentorqa/internal/models"
	"github.com/spboyer/mentorqa/internal/scoring"
)

// ErrMentorSetup is recorded when a mentor could not be started, e.g. its
// results file could not be created.
var ErrMentorSetup = errors.New("mentor setup failed")

// Runner orchestrates an evaluation run
type Runner struct {
	cfg    *config.RunConfig
	source ConfigSource
	engine capture.Engine
	grader graders.Grader
	sink   ResultSink

	runID string
	now   func() time.Time

	// Lifecycle hooks
	hooks      hooks.HooksConfig
	hookRunner *hooks.Runner

	// Progress tracking
	progressMu sync.Mutex
	listeners  []ProgressListener
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithHooks sets the lifecycle hooks run around the run and each mentor.
func WithHooks(h hooks.HooksConfig) RunnerOption {
	return func(r *Runner) {
		r.hooks = h
	}
}

// WithRunID overrides the generated run ID.
func WithRunID(id string) RunnerOption {
	return func(r *Runner) {
		r.runID = id
	}
}

func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner creates a new runner
func NewRunner(cfg *config.RunConfig, source ConfigSource, engine capture.Engine, grader graders.Grader, sink ResultSink, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:        cfg,
		source:     source,
		engine:     engine,
		grader:     grader,
		sink:       sink,
		runID:      uuid.NewString(),
		now:        time.Now,
		hookRunner: &hooks.Runner{Verbose: cfg.Verbose()},
		listeners:  []ProgressListener{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// RunID identifies this run in hooks and the summary.
func (r *Runner) RunID() string {
	return r.runID
}

// Run processes every mentor in order and returns the run summary.
//
// A configuration that cannot be loaded yields a summary with ConfigError
// set and the wrapped error. Per-question and per-mentor failures are
// recorded in the summary and never returned. When ctx is done or the run
// timeout expires, the in-flight question is recorded as failed, the rest
// are counted as skipped and the summary is marked Interrupted.
func (r *Runner) Run(ctx context.Context) (*models.RunSummary, error) {
	summary := models.NewRunSummary(r.runID, r.now())
	defer func() {
		summary.FinishedAt = r.now()
	}()

	mentors, questions, err := r.loadConfig()
	if err != nil {
		summary.ConfigError = err.Error()
		return summary, err
	}
	if len(mentors) == 0 || len(questions) == 0 {
		log.Warn().Int("mentors", len(mentors)).Int("questions", len(questions)).Msg("nothing to evaluate")
		return summary, nil
	}

	if timeout := r.cfg.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	// Cleanup must still run after the run context is done.
	cleanupCtx := context.WithoutCancel(ctx)

	// Initialize engine
	if err := r.engine.Initialize(ctx); err != nil {
		return summary, fmt.Errorf("failed to initialize capture engine: %w", err)
	}
	defer func() {
		if err := r.engine.Shutdown(cleanupCtx); err != nil {
			log.Warn().Err(err).Msg("failed to shutdown capture engine")
		}
	}()

	runEvent := hooks.Event{RunID: r.runID}

	// Run after_run hooks on exit (even on error)
	defer func() {
		if len(r.hooks.AfterRun) > 0 {
			if err := r.hookRunner.Execute(cleanupCtx, "after_run", r.hooks.AfterRun, runEvent); err != nil {
				log.Warn().Err(err).Msg("after_run hook error")
			}
		}
	}()

	if len(r.hooks.BeforeRun) > 0 {
		if err := r.hookRunner.Execute(ctx, "before_run", r.hooks.BeforeRun, runEvent); err != nil {
			return summary, fmt.Errorf("before_run hook failed: %w", err)
		}
	}

	r.notifyProgress(ProgressEvent{
		EventType:      EventRunStart,
		TotalMentors:   len(mentors),
		TotalQuestions: len(questions),
		Details:        map[string]any{"run_id": r.runID},
	})

	for i, mentor := range mentors {
		var ms models.MentorSummary
		if ctx.Err() != nil {
			ms = models.MentorSummary{MentorID: mentor.ID, Endpoint: mentor.Endpoint, Skipped: len(questions)}
		} else {
			ms = r.runMentor(ctx, mentor, i+1, len(mentors), questions)
		}
		summary.Add(ms)
	}

	if err := ctx.Err(); err != nil {
		summary.Interrupted = true
		log.Warn().Err(err).Int("skipped", summary.TotalSkipped).Msg("run stopped before all questions were processed")
	}

	r.notifyProgress(ProgressEvent{
		EventType:    EventRunComplete,
		TotalMentors: len(mentors),
		DurationMs:   r.now().Sub(summary.StartedAt).Milliseconds(),
		Details: map[string]any{
			"processed": summary.TotalProcessed,
			"failed":    summary.TotalFailed,
			"skipped":   summary.TotalSkipped,
		},
	})

	return summary, nil
}

func (r *Runner) loadConfig() ([]models.MentorSpec, []string, error) {
	mentors, err := r.source.Mentors()
	if err != nil {
		return nil, nil, fmt.Errorf("loading mentors: %w", err)
	}
	questions, err := r.source.Questions()
	if err != nil {
		return nil, nil, fmt.Errorf("loading questions: %w", err)
	}
	return mentors, questions, nil
}

// runMentor submits every question to one mentor. Failures stay inside the
// returned summary.
func (r *Runner) runMentor(ctx context.Context, mentor models.MentorSpec, mentorNum, totalMentors int, questions []string) models.MentorSummary {
	start := r.now()
	ms := models.MentorSummary{MentorID: mentor.ID, Endpoint: mentor.Endpoint}
	logger := log.With().Str("mentor", mentor.ID).Logger()

	r.notifyProgress(ProgressEvent{
		EventType:      EventMentorStart,
		MentorID:       mentor.ID,
		MentorNum:      mentorNum,
		TotalMentors:   totalMentors,
		TotalQuestions: len(questions),
		Details:        map[string]any{"endpoint": mentor.Endpoint},
	})

	finish := func() models.MentorSummary {
		ms.DurationMs = r.now().Sub(start).Milliseconds()
		status := models.StatusSuccess
		if !ms.Complete() {
			status = models.StatusFailed
		}
		r.notifyProgress(ProgressEvent{
			EventType:    EventMentorComplete,
			MentorID:     mentor.ID,
			MentorNum:    mentorNum,
			TotalMentors: totalMentors,
			Status:       status,
			DurationMs:   ms.DurationMs,
			Details: map[string]any{
				"processed": ms.Processed,
				"failed":    ms.Failed,
				"skipped":   ms.Skipped,
				"output":    ms.OutputPath,
			},
		})
		return ms
	}

	event := hooks.Event{RunID: r.runID, MentorID: mentor.ID, Endpoint: mentor.Endpoint}

	w, err := r.openMentor(ctx, mentor, event)
	if err != nil {
		logger.Error().Err(err).Msg("skipping mentor")
		ms.SetupError = err.Error()
		ms.Failed = len(questions)
		return finish()
	}
	ms.OutputPath = w.Path()
	event.OutputFile = w.Path()

	for j, question := range questions {
		if ctx.Err() != nil {
			ms.Skipped = len(questions) - j
			break
		}

		r.notifyProgress(ProgressEvent{
			EventType:      EventQuestionStart,
			MentorID:       mentor.ID,
			MentorNum:      mentorNum,
			TotalMentors:   totalMentors,
			Question:       question,
			QuestionNum:    j + 1,
			TotalQuestions: len(questions),
		})

		qStart := r.now()
		row := r.evaluate(ctx, mentor, question)

		saved := true
		if err := w.AppendRow(row); err != nil {
			logger.Error().Err(err).Int("question", j+1).Msg("failed to save result row, recording it as failed")
			row = models.NewFailedRow(question, err.Error(), r.now())
			if err := w.AppendRow(row); err != nil {
				logger.Error().Err(err).Int("question", j+1).Msg("failed to save error row")
				saved = false
			}
		}
		if saved {
			ms.Attempted++
		}
		if row.Succeeded() {
			ms.Processed++
			ms.RecordScore(row.Score)
		} else {
			ms.Failed++
		}

		r.notifyProgress(ProgressEvent{
			EventType:      EventQuestionComplete,
			MentorID:       mentor.ID,
			MentorNum:      mentorNum,
			TotalMentors:   totalMentors,
			Question:       question,
			QuestionNum:    j + 1,
			TotalQuestions: len(questions),
			Status:         row.Status,
			DurationMs:     r.now().Sub(qStart).Milliseconds(),
			Details:        rowDetails(row),
		})

		if j < len(questions)-1 {
			r.pause(ctx, mentor.ID)
		}
	}

	if err := w.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close results file")
	}

	if len(r.hooks.AfterMentor) > 0 {
		if err := r.hookRunner.Execute(context.WithoutCancel(ctx), "after_mentor", r.hooks.AfterMentor, event); err != nil {
			logger.Warn().Err(err).Msg("after_mentor hook error")
		}
	}

	return finish()
}

// openMentor runs before_mentor hooks and creates the mentor's artifact.
func (r *Runner) openMentor(ctx context.Context, mentor models.MentorSpec, event hooks.Event) (RowWriter, error) {
	if len(r.hooks.BeforeMentor) > 0 {
		if err := r.hookRunner.Execute(ctx, "before_mentor", r.hooks.BeforeMentor, event); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMentorSetup, err)
		}
	}

	w, err := r.sink.Open(mentor.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMentorSetup, err)
	}
	return w, nil
}

// evaluate captures and grades one question. It always returns a row: a
// failed capture or an interrupted grading becomes a Failed row, and an
// answer that could not be graded is kept with no score.
func (r *Runner) evaluate(ctx context.Context, mentor models.MentorSpec, question string) models.OutputRow {
	logger := log.With().Str("mentor", mentor.ID).Str("question", question).Logger()

	result := r.engine.Fetch(ctx, mentor.Endpoint, question)
	if !result.Succeeded() {
		logger.Warn().Err(result.Err).Msg("capture failed")
		return models.NewFailedRow(question, result.Detail(), r.now())
	}

	score := models.NoScore
	evaluation, err := r.grader.Grade(ctx, question, result.Response)
	if err != nil && ctx.Err() != nil {
		logger.Warn().Err(err).Msg("interrupted while grading")
		return models.NewFailedRow(question, err.Error(), r.now())
	}
	if err != nil {
		logger.Warn().Err(err).Msg("grading unavailable, recording response without a score")
	} else {
		var tier scoring.Tier
		score, tier = scoring.ExtractTier(evaluation)
		if tier == scoring.TierNone {
			logger.Warn().Str("evaluation", evaluation).Msg("no score found in evaluation")
		} else {
			logger.Debug().Stringer("tier", tier).Int("score", score.Value).Msg("extracted score")
		}
	}

	return models.NewSuccessRow(question, result.Response, r.now(), score)
}

// pause waits the configured delay between questions, returning early when
// ctx is done.
func (r *Runner) pause(ctx context.Context, mentorID string) {
	d := r.cfg.QuestionDelay()
	if d <= 0 {
		return
	}

	r.notifyProgress(ProgressEvent{
		EventType:  EventWaiting,
		MentorID:   mentorID,
		DurationMs: d.Milliseconds(),
	})

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
