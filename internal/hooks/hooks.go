// Package hooks runs user-configured shell commands at run and mentor
// lifecycle points.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spboyer/mentorqa/internal/template"
)

// HookConfig defines a single hook command.
type HookConfig struct {
	Command          string `yaml:"command" json:"command"`
	WorkingDirectory string `yaml:"working_directory,omitempty" json:"working_directory,omitempty"`
	ExitCodes        []int  `yaml:"exit_codes,omitempty" json:"exit_codes,omitempty"`
	ErrorOnFail      bool   `yaml:"error_on_fail,omitempty" json:"error_on_fail,omitempty"`
}

// HooksConfig holds all lifecycle hooks.
type HooksConfig struct {
	BeforeRun    []HookConfig `yaml:"before_run,omitempty" json:"before_run,omitempty"`
	AfterRun     []HookConfig `yaml:"after_run,omitempty" json:"after_run,omitempty"`
	BeforeMentor []HookConfig `yaml:"before_mentor,omitempty" json:"before_mentor,omitempty"`
	AfterMentor  []HookConfig `yaml:"after_mentor,omitempty" json:"after_mentor,omitempty"`
}

// Event describes the lifecycle point a hook runs for. Fields that do not
// apply (e.g. MentorID for before_run) are empty.
type Event struct {
	RunID      string
	MentorID   string
	Endpoint   string
	OutputFile string
}

// Environment returns the MENTORQA_* variables exported to hook commands.
func (e Event) Environment(name string) []string {
	return []string{
		"MENTORQA_HOOK=" + name,
		"MENTORQA_RUN_ID=" + e.RunID,
		"MENTORQA_MENTOR_ID=" + e.MentorID,
		"MENTORQA_ENDPOINT=" + e.Endpoint,
		"MENTORQA_OUTPUT_FILE=" + e.OutputFile,
	}
}

func (e Event) templateContext() *template.Context {
	return &template.Context{
		RunID:    e.RunID,
		MentorID: e.MentorID,
		Endpoint: e.Endpoint,
		Vars:     map[string]string{"output_file": e.OutputFile},
	}
}

// Runner executes hook commands at lifecycle points.
type Runner struct {
	Verbose bool
}

// Execute runs all hooks for a given lifecycle point.
// name identifies the lifecycle point (e.g. "before_run") for logging and error context.
// Commands may reference the event with template syntax, e.g. {{.MentorID}}
// or {{.Vars.output_file}}.
func (r *Runner) Execute(ctx context.Context, name string, hooks []HookConfig, event Event) error {
	for i, h := range hooks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("hook %s: context canceled: %w", name, err)
		}

		if err := r.runHook(ctx, name, i, h, event); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runHook(ctx context.Context, name string, index int, h HookConfig, event Event) error {
	if strings.TrimSpace(h.Command) == "" {
		return fmt.Errorf("hook %s[%d]: empty command", name, index)
	}

	command, err := template.Render(h.Command, event.templateContext())
	if err != nil {
		return fmt.Errorf("hook %s[%d]: %w", name, index, err)
	}

	parts := strings.Fields(command)
	//nolint:gosec // hook commands come from the user's own project config
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Env = append(os.Environ(), event.Environment(name)...)

	if h.WorkingDirectory != "" {
		cmd.Dir = h.WorkingDirectory
	}

	output, err := cmd.CombinedOutput()

	if r.Verbose && len(output) > 0 {
		log.Info().Str("hook", name).Msg(strings.TrimRight(string(output), "\n"))
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// Non-exit error (e.g. command not found)
			if h.ErrorOnFail {
				return fmt.Errorf("hook %s[%d]: %w", name, index, err)
			}
			log.Warn().Err(err).Str("hook", name).Int("index", index).Msg("hook failed (continuing)")
			return nil
		}
		exitCode = exitErr.ExitCode()
	}

	if !isAcceptableExit(exitCode, h.ExitCodes) {
		if h.ErrorOnFail {
			return fmt.Errorf("hook %s[%d]: command exited with code %d", name, index, exitCode)
		}
		log.Warn().Str("hook", name).Int("index", index).Int("exit_code", exitCode).Msg("hook exited with unexpected code (continuing)")
	}

	return nil
}

// isAcceptableExit checks whether exitCode is in the allowed list.
// An empty allowedCodes list defaults to allowing only exit code 0.
func isAcceptableExit(exitCode int, allowedCodes []int) bool {
	if len(allowedCodes) == 0 {
		return exitCode == 0
	}
	for _, code := range allowedCodes {
		if exitCode == code {
			return true
		}
	}
	return false
}
