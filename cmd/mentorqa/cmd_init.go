package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spboyer/mentorqa/internal/projectconfig"
)

const projectConfigTemplate = `# mentorqa project configuration.
# Values shown are the defaults; remove any you do not need to change.

paths:
  # Result workbooks, one per mentor and run. Relative to this file.
  output: output
  # Page screenshots of failed captures. Leave empty to disable.
  screenshots: screenshots

workbook:
  mentor_sheet: LLM-Url
  question_sheet: Queries
  mentor_start_row: 2
  question_start_row: 2
  max_mentor_row: 1000
  max_question_row: 100

capture:
  type: browser # browser | mock
  config:
    headless: false
    navigation_timeout_seconds: 30
    element_timeout_seconds: 10
    response_timeout_seconds: 120
    clipboard_timeout_seconds: 10
    clipboard_source: page # page | system

grading:
  type: gemini # gemini | mock
  config:
    # The API key is read from GOOGLE_API_KEY. The model comes from
    # GEMINI_MODEL unless set here.
    # model: gemini-2.5-pro
    temperature: 0.1
    max_retries: 2

run:
  question_delay_seconds: 5
  # Stop the whole run after this many seconds. 0 means no limit.
  timeout_seconds: 0

# hooks:
#   after_mentor:
#     - command: echo "{{.MentorID}} -> {{.Vars.output_file}}"
`

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a .mentorqa.yaml project file",
		Long: `Create a .mentorqa.yaml project file with the default settings.

The file is picked up by "mentorqa run" from the working directory or any
parent directory. Existing files are kept unless --force is given.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommandE(cmd, args, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing .mentorqa.yaml")

	return cmd
}

func initCommandE(cmd *cobra.Command, args []string, force bool) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	// Create the root directory if it doesn't exist
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, projectconfig.FileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", configPath, err)
	}

	// The template must stay loadable.
	var probe projectconfig.ProjectConfig
	if err := yaml.Unmarshal([]byte(projectConfigTemplate), &probe); err != nil {
		return fmt.Errorf("invalid project config template: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(projectConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", projectconfig.FileName, err)
	}

	// Print summary
	fmt.Fprintln(cmd.OutOrStdout(), "Initialized mentorqa project:") //nolint:errcheck
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", configPath)             //nolint:errcheck
	return nil
}
