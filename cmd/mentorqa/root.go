package main

import (
	"github.com/spboyer/mentorqa/internal/logging"
	"github.com/spboyer/mentorqa/internal/projectconfig"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mentorqa",
		Short: "mentorqa - evaluate mentor chat endpoints",
		Long: `mentorqa is a command-line tool for evaluating conversational mentors.

It submits a fixed battery of questions to every mentor listed in a
configuration workbook, captures each answer through the mentor's web page,
scores it with a grading model and saves the results to one spreadsheet per
mentor.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	logLevel := cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default: $MENTORQA_LOG_LEVEL or info)")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		env, err := projectconfig.LoadEnv(cmd.Context())
		if err != nil {
			return err
		}
		level := env.LogLevel
		if *logLevel != "" {
			level = *logLevel
		}
		if *debugLogging {
			level = "debug"
		}
		logging.Init(level, cmd.ErrOrStderr())
		return nil
	}

	// Add subcommands
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
