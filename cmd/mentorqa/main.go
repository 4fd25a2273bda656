package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess        = 0 // Every question succeeded
	ExitQuestionFailed = 1 // The run finished with failed or skipped questions
	ExitError          = 2 // Configuration or runtime error
)

// QuestionFailureError indicates that the run completed, but one or more
// questions could not be captured or persisted.
type QuestionFailureError struct {
	Message string
}

func (e *QuestionFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var questionErr *QuestionFailureError
		if errors.As(err, &questionErr) {
			os.Exit(ExitQuestionFailed)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
