package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
)

// Exit codes for different failure modes
const (
	ExitSuccess    = 0 // Every file evaluated
	ExitEvalFailed = 1 // At least one file could not be evaluated
	ExitError      = 2 // Usage, configuration or runtime error
)

// EvaluationFailedError indicates that results were rendered but at least
// one input file failed to evaluate.
type EvaluationFailedError struct {
	Failed int
	Total  int
}

func (e *EvaluationFailedError) Error() string {
	return fmt.Sprintf("%d of %d files failed to evaluate", e.Failed, e.Total)
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var evalErr *EvaluationFailedError
	if errors.As(err, &evalErr) {
		return ExitEvalFailed
	}
	return ExitError
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}
