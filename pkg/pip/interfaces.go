//go:generate mockgen -destination=mocks/runner.go -package=mocks . Runner

package pip

import (
	"context"
	"time"
)

// Result holds the outcome of one pip invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes the package manager binary. It is the subprocess boundary:
// given an argument vector it returns the exit code and captured output,
// optionally streaming parsed progress events line by line. Implementations
// must kill the process when the timeout elapses and must never invoke a
// shell.
type Runner interface {
	// Run executes args and captures output. A non-zero exit code is reported
	// through Result, not as an error; the error return covers spawn failures
	// (executable missing, permission denied).
	Run(ctx context.Context, args []string, timeout time.Duration) (Result, error)

	// RunStreaming executes args, feeding each output line through the
	// progress parser to onLine as it arrives. It reports overall success, a
	// human-readable message, and every captured output line.
	RunStreaming(ctx context.Context, args []string, timeout time.Duration, onLine func(ProgressEvent)) (ok bool, message string, lines []string)
}
