// Package pip is the subprocess boundary to the package manager binary. It
// executes argument vectors without a shell, enforces timeouts by killing the
// process, and turns raw output lines into structured progress events.
package pip

import (
	"bufio"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/glorpus-work/pyscope/pkg/errors"
)

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct {
	log *slog.Logger
}

// NewExecRunner creates a runner. A nil logger falls back to slog.Default.
func NewExecRunner(log *slog.Logger) *ExecRunner {
	if log == nil {
		log = slog.Default()
	}
	return &ExecRunner{log: log}
}

// Run executes args and captures stdout/stderr.
func (r *ExecRunner) Run(ctx context.Context, args []string, timeout time.Duration) (Result, error) {
	if len(args) == 0 {
		return Result{ExitCode: -1}, errors.ErrPipUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{ExitCode: 0, Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		result.ExitCode = -1
		return result, errors.Wrapf(err, "failed to run %s", args[0])
	}
	return result, nil
}

// RunStreaming executes args, parsing each output line into a progress event.
func (r *ExecRunner) RunStreaming(ctx context.Context, args []string, timeout time.Duration, onLine func(ProgressEvent)) (bool, string, []string) {
	if len(args) == 0 {
		return false, errors.ErrPipUnavailable.Error(), nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return false, err.Error(), nil
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return false, err.Error(), nil
	}

	if err := cmd.Start(); err != nil {
		r.log.Error("failed to start pip", "command", args[0], "error", err)
		return false, err.Error(), nil
	}

	var (
		mu    sync.Mutex
		lines []string
	)
	capture := func(stream io.Reader, isStderr bool) {
		scanner := bufio.NewScanner(stream)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			mu.Lock()
			lines = append(lines, line)
			mu.Unlock()
			if onLine == nil {
				continue
			}
			if event, ok := ParseOutputLine(line); ok {
				onLine(event)
			} else if !isStderr && strings.TrimSpace(line) != "" {
				onLine(ProgressEvent{Type: EventOutput, Line: line})
			}
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); capture(stdout, false) }()
	go func() { defer wg.Done(); capture(stderr, true) }()
	wg.Wait()

	err = cmd.Wait()
	mu.Lock()
	captured := append([]string(nil), lines...)
	mu.Unlock()

	if ctx.Err() == context.DeadlineExceeded {
		msg := "operation timed out"
		if onLine != nil {
			onLine(ProgressEvent{Type: EventError, Message: msg})
		}
		return false, msg, captured
	}
	if err != nil {
		msg := TruncateMessage(failureMessage(captured, err))
		if onLine != nil {
			onLine(ProgressEvent{Type: EventError, Message: msg})
		}
		return false, msg, captured
	}
	return true, "Successfully completed", captured
}

// failureMessage prefers the tail of the captured output over the bare exec
// error, since pip writes its diagnosis to stderr.
func failureMessage(lines []string, err error) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if trimmed := strings.TrimSpace(lines[i]); trimmed != "" {
			return trimmed
		}
	}
	return err.Error()
}
