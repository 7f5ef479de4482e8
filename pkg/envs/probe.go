package envs

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/glorpus-work/pyscope/pkg/pip"
)

var pythonVersionPattern = regexp.MustCompile(`Python\s+(\d+\.\d+(?:\.\d+)?)`)

// RunnerProber probes interpreters through the subprocess boundary.
type RunnerProber struct {
	runner pip.Runner
	log    *slog.Logger
}

// NewRunnerProber creates a prober backed by the given runner.
func NewRunnerProber(runner pip.Runner, log *slog.Logger) *RunnerProber {
	if log == nil {
		log = slog.Default()
	}
	return &RunnerProber{runner: runner, log: log}
}

// Probe runs `interpreter --version` and extracts the version number.
// Some older interpreters print the version to stderr, so both streams are
// scanned.
func (p *RunnerProber) Probe(ctx context.Context, interpreterPath string) (string, bool) {
	result, err := p.runner.Run(ctx, []string{interpreterPath, "--version"}, pip.ProbeTimeout)
	if err != nil || result.ExitCode != 0 {
		p.log.Debug("interpreter probe failed", "path", interpreterPath, "error", err)
		return "", false
	}
	output := strings.TrimSpace(result.Stdout)
	if output == "" {
		output = strings.TrimSpace(result.Stderr)
	}
	m := pythonVersionPattern.FindStringSubmatch(output)
	if m == nil {
		return "", false
	}
	return m[1], true
}
