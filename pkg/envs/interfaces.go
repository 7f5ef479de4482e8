//go:generate mockgen -destination=mocks/envs.go -package=mocks . Discovery,Prober

package envs

import (
	"context"

	"github.com/glorpus-work/pyscope/pkg/model"
)

// Discovery is one environment discovery strategy (system interpreters, venv
// trees, conda envs, pyenv versions). Strategies are independent: a failing
// strategy returns an error and contributes nothing, it never takes the other
// strategies down with it.
type Discovery interface {
	// Name identifies the strategy in logs.
	Name() string

	// Discover returns the candidate environments this strategy can find.
	Discover(ctx context.Context) ([]model.Environment, error)
}

// Prober verifies an interpreter binary and reports its version.
type Prober interface {
	// Probe runs the interpreter with --version. The reported version is bare
	// ("3.12.1"); ok is false when the binary does not respond like a Python
	// interpreter.
	Probe(ctx context.Context, interpreterPath string) (version string, ok bool)
}
