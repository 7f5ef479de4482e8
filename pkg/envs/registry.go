// Package envs discovers Python environments on the machine and tracks the
// current selection. Discovery strategies run concurrently with a bounded
// per-strategy timeout; a failing strategy logs a warning and contributes
// nothing. Environment identity is always recomputed from the source paths so
// cached package state reattaches correctly after a refresh.
package envs

import (
	"context"
	"log/slog"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"time"

	goversion "github.com/hashicorp/go-version"
	"golang.org/x/sync/errgroup"

	"github.com/glorpus-work/pyscope/pkg/model"
)

// StrategyTimeout bounds each discovery strategy during a refresh.
const StrategyTimeout = 10 * time.Second

// Registry discovers environments and tracks the current selection.
type Registry struct {
	mu         sync.Mutex
	strategies []Discovery
	all        []model.Environment
	current    *model.Environment
	log        *slog.Logger
}

// NewRegistry creates a registry with the given strategies.
func NewRegistry(strategies []Discovery, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{strategies: strategies, log: log}
}

// DefaultStrategies returns the platform discovery set: system interpreters,
// venv trees, conda envs, and pyenv versions under the given home directory.
func DefaultStrategies(home string, prober Prober, log *slog.Logger) []Discovery {
	return []Discovery{
		NewSystemDiscovery(prober, log),
		NewVenvDiscovery(home, prober, log),
		NewCondaDiscovery(home, prober, log),
		NewPyenvDiscovery(home, prober, log),
	}
}

// Refresh re-runs every discovery strategy concurrently and rebuilds the
// combined list. Discovery never fails as a whole; the worst case is an empty
// list.
func (r *Registry) Refresh(ctx context.Context) []model.Environment {
	results := make([][]model.Environment, len(r.strategies))

	g, gctx := errgroup.WithContext(ctx)
	for i, strategy := range r.strategies {
		i, strategy := i, strategy
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(gctx, StrategyTimeout)
			defer cancel()
			found, err := strategy.Discover(sctx)
			if err != nil {
				r.log.Warn("discovery strategy failed", "strategy", strategy.Name(), "error", err)
			}
			results[i] = found
			return nil // a failed strategy must not cancel its siblings
		})
	}
	_ = g.Wait()

	merged := mergeEnvironments(results)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = merged
	// Re-attach the current selection to its freshly discovered record, or
	// keep the stale record if it disappeared (the user may still operate on
	// it until the next explicit switch).
	if r.current != nil {
		for i := range merged {
			if merged[i].ID == r.current.ID {
				env := merged[i]
				r.current = &env
				break
			}
		}
	} else if len(merged) > 0 {
		env := merged[0]
		r.current = &env
	}
	return r.snapshotLocked()
}

// All returns a copy of the discovered environments.
func (r *Registry) All() []model.Environment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// SetCurrent selects an environment. Identity is recomputed from the paths so
// a caller-constructed record cannot carry a drifted ID.
func (r *Registry) SetCurrent(env model.Environment) {
	env.ID = model.EnvironmentID(env.InterpreterPath, env.EnvPath)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = &env
	r.log.Info("switched environment", "name", env.Name, "id", env.ID, "interpreter", env.InterpreterPath)
}

// Current returns the selected environment.
func (r *Registry) Current() (model.Environment, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return model.Environment{}, false
	}
	return *r.current, true
}

// CurrentID returns the selected environment's identity, or "".
func (r *Registry) CurrentID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return ""
	}
	return r.current.ID
}

// FindByID looks up a discovered environment.
func (r *Registry) FindByID(id string) (model.Environment, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, env := range r.all {
		if env.ID == id {
			return env, true
		}
	}
	return model.Environment{}, false
}

// PipCommand returns the argument vector that invokes pip for the current
// environment: the pip executable next to the interpreter when present, else
// `interpreter -m pip`, else a last-resort system interpreter.
func (r *Registry) PipCommand() []string {
	r.mu.Lock()
	current := r.current
	r.mu.Unlock()

	if current != nil {
		if current.PipPath != "" && isExecutableFile(current.PipPath) {
			return []string{current.PipPath}
		}
		if isExecutableFile(current.InterpreterPath) {
			return []string{current.InterpreterPath, "-m", "pip"}
		}
	}
	return systemPipCommand()
}

// PythonCommand returns the interpreter path for the current environment,
// falling back to the system interpreter.
func (r *Registry) PythonCommand() string {
	r.mu.Lock()
	current := r.current
	r.mu.Unlock()

	if current != nil && isExecutableFile(current.InterpreterPath) {
		return current.InterpreterPath
	}
	for _, binary := range pythonBinaryNames() {
		if path, err := exec.LookPath(binary); err == nil {
			return path
		}
	}
	return "python3"
}

func (r *Registry) snapshotLocked() []model.Environment {
	out := make([]model.Environment, len(r.all))
	copy(out, r.all)
	return out
}

func systemPipCommand() []string {
	for _, binary := range pythonBinaryNames() {
		if path, err := exec.LookPath(binary); err == nil {
			return []string{path, "-m", "pip"}
		}
	}
	return []string{"python3", "-m", "pip"}
}

// mergeEnvironments flattens strategy results, de-duplicates by resolved
// interpreter path, and orders them: system interpreters first (newest
// version first), then named environments sorted by name.
func mergeEnvironments(results [][]model.Environment) []model.Environment {
	var system, named []model.Environment
	seen := make(map[string]struct{})
	for _, batch := range results {
		for _, env := range batch {
			key := realPath(env.InterpreterPath)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			if env.Kind == model.KindSystem {
				system = append(system, env)
			} else {
				named = append(named, env)
			}
		}
	}

	sort.SliceStable(system, func(i, j int) bool {
		return compareVersions(system[i].PythonVersion, system[j].PythonVersion) > 0
	})
	sort.SliceStable(named, func(i, j int) bool {
		return strings.ToLower(named[i].Name) < strings.ToLower(named[j].Name)
	})
	return append(system, named...)
}

// compareVersions orders interpreter versions, tolerating unparseable strings
// by sorting them last.
func compareVersions(a, b string) int {
	va, errA := goversion.NewVersion(a)
	vb, errB := goversion.NewVersion(b)
	switch {
	case errA == nil && errB == nil:
		return va.Compare(vb)
	case errA == nil:
		return 1
	case errB == nil:
		return -1
	default:
		return strings.Compare(a, b)
	}
}
