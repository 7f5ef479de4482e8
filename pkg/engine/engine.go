// Package engine owns the authoritative in-memory package list for the
// active environment and orchestrates loading, update checking, searching,
// installing and uninstalling against the registry client and the pip runner.
//
// One mutex guards the package list, both caches, the rate-limit map and the
// epoch counter. The lock is never held across a network call or a subprocess
// invocation; workers fetch unlocked and re-take the lock for the commit.
// Every asynchronous cycle carries an Epoch token and commits only while the
// token is still current, so work superseded by an environment switch or a
// forced refresh is discarded whole.
package engine

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/glorpus-work/pyscope/pkg/cache"
	"github.com/glorpus-work/pyscope/pkg/model"
	"github.com/glorpus-work/pyscope/pkg/pip"
	"github.com/glorpus-work/pyscope/pkg/registry"
	"github.com/glorpus-work/pyscope/pkg/version"
)

// Engine is the package-state orchestrator. Construct with New; the zero
// value is not usable.
type Engine struct {
	registry registry.Client
	runner   pip.Runner
	commands CommandProvider
	log      *slog.Logger
	opts     Options

	mu           sync.Mutex
	packages     []model.Package
	currentEnvID string
	epoch        Epoch
	checking     bool
	shuttingDown bool
	checkCancel  context.CancelFunc
	lastCheck    map[string]time.Time
	failureRun   int // consecutive check failures in the running batch
	snapshots    *cache.Store[snapshot]
	searches     *cache.Store[[]model.SearchResult]

	events chan Event
	now    func() time.Time
}

// New creates an engine. registryClient, runner and commands must be
// non-nil; log may be nil.
func New(registryClient registry.Client, runner pip.Runner, commands CommandProvider, log *slog.Logger, opts Options) *Engine {
	if log == nil {
		log = slog.Default()
	}
	opts = opts.withDefaults()
	return &Engine{
		registry:  registryClient,
		runner:    runner,
		commands:  commands,
		log:       log,
		opts:      opts,
		lastCheck: make(map[string]time.Time),
		snapshots: cache.New[snapshot](opts.SnapshotTTL, opts.SnapshotMaxSize),
		searches:  cache.New[[]model.SearchResult](opts.SearchTTL, opts.SearchMaxSize),
		events:    make(chan Event, opts.EventBuffer),
		now:       time.Now,
	}
}

// Events returns the engine's notification channel. The channel is never
// closed; consumers stop reading after Shutdown.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Shutdown permanently stops the engine. In-flight workers observe the flag
// and exit without committing; no new operations start.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	e.shuttingDown = true
	cancel := e.checkCancel
	e.checkCancel = nil
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	e.log.Info("engine shutting down")
}

// emit delivers an event without ever blocking a worker: when the consumer
// is not keeping up the event is dropped. During shutdown only terminal
// events go through, so waiting consumers still unblock.
func (e *Engine) emit(ev Event) {
	e.mu.Lock()
	down := e.shuttingDown
	e.mu.Unlock()
	if down {
		switch ev.Type {
		case EventCheckFinished, EventOperationFinished, EventSearchFinished:
		default:
			return
		}
	}
	select {
	case e.events <- ev:
	default:
		e.log.Debug("event dropped, consumer not keeping up", "type", ev.Type)
	}
}

// Packages returns a copy of the current package list.
func (e *Engine) Packages() []model.Package {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copyPackagesLocked()
}

// Filter returns the packages matching mode.
func (e *Engine) Filter(mode FilterMode) []model.Package {
	e.mu.Lock()
	snapshot := e.copyPackagesLocked()
	e.mu.Unlock()

	if mode == FilterAll {
		return snapshot
	}
	var want model.Status
	switch mode {
	case FilterUpdated:
		want = model.StatusUpdated
	case FilterOutdated:
		want = model.StatusOutdated
	default:
		return nil
	}
	out := make([]model.Package, 0, len(snapshot))
	for _, p := range snapshot {
		if p.Status == want {
			out = append(out, p)
		}
	}
	return out
}

// SearchLocal returns installed packages whose name contains term,
// case-insensitively.
func (e *Engine) SearchLocal(term string) []model.Package {
	term = strings.ToLower(strings.TrimSpace(term))
	e.mu.Lock()
	snapshot := e.copyPackagesLocked()
	e.mu.Unlock()

	if term == "" {
		return snapshot
	}
	out := make([]model.Package, 0, len(snapshot))
	for _, p := range snapshot {
		if strings.Contains(strings.ToLower(p.Name), term) {
			out = append(out, p)
		}
	}
	return out
}

// PackageByName returns a copy of one package.
func (e *Engine) PackageByName(name string) (model.Package, bool) {
	key := strings.ToLower(name)
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, p := range e.packages {
		if p.Key() == key {
			return p, true
		}
	}
	return model.Package{}, false
}

// Counts returns the total and outdated package counts.
func (e *Engine) Counts() (total, outdated int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	total = len(e.packages)
	for _, p := range e.packages {
		if p.Status == model.StatusOutdated {
			outdated++
		}
	}
	return total, outdated
}

// Checking reports whether an update check batch is in progress.
func (e *Engine) Checking() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.checking
}

// ClearCaches drops the search cache, the rate-limit map and the failure
// counter. Environment snapshots survive; they expire on their own TTL.
func (e *Engine) ClearCaches() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.searches.Clear()
	e.lastCheck = make(map[string]time.Time)
	e.failureRun = 0
}

// ClearRateLimit forgets the last-check timestamp for one package so the
// next batch check is not suppressed.
func (e *Engine) ClearRateLimit(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.lastCheck, strings.ToLower(name))
}

func (e *Engine) copyPackagesLocked() []model.Package {
	out := make([]model.Package, len(e.packages))
	copy(out, e.packages)
	return out
}

// statusFor applies the uniform status rule: an undeterminable latest version
// short-circuits to Unknown before the comparator runs.
func statusFor(installed, latest string) model.Status {
	if latest == model.VersionUnknown || latest == model.VersionError {
		return model.StatusUnknown
	}
	if version.IsOutdated(installed, latest) {
		return model.StatusOutdated
	}
	return model.StatusUpdated
}

// saveSnapshotLocked persists the current package state for envID.
// Callers must hold e.mu.
func (e *Engine) saveSnapshotLocked(envID string) {
	if envID == "" {
		return
	}
	snap := make(snapshot, len(e.packages))
	for _, p := range e.packages {
		snap[p.Key()] = snapshotEntry{
			InstalledVersion: p.InstalledVersion,
			LatestVersion:    p.LatestVersion,
			Status:           p.Status,
			CheckedAt:        e.now(),
		}
	}
	e.snapshots.Put(envID, snap)
}

// snapshotForLocked returns the cached state for envID, or nil.
// Callers must hold e.mu.
func (e *Engine) snapshotForLocked(envID string) snapshot {
	if envID == "" {
		return nil
	}
	snap, ok := e.snapshots.Get(envID)
	if !ok {
		return nil
	}
	return snap
}

func sortPackages(pkgs []model.Package) {
	sort.Slice(pkgs, func(i, j int) bool {
		return pkgs[i].Key() < pkgs[j].Key()
	})
}
