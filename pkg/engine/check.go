package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/glorpus-work/pyscope/pkg/errors"
	"github.com/glorpus-work/pyscope/pkg/model"
)

// CheckUpdates starts a concurrent update check for every installed package.
// It refuses to start while another check is running and reports the refusal
// with an immediate EventCheckFinished for callback symmetry. Progress is
// coalesced into EventPackagesUpdated batches; EventCheckFinished always
// follows, whether the batch succeeded, timed out, tripped the failure
// breaker or was cancelled.
func (e *Engine) CheckUpdates(ctx context.Context) bool {
	e.mu.Lock()
	if e.shuttingDown || e.checking {
		e.mu.Unlock()
		e.emit(Event{Type: EventCheckFinished, Err: errors.ErrCheckInProgress.Error()})
		return false
	}
	e.checking = true
	e.failureRun = 0
	tok := e.currentEpoch()
	envID := e.currentEnvID
	toCheck := e.copyPackagesLocked()

	checkCtx, cancel := context.WithTimeout(ctx, e.opts.CheckTimeout)
	e.checkCancel = cancel
	e.mu.Unlock()

	e.emit(Event{Type: EventCheckStarted})
	go e.runCheck(checkCtx, cancel, tok, envID, toCheck)
	return true
}

func (e *Engine) runCheck(ctx context.Context, cancel context.CancelFunc, tok Epoch, envID string, toCheck []model.Package) {
	defer cancel()

	batcher := e.newBatcher()
	stopTicker := batcher.startTicker()
	defer stopTicker()

	workers := e.opts.MaxWorkers
	if len(toCheck) < workers {
		workers = len(toCheck)
	}

	if workers > 0 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, pkg := range toCheck {
			if gctx.Err() != nil {
				e.log.Info("update check cancelled during submission")
				break
			}
			if e.breakerTripped() {
				e.log.Warn("stopping update check after consecutive failures",
					"threshold", e.opts.FailureThreshold)
				break
			}
			pkg := pkg
			g.Go(func() error {
				e.checkOne(gctx, tok, pkg, batcher, false)
				return nil
			})
		}
		_ = g.Wait()
	}

	batcher.flush()

	e.mu.Lock()
	if e.guardEpoch(tok) && !e.shuttingDown {
		e.saveSnapshotLocked(envID)
	}
	e.checking = false
	e.checkCancel = nil
	e.mu.Unlock()

	e.emit(Event{Type: EventCheckFinished})
}

// checkOne fetches one package's latest version and commits the result while
// the epoch still matches. With force unset, a package checked inside the
// rate-limit window is skipped — unless its status is Unknown, which may
// always retry.
func (e *Engine) checkOne(ctx context.Context, tok Epoch, pkg model.Package, batcher *updateBatcher, force bool) {
	key := pkg.Key()

	e.mu.Lock()
	if e.shuttingDown || !e.guardEpoch(tok) {
		e.mu.Unlock()
		return
	}
	if !force && pkg.Status != model.StatusUnknown {
		if last, ok := e.lastCheck[key]; ok && e.now().Sub(last) < e.opts.RateLimitWindow {
			e.mu.Unlock()
			batcher.add(pkg.Name)
			return
		}
	}
	e.lastCheck[key] = e.now()
	e.mu.Unlock()

	// Network I/O happens without the lock.
	latest := e.registry.FetchLatestVersion(ctx, pkg.Name)
	status := statusFor(pkg.InstalledVersion, latest)

	e.mu.Lock()
	if e.shuttingDown || !e.guardEpoch(tok) {
		e.mu.Unlock()
		return
	}
	if latest == model.VersionUnknown || latest == model.VersionError {
		e.failureRun++
	} else {
		e.failureRun = 0
	}
	for i := range e.packages {
		if e.packages[i].Key() == key {
			e.packages[i].LatestVersion = latest
			e.packages[i].Status = status
			break
		}
	}
	e.mu.Unlock()

	batcher.add(pkg.Name)
}

func (e *Engine) breakerTripped() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.failureRun >= e.opts.FailureThreshold
}

// CheckSingle checks one package immediately, bypassing the rate limit. A
// package missing from the in-memory list gets one on-demand discovery
// attempt through pip before the check fails. Completion is reported with
// EventOperationFinished (Op "check").
func (e *Engine) CheckSingle(ctx context.Context, name string) {
	go func() {
		e.mu.Lock()
		if e.shuttingDown {
			e.mu.Unlock()
			e.emit(Event{Type: EventOperationFinished, Op: "check", Package: name, Err: errors.ErrShuttingDown.Error()})
			return
		}
		tok := e.currentEpoch()
		envID := e.currentEnvID
		pkg, found := e.findLocked(name)
		e.mu.Unlock()

		if !found {
			discovered, ok := e.discoverInstalled(ctx, name)
			if !ok {
				e.emit(Event{Type: EventOperationFinished, Op: "check", Package: name,
					Err: errors.Wrapf(errors.ErrPackageNotFound, "%s is not installed", name).Error()})
				return
			}
			e.mu.Lock()
			if e.guardEpoch(tok) && !e.shuttingDown {
				e.packages = append(e.packages, discovered)
				sortPackages(e.packages)
			}
			pkg = discovered
			e.mu.Unlock()
		}

		batcher := e.newBatcher()
		e.checkOne(ctx, tok, pkg, batcher, true)
		batcher.flush()

		e.mu.Lock()
		if e.guardEpoch(tok) && !e.shuttingDown {
			e.saveSnapshotLocked(envID)
		}
		e.mu.Unlock()

		e.emit(Event{Type: EventOperationFinished, Op: "check", Package: name})
	}()
}

// CancelCheck requests cooperative cancellation of an in-flight check.
// Already-dispatched fetches finish their current attempt but never retry.
func (e *Engine) CancelCheck() {
	e.mu.Lock()
	cancel := e.checkCancel
	e.mu.Unlock()
	if cancel != nil {
		cancel()
		e.log.Info("update check cancelled")
	}
}

func (e *Engine) findLocked(name string) (model.Package, bool) {
	key := strings.ToLower(name)
	for _, p := range e.packages {
		if p.Key() == key {
			return p, true
		}
	}
	return model.Package{}, false
}

// discoverInstalled asks pip about a package the engine has not seen, so an
// explicit user check can work right after an out-of-band install.
func (e *Engine) discoverInstalled(ctx context.Context, name string) (model.Package, bool) {
	installed := e.pipShowVersion(ctx, name)
	if installed == "" {
		return model.Package{}, false
	}
	return model.NewPackage(name, installed), true
}

// updateBatcher coalesces per-package completion notifications so the
// consumer sees batches instead of one event per package. A batch goes out
// when it reaches size or when interval has passed since the last flush,
// whichever comes first.
type updateBatcher struct {
	mu        sync.Mutex
	names     []string
	lastFlush time.Time
	interval  time.Duration
	size      int
	emit      func([]string)
	now       func() time.Time
}

func (e *Engine) newBatcher() *updateBatcher {
	return &updateBatcher{
		lastFlush: e.now(),
		interval:  e.opts.BatchInterval,
		size:      e.opts.BatchSize,
		now:       e.now,
		emit: func(names []string) {
			e.emit(Event{Type: EventPackagesUpdated, Packages: names})
		},
	}
}

func (b *updateBatcher) add(name string) {
	b.mu.Lock()
	b.names = append(b.names, name)
	shouldFlush := len(b.names) >= b.size || b.now().Sub(b.lastFlush) > b.interval
	var batch []string
	if shouldFlush {
		batch = b.names
		b.names = nil
		b.lastFlush = b.now()
	}
	b.mu.Unlock()

	if batch != nil {
		b.emit(batch)
	}
}

// startTicker flushes overdue batches in the background so names buffered
// below the size threshold still go out on the interval. The returned stop
// function must be called before the terminal flush.
func (b *updateBatcher) startTicker() func() {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(b.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				b.flushOverdue()
			}
		}
	}()
	return func() { close(stop) }
}

func (b *updateBatcher) flushOverdue() {
	b.mu.Lock()
	if len(b.names) == 0 || b.now().Sub(b.lastFlush) < b.interval {
		b.mu.Unlock()
		return
	}
	batch := b.names
	b.names = nil
	b.lastFlush = b.now()
	b.mu.Unlock()

	b.emit(batch)
}

func (b *updateBatcher) flush() {
	b.mu.Lock()
	batch := b.names
	b.names = nil
	b.lastFlush = b.now()
	b.mu.Unlock()

	if len(batch) > 0 {
		b.emit(batch)
	}
}
