package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/glorpus-work/pyscope/pkg/errors"
	"github.com/glorpus-work/pyscope/pkg/model"
	"github.com/glorpus-work/pyscope/pkg/pip"
)

// Install installs a package, optionally pinned to a version, in the current
// environment. Streaming pip output is forwarded as EventOperationProgress;
// the terminal EventOperationFinished carries success or a truncated failure
// message. On success the installed version is re-read from pip and the
// latest version re-fetched from the registry, so the committed row reflects
// ground truth rather than the request.
func (e *Engine) Install(ctx context.Context, name, pinVersion string) error {
	if err := pip.ValidatePackageName(name); err != nil {
		return err
	}
	spec := name
	if pinVersion != "" {
		spec = fmt.Sprintf("%s==%s", name, pinVersion)
	}

	args, err := pip.SanitizeArgs([]string{"install", spec})
	if err != nil {
		return err
	}
	e.startOperation(ctx, "install", name, args, true)
	return nil
}

// Uninstall removes a package from the current environment. A failed
// uninstall leaves the in-memory list untouched.
func (e *Engine) Uninstall(ctx context.Context, name string) error {
	if err := pip.ValidatePackageName(name); err != nil {
		return err
	}

	args, err := pip.SanitizeArgs([]string{"uninstall", "-y", name})
	if err != nil {
		return err
	}
	e.startOperation(ctx, "uninstall", name, args, false)
	return nil
}

func (e *Engine) startOperation(ctx context.Context, op, name string, args []string, install bool) {
	e.mu.Lock()
	if e.shuttingDown {
		e.mu.Unlock()
		e.emit(Event{Type: EventOperationFinished, Op: op, Package: name, Err: errors.ErrShuttingDown.Error()})
		return
	}
	tok := e.currentEpoch()
	envID := e.currentEnvID
	e.mu.Unlock()

	go e.runOperation(ctx, op, name, args, install, tok, envID)
}

func (e *Engine) runOperation(ctx context.Context, op, name string, args []string, install bool, tok Epoch, envID string) {
	full := append(append([]string{}, e.commands.PipCommand()...), args...)

	e.log.Info("running pip operation", "op", op, "package", name)
	ok, message, _ := e.runner.RunStreaming(ctx, full, pip.OperationTimeout, func(ev pip.ProgressEvent) {
		progress := ev
		e.emit(Event{Type: EventOperationProgress, Op: op, Package: name, Progress: &progress})
	})

	if !ok {
		e.log.Warn("pip operation failed", "op", op, "package", name, "message", message)
		e.emit(Event{Type: EventOperationFinished, Op: op, Package: name,
			Err: pip.TruncateMessage(message)})
		return
	}

	if install {
		e.commitInstall(ctx, name, tok, envID)
	} else {
		e.commitUninstall(name, tok, envID)
	}
	e.emit(Event{Type: EventOperationFinished, Op: op, Package: name})
}

// commitInstall re-reads the installed version from pip and the latest
// version from the registry, then updates or inserts the row. pip resolves
// extras, markers and yanked releases on its own, so the requested version is
// not trusted for the final state.
func (e *Engine) commitInstall(ctx context.Context, name string, tok Epoch, envID string) {
	installed := e.pipShowVersion(ctx, name)
	if installed == "" {
		installed = model.VersionUnknown
	}
	latest := e.registry.FetchLatestVersion(ctx, name)
	status := statusFor(installed, latest)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.guardEpoch(tok) || e.shuttingDown {
		return
	}

	key := strings.ToLower(name)
	updated := false
	for i := range e.packages {
		if e.packages[i].Key() == key {
			e.packages[i].InstalledVersion = installed
			e.packages[i].LatestVersion = latest
			e.packages[i].Status = status
			updated = true
			break
		}
	}
	if !updated {
		pkg := model.NewPackage(name, installed)
		pkg.LatestVersion = latest
		pkg.Status = status
		e.packages = append(e.packages, pkg)
		sortPackages(e.packages)
	}

	delete(e.lastCheck, key)
	e.searches.Clear()
	e.saveSnapshotLocked(envID)
}

func (e *Engine) commitUninstall(name string, tok Epoch, envID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.guardEpoch(tok) || e.shuttingDown {
		return
	}

	key := strings.ToLower(name)
	for i := range e.packages {
		if e.packages[i].Key() == key {
			e.packages = append(e.packages[:i], e.packages[i+1:]...)
			break
		}
	}

	delete(e.lastCheck, key)
	e.searches.Clear()
	e.saveSnapshotLocked(envID)
}

// pipShowVersion returns the installed version of one package according to
// pip show, or "" when the package is absent or the query fails.
func (e *Engine) pipShowVersion(ctx context.Context, name string) string {
	args := append(append([]string{}, e.commands.PipCommand()...), "show", name)
	result, err := e.runner.Run(ctx, args, pip.QueryTimeout)
	if err != nil || result.ExitCode != 0 {
		return ""
	}
	for _, line := range strings.Split(result.Stdout, "\n") {
		if rest, ok := strings.CutPrefix(line, "Version:"); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
