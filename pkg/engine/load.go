package engine

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/glorpus-work/pyscope/pkg/errors"
	"github.com/glorpus-work/pyscope/pkg/model"
	"github.com/glorpus-work/pyscope/pkg/pip"
)

// Load starts a load cycle for envID: it cancels any in-flight check, bumps
// the epoch, fetches the installed package list, merges cached state and
// commits — unless a later cycle started in the meantime, in which case the
// result is discarded whole. Completion is signalled with EventLoadFinished.
func (e *Engine) Load(ctx context.Context, envID string, forceRefresh bool) error {
	e.CancelCheck()

	e.mu.Lock()
	if e.shuttingDown {
		e.mu.Unlock()
		return errors.ErrShuttingDown
	}
	tok := e.beginEpoch()
	e.currentEnvID = envID
	if forceRefresh {
		e.snapshots.Clear()
		e.log.Info("forced snapshot cache clear")
	}
	e.mu.Unlock()

	go e.runLoad(ctx, envID, tok)
	return nil
}

func (e *Engine) runLoad(ctx context.Context, envID string, tok Epoch) {
	loaded := e.loadInstalled(ctx)

	e.mu.Lock()
	if !e.guardEpoch(tok) || e.shuttingDown {
		e.mu.Unlock()
		e.log.Debug("load result discarded", "env", envID)
		return
	}
	merged := e.mergeLoadedLocked(envID, loaded)
	sortPackages(merged)
	e.packages = merged
	e.saveSnapshotLocked(envID)
	count := len(merged)
	e.mu.Unlock()

	e.log.Info("loaded packages", "env", envID, "count", count)
	e.emit(Event{Type: EventLoadFinished, Count: count})
}

// mergeLoadedLocked pre-populates latest/status on a freshly loaded list.
// Three tiers, in-memory state first, then the environment snapshot, then
// the inference that a version matching the last known latest is up to date.
// Lower tiers only fill fields the higher tiers left Unknown, and a tier is
// consulted only when its recorded installed version matches what pip just
// reported — a version change invalidates that package's cached state, not
// the whole snapshot. Callers must hold e.mu.
func (e *Engine) mergeLoadedLocked(envID string, loaded []model.Package) []model.Package {
	inMemory := make(map[string]model.Package, len(e.packages))
	if envID == e.currentEnvID {
		for _, p := range e.packages {
			inMemory[p.Key()] = p
		}
	}
	cached := e.snapshotForLocked(envID)

	merged := make([]model.Package, len(loaded))
	for i, p := range loaded {
		key := p.Key()

		if curr, ok := inMemory[key]; ok &&
			curr.InstalledVersion == p.InstalledVersion &&
			curr.LatestVersion != model.VersionUnknown {
			p.LatestVersion = curr.LatestVersion
			p.Status = curr.Status
		} else if entry, ok := cached[key]; ok &&
			entry.InstalledVersion == p.InstalledVersion &&
			entry.LatestVersion != model.VersionUnknown {
			p.LatestVersion = entry.LatestVersion
			p.Status = entry.Status
		} else if entry, ok := cached[key]; ok &&
			entry.LatestVersion == p.InstalledVersion &&
			entry.LatestVersion != model.VersionUnknown {
			// The new installed version is the latest we ever saw: the
			// package was updated behind our back.
			p.LatestVersion = entry.LatestVersion
			p.Status = model.StatusUpdated
		}
		merged[i] = p
	}
	return merged
}

// loadInstalled queries pip for the installed package list. The JSON format
// is tried first; the freeze format is the fallback strategy.
func (e *Engine) loadInstalled(ctx context.Context) []model.Package {
	pipCmd := e.commands.PipCommand()

	args := append(append([]string{}, pipCmd...), "list", "--format=json")
	result, err := e.runner.Run(ctx, args, pip.QueryTimeout)
	if err == nil && result.ExitCode == 0 {
		if pkgs, ok := parsePipListJSON(result.Stdout); ok {
			return pkgs
		}
	}

	args = append(append([]string{}, pipCmd...), "freeze")
	result, err = e.runner.Run(ctx, args, pip.QueryTimeout)
	if err == nil && result.ExitCode == 0 {
		return parsePipFreeze(result.Stdout)
	}

	e.log.Warn("failed to list installed packages", "error", err)
	return nil
}

func parsePipListJSON(output string) ([]model.Package, bool) {
	var rows []struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	start := strings.Index(output, "[")
	if start < 0 {
		return nil, false
	}
	if err := json.Unmarshal([]byte(output[start:]), &rows); err != nil {
		return nil, false
	}
	pkgs := make([]model.Package, 0, len(rows))
	for _, row := range rows {
		if row.Name == "" {
			continue
		}
		ver := row.Version
		if ver == "" {
			ver = model.VersionUnknown
		}
		pkgs = append(pkgs, model.NewPackage(row.Name, ver))
	}
	return pkgs, true
}

func parsePipFreeze(output string) []model.Package {
	var pkgs []model.Package
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		name, ver, found := strings.Cut(line, "==")
		if !found {
			// Editable installs and direct references have no pinned version.
			name, ver = line, model.VersionUnknown
			if at := strings.Index(name, " @ "); at >= 0 {
				name = name[:at]
			}
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		pkgs = append(pkgs, model.NewPackage(name, strings.TrimSpace(ver)))
	}
	return pkgs
}
