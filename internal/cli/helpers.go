package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/glorpus-work/pyscope/internal/logger"
	"github.com/glorpus-work/pyscope/pkg/config"
	"github.com/glorpus-work/pyscope/pkg/engine"
	"github.com/glorpus-work/pyscope/pkg/envs"
	"github.com/glorpus-work/pyscope/pkg/errors"
	"github.com/glorpus-work/pyscope/pkg/pip"
	"github.com/glorpus-work/pyscope/pkg/registry"
)

// These variables will be set by the main package.
var (
	ConfigPath *string
	Verbose    *bool
)

const eventWaitTimeout = 10 * time.Minute

// app bundles the wired-up components a command needs.
type app struct {
	cfg        *config.Config
	configPath string
	envs       *envs.Registry
	engine     *engine.Engine
}

// newApp loads the configuration, discovers environments, selects the
// persisted (or best) environment and builds the engine around it.
func newApp(ctx context.Context) (*app, error) {
	cfg, configPath, err := loadConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.Settings.LogLevel
	if Verbose != nil && *Verbose {
		level = "debug"
	}
	logger.InitLogger(level)
	log := logger.GetLogger()

	runner := pip.NewExecRunner(log)
	prober := envs.NewRunnerProber(runner, log)
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	registryOfEnvs := envs.NewRegistry(envs.DefaultStrategies(home, prober, log), log)
	registryOfEnvs.Refresh(ctx)

	if err := selectEnvironment(registryOfEnvs, cfg.Settings.SelectedEnv); err != nil {
		return nil, err
	}

	client := registry.NewHTTPClient(cfg.Registry.BaseURL, cfg.Registry.HTTPTimeout, log)
	eng := engine.New(client, runner, registryOfEnvs, log, engine.Options{
		RateLimitWindow:  cfg.Check.RateLimitWindow,
		CheckTimeout:     cfg.Check.Timeout,
		BatchInterval:    cfg.Check.BatchInterval,
		BatchSize:        cfg.Check.BatchSize,
		MaxWorkers:       cfg.Check.MaxWorkers,
		FailureThreshold: cfg.Check.FailureThreshold,
		SnapshotTTL:      cfg.Cache.SnapshotTTL,
		SnapshotMaxSize:  cfg.Cache.SnapshotMaxSize,
		SearchTTL:        cfg.Cache.SearchTTL,
		SearchMaxSize:    cfg.Cache.SearchMaxSize,
	})

	return &app{cfg: cfg, configPath: configPath, envs: registryOfEnvs, engine: eng}, nil
}

func loadConfig() (*config.Config, string, error) {
	path := ""
	if ConfigPath != nil {
		path = *ConfigPath
	}
	if path == "" {
		defaultPath, err := config.GetDefaultConfigPath()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get default config path: %w", err)
		}
		path = defaultPath
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, path, nil
}

func selectEnvironment(r *envs.Registry, selectedID string) error {
	if selectedID != "" {
		if env, ok := r.FindByID(selectedID); ok {
			r.SetCurrent(env)
			return nil
		}
		logger.GetLogger().Warn("persisted environment not found, falling back", "id", selectedID)
	}
	all := r.All()
	if len(all) == 0 {
		return errors.ErrNoEnvironment
	}
	r.SetCurrent(all[0])
	return nil
}

// load runs a package load and blocks until it finishes.
func (a *app) load(ctx context.Context) error {
	if err := a.engine.Load(ctx, a.envs.CurrentID(), false); err != nil {
		return err
	}
	_, err := a.waitFor(ctx, engine.EventLoadFinished)
	return err
}

// waitFor drains the event channel until an event of the wanted type arrives,
// forwarding operation progress to stdout along the way.
func (a *app) waitFor(ctx context.Context, want engine.EventType) (engine.Event, error) {
	timeout := time.After(eventWaitTimeout)
	for {
		select {
		case ev := <-a.engine.Events():
			if ev.Type == engine.EventOperationProgress && ev.Progress != nil && ev.Progress.Message != "" {
				fmt.Println(ev.Progress.Message)
			}
			if ev.Type == want {
				return ev, nil
			}
		case <-ctx.Done():
			a.engine.CancelCheck()
			return engine.Event{}, ctx.Err()
		case <-timeout:
			return engine.Event{}, fmt.Errorf("timed out waiting for %s", want)
		}
	}
}

func (a *app) close() {
	a.engine.Shutdown()
}
