package envs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/pyscope/pkg/envs/mocks"
	"github.com/glorpus-work/pyscope/pkg/model"
)

func sysEnv(path, ver string) model.Environment {
	return model.NewEnvironment(model.KindSystem, filepath.Base(path), path, "", "", ver)
}

func venvEnv(name, envPath, ver string) model.Environment {
	return model.NewEnvironment(model.KindVirtualEnv, name, filepath.Join(envPath, "bin", "python"), "", envPath, ver)
}

func TestRegistry_Refresh_MergesAndOrders(t *testing.T) {
	ctrl := gomock.NewController(t)

	s1 := mocks.NewMockDiscovery(ctrl)
	s1.EXPECT().Discover(gomock.Any()).Return([]model.Environment{
		sysEnv("/usr/bin/python3.10", "3.10.12"),
		sysEnv("/usr/bin/python3.12", "3.12.1"),
	}, nil)

	s2 := mocks.NewMockDiscovery(ctrl)
	s2.EXPECT().Discover(gomock.Any()).Return([]model.Environment{
		venvEnv("zeta", "/home/u/venvs/zeta", "3.11.0"),
		venvEnv("alpha", "/home/u/venvs/alpha", "3.11.0"),
		sysEnv("/usr/bin/python3.12", "3.12.1"), // duplicate across strategies
	}, nil)

	r := NewRegistry([]Discovery{s1, s2}, nil)
	got := r.Refresh(context.Background())

	require.Len(t, got, 4)
	assert.Equal(t, "/usr/bin/python3.12", got[0].InterpreterPath, "newest system interpreter first")
	assert.Equal(t, "/usr/bin/python3.10", got[1].InterpreterPath)
	assert.Equal(t, "alpha", got[2].Name)
	assert.Equal(t, "zeta", got[3].Name)

	current, ok := r.Current()
	require.True(t, ok, "first environment becomes current by default")
	assert.Equal(t, got[0].ID, current.ID)
}

func TestRegistry_Refresh_FailingStrategyDoesNotFailOthers(t *testing.T) {
	ctrl := gomock.NewController(t)

	bad := mocks.NewMockDiscovery(ctrl)
	bad.EXPECT().Discover(gomock.Any()).Return(nil, fmt.Errorf("scan failed"))
	bad.EXPECT().Name().Return("bad").AnyTimes()

	good := mocks.NewMockDiscovery(ctrl)
	good.EXPECT().Discover(gomock.Any()).Return([]model.Environment{sysEnv("/usr/bin/python3", "3.12.0")}, nil)

	r := NewRegistry([]Discovery{bad, good}, nil)
	got := r.Refresh(context.Background())

	require.Len(t, got, 1)
	assert.Equal(t, "/usr/bin/python3", got[0].InterpreterPath)
}

func TestRegistry_Refresh_ReattachesCurrentByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := venvEnv("proj", "/home/u/venvs/proj", "3.11.0")

	s := mocks.NewMockDiscovery(ctrl)
	s.EXPECT().Discover(gomock.Any()).Return([]model.Environment{env}, nil).Times(2)

	r := NewRegistry([]Discovery{s}, nil)
	r.Refresh(context.Background())
	r.SetCurrent(env)
	r.Refresh(context.Background())

	current, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, env.ID, current.ID, "same env dir must map to the same identity across refreshes")
}

func TestRegistry_SetCurrent_RecomputesID(t *testing.T) {
	env := venvEnv("proj", "/home/u/venvs/proj", "3.11.0")
	env.ID = "tampered"

	r := NewRegistry(nil, nil)
	r.SetCurrent(env)

	assert.Equal(t, model.EnvironmentID(env.InterpreterPath, env.EnvPath), r.CurrentID())
}

func TestRegistry_PipCommand_FallbackChain(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix file modes")
	}
	dir := t.TempDir()
	interpreter := filepath.Join(dir, "python")
	pipExe := filepath.Join(dir, "pip")
	require.NoError(t, os.WriteFile(interpreter, []byte("#!/bin/sh\n"), 0o755))

	r := NewRegistry(nil, nil)
	r.SetCurrent(model.Environment{
		Kind:            model.KindVirtualEnv,
		Name:            "v",
		InterpreterPath: interpreter,
		PipPath:         pipExe, // does not exist yet
		EnvPath:         dir,
	})

	// No pip executable: fall back to interpreter -m pip.
	assert.Equal(t, []string{interpreter, "-m", "pip"}, r.PipCommand())

	// Direct pip invocation once the executable appears.
	require.NoError(t, os.WriteFile(pipExe, []byte("#!/bin/sh\n"), 0o755))
	assert.Equal(t, []string{pipExe}, r.PipCommand())
}

func TestRegistry_PipCommand_NoEnvironmentUsesSystemFallback(t *testing.T) {
	r := NewRegistry(nil, nil)
	cmd := r.PipCommand()
	require.NotEmpty(t, cmd)
	assert.Equal(t, []string{"-m", "pip"}, cmd[1:])
}

func TestCompareVersions(t *testing.T) {
	assert.Positive(t, compareVersions("3.12.1", "3.9.18"))
	assert.Negative(t, compareVersions("3.9.18", "3.12.1"))
	assert.Zero(t, compareVersions("3.11.0", "3.11.0"))
	assert.Positive(t, compareVersions("3.11.0", "garbage"), "parseable sorts before garbage")
}
