package envs

import (
	"context"
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

func makeFakeVenv(t *testing.T, root, name string, conda bool) string {
	t.Helper()
	env := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Join(env, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env, "bin", "python"), []byte("#!/bin/sh\n"), 0o755))
	if conda {
		require.NoError(t, os.MkdirAll(filepath.Join(env, "conda-meta"), 0o755))
	} else {
		require.NoError(t, os.WriteFile(filepath.Join(env, "pyvenv.cfg"), []byte("home = /usr\n"), 0o644))
	}
	return env
}

func TestVenvDiscovery_FindsEnvironments(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix layout")
	}
	home := t.TempDir()
	venvRoot := filepath.Join(home, ".virtualenvs")
	webEnv := makeFakeVenv(t, venvRoot, "web", false)
	condaEnv := makeFakeVenv(t, venvRoot, "data", true)
	// An ordinary directory must not be reported.
	require.NoError(t, os.MkdirAll(filepath.Join(venvRoot, "notes"), 0o755))

	ctrl := gomock.NewController(t)
	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().Probe(gomock.Any(), gomock.Any()).Return("3.11.4", true).AnyTimes()

	d := NewVenvDiscovery(home, prober, nil)
	found, err := d.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 2)

	byName := map[string]model.Environment{}
	for _, env := range found {
		byName[env.Name] = env
	}
	require.Contains(t, byName, "web")
	require.Contains(t, byName, "data")
	assert.Equal(t, model.KindVirtualEnv, byName["web"].Kind)
	assert.Equal(t, model.KindConda, byName["data"].Kind, "conda-meta wins over the venv tree kind")
	assert.Equal(t, filepath.Join(webEnv, "bin", "python"), byName["web"].InterpreterPath)
	assert.Equal(t, condaEnv, byName["data"].EnvPath)
	assert.Equal(t, "3.11.4", byName["web"].PythonVersion)
}

func TestVenvDiscovery_SkipsUnprobableInterpreters(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix layout")
	}
	home := t.TempDir()
	makeFakeVenv(t, filepath.Join(home, ".venvs"), "broken", false)

	ctrl := gomock.NewController(t)
	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().Probe(gomock.Any(), gomock.Any()).Return("", false).AnyTimes()

	d := NewVenvDiscovery(home, prober, nil)
	found, err := d.Discover(context.Background())
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestEnvironmentID_Deterministic(t *testing.T) {
	a := model.EnvironmentID("/usr/bin/python3", "")
	b := model.EnvironmentID("/usr/bin/python3", "")
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)

	withEnv := model.EnvironmentID("/env/bin/python", "/env")
	assert.NotEqual(t, a, withEnv)
	assert.Equal(t, withEnv, model.EnvironmentID("/env/bin/python-rebuilt", "/env"),
		"env directory dominates the identity")
}
