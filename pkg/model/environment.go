package model

import (
	"crypto/sha256"
	"encoding/hex"
)

// EnvironmentKind classifies how an environment was discovered.
type EnvironmentKind string

const (
	// KindSystem is the system interpreter (or a bare installation found on PATH).
	KindSystem EnvironmentKind = "system"
	// KindVirtualEnv is a venv or virtualenv directory.
	KindVirtualEnv EnvironmentKind = "venv"
	// KindConda is a conda environment.
	KindConda EnvironmentKind = "conda"
	// KindVersionManager is an installation managed by a version manager (pyenv).
	KindVersionManager EnvironmentKind = "pyenv"
)

// Environment is one isolated interpreter installation with its own package set.
// Immutable once constructed; ID is always derived from the source paths so the
// same environment keeps the same cache partition across re-discovery.
type Environment struct {
	Kind            EnvironmentKind `json:"kind"`
	Name            string          `json:"name"`
	InterpreterPath string          `json:"interpreter_path"`
	PipPath         string          `json:"pip_path,omitempty"`
	EnvPath         string          `json:"env_path,omitempty"`
	PythonVersion   string          `json:"python_version"`
	ID              string          `json:"id"`
}

// NewEnvironment constructs an environment and computes its identity.
func NewEnvironment(kind EnvironmentKind, name, interpreterPath, pipPath, envPath, pythonVersion string) Environment {
	return Environment{
		Kind:            kind,
		Name:            name,
		InterpreterPath: interpreterPath,
		PipPath:         pipPath,
		EnvPath:         envPath,
		PythonVersion:   pythonVersion,
		ID:              EnvironmentID(interpreterPath, envPath),
	}
}

// EnvironmentID derives the stable identity for an environment. The env
// directory wins over the interpreter path so that a venv keeps its identity
// even if the interpreter symlink inside it is re-created.
func EnvironmentID(interpreterPath, envPath string) string {
	source := envPath
	if source == "" {
		source = interpreterPath
	}
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])[:16]
}
