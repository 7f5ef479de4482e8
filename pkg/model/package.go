// Package model provides the shared data structures for packages, environments,
// and search results used across the pyscope engine.
package model

import "strings"

// Sentinel values for a latest version that could not be determined.
const (
	VersionUnknown = "Unknown"
	VersionError   = "Error"
)

// Status is the reconciliation result between installed and latest version.
type Status string

const (
	// StatusUpdated indicates the installed version is the newest known version.
	StatusUpdated Status = "Updated"
	// StatusOutdated indicates a newer version is available on the registry.
	StatusOutdated Status = "Outdated"
	// StatusUnknown indicates the latest version has not been determined yet.
	StatusUnknown Status = "Unknown"
)

// Package is one installed distribution inside an environment. The engine is
// the sole mutator; everything handed to callers is a copy.
type Package struct {
	Name             string `json:"name"`
	InstalledVersion string `json:"installed_version"`
	LatestVersion    string `json:"latest_version"`
	Status           Status `json:"status"`
}

// Key returns the case-insensitive identity key for the package.
func (p Package) Key() string {
	return strings.ToLower(p.Name)
}

// NewPackage creates a package in the initial un-checked state.
func NewPackage(name, installed string) Package {
	return Package{
		Name:             name,
		InstalledVersion: installed,
		LatestVersion:    VersionUnknown,
		Status:           StatusUnknown,
	}
}

// SearchResult is one row returned by a registry search, annotated with the
// local installation state when the package is already installed.
type SearchResult struct {
	Name             string `json:"name"`
	Version          string `json:"version"`
	Summary          string `json:"summary"`
	Installed        bool   `json:"installed"`
	InstalledVersion string `json:"installed_version,omitempty"`
	LatestVersion    string `json:"latest_version,omitempty"`
}
