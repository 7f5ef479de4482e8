//go:generate mockgen -destination=mocks/registry.go -package=mocks . Client

package registry

import (
	"context"

	"github.com/glorpus-work/pyscope/pkg/model"
)

// Client defines the interface for querying the remote package index.
type Client interface {
	// FetchLatestVersion returns the newest version of a package known to the
	// registry, or model.VersionUnknown when the package does not exist or the
	// registry cannot be reached. It never returns an error; callers treat the
	// sentinel as "status unknown, retry later".
	FetchLatestVersion(ctx context.Context, name string) string

	// Search returns packages matching the term, best effort. Failures of any
	// lookup path degrade to an empty list. Results are de-duplicated
	// case-insensitively with registry order preserved; sorting is a caller
	// concern.
	Search(ctx context.Context, term string) []model.SearchResult
}
