//go:generate mockgen -destination=./mocks/engine.go -package=mocks . CommandProvider

package engine

import (
	"time"

	"github.com/glorpus-work/pyscope/pkg/model"
	"github.com/glorpus-work/pyscope/pkg/pip"
)

// CommandProvider is the subset of the environment registry the engine needs:
// the argument vector that invokes pip for the current environment.
type CommandProvider interface {
	PipCommand() []string
}

// EventType classifies an engine event.
type EventType string

const (
	// EventLoadFinished fires when a load cycle commits (or is discarded).
	EventLoadFinished EventType = "load_finished"
	// EventCheckStarted fires when an update check batch begins.
	EventCheckStarted EventType = "check_started"
	// EventPackagesUpdated carries a coalesced batch of package names whose
	// latest/status fields changed.
	EventPackagesUpdated EventType = "packages_updated"
	// EventCheckFinished fires when an update check ends for any reason.
	EventCheckFinished EventType = "check_finished"
	// EventOperationProgress streams pip output during install/uninstall.
	EventOperationProgress EventType = "operation_progress"
	// EventOperationFinished fires when an install/uninstall/single-check
	// completes.
	EventOperationFinished EventType = "operation_finished"
	// EventSearchFinished carries registry search results.
	EventSearchFinished EventType = "search_finished"
)

// Event is one typed notification emitted by the engine. The presentation
// layer owns its own consumption loop; the engine never calls back into it.
type Event struct {
	Type     EventType
	Op       string   // install|uninstall|check
	Package  string   // subject of an operation event
	Packages []string // batch for EventPackagesUpdated
	Count    int      // package count for EventLoadFinished
	Err      string   // failure message, empty on success
	Progress *pip.ProgressEvent
	Results  []model.SearchResult
}

// Options tune the engine. Zero values select the defaults.
type Options struct {
	RateLimitWindow  time.Duration // per-package re-check suppression window
	CheckTimeout     time.Duration // wall-clock ceiling for a whole check batch
	BatchInterval    time.Duration // max delay before a notification batch flushes
	BatchSize        int           // flush a notification batch at this many names
	MaxWorkers       int           // cap on concurrent version checks
	FailureThreshold int           // consecutive failures before the breaker trips
	SnapshotTTL      time.Duration
	SnapshotMaxSize  int
	SearchTTL        time.Duration
	SearchMaxSize    int
	EventBuffer      int
}

// Engine defaults.
const (
	DefaultRateLimitWindow  = 30 * time.Second
	DefaultCheckTimeout     = 300 * time.Second
	DefaultBatchInterval    = 400 * time.Millisecond
	DefaultBatchSize        = 5
	DefaultMaxWorkers       = 4
	DefaultFailureThreshold = 10
	DefaultSnapshotTTL      = time.Hour
	DefaultSnapshotMaxSize  = 20
	DefaultSearchTTL        = 5 * time.Minute
	DefaultSearchMaxSize    = 100
	DefaultEventBuffer      = 64
)

func (o Options) withDefaults() Options {
	if o.RateLimitWindow <= 0 {
		o.RateLimitWindow = DefaultRateLimitWindow
	}
	if o.CheckTimeout <= 0 {
		o.CheckTimeout = DefaultCheckTimeout
	}
	if o.BatchInterval <= 0 {
		o.BatchInterval = DefaultBatchInterval
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.MaxWorkers <= 0 {
		o.MaxWorkers = DefaultMaxWorkers
	}
	if o.FailureThreshold <= 0 {
		o.FailureThreshold = DefaultFailureThreshold
	}
	if o.SnapshotTTL <= 0 {
		o.SnapshotTTL = DefaultSnapshotTTL
	}
	if o.SnapshotMaxSize <= 0 {
		o.SnapshotMaxSize = DefaultSnapshotMaxSize
	}
	if o.SearchTTL <= 0 {
		o.SearchTTL = DefaultSearchTTL
	}
	if o.SearchMaxSize <= 0 {
		o.SearchMaxSize = DefaultSearchMaxSize
	}
	if o.EventBuffer <= 0 {
		o.EventBuffer = DefaultEventBuffer
	}
	return o
}

// FilterMode selects a read-side view of the package list.
type FilterMode string

const (
	FilterAll      FilterMode = "All"
	FilterUpdated  FilterMode = "Updated"
	FilterOutdated FilterMode = "Outdated"
)

// snapshotEntry is the cached check result for one package.
type snapshotEntry struct {
	InstalledVersion string
	LatestVersion    string
	Status           model.Status
	CheckedAt        time.Time
}

// snapshot is the cached package state for one environment, keyed by
// lowercased package name.
type snapshot map[string]snapshotEntry
