package registry

import "time"

const (
	// DefaultBaseURL is the production package index.
	DefaultBaseURL = "https://pypi.org"

	// DefaultTimeout is the hard per-request timeout.
	DefaultTimeout = 10 * time.Second

	// MaxResponseSize caps how much of a response body is read. Oversize
	// responses are treated as failures, not buffered.
	MaxResponseSize = 30_000_000

	maxFetchAttempts = 3
	retryBackoff     = time.Second

	maxSearchAPIResults    = 20
	maxSearchScrapeResults = 50
)
