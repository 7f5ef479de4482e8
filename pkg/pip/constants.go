package pip

import "time"

// Subprocess timeouts by operation weight.
const (
	// ProbeTimeout bounds lightweight interpreter probes (--version).
	ProbeTimeout = 5 * time.Second
	// QueryTimeout bounds metadata queries (show, list).
	QueryTimeout = 15 * time.Second
	// OperationTimeout bounds installs and uninstalls.
	OperationTimeout = 300 * time.Second
)

const (
	maxPackageNameLength = 100
	maxSearchTermLength  = 100
	maxArgumentLength    = 500
	maxMessageLength     = 500
)
