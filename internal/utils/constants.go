package utils

import "time"

// =============================================================================
// HTTP Service Constants
// =============================================================================

const (
	// DefaultRequestTimeout is the default timeout for HTTP requests
	DefaultRequestTimeout = 30 * time.Second

	// ShutdownTimeout is the grace period for in-flight requests on shutdown
	ShutdownTimeout = 10 * time.Second

	// DefaultBodyLimit is the default maximum request body size in bytes
	DefaultBodyLimit = 16 * 1024 * 1024

	// DefaultMaxSeriesLength is the default maximum number of values per request
	DefaultMaxSeriesLength = 1_000_000

	// DefaultMaxBins is the default histogram length cap for binned counts
	DefaultMaxBins = 10_000
)

// =============================================================================
// Numeric Constants
// =============================================================================

const (
	// BinEdgeTolerance is the relative tolerance under which a range/binsize
	// quotient is treated as lying exactly on a bin edge
	BinEdgeTolerance = 1e-9
)

// Version is reported by the health endpoint and the CLI.
// Release builds set it with -ldflags "-X .../internal/utils.Version=...".
var Version = "1.0.0"
