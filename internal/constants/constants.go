package constants

import "time"

// Riot enforces two budgets per API key; both must have room before a
// request goes out.
const (
	ShortWindowLimit = 20
	ShortWindowSpan  = 1 * time.Second
	LongWindowLimit  = 100
	LongWindowSpan   = 2 * time.Minute
)

const (
	MaxRateLimitRetries = 4
	MaxTransientRetries = 2
	RetryBackoffFloor   = 1 * time.Second
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	SyncTimeout        = 10 * time.Minute
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	DefaultMatchCount = 20
	MaxMatchCount     = 100
	DefaultWorkers    = 4
)

const (
	ShutdownTimeout = 5 * time.Second
)
