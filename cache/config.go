package cache

import "time"

// Config exposes the cache policy knobs consumers tune. The two deadlines in
// the glossary map directly: StaleAfter bounds the stale-while-revalidate
// window, EvictAfter is the GC deadline after which an unused entry is gone.
type Config struct {
	// Capacity is the maximum number of entries the cache stores.
	Capacity int

	// NumShards controls lock striping for concurrent access.
	NumShards int

	// StaleAfter is the staleness deadline: a read past this age serves the
	// cached value and triggers a background refetch. Reads past
	// SyncRefreshAfter refetch in the foreground instead.
	StaleAfter time.Duration

	// SyncRefreshAfter is the age at which a refetch stops being background
	// work and blocks the reader. Must be >= StaleAfter.
	SyncRefreshAfter time.Duration

	// EvictAfter is the GC deadline: entries unused for this long are dropped
	// entirely.
	EvictAfter time.Duration

	// EvictionPercentage is how much of the cache is shed when capacity is
	// reached (1-100).
	EvictionPercentage int

	// EvictionInterval sets how often expired entries are swept. Zero uses
	// the backend default.
	EvictionInterval time.Duration

	// RetryBaseDelay is the base backoff between fetch retry attempts.
	RetryBaseDelay time.Duration

	// FetchAttempts bounds how many times a fetch runs before its error
	// surfaces to the reader.
	FetchAttempts int

	// MissingRecordStorage remembers keys that resolved to nothing, so
	// repeated reads of absent records skip the store.
	MissingRecordStorage bool
}

// DefaultConfig returns the policy used in production deployments.
func DefaultConfig() Config {
	return Config{
		Capacity:             10000,
		NumShards:            64,
		StaleAfter:           30 * time.Second,
		SyncRefreshAfter:     2 * time.Minute,
		EvictAfter:           10 * time.Minute,
		EvictionPercentage:   10,
		EvictionInterval:     0,
		RetryBaseDelay:       100 * time.Millisecond,
		FetchAttempts:        2,
		MissingRecordStorage: true,
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	case c.NumShards <= 0:
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	case c.EvictAfter <= 0:
		return &ConfigError{Field: "EvictAfter", Message: "must be greater than 0"}
	case c.StaleAfter < 0:
		return &ConfigError{Field: "StaleAfter", Message: "must be non-negative"}
	case c.SyncRefreshAfter < c.StaleAfter:
		return &ConfigError{Field: "SyncRefreshAfter", Message: "must be >= StaleAfter"}
	case c.EvictionPercentage < 1 || c.EvictionPercentage > 100:
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	case c.FetchAttempts < 1:
		return &ConfigError{Field: "FetchAttempts", Message: "must be at least 1"}
	case c.RetryBaseDelay < 0:
		return &ConfigError{Field: "RetryBaseDelay", Message: "must be non-negative"}
	}
	return nil
}

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "cache config error in field " + e.Field + ": " + e.Message
}
