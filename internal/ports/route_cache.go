package ports

import "context"

// Contract for caching successful routing-engine payloads.
//
// Entries have no TTL: staleness is handled by the owning task-mutation
// workflow calling Clear, never by time-based expiry. Implementations must
// be safe for concurrent use by multiple in-flight optimizations.
type RouteCache interface {
	// Return the cached payload for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Store the payload for key, overwriting any previous entry.
	Set(ctx context.Context, key string, value []byte) error
	// Purge all entries unconditionally.
	Clear(ctx context.Context) error
}
