package gryphon

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gryphon-db/gryphon/cypher"
)

// Cache is the interface for caching query results.
// Users should implement this interface with their preferred caching solution
// (e.g., Redis, Memcached, in-memory).
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value should not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// Clear removes all values from the cache.
	Clear(ctx context.Context) error
}

// cacheKey derives a stable key from a compiled query. Compilation is
// referentially transparent, so the text plus the canonicalized parameter
// mapping identifies the result set.
func cacheKey(q cypher.CompiledQuery) string {
	names := make([]string, 0, len(q.Params))
	for name := range q.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString(q.Text)
	for _, name := range names {
		// %#v keeps type-distinct renderings: the int 1 and the string "1"
		// bind to the same placeholder but must not share a key.
		fmt.Fprintf(&b, "|%s=%#v", name, q.Params[name])
	}
	return b.String()
}

// cachedRow is the persisted form of one hydratable result row.
type cachedRow struct {
	Props  map[string]any `msgpack:"props"`
	Labels []string       `msgpack:"labels"`
}

func encodeRows(rows []cachedRow) ([]byte, error) {
	return msgpack.Marshal(rows)
}

func decodeRows(data []byte) ([]cachedRow, error) {
	var rows []cachedRow
	if err := msgpack.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
