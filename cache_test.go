package gryphon_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gryphon-db/gryphon"
	"github.com/gryphon-db/gryphon/drivertest"
)

// memCache is a minimal in-memory Cache for tests.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	lastTTL time.Duration
	sets    int
	gets    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	return m.entries[key], nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.lastTTL = ttl
	m.entries[key] = value
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *memCache) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string][]byte)
	return nil
}

// brokenCache fails every operation.
type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("cache down")
}

func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("cache down")
}

func (brokenCache) Delete(context.Context, string) error { return errors.New("cache down") }

func (brokenCache) Clear(context.Context) error { return errors.New("cache down") }

func TestQueryReadThroughCache(t *testing.T) {
	t.Parallel()

	drv := drivertest.New().QueueRecords(
		drivertest.NodeRecord("n0", map[string]any{"uuid": "u1", "name": "ada"}, userLabels),
		drivertest.NodeRecord("n0", map[string]any{"uuid": "u2", "name": "grace"}, userLabels),
	)
	cache := newMemCache()
	client := newTestClient(drv, gryphon.WithCache(cache, time.Minute))

	first, err := client.Query("User").All(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Len(t, drv.Statements, 1)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, time.Minute, cache.lastTTL)

	// The identical query is served from the cache; the driver sees nothing.
	second, err := client.Query("User").All(context.Background())
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Len(t, drv.Statements, 1)

	assert.Equal(t, first[0].ID(), second[0].ID())
	name, _ := second[1].Property("name")
	assert.Equal(t, "grace", name)
	assert.Equal(t, userLabels, second[0].Labels())
}

func TestQueryCacheKeyVariesWithParams(t *testing.T) {
	t.Parallel()

	drv := drivertest.New().QueueRecords(
		drivertest.NodeRecord("n0", map[string]any{"uuid": "u1", "name": "ada"}, userLabels),
	).QueueRecords(
		drivertest.NodeRecord("n0", map[string]any{"uuid": "u2", "name": "grace"}, userLabels),
	)
	cache := newMemCache()
	client := newTestClient(drv, gryphon.WithCache(cache, time.Minute))

	ada, err := client.Query("User").Where("name", gryphon.OpEQ, "ada").All(context.Background())
	require.NoError(t, err)
	grace, err := client.Query("User").Where("name", gryphon.OpEQ, "grace").All(context.Background())
	require.NoError(t, err)

	// Same text, different bound values: two driver round trips, two entries.
	assert.Len(t, drv.Statements, 2)
	assert.Equal(t, 2, cache.sets)
	require.Len(t, ada, 1)
	require.Len(t, grace, 1)
	assert.Equal(t, "u1", ada[0].ID())
	assert.Equal(t, "u2", grace[0].ID())
}

func TestQueryCacheKeyIsTypeDistinct(t *testing.T) {
	t.Parallel()

	// The int 1 and the string "1" compile to identical query text and bind
	// to the same placeholder; they still must not share a cache entry.
	drv := drivertest.New().QueueRecords(
		drivertest.NodeRecord("n0", map[string]any{"uuid": "u1", "name": "ada"}, userLabels),
	).QueueRecords(
		drivertest.NodeRecord("n0", map[string]any{"uuid": "u2", "name": "grace"}, userLabels),
	)
	cache := newMemCache()
	client := newTestClient(drv, gryphon.WithCache(cache, time.Minute))

	intMatch, err := client.Query("User").Where("age", gryphon.OpEQ, 1).All(context.Background())
	require.NoError(t, err)
	strMatch, err := client.Query("User").Where("age", gryphon.OpEQ, "1").All(context.Background())
	require.NoError(t, err)

	assert.Len(t, drv.Statements, 2)
	assert.Equal(t, drv.Statements[0].Query, drv.Statements[1].Query)
	assert.Equal(t, 2, cache.sets)
	require.Len(t, intMatch, 1)
	require.Len(t, strMatch, 1)
	assert.Equal(t, "u1", intMatch[0].ID())
	assert.Equal(t, "u2", strMatch[0].ID())
}

func TestQueryCacheFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	drv := drivertest.New().QueueRecords(
		drivertest.NodeRecord("n0", map[string]any{"uuid": "u1", "name": "ada"}, userLabels),
	)
	client := newTestClient(drv, gryphon.WithCache(brokenCache{}, time.Minute))

	// A failing cache degrades to plain driver reads; the query still works.
	users, err := client.Query("User").All(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].ID())
}
