package drivertest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gryphon-db/gryphon/dialect"
	"github.com/gryphon-db/gryphon/drivertest"
)

func TestDriverQueues(t *testing.T) {
	t.Parallel()

	drv := drivertest.New().
		QueueRecords(drivertest.NodeRecord("n0", map[string]any{"uuid": "u1"}, []string{"User"})).
		QueueScalar(int64(42))
	ctx := context.Background()

	records, err := drv.Query(ctx, "first", map[string]any{"p1": "u1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	node, ok := records[0].Node("n0")
	require.True(t, ok)
	assert.Equal(t, "u1", node.Props["uuid"])

	// Exhausted queues fall back to empty results.
	records, err = drv.Query(ctx, "second", nil)
	require.NoError(t, err)
	assert.Empty(t, records)

	v, err := drv.QueryScalar(ctx, "count", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)
	v, err = drv.QueryScalar(ctx, "count again", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	require.NoError(t, drv.Exec(ctx, "exec", nil))

	// Every call was recorded in order.
	queries := make([]string, len(drv.Statements))
	for i, s := range drv.Statements {
		queries[i] = s.Query
	}
	assert.Equal(t, []string{"first", "second", "count", "count again", "exec"}, queries)
	assert.Equal(t, map[string]any{"p1": "u1"}, drv.Statements[0].Params)
}

func TestDriverFailWith(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	drv := drivertest.New().FailWith(cause)
	ctx := context.Background()

	_, err := drv.Query(ctx, "q", nil)
	assert.True(t, dialect.IsDriverError(err))
	assert.ErrorIs(t, err, cause)

	_, err = drv.QueryScalar(ctx, "q", nil)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, drv.Exec(ctx, "q", nil), cause)
}

func TestDriverClose(t *testing.T) {
	t.Parallel()

	drv := drivertest.New()
	assert.False(t, drv.Closed())
	require.NoError(t, drv.Close())
	assert.True(t, drv.Closed())
}

func TestBatchRecord(t *testing.T) {
	t.Parallel()

	rec := drivertest.BatchRecord("u1", "n2", map[string]any{"uuid": "c1"}, []string{"Comment"})
	assert.Equal(t, "u1", rec["src"])
	labels, ok := rec.Labels("n2_labels")
	require.True(t, ok)
	assert.Equal(t, []string{"Comment"}, labels)
}
