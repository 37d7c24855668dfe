package gryphon_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gryphon-db/gryphon"
	"github.com/gryphon-db/gryphon/drivertest"
)

func TestEntityProperties(t *testing.T) {
	t.Parallel()

	client := newTestClient(drivertest.New())
	e, err := client.NewEntity("User", userProps("u1", "ada", 36))
	require.NoError(t, err)

	assert.Equal(t, "User", e.Type())
	assert.Equal(t, "u1", e.ID())

	name, ok := e.Property("name")
	require.True(t, ok)
	assert.Equal(t, "ada", name)

	_, ok = e.Property("missing")
	assert.False(t, ok)

	e.SetProperty("age", 37)
	age, _ := e.Property("age")
	assert.Equal(t, 37, age)
}

func TestEntitySetIdentifierUpdatesIdentity(t *testing.T) {
	t.Parallel()

	client := newTestClient(drivertest.New())
	e, err := client.NewEntity("User", map[string]any{"name": "ada"})
	require.NoError(t, err)
	require.Nil(t, e.ID())

	e.SetProperty("uuid", "u5")
	assert.Equal(t, "u5", e.ID())
}

func TestEntityLabels(t *testing.T) {
	t.Parallel()

	drv := drivertest.New().QueueRecords(
		drivertest.NodeRecord("n0", userProps("u1", "ada", 36), []string{"User", "Person", "Admin"}),
	)
	client := newTestClient(drv)

	e, err := client.Get(context.Background(), "User", "u1")
	require.NoError(t, err)

	// Labels reflect what the store returned, not the declared set.
	assert.Equal(t, []string{"User", "Person", "Admin"}, e.Labels())
	assert.True(t, e.HasLabel("Admin"))
	assert.False(t, e.HasLabel("Moderator"))
}

func TestEntityRelationAccess(t *testing.T) {
	t.Parallel()

	t.Run("not_loaded", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(drivertest.New())
		e, err := client.NewEntity("User", userProps("u1", "ada", 36))
		require.NoError(t, err)

		assert.False(t, e.RelationLoaded("posts"))
		_, err = e.Related("posts")
		assert.True(t, gryphon.IsNotLoaded(err))
		_, err = e.RelatedOne("manager")
		assert.True(t, gryphon.IsNotLoaded(err))
	})

	t.Run("loaded_empty_is_not_absent", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(drivertest.New())
		users := newUsers(t, client, "u1")
		require.NoError(t, client.LoadRelated(context.Background(), users, "posts"))

		assert.True(t, users[0].RelationLoaded("posts"))
		posts, err := users[0].Related("posts")
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("related_one", func(t *testing.T) {
		t.Parallel()
		drv := drivertest.New().QueueRecords(
			drivertest.BatchRecord("u1", "n1", map[string]any{"uuid": "u2", "name": "grace"}, userLabels),
		)
		client := newTestClient(drv)
		users := newUsers(t, client, "u1")
		require.NoError(t, client.LoadRelated(context.Background(), users, "manager"))

		boss, err := users[0].RelatedOne("manager")
		require.NoError(t, err)
		require.NotNil(t, boss)
		assert.Equal(t, "u2", boss.ID())
	})

	t.Run("related_one_empty", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(drivertest.New())
		users := newUsers(t, client, "u1")
		require.NoError(t, client.LoadRelated(context.Background(), users, "manager"))

		boss, err := users[0].RelatedOne("manager")
		require.NoError(t, err)
		assert.Nil(t, boss)
	})
}
