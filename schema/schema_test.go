package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gryphon-db/gryphon/schema"
	"github.com/gryphon-db/gryphon/schema/edge"
)

func TestEntityBuilder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		build      func() *schema.EntityDescriptor
		wantLabels []string
		wantID     string
	}{
		{
			name:       "primary_label_only",
			build:      func() *schema.EntityDescriptor { return schema.NewEntity("User").Descriptor() },
			wantLabels: []string{"User"},
			wantID:     "uuid",
		},
		{
			name: "extra_labels_keep_declaration_order",
			build: func() *schema.EntityDescriptor {
				return schema.NewEntity("User").Labels("Person", "Admin").Descriptor()
			},
			wantLabels: []string{"User", "Person", "Admin"},
			wantID:     "uuid",
		},
		{
			name: "duplicate_labels_collapse",
			build: func() *schema.EntityDescriptor {
				return schema.NewEntity("User").Labels("Person", "User", "Person").Descriptor()
			},
			wantLabels: []string{"User", "Person"},
			wantID:     "uuid",
		},
		{
			name: "id_field_override",
			build: func() *schema.EntityDescriptor {
				return schema.NewEntity("User").IDField("user_id").Descriptor()
			},
			wantLabels: []string{"User"},
			wantID:     "user_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			desc := tt.build()
			assert.Equal(t, tt.wantLabels, desc.Labels())
			assert.Equal(t, tt.wantLabels[0], desc.Label())
			assert.Equal(t, tt.wantID, desc.IDField())
		})
	}
}

func TestRegistryLookup(t *testing.T) {
	t.Parallel()

	reg := schema.NewRegistry().
		Register(schema.NewEntity("User").Relationships(
			edge.To("posts", "Post").Descriptor(),
			edge.To("avatar", "Image").Unique().Descriptor(),
		).Descriptor()).
		Register(schema.NewEntity("Post").Descriptor()).
		Freeze()

	user, ok := reg.Entity("User")
	require.True(t, ok)
	assert.Equal(t, "User", user.Name())

	_, ok = reg.Entity("Ghost")
	assert.False(t, ok)

	rel, ok := user.Relationship("posts")
	require.True(t, ok)
	assert.Equal(t, "Post", rel.Target)

	_, ok = user.Relationship("followers")
	assert.False(t, ok)

	assert.Equal(t, []string{"avatar", "posts"}, user.RelationshipNames())
	assert.Equal(t, []string{"Post", "User"}, reg.EntityNames())
}

func TestRegistryFreezePanics(t *testing.T) {
	t.Parallel()

	reg := schema.NewRegistry().Register(schema.NewEntity("User").Descriptor()).Freeze()
	assert.Panics(t, func() {
		reg.Register(schema.NewEntity("Post").Descriptor())
	})
}

func TestRegistryDuplicatePanics(t *testing.T) {
	t.Parallel()

	reg := schema.NewRegistry().Register(schema.NewEntity("User").Descriptor())
	assert.Panics(t, func() {
		reg.Register(schema.NewEntity("User").Descriptor())
	})
}
