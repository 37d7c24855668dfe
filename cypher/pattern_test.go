package cypher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gryphon-db/gryphon/cypher"
	"github.com/gryphon-db/gryphon/schema"
	"github.com/gryphon-db/gryphon/schema/edge"
)

func TestCompileInvalidChains(t *testing.T) {
	t.Parallel()
	reg := testRegistry(t)
	user, ok := reg.Entity("User")
	require.True(t, ok)

	tests := []struct {
		name string
		rel  *edge.Descriptor
	}{
		{
			name: "single_hop",
			rel: edge.ThroughOf("broken",
				edge.Hop{Source: "User", Target: "Post", Type: "WROTE"},
			).Descriptor(),
		},
		{
			name: "no_hops",
			rel:  edge.ThroughOf("broken").Descriptor(),
		},
		{
			name: "misaligned_hops",
			rel: edge.ThroughOf("broken",
				edge.Hop{Source: "User", Target: "Post", Type: "WROTE"},
				edge.Hop{Source: "Comment", Target: "Comment", Type: "HAS_COMMENT"},
			).Descriptor(),
		},
		{
			name: "first_hop_not_rooted_at_source",
			rel: edge.ThroughOf("broken",
				edge.Hop{Source: "Post", Target: "Comment", Type: "HAS_COMMENT"},
				edge.Hop{Source: "Comment", Target: "User", Type: "BY"},
			).Descriptor(),
		},
		{
			name: "unregistered_pivot",
			rel: edge.ThroughOf("broken",
				edge.Hop{Source: "User", Target: "Draft", Type: "WROTE"},
				edge.Hop{Source: "Draft", Target: "Comment", Type: "HAS_COMMENT"},
			).Descriptor(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := cypher.Compile(cypher.Spec{Source: user, Registry: reg, Rel: tt.rel})
			require.Error(t, err)
			assert.True(t, cypher.IsInvalidChain(err), "want InvalidChainError, got %v", err)
		})
	}
}

func TestHopVariablesAreScopedPerClause(t *testing.T) {
	t.Parallel()
	reg := testRegistry(t)

	spec := userSpec(t, reg, "comments")
	q, err := cypher.Compile(spec)
	require.NoError(t, err)

	// Each hop gets its own match clause, pivot variables chain between
	// them, and the parent variable appears only in the first clause.
	assert.Contains(t, q.Text, "MATCH (n0:User:Person)-[r1:WROTE]->(n1:Post) MATCH (n1:Post)-[r2:HAS_COMMENT]->(n2:Comment)")
}

func TestUntypedHopOmitsEdgeType(t *testing.T) {
	t.Parallel()
	reg := testRegistry(t)
	user, ok := reg.Entity("User")
	require.True(t, ok)

	rel := edge.ThroughOf("anything",
		edge.Hop{Source: "User", Target: "Post"},
		edge.Hop{Source: "Post", Target: "Comment"},
	).Descriptor()
	q, err := cypher.Compile(cypher.Spec{Source: user, Registry: reg, Rel: rel})
	require.NoError(t, err)
	assert.Contains(t, q.Text, "-[r1]->")
	assert.Contains(t, q.Text, "-[r2]->")
}
