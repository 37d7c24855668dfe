package gryphon_test

import (
	"github.com/gryphon-db/gryphon"
	"github.com/gryphon-db/gryphon/dialect"
	"github.com/gryphon-db/gryphon/schema"
	"github.com/gryphon-db/gryphon/schema/edge"
)

// testRegistry declares the fixture graph shared by the tests:
// users write posts, posts carry comments, and a user's comments are
// reachable through their posts.
func testRegistry() *schema.Registry {
	return schema.NewRegistry().
		Register(schema.NewEntity("User").Labels("Person").Relationships(
			edge.To("posts", "Post").Type("WROTE").Descriptor(),
			edge.ThroughOf("comments",
				edge.Hop{Source: "User", Target: "Post", Type: "WROTE"},
				edge.Hop{Source: "Post", Target: "Comment", Type: "HAS_COMMENT"},
			).Descriptor(),
			edge.From("manager", "User").Type("MANAGES").Unique().Descriptor(),
		).Descriptor()).
		Register(schema.NewEntity("Post").Relationships(
			edge.To("comments", "Comment").Type("HAS_COMMENT").Descriptor(),
		).Descriptor()).
		Register(schema.NewEntity("Comment").Descriptor()).
		Freeze()
}

func newTestClient(drv dialect.Driver, opts ...gryphon.Option) *gryphon.Client {
	return gryphon.NewClient(testRegistry(), append([]gryphon.Option{gryphon.Driver(drv)}, opts...)...)
}

func userProps(id, name string, age int) map[string]any {
	return map[string]any{"uuid": id, "name": name, "age": age}
}

var userLabels = []string{"User", "Person"}
