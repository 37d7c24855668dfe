// Package edge provides builders for declaring relationships between
// entity variants: direct edges and multi-hop "through" chains.
package edge

import (
	"strings"

	"github.com/go-openapi/inflect"
)

// Dir is the direction of an edge relative to its source node.
type Dir int

const (
	// Out matches (source)-[edge]->(target).
	Out Dir = iota
	// In matches (source)<-[edge]-(target).
	In
)

// Kind discriminates the relationship variants.
type Kind int

const (
	// Direct is a single-edge relationship.
	Direct Kind = iota
	// Through is an ordered chain of two or more hops sharing pivot
	// entity variants.
	Through
)

// Hop is one edge traversal step within a through chain.
type Hop struct {
	// Source and Target are entity variant names. Consecutive hops must
	// line up: hop[i].Target == hop[i+1].Source.
	Source string
	Target string
	// Type is the edge type. Empty means no type constraint on the hop.
	Type string
	// Dir is the hop direction relative to Source.
	Dir Dir
}

// Descriptor holds a declared relationship. Descriptors are built once at
// schema declaration time and are immutable for the process lifetime.
type Descriptor struct {
	Name    string // Relationship name on the owning entity.
	Kind    Kind   // Direct or Through.
	Dir     Dir    // Direction (Direct only).
	Type    string // Edge type (Direct only).
	Target  string // Effective target entity variant.
	Hops    []Hop  // Chain hops (Through only).
	Unique  bool   // At most one related instance.
	Comment string
}

// DirectBuilder builds a direct-edge Descriptor.
type DirectBuilder struct {
	desc *Descriptor
}

// To declares an outgoing relationship to the target entity variant.
// The edge type defaults to the upper-snake form of the relationship name.
func To(name, target string) *DirectBuilder {
	return &DirectBuilder{desc: &Descriptor{
		Name:   name,
		Kind:   Direct,
		Dir:    Out,
		Type:   DefaultType(name),
		Target: target,
	}}
}

// From declares an incoming relationship from the target entity variant.
func From(name, target string) *DirectBuilder {
	b := To(name, target)
	b.desc.Dir = In
	return b
}

// Type overrides the edge type.
func (b *DirectBuilder) Type(t string) *DirectBuilder {
	b.desc.Type = t
	return b
}

// Unique marks the relationship as holding at most one related instance.
func (b *DirectBuilder) Unique() *DirectBuilder {
	b.desc.Unique = true
	return b
}

// Comment attaches a description to the relationship.
func (b *DirectBuilder) Comment(c string) *DirectBuilder {
	b.desc.Comment = c
	return b
}

// Descriptor returns the built Descriptor.
func (b *DirectBuilder) Descriptor() *Descriptor {
	return b.desc
}

// ThroughBuilder builds a through-chain Descriptor.
type ThroughBuilder struct {
	desc *Descriptor
}

// ThroughOf declares a relationship traversing the given hops in order.
// The chain's effective target is the last hop's target. A valid chain
// needs at least two hops; shorter or misaligned chains are rejected when
// the pattern is built.
func ThroughOf(name string, hops ...Hop) *ThroughBuilder {
	var target string
	if len(hops) > 0 {
		target = hops[len(hops)-1].Target
	}
	return &ThroughBuilder{desc: &Descriptor{
		Name:   name,
		Kind:   Through,
		Target: target,
		Hops:   hops,
	}}
}

// Comment attaches a description to the relationship.
func (b *ThroughBuilder) Comment(c string) *ThroughBuilder {
	b.desc.Comment = c
	return b
}

// Descriptor returns the built Descriptor.
func (b *ThroughBuilder) Descriptor() *Descriptor {
	return b.desc
}

// DefaultType derives the default edge type from a relationship name:
// "blogPosts" and "blog_posts" both become "BLOG_POSTS".
func DefaultType(name string) string {
	return strings.ToUpper(inflect.Underscore(name))
}
