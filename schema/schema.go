// Package schema holds the entity descriptor registry: the process-wide,
// init-once declaration of entity variants, their labels, identifier fields
// and relationships.
//
// Descriptors are constructed at setup time, registered, and the registry is
// frozen before serving queries. After Freeze the registry is immutable and
// safe to share across any number of concurrent callers without locking.
package schema

import (
	"fmt"
	"sort"

	"github.com/gryphon-db/gryphon/schema/edge"
)

// DefaultIDField is the identifier property used when a descriptor does not
// declare one.
const DefaultIDField = "uuid"

// EntityDescriptor identifies an entity variant: its label set, identifier
// field and declared relationships. Immutable once built.
type EntityDescriptor struct {
	name    string
	idField string
	labels  []string // primary first, declaration order, duplicates collapsed
	rels    map[string]*edge.Descriptor
}

// Name returns the entity variant name.
func (d *EntityDescriptor) Name() string { return d.name }

// IDField returns the identifier property name.
func (d *EntityDescriptor) IDField() string { return d.idField }

// Labels returns the declared label set in declaration order, primary first.
// Callers must not mutate the returned slice.
func (d *EntityDescriptor) Labels() []string { return d.labels }

// Label returns the primary label.
func (d *EntityDescriptor) Label() string { return d.labels[0] }

// Relationship looks up a declared relationship by name.
func (d *EntityDescriptor) Relationship(name string) (*edge.Descriptor, bool) {
	r, ok := d.rels[name]
	return r, ok
}

// RelationshipNames returns the declared relationship names, sorted.
func (d *EntityDescriptor) RelationshipNames() []string {
	names := make([]string, 0, len(d.rels))
	for name := range d.rels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EntityBuilder builds an EntityDescriptor.
type EntityBuilder struct {
	name    string
	idField string
	extra   []string
	rels    []*edge.Descriptor
}

// NewEntity starts a descriptor for the named entity variant. The variant
// name doubles as its primary label.
func NewEntity(name string) *EntityBuilder {
	return &EntityBuilder{name: name, idField: DefaultIDField}
}

// Labels declares additional labels beyond the primary. Declaration order is
// preserved for writes; match queries treat the set as unordered.
func (b *EntityBuilder) Labels(labels ...string) *EntityBuilder {
	b.extra = append(b.extra, labels...)
	return b
}

// IDField overrides the identifier property name.
func (b *EntityBuilder) IDField(field string) *EntityBuilder {
	b.idField = field
	return b
}

// Relationships declares the entity's relationships.
func (b *EntityBuilder) Relationships(rels ...*edge.Descriptor) *EntityBuilder {
	b.rels = append(b.rels, rels...)
	return b
}

// Descriptor returns the built EntityDescriptor. Duplicate labels collapse,
// keeping the first occurrence; the primary label is always first.
func (b *EntityBuilder) Descriptor() *EntityDescriptor {
	labels := make([]string, 0, len(b.extra)+1)
	seen := make(map[string]struct{}, len(b.extra)+1)
	for _, l := range append([]string{b.name}, b.extra...) {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		labels = append(labels, l)
	}
	rels := make(map[string]*edge.Descriptor, len(b.rels))
	for _, r := range b.rels {
		rels[r.Name] = r
	}
	return &EntityDescriptor{
		name:    b.name,
		idField: b.idField,
		labels:  labels,
		rels:    rels,
	}
}

// Registry maps entity variant names to their descriptors. Register all
// descriptors at process setup, then Freeze.
type Registry struct {
	entities map[string]*EntityDescriptor
	frozen   bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entities: make(map[string]*EntityDescriptor)}
}

// Register adds a descriptor. It panics on a frozen registry or a duplicate
// name: both indicate a setup bug, not a runtime condition.
func (r *Registry) Register(d *EntityDescriptor) *Registry {
	if r.frozen {
		panic("schema: Register called on frozen registry")
	}
	if _, ok := r.entities[d.name]; ok {
		panic(fmt.Sprintf("schema: entity %q registered twice", d.name))
	}
	r.entities[d.name] = d
	return r
}

// Freeze seals the registry. Idempotent.
func (r *Registry) Freeze() *Registry {
	r.frozen = true
	return r
}

// Entity looks up a descriptor by entity variant name.
func (r *Registry) Entity(name string) (*EntityDescriptor, bool) {
	d, ok := r.entities[name]
	return d, ok
}

// EntityNames returns the registered entity names, sorted.
func (r *Registry) EntityNames() []string {
	names := make([]string, 0, len(r.entities))
	for name := range r.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
