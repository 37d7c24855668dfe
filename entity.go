package gryphon

import (
	"slices"

	"github.com/gryphon-db/gryphon/schema"
)

// relState tracks whether a relationship cell holds a value. Loaded-but-empty
// is distinct from not-loaded.
type relState int

const (
	relNotLoaded relState = iota
	relLoaded
	relFailed
)

// relCell is the tri-state holder behind a relationship accessor:
// NotLoaded, Loaded(values) or Failed(err). A lazy access on NotLoaded
// triggers a single synchronous load and transitions the state; the core
// never retries a Failed cell on its own.
type relCell struct {
	state  relState
	values []*Entity
	err    error
}

// Entity is one hydrated (or to-be-written) entity instance: an identifier,
// a property mapping, the label set actually observed on read, and the
// per-relationship cells. An Entity is exclusively owned by the caller that
// created or fetched it; the hydrator retains instances only inside the
// identity map of a single batch.
type Entity struct {
	desc   *schema.EntityDescriptor
	id     any
	props  map[string]any
	labels []string
	rels   map[string]*relCell
}

func newEntity(desc *schema.EntityDescriptor, props map[string]any) *Entity {
	if props == nil {
		props = make(map[string]any)
	}
	e := &Entity{
		desc:  desc,
		props: props,
		rels:  make(map[string]*relCell),
	}
	e.id = props[desc.IDField()]
	return e
}

// Type returns the entity variant name.
func (e *Entity) Type() string { return e.desc.Name() }

// ID returns the entity identifier, or nil if it has not been assigned yet.
func (e *Entity) ID() any { return e.id }

// Property returns the named property value.
func (e *Entity) Property(name string) (any, bool) {
	v, ok := e.props[name]
	return v, ok
}

// SetProperty assigns a property value. Assigning the identifier field also
// updates the entity identity used by later writes.
func (e *Entity) SetProperty(name string, v any) {
	e.props[name] = v
	if name == e.desc.IDField() {
		e.id = v
	}
}

// Properties returns the entity's property mapping. The map is live; the
// caller owns the entity and may mutate it before a write.
func (e *Entity) Properties() map[string]any { return e.props }

// Labels returns the label set observed on read (or to be written), not the
// declared set recomputed from the descriptor.
func (e *Entity) Labels() []string { return e.labels }

// HasLabel reports whether the observed label set carries the given label.
func (e *Entity) HasLabel(label string) bool {
	return slices.Contains(e.labels, label)
}

// RelationLoaded reports whether the named relationship has been loaded.
// It is false for a relationship that failed to load.
func (e *Entity) RelationLoaded(name string) bool {
	cell, ok := e.rels[name]
	return ok && cell.state == relLoaded
}

// Related returns the already-loaded collection for the named relationship.
// It returns a NotLoadedError if the relationship was never loaded, and the
// stored load error if the last lazy load failed.
func (e *Entity) Related(name string) ([]*Entity, error) {
	cell, ok := e.rels[name]
	if !ok || cell.state == relNotLoaded {
		return nil, NewNotLoadedError(name)
	}
	if cell.state == relFailed {
		return nil, cell.err
	}
	return cell.values, nil
}

// RelatedOne returns the single already-loaded instance for the named
// relationship, or nil when the relationship is loaded but empty.
func (e *Entity) RelatedOne(name string) (*Entity, error) {
	values, err := e.Related(name)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values[0], nil
}

func (e *Entity) setLoaded(name string, values []*Entity) {
	e.rels[name] = &relCell{state: relLoaded, values: values}
}

func (e *Entity) setFailed(name string, err error) {
	e.rels[name] = &relCell{state: relFailed, err: err}
}
