package gryphon

import (
	"maps"
	"slices"

	"github.com/gryphon-db/gryphon/cypher"
	"github.com/gryphon-db/gryphon/dialect"
	"github.com/gryphon-db/gryphon/schema"
)

// identityKey identifies a hydrated node by entity variant and identifier,
// never by pointer equality.
type identityKey struct {
	variant string
	id      any
}

// identityMap ensures the same underlying node hydrates to one shared
// instance within a single call, even when a traversal revisits it through
// multiple hops. The map lives for one batch and is discarded afterwards.
type identityMap map[identityKey]*Entity

// hydrate converts one raw record into an entity instance: properties are
// mapped by name and the raw label list becomes the instance's observed
// label set. A missing node, identifier or label column is a HydrationError.
func hydrate(rec dialect.Record, q cypher.CompiledQuery, desc *schema.EntityDescriptor, ids identityMap) (*Entity, error) {
	node, ok := rec.Node(q.NodeKey)
	if !ok {
		return nil, NewHydrationError(q.NodeKey, "record has no node column")
	}
	labels, ok := rec.Labels(q.LabelsKey)
	if !ok {
		return nil, NewHydrationError(q.LabelsKey, "record has no label column")
	}
	return hydrateNode(node.Props, labels, desc, ids)
}

func hydrateNode(props map[string]any, labels []string, desc *schema.EntityDescriptor, ids identityMap) (*Entity, error) {
	id, ok := props[desc.IDField()]
	if !ok || id == nil {
		return nil, NewHydrationError(desc.IDField(), "record has no identifier property")
	}
	key := identityKey{variant: desc.Name(), id: id}
	if e, ok := ids[key]; ok {
		return e, nil
	}
	e := newEntity(desc, maps.Clone(props))
	e.labels = slices.Clone(labels)
	ids[key] = e
	return e, nil
}
