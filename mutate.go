package gryphon

import (
	"context"
	"fmt"
	"maps"

	"github.com/google/uuid"

	"github.com/gryphon-db/gryphon/cypher"
)

// Create persists a new entity of the given variant. When the identifier
// property is absent a fresh UUID is generated. The node is created with the
// full declared label set and the returned instance carries the labels the
// store actually attached.
func (c *Client) Create(ctx context.Context, entity string, props map[string]any) (*Entity, error) {
	desc, err := c.descriptor(entity)
	if err != nil {
		return nil, err
	}
	props = maps.Clone(props)
	if props == nil {
		props = make(map[string]any, 1)
	}
	if props[desc.IDField()] == nil {
		props[desc.IDField()] = uuid.NewString()
	}
	compiled, err := cypher.CompileCreate(desc, props)
	if err != nil {
		return nil, NewMutationError(entity, "create", err)
	}
	e, err := c.one(ctx, compiled, desc.Name())
	if err != nil {
		return nil, NewMutationError(entity, "create", err)
	}
	if e == nil {
		return nil, NewMutationError(entity, "create", fmt.Errorf("store returned no row for the created node"))
	}
	return e, nil
}

// Update rewrites the entity's properties in the store and re-asserts the
// full declared label set. Labels attached by other code paths are never
// removed; label removal is not supported. The entity's observed labels are
// refreshed from the store on success.
func (c *Client) Update(ctx context.Context, e *Entity) error {
	if e.ID() == nil {
		return NewMutationError(e.Type(), "update", fmt.Errorf("entity has no identifier"))
	}
	compiled, err := cypher.CompileUpdate(e.desc, e.ID(), e.props)
	if err != nil {
		return NewMutationError(e.Type(), "update", err)
	}
	updated, err := c.one(ctx, compiled, e.Type())
	if err != nil {
		return NewMutationError(e.Type(), "update", err)
	}
	if updated == nil {
		return NewNotFoundErrorWithID(e.Type(), e.ID())
	}
	e.labels = updated.labels
	return nil
}

// Save persists the entity: Create when it has no identifier yet, Update
// otherwise. On create the generated identifier is assigned back to the
// instance.
func (c *Client) Save(ctx context.Context, e *Entity) error {
	if e.ID() != nil {
		return c.Update(ctx, e)
	}
	created, err := c.Create(ctx, e.Type(), e.props)
	if err != nil {
		return err
	}
	e.SetProperty(e.desc.IDField(), created.ID())
	e.labels = created.labels
	return nil
}

// Connect creates the relationship edge between two persisted entities for a
// direct relationship. Through relationships are derived traversals and are
// rejected with an InvalidChainError.
func (c *Client) Connect(ctx context.Context, parent *Entity, name string, child *Entity) error {
	rel, err := relationship(parent.desc, name)
	if err != nil {
		return err
	}
	if parent.ID() == nil || child.ID() == nil {
		return NewMutationError(parent.Type(), "connect", fmt.Errorf("both entities need identifiers"))
	}
	if child.Type() != rel.Target {
		return NewMutationError(parent.Type(), "connect",
			fmt.Errorf("relationship %q targets %q, got %q", name, rel.Target, child.Type()))
	}
	compiled, err := cypher.CompileConnect(parent.desc, rel, parent.ID(), c.registry, child.ID())
	if err != nil {
		return err
	}
	if err := c.driver.Exec(ctx, compiled.Text, compiled.Params); err != nil {
		return NewMutationError(parent.Type(), "connect", err)
	}
	return nil
}

// one executes a compiled statement expected to return at most one node row.
func (c *Client) one(ctx context.Context, compiled cypher.CompiledQuery, entity string) (*Entity, error) {
	desc, ok := c.registry.Entity(entity)
	if !ok {
		return nil, NewUnknownEntityError(entity)
	}
	records, err := c.driver.Query(ctx, compiled.Text, compiled.Params)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return hydrate(records[0], compiled, desc, make(identityMap, 1))
}
