package gryphon

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gryphon-db/gryphon/cypher"
)

// batchResult is the transient batch context: one bucket per parent
// identifier, produced by a single traversal query. It is owned by the call
// that created it and discarded once the buckets transfer to the parents.
type batchResult struct {
	rel     string
	buckets map[any][]*Entity
}

// LoadRelated eager-loads the named relationship for every parent with one
// traversal query, then marks the relationship loaded on every member;
// parents with no matches get a loaded empty collection, not an absent one.
// On any failure no parent is mutated.
//
// Optional mods refine the traversal before execution:
//
//	client.LoadRelated(ctx, users, "posts", func(q *gryphon.Query) {
//	    q.Where("published", gryphon.OpEQ, true).OrderBy("title", gryphon.Asc)
//	})
func (c *Client) LoadRelated(ctx context.Context, parents []*Entity, name string, mods ...func(*Query)) error {
	res, err := c.loadBatch(ctx, parents, name, mods...)
	if err != nil {
		return err
	}
	res.apply(parents)
	return nil
}

// LoadMany eager-loads several sibling relationships for the same parents.
// The traversal queries run concurrently, each owning its batch context, but
// buckets are assigned only after every query has succeeded; one failure
// leaves all parents untouched.
func (c *Client) LoadMany(ctx context.Context, parents []*Entity, names ...string) error {
	results := make([]*batchResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			res, err := c.loadBatch(gctx, parents, name)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, res := range results {
		res.apply(parents)
	}
	return nil
}

// Load is the lazy single-parent accessor: it returns the relationship's
// collection, triggering a synchronous load on first access. A failed load
// transitions the cell to its failed state and re-access returns the stored
// error without retrying; retries are the caller's responsibility.
func (c *Client) Load(ctx context.Context, parent *Entity, name string) ([]*Entity, error) {
	if cell, ok := parent.rels[name]; ok && cell.state != relNotLoaded {
		return parent.Related(name)
	}
	res, err := c.loadBatch(ctx, []*Entity{parent}, name)
	if err != nil {
		if !IsUnknownRelationship(err) && !cypher.IsInvalidChain(err) {
			parent.setFailed(name, err)
		}
		return nil, err
	}
	res.apply([]*Entity{parent})
	return parent.Related(name)
}

// loadBatch issues one traversal query covering all parents and partitions
// the flat result set back into per-parent buckets keyed by the propagated
// parent identifier.
func (c *Client) loadBatch(ctx context.Context, parents []*Entity, name string, mods ...func(*Query)) (*batchResult, error) {
	if len(parents) == 0 {
		return &batchResult{rel: name, buckets: map[any][]*Entity{}}, nil
	}
	desc := parents[0].desc
	rel, err := relationship(desc, name)
	if err != nil {
		return nil, err
	}
	target, ok := c.registry.Entity(rel.Target)
	if !ok {
		return nil, NewUnknownEntityError(rel.Target)
	}

	// Distinct parent identifiers in first-seen order, so identical parent
	// sets compile to identical queries.
	ids := make([]any, 0, len(parents))
	buckets := make(map[any][]*Entity, len(parents))
	for _, p := range parents {
		if p.desc != desc {
			return nil, NewQueryError(desc.Name(), name,
				fmt.Errorf("batch mixes entity variants %q and %q", desc.Name(), p.Type()))
		}
		if p.ID() == nil {
			return nil, NewQueryError(desc.Name(), name, fmt.Errorf("parent entity has no identifier"))
		}
		if _, seen := buckets[p.ID()]; !seen {
			ids = append(ids, p.ID())
			buckets[p.ID()] = make([]*Entity, 0)
		}
	}

	q := &Query{
		client: c,
		entity: desc.Name(),
		spec: cypher.Spec{
			Source:    desc,
			Registry:  c.registry,
			Rel:       rel,
			ParentIDs: ids,
		},
	}
	for _, mod := range mods {
		mod(q)
	}
	if q.err != nil {
		return nil, q.err
	}
	compiled, err := cypher.Compile(q.spec)
	if err != nil {
		return nil, err
	}
	records, err := c.driver.Query(ctx, compiled.Text, compiled.Params)
	if err != nil {
		return nil, NewQueryError(desc.Name(), name, err)
	}

	// One identity map for the whole batch: a node revisited by the
	// traversal hydrates to one shared instance.
	idmap := make(identityMap, len(records))
	for _, rec := range records {
		src, ok := rec[compiled.SrcKey]
		if !ok || src == nil {
			return nil, NewHydrationError(compiled.SrcKey, "record has no parent identifier")
		}
		if _, ok := buckets[src]; !ok {
			return nil, NewHydrationError(compiled.SrcKey, fmt.Sprintf("identifier %v is not in the batch", src))
		}
		e, err := hydrate(rec, compiled, target, idmap)
		if err != nil {
			return nil, err
		}
		buckets[src] = append(buckets[src], e)
	}
	return &batchResult{rel: name, buckets: buckets}, nil
}

// apply transfers bucket ownership to the parents and sets their loaded
// flags. Called only after the whole result set partitioned without error.
func (r *batchResult) apply(parents []*Entity) {
	for _, p := range parents {
		p.setLoaded(r.rel, r.buckets[p.ID()])
	}
}
