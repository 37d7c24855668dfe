package gryphon

import (
	"context"
	"fmt"
	"math"

	"github.com/gryphon-db/gryphon/cypher"
)

// Op re-exports the predicate operator type for the query surface.
type Op = cypher.Op

// The supported predicate operators.
const (
	OpEQ   = cypher.OpEQ
	OpNEQ  = cypher.OpNEQ
	OpLT   = cypher.OpLT
	OpLTE  = cypher.OpLTE
	OpGT   = cypher.OpGT
	OpGTE  = cypher.OpGTE
	OpLike = cypher.OpLike
	OpIn   = cypher.OpIn
)

// Direction re-exports the sort direction for the query surface.
type Direction = cypher.SortDirection

// Sort directions. Ascending is the default.
const (
	Asc  = cypher.Asc
	Desc = cypher.Desc
)

// Query accumulates a specification (pattern, predicates, sort keys and
// paging) and executes it on a terminal operation. A Query is exclusively
// owned by the call chain that builds it and must not be shared.
type Query struct {
	client    *Client
	spec      cypher.Spec
	entity    string
	err       error // deferred construction error, surfaced at the terminal
}

// Query starts a bare entity query over the named variant.
func (c *Client) Query(entity string) *Query {
	q := &Query{client: c, entity: entity}
	desc, err := c.descriptor(entity)
	if err != nil {
		q.err = err
		return q
	}
	q.spec = cypher.Spec{Source: desc, Registry: c.registry}
	return q
}

// QueryRelated starts a traversal query over the parent's named
// relationship. The result is further filterable before execution.
func (c *Client) QueryRelated(parent *Entity, name string) *Query {
	q := &Query{client: c, entity: parent.Type()}
	rel, err := relationship(parent.desc, name)
	if err != nil {
		q.err = err
		return q
	}
	if parent.ID() == nil {
		q.err = NewQueryError(parent.Type(), name, fmt.Errorf("parent entity has no identifier"))
		return q
	}
	q.spec = cypher.Spec{
		Source:   parent.desc,
		Registry: c.registry,
		Rel:      rel,
		ParentID: parent.ID(),
	}
	return q
}

// Where adds a filter predicate on the terminal variable. Predicates combine
// with logical AND in declaration order.
func (q *Query) Where(column string, op Op, value any) *Query {
	q.spec.Predicates = append(q.spec.Predicates, cypher.Predicate{Column: column, Op: op, Value: value})
	return q
}

// OrderBy adds a sort key. Keys apply in declaration order: the first is
// primary, subsequent keys break ties.
func (q *Query) OrderBy(column string, dir Direction) *Query {
	q.spec.Sorts = append(q.spec.Sorts, cypher.SortKey{Column: column, Direction: dir})
	return q
}

// Limit caps the number of results, applied after any offset.
func (q *Query) Limit(n int) *Query {
	if n < 0 {
		q.err = fmt.Errorf("gryphon: negative limit %d", n)
		return q
	}
	q.spec.Limit = &n
	return q
}

// Offset skips the first n results post-ordering.
func (q *Query) Offset(n int) *Query {
	if n < 0 {
		q.err = fmt.Errorf("gryphon: negative offset %d", n)
		return q
	}
	q.spec.Offset = &n
	return q
}

// All executes the query and returns the hydrated results. Repeated nodes in
// the result set hydrate to one shared instance.
func (q *Query) All(ctx context.Context) ([]*Entity, error) {
	if q.err != nil {
		return nil, q.err
	}
	compiled, err := cypher.Compile(q.spec)
	if err != nil {
		return nil, err
	}
	entities, err := q.client.allCompiled(ctx, compiled, q.spec)
	if err != nil {
		return nil, NewQueryError(q.entity, "all", err)
	}
	return entities, nil
}

// First executes the query with the limit forced to 1 and returns the first
// result, or nil (and no error) when the result set is empty.
func (q *Query) First(ctx context.Context) (*Entity, error) {
	if q.err != nil {
		return nil, q.err
	}
	compiled, err := cypher.CompileFirst(q.spec)
	if err != nil {
		return nil, err
	}
	entities, err := q.client.allCompiled(ctx, compiled, q.spec)
	if err != nil {
		return nil, NewQueryError(q.entity, "first", err)
	}
	if len(entities) == 0 {
		return nil, nil
	}
	return entities[0], nil
}

// Count executes the scalar-count variant of the query.
func (q *Query) Count(ctx context.Context) (int64, error) {
	if q.err != nil {
		return 0, q.err
	}
	compiled, err := cypher.CompileCount(q.spec)
	if err != nil {
		return 0, err
	}
	v, err := q.client.driver.QueryScalar(ctx, compiled.Text, compiled.Params)
	if err != nil {
		return 0, NewQueryError(q.entity, "count", err)
	}
	n, err := toInt64(v)
	if err != nil {
		return 0, NewQueryError(q.entity, "count", err)
	}
	return n, nil
}

// Exist reports whether the query matches at least one result.
func (q *Query) Exist(ctx context.Context) (bool, error) {
	n, err := q.Count(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Get fetches a single entity by identifier. A missing entity is a
// NotFoundError.
func (c *Client) Get(ctx context.Context, entity string, id any) (*Entity, error) {
	desc, err := c.descriptor(entity)
	if err != nil {
		return nil, err
	}
	e, err := c.Query(entity).Where(desc.IDField(), OpEQ, id).First(ctx)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, NewNotFoundErrorWithID(entity, id)
	}
	return e, nil
}

// allCompiled executes a compiled row query and hydrates every record,
// reading through the client cache when one is configured.
func (c *Client) allCompiled(ctx context.Context, compiled cypher.CompiledQuery, spec cypher.Spec) ([]*Entity, error) {
	desc, ok := spec.Registry.Entity(targetEntity(spec))
	if !ok {
		return nil, NewUnknownEntityError(targetEntity(spec))
	}
	var key string
	if c.cache != nil {
		key = cacheKey(compiled)
		if data, err := c.cache.Get(ctx, key); err != nil {
			c.log.Warn("cache get failed", "err", err)
		} else if data != nil {
			rows, err := decodeRows(data)
			if err != nil {
				return nil, err
			}
			ids := make(identityMap, len(rows))
			entities := make([]*Entity, 0, len(rows))
			for _, row := range rows {
				e, err := hydrateNode(row.Props, row.Labels, desc, ids)
				if err != nil {
					return nil, err
				}
				entities = append(entities, e)
			}
			return entities, nil
		}
	}
	records, err := c.driver.Query(ctx, compiled.Text, compiled.Params)
	if err != nil {
		return nil, err
	}
	ids := make(identityMap, len(records))
	entities := make([]*Entity, 0, len(records))
	rows := make([]cachedRow, 0, len(records))
	for _, rec := range records {
		e, err := hydrate(rec, compiled, desc, ids)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
		rows = append(rows, cachedRow{Props: e.props, Labels: e.labels})
	}
	if c.cache != nil {
		data, err := encodeRows(rows)
		if err == nil {
			err = c.cache.Set(ctx, key, data, c.cacheTTL)
		}
		if err != nil {
			c.log.Warn("cache set failed", "err", err)
		}
	}
	return entities, nil
}

// targetEntity names the entity variant the terminal variable hydrates to.
func targetEntity(spec cypher.Spec) string {
	if spec.Rel == nil {
		return spec.Source.Name()
	}
	return spec.Rel.Target
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("gryphon: count %d overflows int64", n)
		}
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("gryphon: unexpected count type %T", v)
	}
}
