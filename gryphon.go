// Package gryphon maps domain entities onto a graph-structured store.
//
// Application code declares entity variants and their relationships once at
// setup time (see the schema and schema/edge packages); ordinary query
// operations such as filter, order, limit/offset, count and first are
// compiled into parameterized pattern-matching queries, executed through a
// dialect.Driver,
// and the resulting rows are hydrated back into typed entity instances.
// Relationship traversals for many parents are batched into a single query
// and partitioned back per parent.
package gryphon

import (
	"log/slog"
	"time"

	"github.com/gryphon-db/gryphon/dialect"
	"github.com/gryphon-db/gryphon/schema"
	"github.com/gryphon-db/gryphon/schema/edge"
)

// Client is the entry point for queries, eager loads and writes. A Client is
// stateless between calls and safe for concurrent use: descriptors are
// immutable, and every call owns its own specification and batch context.
type Client struct {
	driver   dialect.Driver
	registry *schema.Registry
	log      *slog.Logger
	cache    Cache
	cacheTTL time.Duration
}

// Option configures a Client.
type Option func(*Client)

// Driver sets the driver the client executes against.
func Driver(d dialect.Driver) Option {
	return func(c *Client) { c.driver = d }
}

// Log sets the client logger. Defaults to slog.Default.
func Log(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithCache enables read-through caching of query results. Entries are
// keyed by the compiled query and stored for ttl. Writes do not invalidate
// entries; invalidation policy belongs to the Cache implementation.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// NewClient returns a client over the given (frozen) descriptor registry.
func NewClient(registry *schema.Registry, opts ...Option) *Client {
	c := &Client{
		registry: registry,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Debug returns a copy of the client whose driver logs every statement.
func (c *Client) Debug() *Client {
	clone := *c
	clone.driver = dialect.DebugLog(c.driver, c.log)
	return &clone
}

// Registry returns the descriptor registry the client was built with.
func (c *Client) Registry() *schema.Registry { return c.registry }

// Close closes the underlying driver.
func (c *Client) Close() error {
	return c.driver.Close()
}

// NewEntity constructs an unsaved entity instance of the given variant with
// the given properties. The identifier is assigned by Create if the
// identifier property is absent.
func (c *Client) NewEntity(entity string, props map[string]any) (*Entity, error) {
	desc, ok := c.registry.Entity(entity)
	if !ok {
		return nil, NewUnknownEntityError(entity)
	}
	return newEntity(desc, props), nil
}

// descriptor resolves an entity variant name.
func (c *Client) descriptor(entity string) (*schema.EntityDescriptor, error) {
	desc, ok := c.registry.Entity(entity)
	if !ok {
		return nil, NewUnknownEntityError(entity)
	}
	return desc, nil
}

// relationship resolves a declared relationship on the given descriptor.
func relationship(desc *schema.EntityDescriptor, name string) (*edge.Descriptor, error) {
	rel, ok := desc.Relationship(name)
	if !ok {
		return nil, NewUnknownRelationshipError(desc.Name(), name)
	}
	return rel, nil
}
