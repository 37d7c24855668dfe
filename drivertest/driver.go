// Package drivertest provides a scripted dialect.Driver for tests: queued
// results are handed out in order and every executed statement is recorded
// for assertion.
package drivertest

import (
	"context"
	"sync"

	"github.com/gryphon-db/gryphon/dialect"
)

// Statement is one recorded driver invocation.
type Statement struct {
	Query  string
	Params map[string]any
}

// Driver is a scripted in-memory dialect.Driver.
type Driver struct {
	mu      sync.Mutex
	results [][]dialect.Record
	scalars []any
	err     error
	closed  bool

	// Statements records every Query, QueryScalar and Exec in order.
	Statements []Statement
}

// New returns an empty scripted driver. With nothing queued, Query returns
// no records and QueryScalar returns int64(0).
func New() *Driver {
	return &Driver{}
}

// QueueRecords appends one result set to the Query queue.
func (d *Driver) QueueRecords(records ...dialect.Record) *Driver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results = append(d.results, records)
	return d
}

// QueueScalar appends one value to the QueryScalar queue.
func (d *Driver) QueueScalar(v any) *Driver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scalars = append(d.scalars, v)
	return d
}

// FailWith makes every subsequent call return the given error.
func (d *Driver) FailWith(err error) *Driver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
	return d
}

// Closed reports whether Close was called.
func (d *Driver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Query implements dialect.Driver.
func (d *Driver) Query(_ context.Context, query string, params map[string]any) ([]dialect.Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Statements = append(d.Statements, Statement{Query: query, Params: params})
	if d.err != nil {
		return nil, dialect.NewDriverError("query failed", d.err)
	}
	if len(d.results) == 0 {
		return nil, nil
	}
	records := d.results[0]
	d.results = d.results[1:]
	return records, nil
}

// QueryScalar implements dialect.Driver.
func (d *Driver) QueryScalar(_ context.Context, query string, params map[string]any) (any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Statements = append(d.Statements, Statement{Query: query, Params: params})
	if d.err != nil {
		return nil, dialect.NewDriverError("query failed", d.err)
	}
	if len(d.scalars) == 0 {
		return int64(0), nil
	}
	v := d.scalars[0]
	d.scalars = d.scalars[1:]
	return v, nil
}

// Exec implements dialect.Driver.
func (d *Driver) Exec(_ context.Context, query string, params map[string]any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Statements = append(d.Statements, Statement{Query: query, Params: params})
	if d.err != nil {
		return dialect.NewDriverError("exec failed", d.err)
	}
	return nil
}

// Close implements dialect.Driver.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// NodeRecord builds a result record holding one node column and its label
// column, the shape compiled row queries return.
func NodeRecord(nodeKey string, props map[string]any, labels []string) dialect.Record {
	return dialect.Record{
		nodeKey:             dialect.Node{Props: props, Labels: labels},
		nodeKey + "_labels": labels,
	}
}

// BatchRecord is NodeRecord plus the propagated parent identifier column.
func BatchRecord(src any, nodeKey string, props map[string]any, labels []string) dialect.Record {
	rec := NodeRecord(nodeKey, props, labels)
	rec["src"] = src
	return rec
}
