// Package dialect defines the driver boundary between gryphon and the
// underlying graph store.
//
// The core compiles pattern-matching queries to parameterized text; a Driver
// is anything that can execute that text against a store and hand back raw
// records. Cancellation and timeouts are the driver's concern: the core
// passes the caller's context through unchanged and never retries.
package dialect

import (
	"context"
	"errors"
	"fmt"
)

// Driver is the execution boundary consumed by the gryphon client.
//
// Implementations must treat query text as opaque and pass params out-of-band;
// the core never inlines literal values into query text.
type Driver interface {
	// Query executes a statement that returns rows.
	Query(ctx context.Context, query string, params map[string]any) ([]Record, error)

	// QueryScalar executes a statement that returns a single value,
	// such as a count.
	QueryScalar(ctx context.Context, query string, params map[string]any) (any, error)

	// Exec executes a statement that returns no rows.
	Exec(ctx context.Context, query string, params map[string]any) error

	// Close releases the underlying connection.
	Close() error
}

// Record is one raw result row, keyed by return-clause alias.
// Node-valued columns hold a Node; label-list columns hold a []string.
type Record map[string]any

// Node is a raw graph node as returned by the store: its property map and
// the label set actually attached to it.
type Node struct {
	Props  map[string]any `msgpack:"props"`
	Labels []string       `msgpack:"labels"`
}

// Node extracts a node-valued column from the record.
func (r Record) Node(key string) (Node, bool) {
	switch v := r[key].(type) {
	case Node:
		return v, true
	case *Node:
		if v != nil {
			return *v, true
		}
	}
	return Node{}, false
}

// Labels extracts a label-list column from the record.
func (r Record) Labels(key string) ([]string, bool) {
	v, ok := r[key].([]string)
	return v, ok
}

// DriverError wraps a transport or syntax failure reported by the store.
// The core surfaces it as-is and does not interpret store-specific codes.
type DriverError struct {
	msg  string
	wrap error
}

// Error returns the error string.
func (e *DriverError) Error() string {
	if e.wrap != nil {
		return fmt.Sprintf("dialect: %s: %v", e.msg, e.wrap)
	}
	return fmt.Sprintf("dialect: %s", e.msg)
}

// Unwrap returns the underlying error.
func (e *DriverError) Unwrap() error {
	return e.wrap
}

// NewDriverError returns a new DriverError wrapping the given cause.
func NewDriverError(msg string, wrap error) *DriverError {
	return &DriverError{msg: msg, wrap: wrap}
}

// IsDriverError returns true if the error is a DriverError.
func IsDriverError(err error) bool {
	if err == nil {
		return false
	}
	var e *DriverError
	return errors.As(err, &e)
}
