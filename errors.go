package gryphon

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common operations.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("gryphon: entity not found")

	// ErrNotLoaded is returned when reading a relationship that has not
	// been loaded yet.
	ErrNotLoaded = errors.New("gryphon: relationship not loaded")
)

// NotFoundError represents an error when an entity is not found.
type NotFoundError struct {
	label string
	id    any // Optional: the ID that was searched for
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.id != nil {
		return fmt.Sprintf("gryphon: %s not found (id=%v)", e.label, e.id)
	}
	return fmt.Sprintf("gryphon: %s not found", e.label)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Label returns the entity label.
func (e *NotFoundError) Label() string {
	return e.label
}

// ID returns the ID that was searched for, if available.
func (e *NotFoundError) ID() any {
	return e.id
}

// NewNotFoundError returns a new NotFoundError for the given entity type.
func NewNotFoundError(label string) *NotFoundError {
	return &NotFoundError{label: label}
}

// NewNotFoundErrorWithID returns a new NotFoundError with the ID that was searched for.
func NewNotFoundErrorWithID(label string, id any) *NotFoundError {
	return &NotFoundError{label: label, id: id}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// NotLoadedError represents an error when reading a relationship that was
// neither lazily nor eagerly loaded.
type NotLoadedError struct {
	rel string
}

// Error returns the error string.
func (e *NotLoadedError) Error() string {
	return fmt.Sprintf("gryphon: relationship %q was not loaded", e.rel)
}

// Is reports whether the target error matches NotLoadedError.
func (e *NotLoadedError) Is(err error) bool {
	return err == ErrNotLoaded
}

// NewNotLoadedError returns a new NotLoadedError for the given relationship name.
func NewNotLoadedError(rel string) *NotLoadedError {
	return &NotLoadedError{rel: rel}
}

// IsNotLoaded returns true if the error is a NotLoadedError.
func IsNotLoaded(err error) bool {
	if err == nil {
		return false
	}
	var e *NotLoadedError
	return errors.As(err, &e) || errors.Is(err, ErrNotLoaded)
}

// UnknownRelationshipError represents a reference to a relationship name
// that the entity never declared. Surfaced immediately, never retried.
type UnknownRelationshipError struct {
	Entity string // Entity variant the lookup ran against
	Name   string // Relationship name that was requested
}

// Error returns the error string.
func (e *UnknownRelationshipError) Error() string {
	return fmt.Sprintf("gryphon: entity %q has no relationship %q", e.Entity, e.Name)
}

// NewUnknownRelationshipError returns a new UnknownRelationshipError.
func NewUnknownRelationshipError(entity, name string) *UnknownRelationshipError {
	return &UnknownRelationshipError{Entity: entity, Name: name}
}

// IsUnknownRelationship returns true if the error is an UnknownRelationshipError.
func IsUnknownRelationship(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownRelationshipError
	return errors.As(err, &e)
}

// UnknownEntityError represents a reference to an entity variant that was
// never registered.
type UnknownEntityError struct {
	Name string
}

// Error returns the error string.
func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("gryphon: entity %q is not registered", e.Name)
}

// NewUnknownEntityError returns a new UnknownEntityError.
func NewUnknownEntityError(name string) *UnknownEntityError {
	return &UnknownEntityError{Name: name}
}

// IsUnknownEntity returns true if the error is an UnknownEntityError.
func IsUnknownEntity(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownEntityError
	return errors.As(err, &e)
}

// HydrationError represents a returned record missing an expected node,
// identifier or label column. It indicates a schema/query mismatch and is
// fatal to the call; it is never retried.
type HydrationError struct {
	Column string // Record column that was missing or mistyped
	Reason string
}

// Error returns the error string.
func (e *HydrationError) Error() string {
	return fmt.Sprintf("gryphon: hydrating column %q: %s", e.Column, e.Reason)
}

// NewHydrationError returns a new HydrationError.
func NewHydrationError(column, reason string) *HydrationError {
	return &HydrationError{Column: column, Reason: reason}
}

// IsHydrationError returns true if the error is a HydrationError.
func IsHydrationError(err error) bool {
	if err == nil {
		return false
	}
	var e *HydrationError
	return errors.As(err, &e)
}

// QueryError wraps a query error with additional context.
type QueryError struct {
	Entity string // Entity type being queried
	Op     string // Operation (e.g., "all", "count", "first")
	Err    error  // Underlying error
}

// Error returns the error string.
func (e *QueryError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("gryphon: querying %s (%s): %v", e.Entity, e.Op, e.Err)
	}
	return fmt.Sprintf("gryphon: querying %s: %v", e.Entity, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError returns a new QueryError.
func NewQueryError(entity, op string, err error) *QueryError {
	return &QueryError{Entity: entity, Op: op, Err: err}
}

// IsQueryError returns true if the error is a QueryError.
func IsQueryError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryError
	return errors.As(err, &e)
}

// MutationError wraps a write-path error with additional context.
type MutationError struct {
	Entity string // Entity type being mutated
	Op     string // Operation (e.g., "create", "update", "connect")
	Err    error  // Underlying error
}

// Error returns the error string.
func (e *MutationError) Error() string {
	return fmt.Sprintf("gryphon: %s %s: %v", e.Op, e.Entity, e.Err)
}

// Unwrap returns the underlying error.
func (e *MutationError) Unwrap() error {
	return e.Err
}

// NewMutationError returns a new MutationError.
func NewMutationError(entity, op string, err error) *MutationError {
	return &MutationError{Entity: entity, Op: op, Err: err}
}

// IsMutationError returns true if the error is a MutationError.
func IsMutationError(err error) bool {
	if err == nil {
		return false
	}
	var e *MutationError
	return errors.As(err, &e)
}
