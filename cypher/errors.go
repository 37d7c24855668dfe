package cypher

import (
	"errors"
	"fmt"
)

// InvalidChainError reports a malformed through-relationship hop sequence.
// It surfaces at compile time, before any execution.
type InvalidChainError struct {
	Rel    string // Relationship name.
	Reason string
}

// Error returns the error string.
func (e *InvalidChainError) Error() string {
	return fmt.Sprintf("cypher: invalid chain for relationship %q: %s", e.Rel, e.Reason)
}

// NewInvalidChainError returns a new InvalidChainError.
func NewInvalidChainError(rel, reason string) *InvalidChainError {
	return &InvalidChainError{Rel: rel, Reason: reason}
}

// IsInvalidChain returns true if the error is an InvalidChainError.
func IsInvalidChain(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidChainError
	return errors.As(err, &e)
}
