package entangle

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidValue = errors.New("entangle: invalid value")
	ErrReadOnly     = errors.New("entangle: node is read-only")

	ErrBuildPanicked = errors.New("entangle: family member construction panicked")
)

// DeriveError wraps a panic recovered from an async derivation.
type DeriveError struct {
	ID    uint64
	Kind  Kind
	Value any
}

func (e *DeriveError) Error() string {
	return fmt.Sprintf("entangle: %s %d derivation panicked: %v", e.Kind, e.ID, e.Value)
}

func (e *DeriveError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
