// Package errors holds the error taxonomy shared by the thermloop packages.
// Failures are sentinel values matched with errors.Is, optionally carrying
// context through RangeError and EntityError.
package errors

import (
	"errors"
	"fmt"
)

// Standard error variables
var (
	// ErrDimensionalMismatch is returned when a quantity carries the wrong physical unit
	ErrDimensionalMismatch = errors.New("dimensional mismatch")
	// ErrOutOfRange is returned when a correlation or property lookup is asked
	// for a value outside its validity range
	ErrOutOfRange = errors.New("value out of valid range")
	// ErrUnconnectedEntity is returned when a network is stepped before every
	// entity has both neighbours assigned
	ErrUnconnectedEntity = errors.New("entity not connected")
	// ErrPhysicallyInvalidInput is returned for inputs with no physical meaning
	ErrPhysicallyInvalidInput = errors.New("physically invalid input")
	// ErrUnknownEntity is returned for an index or name that is not in the network
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrInputLength is returned when an input vector does not match the entity count
	ErrInputLength = errors.New("input length does not match entity count")
	// ErrInvalidConfig is returned for malformed configuration or loop files
	ErrInvalidConfig = errors.New("invalid configuration")
)

// RangeError describes a value that fell outside [Min, Max].
type RangeError struct {
	Quantity string
	Value    float64
	Min      float64
	Max      float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s = %g outside valid range [%g, %g]", e.Quantity, e.Value, e.Min, e.Max)
}

// Is reports RangeError as ErrOutOfRange.
func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// CheckRange returns a *RangeError when v is outside [min, max] or NaN, nil
// otherwise.
func CheckRange(quantity string, v, min, max float64) error {
	if !(v >= min && v <= max) {
		return &RangeError{Quantity: quantity, Value: v, Min: min, Max: max}
	}
	return nil
}

// EntityError ties a failure to the control volume and operation it occurred in.
type EntityError struct {
	Index int
	Op    string
	Err   error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("entity %d: %s: %v", e.Index, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *EntityError) Unwrap() error {
	return e.Err
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// Is is errors.Is, re-exported so callers need a single errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
