package ptz

import (
	"errors"
	"fmt"
	"math"
)

// ProtocolError is returned when the camera answers with a body that does not have the
// expected shape.
type ProtocolError struct {
	Op   string
	Body string
	Err  error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: unexpected response %q: %v", e.Op, e.Body, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// ValidationError is returned when a caller supplied value is outside the range the
// camera accepts. No request has been sent when it is returned.
type ValidationError struct {
	Field string
	Value int
	Min   int
	Max   int
}

// NoMax marks a ValidationError with only a lower bound.
const NoMax = math.MaxInt

func (e *ValidationError) Error() string {
	if e.Max == NoMax {
		return fmt.Sprintf("%s %d must be >= %d", e.Field, e.Value, e.Min)
	}
	return fmt.Sprintf("%s %d is out of range %d~%d", e.Field, e.Value, e.Min, e.Max)
}

var ErrNotFound = errors.New("not found")

// NotFoundError is returned when a preset index is still unknown after the preset
// directory was rebuilt.
type NotFoundError struct {
	Index int
	Known int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("preset index %d requested, but only %d preset points found", e.Index, e.Known)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
