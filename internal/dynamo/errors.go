package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for engine operations.
var (
	// ErrNoWorld indicates an operation that needs a world ran before one was created.
	ErrNoWorld = errors.New("dynamo: no world created")

	// ErrBodyNotFound indicates an unknown or removed body id.
	ErrBodyNotFound = errors.New("dynamo: body not found")

	// ErrInvalidBodyOptions indicates a body option outside its domain.
	ErrInvalidBodyOptions = errors.New("dynamo: invalid body options")

	// ErrInvalidTimestep indicates a non-positive or non-finite dt.
	ErrInvalidTimestep = errors.New("dynamo: timestep must be finite and positive")

	// ErrUnstable indicates a body state diverged (NaN or Inf detected).
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")
)

// BodyError wraps an error with the operation and body it concerns.
type BodyError struct {
	Op      string
	ID      uint64
	Wrapped error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("%s body %d: %v", e.Op, e.ID, e.Wrapped)
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}

// StepError reports which body made a step fail. No body is committed when a
// step fails.
type StepError struct {
	Step    int
	Time    float64
	BodyID  uint64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): body %d: %v", e.Step, e.Time, e.BodyID, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
