package dqn

import "errors"

var (
	// ErrInvalidArgument reports a bad configuration value or call-time
	// argument, such as a non-positive capacity or sampling an empty memory.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrShapeMismatch reports an observation whose shape disagrees with the
	// shape the memory was constructed with.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrTraining wraps a numeric failure reported by the value function
	// collaborator. It is never masked or retried.
	ErrTraining = errors.New("training error")
)
