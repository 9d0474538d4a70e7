package container

import "errors"

var (
	// ErrIndexOutOfBounds indicates a checked access past the end of a container.
	ErrIndexOutOfBounds = errors.New("container: index out of bounds")

	// ErrTooManyValues indicates more initial values than the container holds.
	ErrTooManyValues = errors.New("container: too many values")
)
