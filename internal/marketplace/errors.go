package marketplace

import "errors"

var (
	// ErrMissingPathParam is returned when a path template placeholder has
	// no usable value in the arguments.
	ErrMissingPathParam = errors.New("marketplace: missing path parameter")

	// ErrInvalidEndpoint is returned when an endpoint has no method or path.
	ErrInvalidEndpoint = errors.New("marketplace: invalid endpoint")
)
