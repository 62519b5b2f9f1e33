package debounce

import "errors"

// ErrInvalidArgument indicates a Debounced function could not be built from the supplied arguments.
var ErrInvalidArgument = errors.New("invalid argument")
