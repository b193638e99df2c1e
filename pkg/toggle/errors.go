package toggle

import "errors"

// Predefined errors for the toggle package. FlagClient implementations
// return ErrFlagNotFound and ErrWrongType so the resolver can distinguish
// those conditions; everything else is treated as an evaluation failure.
var (
	// ErrFlagNotFound indicates the remote service does not know the flag
	// or could not evaluate it.
	ErrFlagNotFound = errors.New("toggle not found")

	// ErrWrongType indicates the flag's native type does not match the
	// requested variation type.
	ErrWrongType = errors.New("toggle has wrong type")

	// ErrCycleDetected indicates an indirection chain revisited a flag name.
	ErrCycleDetected = errors.New("toggle indirection cycle detected")
)
