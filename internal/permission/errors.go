package permission

import "errors"

// Permission errors.
var (
	// ErrCheckerClosed indicates the Lua checker has been closed.
	ErrCheckerClosed = errors.New("permission: checker is closed")

	// ErrNotBoolean indicates an expression did not produce a boolean.
	ErrNotBoolean = errors.New("permission: expression did not return a boolean")

	// ErrEvalTimeout indicates an expression ran past its time budget.
	ErrEvalTimeout = errors.New("permission: expression timed out")
)
