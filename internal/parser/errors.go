package parser

import "errors"

// Parser errors.
var (
	// ErrNilFunc indicates a Func parser was built without a function.
	ErrNilFunc = errors.New("parser: nil parse function")

	// ErrNotFound indicates a lookup parser could not resolve the token.
	ErrNotFound = errors.New("parser: value not found")

	// ErrRemainder indicates a greedy parser was invoked directly.
	ErrRemainder = errors.New("parser: greedy parser cannot parse a single token")
)
