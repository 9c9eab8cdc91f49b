package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrUnsupportedFormat indicates a config file extension that is not toml or yaml.
	ErrUnsupportedFormat = errors.New("config: unsupported file format")

	// ErrInvalidPrefix indicates a prefix longer than one character.
	ErrInvalidPrefix = errors.New("config: prefix must be a single character")

	// ErrPrefixRequired indicates require_prefix without a prefix.
	ErrPrefixRequired = errors.New("config: require_prefix set without a prefix")

	// ErrInvalidTimeout indicates a negative evaluation timeout.
	ErrInvalidTimeout = errors.New("config: eval_timeout_ms must not be negative")
)

// ParseError is a config file that could not be decoded. Line and Column
// are zero when the decoder does not report a position.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("config: %s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("config: %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
