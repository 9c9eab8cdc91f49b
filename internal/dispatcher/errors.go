package dispatcher

import (
	"errors"
	"fmt"

	"github.com/dshills/cmdroute/internal/command"
)

// Dispatcher errors.
var (
	// ErrCheckerRequired indicates advanced permissions without a checker.
	ErrCheckerRequired = errors.New("dispatcher: advanced permissions require a checker")

	// ErrInvalidUsageFormat indicates a usage format without the %usage placeholder.
	ErrInvalidUsageFormat = errors.New("dispatcher: usage format must contain " + UsagePlaceholder)

	// ErrDuplicateCommand indicates a command name that is already registered.
	ErrDuplicateCommand = errors.New("dispatcher: duplicate command")

	// ErrAliasConflict indicates an alias already bound to another command.
	ErrAliasConflict = errors.New("dispatcher: alias conflict")

	// ErrNilCommand indicates a nil command was registered.
	ErrNilCommand = errors.New("dispatcher: nil command")

	// ErrPanic indicates the handler panicked.
	ErrPanic = errors.New("dispatcher: handler panic")
)

// ArgumentError describes a failed argument parse.
type ArgumentError struct {
	// Arg is the spec whose parser failed.
	Arg command.Arg

	// Err is the parser failure.
	Err error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument %s (%s): %v", e.Arg.Name, e.Arg.ParserName(), e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// PanicError carries a recovered panic value and the goroutine stack.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%v: %v", ErrPanic, e.Value)
}

func (e *PanicError) Unwrap() error {
	return ErrPanic
}
