package dispatcher

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/cmdroute/internal/command"
)

// Kind classifies how a dispatch call ended.
type Kind uint8

const (
	// KindNotCommand indicates input without the required prefix.
	KindNotCommand Kind = iota
	// KindNotFound indicates no command matched.
	KindNotFound
	// KindCallerOfWrongType indicates the actor kind did not match.
	KindCallerOfWrongType
	// KindNotPermitted indicates the permission check failed.
	KindNotPermitted
	// KindWrongUsage indicates missing arguments or a handler returning false.
	KindWrongUsage
	// KindArgumentError indicates a parser rejected a token.
	KindArgumentError
	// KindError indicates the handler failed.
	KindError
	// KindSuccess indicates the handler ran and reported success.
	KindSuccess
)

// Kinds lists every outcome kind in declaration order.
var Kinds = []Kind{
	KindNotCommand,
	KindNotFound,
	KindCallerOfWrongType,
	KindNotPermitted,
	KindWrongUsage,
	KindArgumentError,
	KindError,
	KindSuccess,
}

// String returns the upper-snake name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNotCommand:
		return "NOT_COMMAND"
	case KindNotFound:
		return "NOT_FOUND"
	case KindCallerOfWrongType:
		return "CALLER_OF_WRONG_TYPE"
	case KindNotPermitted:
		return "NOT_PERMITTED"
	case KindWrongUsage:
		return "WRONG_USAGE"
	case KindArgumentError:
		return "ARGUMENT_ERROR"
	case KindError:
		return "ERROR"
	case KindSuccess:
		return "SUCCESS"
	default:
		return "UNKNOWN"
	}
}

// Outcome is the result of a single Handle call. It is built by the
// dispatcher and read only afterwards.
type Outcome struct {
	id       uuid.UUID
	kind     Kind
	actor    command.Actor
	manager  *Dispatcher
	command  *command.Command
	input    string
	label    string
	args     []string
	values   *command.Values
	argErr   *ArgumentError
	err      error
	duration time.Duration
}

// ID identifies the dispatch call.
func (o *Outcome) ID() uuid.UUID { return o.id }

// Kind returns the outcome kind.
func (o *Outcome) Kind() Kind { return o.kind }

// Actor returns the invoking actor.
func (o *Outcome) Actor() command.Actor { return o.actor }

// Manager returns the dispatcher that produced the outcome.
func (o *Outcome) Manager() *Dispatcher { return o.manager }

// Command returns the resolved command, or nil.
func (o *Outcome) Command() *command.Command { return o.command }

// Input returns the raw input line.
func (o *Outcome) Input() string { return o.input }

// Label returns the token that resolved the command.
func (o *Outcome) Label() string { return o.label }

// Args returns a copy of the raw argument tokens.
func (o *Outcome) Args() []string { return append([]string(nil), o.args...) }

// Values returns a copy of the values bound before the call ended.
func (o *Outcome) Values() *command.Values { return o.values.Clone() }

// ArgumentError returns the failed parse for KindArgumentError.
func (o *Outcome) ArgumentError() *ArgumentError { return o.argErr }

// Err returns the captured failure for KindError, or the argument error.
func (o *Outcome) Err() error {
	if o.err != nil {
		return o.err
	}
	if o.argErr != nil {
		return o.argErr
	}
	return nil
}

// Duration returns the time spent in Handle.
func (o *Outcome) Duration() time.Duration { return o.duration }

// IsSuccess reports whether the kind is KindSuccess.
func (o *Outcome) IsSuccess() bool { return o.kind == KindSuccess }

// CommandName returns the resolved command's name or "".
func (o *Outcome) CommandName() string {
	if o.command == nil {
		return ""
	}
	return o.command.Name()
}

// String returns a one-line summary.
func (o *Outcome) String() string {
	s := o.kind.String()
	if o.command != nil {
		s += " " + o.command.Name()
	}
	if err := o.Err(); err != nil {
		s += fmt.Sprintf(": %v", err)
	}
	return s
}
