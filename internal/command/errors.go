package command

import "errors"

// Command declaration errors.
var (
	// ErrInvalidName indicates an empty name or alias, or one containing spaces.
	ErrInvalidName = errors.New("command: invalid name")

	// ErrNilHandler indicates a command was declared without a handler.
	ErrNilHandler = errors.New("command: nil handler")

	// ErrNilParser indicates an argument spec without a parser.
	ErrNilParser = errors.New("command: argument has no parser")

	// ErrDuplicateArg indicates two argument specs share a name.
	ErrDuplicateArg = errors.New("command: duplicate argument name")

	// ErrGreedyNotLast indicates a greedy argument that is not the last one.
	ErrGreedyNotLast = errors.New("command: greedy argument must be last")

	// ErrGreedyContext indicates a greedy parser used for the context spec.
	ErrGreedyContext = errors.New("command: context argument cannot be greedy")

	// ErrCreatorPanic indicates a Creator panicked while building a command.
	ErrCreatorPanic = errors.New("command: creator panicked")

	// ErrSealed indicates the command has already been registered.
	ErrSealed = errors.New("command: already sealed")
)
