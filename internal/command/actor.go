package command

import "github.com/dshills/cmdroute/internal/actor"

// Actor is what the dispatcher needs from whoever invokes a command.
type Actor interface {
	actor.Identity

	// Message sends text to the actor.
	Message(text string)

	// SendRequiredArguments tells the actor which argument specs the command
	// needs, in declaration order, together with the usage string.
	SendRequiredArguments(cmd *Command, required []Arg, usage string)
}
