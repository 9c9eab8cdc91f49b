package command

import (
	"fmt"

	"github.com/google/uuid"
)

// Invocation is everything a handler receives for one call.
type Invocation struct {
	// ID identifies the dispatch call.
	ID uuid.UUID

	// Actor invoked the command.
	Actor Actor

	// Command is the resolved command.
	Command *Command

	// Label is the token that resolved the command (name or alias).
	Label string

	// Args are the raw argument tokens after the command label.
	Args []string

	// Values holds the bound argument values.
	Values *Values

	// Input is the raw input line.
	Input string
}

// Handler runs a command.
//
// Returning false reports wrong usage. Returning an error reports a
// failure; the dispatcher turns it into an ERROR outcome.
type Handler interface {
	OnCommand(inv *Invocation) (bool, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(inv *Invocation) (bool, error)

// OnCommand implements Handler.
func (f HandlerFunc) OnCommand(inv *Invocation) (bool, error) {
	return f(inv)
}

// Creator builds a command for the create-then-register lifecycle.
type Creator interface {
	Create() (*Command, error)
}

// CreatorFunc adapts a function to Creator.
type CreatorFunc func() (*Command, error)

// Create implements Creator.
func (f CreatorFunc) Create() (*Command, error) {
	return f()
}

// Build calls c.Create, converting a panic into an error wrapping
// ErrCreatorPanic.
func Build(c Creator) (cmd *Command, err error) {
	defer func() {
		if r := recover(); r != nil {
			cmd = nil
			err = fmt.Errorf("%w: %v", ErrCreatorPanic, r)
		}
	}()
	return c.Create()
}
