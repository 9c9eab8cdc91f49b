package dispatcher

import (
	"strings"

	"github.com/dshills/cmdroute/internal/command"
)

// NewGroup declares a command whose arguments are dispatched to sub.
//
// "<group> <sub> [args...]" runs sub's command. A missing or unknown
// subcommand is wrong usage of the group. Any other subcommand outcome
// becomes the group's outcome, and only the group's dispatcher notifies
// the actor of a failure.
func NewGroup(name string, sub *Dispatcher, opts ...command.Option) (*command.Command, error) {
	return command.New(name, &groupHandler{sub: sub}, opts...)
}

type groupHandler struct {
	sub *Dispatcher
}

func (g *groupHandler) OnCommand(inv *command.Invocation) (bool, error) {
	if len(inv.Args) == 0 {
		return false, nil
	}

	o := g.sub.handle(inv.Actor, strings.Join(inv.Args, " "), false)
	switch o.Kind() {
	case KindSuccess:
		return true, nil
	case KindNotFound, KindNotCommand:
		return false, nil
	default:
		return false, &subcommandError{outcome: o}
	}
}

// subcommandError carries a failed subcommand outcome to the group's
// dispatcher.
type subcommandError struct {
	outcome *Outcome
}

func (e *subcommandError) Error() string {
	if err := e.outcome.Err(); err != nil {
		return e.outcome.CommandName() + ": " + err.Error()
	}
	return e.outcome.CommandName() + ": " + e.outcome.Kind().String()
}

func (e *subcommandError) Unwrap() error {
	return e.outcome.Err()
}

// adopt copies the terminal state of a subcommand outcome onto o.
func (o *Outcome) adopt(sub *Outcome) {
	o.kind = sub.kind
	o.argErr = sub.argErr
	o.err = sub.err
}
