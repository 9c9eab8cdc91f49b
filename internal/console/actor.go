package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/cmdroute/internal/actor"
	"github.com/dshills/cmdroute/internal/command"
	"github.com/dshills/cmdroute/internal/permission"
)

// MissingArgumentsHeader opens the required-arguments listing.
const MissingArgumentsHeader = "You are missing the following arguments (in order)"

// Actor is a command actor backed by a writer.
type Actor struct {
	id     uuid.UUID
	name   string
	kind   actor.Kind
	grants *permission.Grants

	mu  sync.Mutex
	out io.Writer
}

// ActorOption configures an Actor.
type ActorOption func(*Actor)

// WithKind sets the actor kind. The default is actor.KindConsole.
func WithKind(k actor.Kind) ActorOption {
	return func(a *Actor) {
		a.kind = k
	}
}

// WithGrants grants permission nodes to the actor.
func WithGrants(nodes ...string) ActorOption {
	return func(a *Actor) {
		for _, n := range nodes {
			a.grants.Grant(n)
		}
	}
}

// WithID sets a fixed actor ID.
func WithID(id uuid.UUID) ActorOption {
	return func(a *Actor) {
		a.id = id
	}
}

// NewActor creates an actor that writes its messages to out.
func NewActor(name string, out io.Writer, opts ...ActorOption) *Actor {
	if out == nil {
		out = io.Discard
	}
	a := &Actor{
		id:     uuid.New(),
		name:   name,
		kind:   actor.KindConsole,
		grants: permission.NewGrants(),
		out:    out,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Actor) ID() string       { return a.id.String() }
func (a *Actor) UUID() uuid.UUID  { return a.id }
func (a *Actor) Name() string     { return a.name }
func (a *Actor) Kind() actor.Kind { return a.kind }

// HasPermission reports whether the actor holds node.
func (a *Actor) HasPermission(node string) bool {
	return a.grants.Has(node)
}

// Grants returns the actor's permission set.
func (a *Actor) Grants() *permission.Grants {
	return a.grants
}

// Message writes text, one line per embedded newline.
func (a *Actor) Message(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintln(a.out, line)
	}
}

// SendRequiredArguments lists each missing argument with its parser and
// an example, followed by its description.
func (a *Actor) SendRequiredArguments(_ *command.Command, required []command.Arg, _ string) {
	var b strings.Builder
	b.WriteString(MissingArgumentsHeader)
	for _, arg := range required {
		fmt.Fprintf(&b, "\n  %s | %s, Example: %s", arg.Name, arg.ParserName(), arg.ExampleText())
		if arg.Description != "" {
			fmt.Fprintf(&b, "\n    %s", arg.Description)
		}
	}
	a.Message(b.String())
}

// SetOutput redirects the actor's messages.
func (a *Actor) SetOutput(out io.Writer) {
	if out == nil {
		out = io.Discard
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.out = out
}

var _ command.Actor = (*Actor)(nil)
