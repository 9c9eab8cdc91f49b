package command

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/dshills/cmdroute/internal/actor"
	"github.com/dshills/cmdroute/internal/permission"
)

// Command is a declared unit of behavior.
//
// All fields are fixed by New. The only transition is Seal, performed once
// by the registry, which stamps the effective prefix.
type Command struct {
	name        string
	aliases     []string
	description string
	actorKind   actor.Kind
	args        []Arg
	context     *Arg
	permission  permission.Requirement
	usage       string
	handler     Handler

	prefix        rune
	hasPrefix     bool
	requirePrefix bool

	sealOnce sync.Once
	sealed   bool
	mu       sync.RWMutex
}

// Option configures a command under construction.
type Option func(*Command)

// WithAliases adds alternative labels.
func WithAliases(aliases ...string) Option {
	return func(c *Command) {
		c.aliases = append(c.aliases, aliases...)
	}
}

// WithDescription sets the help text.
func WithDescription(desc string) Option {
	return func(c *Command) {
		c.description = desc
	}
}

// WithActorKind restricts the command to one actor kind.
func WithActorKind(k actor.Kind) Option {
	return func(c *Command) {
		c.actorKind = k
	}
}

// WithArgs appends argument specs in declaration order.
func WithArgs(args ...Arg) Option {
	return func(c *Command) {
		c.args = append(c.args, args...)
	}
}

// WithContext sets the context spec, enabling "<target> <command>" calls.
func WithContext(arg Arg) Option {
	return func(c *Command) {
		a := arg
		c.context = &a
	}
}

// WithPermission sets the permission requirement.
func WithPermission(req permission.Requirement) Option {
	return func(c *Command) {
		c.permission = req
	}
}

// WithUsage sets the usage string shown on wrong usage.
func WithUsage(usage string) Option {
	return func(c *Command) {
		c.usage = usage
	}
}

// WithPrefix gives the command its own prefix. Such a command requires
// its prefix regardless of the manager default.
func WithPrefix(r rune) Option {
	return func(c *Command) {
		c.prefix = r
		c.hasPrefix = true
		c.requirePrefix = true
	}
}

// New declares a command.
func New(name string, h Handler, opts ...Option) (*Command, error) {
	c := &Command{
		name:       name,
		handler:    h,
		permission: permission.None(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNew is New that panics on error, for static declarations.
func MustNew(name string, h Handler, opts ...Option) *Command {
	c, err := New(name, h, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Command) validate() error {
	if !validLabel(c.name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, c.name)
	}
	for _, a := range c.aliases {
		if !validLabel(a) {
			return fmt.Errorf("%w: alias %q of %s", ErrInvalidName, a, c.name)
		}
	}
	if c.handler == nil {
		return fmt.Errorf("%w: %s", ErrNilHandler, c.name)
	}

	seen := make(map[string]bool, len(c.args)+1)
	if c.context != nil {
		if c.context.Parser == nil {
			return fmt.Errorf("%w: context %q of %s", ErrNilParser, c.context.Name, c.name)
		}
		if c.context.Greedy() {
			return fmt.Errorf("%w: %s", ErrGreedyContext, c.name)
		}
		seen[c.context.Name] = true
	}
	for i, a := range c.args {
		if a.Parser == nil {
			return fmt.Errorf("%w: %q of %s", ErrNilParser, a.Name, c.name)
		}
		if seen[a.Name] {
			return fmt.Errorf("%w: %q of %s", ErrDuplicateArg, a.Name, c.name)
		}
		seen[a.Name] = true
		if a.Greedy() && i != len(c.args)-1 {
			return fmt.Errorf("%w: %q of %s", ErrGreedyNotLast, a.Name, c.name)
		}
	}
	return nil
}

func validLabel(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, unicode.IsSpace) < 0
}

// Seal marks the command registered. A command without its own prefix
// inherits defaultPrefix (when has is true) and never requires it.
func (c *Command) Seal(defaultPrefix rune, has bool) error {
	err := ErrSealed
	c.sealOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.hasPrefix {
			c.prefix = defaultPrefix
			c.hasPrefix = has
			c.requirePrefix = false
		}
		c.sealed = true
		err = nil
	})
	return err
}

// Sealed reports whether the command has been registered.
func (c *Command) Sealed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sealed
}

// Name returns the canonical name.
func (c *Command) Name() string { return c.name }

// Aliases returns a copy of the aliases.
func (c *Command) Aliases() []string { return append([]string(nil), c.aliases...) }

// Labels returns the lowercased name followed by the lowercased aliases.
func (c *Command) Labels() []string {
	out := make([]string, 0, len(c.aliases)+1)
	out = append(out, strings.ToLower(c.name))
	for _, a := range c.aliases {
		out = append(out, strings.ToLower(a))
	}
	return out
}

// Description returns the help text.
func (c *Command) Description() string { return c.description }

// ActorKind returns the required actor kind.
func (c *Command) ActorKind() actor.Kind { return c.actorKind }

// Args returns a copy of the argument specs.
func (c *Command) Args() []Arg { return append([]Arg(nil), c.args...) }

// Context returns the context spec, if any.
func (c *Command) Context() (Arg, bool) {
	if c.context == nil {
		return Arg{}, false
	}
	return *c.context, true
}

// Permission returns the permission requirement.
func (c *Command) Permission() permission.Requirement { return c.permission }

// Usage returns the usage string.
func (c *Command) Usage() string { return c.usage }

// Handler returns the handler.
func (c *Command) Handler() Handler { return c.handler }

// Prefix returns the effective prefix.
func (c *Command) Prefix() (rune, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.prefix, c.hasPrefix
}

// RequirePrefix reports whether the command's own prefix is mandatory.
func (c *Command) RequirePrefix() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.requirePrefix
}

var _ permission.Target = (*Command)(nil)
