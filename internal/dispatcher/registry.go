package dispatcher

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/cmdroute/internal/command"
)

// Registry indexes commands by lowercase name and alias.
//
// Lookups take the read lock only. Registration is expected at startup or
// for occasional dynamic installs.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*command.Command // lowercase name -> command
	aliases  map[string]string           // lowercase alias -> lowercase name
	ignore   map[string]bool

	prefix        rune
	hasPrefix     bool
	aliasOverride bool
	logger        zerolog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithDefaultPrefix stamps r onto commands registered without a prefix.
func WithDefaultPrefix(r rune) RegistryOption {
	return func(reg *Registry) {
		reg.prefix = r
		reg.hasPrefix = r != 0
	}
}

// WithIgnoreList skips the named commands on Add.
func WithIgnoreList(names ...string) RegistryOption {
	return func(reg *Registry) {
		reg.ignore = toSet(names)
	}
}

// WithAliasOverride lets a later registration take over a bound alias.
// The resulting mapping then depends on registration order.
func WithAliasOverride(allow bool) RegistryOption {
	return func(reg *Registry) {
		reg.aliasOverride = allow
	}
}

// WithRegistryLogger sets the registry logger.
func WithRegistryLogger(l zerolog.Logger) RegistryOption {
	return func(reg *Registry) {
		reg.logger = l
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		commands: make(map[string]*command.Command),
		aliases:  make(map[string]string),
		ignore:   make(map[string]bool),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = true
	}
	return set
}

// Add registers and seals cmd.
//
// A command on the ignore list is skipped without error.
func (r *Registry) Add(cmd *command.Command) error {
	if cmd == nil {
		return ErrNilCommand
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	labels := cmd.Labels()
	name := labels[0]
	if r.ignore[name] {
		r.logger.Debug().Str("command", cmd.Name()).Msg("ignored command skipped")
		return nil
	}
	if _, ok := r.commands[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, cmd.Name())
	}
	if owner, ok := r.aliases[name]; ok {
		if !r.aliasOverride {
			return fmt.Errorf("%w: name %s is an alias of %s", ErrAliasConflict, cmd.Name(), owner)
		}
		r.logger.Warn().Str("command", cmd.Name()).Str("shadows_alias_of", owner).Msg("command name shadows alias")
	}

	aliases := labels[1:]
	for _, alias := range aliases {
		if alias == name {
			continue
		}
		if _, ok := r.commands[alias]; ok {
			if !r.aliasOverride {
				return fmt.Errorf("%w: %s of %s is a command name", ErrAliasConflict, alias, cmd.Name())
			}
			r.logger.Warn().Str("alias", alias).Str("command", cmd.Name()).Msg("alias shadowed by command name")
		}
		if owner, ok := r.aliases[alias]; ok && owner != name {
			if !r.aliasOverride {
				return fmt.Errorf("%w: %s of %s is bound to %s", ErrAliasConflict, alias, cmd.Name(), owner)
			}
			r.logger.Warn().Str("alias", alias).Str("from", owner).Str("to", name).Msg("alias overridden")
		}
	}

	if err := cmd.Seal(r.prefix, r.hasPrefix); err != nil {
		return fmt.Errorf("register %s: %w", cmd.Name(), err)
	}

	r.commands[name] = cmd
	for _, alias := range aliases {
		if alias != name {
			r.aliases[alias] = name
		}
	}
	r.logger.Debug().Str("command", cmd.Name()).Strs("aliases", cmd.Aliases()).Msg("command registered")
	return nil
}

// CreateAndAdd builds a command and registers it. Failures, including a
// panicking Creator, are logged and reported as false.
func (r *Registry) CreateAndAdd(c command.Creator) bool {
	cmd, err := command.Build(c)
	if err != nil {
		r.logger.Error().Err(err).Msg("command creation failed")
		return false
	}
	if cmd == nil {
		return false
	}
	if err := r.Add(cmd); err != nil {
		r.logger.Error().Err(err).Str("command", cmd.Name()).Msg("command registration failed")
		return false
	}
	return true
}

// Lookup resolves a label by canonical name, then alias. Matching is
// case-insensitive and exact.
func (r *Registry) Lookup(label string) (*command.Command, bool) {
	key := strings.ToLower(label)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if cmd, ok := r.commands[key]; ok {
		return cmd, true
	}
	if name, ok := r.aliases[key]; ok {
		cmd, ok := r.commands[name]
		return cmd, ok
	}
	return nil, false
}

// Remove unregisters the named command and its aliases.
func (r *Registry) Remove(name string) bool {
	key := strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.commands[key]; !ok {
		return false
	}
	delete(r.commands, key)
	for alias, owner := range r.aliases {
		if owner == key {
			delete(r.aliases, alias)
		}
	}
	return true
}

// Commands returns the registered commands sorted by name.
func (r *Registry) Commands() []*command.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmds := make([]*command.Command, 0, len(r.commands))
	for _, c := range r.commands {
		cmds = append(cmds, c)
	}
	sort.Slice(cmds, func(i, j int) bool {
		return strings.ToLower(cmds[i].Name()) < strings.ToLower(cmds[j].Name())
	})
	return cmds
}

// Names returns the lowercase command names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered commands.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// SetIgnoreList replaces the ignore list. Registered commands are kept.
func (r *Registry) SetIgnoreList(names ...string) {
	set := toSet(names)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ignore = set
}

// SetAliasOverride changes whether later registrations may take over a
// bound alias. Existing bindings are left as they are.
func (r *Registry) SetAliasOverride(allow bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliasOverride = allow
}

// AliasOverride reports whether alias takeover is allowed.
func (r *Registry) AliasOverride() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.aliasOverride
}

// IgnoreList returns the ignored names, sorted.
func (r *Registry) IgnoreList() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ignore))
	for name := range r.ignore {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultPrefix returns the prefix stamped on registration.
func (r *Registry) DefaultPrefix() (rune, bool) {
	return r.prefix, r.hasPrefix
}
