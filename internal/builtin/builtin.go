package builtin

import (
	"errors"
	"fmt"

	"github.com/dshills/cmdroute/internal/command"
	"github.com/dshills/cmdroute/internal/dispatcher"
	"github.com/dshills/cmdroute/internal/parser"
)

// Command names.
const (
	NameHelp   = "help"   // list commands or describe one
	NameWhoAmI = "whoami" // report an actor's identity
	NameSay    = "say"    // broadcast a message
	NameTell   = "tell"   // message one actor
	NameStats  = "stats"  // dispatch statistics
	NamePerm   = "perm"   // manage the caller's permission grants
)

// Permission nodes.
const (
	NodeStats = "cmdroute.stats"
	NodePerm  = "cmdroute.perm"
)

// ErrInstall is returned when some builtins could not be registered.
var ErrInstall = errors.New("builtin: install failed")

// Lister is the registry view help needs.
type Lister interface {
	Commands() []*command.Command
	Lookup(label string) (*command.Command, bool)
}

// Audience lists the actors a broadcast reaches.
type Audience interface {
	Actors() []command.Actor
}

// StatsSource exposes in-memory dispatch metrics.
type StatsSource interface {
	Metrics() *dispatcher.Metrics
}

// Deps are the collaborators of the builtin set. Nil fields disable the
// commands that need them, except Directory and Audience which only
// narrow what whoami, tell and say can do.
type Deps struct {
	Registry  Lister
	Directory parser.Directory
	Audience  Audience
	Stats     StatsSource
}

// Creators returns the builtin creators enabled by deps.
func Creators(deps Deps) []command.Creator {
	var cs []command.Creator
	if deps.Registry != nil {
		cs = append(cs, Help(deps.Registry))
	}
	cs = append(cs, WhoAmI(deps.Directory), Say(deps.Audience))
	if deps.Directory != nil {
		cs = append(cs, Tell(deps.Directory))
	}
	if deps.Stats != nil {
		cs = append(cs, Stats(deps.Stats))
	}
	cs = append(cs, Perm())
	return cs
}

// Install registers every builtin enabled by deps on d. Registration
// continues past failures; the returned error lists all of them.
func Install(d *dispatcher.Dispatcher, deps Deps) error {
	var errs []error
	for _, c := range Creators(deps) {
		cmd, err := command.Build(c)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := d.Add(cmd); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", cmd.Name(), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInstall, errors.Join(errs...))
	}
	return nil
}
