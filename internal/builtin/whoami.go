package builtin

import (
	"fmt"

	"github.com/dshills/cmdroute/internal/actor"
	"github.com/dshills/cmdroute/internal/command"
	"github.com/dshills/cmdroute/internal/parser"
)

// WhoAmI reports the caller's identity. With a directory it also accepts a
// player as context, so "bob whoami" reports on bob.
func WhoAmI(dir parser.Directory) command.Creator {
	return command.CreatorFunc(func() (*command.Command, error) {
		opts := []command.Option{
			command.WithAliases("i", "about"),
			command.WithDescription("Shows who you are"),
			command.WithUsage("[player] whoami"),
		}
		if dir != nil {
			opts = append(opts, command.WithContext(
				command.NewArg("player", parser.ActorLookup(dir), "The player to describe")))
		}
		return command.New(NameWhoAmI, command.HandlerFunc(whoami), opts...)
	})
}

func whoami(inv *command.Invocation) (bool, error) {
	if len(inv.Args) > 0 {
		return false, nil
	}
	var target actor.Identity = inv.Actor
	if p, ok := command.Get[actor.Identity](inv.Values, "player"); ok {
		target = p
	}
	inv.Actor.Message(fmt.Sprintf("Name: %s\nID: %s\nKind: %s", target.Name(), target.ID(), target.Kind()))
	return true, nil
}
