package builtin

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/dshills/cmdroute/internal/command"
	"github.com/dshills/cmdroute/internal/parser"
)

// Chat throttling: a short burst, then one message per second.
const (
	chatBurst    = 3
	chatInterval = time.Second
	chatThrottle = "You are sending messages too quickly."
)

// Say broadcasts a message to the audience, or back to the caller when
// there is no audience.
func Say(aud Audience) command.Creator {
	return command.CreatorFunc(func() (*command.Command, error) {
		h := command.Chain(command.HandlerFunc(func(inv *command.Invocation) (bool, error) {
			msg, _ := command.Get[string](inv.Values, "message")
			if msg == "" {
				return false, nil
			}
			line := fmt.Sprintf("[%s] %s", inv.Actor.Name(), msg)
			if aud == nil {
				inv.Actor.Message(line)
				return true, nil
			}
			for _, a := range aud.Actors() {
				a.Message(line)
			}
			return true, nil
		}), throttle())

		return command.New(NameSay, h,
			command.WithDescription("Sends a message to everyone"),
			command.WithArgs(command.NewArg("message", parser.Remainder(), "What to say").WithExample("hello everyone")),
			command.WithUsage("say <message...>"))
	})
}

// Tell sends a private message to one actor found through dir.
func Tell(dir parser.Directory) command.Creator {
	return command.CreatorFunc(func() (*command.Command, error) {
		h := command.Chain(command.HandlerFunc(func(inv *command.Invocation) (bool, error) {
			target, ok := command.Get[command.Actor](inv.Values, "player")
			if !ok {
				return false, fmt.Errorf("tell: %q cannot receive messages", inv.Args[0])
			}
			msg, _ := command.Get[string](inv.Values, "message")
			if msg == "" {
				return false, nil
			}
			target.Message(fmt.Sprintf("[%s -> you] %s", inv.Actor.Name(), msg))
			inv.Actor.Message(fmt.Sprintf("[you -> %s] %s", target.Name(), msg))
			return true, nil
		}), throttle())

		return command.New(NameTell, h,
			command.WithAliases("msg", "w"),
			command.WithDescription("Sends a private message"),
			command.WithArgs(
				command.NewArg("player", parser.ActorLookup(dir), "Who receives the message"),
				command.NewArg("message", parser.Remainder(), "What to say").WithExample("hi there"),
			),
			command.WithUsage("tell <player> <message...>"))
	})
}

func throttle() command.Middleware {
	return command.WithCooldown(rate.Every(chatInterval), chatBurst, chatThrottle)
}
