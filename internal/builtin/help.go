package builtin

import (
	"fmt"
	"strings"

	"github.com/dshills/cmdroute/internal/actor"
	"github.com/dshills/cmdroute/internal/command"
)

// Help lists the commands the caller may use, or describes the command
// named by the first argument.
func Help(l Lister) command.Creator {
	return command.CreatorFunc(func() (*command.Command, error) {
		h := &helpHandler{commands: l}
		return command.New(NameHelp, h,
			command.WithAliases("?"),
			command.WithDescription("Lists commands or shows how to use one"),
			command.WithUsage("help [command]"))
	})
}

type helpHandler struct {
	commands Lister
}

func (h *helpHandler) OnCommand(inv *command.Invocation) (bool, error) {
	if len(inv.Args) > 1 {
		return false, nil
	}
	if len(inv.Args) == 1 {
		cmd, ok := h.commands.Lookup(inv.Args[0])
		if !ok {
			inv.Actor.Message(fmt.Sprintf("No help for %q.", inv.Args[0]))
			return true, nil
		}
		inv.Actor.Message(Describe(cmd))
		return true, nil
	}

	var b strings.Builder
	b.WriteString("Commands:")
	for _, cmd := range h.commands.Commands() {
		if !actor.Satisfies(inv.Actor, cmd.ActorKind()) {
			continue
		}
		b.WriteString("\n  ")
		b.WriteString(label(cmd))
		if desc := cmd.Description(); desc != "" {
			b.WriteString(" - ")
			b.WriteString(desc)
		}
	}
	inv.Actor.Message(b.String())
	return true, nil
}

func label(cmd *command.Command) string {
	name := cmd.Name()
	if p, ok := cmd.Prefix(); ok && cmd.RequirePrefix() {
		name = string(p) + name
	}
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		name += " (" + strings.Join(aliases, ", ") + ")"
	}
	return name
}

// Describe renders a command's name, usage, aliases and argument specs.
func Describe(cmd *command.Command) string {
	var b strings.Builder
	b.WriteString(cmd.Name())
	if desc := cmd.Description(); desc != "" {
		b.WriteString(" - ")
		b.WriteString(desc)
	}
	if usage := cmd.Usage(); usage != "" {
		b.WriteString("\nUsage: ")
		b.WriteString(usage)
	}
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		b.WriteString("\nAliases: ")
		b.WriteString(strings.Join(aliases, ", "))
	}
	if k := cmd.ActorKind(); k != actor.KindAny {
		b.WriteString("\nOnly for: ")
		b.WriteString(k.String())
	}
	if ctx, ok := cmd.Context(); ok {
		fmt.Fprintf(&b, "\nContext: %s | %s, Example: %s %s", ctx.Name, ctx.ParserName(), ctx.ExampleText(), cmd.Name())
	}
	for _, arg := range cmd.Args() {
		fmt.Fprintf(&b, "\n  %s | %s, Example: %s", arg.Name, arg.ParserName(), arg.ExampleText())
		if arg.Description != "" {
			b.WriteString("\n    ")
			b.WriteString(arg.Description)
		}
	}
	return b.String()
}
