package builtin

import (
	"errors"
	"strings"

	"github.com/dshills/cmdroute/internal/command"
	"github.com/dshills/cmdroute/internal/dispatcher"
	"github.com/dshills/cmdroute/internal/parser"
	"github.com/dshills/cmdroute/internal/permission"
)

// ErrNoGrants is returned when the caller has no mutable permission set.
var ErrNoGrants = errors.New("builtin: actor has no permission grants")

// Granter is an actor whose permission set can be changed at runtime.
type Granter interface {
	Grants() *permission.Grants
}

// Perm manages the caller's own grants through the subcommands grant,
// revoke and list.
func Perm() command.Creator {
	return command.CreatorFunc(func() (*command.Command, error) {
		sub, err := dispatcher.New(dispatcher.DefaultConfig().WithoutPrefix())
		if err != nil {
			return nil, err
		}

		node := command.NewArg("node", parser.String(), "A permission node").WithExample("cmdroute.stats")
		subs := []*command.Command{
			command.MustNew("grant", withGrants(func(inv *command.Invocation, g *permission.Grants) {
				n, _ := command.Get[string](inv.Values, "node")
				g.Grant(n)
				inv.Actor.Message("Granted " + n + ".")
			}), command.WithArgs(node), command.WithUsage("perm grant <node>")),
			command.MustNew("revoke", withGrants(func(inv *command.Invocation, g *permission.Grants) {
				n, _ := command.Get[string](inv.Values, "node")
				g.Revoke(n)
				inv.Actor.Message("Revoked " + n + ".")
			}), command.WithArgs(node), command.WithUsage("perm revoke <node>")),
			command.MustNew("list", withGrants(func(inv *command.Invocation, g *permission.Grants) {
				nodes := g.Nodes()
				if len(nodes) == 0 {
					inv.Actor.Message("No permissions granted.")
					return
				}
				inv.Actor.Message("Permissions: " + strings.Join(nodes, ", "))
			})),
		}
		for _, c := range subs {
			if err := sub.Add(c); err != nil {
				return nil, err
			}
		}

		return dispatcher.NewGroup(NamePerm, sub,
			command.WithAliases("permission"),
			command.WithDescription("Manages your permission grants"),
			command.WithPermission(permission.Node(NodePerm)),
			command.WithUsage("perm <grant|revoke|list> [node]"))
	})
}

func withGrants(fn func(inv *command.Invocation, g *permission.Grants)) command.Handler {
	return command.HandlerFunc(func(inv *command.Invocation) (bool, error) {
		ga, ok := inv.Actor.(Granter)
		if !ok {
			return false, ErrNoGrants
		}
		fn(inv, ga.Grants())
		return true, nil
	})
}
