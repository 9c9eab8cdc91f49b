// Package command declares the units of behavior the dispatcher routes to.
//
// A Command is built once with New, sealed when it is registered and read
// only afterwards. It carries its canonical name, aliases, the actor kind
// it requires, an ordered list of argument specs, an optional context spec
// used by the "<target> <command>" invocation shape, a permission
// requirement, a usage string and an optional prefix.
//
// Handlers report through two separate channels: returning false means the
// actor used the command wrongly, returning an error (or panicking) means
// the handler failed.
//
//	give, err := command.New("give", command.HandlerFunc(func(inv *command.Invocation) (bool, error) {
//	    name, _ := command.Get[string](inv.Values, "name")
//	    count, _ := command.Get[int](inv.Values, "count")
//	    inv.Actor.Message(fmt.Sprintf("gave %s %d", name, count))
//	    return true, nil
//	}),
//	    command.WithArgs(
//	        command.NewArg("name", parser.String(), "Who receives the items"),
//	        command.NewArg("count", parser.Int(), "How many"),
//	    ),
//	    command.WithPermission(permission.Node("items.give")),
//	    command.WithUsage("give <name> <count>"),
//	)
package command
