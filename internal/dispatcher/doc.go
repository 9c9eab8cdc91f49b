// Package dispatcher routes input lines to registered commands.
//
// # Pipeline
//
// Handle runs one pass over the input and produces exactly one Outcome:
//
//  1. Prefix: with RequirePrefix set, input without the prefix ends in
//     KindNotCommand. A present prefix is stripped once.
//  2. Tokenize: the line is split on single spaces.
//  3. Resolve: token 0 is looked up by name or alias. If that fails and
//     token 1 names a command with a context spec, token 0 is parsed by
//     the context spec and arguments start at token 2. Otherwise the
//     outcome is KindNotFound.
//  4. Actor kind: the actor must satisfy the command's kind.
//  5. Permission: the configured strategy must allow the call.
//  6. Arguments: specs bind in declaration order. Too few tokens ends in
//     KindWrongUsage after the actor is told which arguments are missing.
//     A greedy spec takes the rest of the line. The first parser failure
//     ends in KindArgumentError.
//  7. Invoke: a handler error or panic ends in KindError, false ends in
//     KindWrongUsage, true in KindSuccess.
//
// # Registration
//
// Commands are registered through a Registry, which seals them. Aliases
// that collide with another command are rejected unless AllowAliasOverride
// is set, in which case the last registration wins.
//
// # Usage
//
//	d, err := dispatcher.New(dispatcher.DefaultConfig().WithPrefix('/', true))
//	if err != nil {
//	    return err
//	}
//	if err := d.Add(infoCmd); err != nil {
//	    return err
//	}
//
//	o := d.Handle(actor, "/info")
//	if !o.IsSuccess() {
//	    log.Printf("dispatch: %s", o)
//	}
//
// # Hooks
//
// Post-dispatch hooks observe outcomes. They cannot change them:
//
//	d.AddHook(dispatcher.PostDispatchFunc(func(o *dispatcher.Outcome) {
//	    audit(o.Actor().Name(), o.Kind())
//	}))
package dispatcher
