// Package builtin provides the commands every cmdroute shell ships with.
//
// Each command is exposed as a command.Creator so callers can register it
// through the create-then-register lifecycle:
//
//	d.CreateAndAdd(builtin.Help(d.Registry()))
//
// Install registers the whole set at once.
package builtin
