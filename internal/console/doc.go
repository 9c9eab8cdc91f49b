// Package console provides a text actor and a line-oriented shell.
//
// An Actor writes every message it receives to an io.Writer. A Shell reads
// lines from an io.Reader, dispatches each one for its actor, and prints
// feedback for outcomes the dispatcher leaves to the caller (unknown
// commands, wrong actor kind, missing permission, bad arguments). Lines
// that are not commands go to a chat function.
//
// A Roster tracks connected actors and can back parser.ActorLookup.
package console
