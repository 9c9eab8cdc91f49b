// Package actor defines the identity of whoever invokes a command.
//
// The dispatcher never inspects concrete actor types. An actor exposes a
// Kind tag and commands declare the Kind they require; the two are
// compared by value.
package actor

// Kind tags the type of an actor (console, player, script, ...).
type Kind string

// Built-in actor kinds.
const (
	// KindAny is satisfied by every actor.
	KindAny Kind = ""

	// KindConsole is the operator console.
	KindConsole Kind = "console"

	// KindPlayer is a human-backed actor connected to the host runtime.
	KindPlayer Kind = "player"

	// KindScript is an automated actor (scheduled task, script, bot).
	KindScript Kind = "script"
)

// String returns the kind name, or "any" for KindAny.
func (k Kind) String() string {
	if k == KindAny {
		return "any"
	}
	return string(k)
}

// Identity is the part of an actor the routing engine relies on for
// eligibility checks.
type Identity interface {
	// ID returns a stable unique identifier.
	ID() string

	// Name returns the display name.
	Name() string

	// Kind returns the actor's type tag.
	Kind() Kind

	// HasPermission reports whether the actor holds the exact permission node.
	HasPermission(node string) bool
}

// Satisfies reports whether an actor fulfils a required kind.
func Satisfies(a Identity, required Kind) bool {
	if required == KindAny {
		return true
	}
	if a == nil {
		return false
	}
	return a.Kind() == required
}
