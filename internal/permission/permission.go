// Package permission decides whether an actor may run a command.
//
// A command carries a Requirement. The engine runs exactly one Strategy
// for every command: Simple checks a single permission node, Advanced hands
// the requirement to an external Checker.
package permission

import "github.com/dshills/cmdroute/internal/actor"

// RequirementKind tags the variant held by a Requirement.
type RequirementKind uint8

const (
	// RequireNone means anyone may run the command.
	RequireNone RequirementKind = iota
	// RequireNode requires a single permission node.
	RequireNode
	// RequireExpr requires a boolean permission expression.
	RequireExpr
)

// String returns the variant name.
func (k RequirementKind) String() string {
	switch k {
	case RequireNone:
		return "none"
	case RequireNode:
		return "node"
	case RequireExpr:
		return "expr"
	default:
		return "unknown"
	}
}

// Requirement is the permission a command demands.
type Requirement struct {
	kind  RequirementKind
	value string
}

// None returns an empty requirement.
func None() Requirement {
	return Requirement{}
}

// Node requires the exact permission node. A blank node is None.
func Node(node string) Requirement {
	if node == "" {
		return None()
	}
	return Requirement{kind: RequireNode, value: node}
}

// Expr requires a permission expression evaluated by an advanced Checker.
// A blank expression is None.
func Expr(expression string) Requirement {
	if expression == "" {
		return None()
	}
	return Requirement{kind: RequireExpr, value: expression}
}

// Kind returns the requirement variant.
func (r Requirement) Kind() RequirementKind { return r.kind }

// IsNone reports whether the requirement is empty.
func (r Requirement) IsNone() bool { return r.kind == RequireNone }

// Node returns the permission node for RequireNode requirements.
func (r Requirement) Node() string {
	if r.kind != RequireNode {
		return ""
	}
	return r.value
}

// Expression returns the expression source for RequireExpr requirements.
func (r Requirement) Expression() string {
	if r.kind != RequireExpr {
		return ""
	}
	return r.value
}

// String returns a readable representation.
func (r Requirement) String() string {
	switch r.kind {
	case RequireNode:
		return "node(" + r.value + ")"
	case RequireExpr:
		return "expr(" + r.value + ")"
	default:
		return "none"
	}
}

// Target is the command being checked.
type Target interface {
	Name() string
}

// Strategy evaluates a requirement against an actor.
type Strategy interface {
	Permitted(req Requirement, target Target, subject actor.Identity) bool
}

// Checker is the external capability behind the advanced strategy.
type Checker interface {
	Evaluate(req Requirement, target Target, subject actor.Identity) bool
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(req Requirement, target Target, subject actor.Identity) bool

// Evaluate implements Checker.
func (f CheckerFunc) Evaluate(req Requirement, target Target, subject actor.Identity) bool {
	return f(req, target, subject)
}

// Simple checks the exact node through the actor.
// Expression requirements fail closed.
type Simple struct{}

// Permitted implements Strategy.
func (Simple) Permitted(req Requirement, _ Target, subject actor.Identity) bool {
	switch req.kind {
	case RequireNone:
		return true
	case RequireNode:
		return subject != nil && subject.HasPermission(req.value)
	default:
		return false
	}
}

// Advanced delegates every non-empty requirement to Checker.
// A nil Checker denies.
type Advanced struct {
	Checker Checker
}

// Permitted implements Strategy.
func (a Advanced) Permitted(req Requirement, target Target, subject actor.Identity) bool {
	if req.kind == RequireNone {
		return true
	}
	if a.Checker == nil || subject == nil {
		return false
	}
	return a.Checker.Evaluate(req, target, subject)
}
