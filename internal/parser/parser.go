// Package parser converts raw argument tokens into typed values.
//
// A Parser handles exactly one token. Parsers that implement Greedy are
// never invoked by the dispatcher: it joins every remaining token with a
// single space and binds the joined string directly.
package parser

import "fmt"

// Parser converts one token into a value.
//
// Name, Description and Example only feed usage messages.
type Parser interface {
	// Name returns a short stable label such as "int" or "player".
	Name() string

	// Description returns a human readable description.
	Description() string

	// Example returns a sample token accepted by Parse.
	Example() string

	// Parse converts the token. Failures should be *Error values.
	Parse(token string) (any, error)
}

// Greedy marks a parser that consumes every remaining token.
type Greedy interface {
	ConsumesRemainder() bool
}

// IsGreedy reports whether p consumes the remainder of the input.
func IsGreedy(p Parser) bool {
	g, ok := p.(Greedy)
	return ok && g.ConsumesRemainder()
}

// Error is a parse failure.
type Error struct {
	// Parser is the name of the failing parser.
	Parser string

	// Input is the rejected token.
	Input string

	// Reason is a user-facing explanation.
	Reason string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("parser %s: %q: %s", e.Parser, e.Input, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fail builds an *Error for the given parser.
func Fail(p Parser, input, reason string, cause error) *Error {
	name := ""
	if p != nil {
		name = p.Name()
	}
	return &Error{Parser: name, Input: input, Reason: reason, Err: cause}
}

// Base carries the descriptive fields shared by all parsers.
type Base struct {
	name        string
	description string
	example     string
}

// NewBase creates a Base.
func NewBase(name, description, example string) Base {
	return Base{name: name, description: description, example: example}
}

// Name implements Parser.Name.
func (b Base) Name() string { return b.name }

// Description implements Parser.Description.
func (b Base) Description() string { return b.description }

// Example implements Parser.Example.
func (b Base) Example() string { return b.example }

// funcParser adapts a function to Parser.
type funcParser struct {
	Base
	fn func(token string) (any, error)
}

// Func creates a parser from a function. A plain error returned by fn is
// wrapped into an *Error carrying the parser name.
func Func(name, description, example string, fn func(token string) (any, error)) Parser {
	return &funcParser{Base: NewBase(name, description, example), fn: fn}
}

func (p *funcParser) Parse(token string) (any, error) {
	if p.fn == nil {
		return nil, Fail(p, token, "parser function is nil", ErrNilFunc)
	}
	v, err := p.fn(token)
	if err != nil {
		if perr, ok := err.(*Error); ok {
			return nil, perr
		}
		return nil, Fail(p, token, err.Error(), err)
	}
	return v, nil
}
