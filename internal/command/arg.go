package command

import "github.com/dshills/cmdroute/internal/parser"

// Arg is a named argument spec.
type Arg struct {
	// Name keys both the declaration order and the bound value.
	Name string

	// Parser converts the raw token.
	Parser parser.Parser

	// Description explains the argument to users.
	Description string

	// Example is a sample value. Blank means the parser's example.
	Example string
}

// NewArg creates an argument spec.
func NewArg(name string, p parser.Parser, description string) Arg {
	return Arg{Name: name, Parser: p, Description: description}
}

// WithExample returns a copy of the arg with an explicit example.
func (a Arg) WithExample(example string) Arg {
	a.Example = example
	return a
}

// ExampleText returns the explicit example or the parser's.
func (a Arg) ExampleText() string {
	if a.Example != "" || a.Parser == nil {
		return a.Example
	}
	return a.Parser.Example()
}

// ParserName returns the parser label, or "?" without a parser.
func (a Arg) ParserName() string {
	if a.Parser == nil {
		return "?"
	}
	return a.Parser.Name()
}

// Greedy reports whether the arg consumes every remaining token.
func (a Arg) Greedy() bool {
	return a.Parser != nil && parser.IsGreedy(a.Parser)
}
