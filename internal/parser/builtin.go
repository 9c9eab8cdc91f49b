package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type stringParser struct{ Base }

// String accepts any token as-is.
func String() Parser {
	return stringParser{NewBase("string", "Any single word", "word")}
}

func (stringParser) Parse(token string) (any, error) {
	return token, nil
}

type intParser struct {
	Base
	min, max int
	bounded  bool
}

// Int parses a base-10 integer.
func Int() Parser {
	return intParser{Base: NewBase("int", "A whole number", "5")}
}

// IntRange parses a base-10 integer within [min, max].
func IntRange(min, max int) Parser {
	return intParser{
		Base:    NewBase("int", fmt.Sprintf("A whole number between %d and %d", min, max), strconv.Itoa(min)),
		min:     min,
		max:     max,
		bounded: true,
	}
}

func (p intParser) Parse(token string) (any, error) {
	n, err := strconv.Atoi(token)
	if err != nil {
		return nil, Fail(p, token, "is not a whole number", err)
	}
	if p.bounded && (n < p.min || n > p.max) {
		return nil, Fail(p, token, fmt.Sprintf("must be between %d and %d", p.min, p.max), nil)
	}
	return n, nil
}

type floatParser struct{ Base }

// Float parses a decimal number.
func Float() Parser {
	return floatParser{NewBase("float", "A decimal number", "2.5")}
}

func (p floatParser) Parse(token string) (any, error) {
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil, Fail(p, token, "is not a number", err)
	}
	return f, nil
}

type boolParser struct{ Base }

// Bool parses true/false, yes/no, on/off and 1/0 (case-insensitive).
func Bool() Parser {
	return boolParser{NewBase("bool", "true or false", "true")}
}

func (p boolParser) Parse(token string) (any, error) {
	switch strings.ToLower(token) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return nil, Fail(p, token, "is not true or false", nil)
}

type durationParser struct{ Base }

// Duration parses a Go duration such as "90s" or "1h30m".
func Duration() Parser {
	return durationParser{NewBase("duration", "A duration such as 30s or 5m", "30s")}
}

func (p durationParser) Parse(token string) (any, error) {
	d, err := time.ParseDuration(token)
	if err != nil {
		return nil, Fail(p, token, "is not a duration", err)
	}
	return d, nil
}

type uuidParser struct{ Base }

// UUID parses a canonical UUID.
func UUID() Parser {
	return uuidParser{NewBase("uuid", "A unique identifier", "123e4567-e89b-12d3-a456-426614174000")}
}

func (p uuidParser) Parse(token string) (any, error) {
	id, err := uuid.Parse(token)
	if err != nil {
		return nil, Fail(p, token, "is not a valid UUID", err)
	}
	return id, nil
}

type choiceParser struct {
	Base
	values []string
}

// Choice accepts one of a fixed set of values, matched case-insensitively.
// The canonical spelling from values is returned.
func Choice(values ...string) Parser {
	example := ""
	if len(values) > 0 {
		example = values[0]
	}
	vals := append([]string(nil), values...)
	return choiceParser{
		Base:   NewBase("choice", "One of: "+strings.Join(vals, ", "), example),
		values: vals,
	}
}

func (p choiceParser) Parse(token string) (any, error) {
	for _, v := range p.values {
		if strings.EqualFold(v, token) {
			return v, nil
		}
	}
	return nil, Fail(p, token, "must be one of "+strings.Join(p.values, ", "), nil)
}

type remainderParser struct{ Base }

// Remainder is the greedy parser: it binds every remaining token joined
// by single spaces.
func Remainder() Parser {
	return remainderParser{NewBase("text", "Free text, may contain spaces", "hello there")}
}

// ConsumesRemainder implements Greedy.
func (remainderParser) ConsumesRemainder() bool { return true }

func (p remainderParser) Parse(token string) (any, error) {
	return nil, Fail(p, token, "cannot be parsed on its own", ErrRemainder)
}
