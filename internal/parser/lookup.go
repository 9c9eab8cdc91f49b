package parser

import (
	"github.com/google/uuid"

	"github.com/dshills/cmdroute/internal/actor"
)

type lookupParser struct {
	Base
	fn func(token string) (any, bool)
}

// Lookup resolves a token through fn. A false result is a parse failure.
func Lookup(name, description, example string, fn func(token string) (any, bool)) Parser {
	return &lookupParser{Base: NewBase(name, description, example), fn: fn}
}

func (p *lookupParser) Parse(token string) (any, error) {
	if p.fn == nil {
		return nil, Fail(p, token, "lookup function is nil", ErrNilFunc)
	}
	v, ok := p.fn(token)
	if !ok {
		return nil, Fail(p, token, "was not found", ErrNotFound)
	}
	return v, nil
}

// Directory resolves online actors.
type Directory interface {
	ByID(id uuid.UUID) (actor.Identity, bool)
	ByName(name string) (actor.Identity, bool)
}

// maxNameLength is the longest token treated as a name rather than a UUID.
const maxNameLength = 16

type actorParser struct {
	Base
	dir Directory
}

// ActorLookup resolves an online actor. Tokens longer than 16 characters
// are read as UUIDs, shorter ones as names.
func ActorLookup(dir Directory) Parser {
	return &actorParser{
		Base: NewBase("player", "The name or UUID of an online player", "Notch"),
		dir:  dir,
	}
}

func (p *actorParser) Parse(token string) (any, error) {
	if p.dir == nil {
		return nil, Fail(p, token, "no player directory available", ErrNotFound)
	}
	var (
		a  actor.Identity
		ok bool
	)
	if len(token) > maxNameLength {
		id, err := uuid.Parse(token)
		if err != nil {
			return nil, Fail(p, token, "is not a valid player UUID", err)
		}
		a, ok = p.dir.ByID(id)
	} else {
		a, ok = p.dir.ByName(token)
	}
	if !ok || a == nil {
		return nil, Fail(p, token, "is not a valid player (might not be online?)", ErrNotFound)
	}
	return a, nil
}
