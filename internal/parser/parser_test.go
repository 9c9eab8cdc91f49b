package parser_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cmdroute/internal/actor"
	"github.com/dshills/cmdroute/internal/parser"
)

func TestIntParser(t *testing.T) {
	p := parser.Int()

	v, err := p.Parse("42")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = p.Parse("five")
	require.Error(t, err)

	var perr *parser.Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "int", perr.Parser)
	assert.Equal(t, "five", perr.Input)
}

func TestIntRange(t *testing.T) {
	p := parser.IntRange(1, 10)

	v, err := p.Parse("10")
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	_, err = p.Parse("11")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 1 and 10")
}

func TestFloatParser(t *testing.T) {
	v, err := parser.Float().Parse("2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	_, err = parser.Float().Parse("x")
	assert.Error(t, err)
}

func TestBoolParser(t *testing.T) {
	p := parser.Bool()
	for _, tok := range []string{"true", "YES", "on", "1"} {
		v, err := p.Parse(tok)
		require.NoError(t, err, tok)
		assert.Equal(t, true, v, tok)
	}
	for _, tok := range []string{"false", "No", "off", "0"} {
		v, err := p.Parse(tok)
		require.NoError(t, err, tok)
		assert.Equal(t, false, v, tok)
	}
	_, err := p.Parse("maybe")
	assert.Error(t, err)
}

func TestDurationParser(t *testing.T) {
	v, err := parser.Duration().Parse("1m30s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, v)
}

func TestUUIDParser(t *testing.T) {
	id := uuid.New()
	v, err := parser.UUID().Parse(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, v)

	_, err = parser.UUID().Parse("not-a-uuid")
	assert.Error(t, err)
}

func TestChoiceParser(t *testing.T) {
	p := parser.Choice("red", "Green")

	v, err := p.Parse("GREEN")
	require.NoError(t, err)
	assert.Equal(t, "Green", v)

	_, err = p.Parse("blue")
	require.Error(t, err)
	assert.Equal(t, "red", p.Example())
	assert.True(t, strings.HasPrefix(p.Description(), "One of"))
}

func TestRemainderIsGreedy(t *testing.T) {
	assert.True(t, parser.IsGreedy(parser.Remainder()))
	assert.False(t, parser.IsGreedy(parser.String()))

	_, err := parser.Remainder().Parse("x")
	assert.ErrorIs(t, err, parser.ErrRemainder)
}

func TestFuncParserWrapsPlainErrors(t *testing.T) {
	boom := errors.New("boom")
	p := parser.Func("custom", "desc", "ex", func(string) (any, error) {
		return nil, boom
	})

	_, err := p.Parse("tok")
	var perr *parser.Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "custom", perr.Parser)
	assert.ErrorIs(t, err, boom)
}

func TestLookupParser(t *testing.T) {
	p := parser.Lookup("color", "A known color", "red", func(tok string) (any, bool) {
		if tok == "red" {
			return 0xff0000, true
		}
		return nil, false
	})

	v, err := p.Parse("red")
	require.NoError(t, err)
	assert.Equal(t, 0xff0000, v)

	_, err = p.Parse("mauve")
	assert.ErrorIs(t, err, parser.ErrNotFound)
}

type fakeActor struct {
	id   uuid.UUID
	name string
}

func (f fakeActor) ID() string                { return f.id.String() }
func (f fakeActor) Name() string              { return f.name }
func (f fakeActor) Kind() actor.Kind          { return actor.KindPlayer }
func (f fakeActor) HasPermission(string) bool { return false }

type directory []fakeActor

func (d directory) ByID(id uuid.UUID) (actor.Identity, bool) {
	for _, a := range d {
		if a.id == id {
			return a, true
		}
	}
	return nil, false
}

func (d directory) ByName(name string) (actor.Identity, bool) {
	for _, a := range d {
		if strings.EqualFold(a.name, name) {
			return a, true
		}
	}
	return nil, false
}

func TestActorLookup(t *testing.T) {
	bob := fakeActor{id: uuid.New(), name: "bob"}
	p := parser.ActorLookup(directory{bob})

	v, err := p.Parse("bob")
	require.NoError(t, err)
	assert.Equal(t, bob, v)

	v, err = p.Parse(bob.id.String())
	require.NoError(t, err)
	assert.Equal(t, bob, v)

	_, err = p.Parse("alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "might not be online")

	_, err = p.Parse("this-token-is-way-too-long")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UUID")
}
