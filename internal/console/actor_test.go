package console_test

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cmdroute/internal/actor"
	"github.com/dshills/cmdroute/internal/command"
	"github.com/dshills/cmdroute/internal/console"
	"github.com/dshills/cmdroute/internal/parser"
)

func TestNewActorDefaults(t *testing.T) {
	a := console.NewActor("alice", nil)

	assert.Equal(t, "alice", a.Name())
	assert.Equal(t, actor.KindConsole, a.Kind())
	assert.False(t, a.HasPermission("cmdroute.stats"))

	id, err := uuid.Parse(a.ID())
	require.NoError(t, err)
	assert.Equal(t, a.UUID(), id)

	// nil output discards
	a.Message("ignored")
}

func TestActorOptions(t *testing.T) {
	id := uuid.New()
	a := console.NewActor("bot", nil,
		console.WithKind(actor.KindScript),
		console.WithGrants("cmdroute.say", "cmdroute.stats"),
		console.WithID(id))

	assert.Equal(t, actor.KindScript, a.Kind())
	assert.Equal(t, id.String(), a.ID())
	assert.True(t, a.HasPermission("cmdroute.stats"))
	assert.ElementsMatch(t, []string{"cmdroute.say", "cmdroute.stats"}, a.Grants().Nodes())
}

func TestActorMessageSplitsLines(t *testing.T) {
	var buf bytes.Buffer
	a := console.NewActor("alice", &buf)

	a.Message("one\ntwo")
	a.Message("three")

	assert.Equal(t, "one\ntwo\nthree\n", buf.String())
}

func TestActorSetOutput(t *testing.T) {
	var first, second bytes.Buffer
	a := console.NewActor("alice", &first)

	a.Message("a")
	a.SetOutput(&second)
	a.Message("b")

	assert.Equal(t, "a\n", first.String())
	assert.Equal(t, "b\n", second.String())
}

func TestSendRequiredArguments(t *testing.T) {
	var buf bytes.Buffer
	a := console.NewActor("alice", &buf)

	required := []command.Arg{
		command.NewArg("name", parser.String(), "Who receives the item"),
		command.NewArg("count", parser.Int(), "").WithExample("64"),
	}
	a.SendRequiredArguments(nil, required, "give <name> <count>")

	want := console.MissingArgumentsHeader + "\n" +
		"  name | string, Example: " + parser.String().Example() + "\n" +
		"    Who receives the item\n" +
		"  count | int, Example: 64\n"
	assert.Equal(t, want, buf.String())
}

func TestRoster(t *testing.T) {
	r := console.NewRoster()
	alice := console.NewActor("Alice", nil)
	bob := console.NewActor("bob", nil)

	r.Join(alice)
	r.Join(bob)
	r.Join(nil)
	assert.Equal(t, 2, r.Len())

	got, ok := r.ByName("alice")
	require.True(t, ok)
	assert.Same(t, alice, got)

	got, ok = r.ByID(bob.UUID())
	require.True(t, ok)
	assert.Same(t, bob, got)

	_, ok = r.ByName("carol")
	assert.False(t, ok)

	actors := r.Actors()
	require.Len(t, actors, 2)
	assert.Equal(t, "Alice", actors[0].Name())
	assert.Equal(t, "bob", actors[1].Name())

	r.Leave(alice)
	_, ok = r.ByName("alice")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestRosterReplacesSameName(t *testing.T) {
	r := console.NewRoster()
	first := console.NewActor("alice", nil)
	second := console.NewActor("ALICE", nil)

	r.Join(first)
	r.Join(second)

	assert.Equal(t, 1, r.Len())
	_, ok := r.ByID(first.UUID())
	assert.False(t, ok)

	// leaving with a stale actor is a no-op
	r.Leave(first)
	assert.Equal(t, 1, r.Len())
}

func TestRosterBacksActorLookup(t *testing.T) {
	r := console.NewRoster()
	bob := console.NewActor("bob", nil)
	r.Join(bob)
	p := parser.ActorLookup(r)

	v, err := p.Parse("bob")
	require.NoError(t, err)
	assert.Same(t, bob, v)

	v, err = p.Parse(bob.ID())
	require.NoError(t, err)
	assert.Same(t, bob, v)

	_, err = p.Parse("carol")
	var pe *parser.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "carol", pe.Input)
}
