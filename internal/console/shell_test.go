package console_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cmdroute/internal/actor"
	"github.com/dshills/cmdroute/internal/command"
	"github.com/dshills/cmdroute/internal/console"
	"github.com/dshills/cmdroute/internal/dispatcher"
	"github.com/dshills/cmdroute/internal/parser"
	"github.com/dshills/cmdroute/internal/permission"
)

func newDispatcher(t *testing.T, cfg dispatcher.Config) *dispatcher.Dispatcher {
	t.Helper()
	d, err := dispatcher.New(cfg)
	require.NoError(t, err)

	give := command.MustNew("give", command.HandlerFunc(func(inv *command.Invocation) (bool, error) {
		name, _ := command.Get[string](inv.Values, "name")
		count, _ := command.Get[int](inv.Values, "count")
		inv.Actor.Message(fmt.Sprintf("gave %s %d", name, count))
		return true, nil
	}),
		command.WithArgs(
			command.NewArg("name", parser.String(), "Who receives the item"),
			command.NewArg("count", parser.Int(), "How many"),
		),
		command.WithUsage("give <name> <count>"))
	require.NoError(t, d.Add(give))

	require.NoError(t, d.Add(command.MustNew("kick", command.HandlerFunc(func(*command.Invocation) (bool, error) {
		return true, nil
	}), command.WithPermission(permission.Node("cmdroute.kick")))))

	require.NoError(t, d.Add(command.MustNew("fly", command.HandlerFunc(func(*command.Invocation) (bool, error) {
		return true, nil
	}), command.WithActorKind(actor.KindPlayer))))

	return d
}

func TestShellRun(t *testing.T) {
	var out bytes.Buffer
	a := console.NewActor("alice", &out)
	d := newDispatcher(t, dispatcher.DefaultConfig())

	in := strings.NewReader("give bob 5\n\nnope\ngive bob five\r\nkick\nfly\ngive bob\n")
	sh := console.NewShell(d, a, in, &out, console.WithPrompt(""))

	require.NoError(t, sh.Run(context.Background()))

	got := out.String()
	assert.Contains(t, got, "gave bob 5\n")
	assert.Contains(t, got, "Unknown command \"nope\". Type \"help\" for a list of commands.\n")
	assert.Contains(t, got, "Invalid count: \"five\" is not a whole number.\n")
	assert.Contains(t, got, "You do not have permission to use that command.\n")
	assert.Contains(t, got, "That command cannot be used by console.\n")
	assert.Contains(t, got, console.MissingArgumentsHeader+"\n  count | int, Example: 5\n    How many\n")
}

func TestShellPrompt(t *testing.T) {
	var out bytes.Buffer
	a := console.NewActor("alice", io.Discard)
	d := newDispatcher(t, dispatcher.DefaultConfig())

	sh := console.NewShell(d, a, strings.NewReader("kick\n"), &out)
	require.NoError(t, sh.Run(context.Background()))

	// one prompt per read plus the final one before end of input
	assert.Equal(t, console.DefaultPrompt+console.DefaultPrompt, out.String())
}

func TestShellChat(t *testing.T) {
	var out bytes.Buffer
	a := console.NewActor("alice", &out)
	d := newDispatcher(t, dispatcher.DefaultConfig().WithPrefix('/', true))

	sh := console.NewShell(d, a, nil, &out, console.WithPrompt(""))

	o := sh.Exec("hello there")
	assert.Equal(t, dispatcher.KindNotCommand, o.Kind())
	assert.Equal(t, "<alice> hello there\n", out.String())

	out.Reset()
	o = sh.Exec("/give bob 2")
	assert.Equal(t, dispatcher.KindSuccess, o.Kind())
	assert.Equal(t, "gave bob 2\n", out.String())
}

func TestShellCustomChat(t *testing.T) {
	d := newDispatcher(t, dispatcher.DefaultConfig().WithPrefix('!', true))
	a := console.NewActor("alice", io.Discard)

	var lines []string
	sh := console.NewShell(d, a, nil, nil, console.WithChat(func(from *console.Actor, line string) {
		lines = append(lines, from.Name()+":"+line)
	}))

	sh.Exec("hi")
	assert.Equal(t, []string{"alice:hi"}, lines)
}

func TestShellSetDispatcher(t *testing.T) {
	var out bytes.Buffer
	a := console.NewActor("alice", &out)
	first := newDispatcher(t, dispatcher.DefaultConfig())
	sh := console.NewShell(first, a, nil, &out)

	second, err := dispatcher.New(dispatcher.DefaultConfig(), dispatcher.WithRegistry(first.Registry()))
	require.NoError(t, err)

	sh.SetDispatcher(nil)
	assert.Same(t, first, sh.Dispatcher())

	sh.SetDispatcher(second)
	assert.Same(t, second, sh.Dispatcher())
	assert.Same(t, a, sh.Actor())

	o := sh.Exec("give bob 1")
	assert.Equal(t, dispatcher.KindSuccess, o.Kind())
	assert.Same(t, second, o.Manager())
}

func TestShellRunCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	d := newDispatcher(t, dispatcher.DefaultConfig())
	sh := console.NewShell(d, console.NewActor("alice", nil), pr, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sh.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestShellRunReadError(t *testing.T) {
	boom := errors.New("boom")
	d := newDispatcher(t, dispatcher.DefaultConfig())
	sh := console.NewShell(d, console.NewActor("alice", nil), iotest.ErrReader(boom), nil)

	err := sh.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "read input")
}

func TestFeedback(t *testing.T) {
	d := newDispatcher(t, dispatcher.DefaultConfig())
	a := console.NewActor("alice", nil)

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"give bob 1", ""},
		{"missing", "Unknown command \"missing\". Type \"help\" for a list of commands."},
		{"kick", "You do not have permission to use that command."},
		{"fly", "That command cannot be used by console."},
		{"give bob x", "Invalid count: \"x\" is not a whole number."},
		{"give", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, console.Feedback(d.Handle(a, tt.input)))
		})
	}
}
