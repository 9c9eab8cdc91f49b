package commands

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cmdroute/internal/actor"
	"github.com/dshills/cmdroute/internal/command"
	"github.com/dshills/cmdroute/internal/config"
	"github.com/dshills/cmdroute/internal/dispatcher"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cmdroute.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func testOptions(out io.Writer, configPath string) appOptions {
	return appOptions{
		ConfigPath: configPath,
		ActorName:  "console",
		ActorKind:  "console",
		Out:        out,
		LogOutput:  io.Discard,
	}
}

func TestNewAppDefaults(t *testing.T) {
	var out bytes.Buffer
	a, err := newApp(testOptions(&out, ""))
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"help", "perm", "say", "stats", "tell", "whoami"}, a.registry.Names())
	assert.Equal(t, actor.KindConsole, a.actor.Kind())
	assert.Nil(t, a.checker)
	assert.Same(t, a.metrics, a.Dispatcher().Metrics())

	o := a.Handle("whoami")
	require.Equal(t, dispatcher.KindSuccess, o.Kind())
	assert.Contains(t, out.String(), "Name: console\n")
}

func TestRunLine(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runLine(testOptions(&out, ""), "say hello world"))
	assert.Equal(t, "[console] hello world\n", out.String())

	out.Reset()
	err := runLine(testOptions(&out, ""), "nope")
	require.ErrorIs(t, err, errDispatch)
	assert.Contains(t, err.Error(), "NOT_FOUND")
	assert.Contains(t, out.String(), "Unknown command \"nope\"")
}

func TestRunLineWithConfig(t *testing.T) {
	path := writeConfig(t, `
prefix = "!"
require_prefix = true

[permissions]
console = ["cmdroute.stats"]
`)

	var out bytes.Buffer
	err := runLine(testOptions(&out, path), "stats")
	require.ErrorIs(t, err, errDispatch)
	assert.Contains(t, err.Error(), "NOT_COMMAND")
	assert.Equal(t, "<console> stats\n", out.String())

	out.Reset()
	require.NoError(t, runLine(testOptions(&out, path), "!stats"))
	assert.Contains(t, out.String(), "Dispatches: 0")
}

func TestNewAppInvalidConfig(t *testing.T) {
	path := writeConfig(t, `usage_format = "no placeholder"`)

	_, err := newApp(testOptions(io.Discard, path))
	require.Error(t, err)
	assert.ErrorIs(t, err, dispatcher.ErrInvalidUsageFormat)
}

func TestNewAppAdvancedPermissions(t *testing.T) {
	path := writeConfig(t, `advanced_permissions = true`)

	a, err := newApp(testOptions(io.Discard, path))
	require.NoError(t, err)
	require.NotNil(t, a.checker)
	assert.True(t, a.Dispatcher().Config().UseAdvancedPermissions)
	assert.NoError(t, a.Close())
}

func TestReloadIgnoreList(t *testing.T) {
	a, err := newApp(testOptions(io.Discard, ""))
	require.NoError(t, err)
	defer a.Close()

	opts := config.Defaults()
	opts.Ignore = []string{"say"}
	require.NoError(t, a.Reload(opts))

	_, ok := a.registry.Lookup("say")
	assert.False(t, ok)
	assert.Equal(t, dispatcher.KindNotFound, a.Handle("say hi").Kind())

	require.NoError(t, a.Reload(config.Defaults()))
	_, ok = a.registry.Lookup("say")
	assert.True(t, ok)
	assert.Equal(t, dispatcher.KindSuccess, a.Handle("say hi").Kind())
}

func TestReloadAliasOverride(t *testing.T) {
	a, err := newApp(testOptions(io.Discard, ""))
	require.NoError(t, err)
	defer a.Close()
	require.False(t, a.registry.AliasOverride())

	opts := config.Defaults()
	opts.AliasOverride = true
	require.NoError(t, a.Reload(opts))
	assert.True(t, a.registry.AliasOverride())

	cmd, err := command.New("query", command.HandlerFunc(func(*command.Invocation) (bool, error) {
		return true, nil
	}), command.WithAliases("?"))
	require.NoError(t, err)
	require.NoError(t, a.Dispatcher().Add(cmd))

	got, ok := a.registry.Lookup("?")
	require.True(t, ok)
	assert.Equal(t, "query", got.Name())

	require.NoError(t, a.Reload(config.Defaults()))
	assert.False(t, a.registry.AliasOverride())
}

func TestReloadSwapsDispatcher(t *testing.T) {
	var out bytes.Buffer
	a, err := newApp(testOptions(&out, ""))
	require.NoError(t, err)
	defer a.Close()

	var swapped *dispatcher.Dispatcher
	a.onSwap = func(d *dispatcher.Dispatcher) { swapped = d }
	before := a.Dispatcher()

	opts := config.Defaults()
	opts.UsageFormat = "Try: %usage"
	opts.Permissions = map[string][]string{"console": {"cmdroute.stats"}}
	require.NoError(t, a.Reload(opts))

	require.NotNil(t, swapped)
	assert.NotSame(t, before, swapped)
	assert.Same(t, swapped, a.Dispatcher())
	assert.True(t, a.actor.HasPermission("cmdroute.stats"))

	a.Handle("help a b")
	assert.Contains(t, out.String(), "Try: help [command]\n")
}

func TestRunShell(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("whoami\nsay hi\n")

	require.NoError(t, runShell(context.Background(), testOptions(&out, ""), in, false, false))
	assert.Contains(t, out.String(), "Name: console\n")
	assert.Contains(t, out.String(), "[console] hi\n")
	assert.NotContains(t, out.String(), "Type \"help\"")
}

func TestRunShellPrompt(t *testing.T) {
	var out bytes.Buffer
	path := writeConfig(t, `prefix = "/"`)

	require.NoError(t, runShell(context.Background(), testOptions(&out, path), strings.NewReader(""), true, true))
	assert.True(t, strings.HasPrefix(out.String(), "cmdroute "+Version+"."))
}

func TestInteractive(t *testing.T) {
	assert.False(t, interactive(strings.NewReader("")))
}
