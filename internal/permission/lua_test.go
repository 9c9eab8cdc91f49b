package permission_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cmdroute/internal/actor"
	"github.com/dshills/cmdroute/internal/permission"
)

func TestLuaCheckerExpressions(t *testing.T) {
	c := permission.NewLuaChecker()
	defer c.Close()

	admin := newSubject(actor.KindPlayer, "region.admin", "region.info")
	guest := newSubject(actor.KindPlayer, "region.info")
	console := newSubject(actor.KindConsole)

	tests := []struct {
		name string
		expr string
		subj subject
		want bool
	}{
		{"has granted", `has("region.admin")`, admin, true},
		{"has missing", `has("region.admin")`, guest, false},
		{"boolean logic", `has("region.info") and not has("region.admin")`, guest, true},
		{"actor kind", `actor.kind == "console"`, console, true},
		{"actor name", `actor.name == "alice"`, guest, true},
		{"command name", `command == "flag"`, guest, true},
		{"any_of", `any_of("x", "region.info")`, guest, true},
		{"all_of", `all_of("region.info", "region.admin")`, guest, false},
		{"all_of empty", `all_of()`, admin, false},
		{"full chunk", "if has(\"region.admin\") then return true end\nreturn false", admin, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Evaluate(permission.Expr(tt.expr), target("flag"), tt.subj)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLuaCheckerNodeRequirement(t *testing.T) {
	c := permission.NewLuaChecker()
	defer c.Close()

	s := newSubject(actor.KindPlayer, "a.b")
	assert.True(t, c.Evaluate(permission.Node("a.b"), target("x"), s))
	assert.False(t, c.Evaluate(permission.Node("a.c"), target("x"), s))
	assert.True(t, c.Evaluate(permission.None(), target("x"), s))
}

func TestLuaCheckerFailuresDeny(t *testing.T) {
	c := permission.NewLuaChecker(permission.WithEvalTimeout(20 * time.Millisecond))
	defer c.Close()

	s := newSubject(actor.KindPlayer)

	_, err := c.Eval(`"yes"`, target("x"), s)
	require.ErrorIs(t, err, permission.ErrNotBoolean)
	assert.False(t, c.Evaluate(permission.Expr(`"yes"`), target("x"), s))

	assert.Error(t, c.Compile(`has(`))
	assert.False(t, c.Evaluate(permission.Expr(`has(`), target("x"), s))

	assert.False(t, c.Evaluate(permission.Expr(`error("boom")`), target("x"), s))

	_, err = c.Eval("while true do end", target("x"), s)
	require.ErrorIs(t, err, permission.ErrEvalTimeout)

	// The state stays usable after a timeout.
	ok, err := c.Eval(`true`, target("x"), s)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLuaCheckerSandbox(t *testing.T) {
	c := permission.NewLuaChecker()
	defer c.Close()

	s := newSubject(actor.KindPlayer)
	for _, expr := range []string{`os.exit(1)`, `io.open("/etc/passwd")`, `require("os")`, `load("return true")()`} {
		assert.False(t, c.Evaluate(permission.Expr(expr), target("x"), s), expr)
	}
}

func TestLuaCheckerIsolatesEvaluations(t *testing.T) {
	c := permission.NewLuaChecker()
	defer c.Close()

	guest := newSubject(actor.KindPlayer)
	admin := newSubject(actor.KindPlayer, "admin")

	ok, err := c.Eval(`has("admin")`, target("x"), guest)
	require.NoError(t, err)
	require.False(t, ok)

	for _, expr := range []string{
		"has = function() return true end return false",
		"_G.any_of = function() return true end return false",
		`rawset(_G, "all_of", function() return true end) return false`,
		"string.upper = nil return false",
		"actor = { kind = \"console\" } command = \"other\" return false",
	} {
		ok, err := c.Eval(expr, target("x"), guest)
		require.NoError(t, err, expr)
		assert.False(t, ok, expr)
	}

	tests := []struct {
		expr string
		subj subject
		want bool
	}{
		{`has("admin")`, guest, false},
		{`any_of("admin")`, guest, false},
		{`all_of("admin")`, guest, false},
		{`string.upper("a") == "A"`, guest, true},
		{`actor.kind == "player" and command == "x"`, guest, true},
		{`has("admin")`, admin, true},
		{`getmetatable == nil and getfenv == nil`, guest, true},
	}
	for _, tt := range tests {
		ok, err := c.Eval(tt.expr, target("x"), tt.subj)
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.want, ok, tt.expr)
	}
}

func TestLuaCheckerClosed(t *testing.T) {
	c := permission.NewLuaChecker()
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err := c.Eval(`true`, target("x"), newSubject(actor.KindPlayer))
	assert.ErrorIs(t, err, permission.ErrCheckerClosed)
	assert.ErrorIs(t, c.Compile(`true`), permission.ErrCheckerClosed)
}
