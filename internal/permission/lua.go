package permission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/cmdroute/internal/actor"
)

// DefaultEvalTimeout bounds a single expression evaluation.
const DefaultEvalTimeout = 50 * time.Millisecond

// LuaChecker evaluates permission expressions written in Lua.
//
// Expressions see these globals:
//
//	has(node)          true if the actor holds node
//	any_of(n1, n2...)  true if the actor holds at least one node
//	all_of(n1, n2...)  true if the actor holds every node
//	actor.id, actor.name, actor.kind
//	command            name of the command being checked
//
// A bare expression such as `has("region.admin") or actor.kind == "console"`
// is evaluated as if prefixed with return. Full chunks that return a
// boolean are accepted too. Compiled chunks are cached per source. Each
// evaluation runs in a fresh environment, so assignments made by one
// expression are invisible to the next.
//
// gopher-lua's LState is not goroutine-safe, so evaluations are serialised.
type LuaChecker struct {
	mu sync.Mutex

	L        *lua.LState
	compiled map[string]*lua.LFunction
	builtins map[string]lua.LValue
	timeout  time.Duration
	logger   zerolog.Logger

	// subject is the actor bound for the evaluation in progress.
	subject actor.Identity

	closed bool
}

// LuaOption configures a LuaChecker.
type LuaOption func(*LuaChecker)

// WithEvalTimeout sets the per-evaluation time budget.
func WithEvalTimeout(d time.Duration) LuaOption {
	return func(c *LuaChecker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLuaLogger sets the logger used for script failures.
func WithLuaLogger(l zerolog.Logger) LuaOption {
	return func(c *LuaChecker) {
		c.logger = l
	}
}

// NewLuaChecker creates a sandboxed Lua checker.
func NewLuaChecker(opts ...LuaOption) *LuaChecker {
	c := &LuaChecker{
		compiled: make(map[string]*lua.LFunction),
		timeout:  DefaultEvalTimeout,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	c.L = L
	c.builtins = c.collectBuiltins()

	return c
}

// openSafeLibraries opens only the side-effect free standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// safeGlobals are the library names copied into every evaluation
// environment.
var safeGlobals = []string{
	"_VERSION", "assert", "error", "ipairs", "next", "pairs", "pcall",
	"rawequal", "rawget", "rawlen", "rawset", "select", "setmetatable",
	"tonumber", "tostring", "type", "unpack", "xpcall",
	"math", "string", "table",
}

// collectBuiltins snapshots the safe library values and the permission
// helpers the evaluation environments are built from.
func (c *LuaChecker) collectBuiltins() map[string]lua.LValue {
	b := make(map[string]lua.LValue, len(safeGlobals)+3)
	for _, name := range safeGlobals {
		if v := c.L.GetGlobal(name); v != lua.LNil {
			b[name] = v
		}
	}

	b["has"] = c.L.NewFunction(func(L *lua.LState) int {
		node := L.CheckString(1)
		L.Push(lua.LBool(c.subject != nil && c.subject.HasPermission(node)))
		return 1
	})
	b["any_of"] = c.L.NewFunction(func(L *lua.LState) int {
		for i := 1; i <= L.GetTop(); i++ {
			if c.subject != nil && c.subject.HasPermission(L.CheckString(i)) {
				L.Push(lua.LTrue)
				return 1
			}
		}
		L.Push(lua.LFalse)
		return 1
	})
	b["all_of"] = c.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		if n == 0 || c.subject == nil {
			L.Push(lua.LFalse)
			return 1
		}
		for i := 1; i <= n; i++ {
			if !c.subject.HasPermission(L.CheckString(i)) {
				L.Push(lua.LFalse)
				return 1
			}
		}
		L.Push(lua.LTrue)
		return 1
	})
	return b
}

// Compile checks that an expression is valid Lua and caches it.
func (c *LuaChecker) Compile(expression string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCheckerClosed
	}
	_, err := c.compileLocked(expression)
	return err
}

func (c *LuaChecker) compileLocked(expression string) (*lua.LFunction, error) {
	if fn, ok := c.compiled[expression]; ok {
		return fn, nil
	}
	fn, err := c.L.LoadString("return (" + expression + ")")
	if err != nil {
		var chunkErr error
		fn, chunkErr = c.L.LoadString(expression)
		if chunkErr != nil {
			return nil, fmt.Errorf("compiling permission expression %q: %w", expression, chunkErr)
		}
	}
	c.compiled[expression] = fn
	return fn, nil
}

// Evaluate implements Checker. Any failure denies.
func (c *LuaChecker) Evaluate(req Requirement, target Target, subject actor.Identity) bool {
	var expression string
	switch req.Kind() {
	case RequireNone:
		return true
	case RequireNode:
		if subject == nil {
			return false
		}
		return subject.HasPermission(req.Node())
	case RequireExpr:
		expression = req.Expression()
	default:
		return false
	}

	ok, err := c.Eval(expression, target, subject)
	if err != nil {
		name := ""
		if target != nil {
			name = target.Name()
		}
		c.logger.Warn().
			Err(err).
			Str("command", name).
			Str("expression", expression).
			Msg("permission expression failed")
		return false
	}
	return ok
}

// Eval runs an expression for a subject and returns its boolean result.
func (c *LuaChecker) Eval(expression string, target Target, subject actor.Identity) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false, ErrCheckerClosed
	}

	fn, err := c.compileLocked(expression)
	if err != nil {
		return false, err
	}

	c.subject = subject
	defer func() { c.subject = nil }()
	c.L.SetFEnv(fn, c.environment(target, subject))

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	c.L.SetContext(ctx)
	defer c.L.RemoveContext()

	top := c.L.GetTop()
	defer c.L.SetTop(top)

	c.L.Push(fn)
	if err := c.pcall(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return false, fmt.Errorf("%w: %v", ErrEvalTimeout, err)
		}
		return false, fmt.Errorf("evaluating permission expression: %w", err)
	}

	ret := c.L.Get(-1)
	b, ok := ret.(lua.LBool)
	if !ok {
		return false, fmt.Errorf("%w (got %s)", ErrNotBoolean, ret.Type())
	}
	return bool(b), nil
}

// pcall runs the function on top of the stack with panic recovery.
func (c *LuaChecker) pcall() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return c.L.PCall(0, 1, nil)
}

// environment builds the globals for one evaluation. Library tables are
// copied so an expression cannot change them for later calls.
func (c *LuaChecker) environment(target Target, subject actor.Identity) *lua.LTable {
	env := c.L.NewTable()
	for name, v := range c.builtins {
		if tbl, ok := v.(*lua.LTable); ok {
			cp := c.L.NewTable()
			tbl.ForEach(func(key, val lua.LValue) { cp.RawSet(key, val) })
			v = cp
		}
		env.RawSetString(name, v)
	}
	env.RawSetString("_G", env)

	tbl := c.L.NewTable()
	if subject != nil {
		c.L.SetField(tbl, "id", lua.LString(subject.ID()))
		c.L.SetField(tbl, "name", lua.LString(subject.Name()))
		c.L.SetField(tbl, "kind", lua.LString(string(subject.Kind())))
	}
	env.RawSetString("actor", tbl)

	name := ""
	if target != nil {
		name = target.Name()
	}
	env.RawSetString("command", lua.LString(name))
	return env
}

// Close releases the Lua state.
func (c *LuaChecker) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.L.Close()
	c.compiled = nil
	c.builtins = nil
	c.closed = true
	return nil
}
