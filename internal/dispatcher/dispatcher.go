package dispatcher

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dshills/cmdroute/internal/actor"
	"github.com/dshills/cmdroute/internal/command"
	"github.com/dshills/cmdroute/internal/permission"
)

// Dispatcher turns input lines into command invocations.
type Dispatcher struct {
	config   Config
	registry *Registry
	strategy permission.Strategy
	checker  permission.Checker
	logger   zerolog.Logger
	metrics  *Metrics

	hookMu sync.RWMutex
	hooks  []PostDispatchHook

	metaMu sync.RWMutex
	meta   map[string]string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRegistry uses an existing registry instead of building one from the
// config.
func WithRegistry(r *Registry) Option {
	return func(d *Dispatcher) {
		d.registry = r
	}
}

// WithChecker sets the checker used by advanced permissions.
func WithChecker(c permission.Checker) Option {
	return func(d *Dispatcher) {
		d.checker = c
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// WithMetrics sets the in-memory metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithHook adds post-dispatch hooks.
func WithHook(hooks ...PostDispatchHook) Option {
	return func(d *Dispatcher) {
		d.hooks = append(d.hooks, hooks...)
	}
}

// New creates a dispatcher.
func New(config Config, opts ...Option) (*Dispatcher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	d := &Dispatcher{
		config: config,
		logger: zerolog.Nop(),
		meta:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(d)
	}

	if config.UseAdvancedPermissions {
		if d.checker == nil {
			return nil, ErrCheckerRequired
		}
		d.strategy = permission.Advanced{Checker: d.checker}
	} else {
		d.strategy = permission.Simple{}
	}

	if d.registry == nil {
		d.registry = NewRegistry(
			WithDefaultPrefix(config.Prefix),
			WithIgnoreList(config.IgnoreList...),
			WithAliasOverride(config.AllowAliasOverride),
			WithRegistryLogger(d.logger),
		)
	}
	if config.EnableMetrics && d.metrics == nil {
		d.metrics = NewMetrics()
	}

	d.meta["environment"] = "standalone"
	return d, nil
}

// Add registers a command.
func (d *Dispatcher) Add(cmd *command.Command) error {
	return d.registry.Add(cmd)
}

// CreateAndAdd builds and registers a command, reporting success.
func (d *Dispatcher) CreateAndAdd(c command.Creator) bool {
	return d.registry.CreateAndAdd(c)
}

// AddHook registers post-dispatch hooks.
func (d *Dispatcher) AddHook(hooks ...PostDispatchHook) {
	d.hookMu.Lock()
	defer d.hookMu.Unlock()
	d.hooks = append(d.hooks, hooks...)
}

// Registry returns the command registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}

// Metrics returns the metrics collector (may be nil if disabled).
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// SetMeta stores a metadata value.
func (d *Dispatcher) SetMeta(key, value string) {
	d.metaMu.Lock()
	defer d.metaMu.Unlock()
	d.meta[key] = value
}

// Meta returns a metadata value.
func (d *Dispatcher) Meta(key string) (string, bool) {
	d.metaMu.RLock()
	defer d.metaMu.RUnlock()
	v, ok := d.meta[key]
	return v, ok
}

// RemoveMeta deletes a metadata value.
func (d *Dispatcher) RemoveMeta(key string) {
	d.metaMu.Lock()
	defer d.metaMu.Unlock()
	delete(d.meta, key)
}

// Handle dispatches one input line for a and returns exactly one outcome.
// Handler failures, including panics, end in KindError and never escape
// Handle.
func (d *Dispatcher) Handle(a command.Actor, input string) *Outcome {
	return d.handle(a, input, true)
}

// handle implements Handle. notify controls whether a failure sends
// Config.ErrorMessage to the actor.
func (d *Dispatcher) handle(a command.Actor, input string, notify bool) *Outcome {
	start := time.Now()
	o := &Outcome{
		id:      uuid.New(),
		actor:   a,
		manager: d,
		input:   input,
		values:  command.NewValues(),
	}

	d.dispatchWithRecovery(o)
	o.duration = time.Since(start)

	if notify && o.kind == KindError && a != nil && d.config.ErrorMessage != "" {
		a.Message(d.config.ErrorMessage)
	}

	d.finish(o)
	return o
}

// dispatchWithRecovery runs dispatch, converting a panic into KindError.
func (d *Dispatcher) dispatchWithRecovery(o *Outcome) {
	defer func() {
		if r := recover(); r != nil {
			pe := &PanicError{Value: r}
			if d.config.CapturePanicStack {
				stack := make([]byte, 4096)
				pe.Stack = stack[:runtime.Stack(stack, false)]
			}

			o.kind = KindError
			o.err = pe
		}
	}()

	d.dispatch(o)
}

// dispatch runs the pipeline and sets o.kind.
func (d *Dispatcher) dispatch(o *Outcome) {
	a := o.actor
	line := o.input

	// Prefix
	if d.config.Prefix != 0 {
		p := string(d.config.Prefix)
		if d.config.RequirePrefix && !strings.HasPrefix(line, p) {
			o.kind = KindNotCommand
			return
		}
		line = strings.TrimPrefix(line, p)
	}

	// Tokenize
	tokens := tokenize(line)
	if len(tokens) == 0 {
		o.kind = KindNotFound
		return
	}

	// Resolve
	cmd, ok := d.registry.Lookup(tokens[0])
	var raw []string
	if ok {
		o.label = tokens[0]
		raw = tokens[1:]
	} else {
		if len(tokens) < 2 {
			o.kind = KindNotFound
			return
		}
		cmd, ok = d.registry.Lookup(tokens[1])
		if !ok {
			o.kind = KindNotFound
			return
		}
		spec, hasContext := cmd.Context()
		if !hasContext {
			o.kind = KindNotFound
			return
		}
		o.command = cmd
		o.label = tokens[1]
		v, err := spec.Parser.Parse(tokens[0])
		if err != nil {
			o.kind = KindArgumentError
			o.argErr = &ArgumentError{Arg: spec, Err: err}
			return
		}
		o.values.Set(spec.Name, v)
		raw = tokens[2:]
	}
	o.command = cmd
	o.args = append(make([]string, 0, len(raw)), raw...)

	// Actor kind
	if !actor.Satisfies(a, cmd.ActorKind()) {
		o.kind = KindCallerOfWrongType
		return
	}

	// Permission
	if !d.strategy.Permitted(cmd.Permission(), cmd, a) {
		o.kind = KindNotPermitted
		return
	}

	// Arguments
	if !d.bind(o, cmd) {
		return
	}

	// Invoke
	inv := &command.Invocation{
		ID:      o.id,
		Actor:   a,
		Command: cmd,
		Label:   o.label,
		Args:    o.Args(),
		Values:  o.values,
		Input:   o.input,
	}
	handled, err := cmd.Handler().OnCommand(inv)
	var sub *subcommandError
	if errors.As(err, &sub) {
		o.adopt(sub.outcome)
		return
	}
	if err != nil {
		o.kind = KindError
		o.err = err
		return
	}
	if !handled {
		if usage := cmd.Usage(); usage != "" && a != nil {
			a.Message(strings.ReplaceAll(d.config.UsageFormat, UsagePlaceholder, usage))
		}
		o.kind = KindWrongUsage
		return
	}

	o.kind = KindSuccess
}

// bind parses the raw arguments into o.values in declaration order. It
// sets the terminal kind and returns false when binding stops the call.
func (d *Dispatcher) bind(o *Outcome, cmd *command.Command) bool {
	specs := cmd.Args()
	if len(specs) == 0 {
		return true
	}

	raw := o.args
	if len(raw) < len(specs) {
		d.requireArguments(o, cmd, specs[len(raw):])
		return false
	}

	index := 0
	for i, spec := range specs {
		if spec.Greedy() {
			o.values.Set(spec.Name, strings.Join(raw[index:], " "))
			index = len(raw)
			continue
		}

		v, err := spec.Parser.Parse(raw[index])
		index++
		if err != nil {
			o.kind = KindArgumentError
			o.argErr = &ArgumentError{Arg: spec, Err: err}
			return false
		}
		if v == nil {
			d.requireArguments(o, cmd, specs[i:])
			return false
		}
		o.values.Set(spec.Name, v)
	}
	return true
}

func (d *Dispatcher) requireArguments(o *Outcome, cmd *command.Command, missing []command.Arg) {
	if o.actor != nil {
		o.actor.SendRequiredArguments(cmd, missing, cmd.Usage())
	}
	o.kind = KindWrongUsage
}

// finish records metrics and runs hooks.
func (d *Dispatcher) finish(o *Outcome) {
	if d.metrics != nil {
		d.metrics.Record(o)
	}

	if o.kind == KindError {
		d.logger.Error().Err(o.err).Str("id", o.id.String()).Str("command", o.CommandName()).Msg("command failed")
	}

	d.hookMu.RLock()
	hooks := make([]PostDispatchHook, len(d.hooks))
	copy(hooks, d.hooks)
	d.hookMu.RUnlock()

	for _, h := range hooks {
		d.runHook(h, o)
	}
}

func (d *Dispatcher) runHook(h PostDispatchHook, o *Outcome) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Str("panic", fmt.Sprint(r)).Str("id", o.id.String()).Msg("post-dispatch hook panicked")
		}
	}()
	h.PostDispatch(o)
}

// tokenize splits on single spaces. Trailing empty tokens are dropped so a
// trailing space does not produce an empty argument.
func tokenize(line string) []string {
	tokens := strings.Split(line, " ")
	for len(tokens) > 0 && tokens[len(tokens)-1] == "" {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}
