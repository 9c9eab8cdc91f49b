package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/dshills/cmdroute/internal/actor"
	"github.com/dshills/cmdroute/internal/builtin"
	"github.com/dshills/cmdroute/internal/command"
	"github.com/dshills/cmdroute/internal/config"
	"github.com/dshills/cmdroute/internal/console"
	"github.com/dshills/cmdroute/internal/dispatcher"
	"github.com/dshills/cmdroute/internal/logging"
	"github.com/dshills/cmdroute/internal/metrics"
	"github.com/dshills/cmdroute/internal/permission"
)

// errDispatch reports a line that did not end in success.
var errDispatch = errors.New("dispatch failed")

// appOptions are the inputs for building an app.
type appOptions struct {
	ConfigPath string
	EnvFile    string
	LogLevel   string
	ActorName  string
	ActorKind  string

	// Out receives actor messages. Defaults to os.Stdout.
	Out io.Writer

	// LogOutput receives logs. Defaults to os.Stderr.
	LogOutput io.Writer
}

// app holds the wired components behind the CLI.
type app struct {
	opts   config.Options
	logger zerolog.Logger

	actor  *console.Actor
	roster *console.Roster

	registry  *dispatcher.Registry
	metrics   *dispatcher.Metrics
	gatherer  *prometheus.Registry
	collector *metrics.Collector

	mu         sync.Mutex
	checker    *permission.LuaChecker
	dispatcher *dispatcher.Dispatcher
	creators   []command.Creator
	onSwap     func(*dispatcher.Dispatcher)
}

func newApp(ao appOptions) (*app, error) {
	if ao.EnvFile != "" {
		if err := config.LoadDotEnv(ao.EnvFile); err != nil {
			return nil, err
		}
	}
	opts, err := config.Load(ao.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if ao.LogLevel != "" {
		opts.LogLevel = ao.LogLevel
	}

	lc := opts.LoggingConfig()
	if ao.LogOutput != nil {
		lc.Output = ao.LogOutput
	}
	logger := logging.New(lc)

	out := ao.Out
	if out == nil {
		out = os.Stdout
	}
	name := ao.ActorName
	if name == "" {
		name = "console"
	}
	kind := actor.Kind(strings.ToLower(ao.ActorKind))

	a := &app{
		opts:     opts,
		logger:   logger,
		roster:   console.NewRoster(),
		metrics:  dispatcher.NewMetrics(),
		gatherer: prometheus.NewRegistry(),
	}
	a.actor = console.NewActor(name, out, console.WithKind(kind), console.WithGrants(opts.Grants(name)...))
	a.roster.Join(a.actor)

	a.collector, err = metrics.NewCollector(a.gatherer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	cfg := opts.DispatcherConfig()
	a.registry = dispatcher.NewRegistry(
		dispatcher.WithDefaultPrefix(cfg.Prefix),
		dispatcher.WithIgnoreList(cfg.IgnoreList...),
		dispatcher.WithAliasOverride(cfg.AllowAliasOverride),
		dispatcher.WithRegistryLogger(logging.Component(logger, "registry")),
	)

	d, err := a.build(opts)
	if err != nil {
		return nil, err
	}
	a.dispatcher = d

	a.creators = builtin.Creators(builtin.Deps{
		Registry:  a.registry,
		Directory: a.roster,
		Audience:  a.roster,
		Stats:     d,
	})
	for _, c := range a.creators {
		d.CreateAndAdd(c)
	}

	logger.Debug().
		Str("actor", name).
		Str("kind", kind.String()).
		Strs("commands", a.registry.Names()).
		Msg("cmdroute ready")
	return a, nil
}

// build creates a dispatcher for opts over the shared registry, metrics
// and hooks.
func (a *app) build(opts config.Options) (*dispatcher.Dispatcher, error) {
	dopts := []dispatcher.Option{
		dispatcher.WithRegistry(a.registry),
		dispatcher.WithLogger(logging.Component(a.logger, "dispatcher")),
		dispatcher.WithMetrics(a.metrics),
		dispatcher.WithHook(dispatcher.NewLoggingHook(logging.Component(a.logger, "dispatch")), a.collector),
	}
	if opts.AdvancedPermissions {
		if a.checker == nil {
			a.checker = permission.NewLuaChecker(
				permission.WithEvalTimeout(opts.EvalTimeout()),
				permission.WithLuaLogger(logging.Component(a.logger, "permission")),
			)
		}
		dopts = append(dopts, dispatcher.WithChecker(a.checker))
	}
	d, err := dispatcher.New(opts.DispatcherConfig(), dopts...)
	if err != nil {
		return nil, fmt.Errorf("build dispatcher: %w", err)
	}
	return d, nil
}

// Dispatcher returns the current dispatcher.
func (a *app) Dispatcher() *dispatcher.Dispatcher {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dispatcher
}

// Handle dispatches one line for the app's actor.
func (a *app) Handle(line string) *dispatcher.Outcome {
	return a.Dispatcher().Handle(a.actor, line)
}

// Reload applies new options: the ignore list and alias override are
// swapped, newly ignored commands are removed, no longer ignored builtins
// are registered again, and the dispatcher is rebuilt for the new settings.
func (a *app) Reload(opts config.Options) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// The registry stamps its default prefix onto commands when they are
	// sealed. The rebuilt dispatcher matches the new prefix, but help keeps
	// showing the old one until restart.
	if opts.PrefixRune() != a.opts.PrefixRune() {
		a.logger.Warn().Str("prefix", opts.Prefix).Msg("registered commands keep their prefix until restart")
	}

	d, err := a.build(opts)
	if err != nil {
		return err
	}

	a.registry.SetAliasOverride(opts.DispatcherConfig().AllowAliasOverride)
	a.registry.SetIgnoreList(opts.Ignore...)
	ignored := a.registry.IgnoreList()
	for _, name := range a.registry.Names() {
		if slices.Contains(ignored, name) && a.registry.Remove(name) {
			a.logger.Info().Str("command", name).Msg("command ignored")
		}
	}
	for _, c := range a.creators {
		cmd, err := command.Build(c)
		if err != nil || cmd == nil {
			continue
		}
		if _, ok := a.registry.Lookup(cmd.Name()); ok {
			continue
		}
		if err := d.Add(cmd); err != nil {
			a.logger.Warn().Err(err).Str("command", cmd.Name()).Msg("command not restored")
		}
	}

	for _, node := range opts.Grants(a.actor.Name()) {
		a.actor.Grants().Grant(node)
	}

	a.opts = opts
	a.dispatcher = d
	if a.onSwap != nil {
		a.onSwap(d)
	}
	a.logger.Info().Strs("ignore", ignored).Msg("configuration reloaded")
	return nil
}

// Close releases the permission checker.
func (a *app) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.checker != nil {
		return a.checker.Close()
	}
	return nil
}
