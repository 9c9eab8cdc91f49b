package config

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dshills/cmdroute/internal/dispatcher"
	"github.com/dshills/cmdroute/internal/logging"
)

// Options is the cmdroute configuration file, overridable from CMDROUTE_*
// environment variables.
type Options struct {
	// Prefix is the command prefix, at most one character.
	Prefix string `toml:"prefix" yaml:"prefix" env:"CMDROUTE_PREFIX"`

	// RequirePrefix treats input without the prefix as not a command.
	RequirePrefix bool `toml:"require_prefix" yaml:"require_prefix" env:"CMDROUTE_REQUIRE_PREFIX"`

	// AdvancedPermissions evaluates permission expressions with Lua.
	AdvancedPermissions bool `toml:"advanced_permissions" yaml:"advanced_permissions" env:"CMDROUTE_ADVANCED_PERMISSIONS"`

	// EvalTimeoutMS bounds a single permission expression, in milliseconds.
	EvalTimeoutMS int `toml:"eval_timeout_ms" yaml:"eval_timeout_ms" env:"CMDROUTE_EVAL_TIMEOUT_MS"`

	// UsageFormat renders a command's usage and must contain %usage.
	UsageFormat string `toml:"usage_format" yaml:"usage_format" env:"CMDROUTE_USAGE_FORMAT"`

	// ErrorMessage is sent to the actor when a command fails.
	ErrorMessage string `toml:"error_message" yaml:"error_message" env:"CMDROUTE_ERROR_MESSAGE"`

	// Ignore lists commands that are never registered.
	Ignore []string `toml:"ignore" yaml:"ignore" env:"CMDROUTE_IGNORE" envSeparator:","`

	// AliasOverride lets a later alias replace an earlier one.
	AliasOverride bool `toml:"alias_override" yaml:"alias_override" env:"CMDROUTE_ALIAS_OVERRIDE"`

	// LogLevel is one of debug, info, warn, error, off.
	LogLevel string `toml:"log_level" yaml:"log_level" env:"CMDROUTE_LOG_LEVEL"`

	// LogPretty enables console formatted logs.
	LogPretty bool `toml:"log_pretty" yaml:"log_pretty" env:"CMDROUTE_LOG_PRETTY"`

	// MetricsAddr serves Prometheus metrics when non-empty.
	MetricsAddr string `toml:"metrics_addr" yaml:"metrics_addr" env:"CMDROUTE_METRICS_ADDR"`

	// Permissions maps actor names to granted permission nodes.
	Permissions map[string][]string `toml:"permissions" yaml:"permissions"`
}

// Defaults returns the built-in configuration.
func Defaults() Options {
	d := dispatcher.DefaultConfig()
	return Options{
		Prefix:        string(d.Prefix),
		UsageFormat:   d.UsageFormat,
		ErrorMessage:  d.ErrorMessage,
		EvalTimeoutMS: 50,
		LogLevel:      "info",
	}
}

// Validate checks the options for consistency.
func (o Options) Validate() error {
	if utf8.RuneCountInString(o.Prefix) > 1 {
		return fmt.Errorf("%w: %q", ErrInvalidPrefix, o.Prefix)
	}
	if o.RequirePrefix && o.Prefix == "" {
		return ErrPrefixRequired
	}
	if !strings.Contains(o.UsageFormat, dispatcher.UsagePlaceholder) {
		return fmt.Errorf("%w: %q", dispatcher.ErrInvalidUsageFormat, o.UsageFormat)
	}
	if o.EvalTimeoutMS < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTimeout, o.EvalTimeoutMS)
	}
	return nil
}

// PrefixRune returns the prefix character, or 0 when unset.
func (o Options) PrefixRune() rune {
	r, _ := utf8.DecodeRuneInString(o.Prefix)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

// EvalTimeout returns the permission expression timeout.
func (o Options) EvalTimeout() time.Duration {
	return time.Duration(o.EvalTimeoutMS) * time.Millisecond
}

// DispatcherConfig converts the options to a dispatcher configuration.
func (o Options) DispatcherConfig() dispatcher.Config {
	cfg := dispatcher.DefaultConfig().
		WithPrefix(o.PrefixRune(), o.RequirePrefix).
		WithUsageFormat(o.UsageFormat).
		WithErrorMessage(o.ErrorMessage).
		WithAliasOverride(o.AliasOverride).
		WithIgnoreList(o.Ignore...).
		WithMetrics()
	if o.AdvancedPermissions {
		cfg = cfg.WithAdvancedPermissions()
	}
	return cfg
}

// LoggingConfig converts the options to a logger configuration.
func (o Options) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(o.LogLevel)
	cfg.Pretty = o.LogPretty
	return cfg
}

// Grants returns the permission nodes configured for an actor name.
func (o Options) Grants(name string) []string {
	return append([]string(nil), o.Permissions[name]...)
}
