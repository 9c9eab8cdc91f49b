package dispatcher

import "strings"

// UsagePlaceholder is replaced by the command usage in Config.UsageFormat.
const UsagePlaceholder = "%usage"

// DefaultErrorMessage is sent to an actor whose command failed.
const DefaultErrorMessage = "An internal error occurred while running that command."

// Config holds dispatcher configuration options.
type Config struct {
	// RequirePrefix rejects input that does not start with Prefix.
	RequirePrefix bool

	// Prefix is the command prefix. Zero means none.
	Prefix rune

	// UseAdvancedPermissions selects the checker-backed strategy.
	UseAdvancedPermissions bool

	// UsageFormat renders the usage string on wrong usage.
	UsageFormat string

	// ErrorMessage is sent to the actor when a handler fails.
	ErrorMessage string

	// CapturePanicStack records the goroutine stack in PanicError. Panics
	// are always converted into ERROR outcomes.
	CapturePanicStack bool

	// AllowAliasOverride lets a later alias replace an earlier one.
	AllowAliasOverride bool

	// IgnoreList names commands that registration silently skips.
	IgnoreList []string

	// EnableMetrics enables in-memory dispatch statistics.
	EnableMetrics bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RequirePrefix:     false,
		Prefix:            '/',
		UsageFormat:       "Usage: " + UsagePlaceholder,
		ErrorMessage:      DefaultErrorMessage,
		CapturePanicStack: true,
	}
}

// Validate reports configuration errors that do not depend on collaborators.
func (c Config) Validate() error {
	if !strings.Contains(c.UsageFormat, UsagePlaceholder) {
		return ErrInvalidUsageFormat
	}
	return nil
}

// WithPrefix returns a copy of the config with the prefix set. When
// required is true, input without the prefix is not a command.
func (c Config) WithPrefix(r rune, required bool) Config {
	c.Prefix = r
	c.RequirePrefix = required
	return c
}

// WithoutPrefix returns a copy of the config with no prefix.
func (c Config) WithoutPrefix() Config {
	c.Prefix = 0
	c.RequirePrefix = false
	return c
}

// WithAdvancedPermissions returns a copy of the config using the checker strategy.
func (c Config) WithAdvancedPermissions() Config {
	c.UseAdvancedPermissions = true
	return c
}

// WithUsageFormat returns a copy of the config with the usage format set.
func (c Config) WithUsageFormat(format string) Config {
	c.UsageFormat = format
	return c
}

// WithErrorMessage returns a copy of the config with the failure message set.
func (c Config) WithErrorMessage(msg string) Config {
	c.ErrorMessage = msg
	return c
}

// WithPanicStack returns a copy of the config with stack capture set.
func (c Config) WithPanicStack(capture bool) Config {
	c.CapturePanicStack = capture
	return c
}

// WithAliasOverride returns a copy of the config with alias override set.
func (c Config) WithAliasOverride(allow bool) Config {
	c.AllowAliasOverride = allow
	return c
}

// WithIgnoreList returns a copy of the config ignoring the named commands.
func (c Config) WithIgnoreList(names ...string) Config {
	c.IgnoreList = append([]string(nil), names...)
	return c
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}
