package dispatcher

import "github.com/rs/zerolog"

// PostDispatchHook observes each outcome after it is built.
type PostDispatchHook interface {
	PostDispatch(o *Outcome)
}

// PostDispatchFunc is a function adapter for PostDispatchHook.
type PostDispatchFunc func(o *Outcome)

// PostDispatch implements PostDispatchHook.
func (f PostDispatchFunc) PostDispatch(o *Outcome) {
	f(o)
}

// LoggingHook logs every outcome. Failures are logged at error level,
// everything else at debug.
type LoggingHook struct {
	logger zerolog.Logger
}

// NewLoggingHook creates a logging hook.
func NewLoggingHook(l zerolog.Logger) *LoggingHook {
	return &LoggingHook{logger: l}
}

// PostDispatch implements PostDispatchHook.
func (h *LoggingHook) PostDispatch(o *Outcome) {
	ev := h.logger.Debug()
	if o.Kind() == KindError {
		ev = h.logger.Error().Err(o.Err())
	}
	if a := o.Actor(); a != nil {
		ev = ev.Str("actor", a.Name())
	}
	ev.Str("id", o.ID().String()).
		Str("outcome", o.Kind().String()).
		Str("command", o.CommandName()).
		Dur("duration", o.Duration()).
		Msg("dispatch")
}
