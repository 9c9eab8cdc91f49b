package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/dshills/cmdroute/internal/dispatcher"
	"github.com/dshills/cmdroute/internal/parser"
)

// DefaultPrompt is printed before each line is read.
const DefaultPrompt = "> "

// ChatFunc receives lines that are not commands.
type ChatFunc func(a *Actor, line string)

// Shell reads lines from an input and dispatches them for one actor.
// The dispatcher can be swapped while the shell runs.
type Shell struct {
	dispatcher atomic.Pointer[dispatcher.Dispatcher]
	actor      *Actor
	in         io.Reader
	out        io.Writer
	prompt     string
	chat       ChatFunc
	logger     zerolog.Logger
}

// ShellOption configures a Shell.
type ShellOption func(*Shell)

// WithPrompt sets the prompt. An empty prompt prints nothing.
func WithPrompt(p string) ShellOption {
	return func(s *Shell) {
		s.prompt = p
	}
}

// WithChat sets the handler for lines that are not commands.
func WithChat(fn ChatFunc) ShellOption {
	return func(s *Shell) {
		s.chat = fn
	}
}

// WithShellLogger sets the shell logger.
func WithShellLogger(l zerolog.Logger) ShellOption {
	return func(s *Shell) {
		s.logger = l
	}
}

// NewShell creates a shell that dispatches through d on behalf of a.
func NewShell(d *dispatcher.Dispatcher, a *Actor, in io.Reader, out io.Writer, opts ...ShellOption) *Shell {
	if out == nil {
		out = io.Discard
	}
	s := &Shell{
		actor:  a,
		in:     in,
		out:    out,
		prompt: DefaultPrompt,
		chat:   echoChat,
		logger: zerolog.Nop(),
	}
	s.dispatcher.Store(d)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func echoChat(a *Actor, line string) {
	a.Message(fmt.Sprintf("<%s> %s", a.Name(), line))
}

// SetDispatcher replaces the dispatcher used for subsequent lines.
func (s *Shell) SetDispatcher(d *dispatcher.Dispatcher) {
	if d != nil {
		s.dispatcher.Store(d)
	}
}

// Dispatcher returns the current dispatcher.
func (s *Shell) Dispatcher() *dispatcher.Dispatcher {
	return s.dispatcher.Load()
}

// Actor returns the shell's actor.
func (s *Shell) Actor() *Actor {
	return s.actor
}

// Run reads lines until the input ends or ctx is cancelled. It returns nil
// at end of input.
func (s *Shell) Run(ctx context.Context) error {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		s.printPrompt()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				err := <-errc
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				return nil
			}
			line = strings.TrimRight(line, "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			s.Exec(line)
		}
	}
}

func (s *Shell) printPrompt() {
	if s.prompt != "" {
		fmt.Fprint(s.out, s.prompt)
	}
}

// Exec dispatches one line and prints feedback for outcomes the
// dispatcher does not report to the actor itself.
func (s *Shell) Exec(line string) *dispatcher.Outcome {
	o := s.Dispatcher().Handle(s.actor, line)

	s.logger.Debug().
		Str("id", o.ID().String()).
		Str("outcome", o.Kind().String()).
		Str("command", o.CommandName()).
		Msg("shell line")

	if o.Kind() == dispatcher.KindNotCommand {
		if s.chat != nil {
			s.chat(s.actor, line)
		}
		return o
	}
	if msg := Feedback(o); msg != "" {
		s.actor.Message(msg)
	}
	return o
}

// Feedback returns the user-facing text for an outcome, or "" when the
// outcome needs none.
func Feedback(o *dispatcher.Outcome) string {
	switch o.Kind() {
	case dispatcher.KindNotFound:
		label := firstToken(o.Input())
		if label == "" {
			return ""
		}
		return fmt.Sprintf("Unknown command %q. Type \"help\" for a list of commands.", label)
	case dispatcher.KindCallerOfWrongType:
		kind := "this actor"
		if a := o.Actor(); a != nil {
			kind = a.Kind().String()
		}
		return fmt.Sprintf("That command cannot be used by %s.", kind)
	case dispatcher.KindNotPermitted:
		return "You do not have permission to use that command."
	case dispatcher.KindArgumentError:
		ae := o.ArgumentError()
		if ae == nil {
			return "Invalid argument."
		}
		var pe *parser.Error
		if errors.As(ae.Err, &pe) {
			return fmt.Sprintf("Invalid %s: %q %s.", ae.Arg.Name, pe.Input, pe.Reason)
		}
		return fmt.Sprintf("Invalid %s: %v.", ae.Arg.Name, ae.Err)
	default:
		return ""
	}
}

func firstToken(input string) string {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
