package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/cmdroute/internal/config"
	"github.com/dshills/cmdroute/internal/console"
	"github.com/dshills/cmdroute/internal/logging"
	"github.com/dshills/cmdroute/internal/metrics"
)

var noWatch bool

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive command shell",
	Long: `Start an interactive shell that dispatches every input line.

Lines without the configured prefix are treated as chat when the prefix is
required. The configuration file is watched and reloaded on change unless
--no-watch is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		ao := flagOptions()
		ao.Out = cmd.OutOrStdout()
		in := cmd.InOrStdin()
		return runShell(ctx, ao, in, interactive(in), !noWatch)
	},
}

func init() {
	shellCmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload the configuration file on change")
}

// interactive reports whether in is a terminal.
func interactive(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func runShell(ctx context.Context, ao appOptions, in io.Reader, prompt, watch bool) error {
	a, err := newApp(ao)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shellOpts := []console.ShellOption{console.WithShellLogger(logging.Component(a.logger, "shell"))}
	if !prompt {
		shellOpts = append(shellOpts, console.WithPrompt(""))
	}
	sh := console.NewShell(a.Dispatcher(), a.actor, in, ao.Out, shellOpts...)
	a.onSwap = sh.SetDispatcher

	if watch && ao.ConfigPath != "" {
		w, err := config.Watch(ao.ConfigPath, func(opts config.Options) {
			if err := a.Reload(opts); err != nil {
				a.logger.Error().Err(err).Msg("configuration reload failed")
			}
		},
			config.WithWatchLogger(logging.Component(a.logger, "config")),
			config.OnError(func(err error) {
				a.logger.Warn().Err(err).Msg("configuration not reloaded")
			}))
		if err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		defer w.Close()
	}

	if addr := a.opts.MetricsAddr; addr != "" {
		go func() {
			if err := metrics.Serve(ctx, addr, a.gatherer, logging.Component(a.logger, "metrics")); err != nil {
				a.logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	if prompt {
		fmt.Fprintf(ao.Out, "cmdroute %s. Type \"help\" for a list of commands.\n", Version)
	}
	if err := sh.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
