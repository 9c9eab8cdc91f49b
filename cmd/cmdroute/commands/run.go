package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/cmdroute/internal/console"
)

var runCmd = &cobra.Command{
	Use:   "run <line...>",
	Short: "Dispatch a single command line",
	Long: `Dispatch the arguments, joined by single spaces, as one command line.

The exit status is 0 when the command succeeds and 1 otherwise.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ao := flagOptions()
		ao.Out = cmd.OutOrStdout()
		return runLine(ao, strings.Join(args, " "))
	},
}

func runLine(ao appOptions, line string) error {
	a, err := newApp(ao)
	if err != nil {
		return err
	}
	defer a.Close()

	sh := console.NewShell(a.Dispatcher(), a.actor, nil, ao.Out, console.WithPrompt(""))
	o := sh.Exec(line)
	if !o.IsSuccess() {
		return fmt.Errorf("%w: %s", errDispatch, o.Kind())
	}
	return nil
}
