// Package commands provides the CLI commands for cmdroute.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	configPath string
	envFile    string
	logLevel   string
	actorName  string
	actorKind  string
)

var rootCmd = &cobra.Command{
	Use:   "cmdroute",
	Short: "cmdroute - text command routing shell",
	Long: `cmdroute routes text command lines to registered commands, binding
typed arguments and checking actor kind and permissions on the way.

Run 'cmdroute shell' for an interactive session, or 'cmdroute run <line>'
to dispatch a single line.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a TOML or YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional .env file loaded before the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug|info|warn|error|off), overrides the config")
	rootCmd.PersistentFlags().StringVar(&actorName, "actor", "console", "Name of the acting console actor")
	rootCmd.PersistentFlags().StringVar(&actorKind, "kind", "console", "Kind of the acting actor (console|player|script)")

	rootCmd.SetVersionTemplate(fmt.Sprintf("cmdroute %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(runCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// flagOptions collects the global flags for building an app.
func flagOptions() appOptions {
	return appOptions{
		ConfigPath: configPath,
		EnvFile:    envFile,
		LogLevel:   logLevel,
		ActorName:  actorName,
		ActorKind:  actorKind,
	}
}
