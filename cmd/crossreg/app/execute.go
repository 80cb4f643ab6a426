package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the crossreg CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.out)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "crossreg",
		Short:   "Cross-registration roster reconciliation",
		Version: a.version,
		Long: `crossreg compares the course registrations a home institution holds for
its cross-registered students with the registrations the host institution
holds for the same students, and prints what has to be corrected by hand
in either system.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.crossreg.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.String("log-format", "", "log format: auto, console, json")
	flags.String("log-output", "", "log destination: stderr, stdout, discard or a file path")

	rootCmd.SetVersionTemplate("crossreg {{.Version}}\n")

	rootCmd.AddCommand(a.NewReconcileCommand())
	rootCmd.AddCommand(a.NewVersionCommand())

	return rootCmd
}

// setupCommand is called before any command runs. It reloads the
// configuration so the parsed flags take precedence, then rebuilds the
// logger.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if !a.fixedConfig {
		config, err := LoadConfig("", cmd.Flags())
		if err != nil {
			return err
		}
		a.config = config
	}

	logger := NewLogger(a.config, a.runID)
	a.logger = &logger
	a.logger.Debug().
		Str("config", a.config.ConfigFile).
		Msg("Configuration loaded")
	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
