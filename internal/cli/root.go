// Package cli provides the command-line interface for sqlpad.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bgunnarsson/sqlpad/internal/app"
	"github.com/bgunnarsson/sqlpad/internal/config"
	"github.com/bgunnarsson/sqlpad/internal/logging"
)

// Version information (set at build time).
var Version = "0.1.0"

// isTerminal reports whether stdout is a terminal.
var isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

// cmdEnv is what PersistentPreRunE builds for the command that runs.
type cmdEnv struct {
	cfgFile string

	cfg     *config.Config
	logger  *logrus.Logger
	logFile io.Closer
	app     *app.App
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rt := &cmdEnv{}

	rootCmd := &cobra.Command{
		Use:   "sqlpad",
		Short: "sqlpad - ad-hoc SQL console",
		Long: `sqlpad is a small SQL console: type a connection string and a query,
execute it and browse the result grid.

The connection string and query are saved encrypted between runs.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return rt.setup(cmd)
		},
		RunE: rt.run(func(cmd *cobra.Command, _ []string) error {
			// without a terminal there is nothing to draw on
			if !isTerminal() {
				return rt.app.RunNonInteractive(cmd.Context(), "", "")
			}
			return rt.app.RunInteractive(cmd.Context())
		}),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&rt.cfgFile, "config", "", "config file (default: <user config dir>/sqlpad/sqlpad.yaml)")
	rootCmd.PersistentFlags().String("driver", "mysql", "Database driver (mysql|postgres|sqlite|mssql)")
	rootCmd.PersistentFlags().Duration("query-timeout", 0, "Bound on a single query, 0 for none")
	rootCmd.PersistentFlags().Duration("connect-timeout", 0, "Bound on connecting")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-file", "", "Log file, empty to discard")
	rootCmd.PersistentFlags().String("prefs", "", "Preferences database holding the saved configuration")
	rootCmd.PersistentFlags().String("passphrase", "", "Passphrase for the saved configuration (default: install dir)")

	_ = rootCmd.RegisterFlagCompletionFunc("driver", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"mysql", "postgres", "sqlite", "mssql"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newExecCommand(rt))
	rootCmd.AddCommand(newTablesCommand(rt))
	rootCmd.AddCommand(newDescribeCommand(rt))
	rootCmd.AddCommand(newSavedCommand(rt))

	return rootCmd
}

func (rt *cmdEnv) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(rt.cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}

	logger, logFile, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}

	a, err := app.New(cmd.Context(), cfg, logger, cmd.OutOrStdout())
	if err != nil {
		_ = logFile.Close()
		return err
	}

	logger.WithFields(logrus.Fields{
		"command": cmd.Name(),
		"driver":  cfg.Driver,
		"config":  cfg.FileUsed,
	}).Debug("Configuration loaded")

	rt.cfg, rt.logger, rt.logFile, rt.app = cfg, logger, logFile, a
	return nil
}

// run wraps a RunE so the app and log file are released even when it fails.
func (rt *cmdEnv) run(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		return errors.Join(err, rt.teardown())
	}
}

func (rt *cmdEnv) teardown() error {
	var err error
	if rt.app != nil {
		err = rt.app.Close()
		rt.app = nil
	}
	if rt.logFile != nil {
		_ = rt.logFile.Close()
		rt.logFile = nil
	}
	return err
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
