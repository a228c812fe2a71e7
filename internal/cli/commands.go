package cli

import (
	"github.com/spf13/cobra"
)

func newExecCommand(rt *cmdEnv) *cobra.Command {
	var dsn, query string

	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Run one query and print the result",
		Long: `Run one query and print the result as a table.

Without -q or -d the saved query and connection string are used.`,
		Args: cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, _ []string) error {
			return rt.app.RunNonInteractive(cmd.Context(), dsn, query)
		}),
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "SQL to run")
	cmd.Flags().StringVarP(&dsn, "dsn", "d", "", "Connection string")
	return cmd
}

func newTablesCommand(rt *cmdEnv) *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List tables",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, _ []string) error {
			return rt.app.RunTables(cmd.Context(), dsn)
		}),
	}

	cmd.Flags().StringVarP(&dsn, "dsn", "d", "", "Connection string")
	return cmd
}

func newDescribeCommand(rt *cmdEnv) *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "describe <table>",
		Short: "List the columns of a table",
		Args:  cobra.ExactArgs(1),
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			return rt.app.RunDescribe(cmd.Context(), dsn, args[0])
		}),
	}

	cmd.Flags().StringVarP(&dsn, "dsn", "d", "", "Connection string")
	return cmd
}

func newSavedCommand(rt *cmdEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Inspect or clear the saved connection string and query",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the saved configuration, password masked",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(*cobra.Command, []string) error {
			return rt.app.ShowSaved()
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the saved configuration",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(*cobra.Command, []string) error {
			return rt.app.ClearSaved()
		}),
	})
	return cmd
}
