// Command dailyflow prints the prioritized task view from a yaml task file or
// the bot's SQLite database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agalitsyn/dailyflow/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dailyflow",
		Short:         "Prioritized daily task views",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts := &viewOptions{}
	opts.bindPersistent(root)

	root.AddCommand(
		&cobra.Command{
			Use:   "view",
			Short: "Show all tasks matching the filters, highest priority first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runView(cmd, opts, false)
			},
		},
		&cobra.Command{
			Use:   "today",
			Short: "Show up to five tasks due by the end of today",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runView(cmd, opts, true)
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show task counts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runStats(cmd, opts)
			},
		},
	)
	return root
}
