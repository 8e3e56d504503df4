package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clipsense/internal/api"
	"clipsense/internal/config"
	"clipsense/internal/queue"
)

func newTableCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "table NAME",
		Short: "Dump a raw database table for inspection",
		Long: "Dump a raw database table for inspection.\n\nKnown tables: " +
			strings.Join(queue.DumpableTables(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(cfg *config.Config, svc *api.QueueService, store *queue.Store) error {
				dump, err := svc.DumpTable(cmd.Context(), strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, dump)
				}
				if len(dump.Rows) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Table %s is empty\n", dump.Name)
					return nil
				}
				aligns := make([]columnAlignment, len(dump.Columns))
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(dump.Columns, dump.Rows, aligns))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}
