package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"moviedb/internal/catalog"
)

func newSearchCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Search the catalog by partial title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(func(store *catalog.Store) error {
				records, err := store.SearchByName(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No titles matching %q\n", args[0])
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), recordTable(records))
				return nil
			})
		},
	}
}
