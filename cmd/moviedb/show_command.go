package main

import (
	"github.com/spf13/cobra"

	"moviedb/internal/catalog"
)

func newShowCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <imdbID|title>",
		Short: "Display one catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(func(store *catalog.Store) error {
				rec, err := resolveRecord(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				printRecord(cmd.OutOrStdout(), rec)
				return nil
			})
		},
	}
}
