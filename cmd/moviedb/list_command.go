package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"moviedb/internal/catalog"
	"moviedb/internal/title"
)

func newListCommand(cctx *commandContext) *cobra.Command {
	var minRating int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(func(store *catalog.Store) error {
				var (
					records []*title.Record
					err     error
				)
				if cmd.Flags().Changed("min-rating") {
					records, err = store.TitlesByMinimumRating(cmd.Context(), minRating)
				} else {
					records, err = store.ListAll(cmd.Context())
				}
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Catalog is empty")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), recordTable(records))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&minRating, "min-rating", 0, "Only show titles you rated at least this high")
	return cmd
}
