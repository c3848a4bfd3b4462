package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"moviedb/internal/catalog"
)

func newRateCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <imdbID> <rating>",
		Short: "Set your rating for a catalog entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("rating must be an integer, got %q", args[1])
			}
			return cctx.withStore(func(store *catalog.Store) error {
				updated, err := store.UpdateRating(cmd.Context(), args[0], rating)
				if err != nil {
					return err
				}
				if !updated {
					return fmt.Errorf("no catalog entry for %s", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rated %s %d/10\n", args[0], rating)
				return nil
			})
		},
	}
}
