package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"moviedb/internal/catalog"
	"moviedb/internal/omdb"
	"moviedb/internal/title"
)

func newAddCommand(cctx *commandContext) *cobra.Command {
	var rating int
	var unrated bool

	cmd := &cobra.Command{
		Use:   "add <imdbID|title>",
		Short: "Look up a title in OMDb and add it to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !unrated && (rating < 0 || rating > 10) {
				return fmt.Errorf("rating %d out of range [0,10]", rating)
			}

			client, err := cctx.lookupClient()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			var data omdb.TitleData
			if title.ValidIMDbID(args[0]) {
				data, err = client.ByIMDbID(ctx, args[0])
			} else {
				data, err = client.ByTitle(ctx, args[0])
			}
			if errors.Is(err, omdb.ErrNotFound) {
				return fmt.Errorf("%q is not in the OMDb catalog; try 'moviedb lookup %s' for partial matches", args[0], args[0])
			}
			if err != nil {
				return err
			}

			rec, err := title.FromData(data)
			if err != nil {
				return fmt.Errorf("shape OMDb payload: %w", err)
			}

			var ratingArg *int
			if !unrated {
				ratingArg = &rating
			}

			return cctx.withStore(func(store *catalog.Store) error {
				if err := store.CreateTitle(ctx, rec, ratingArg); err != nil {
					if errors.Is(err, catalog.ErrDuplicate) {
						return fmt.Errorf("%s is already in the catalog", rec.IMDbID)
					}
					return err
				}
				log, logErr := cctx.newLogger()
				if logErr == nil {
					log.Info("added title", "imdb_id", rec.IMDbID, "title", rec.Title)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) as %s\n", rec.Title, rec.Year, rec.IMDbID)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "Your rating from 0 to 10")
	cmd.Flags().BoolVar(&unrated, "unrated", false, "Add without a rating")
	cmd.MarkFlagsOneRequired("rating", "unrated")
	cmd.MarkFlagsMutuallyExclusive("rating", "unrated")
	return cmd
}
