package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"moviedb/internal/omdb"
	"moviedb/internal/title"
)

func newLookupCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <imdbID|text>",
		Short: "Query OMDb without touching the catalog",
		Long: `Query OMDb without touching the catalog.

An argument shaped like an IMDb identifier fetches that exact title.
Anything else is tried as an exact name first and falls back to a
substring search.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cctx.lookupClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if title.ValidIMDbID(args[0]) {
				data, err := client.ByIMDbID(ctx, args[0])
				if err != nil {
					return err
				}
				return printLookupRecord(out, data)
			}

			data, err := client.ByTitle(ctx, args[0])
			if err == nil {
				return printLookupRecord(out, data)
			}
			if !errors.Is(err, omdb.ErrNotFound) {
				return err
			}

			resp, err := client.Search(ctx, args[0])
			if errors.Is(err, omdb.ErrNotFound) {
				fmt.Fprintf(out, "OMDb has no titles matching %q\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(resp.Results))
			for _, result := range resp.Results {
				rows = append(rows, []string{result.IMDbID, result.Title, result.Year, result.Type})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"IMDb ID", "Title", "Year", "Type"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%d total matches\n", resp.TotalResults)
			return nil
		},
	}
}

func printLookupRecord(out io.Writer, data omdb.TitleData) error {
	rec, err := title.FromData(data)
	if err != nil {
		return fmt.Errorf("shape OMDb payload: %w", err)
	}
	printRecord(out, rec)
	return nil
}
