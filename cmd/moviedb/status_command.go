package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"moviedb/internal/catalog"
)

func newStatusCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report catalog database health and row counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(func(store *catalog.Store) error {
				ctx := cmd.Context()
				out := cmd.OutOrStdout()

				health, err := store.CheckHealth(ctx)
				if err != nil {
					return err
				}

				rows := [][]string{
					{"Database", health.DBPath},
					{"Exists", yesNo(health.DatabaseExists)},
					{"Readable", yesNo(health.DatabaseReadable)},
					{"Integrity check", yesNo(health.IntegrityCheck)},
					{"Titles", strconv.Itoa(health.TitleCount)},
				}
				if len(health.MissingTables) > 0 {
					rows = append(rows, []string{"Missing tables", strings.Join(health.MissingTables, ", ")})
				}
				if health.Error != "" {
					rows = append(rows, []string{"Error", health.Error})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Check", "Value"},
					rows,
					[]columnAlignment{alignLeft, alignLeft},
				))

				stats, err := store.Stats(ctx)
				if err != nil {
					return err
				}
				statRows := [][]string{
					{"titles", strconv.Itoa(stats["titles"])},
					{"people", strconv.Itoa(stats["people"])},
					{"genres", strconv.Itoa(stats["genres"])},
					{"countries", strconv.Itoa(stats["countries"])},
					{"credits", strconv.Itoa(stats["title_roles"])},
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Table", "Rows"},
					statRows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
