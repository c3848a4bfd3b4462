package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"moviedb/internal/catalog"
	"moviedb/internal/export"
)

func newExportCommand(cctx *commandContext) *cobra.Command {
	var formatFlag string
	var dirFlag string

	cmd := &cobra.Command{
		Use:   "export <imdbID|title>",
		Short: "Export a catalog entry to a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := dirFlag
			if dir == "" {
				dir = cfg.Paths.ExportDir
			}
			return cctx.withStore(func(store *catalog.Store) error {
				rec, err := resolveRecord(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				path, err := export.ToFile(dir, rec, format)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", rec.IMDbID, path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "json", "Export format: json or yaml")
	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Target directory (defaults to paths.export_dir)")
	return cmd
}
