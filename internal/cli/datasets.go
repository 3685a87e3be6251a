package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"emissionsdash/internal/storage"
)

func newDatasetsCmd(root *rootOptions) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "datasets [location]",
		Short: "List emission tables in a directory or bucket prefix",
		Example: `  erltctl datasets data/
  erltctl datasets gs://erlt-data/el-paso/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := "."
			if len(args) == 1 {
				location = args[0]
			}

			client, prefix, err := storage.OpenDir(cmd.Context(), location, root.cfg.HTTPTimeout)
			if err != nil {
				return err
			}
			defer client.Close()

			files, err := client.ListDir(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			for _, f := range files {
				if all || storage.IsDataFile(f) {
					fmt.Fprintln(cmd.OutOrStdout(), f)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "list every file, not only csv/tsv/txt tables")
	return cmd
}
