package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"emissionsdash/internal/options"
)

// optionsReport is the catalog plus the fuel options offered for each source type
type optionsReport struct {
	options.Catalog `yaml:",inline"`
	FuelOptions     map[string][]string `json:"fuel_options_by_source_type" yaml:"fuel_options_by_source_type"`
}

func newOptionsCmd(root *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Print the option catalogs derived from the emission table",
		Example: `  erltctl options
  erltctl options --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := root.loadTable(cmd.Context())
			if err != nil {
				return err
			}

			catalog, err := options.NewCatalog(table)
			if err != nil {
				return err
			}
			report := optionsReport{Catalog: *catalog, FuelOptions: make(map[string][]string, len(catalog.SourceTypes))}
			for _, src := range catalog.SourceTypes {
				fuels, err := options.FuelOptionsFor(table, src)
				if err != nil {
					return err
				}
				report.FuelOptions[src] = fuels
			}

			var out []byte
			switch format {
			case "yaml":
				out, err = yaml.Marshal(report)
			case "json":
				out, err = json.MarshalIndent(report, "", "  ")
				out = append(out, '\n')
			default:
				return fmt.Errorf("unsupported format %q (want yaml or json)", format)
			}
			if err != nil {
				return fmt.Errorf("failed to encode options: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	return cmd
}
