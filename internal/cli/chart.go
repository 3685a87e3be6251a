package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"emissionsdash/internal/charts"
	"emissionsdash/internal/metrics"
	"emissionsdash/internal/models"
	"emissionsdash/internal/options"
)

func newChartCmd(root *rootOptions) *cobra.Command {
	var (
		sel    = models.DefaultSelection()
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Build the comparison chart for one selection and export it",
		Long: `Builds the MOVES 2014b vs. MOVES 3 comparison chart for a source type, fuel type,
pollutant and year. Without --fuel-type the first fuel offered for the source type is used,
as the dashboard does when the source type changes.`,
		Example: `  erltctl chart --pollutant NOx --year 2020 --output nox.png
  erltctl chart --format json | jq '.row_count'`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := root.loadTable(cmd.Context())
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("fuel-type") {
				res, err := options.Resolve(table, sel.SourceType)
				if err != nil {
					return err
				}
				sel.FuelType = res.FuelType
			}
			if err := sel.Validate(); err != nil {
				return err
			}

			spec, err := metrics.InstrumentChart(charts.NewBuilder(table).Build)(sel)
			if err != nil {
				return err
			}
			if spec.Empty() {
				cmd.PrintErrf("No rows match %s\n", sel.String())
			}

			var buf bytes.Buffer
			switch format {
			case "png":
				err = charts.RenderPNG(spec, &buf)
			case "html":
				err = charts.RenderFacetPage(spec, &buf, charts.PageOptions{
					Title:      fmt.Sprintf("%s: %s", root.cfg.DashboardTitle, sel.String()),
					AssetsHost: root.cfg.EChartsAssetsHost,
				})
			case "json":
				enc := json.NewEncoder(&buf)
				enc.SetIndent("", "  ")
				err = enc.Encode(spec)
			default:
				return fmt.Errorf("unsupported format %q (want png, html or json)", format)
			}
			if err != nil {
				return fmt.Errorf("failed to render chart: %w", err)
			}
			return root.writeOutput(cmd, output, buf.Bytes())
		},
	}

	cmd.Flags().StringVar(&sel.SourceType, "source-type", sel.SourceType, "source use type")
	cmd.Flags().StringVar(&sel.FuelType, "fuel-type", sel.FuelType, "fuel type (default: first fuel offered for the source type)")
	cmd.Flags().StringVar(&sel.Pollutant, "pollutant", sel.Pollutant, "pollutant")
	cmd.Flags().IntVar(&sel.Year, "year", sel.Year, "analysis year")
	cmd.Flags().StringVar(&format, "format", "png", "output format: png, html or json")
	cmd.Flags().StringVarP(&output, "output", "o", "-", `destination: "-" for stdout, a local path or gs://bucket/object`)
	return cmd
}
