// Package cli implements erltctl, the operator command line for the emission dashboard data.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"emissionsdash/internal/config"
	"emissionsdash/internal/dataset"
	"emissionsdash/internal/logger"
	"emissionsdash/internal/storage"
)

// rootOptions are the persistent flags shared by every subcommand
type rootOptions struct {
	data      string
	delimiter string
	timeout   time.Duration
	debug     bool

	cfg *config.Config
}

// NewRootCmd creates the root Cobra command for erltctl
func NewRootCmd(ver string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "erltctl",
		Short:         "Inspect and export running emission rate comparisons",
		Long:          "erltctl reads the MOVES running emission table used by the dashboard and prints its option catalogs or exports comparison charts.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.data, "data", "", "emission table location: local path, gs://bucket/object or http(s) URL (default $DATA_PATH)")
	cmd.PersistentFlags().StringVar(&opts.delimiter, "delimiter", "", "field separator of the emission table (default $DATA_DELIMITER)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "timeout for remote storage (default $HTTP_TIMEOUT)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newOptionsCmd(opts), newChartCmd(opts), newDatasetsCmd(opts))
	return cmd
}

const rootCmdExample = `  # Print the option catalogs of the configured table
  erltctl options

  # Export the default comparison as PNG
  erltctl chart --output erlt_co.png

  # Export a truck NOx chart for 2020 as a standalone HTML page into a bucket
  erltctl chart --source-type "Combination Long-haul Truck" --pollutant NOx --format html --output gs://erlt-exports/nox.html

  # List emission tables in a directory
  erltctl datasets data/`

// setup merges flags over the environment configuration and points logging at stderr
func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if o.data != "" {
		cfg.DataPath = o.data
	}
	if o.delimiter != "" {
		cfg.DataDelimiter = o.delimiter
	}
	if o.timeout > 0 {
		cfg.HTTPTimeout = o.timeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg

	level := cfg.LogLevel
	if o.debug {
		level = "debug"
	}
	logger.GetGlobalLogger().SetOutput(cmd.ErrOrStderr())
	logger.Configure(level, cfg.LogFormat)
	return nil
}

// loadTable reads the configured emission table
func (o *rootOptions) loadTable(ctx context.Context) (*dataset.Table, error) {
	client, objectPath, err := storage.Open(ctx, o.cfg.DataPath, o.cfg.HTTPTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to open data location: %w", err)
	}
	defer client.Close()

	return dataset.Load(ctx, client, objectPath, o.cfg.Delimiter())
}

// writeOutput sends data to stdout for "-" and to a storage location otherwise
func (o *rootOptions) writeOutput(cmd *cobra.Command, output string, data []byte) error {
	if output == "" || output == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	client, objectPath, err := storage.Open(cmd.Context(), output, o.cfg.HTTPTimeout)
	if err != nil {
		return fmt.Errorf("failed to open output location: %w", err)
	}
	defer client.Close()

	if err := client.StoreFile(cmd.Context(), objectPath, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	cmd.PrintErrf("Wrote %d bytes to %s\n", len(data), output)
	return nil
}
