package dataset

import (
	"bytes"
	"context"
	"fmt"

	"emissionsdash/internal/logger"
	"emissionsdash/internal/storage"
)

// Load reads the emission table at path through client and parses it.
// Every failure is reported as ErrDataUnavailable.
func Load(ctx context.Context, client storage.Client, path string, delimiter rune) (*Table, error) {
	log := logger.GetGlobalLogger().WithComponent("dataset")
	log.Info("Loading emission table", map[string]interface{}{"path": path})

	data, err := client.GetFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	table, err := Parse(bytes.NewReader(data), delimiter)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	table.source = path

	summary := table.Summary()
	log.Info("Emission table loaded", map[string]interface{}{
		"path":       path,
		"rows":       summary.Rows,
		"models":     summary.Models,
		"districts":  summary.Districts,
		"pollutants": summary.Pollutants,
	})
	return table, nil
}
