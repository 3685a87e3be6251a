// Package datasettest provides a small emission table shared by package tests.
//
// The sample covers two model versions, two road descriptions, three source/fuel
// combinations, two years and two pollutants:
//   - Passenger Car offers Gasoline then Diesel; Combination Long-haul Truck offers only Diesel.
//   - The CO maximum (20.0) sits in year 2017, outside the default selection.
//   - NOx appears only for the truck, so the default selection has no NOx rows.
//   - PM10 never appears.
package datasettest

import (
	_ "embed"
	"strings"
	"testing"

	"emissionsdash/internal/dataset"
)

//go:embed sample.csv
var SampleCSV string

const (
	// SampleRows is the number of data rows in SampleCSV
	SampleRows = 18
	// SampleCOMax is the largest CO running emission rate in SampleCSV
	SampleCOMax = 20.0
	// SampleNOxMax is the largest NOx running emission rate in SampleCSV
	SampleNOxMax = 8.0
)

// MustTable parses SampleCSV, failing the test on error
func MustTable(tb testing.TB) *dataset.Table {
	tb.Helper()
	table, err := dataset.Parse(strings.NewReader(SampleCSV), ',')
	if err != nil {
		tb.Fatalf("failed to parse sample dataset: %v", err)
	}
	return table
}
