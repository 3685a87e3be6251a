package dataset_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"emissionsdash/internal/dataset"
	"emissionsdash/internal/dataset/datasettest"
	"emissionsdash/internal/models"
	"emissionsdash/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "moves,District,year_id,month,day,hour_id,road_desc,source_type_name,fuel_type_desc,pollutant_short_name,avg_bin_speed,avg_speed_bin_desc,per_diff,rate_per_distance\n"

func TestParseSample(t *testing.T) {
	table := datasettest.MustTable(t)

	assert.Equal(t, datasettest.SampleRows, table.Len())

	first := table.Row(0)
	assert.Equal(t, "MOVES 2014b", first.Model)
	assert.Equal(t, "El Paso", first.District)
	assert.Equal(t, 2020, first.Year)
	assert.Equal(t, "Urban Unrestricted Access", first.RoadDescription)
	assert.Equal(t, 2.5, first.AverageSpeed)
	assert.True(t, math.IsNaN(first.PercentChange), "empty per_diff should be NaN")
	assert.Equal(t, 12.0, first.RunningEmissions)

	// year written as float text by dataframe exports
	assert.Equal(t, 2020, table.Row(3).Year)
	assert.Equal(t, -16.67, table.Row(3).PercentChange)
}

func TestParseDropsUnmappedColumns(t *testing.T) {
	input := "extra," + header + "x,MOVES 3,El Paso,2020,7,5,8,Urban,Passenger Car,Gasoline,CO,10,bin,,1.5\n"

	table, err := dataset.Parse(strings.NewReader(input), ',')
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "MOVES 3", table.Row(0).Model)
	assert.Equal(t, 1.5, table.Row(0).RunningEmissions)
}

func TestParseCustomDelimiter(t *testing.T) {
	input := strings.ReplaceAll(header, ",", "\t") +
		"MOVES 3\tEl Paso\t2020\t7\t5\t8\tUrban\tPassenger Car\tGasoline\tCO\t10\tbin\t\t1.5\n"

	table, err := dataset.Parse(strings.NewReader(input), '\t')
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestParseTabDelimitedKeepsEmptyFields(t *testing.T) {
	input := strings.ReplaceAll(header, ",", "\t") +
		"MOVES 3\tEl Paso\t2020\t7\t5\t8\t Urban\tPassenger Car\tGasoline\tCO\t10\tbin\t\t1.5\n" +
		"MOVES 3\tEl Paso\t2020\t7\t5\t8\tUrban\tPassenger Car\tGasoline\tCO\t20\tbin\t-3.1\t2.5\n"

	table, err := dataset.Parse(strings.NewReader(input), '\t')
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	assert.Equal(t, "Urban", table.Row(0).RoadDescription)
	assert.True(t, math.IsNaN(table.Row(0).PercentChange))
	assert.Equal(t, 1.5, table.Row(0).RunningEmissions)
	assert.Equal(t, -3.1, table.Row(1).PercentChange)
}

func TestParseHeaderWithBOM(t *testing.T) {
	input := "\ufeff" + header + "MOVES 3,El Paso,2020,7,5,8,Urban,Passenger Car,Gasoline,CO,10,bin,,1.5\n"

	table, err := dataset.Parse(strings.NewReader(input), ',')
	require.NoError(t, err)
	assert.Equal(t, "MOVES 3", table.Row(0).Model)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty file", input: "", want: "empty"},
		{name: "header only", input: header, want: "no data rows"},
		{
			name:  "missing column",
			input: strings.Replace(header, "rate_per_distance", "rate", 1) + "MOVES 3,El Paso,2020,7,5,8,Urban,Passenger Car,Gasoline,CO,10,bin,,1.5\n",
			want:  "rate_per_distance",
		},
		{
			name:  "bad year",
			input: header + "MOVES 3,El Paso,20x0,7,5,8,Urban,Passenger Car,Gasoline,CO,10,bin,,1.5\n",
			want:  "year_id",
		},
		{
			name:  "fractional year",
			input: header + "MOVES 3,El Paso,2020.5,7,5,8,Urban,Passenger Car,Gasoline,CO,10,bin,,1.5\n",
			want:  "year_id",
		},
		{
			name:  "missing rate",
			input: header + "MOVES 3,El Paso,2020,7,5,8,Urban,Passenger Car,Gasoline,CO,10,bin,,\n",
			want:  "rate_per_distance",
		},
		{
			name:  "NaN rate",
			input: header + "MOVES 3,El Paso,2020,7,5,8,Urban,Passenger Car,Gasoline,CO,10,bin,,NaN\n",
			want:  "rate_per_distance",
		},
		{
			name:  "infinite speed",
			input: header + "MOVES 3,El Paso,2020,7,5,8,Urban,Passenger Car,Gasoline,CO,+Inf,bin,,1.5\n",
			want:  "avg_bin_speed",
		},
		{
			name:  "infinite per_diff",
			input: header + "MOVES 3,El Paso,2020,7,5,8,Urban,Passenger Car,Gasoline,CO,10,bin,Inf,1.5\n",
			want:  "non-finite",
		},
		{
			name:  "ragged row",
			input: header + "MOVES 3,El Paso,2020\n",
			want:  "wrong number of fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dataset.Parse(strings.NewReader(tt.input), ',')
			require.Error(t, err)
			assert.True(t, errors.Is(err, dataset.ErrDataUnavailable), "expected ErrDataUnavailable, got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rates.csv"), []byte(datasettest.SampleCSV), 0644))

	client, err := storage.NewLocalStorageClient(dir)
	require.NoError(t, err)

	table, err := dataset.Load(context.Background(), client, "rates.csv", ',')
	require.NoError(t, err)
	assert.Equal(t, datasettest.SampleRows, table.Len())
	assert.Equal(t, "rates.csv", table.Source())
}

func TestLoadMissingFile(t *testing.T) {
	client, err := storage.NewLocalStorageClient(t.TempDir())
	require.NoError(t, err)

	_, err = dataset.Load(context.Background(), client, "missing.csv", ',')
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrDataUnavailable)
}

func TestFilterAndCount(t *testing.T) {
	table := datasettest.MustTable(t)
	sel := models.DefaultSelection()

	rows := table.Filter(dataset.BySelection(sel))
	assert.Len(t, rows, 12)
	assert.Equal(t, 12, table.Count(dataset.BySelection(sel)))

	for _, r := range rows {
		assert.Equal(t, sel.SourceType, r.SourceType)
		assert.Equal(t, sel.FuelType, r.FuelType)
		assert.Equal(t, sel.Pollutant, r.Pollutant)
		assert.Equal(t, sel.Year, r.Year)
	}

	assert.Equal(t, datasettest.SampleRows, table.Count(dataset.All))
	assert.Equal(t, datasettest.SampleRows, table.Count(dataset.And()))
	assert.Equal(t, 10, table.Count(dataset.And(dataset.ByModel("MOVES 3"), dataset.ByPollutant("CO"))))
}

func TestFilterReturnsCopies(t *testing.T) {
	table := datasettest.MustTable(t)

	rows := table.Filter(dataset.ByYear(2017))
	require.Len(t, rows, 1)
	rows[0].RunningEmissions = -1

	again := table.Filter(dataset.ByYear(2017))
	assert.Equal(t, datasettest.SampleCOMax, again[0].RunningEmissions)
}

func TestNewTableCopiesInput(t *testing.T) {
	input := []models.EmissionRecord{{Model: "MOVES 3", RunningEmissions: 1}}
	table := dataset.NewTable(input)
	input[0].RunningEmissions = 99

	assert.Equal(t, 1.0, table.Row(0).RunningEmissions)
}

func TestRates(t *testing.T) {
	table := datasettest.MustTable(t)

	assert.Equal(t, []float64{datasettest.SampleNOxMax}, table.Rates(dataset.ByPollutant("NOx")))
	assert.Empty(t, table.Rates(dataset.ByPollutant("PM10")))
}

func TestEachStopsEarly(t *testing.T) {
	table := datasettest.MustTable(t)

	visited := 0
	table.Each(func(i int, r models.EmissionRecord) bool {
		visited++
		return i < 2
	})
	assert.Equal(t, 3, visited)
}

func TestSummary(t *testing.T) {
	summary := datasettest.MustTable(t).Summary()

	assert.Equal(t, datasettest.SampleRows, summary.Rows)
	assert.Equal(t, []string{"MOVES 2014b", "MOVES 3"}, summary.Models)
	assert.Equal(t, []string{"El Paso"}, summary.Districts)
	assert.Equal(t, 2, summary.Pollutants)
}
