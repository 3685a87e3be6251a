package options

import (
	"testing"

	"emissionsdash/internal/dataset"
	"emissionsdash/internal/dataset/datasettest"
	"emissionsdash/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistinctValuesFirstOccurrence(t *testing.T) {
	table := datasettest.MustTable(t)

	tests := []struct {
		column models.Column
		want   []string
	}{
		{models.ColumnPollutant, []string{"CO", "NOx"}},
		{models.ColumnSourceType, []string{"Passenger Car", "Combination Long-haul Truck"}},
		{models.ColumnFuelType, []string{"Gasoline", "Diesel"}},
		{models.ColumnRoadDescription, []string{"Urban Unrestricted Access", "Rural Restricted Access"}},
		{models.ColumnModel, []string{"MOVES 2014b", "MOVES 3"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.column), func(t *testing.T) {
			got, err := DistinctValues(table, tt.column)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDistinctValuesRejectsNumericColumn(t *testing.T) {
	_, err := DistinctValues(datasettest.MustTable(t), models.ColumnYear)
	assert.Error(t, err)
}

func TestDistinctValuesReproducible(t *testing.T) {
	table := datasettest.MustTable(t)
	a, _ := DistinctValues(table, models.ColumnSourceType)
	b, _ := DistinctValues(table, models.ColumnSourceType)
	assert.Equal(t, a, b)
}

func TestDistinctYears(t *testing.T) {
	assert.Equal(t, []int{2020, 2017}, DistinctYears(datasettest.MustTable(t)))
}

func TestSpeedTicks(t *testing.T) {
	marks := SpeedTicks(datasettest.MustTable(t))

	assert.Equal(t, []models.SpeedMark{
		{Value: 10, Label: "10"},
		{Value: 25, Label: "25"},
		{Value: 45, Label: "45"},
		{Value: 2.5, Label: "2.5"},
	}, marks)
}

func TestSpeedTicksEmptyOfMultiples(t *testing.T) {
	table := dataset.NewTable([]models.EmissionRecord{{AverageSpeed: 7.5}, {AverageSpeed: 2.5}})
	assert.Equal(t, []models.SpeedMark{{Value: 2.5, Label: "2.5"}}, SpeedTicks(table))
}

func TestSpeedTickMap(t *testing.T) {
	m := SpeedTickMap(datasettest.MustTable(t))
	assert.Len(t, m, 4)
	assert.Equal(t, "2.5", m[2.5])
	assert.Equal(t, "45", m[45])
	_, ok := m[7.5]
	assert.False(t, ok)
}

func TestSpeedLabel(t *testing.T) {
	tests := map[float64]string{
		0:    "0",
		5:    "5",
		80:   "80",
		2.5:  "2.5",
		67.5: "67.5",
		0.25: "0.25",
	}
	for v, want := range tests {
		assert.Equal(t, want, SpeedLabel(v))
	}
}

func TestSpeedRange(t *testing.T) {
	lo, hi := SpeedRange(datasettest.MustTable(t))
	assert.Equal(t, 2.5, lo)
	assert.Equal(t, 45.0, hi)

	lo, hi = SpeedRange(dataset.NewTable(nil))
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}

func TestNewCatalog(t *testing.T) {
	c, err := NewCatalog(datasettest.MustTable(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"CO", "NOx"}, c.Pollutants)
	assert.Equal(t, []int{2020, 2017}, c.Years)
	assert.Len(t, c.SpeedMarks, 4)
	assert.True(t, c.HasPollutant("NOx"))
	assert.False(t, c.HasPollutant("PM10"))
	assert.True(t, c.HasSourceType("Passenger Car"))
	assert.True(t, c.HasYear(2017))
	assert.False(t, c.HasYear(1999))
}

func TestOptionConversions(t *testing.T) {
	assert.Equal(t, []models.Option{{Label: "CO", Value: "CO"}}, StringOptions([]string{"CO"}))
	assert.Equal(t, []models.Option{{Label: "2020", Value: 2020}}, YearOptions([]int{2020}))
	assert.Empty(t, StringOptions(nil))
}
