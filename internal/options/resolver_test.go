package options

import (
	"testing"

	"emissionsdash/internal/dataset"
	"emissionsdash/internal/dataset/datasettest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuelOptionsFor(t *testing.T) {
	table := datasettest.MustTable(t)

	fuels, err := FuelOptionsFor(table, "Passenger Car")
	require.NoError(t, err)
	assert.Equal(t, []string{"Gasoline", "Diesel"}, fuels)

	fuels, err = FuelOptionsFor(table, "Combination Long-haul Truck")
	require.NoError(t, err)
	assert.Equal(t, []string{"Diesel"}, fuels)
}

func TestFuelOptionsForUnknownSourceType(t *testing.T) {
	fuels, err := FuelOptionsFor(datasettest.MustTable(t), "Motorcycle")
	require.ErrorIs(t, err, ErrUnknownSourceType)
	assert.NotNil(t, fuels)
	assert.Empty(t, fuels)
}

func TestFuelOptionsCoOccur(t *testing.T) {
	table := datasettest.MustTable(t)
	sources, err := DistinctValues(table, "Source Type")
	require.NoError(t, err)

	for _, s := range sources {
		fuels, err := FuelOptionsFor(table, s)
		require.NoError(t, err, s)
		require.NotEmpty(t, fuels, s)

		for _, f := range fuels {
			n := table.Count(dataset.And(dataset.BySourceType(s), dataset.ByFuelType(f)))
			assert.Positive(t, n, "%s/%s should co-occur", s, f)
		}

		def, err := DefaultFuelValue(fuels)
		require.NoError(t, err)
		assert.Contains(t, fuels, def)
	}
}

func TestDefaultFuelValue(t *testing.T) {
	v, err := DefaultFuelValue([]string{"Diesel", "Gasoline"})
	require.NoError(t, err)
	assert.Equal(t, "Diesel", v)

	_, err = DefaultFuelValue(nil)
	assert.ErrorIs(t, err, ErrNoFuelOptions)

	_, err = DefaultFuelValue([]string{})
	assert.ErrorIs(t, err, ErrNoFuelOptions)
}

func TestResolve(t *testing.T) {
	table := datasettest.MustTable(t)

	r, err := Resolve(table, "Combination Long-haul Truck")
	require.NoError(t, err)
	assert.Equal(t, Resolution{FuelOptions: []string{"Diesel"}, FuelType: "Diesel"}, r)

	r, err = Resolve(table, "Motorcycle")
	assert.ErrorIs(t, err, ErrUnknownSourceType)
	assert.Empty(t, r.FuelOptions)
	assert.Empty(t, r.FuelType)
}
