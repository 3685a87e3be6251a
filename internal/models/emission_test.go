package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() EmissionRecord {
	return EmissionRecord{
		Model:               "MOVES 3",
		District:            "El Paso",
		Year:                2020,
		Month:               7,
		Day:                 5,
		Hour:                8,
		RoadDescription:     "Urban Unrestricted Access",
		SourceType:          "Passenger Car",
		FuelType:            "Gasoline",
		Pollutant:           "CO",
		AverageSpeed:        2.5,
		SpeedBinDescription: "speed < 2.5mph",
		PercentChange:       -12.5,
		RunningEmissions:    3.25,
	}
}

func TestDisplayColumnsOrder(t *testing.T) {
	cols := DisplayColumns()
	require.Len(t, cols, 14)
	assert.Equal(t, ColumnModel, cols[0])
	assert.Equal(t, ColumnRoadDescription, cols[6])
	assert.Equal(t, ColumnRunningEmissions, cols[13])
}

func TestDisplayValuesFollowSchema(t *testing.T) {
	fields := sampleRecord().DisplayValues()
	cols := DisplayColumns()
	require.Len(t, fields, len(cols))
	for i, f := range fields {
		assert.Equal(t, cols[i], f.Name)
	}
	assert.Equal(t, "2020", fields[2].Value)
	assert.Equal(t, "2.5", fields[10].Value)
	assert.Equal(t, "-12.5", fields[12].Value)
}

func TestDisplayValuesMissingPercentChange(t *testing.T) {
	r := sampleRecord()
	r.PercentChange = math.NaN()
	assert.Equal(t, "", r.DisplayValues()[12].Value)
}

func TestText(t *testing.T) {
	r := sampleRecord()
	v, ok := r.Text(ColumnFuelType)
	assert.True(t, ok)
	assert.Equal(t, "Gasoline", v)

	_, ok = r.Text(ColumnYear)
	assert.False(t, ok, "numeric columns are not categorical")
}

func TestMarshalJSON(t *testing.T) {
	r := sampleRecord()
	r.PercentChange = math.NaN()

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded["Percent Change in MOVES 3 Emissions"])
	assert.Equal(t, "MOVES 3", decoded["MOVES"])
	assert.Equal(t, 3.25, decoded["Running Emission Rate (grams/mile)"])
}

func TestSelectionValidate(t *testing.T) {
	assert.NoError(t, DefaultSelection().Validate())

	err := Selection{Pollutant: "CO"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source_type, fuel_type, year")
}

func TestSelectionString(t *testing.T) {
	assert.Equal(t, "Passenger Car/Gasoline/CO/2020", DefaultSelection().String())
}
