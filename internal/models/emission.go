package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// Column is a display column name of the emission dataset
type Column string

// Display schema columns, in display order
const (
	ColumnModel            Column = "MOVES"
	ColumnDistrict         Column = "District"
	ColumnYear             Column = "Year"
	ColumnMonth            Column = "Month"
	ColumnDay              Column = "Day"
	ColumnHour             Column = "Hour"
	ColumnRoadDescription  Column = "Road Description"
	ColumnSourceType       Column = "Source Type"
	ColumnFuelType         Column = "Fuel Type"
	ColumnPollutant        Column = "Pollutant"
	ColumnAverageSpeed     Column = "Average Speed (mph)"
	ColumnSpeedBin         Column = "Average Speed Bin Description"
	ColumnPercentChange    Column = "Percent Change in MOVES 3 Emissions"
	ColumnRunningEmissions Column = "Running Emission Rate (grams/mile)"
)

// ColumnMapping pairs a raw dataset column with its display name
type ColumnMapping struct {
	Source  string
	Display Column
}

// RenameMap is the ordered source-to-display mapping. Columns not listed here are dropped on load.
var RenameMap = []ColumnMapping{
	{Source: "moves", Display: ColumnModel},
	{Source: "District", Display: ColumnDistrict},
	{Source: "year_id", Display: ColumnYear},
	{Source: "month", Display: ColumnMonth},
	{Source: "day", Display: ColumnDay},
	{Source: "hour_id", Display: ColumnHour},
	{Source: "road_desc", Display: ColumnRoadDescription},
	{Source: "source_type_name", Display: ColumnSourceType},
	{Source: "fuel_type_desc", Display: ColumnFuelType},
	{Source: "pollutant_short_name", Display: ColumnPollutant},
	{Source: "avg_bin_speed", Display: ColumnAverageSpeed},
	{Source: "avg_speed_bin_desc", Display: ColumnSpeedBin},
	{Source: "per_diff", Display: ColumnPercentChange},
	{Source: "rate_per_distance", Display: ColumnRunningEmissions},
}

// DisplayColumns returns the display schema in order
func DisplayColumns() []Column {
	cols := make([]Column, len(RenameMap))
	for i, m := range RenameMap {
		cols[i] = m.Display
	}
	return cols
}

// EmissionRecord is one row of the comparison dataset: a running emission rate for a
// (model version, district, time, road, vehicle, fuel, pollutant, speed bin) combination
type EmissionRecord struct {
	Model               string  `json:"MOVES"`                               // e.g. "MOVES 2014b", "MOVES 3"
	District            string  `json:"District"`                            // e.g. "El Paso"
	Year                int     `json:"Year"`                                // analysis year
	Month               int     `json:"Month"`                               // 1-12
	Day                 int     `json:"Day"`                                 // day type code
	Hour                int     `json:"Hour"`                                // 1-24
	RoadDescription     string  `json:"Road Description"`                    // road type, also the facet key
	SourceType          string  `json:"Source Type"`                         // vehicle category
	FuelType            string  `json:"Fuel Type"`                           // fuel category
	Pollutant           string  `json:"Pollutant"`                           // pollutant short name
	AverageSpeed        float64 `json:"Average Speed (mph)"`                 // speed bin center
	SpeedBinDescription string  `json:"Average Speed Bin Description"`       // human label of the bin
	PercentChange       float64 `json:"Percent Change in MOVES 3 Emissions"` // NaN when absent
	RunningEmissions    float64 `json:"Running Emission Rate (grams/mile)"`  // grams per mile
}

// MarshalJSON encodes a missing percent change as null
func (r EmissionRecord) MarshalJSON() ([]byte, error) {
	type plain EmissionRecord
	aux := struct {
		plain
		PercentChange *float64 `json:"Percent Change in MOVES 3 Emissions"`
	}{plain: plain(r)}
	if !math.IsNaN(r.PercentChange) {
		v := r.PercentChange
		aux.PercentChange = &v
	}
	return json.Marshal(aux)
}

// Text returns the value of a categorical column
func (r EmissionRecord) Text(col Column) (string, bool) {
	switch col {
	case ColumnModel:
		return r.Model, true
	case ColumnDistrict:
		return r.District, true
	case ColumnRoadDescription:
		return r.RoadDescription, true
	case ColumnSourceType:
		return r.SourceType, true
	case ColumnFuelType:
		return r.FuelType, true
	case ColumnPollutant:
		return r.Pollutant, true
	case ColumnSpeedBin:
		return r.SpeedBinDescription, true
	default:
		return "", false
	}
}

// Field is a named, formatted value
type Field struct {
	Name  Column `json:"name"`
	Value string `json:"value"`
}

// DisplayValues returns every display column of the record, formatted, in schema order
func (r EmissionRecord) DisplayValues() []Field {
	return []Field{
		{ColumnModel, r.Model},
		{ColumnDistrict, r.District},
		{ColumnYear, strconv.Itoa(r.Year)},
		{ColumnMonth, strconv.Itoa(r.Month)},
		{ColumnDay, strconv.Itoa(r.Day)},
		{ColumnHour, strconv.Itoa(r.Hour)},
		{ColumnRoadDescription, r.RoadDescription},
		{ColumnSourceType, r.SourceType},
		{ColumnFuelType, r.FuelType},
		{ColumnPollutant, r.Pollutant},
		{ColumnAverageSpeed, FormatNumber(r.AverageSpeed)},
		{ColumnSpeedBin, r.SpeedBinDescription},
		{ColumnPercentChange, FormatNumber(r.PercentChange)},
		{ColumnRunningEmissions, FormatNumber(r.RunningEmissions)},
	}
}

// FormatNumber renders v in its shortest decimal form; NaN renders empty
func FormatNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
