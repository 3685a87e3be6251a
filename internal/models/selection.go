package models

import (
	"fmt"
	"strings"
)

// Selection is the current value of the four user controls
type Selection struct {
	SourceType string `json:"source_type"`
	FuelType   string `json:"fuel_type"`
	Pollutant  string `json:"pollutant"`
	Year       int    `json:"year"`
}

// DefaultSelection is the initial selection when no configuration overrides it
func DefaultSelection() Selection {
	return Selection{
		SourceType: "Passenger Car",
		FuelType:   "Gasoline",
		Pollutant:  "CO",
		Year:       2020,
	}
}

// Validate checks that every control carries a value
func (s Selection) Validate() error {
	var missing []string
	if s.SourceType == "" {
		missing = append(missing, "source_type")
	}
	if s.FuelType == "" {
		missing = append(missing, "fuel_type")
	}
	if s.Pollutant == "" {
		missing = append(missing, "pollutant")
	}
	if s.Year <= 0 {
		missing = append(missing, "year")
	}
	if len(missing) > 0 {
		return fmt.Errorf("selection is missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// String renders the selection for logs and file names
func (s Selection) String() string {
	return fmt.Sprintf("%s/%s/%s/%d", s.SourceType, s.FuelType, s.Pollutant, s.Year)
}

// Option is a label/value pair offered by a selector
type Option struct {
	Label string      `json:"label"`
	Value interface{} `json:"value"`
}

// SpeedMark is a labelled tick on the speed axis
type SpeedMark struct {
	Value float64 `json:"value" yaml:"value"`
	Label string  `json:"label" yaml:"label"`
}
