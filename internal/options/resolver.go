package options

import (
	"errors"
	"fmt"

	"emissionsdash/internal/dataset"
	"emissionsdash/internal/models"
)

var (
	// ErrUnknownSourceType means no row carries the requested source type
	ErrUnknownSourceType = errors.New("unknown source type")
	// ErrNoFuelOptions means a default fuel was requested from an empty option list
	ErrNoFuelOptions = errors.New("no fuel options")
)

// FuelOptionsFor returns the fuel types that co-occur with sourceType, ordered by the first
// occurrence of each (fuel, source) pair. An unknown source type yields an empty slice and
// ErrUnknownSourceType.
func FuelOptionsFor(table *dataset.Table, sourceType string) ([]string, error) {
	type pair struct{ fuel, source string }
	seen := make(map[pair]bool)
	fuels := []string{}

	table.Each(func(_ int, r models.EmissionRecord) bool {
		p := pair{r.FuelType, r.SourceType}
		if seen[p] {
			return true
		}
		seen[p] = true
		if p.source == sourceType {
			fuels = append(fuels, p.fuel)
		}
		return true
	})

	if len(fuels) == 0 {
		return fuels, fmt.Errorf("%w: %q", ErrUnknownSourceType, sourceType)
	}
	return fuels, nil
}

// DefaultFuelValue returns the first fuel option
func DefaultFuelValue(fuelOptions []string) (string, error) {
	if len(fuelOptions) == 0 {
		return "", ErrNoFuelOptions
	}
	return fuelOptions[0], nil
}

// Resolution is the outcome of selecting a source type: its fuel options and the fuel to select
type Resolution struct {
	FuelOptions []string `json:"fuel_options"`
	FuelType    string   `json:"fuel_type"`
}

// Resolve computes the fuel options for sourceType and the default fuel among them.
// On error the returned Resolution is still usable: empty options and an empty fuel.
func Resolve(table *dataset.Table, sourceType string) (Resolution, error) {
	fuels, err := FuelOptionsFor(table, sourceType)
	if err != nil {
		return Resolution{FuelOptions: fuels}, err
	}
	fuel, err := DefaultFuelValue(fuels)
	return Resolution{FuelOptions: fuels, FuelType: fuel}, err
}
