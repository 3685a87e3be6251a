package dataset

import "emissionsdash/internal/models"

// Predicate selects rows of a Table
type Predicate func(r models.EmissionRecord) bool

// All matches every row
func All(models.EmissionRecord) bool { return true }

// BySourceType matches rows with the given source type
func BySourceType(sourceType string) Predicate {
	return func(r models.EmissionRecord) bool { return r.SourceType == sourceType }
}

// ByFuelType matches rows with the given fuel type
func ByFuelType(fuelType string) Predicate {
	return func(r models.EmissionRecord) bool { return r.FuelType == fuelType }
}

// ByPollutant matches rows with the given pollutant
func ByPollutant(pollutant string) Predicate {
	return func(r models.EmissionRecord) bool { return r.Pollutant == pollutant }
}

// ByYear matches rows for the given analysis year
func ByYear(year int) Predicate {
	return func(r models.EmissionRecord) bool { return r.Year == year }
}

// ByModel matches rows produced by the given model version
func ByModel(model string) Predicate {
	return func(r models.EmissionRecord) bool { return r.Model == model }
}

// And matches rows satisfying every predicate; with no predicates it matches everything
func And(preds ...Predicate) Predicate {
	return func(r models.EmissionRecord) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// BySelection matches rows equal to all four controls of sel
func BySelection(sel models.Selection) Predicate {
	return And(
		BySourceType(sel.SourceType),
		ByFuelType(sel.FuelType),
		ByPollutant(sel.Pollutant),
		ByYear(sel.Year),
	)
}
