package options

import (
	"fmt"
	"math"
	"strconv"

	"emissionsdash/internal/dataset"
	"emissionsdash/internal/models"
)

// DistinctValues returns the unique values of a categorical column in first-occurrence order
func DistinctValues(table *dataset.Table, column models.Column) ([]string, error) {
	if _, ok := (models.EmissionRecord{}).Text(column); !ok {
		return nil, fmt.Errorf("column %q is not categorical", column)
	}

	seen := make(map[string]bool)
	values := []string{}
	table.Each(func(_ int, r models.EmissionRecord) bool {
		v, _ := r.Text(column)
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
		return true
	})
	return values, nil
}

// DistinctYears returns the unique analysis years in first-occurrence order
func DistinctYears(table *dataset.Table) []int {
	seen := make(map[int]bool)
	years := []int{}
	table.Each(func(_ int, r models.EmissionRecord) bool {
		if !seen[r.Year] {
			seen[r.Year] = true
			years = append(years, r.Year)
		}
		return true
	})
	return years
}

// extraSpeedMark is always offered in addition to the multiples of 5
const extraSpeedMark = 2.5

// SpeedTicks returns the distinct speed bins that are multiples of 5, in first-occurrence
// order, followed by a fixed 2.5 mark
func SpeedTicks(table *dataset.Table) []models.SpeedMark {
	seen := make(map[float64]bool)
	marks := []models.SpeedMark{}
	table.Each(func(_ int, r models.EmissionRecord) bool {
		v := r.AverageSpeed
		if math.Mod(v, 5) == 0 && !seen[v] {
			seen[v] = true
			marks = append(marks, models.SpeedMark{Value: v, Label: SpeedLabel(v)})
		}
		return true
	})
	return append(marks, models.SpeedMark{Value: extraSpeedMark, Label: SpeedLabel(extraSpeedMark)})
}

// SpeedTickMap returns the tick marks keyed by speed value
func SpeedTickMap(table *dataset.Table) map[float64]string {
	marks := SpeedTicks(table)
	out := make(map[float64]string, len(marks))
	for _, m := range marks {
		out[m.Value] = m.Label
	}
	return out
}

// SpeedLabel renders whole numbers without a decimal point and other values in their shortest decimal form
func SpeedLabel(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SpeedRange returns the smallest and largest speed bin in the table
func SpeedRange(table *dataset.Table) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	table.Each(func(_ int, r models.EmissionRecord) bool {
		lo = math.Min(lo, r.AverageSpeed)
		hi = math.Max(hi, r.AverageSpeed)
		return true
	})
	if table.Len() == 0 {
		return 0, 0
	}
	return lo, hi
}

// Catalog holds every option list the dashboard offers. It is computed once per table.
type Catalog struct {
	Pollutants  []string           `json:"pollutants" yaml:"pollutants"`
	SourceTypes []string           `json:"source_types" yaml:"source_types"`
	FuelTypes   []string           `json:"fuel_types" yaml:"fuel_types"`
	Years       []int              `json:"years" yaml:"years"`
	Roads       []string           `json:"road_descriptions" yaml:"road_descriptions"`
	Models      []string           `json:"models" yaml:"models"`
	SpeedMarks  []models.SpeedMark `json:"speed_marks" yaml:"speed_marks"`
	SpeedMin    float64            `json:"speed_min" yaml:"speed_min"`
	SpeedMax    float64            `json:"speed_max" yaml:"speed_max"`
}

// NewCatalog derives every option list from table
func NewCatalog(table *dataset.Table) (*Catalog, error) {
	c := &Catalog{
		Years:      DistinctYears(table),
		SpeedMarks: SpeedTicks(table),
	}
	c.SpeedMin, c.SpeedMax = SpeedRange(table)

	lists := []struct {
		column models.Column
		dst    *[]string
	}{
		{models.ColumnPollutant, &c.Pollutants},
		{models.ColumnSourceType, &c.SourceTypes},
		{models.ColumnFuelType, &c.FuelTypes},
		{models.ColumnRoadDescription, &c.Roads},
		{models.ColumnModel, &c.Models},
	}
	for _, l := range lists {
		values, err := DistinctValues(table, l.column)
		if err != nil {
			return nil, err
		}
		*l.dst = values
	}
	return c, nil
}

// StringOptions converts values into label/value pairs with identical label and value
func StringOptions(values []string) []models.Option {
	out := make([]models.Option, len(values))
	for i, v := range values {
		out[i] = models.Option{Label: v, Value: v}
	}
	return out
}

// YearOptions converts years into label/value pairs
func YearOptions(years []int) []models.Option {
	out := make([]models.Option, len(years))
	for i, y := range years {
		out[i] = models.Option{Label: strconv.Itoa(y), Value: y}
	}
	return out
}

// HasPollutant reports whether p is offered
func (c *Catalog) HasPollutant(p string) bool { return contains(c.Pollutants, p) }

// HasSourceType reports whether s is offered
func (c *Catalog) HasSourceType(s string) bool { return contains(c.SourceTypes, s) }

// HasYear reports whether y is offered
func (c *Catalog) HasYear(y int) bool {
	for _, v := range c.Years {
		if v == y {
			return true
		}
	}
	return false
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
