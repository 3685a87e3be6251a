package dataset

import (
	"emissionsdash/internal/models"
)

// Table is the immutable in-memory emission table. It is built once and shared by
// reference; no method mutates it and row accessors hand out copies.
type Table struct {
	rows   []models.EmissionRecord
	source string
}

func newTable(rows []models.EmissionRecord) *Table {
	return &Table{rows: rows}
}

// NewTable builds a table from a copy of rows
func NewTable(rows []models.EmissionRecord) *Table {
	cp := make([]models.EmissionRecord, len(rows))
	copy(cp, rows)
	return newTable(cp)
}

// Source returns the path the table was loaded from, if any
func (t *Table) Source() string {
	return t.source
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns a copy of row i
func (t *Table) Row(i int) models.EmissionRecord {
	return t.rows[i]
}

// Each calls fn for every row in table order until fn returns false
func (t *Table) Each(fn func(i int, r models.EmissionRecord) bool) {
	for i, r := range t.rows {
		if !fn(i, r) {
			return
		}
	}
}

// Filter returns copies of the rows matching pred, in table order
func (t *Table) Filter(pred Predicate) []models.EmissionRecord {
	var out []models.EmissionRecord
	for _, r := range t.rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// Count returns the number of rows matching pred
func (t *Table) Count(pred Predicate) int {
	n := 0
	for _, r := range t.rows {
		if pred(r) {
			n++
		}
	}
	return n
}

// Rates returns the running emission rates of the rows matching pred
func (t *Table) Rates(pred Predicate) []float64 {
	var out []float64
	for _, r := range t.rows {
		if pred(r) {
			out = append(out, r.RunningEmissions)
		}
	}
	return out
}

// Summary describes a loaded table
type Summary struct {
	Source     string   `json:"source,omitempty"`
	Rows       int      `json:"rows"`
	Models     []string `json:"models"`
	Districts  []string `json:"districts"`
	Pollutants int      `json:"pollutants"`
}

// Summary returns row count plus the distinct model versions and districts in first-occurrence order
func (t *Table) Summary() Summary {
	s := Summary{Source: t.source, Rows: len(t.rows)}
	seenModel := make(map[string]bool)
	seenDistrict := make(map[string]bool)
	seenPollutant := make(map[string]bool)
	for _, r := range t.rows {
		if !seenModel[r.Model] {
			seenModel[r.Model] = true
			s.Models = append(s.Models, r.Model)
		}
		if !seenDistrict[r.District] {
			seenDistrict[r.District] = true
			s.Districts = append(s.Districts, r.District)
		}
		seenPollutant[r.Pollutant] = true
	}
	s.Pollutants = len(seenPollutant)
	return s
}
