package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"emissionsdash/internal/models"
)

const utf8BOM = "\ufeff"

// Parse reads delimited text with a header row and projects it onto the display schema.
// Columns outside the rename map are dropped; every mapped column is required.
func Parse(r io.Reader, delimiter rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.ReuseRecord = true
	// a whitespace delimiter would fold empty fields into their neighbours
	reader.TrimLeadingSpace = !unicode.IsSpace(delimiter)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: file is empty", ErrDataUnavailable)
		}
		return nil, fmt.Errorf("%w: failed to read header: %v", ErrDataUnavailable, err)
	}

	idx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []models.EmissionRecord
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
		}
		if isBlank(record) {
			continue
		}

		line, _ := reader.FieldPos(0)
		row, err := decodeRecord(record, idx)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrDataUnavailable, line, err)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrDataUnavailable)
	}

	return newTable(rows), nil
}

// indexColumns maps each source column of the rename map to its position in header
func indexColumns(header []string) ([]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}

	idx := make([]int, len(models.RenameMap))
	var missing []string
	for i, m := range models.RenameMap {
		pos, ok := positions[m.Source]
		if !ok {
			missing = append(missing, m.Source)
			continue
		}
		idx[i] = pos
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", ErrDataUnavailable, strings.Join(missing, ", "))
	}
	return idx, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// decodeRecord converts one CSV record using the column positions from indexColumns.
// The order of idx follows models.RenameMap.
func decodeRecord(record []string, idx []int) (models.EmissionRecord, error) {
	field := func(i int) string {
		pos := idx[i]
		if pos >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[pos])
	}

	var (
		row  models.EmissionRecord
		errs []error
	)
	intField := func(i int) int {
		v, err := parseInt(field(i))
		if err != nil {
			errs = append(errs, fmt.Errorf("column %s: %w", models.RenameMap[i].Source, err))
		}
		return v
	}
	floatField := func(i int, optional bool) float64 {
		raw := field(i)
		if raw == "" && optional {
			return math.NaN()
		}
		v, err := strconv.ParseFloat(raw, 64)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("column %s: invalid number %q", models.RenameMap[i].Source, raw))
		case math.IsInf(v, 0), math.IsNaN(v) && !optional:
			errs = append(errs, fmt.Errorf("column %s: non-finite number %q", models.RenameMap[i].Source, raw))
		}
		return v
	}

	row.Model = field(0)
	row.District = field(1)
	row.Year = intField(2)
	row.Month = intField(3)
	row.Day = intField(4)
	row.Hour = intField(5)
	row.RoadDescription = field(6)
	row.SourceType = field(7)
	row.FuelType = field(8)
	row.Pollutant = field(9)
	row.AverageSpeed = floatField(10, false)
	row.SpeedBinDescription = field(11)
	row.PercentChange = floatField(12, true)
	row.RunningEmissions = floatField(13, false)

	return row, errors.Join(errs...)
}

// parseInt accepts plain integers and integral float text such as "2020.0"
func parseInt(raw string) (int, error) {
	if v, err := strconv.Atoi(raw); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	return int(f), nil
}
