package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"emissionsdash/internal/logger"
	"emissionsdash/internal/models"
)

// ParseSelection reads source_type, fuel_type, pollutant and year from query.
// Parameters that are absent keep their value from defaults.
func ParseSelection(query url.Values, defaults models.Selection) (models.Selection, error) {
	sel := defaults
	if v, ok := lookup(query, "source_type"); ok {
		sel.SourceType = v
	}
	if v, ok := lookup(query, "fuel_type"); ok {
		sel.FuelType = v
	}
	if v, ok := lookup(query, "pollutant"); ok {
		sel.Pollutant = v
	}
	if v, ok := lookup(query, "year"); ok {
		year, err := strconv.Atoi(v)
		if err != nil {
			return models.Selection{}, fmt.Errorf("invalid year %q", v)
		}
		sel.Year = year
	}
	if err := sel.Validate(); err != nil {
		return models.Selection{}, err
	}
	return sel, nil
}

func lookup(query url.Values, key string) (string, bool) {
	if _, ok := query[key]; !ok {
		return "", false
	}
	return strings.TrimSpace(query.Get(key)), true
}

// ExportFilename names a download for sel, e.g. erlt_CO_Passenger_Car_Gasoline_2020.png
func ExportFilename(sel models.Selection, ext string) string {
	name := fmt.Sprintf("erlt_%s_%s_%s_%d", sel.Pollutant, sel.SourceType, sel.FuelType, sel.Year)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
	return name + "." + ext
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error("failed to encode response", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{
			"error":  "failed to encode response",
			"kind":   "internal",
			"status": http.StatusText(status),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, map[string]string{
		"error":  message,
		"kind":   kind,
		"status": http.StatusText(status),
	})
}
