package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emissionsdash/internal/config"
	"emissionsdash/internal/dataset/datasettest"
	"emissionsdash/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:              "0",
		DataPath:          "sample.csv",
		DataDelimiter:     ",",
		DashboardTitle:    "MOVES 2014b vs. MOVES 3 Running Emission Comparison for El Paso",
		EChartsAssetsHost: "https://go-echarts.github.io/go-echarts-assets/assets/",
		DefaultPollutant:  "CO",
		DefaultSourceType: "Passenger Car",
		DefaultFuelType:   "Gasoline",
		DefaultYear:       2020,
	}
}

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	s, err := NewServer(testConfig(), datasettest.MustTable(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, s.SetupRoutes()
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHandleRoot(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "<title>MOVES 2014b vs. MOVES 3 Running Emission Comparison for El Paso</title>")
	assert.Contains(t, body, `id="pollutant-dropdown"`)
	assert.Contains(t, body, `<option value="CO" selected>CO</option>`)
	assert.Contains(t, body, `value="Passenger Car" checked`)
	assert.Contains(t, body, `value="Gasoline" checked`)
	assert.Contains(t, body, `value="Diesel">`)
	assert.Contains(t, body, `value="2020" checked`)
	assert.Contains(t, body, `id="emission-chart"`)
	assert.Contains(t, body, "echarts.init")
	assert.Contains(t, body, "Select Analysis Year")
	assert.Contains(t, body, "<strong>MOVES 2014b</strong>")
}

func TestHandleRootErrors(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleRootShowsChartError(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultPollutant = "PM10"
	s, err := NewServer(cfg, datasettest.MustTable(t), nil)
	require.NoError(t, err)

	rec := do(t, s.SetupRoutes(), http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="chart-error">no data for pollutant`)
}

func TestHandleOptions(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/options", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var catalog struct {
		Pollutants  []string `json:"pollutants"`
		SourceTypes []string `json:"source_types"`
		Years       []int    `json:"years"`
	}
	decode(t, rec, &catalog)
	assert.Equal(t, []string{"CO", "NOx"}, catalog.Pollutants)
	assert.Equal(t, []string{"Passenger Car", "Combination Long-haul Truck"}, catalog.SourceTypes)
	assert.Equal(t, []int{2020, 2017}, catalog.Years)

	rec = do(t, h, http.MethodPost, "/api/options", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleInit(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/init", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp sessionResponse
	decode(t, rec, &resp)
	assert.Equal(t, models.DefaultSelection(), resp.Selection)
	assert.Equal(t, []string{"Gasoline", "Diesel"}, resp.FuelOptions)
	require.NotNil(t, resp.Chart)
	assert.NotNil(t, resp.Chart.Option)
	assert.Equal(t, 440, resp.Chart.Height)
	assert.Equal(t, 12, resp.Chart.RowCount)
}

func postUpdate(t *testing.T, h http.Handler, req updateRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	return do(t, h, http.MethodPost, "/api/update", bytes.NewReader(body))
}

func TestHandleUpdateCascade(t *testing.T) {
	_, h := newTestServer(t)

	rec := postUpdate(t, h, updateRequest{
		Selection:   models.DefaultSelection(),
		FuelOptions: []string{"Gasoline", "Diesel"},
		Control:     "source_type",
		Value:       "Combination Long-haul Truck",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp sessionResponse
	decode(t, rec, &resp)
	assert.Equal(t, []string{"Diesel"}, resp.FuelOptions)
	assert.Equal(t, "Diesel", resp.Selection.FuelType)
	assert.Equal(t, "Combination Long-haul Truck", resp.Selection.SourceType)
	assert.Len(t, resp.Recomputed, 3)
	require.NotNil(t, resp.Chart)
	assert.Equal(t, 3, resp.Chart.RowCount)
}

func TestHandleUpdateYearAsNumber(t *testing.T) {
	_, h := newTestServer(t)

	body := `{"selection":{"source_type":"Passenger Car","fuel_type":"Gasoline","pollutant":"CO","year":2020},` +
		`"fuel_options":["Gasoline","Diesel"],"control":"year","value":2017}`
	rec := do(t, h, http.MethodPost, "/api/update", strings.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp sessionResponse
	decode(t, rec, &resp)
	assert.Equal(t, 2017, resp.Selection.Year)
	assert.Equal(t, []string{"Gasoline", "Diesel"}, resp.FuelOptions)
	require.NotNil(t, resp.Chart)
	assert.Equal(t, 1, resp.Chart.RowCount)
}

func TestHandleUpdateChartError(t *testing.T) {
	_, h := newTestServer(t)

	rec := postUpdate(t, h, updateRequest{
		Selection:   models.DefaultSelection(),
		FuelOptions: []string{"Gasoline", "Diesel"},
		Control:     "pollutant",
		Value:       "PM10",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp sessionResponse
	decode(t, rec, &resp)
	require.NotNil(t, resp.Chart)
	assert.Equal(t, "no_data_for_pollutant", resp.Chart.Kind)
	assert.Nil(t, resp.Chart.Option)
}

func TestHandleUpdateErrors(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/update", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/update", strings.NewReader("{not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postUpdate(t, h, updateRequest{Selection: models.DefaultSelection(), Control: "speed", Value: "10"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "unknown_control", body["kind"])

	rec = postUpdate(t, h, updateRequest{Selection: models.DefaultSelection(), Control: "year", Value: "twenty"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	decode(t, rec, &body)
	assert.Equal(t, "invalid_value", body["kind"])
}

func TestHandleChart(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/chart", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Spec struct {
			MaxEmission float64 `json:"max_emission"`
			Facets      []struct {
				Title string `json:"title"`
			} `json:"facets"`
		} `json:"spec"`
		Option map[string]interface{} `json:"option"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, datasettest.SampleCOMax, resp.Spec.MaxEmission)
	assert.Len(t, resp.Spec.Facets, 2)
	assert.NotEmpty(t, resp.Option["series"])

	q := url.Values{"source_type": {"Combination Long-haul Truck"}, "fuel_type": {"Diesel"}}
	rec = do(t, h, http.MethodGet, "/api/chart?"+q.Encode(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	assert.Len(t, resp.Spec.Facets, 1)
}

func TestHandleChartErrors(t *testing.T) {
	_, h := newTestServer(t)

	tests := []struct {
		name   string
		method string
		query  string
		status int
	}{
		{"no data for pollutant", http.MethodGet, "pollutant=PM10", http.StatusNotFound},
		{"bad year", http.MethodGet, "year=abc", http.StatusBadRequest},
		{"empty fuel", http.MethodGet, "fuel_type=", http.StatusBadRequest},
		{"wrong method", http.MethodPost, "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, "/api/chart?"+tt.query, nil)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandleExportPNG(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/export/png", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "erlt_CO_Passenger_Car_Gasoline_2020.png")

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 1300, img.Bounds().Dx())

	rec = do(t, h, http.MethodGet, "/export/png?pollutant=PM10", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleExportHTML(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/export/html?year=2020", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "facet_0")
	assert.Contains(t, body, "facet_1")
}

func TestHandleHealth(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var health struct {
		Status  string `json:"status"`
		Version string `json:"version"`
		Dataset struct {
			Rows   int      `json:"rows"`
			Models []string `json:"models"`
		} `json:"dataset"`
	}
	decode(t, rec, &health)
	assert.Equal(t, "healthy", health.Status)
	assert.NotEmpty(t, health.Version)
	assert.Equal(t, datasettest.SampleRows, health.Dataset.Rows)
	assert.Equal(t, []string{"MOVES 2014b", "MOVES 3"}, health.Dataset.Models)
}

func TestMetricsEndpoint(t *testing.T) {
	_, h := newTestServer(t)

	do(t, h, http.MethodGet, "/health", nil)
	rec := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `erlt_http_requests_total{code="200",route="/health"}`)
}

func TestRequestID(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/health", nil)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestParseSelection(t *testing.T) {
	defaults := models.DefaultSelection()

	sel, err := ParseSelection(url.Values{}, defaults)
	require.NoError(t, err)
	assert.Equal(t, defaults, sel)

	sel, err = ParseSelection(url.Values{"pollutant": {" NOx "}, "year": {"2017"}}, defaults)
	require.NoError(t, err)
	assert.Equal(t, "NOx", sel.Pollutant)
	assert.Equal(t, 2017, sel.Year)
	assert.Equal(t, "Passenger Car", sel.SourceType)

	_, err = ParseSelection(url.Values{"year": {"2020.5"}}, defaults)
	assert.Error(t, err)

	_, err = ParseSelection(url.Values{"source_type": {""}}, defaults)
	assert.Error(t, err)
}

func TestWriteJSONUnencodableValue(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]float64{"max": math.NaN()})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal", body["kind"])
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusBadRequest, "invalid_value", "bad year")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"error": "bad year", "kind": "invalid_value", "status": "Bad Request"}, body)
}

func TestExportFilename(t *testing.T) {
	sel := models.Selection{SourceType: "Combination Long-haul Truck", FuelType: "Diesel", Pollutant: "PM2.5", Year: 2020}
	assert.Equal(t, "erlt_PM2.5_Combination_Long-haul_Truck_Diesel_2020.html", ExportFilename(sel, "html"))
}

func TestRenderNotes(t *testing.T) {
	notes, err := RenderNotes([]byte("Rates for **El Paso**"))
	require.NoError(t, err)
	assert.Contains(t, string(notes), "<strong>El Paso</strong>")
}
