package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"emissionsdash/internal/binder"
	"emissionsdash/internal/charts"
	"emissionsdash/internal/config"
	"emissionsdash/internal/metrics"
	"emissionsdash/internal/models"
)

// maxUpdateBody bounds the size of an update request
const maxUpdateBody = 64 << 10

// pageData is the dashboard template context
type pageData struct {
	Title       string
	Notes       template.HTML
	Pollutants  []string
	SourceTypes []string
	FuelOptions []string
	Years       []int
	Selection   models.Selection
	ChartDiv    template.HTML
	ChartScript template.HTML
	ChartError  string
	EChartsCDN  template.HTML
	State       template.JS
	Formatter   template.JS
	Version     string
}

// chartPayload is a chart as the page consumes it: an ECharts option, or an error in its place
type chartPayload struct {
	Option   map[string]interface{} `json:"option,omitempty"`
	Height   int                    `json:"height,omitempty"`
	RowCount int                    `json:"row_count"`
	Kind     string                 `json:"error_kind,omitempty"`
	Message  string                 `json:"error,omitempty"`
}

// sessionResponse carries everything the page needs to re-render after an evaluation
type sessionResponse struct {
	Selection   models.Selection `json:"selection"`
	FuelOptions []string         `json:"fuel_options"`
	FuelError   string           `json:"fuel_error,omitempty"`
	Recomputed  []binder.NodeID  `json:"recomputed"`
	Chart       *chartPayload    `json:"chart,omitempty"`
}

// updateRequest is one control change together with the client's session state
type updateRequest struct {
	Selection   models.Selection `json:"selection"`
	FuelOptions []string         `json:"fuel_options"`
	Control     binder.NodeID    `json:"control"`
	Value       interface{}      `json:"value"`
}

// HandleRoot serves the dashboard page with the initial chart rendered server side
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not_found", "no such page: "+r.URL.Path)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, update := s.Binder.NewSession(s.initial)
	resp := newSessionResponse(update)
	state, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("failed to encode initial state", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data := pageData{
		Title:       s.Config.DashboardTitle,
		Notes:       s.Notes,
		Pollutants:  s.Catalog.Pollutants,
		SourceTypes: s.Catalog.SourceTypes,
		FuelOptions: session.FuelOptions(),
		Years:       s.Catalog.Years,
		Selection:   session.Selection(),
		EChartsCDN:  template.HTML(charts.EChartsCDN),
		State:       template.JS(state),
		Formatter:   template.JS(charts.AxisFormatterJS()),
		Version:     config.GetVersion(),
	}

	chart := session.Chart()
	if chart.Failed() {
		data.ChartError = chart.Message
	} else {
		snippet, err := charts.Snippet("emission-chart", chart.Spec)
		if err != nil {
			s.log.Error("failed to build chart snippet", err)
			data.ChartError = "The chart could not be rendered."
		} else {
			data.ChartDiv = template.HTML(snippet.Div)
			data.ChartScript = template.HTML(snippet.Script)
		}
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.log.Error("failed to render dashboard page", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := map[string]interface{}{
		"status":    "healthy",
		"version":   config.GetVersion(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"dataset":   s.Table.Summary(),
	}
	writeJSON(w, http.StatusOK, health)
}

// HandleOptions returns the option catalogs
func (s *Server) HandleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.Catalog)
}

// HandleInit evaluates a fresh session from the initial selection
func (s *Server) HandleInit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	_, update := s.Binder.NewSession(s.initial)
	writeJSON(w, http.StatusOK, newSessionResponse(update))
}

// HandleUpdate applies one control change to the session state carried by the client
func (s *Server) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req updateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateBody))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid update body: "+err.Error())
		return
	}

	session := s.Binder.Restore(req.Selection, req.FuelOptions)
	update, err := session.Apply(binder.Event{Control: req.Control, Value: req.Value})
	if err != nil {
		kind := "invalid_value"
		if errors.Is(err, binder.ErrUnknownControl) {
			kind = "unknown_control"
		}
		writeError(w, http.StatusBadRequest, kind, err.Error())
		return
	}
	metrics.BinderEvent(string(req.Control))

	s.log.Debug("control changed", map[string]interface{}{
		"control":    req.Control,
		"selection":  update.Selection.String(),
		"recomputed": len(update.Recomputed),
	})
	writeJSON(w, http.StatusOK, newSessionResponse(update))
}

// HandleChart returns the chart specification and ECharts option for a query selection
func (s *Server) HandleChart(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.chartForRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"spec":   spec,
		"option": charts.EChartsOption(spec),
	})
}

// HandleExportPNG renders the chart for a query selection as a PNG download
func (s *Server) HandleExportPNG(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.chartForRequest(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderPNG(spec, &buf); err != nil {
		s.log.Error("failed to render PNG", err, map[string]interface{}{"selection": spec.Selection.String()})
		writeError(w, http.StatusInternalServerError, "render_failed", "failed to render chart")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFilename(spec.Selection, "png")))
	w.Write(buf.Bytes())
}

// HandleExportHTML renders the chart for a query selection as a standalone page
func (s *Server) HandleExportHTML(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.chartForRequest(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	err := charts.RenderFacetPage(spec, &buf, charts.PageOptions{
		Title:      fmt.Sprintf("%s: %s", s.Config.DashboardTitle, spec.Selection.String()),
		AssetsHost: s.Config.EChartsAssetsHost,
	})
	if err != nil {
		s.log.Error("failed to render HTML export", err, map[string]interface{}{"selection": spec.Selection.String()})
		writeError(w, http.StatusInternalServerError, "render_failed", "failed to render chart")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// chartForRequest parses and builds the selection named by the query string.
// On failure the error response has been written and ok is false.
func (s *Server) chartForRequest(w http.ResponseWriter, r *http.Request) (*charts.ChartSpec, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}

	sel, err := ParseSelection(r.URL.Query(), s.initial)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return nil, false
	}

	spec, err := metrics.InstrumentChart(s.Builder.Build)(sel)
	switch {
	case errors.Is(err, charts.ErrNoDataForPollutant):
		writeError(w, http.StatusNotFound, "no_data_for_pollutant", err.Error())
		return nil, false
	case err != nil:
		s.log.Error("chart build failed", err, map[string]interface{}{"selection": sel.String()})
		writeError(w, http.StatusInternalServerError, "chart_error", err.Error())
		return nil, false
	}
	return spec, true
}

func newSessionResponse(u binder.Update) sessionResponse {
	resp := sessionResponse{
		Selection:   u.Selection,
		FuelOptions: u.FuelOptions,
		FuelError:   u.FuelError,
		Recomputed:  u.Recomputed,
	}
	if u.Chart != nil {
		resp.Chart = newChartPayload(*u.Chart)
	}
	return resp
}

func newChartPayload(c binder.ChartState) *chartPayload {
	if c.Failed() {
		return &chartPayload{Kind: c.Kind, Message: c.Message}
	}
	return &chartPayload{
		Option:   charts.EChartsOption(c.Spec),
		Height:   charts.ChartHeight(c.Spec),
		RowCount: c.Spec.RowCount,
	}
}
