// Package metrics exposes Prometheus instrumentation for chart builds, control events,
// the loaded dataset and HTTP traffic.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"emissionsdash/internal/charts"
	"emissionsdash/internal/models"
)

// Chart build results
const (
	ResultOK     = "ok"
	ResultEmpty  = "empty"
	ResultNoData = "no_data"
	ResultError  = "error"
)

var (
	chartBuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "erlt_chart_builds_total",
		Help: "Chart builds by result",
	}, []string{"result"})

	chartBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "erlt_chart_build_duration_seconds",
		Help:    "Duration of chart builds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})

	binderEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "erlt_binder_events_total",
		Help: "Control change events processed by the binder",
	}, []string{"control"})

	datasetRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "erlt_dataset_rows",
		Help: "Rows in the loaded emission table",
	})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "erlt_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"route", "code"})
)

// ChartFunc builds a chart for a selection
type ChartFunc func(models.Selection) (*charts.ChartSpec, error)

// InstrumentChart wraps fn so every call is timed and counted by result
func InstrumentChart(fn ChartFunc) ChartFunc {
	return func(sel models.Selection) (*charts.ChartSpec, error) {
		start := time.Now()
		spec, err := fn(sel)
		ObserveChartBuild(spec, err, time.Since(start))
		return spec, err
	}
}

// ObserveChartBuild records one chart build
func ObserveChartBuild(spec *charts.ChartSpec, err error, d time.Duration) {
	chartBuildDuration.Observe(d.Seconds())
	chartBuildsTotal.WithLabelValues(chartResult(spec, err)).Inc()
}

func chartResult(spec *charts.ChartSpec, err error) string {
	switch {
	case errors.Is(err, charts.ErrNoDataForPollutant):
		return ResultNoData
	case err != nil:
		return ResultError
	case spec != nil && spec.Empty():
		return ResultEmpty
	default:
		return ResultOK
	}
}

// BinderEvent counts a control change event
func BinderEvent(control string) {
	binderEventsTotal.WithLabelValues(control).Inc()
}

// SetDatasetRows records the size of the loaded table
func SetDatasetRows(n int) {
	datasetRows.Set(float64(n))
}

// HTTPRequest counts a served request
func HTTPRequest(route string, code int) {
	httpRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
