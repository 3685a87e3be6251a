package charts

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// PageOptions configures the standalone HTML export
type PageOptions struct {
	Title      string
	AssetsHost string
}

// RenderFacetPage writes a standalone HTML page with one go-echarts line chart per facet,
// laid out with the flex page layout. An empty spec renders a single chart with no series.
func RenderFacetPage(spec *ChartSpec, w io.Writer, options PageOptions) error {
	if spec == nil {
		return fmt.Errorf("chart spec cannot be nil")
	}

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.PageTitle = options.Title
	if page.PageTitle == "" {
		page.PageTitle = "Running Emission Comparison"
	}
	if options.AssetsHost != "" {
		page.AssetsHost = options.AssetsHost
	}

	facets := spec.Facets
	if len(facets) == 0 {
		facets = []Facet{{Title: "No rows match the current selection"}}
	}

	for i, f := range facets {
		page.AddCharts(facetLine(spec, f, i, options.AssetsHost))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render facet page: %w", err)
	}
	return nil
}

func facetLine(spec *ChartSpec, f Facet, index int, assetsHost string) *charts.Line {
	line := charts.NewLine()
	init := opts.Initialization{
		Theme:   types.ThemeWesteros,
		Width:   "620px",
		Height:  "420px",
		ChartID: fmt.Sprintf("facet_%d", index),
	}
	if assetsHost != "" {
		init.AssetsHost = assetsHost
	}

	line.SetGlobalOptions(
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(opts.Title{
			Title:    f.Title,
			Subtitle: fmt.Sprintf("%s · %s · %s · %d", spec.Selection.Pollutant, spec.Selection.SourceType, spec.Selection.FuelType, spec.Selection.Year),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      xAxisLabel,
			Type:      "value",
			Min:       spec.XDomain.Min,
			Max:       spec.XDomain.Max,
			AxisLabel: pageAxisLabel(),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      yAxisLabel,
			Type:      "value",
			Min:       spec.YDomain.Min,
			Max:       spec.YDomain.Max,
			AxisLabel: pageAxisLabel(),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:  true,
			Right: "10",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      true,
			Trigger:   "item",
			Formatter: opts.FuncOpts(pageTooltipJS),
		}),
	)

	for _, s := range f.Series {
		data := make([]opts.LineData, len(s.Points))
		for j, p := range s.Points {
			data[j] = opts.LineData{Name: hoverHTML(p), Value: []interface{}{p.X, p.Y}}
		}
		line.AddSeries(s.Name, data,
			charts.WithLineStyleOpts(opts.LineStyle{
				Color: s.Style.Color,
				Width: 2,
				Type:  echartsLineType(s.Style.Dash),
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: s.Style.Color,
			}),
		)
	}
	return line
}

// pageTooltipJS shows the hover fields carried in each data item's name
const pageTooltipJS = `function(p){return p.name;}`

// go-echarts embeds functions inside JSON strings, so the formatter must avoid double quotes
func pageAxisLabel() *opts.AxisLabel {
	return &opts.AxisLabel{
		Show:         true,
		ShowMinLabel: true,
		ShowMaxLabel: true,
		Formatter:    opts.FuncOpts(strings.ReplaceAll(axisFormatterJS, `"`, "'")),
	}
}
