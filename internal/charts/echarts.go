package charts

import (
	"fmt"
	"html"
	"math"
	"strings"
)

// grid geometry in percent of the chart container
const (
	gridLeft   = 10.0
	gridRight  = 4.0
	gridTop    = 10.0
	gridBottom = 12.0
	gridHGap   = 6.0
	gridVGap   = 10.0
)

// EChartsOption converts spec into an ECharts option object: one grid with its own axes per
// facet, series bound to their facet's axes, per-point tooltips, and the shared axis labels
// as graphic text. Axis label formatters are attached by the page script.
func EChartsOption(spec *ChartSpec) map[string]interface{} {
	n := len(spec.Facets)
	if n == 0 {
		n = 1
	}
	cols := spec.FacetWrap
	if cols <= 0 {
		cols = facetWrap
	}
	if n < cols {
		cols = n
	}
	rows := (n + cols - 1) / cols

	cellW := (100 - gridLeft - gridRight - gridHGap*float64(cols-1)) / float64(cols)
	cellH := (100 - gridTop - gridBottom - gridVGap*float64(rows-1)) / float64(rows)

	grids := make([]interface{}, 0, n)
	xAxes := make([]interface{}, 0, n)
	yAxes := make([]interface{}, 0, n)
	titles := make([]interface{}, 0, n)

	for i := 0; i < n; i++ {
		row, col := i/cols, i%cols
		left := gridLeft + float64(col)*(cellW+gridHGap)
		top := gridTop + float64(row)*(cellH+gridVGap)

		grids = append(grids, map[string]interface{}{
			"left":         pct(left),
			"top":          pct(top),
			"width":        pct(cellW),
			"height":       pct(cellH),
			"containLabel": false,
		})
		xAxes = append(xAxes, axisOption(i, spec.XDomain, spec.XAxis))
		yAxes = append(yAxes, axisOption(i, spec.YDomain, spec.YAxis))

		if i < len(spec.Facets) {
			titles = append(titles, map[string]interface{}{
				"text":      spec.Facets[i].Title,
				"left":      pct(left + cellW/2),
				"top":       pct(math.Max(top-5, 0)),
				"textAlign": "center",
				"textStyle": map[string]interface{}{
					"fontSize":   14,
					"fontWeight": "normal",
					"fontFamily": spec.Layout.FontFamily,
					"color":      spec.Layout.FontColor,
				},
			})
		}
	}

	series := make([]interface{}, 0)
	for i, f := range spec.Facets {
		for _, s := range f.Series {
			data := make([]interface{}, len(s.Points))
			for j, p := range s.Points {
				data[j] = map[string]interface{}{
					"value": []float64{p.X, p.Y},
					"tooltip": map[string]interface{}{
						"formatter": hoverHTML(p),
					},
				}
			}
			series = append(series, map[string]interface{}{
				"name":       s.Name,
				"type":       "line",
				"xAxisIndex": i,
				"yAxisIndex": i,
				"symbol":     "circle",
				"symbolSize": 5,
				"data":       data,
				"lineStyle": map[string]interface{}{
					"color": s.Style.Color,
					"type":  echartsLineType(s.Style.Dash),
					"width": 2,
				},
				"itemStyle": map[string]interface{}{
					"color": s.Style.Color,
				},
			})
		}
	}

	legend := make([]string, len(spec.Styles))
	colors := make([]string, len(spec.Styles))
	for i, st := range spec.Styles {
		legend[i] = st.Model
		colors[i] = st.Color
	}

	return map[string]interface{}{
		"animation": false,
		"color":     colors,
		"textStyle": map[string]interface{}{
			"fontFamily": spec.Layout.FontFamily,
			"fontSize":   spec.Layout.FontSize,
			"color":      spec.Layout.FontColor,
		},
		"title": titles,
		"legend": map[string]interface{}{
			"data":  legend,
			"right": 10,
			"top":   0,
		},
		"tooltip": map[string]interface{}{
			"trigger": "item",
			"textStyle": map[string]interface{}{
				"fontFamily": spec.Layout.HoverFontFamily,
				"fontSize":   spec.Layout.HoverFontSize,
			},
		},
		"grid":    grids,
		"xAxis":   xAxes,
		"yAxis":   yAxes,
		"series":  series,
		"graphic": graphicLabels(spec.Annotations),
	}
}

func axisOption(grid int, domain Range, format AxisFormat) map[string]interface{} {
	return map[string]interface{}{
		"type":      "value",
		"gridIndex": grid,
		"min":       domain.Min,
		"max":       domain.Max,
		"name":      format.Title,
		"axisLabel": map[string]interface{}{
			"fontSize": 12,
		},
		"splitLine": map[string]interface{}{
			"show": true,
		},
	}
}

// graphicLabels places annotations as free text around the plot area. Paper x=0.5,y=0
// maps below the grids; x=0,y=0.5 maps to the left edge, rotated for angle 270.
func graphicLabels(annotations []Annotation) []interface{} {
	out := make([]interface{}, 0, len(annotations))
	for _, a := range annotations {
		el := map[string]interface{}{
			"type": "text",
			"style": map[string]interface{}{
				"text":     a.Text,
				"fontSize": 16,
				"fill":     "#000",
			},
		}
		switch {
		case a.TextAngle == 270:
			el["left"] = 8
			el["top"] = "middle"
			el["rotation"] = math.Pi / 2
		default:
			el["left"] = "center"
			el["bottom"] = 8
		}
		out = append(out, el)
	}
	return out
}

// hoverHTML lists every display field of a point, one per line
func hoverHTML(p Point) string {
	var b strings.Builder
	for i, f := range p.Hover {
		if i > 0 {
			b.WriteString("<br>")
		}
		b.WriteString(html.EscapeString(string(f.Name)))
		b.WriteString("=")
		b.WriteString(html.EscapeString(f.Value))
	}
	return b.String()
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
