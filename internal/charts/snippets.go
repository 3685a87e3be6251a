package charts

import (
	"encoding/json"
	"fmt"
)

// EChartsCDN is the script tag loading the ECharts runtime used by snippets
const EChartsCDN = `<script src="https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"></script>`

// ChartSnippet represents an embeddable ECharts chart fragment.
// Div should contain a single root <div id="..." style="..."></div>
// Script should contain the <script>...</script> block that initializes the chart in that div.
// HTML contains the complete snippet with div + script combined for template substitution.
type ChartSnippet struct {
	ID     string
	Title  string
	Div    string
	Script string
	HTML   string
}

// Snippet embeds the ECharts option for spec into a div and initialization script.
// The chart height grows with the number of facet rows.
func Snippet(id string, spec *ChartSpec) (ChartSnippet, error) {
	if spec == nil {
		return ChartSnippet{}, fmt.Errorf("chart spec cannot be nil")
	}
	if id == "" {
		id = "emission-chart"
	}

	optJSON, err := json.Marshal(EChartsOption(spec))
	if err != nil {
		return ChartSnippet{}, err
	}

	title := fmt.Sprintf("%s running emission rates: %s, %s, %d",
		spec.Selection.Pollutant, spec.Selection.SourceType, spec.Selection.FuelType, spec.Selection.Year)

	div := fmt.Sprintf("<div id=\"%s\" class=\"chart\" style=\"width:100%%;height:%dpx;\"></div>", id, ChartHeight(spec))
	script := fmt.Sprintf(`<script>(function(){var el=document.getElementById('%s');if(!el)return;var c=echarts.init(el);var option=%s;var f=%s;[].concat(option.xAxis||[],option.yAxis||[]).forEach(function(a){a.axisLabel=a.axisLabel||{};a.axisLabel.formatter=f;});c.setOption(option);window.addEventListener('resize',function(){c.resize();});})();</script>`,
		id, string(optJSON), axisFormatterJS)

	completeHTML := fmt.Sprintf(`%s
<div class="chart-container">
	%s
</div>
%s`, EChartsCDN, div, script)

	return ChartSnippet{ID: id, Title: title, Div: div, Script: script, HTML: completeHTML}, nil
}

// ChartHeight returns the pixel height for spec: 320px per facet row plus room for the shared labels
func ChartHeight(spec *ChartSpec) int {
	return 120 + 320*spec.Rows()
}
