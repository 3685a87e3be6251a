package charts

import "emissionsdash/internal/models"

// plotly template qualitative palette
var palette = []string{
	"#636efa", "#EF553B", "#00cc96", "#ab63fa", "#FFA15A",
	"#19d3f3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

var dashes = []string{"solid", "dot", "dash", "longdash", "dashdot", "longdashdot"}

const (
	xAxisLabel = "Average Speed (mph)"
	yAxisLabel = "Running Emission Rates (grams/mile)"

	facetWrap   = 2
	speedMax    = 80.0
	yHeadroom   = 1.2
	facetPrefix = string(models.ColumnRoadDescription) + "="
)

// assignStyles gives each model version a color and dash by its position in models
func assignStyles(modelNames []string) []SeriesStyle {
	styles := make([]SeriesStyle, len(modelNames))
	for i, m := range modelNames {
		styles[i] = SeriesStyle{
			Model: m,
			Color: palette[i%len(palette)],
			Dash:  dashes[i%len(dashes)],
		}
	}
	return styles
}

func defaultLayout() Layout {
	return Layout{
		Template:        "plotly",
		FontFamily:      "Times New Roman",
		FontSize:        18,
		FontColor:       "black",
		HoverFontFamily: "Rockwell",
		HoverFontSize:   14,
	}
}

func exponentAxis() AxisFormat {
	return AxisFormat{ExponentFormat: "e", ShowExponent: "all", Title: ""}
}

func sharedAxisAnnotations() []Annotation {
	return []Annotation{
		{
			Text:    xAxisLabel,
			X:       0.5,
			Y:       0,
			XRef:    "paper",
			YRef:    "paper",
			YShift:  -30,
			XAnchor: "center",
			YAnchor: "top",
		},
		{
			Text:      yAxisLabel,
			X:         0,
			Y:         0.5,
			XRef:      "paper",
			YRef:      "paper",
			XShift:    -80,
			XAnchor:   "left",
			YAnchor:   "middle",
			TextAngle: 270,
		},
	}
}

// dashArray converts a dash name to a stroke pattern in pixels; solid is nil
func dashArray(dash string) []float64 {
	switch dash {
	case "dot":
		return []float64{2, 4}
	case "dash":
		return []float64{8, 4}
	case "longdash":
		return []float64{14, 4}
	case "dashdot":
		return []float64{8, 4, 2, 4}
	case "longdashdot":
		return []float64{14, 4, 2, 4}
	default:
		return nil
	}
}

// echartsLineType maps a dash name onto the three ECharts line types
func echartsLineType(dash string) string {
	switch dash {
	case "solid":
		return "solid"
	case "dot":
		return "dotted"
	default:
		return "dashed"
	}
}
