package charts

import "emissionsdash/internal/models"

// ChartSpec is the renderer-independent description of the comparison chart for one selection.
// It is rebuilt from scratch on every selection change.
type ChartSpec struct {
	Selection   models.Selection `json:"selection"`
	MaxEmission float64          `json:"max_emission"` // max rate for the pollutant across the whole table
	RowCount    int              `json:"row_count"`    // rows matching all four controls
	XDomain     Range            `json:"x_domain"`
	YDomain     Range            `json:"y_domain"`
	XAxis       AxisFormat       `json:"x_axis"`
	YAxis       AxisFormat       `json:"y_axis"`
	FacetColumn models.Column    `json:"facet_column"`
	FacetWrap   int              `json:"facet_wrap"`
	Facets      []Facet          `json:"facets"`
	Styles      []SeriesStyle    `json:"styles"` // every model version in the table, in first-occurrence order
	Annotations []Annotation     `json:"annotations"`
	Layout      Layout           `json:"layout"`
}

// Range is a closed numeric axis domain
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// AxisFormat controls tick label formatting on one axis
type AxisFormat struct {
	ExponentFormat string `json:"exponent_format"`
	ShowExponent   string `json:"show_exponent"`
	Title          string `json:"title"`
}

// Facet is one subplot: all series for a single road description
type Facet struct {
	Key    string   `json:"key"`
	Title  string   `json:"title"`
	Row    int      `json:"row"`
	Col    int      `json:"col"`
	Series []Series `json:"series"`
}

// Series is one model version's line within a facet
type Series struct {
	Name   string      `json:"name"`
	Style  SeriesStyle `json:"style"`
	Points []Point     `json:"points"`
}

// Point is a plotted (speed, rate) pair with its hover content
type Point struct {
	X     float64        `json:"x"`
	Y     float64        `json:"y"`
	Hover []models.Field `json:"hover"`
}

// SeriesStyle is the color and dash pattern assigned to a model version
type SeriesStyle struct {
	Model string `json:"model"`
	Color string `json:"color"`
	Dash  string `json:"dash"`
}

// Annotation is text placed in paper coordinates, where (0,0) is the bottom-left of the plot area
// and (1,1) the top-right
type Annotation struct {
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	XShift    int     `json:"xshift"`
	YShift    int     `json:"yshift"`
	XAnchor   string  `json:"xanchor"`
	YAnchor   string  `json:"yanchor"`
	TextAngle float64 `json:"textangle"`
	ShowArrow bool    `json:"showarrow"`
}

// Layout carries figure-wide presentation settings
type Layout struct {
	Template        string `json:"template"`
	FontFamily      string `json:"font_family"`
	FontSize        int    `json:"font_size"`
	FontColor       string `json:"font_color"`
	HoverFontFamily string `json:"hover_font_family"`
	HoverFontSize   int    `json:"hover_font_size"`
}

// Empty reports whether no rows matched the selection
func (s *ChartSpec) Empty() bool {
	return len(s.Facets) == 0
}

// Rows returns the number of facet rows in the grid
func (s *ChartSpec) Rows() int {
	if len(s.Facets) == 0 {
		return 1
	}
	wrap := s.FacetWrap
	if wrap <= 0 {
		wrap = facetWrap
	}
	return (len(s.Facets) + wrap - 1) / wrap
}

// StyleFor returns the style of model, falling back to the first palette entry
func (s *ChartSpec) StyleFor(model string) SeriesStyle {
	for _, st := range s.Styles {
		if st.Model == model {
			return st
		}
	}
	return SeriesStyle{Model: model, Color: palette[0], Dash: dashes[0]}
}
