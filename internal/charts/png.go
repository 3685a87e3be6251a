package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// PNG layout in pixels
const (
	panelWidth   = 620
	panelHeight  = 420
	marginLeft   = 40
	marginRight  = 20
	marginTop    = 36
	marginBottom = 44
)

// legendOnlySeries is a dummy series used only to populate the facet legend
type legendOnlySeries struct {
	name  string
	color drawing.Color
}

func (ls legendOnlySeries) GetName() string { return ls.name }
func (ls legendOnlySeries) GetStyle() chart.Style {
	return chart.Style{FillColor: ls.color, StrokeColor: ls.color}
}
func (ls legendOnlySeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (ls legendOnlySeries) Len() int                  { return 0 }
func (ls legendOnlySeries) Validate() error           { return nil }
func (ls legendOnlySeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
}

// RenderPNG draws every facet with go-chart, composites them into a grid of FacetWrap columns
// and writes the shared axis labels around it
func RenderPNG(spec *ChartSpec, w io.Writer) error {
	if spec == nil {
		return fmt.Errorf("chart spec cannot be nil")
	}

	facets := spec.Facets
	if len(facets) == 0 {
		facets = []Facet{{Title: "No rows match the current selection"}}
	}
	cols := spec.FacetWrap
	if cols <= 0 {
		cols = facetWrap
	}
	if len(facets) < cols {
		cols = len(facets)
	}
	rows := (len(facets) + cols - 1) / cols

	width := marginLeft + cols*panelWidth + marginRight
	height := marginTop + rows*panelHeight + marginBottom
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	for i, f := range facets {
		panel, err := renderFacet(spec, f)
		if err != nil {
			return fmt.Errorf("failed to render facet %q: %w", f.Key, err)
		}
		x := marginLeft + (i%cols)*panelWidth
		y := marginTop + (i/cols)*panelHeight
		draw.Draw(canvas, image.Rect(x, y, x+panelWidth, y+panelHeight), panel, panel.Bounds().Min, draw.Over)
	}

	caption := fmt.Sprintf("%s | %s | %s | %d",
		spec.Selection.Pollutant, spec.Selection.SourceType, spec.Selection.FuelType, spec.Selection.Year)
	drawText(canvas, caption, marginLeft, 22)

	for _, a := range spec.Annotations {
		if a.TextAngle == 270 {
			drawVerticalText(canvas, a.Text, 8, marginTop+rows*panelHeight/2)
			continue
		}
		drawCenteredText(canvas, a.Text, marginLeft+cols*panelWidth/2, height-16)
	}

	if err := png.Encode(w, canvas); err != nil {
		return fmt.Errorf("failed to encode chart PNG: %w", err)
	}
	return nil
}

// renderFacet renders one subplot with fixed domains; models absent from the facet keep a legend entry
func renderFacet(spec *ChartSpec, f Facet) (image.Image, error) {
	yDomain := spec.YDomain
	graph := chart.Chart{
		Title:      f.Title,
		TitleStyle: chart.Style{FontSize: 12, FontColor: drawing.ColorBlack},
		Width:      panelWidth,
		Height:     panelHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Style:          chart.Style{FontSize: 9},
			Range:          &chart.ContinuousRange{Min: spec.XDomain.Min, Max: spec.XDomain.Max},
			Ticks:          speedTicks(spec.XDomain),
			GridMajorStyle: gridStyle(),
		},
		YAxis: chart.YAxis{
			Style:          chart.Style{FontSize: 9},
			Range:          &chart.ContinuousRange{Min: yDomain.Min, Max: yDomain.Max},
			ValueFormatter: axisValueFormatter,
			GridMajorStyle: gridStyle(),
		},
	}

	present := make(map[string]bool)
	for _, s := range f.Series {
		present[s.Name] = true
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i], ys[i] = p.X, p.Y
		}
		c := hexColor(s.Style.Color)
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name: s.Name,
			Style: chart.Style{
				StrokeColor:     c,
				StrokeWidth:     2,
				StrokeDashArray: dashArray(s.Style.Dash),
				DotColor:        c,
				DotWidth:        3,
			},
			XValues: xs,
			YValues: ys,
		})
	}
	for _, st := range spec.Styles {
		if !present[st.Model] {
			graph.Series = append(graph.Series, legendOnlySeries{name: st.Model, color: hexColor(st.Color)})
		}
	}
	if len(graph.Series) == 0 {
		graph.Series = append(graph.Series, legendOnlySeries{name: "no data", color: drawing.ColorBlack})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

func gridStyle() chart.Style {
	return chart.Style{StrokeColor: drawing.Color{R: 225, G: 225, B: 225, A: 255}, StrokeWidth: 1}
}

func axisValueFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return FormatAxisValue(f)
	}
	return ""
}

// speedTicks returns ticks every 10 mph across the domain
func speedTicks(domain Range) []chart.Tick {
	var ticks []chart.Tick
	for v := domain.Min; v <= domain.Max+1e-9; v += 10 {
		ticks = append(ticks, chart.Tick{Value: v, Label: FormatAxisValue(v)})
	}
	return ticks
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

var labelColor = image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 255})

// drawText writes text with its baseline at y
func drawText(dst draw.Image, text string, x, y int) {
	dr := &font.Drawer{Dst: dst, Src: labelColor, Face: basicfont.Face7x13}
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
}

func drawCenteredText(dst draw.Image, text string, cx, y int) {
	dr := &font.Drawer{Face: basicfont.Face7x13}
	tw := dr.MeasureString(text).Ceil()
	drawText(dst, text, cx-tw/2, y)
}

// drawVerticalText writes text rotated 270 degrees (reading bottom to top) centered on cy
func drawVerticalText(dst draw.Image, text string, x, cy int) {
	face := basicfont.Face7x13
	dr := &font.Drawer{Face: face}
	tw := dr.MeasureString(text).Ceil()
	th := face.Metrics().Height.Ceil()

	strip := image.NewRGBA(image.Rect(0, 0, tw, th))
	drawText(strip, text, 0, face.Metrics().Ascent.Ceil())

	top := cy - tw/2
	for sy := 0; sy < th; sy++ {
		for sx := 0; sx < tw; sx++ {
			c := strip.RGBAAt(sx, sy)
			if c.A == 0 {
				continue
			}
			dst.Set(x+sy, top+tw-1-sx, c)
		}
	}
}
