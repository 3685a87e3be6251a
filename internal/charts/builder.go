package charts

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"emissionsdash/internal/dataset"
	"emissionsdash/internal/models"
)

// ErrNoDataForPollutant means the selected pollutant has no rows anywhere in the table,
// so the y-axis bound is undefined
var ErrNoDataForPollutant = errors.New("no data for pollutant")

// Builder turns selections into chart specifications over a shared table
type Builder struct {
	table  *dataset.Table
	styles []SeriesStyle
	index  map[string]int
}

// NewBuilder creates a builder for table. Model styles are fixed here so a model keeps
// its color and dash across selections.
func NewBuilder(table *dataset.Table) *Builder {
	modelNames := table.Summary().Models
	index := make(map[string]int, len(modelNames))
	for i, m := range modelNames {
		index[m] = i
	}
	return &Builder{
		table:  table,
		styles: assignStyles(modelNames),
		index:  index,
	}
}

// Styles returns the style of every model version
func (b *Builder) Styles() []SeriesStyle {
	out := make([]SeriesStyle, len(b.styles))
	copy(out, b.styles)
	return out
}

// MaxEmission returns the largest running emission rate among rows for pollutant,
// ignoring every other control
func (b *Builder) MaxEmission(pollutant string) (float64, error) {
	rates := b.table.Rates(dataset.ByPollutant(pollutant))
	if len(rates) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrNoDataForPollutant, pollutant)
	}
	return floats.Max(rates), nil
}

// Build produces the chart for sel. An empty match still yields domains and annotations;
// only a pollutant absent from the whole table is an error.
func (b *Builder) Build(sel models.Selection) (*ChartSpec, error) {
	maxEmission, err := b.MaxEmission(sel.Pollutant)
	if err != nil {
		return nil, err
	}

	rows := b.table.Filter(dataset.BySelection(sel))

	spec := &ChartSpec{
		Selection:   sel,
		MaxEmission: maxEmission,
		RowCount:    len(rows),
		XDomain:     Range{Min: 0, Max: speedMax},
		YDomain:     yDomain(maxEmission),
		XAxis:       exponentAxis(),
		YAxis:       exponentAxis(),
		FacetColumn: models.ColumnRoadDescription,
		FacetWrap:   facetWrap,
		Facets:      b.facets(rows),
		Styles:      b.Styles(),
		Annotations: sharedAxisAnnotations(),
		Layout:      defaultLayout(),
	}
	return spec, nil
}

// yDomain spans [0, 1.2*max]; an all-zero pollutant gets [0, 1] so the axis never collapses
func yDomain(maxEmission float64) Range {
	top := maxEmission * yHeadroom
	if top <= 0 {
		top = 1
	}
	return Range{Min: 0, Max: top}
}

// facets groups rows by road description in first-occurrence order, then by model version
// in table-wide model order. Points keep table order.
func (b *Builder) facets(rows []models.EmissionRecord) []Facet {
	facets := []Facet{}
	facetIndex := make(map[string]int)
	seriesIndex := make([]map[string]int, 0)

	for _, r := range rows {
		fi, ok := facetIndex[r.RoadDescription]
		if !ok {
			fi = len(facets)
			facetIndex[r.RoadDescription] = fi
			facets = append(facets, Facet{
				Key:   r.RoadDescription,
				Title: facetPrefix + r.RoadDescription,
				Row:   fi / facetWrap,
				Col:   fi % facetWrap,
			})
			seriesIndex = append(seriesIndex, make(map[string]int))
		}

		f := &facets[fi]
		si, ok := seriesIndex[fi][r.Model]
		if !ok {
			si = len(f.Series)
			seriesIndex[fi][r.Model] = si
			f.Series = append(f.Series, Series{Name: r.Model, Style: b.styleFor(r.Model)})
		}
		f.Series[si].Points = append(f.Series[si].Points, Point{
			X:     r.AverageSpeed,
			Y:     r.RunningEmissions,
			Hover: r.DisplayValues(),
		})
	}

	for i := range facets {
		series := facets[i].Series
		sort.SliceStable(series, func(x, y int) bool {
			return b.index[series[x].Name] < b.index[series[y].Name]
		})
	}
	return facets
}

func (b *Builder) styleFor(model string) SeriesStyle {
	if i, ok := b.index[model]; ok {
		return b.styles[i]
	}
	return SeriesStyle{Model: model, Color: palette[0], Dash: dashes[0]}
}
