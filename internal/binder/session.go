package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"emissionsdash/internal/charts"
	"emissionsdash/internal/dataset"
	"emissionsdash/internal/models"
	"emissionsdash/internal/options"
)

var (
	// ErrUnknownControl means an event named a node that is not a user control
	ErrUnknownControl = errors.New("unknown control")
	// ErrInvalidValue means an event value cannot be assigned to its control
	ErrInvalidValue = errors.New("invalid control value")
)

// Error kinds reported in session state
const (
	KindUnknownSourceType  = "unknown_source_type"
	KindNoFuelOptions      = "no_fuel_options"
	KindNoDataForPollutant = "no_data_for_pollutant"
	KindChartError         = "chart_error"
)

// Deps are the computations the binder wires together
type Deps struct {
	FuelOptions func(sourceType string) ([]string, error)
	Chart       func(sel models.Selection) (*charts.ChartSpec, error)
}

// TableDeps wires the resolver and builder over a shared table
func TableDeps(table *dataset.Table, builder *charts.Builder) Deps {
	return Deps{
		FuelOptions: func(sourceType string) ([]string, error) {
			return options.FuelOptionsFor(table, sourceType)
		},
		Chart: builder.Build,
	}
}

// Binder evaluates the dashboard dependency graph for sessions
type Binder struct {
	graph *Graph
	deps  Deps
}

// New validates the dashboard graph and binds it to deps
func New(deps Deps) (*Binder, error) {
	if deps.FuelOptions == nil || deps.Chart == nil {
		return nil, fmt.Errorf("binder requires fuel option and chart functions")
	}
	g, err := NewGraph(DashboardNodes)
	if err != nil {
		return nil, err
	}
	return &Binder{graph: g, deps: deps}, nil
}

// Graph returns the validated dependency graph
func (b *Binder) Graph() *Graph {
	return b.graph
}

// ChartState is the chart output of a session: a spec, or an error annotation in its place
type ChartState struct {
	Spec    *charts.ChartSpec `json:"spec,omitempty"`
	Kind    string            `json:"error_kind,omitempty"`
	Message string            `json:"error,omitempty"`
}

// Failed reports whether the chart could not be built
func (c ChartState) Failed() bool {
	return c.Kind != ""
}

// Session is one user's control values and derived outputs. Sessions are not safe for
// concurrent use; each event runs to completion before the next.
type Session struct {
	binder      *Binder
	selection   models.Selection
	fuelOptions []string
	fuelError   string
	chart       ChartState
}

// Update reports what an evaluation changed
type Update struct {
	Selection   models.Selection `json:"selection"`
	FuelOptions []string         `json:"fuel_options"`
	FuelError   string           `json:"fuel_error,omitempty"`
	Recomputed  []NodeID         `json:"recomputed"`
	Chart       *ChartState      `json:"chart,omitempty"`
}

// NewSession starts a session from initial control values and evaluates every derived node.
// As on first page load, the fuel type is reset to the default for the initial source type.
func (b *Binder) NewSession(initial models.Selection) (*Session, Update) {
	s := &Session{binder: b, selection: initial}
	recomputed := s.evaluate(b.graph.Order())
	return s, s.update(recomputed)
}

// Restore rebuilds a session from state a client carried, without recomputing anything
func (b *Binder) Restore(sel models.Selection, fuelOptions []string) *Session {
	fo := make([]string, len(fuelOptions))
	copy(fo, fuelOptions)
	return &Session{binder: b, selection: sel, fuelOptions: fo}
}

// Event is a single control change
type Event struct {
	Control NodeID      `json:"control"`
	Value   interface{} `json:"value"`
}

// Apply sets the changed control and recomputes only its descendants in topological order.
// Computation failures are recorded in the session; only malformed events return an error.
func (s *Session) Apply(ev Event) (Update, error) {
	if !s.binder.graph.IsInput(ev.Control) {
		return Update{}, fmt.Errorf("%w: %q", ErrUnknownControl, ev.Control)
	}
	if err := s.set(ev.Control, ev.Value); err != nil {
		return Update{}, err
	}

	recomputed := s.evaluate(s.binder.graph.Descendants(ev.Control))
	return s.update(recomputed), nil
}

// Selection returns the current control values
func (s *Session) Selection() models.Selection {
	return s.selection
}

// FuelOptions returns the fuel types offered for the current source type
func (s *Session) FuelOptions() []string {
	out := make([]string, len(s.fuelOptions))
	copy(out, s.fuelOptions)
	return out
}

// Chart returns the last computed chart state
func (s *Session) Chart() ChartState {
	return s.chart
}

func (s *Session) update(recomputed []NodeID) Update {
	u := Update{
		Selection:   s.selection,
		FuelOptions: s.FuelOptions(),
		FuelError:   s.fuelError,
		Recomputed:  recomputed,
	}
	for _, id := range recomputed {
		if id == Chart {
			c := s.chart
			u.Chart = &c
		}
	}
	return u
}

// evaluate recomputes the derived part of each node in order and returns the nodes that had any
func (s *Session) evaluate(ids []NodeID) []NodeID {
	recomputed := []NodeID{}
	for _, id := range ids {
		switch id {
		case FuelOptions:
			fuels, err := s.binder.deps.FuelOptions(s.selection.SourceType)
			s.fuelError = ""
			if err != nil {
				fuels = []string{}
				s.fuelError = errorKind(err)
			}
			s.fuelOptions = fuels
		case FuelType:
			fuel, err := options.DefaultFuelValue(s.fuelOptions)
			if err != nil && s.fuelError == "" {
				s.fuelError = errorKind(err)
			}
			s.selection.FuelType = fuel
		case Chart:
			spec, err := s.binder.deps.Chart(s.selection)
			if err != nil {
				s.chart = ChartState{Kind: errorKind(err), Message: err.Error()}
			} else {
				s.chart = ChartState{Spec: spec}
			}
		default:
			continue
		}
		recomputed = append(recomputed, id)
	}
	return recomputed
}

func (s *Session) set(id NodeID, value interface{}) error {
	switch id {
	case Year:
		y, err := toInt(value)
		if err != nil {
			return fmt.Errorf("%w: year: %v", ErrInvalidValue, err)
		}
		s.selection.Year = y
		return nil
	}

	v, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidValue, id, value)
	}
	switch id {
	case SourceType:
		s.selection.SourceType = v
	case Pollutant:
		s.selection.Pollutant = v
	case FuelType:
		s.selection.FuelType = v
	}
	return nil
}

func toInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%v is not a whole number", v)
		}
		return int(v), nil
	case json.Number:
		return toInt(string(v))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, options.ErrUnknownSourceType):
		return KindUnknownSourceType
	case errors.Is(err, options.ErrNoFuelOptions):
		return KindNoFuelOptions
	case errors.Is(err, charts.ErrNoDataForPollutant):
		return KindNoDataForPollutant
	default:
		return KindChartError
	}
}
