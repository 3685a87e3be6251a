package binder

import (
	"fmt"
	"sort"
	"strings"
)

// NodeID names a control or derived output in the dependency graph
type NodeID string

// Dashboard nodes
const (
	SourceType  NodeID = "source_type"
	Pollutant   NodeID = "pollutant"
	Year        NodeID = "year"
	FuelOptions NodeID = "fuel_options"
	FuelType    NodeID = "fuel_type"
	Chart       NodeID = "chart"
)

// Node declares one vertex: whether users can set it directly and which nodes it is computed from
type Node struct {
	ID    NodeID
	Input bool
	Deps  []NodeID
}

// DashboardNodes is the dependency declaration of the dashboard: source type drives the fuel
// options, the fuel options reset the fuel type, and all four controls drive the chart.
var DashboardNodes = []Node{
	{ID: SourceType, Input: true},
	{ID: Pollutant, Input: true},
	{ID: Year, Input: true},
	{ID: FuelOptions, Deps: []NodeID{SourceType}},
	{ID: FuelType, Input: true, Deps: []NodeID{FuelOptions}},
	{ID: Chart, Deps: []NodeID{SourceType, FuelType, Pollutant, Year}},
}

// Graph is a validated, topologically ordered dependency graph
type Graph struct {
	nodes    map[NodeID]Node
	order    []NodeID
	position map[NodeID]int
	children map[NodeID][]NodeID
}

// NewGraph validates nodes and orders them with Kahn's algorithm. Ties keep declaration order.
// Duplicate IDs, unknown dependencies and cycles are errors.
func NewGraph(nodes []Node) (*Graph, error) {
	g := &Graph{
		nodes:    make(map[NodeID]Node, len(nodes)),
		position: make(map[NodeID]int, len(nodes)),
		children: make(map[NodeID][]NodeID, len(nodes)),
	}

	declared := make(map[NodeID]int, len(nodes))
	for i, n := range nodes {
		if _, dup := g.nodes[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node %q", n.ID)
		}
		g.nodes[n.ID] = n
		declared[n.ID] = i
	}

	indegree := make(map[NodeID]int, len(nodes))
	for _, n := range nodes {
		for _, d := range n.Deps {
			if _, ok := g.nodes[d]; !ok {
				return nil, fmt.Errorf("node %q depends on unknown node %q", n.ID, d)
			}
			g.children[d] = append(g.children[d], n.ID)
			indegree[n.ID]++
		}
	}

	var ready []NodeID
	for _, n := range nodes {
		if indegree[n.ID] == 0 {
			ready = append(ready, n.ID)
		}
	}

	for len(ready) > 0 {
		sort.SliceStable(ready, func(i, j int) bool { return declared[ready[i]] < declared[ready[j]] })
		id := ready[0]
		ready = ready[1:]

		g.position[id] = len(g.order)
		g.order = append(g.order, id)
		for _, c := range g.children[id] {
			indegree[c]--
			if indegree[c] == 0 {
				ready = append(ready, c)
			}
		}
	}

	if len(g.order) != len(nodes) {
		var stuck []string
		for _, n := range nodes {
			if _, ok := g.position[n.ID]; !ok {
				stuck = append(stuck, string(n.ID))
			}
		}
		return nil, fmt.Errorf("dependency cycle among nodes: %s", strings.Join(stuck, ", "))
	}
	return g, nil
}

// Order returns every node in evaluation order
func (g *Graph) Order() []NodeID {
	out := make([]NodeID, len(g.order))
	copy(out, g.order)
	return out
}

// IsInput reports whether id can be set by a control event
func (g *Graph) IsInput(id NodeID) bool {
	n, ok := g.nodes[id]
	return ok && n.Input
}

// Descendants returns every node reachable from id, excluding id, in evaluation order
func (g *Graph) Descendants(id NodeID) []NodeID {
	seen := map[NodeID]bool{id: true}
	stack := append([]NodeID(nil), g.children[id]...)
	var out []NodeID
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
		stack = append(stack, g.children[n]...)
	}
	sort.Slice(out, func(i, j int) bool { return g.position[out[i]] < g.position[out[j]] })
	return out
}
