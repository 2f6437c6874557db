package network

import (
	"strings"

	"github.com/katalvlaran/steadyspace/model"
)

// Graph is the immutable signed interaction graph of a model.
// Adjacency lists are ordered by the opposite endpoint's index.
type Graph struct {
	model *model.Model
	edges []Edge
	out   [][]Edge // out[s]: species regulated by s
	in    [][]Edge // in[s]: regulators of s, in rule tuple order
}

// New builds the graph of m.
func New(m *model.Model) (*Graph, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	n := m.Len()
	g := &Graph{
		model: m,
		out:   make([][]Edge, n),
		in:    make([][]Edge, n),
	}

	// One edge per (regulator, target) pair, signed from the table. Targets
	// are visited in index order, which keeps out[] sorted.
	for s := 0; s < n; s++ {
		rule := m.Rule(s)
		for k, r := range rule.Regulators() {
			e := Edge{From: r, To: s, Sign: signOf(m, rule, k)}
			g.in[s] = append(g.in[s], e)
			g.out[r] = append(g.out[r], e)
			g.edges = append(g.edges, e)
		}
	}

	return g, nil
}

// signOf compares targets across every unit increase of regulator k.
func signOf(m *model.Model, rule *model.Rule, k int) EdgeSign {
	regs := rule.Regulators()
	top := m.Species[regs[k]].Max
	var up, down bool
	next := make([]int, len(regs))
	rule.Entries(func(tuple []int, target int) {
		if tuple[k] == top {
			return
		}
		copy(next, tuple)
		next[k]++
		t, err := rule.Target(next)
		if err != nil {
			return
		}
		switch {
		case t > target:
			up = true
		case t < target:
			down = true
		}
	})

	switch {
	case up && down:
		return Dual
	case up:
		return Activating
	case down:
		return Inhibiting
	default:
		return NonFunctional
	}
}

// Model returns the underlying model.
func (g *Graph) Model() *model.Model { return g.model }

// Len returns the number of species (vertices).
func (g *Graph) Len() int { return len(g.out) }

// Edges returns every edge, grouped by target in index order.
func (g *Graph) Edges() []Edge { return append([]Edge(nil), g.edges...) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Regulators returns the incoming edges of s in rule tuple order.
func (g *Graph) Regulators(s int) []Edge { return append([]Edge(nil), g.in[s]...) }

// Targets returns the outgoing edges of s ordered by target index.
func (g *Graph) Targets(s int) []Edge { return append([]Edge(nil), g.out[s]...) }

// Edge returns the edge from → to, if any.
func (g *Graph) Edge(from, to int) (Edge, bool) {
	if to < 0 || to >= len(g.in) {
		return Edge{}, false
	}
	for _, e := range g.in[to] {
		if e.From == from {
			return e, true
		}
	}

	return Edge{}, false
}

// Degree returns the in- and out-degree of s.
func (g *Graph) Degree(s int) (in, out int) { return len(g.in[s]), len(g.out[s]) }

// Inputs returns the species whose rule reads no regulator, in index order.
func (g *Graph) Inputs() []int {
	var out []int
	for s, in := range g.in {
		if len(in) == 0 {
			out = append(out, s)
		}
	}

	return out
}

// FormatLoop renders a loop as "A -> B -| A", using -> for activation,
// -| for inhibition, -? for dual and -0 for non-functional edges.
func (g *Graph) FormatLoop(l Loop) string {
	var sb strings.Builder
	for i, s := range l.Species {
		next := l.Species[(i+1)%len(l.Species)]
		sb.WriteString(g.model.Species[s].Name)
		e, _ := g.Edge(s, next)
		switch e.Sign {
		case Activating:
			sb.WriteString(" -> ")
		case Inhibiting:
			sb.WriteString(" -| ")
		case Dual:
			sb.WriteString(" -? ")
		default:
			sb.WriteString(" -0 ")
		}
	}
	if len(l.Species) > 0 {
		sb.WriteString(g.model.Species[l.Species[0]].Name)
	}

	return sb.String()
}
