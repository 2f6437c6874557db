package network

import (
	"fmt"
	"sort"
)

// Colours for the per-root DFS. Gray vertices are on the current path.
const (
	white = iota
	gray
)

// loopFinder holds the DFS state of one FeedbackLoops call.
type loopFinder struct {
	g     *Graph
	root  int
	state []int
	path  []int
	loops []Loop
	limit int
	full  bool
}

// FeedbackLoops returns every elementary circuit of g, self-regulations
// included. With WithMaxLoops the result is truncated and ErrLoopLimit is
// returned alongside the loops found so far.
func (g *Graph) FeedbackLoops(opts ...Option) ([]Loop, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	f := &loopFinder{
		g:     g,
		state: make([]int, g.Len()),
		limit: o.MaxLoops,
	}

	// 1. Root the search at each species in turn, only walking species with
	//    a larger index, so each circuit is found once from its minimum.
	for root := 0; root < g.Len() && !f.full; root++ {
		f.root = root
		f.visit(root)
	}

	// 2. Deterministic order: shorter loops first, then by indices.
	sort.Slice(f.loops, func(i, j int) bool {
		a, b := f.loops[i].Species, f.loops[j].Species
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}

		return false
	})

	if f.full {
		return f.loops, fmt.Errorf("%w: %d", ErrLoopLimit, f.limit)
	}

	return f.loops, nil
}

func (f *loopFinder) visit(v int) {
	f.state[v] = gray
	f.path = append(f.path, v)

	for _, e := range f.g.out[v] {
		if f.full {
			break
		}
		switch {
		case e.To == f.root:
			f.record()
		case e.To > f.root && f.state[e.To] == white:
			f.visit(e.To)
		}
	}

	f.path = f.path[:len(f.path)-1]
	f.state[v] = white
}

func (f *loopFinder) record() {
	species := append([]int(nil), f.path...)
	f.loops = append(f.loops, Loop{Species: species, Sign: f.g.loopSign(species)})
	if f.limit > 0 && len(f.loops) >= f.limit {
		f.full = true
	}
}

// loopSign multiplies the edge signs around the circuit.
func (g *Graph) loopSign(species []int) LoopSign {
	inhibitions := 0
	for i, s := range species {
		e, _ := g.Edge(s, species[(i+1)%len(species)])
		switch e.Sign {
		case Inhibiting:
			inhibitions++
		case Activating:
		default:
			return Ambiguous
		}
	}
	if inhibitions%2 == 0 {
		return Positive
	}

	return Negative
}
