package steady

import (
	"fmt"

	"github.com/katalvlaran/steadyspace/model"
)

// frame is the choice state of one search level (one species).
type frame struct {
	species  int
	next     int   // next candidate value to try
	assigned bool  // values[species] holds this frame's current candidate
	trail    []int // species whose forced value this assignment set
}

// Engine is the resumable steady-state enumerator. Construct it with
// NewEngine and call Next until it reports exhaustion.
type Engine struct {
	model  *model.Model
	bounds *Bounds
	cons   *Constraints
	n      int

	state State
	stats Stats

	// Search node: the partial configuration and, per species, the value
	// its rule forces once its regulators are fixed (Unassigned if none).
	values []int
	forced []int

	// Explicit backtracking stack; stack[:depth] are live frames.
	// Capacity is n, so frame pointers stay valid across pushes.
	stack []frame
	depth int
}

// NewEngine prepares an Engine for m. Every species is first restricted to
// its declared maximum, then the bound overrides from opts are applied in
// order. Bound failures are reported as *BoundError; no search happens.
func NewEngine(m *model.Model, opts ...Option) (*Engine, error) {
	// 1. Validate input model.
	if m == nil {
		return nil, ErrNilModel
	}
	n := m.Len()
	if n == 0 {
		return nil, ErrEmptyModel
	}

	// 2. Apply options.
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	// 3. Bounds from the declared maxima.
	bounds, err := NewBounds(n, m.MaxValue)
	if err != nil {
		return nil, err
	}
	for s, sp := range m.Species {
		if err = bounds.Restrict(s, sp.Max); err != nil {
			return nil, &BoundError{Species: sp.Name, Err: err}
		}
	}

	// 4. Tightening-only overrides.
	for _, ov := range o.Bounds {
		if err = applyOverride(m, bounds, ov); err != nil {
			return nil, err
		}
	}

	// 5. Compile rules and allocate the search state.
	e := &Engine{
		model:  m,
		bounds: bounds,
		cons:   Compile(m),
		n:      n,
		values: make([]int, n),
		forced: make([]int, n),
		stack:  make([]frame, n),
	}
	e.clear()

	return e, nil
}

// applyOverride validates one override against the declared maximum and
// narrows the bounds.
func applyOverride(m *model.Model, bounds *Bounds, ov BoundOverride) error {
	s, ok := m.Index(ov.Species)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSpecies, ov.Species)
	}
	sp := m.Species[s]
	if ov.Lo < 0 || ov.Hi < ov.Lo {
		return &BoundError{Species: sp.Name, Err: fmt.Errorf("%w: [%d,%d]", ErrInvalidBound, ov.Lo, ov.Hi)}
	}
	if ov.Hi > sp.Max {
		return &BoundError{Species: sp.Name, Err: fmt.Errorf("%w: %d > %d", ErrBoundWidening, ov.Hi, sp.Max)}
	}
	if err := bounds.RestrictRange(s, ov.Lo, ov.Hi); err != nil {
		return &BoundError{Species: sp.Name, Err: err}
	}

	return nil
}

// Model returns the model being solved.
func (e *Engine) Model() *model.Model { return e.model }

// Bounds returns a copy of the admissible sets in force.
func (e *Engine) Bounds() *Bounds { return e.bounds.Clone() }

// Constraints returns the compiled rules.
func (e *Engine) Constraints() *Constraints { return e.cons }

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// Stats returns the search counters.
func (e *Engine) Stats() Stats { return e.stats }

// Reset discards the search frontier and counters; the next call to Next
// starts over from the first steady state. Bounds are kept.
func (e *Engine) Reset() {
	e.clear()
	e.stats = Stats{}
}

// clear empties the search node and stack and returns to Ready.
func (e *Engine) clear() {
	for s := range e.values {
		e.values[s] = Unassigned
		e.forced[s] = Unassigned
	}
	e.depth = 0
	e.state = Ready
}

// Next returns the next steady state in lexicographic order, or (nil, false)
// once every steady state has been produced. After exhaustion it keeps
// returning (nil, false). The returned slice is owned by the caller.
func (e *Engine) Next() ([]int, bool) {
	switch e.state {
	case Exhausted:
		return nil, false
	case Ready:
		e.state = Searching
		if !e.start() {
			e.exhaust()
			return nil, false
		}
	}

	for e.depth > 0 {
		f := &e.stack[e.depth-1]

		// 1. Undo the previous candidate of this level, if any.
		if f.assigned {
			e.unassign(f)
		}

		// 2. Pick the next candidate; an exhausted level backtracks.
		v, ok := e.candidate(f)
		if !ok {
			e.depth--
			continue
		}

		// 3. Assign and propagate; a violation prunes the subtree.
		e.stats.Nodes++
		if !e.assign(f, v) {
			e.stats.Prunes++
			continue
		}

		// 4. Full assignment: report it and leave the frame in place so the
		//    next call resumes with this level's following candidate.
		if f.species == e.n-1 {
			if e.cons.Check(e.values) != Satisfied {
				e.stats.Prunes++
				continue
			}
			e.stats.Solutions++
			out := make([]int, e.n)
			copy(out, e.values)

			return out, true
		}

		// 5. Descend.
		e.push(f.species + 1)
	}

	e.exhaust()

	return nil, false
}

// start forces constant rules and pushes the root frame. It returns false
// when a constant target lies outside its species' bounds.
func (e *Engine) start() bool {
	for _, s := range e.cons.forceRoot {
		t, _ := e.cons.Target(s, e.values)
		if !e.bounds.Admits(s, t) {
			return false
		}
		e.forced[s] = t
	}
	e.push(0)

	return true
}

func (e *Engine) exhaust() {
	e.depth = 0
	e.state = Exhausted
}

func (e *Engine) push(s int) {
	f := &e.stack[e.depth]
	f.species = s
	f.next = 0
	f.assigned = false
	f.trail = f.trail[:0]
	e.depth++
}

// candidate returns the next value of f's species that is admissible and
// not excluded by an already forced target, advancing f.next past it.
func (e *Engine) candidate(f *frame) (int, bool) {
	s := f.species
	if t := e.forced[s]; t != Unassigned {
		if f.next > t {
			return 0, false
		}
		f.next = t + 1

		return t, true
	}
	for v := f.next; v <= e.bounds.MaxValue(); v++ {
		if e.bounds.Admits(s, v) {
			f.next = v + 1

			return v, true
		}
	}
	f.next = e.bounds.MaxValue() + 1

	return 0, false
}

// assign sets f's species to v and propagates. The frame is marked assigned
// even when propagation fails so that unassign rolls back partial effects.
func (e *Engine) assign(f *frame, v int) bool {
	s := f.species
	e.values[s] = v
	f.assigned = true

	// Rules that just became conclusive.
	for _, r := range e.cons.checkAt[s] {
		if e.cons.Evaluate(r, e.values) == Violated {
			return false
		}
	}

	// Later species whose regulators are now all fixed.
	for _, t := range e.cons.forceAt[s] {
		target, _ := e.cons.Target(t, e.values)
		if !e.bounds.Admits(t, target) {
			return false
		}
		e.forced[t] = target
		f.trail = append(f.trail, t)
	}

	return true
}

func (e *Engine) unassign(f *frame) {
	e.values[f.species] = Unassigned
	for _, t := range f.trail {
		e.forced[t] = Unassigned
	}
	f.trail = f.trail[:0]
	f.assigned = false
}
