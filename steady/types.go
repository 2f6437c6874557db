package steady

import (
	"errors"
	"fmt"
	"sort"
)

// Unassigned marks a species without a value in a partial configuration.
const Unassigned = -1

var (
	// ErrNilModel is returned when NewEngine receives a nil model.
	ErrNilModel = errors.New("steady: model is nil")

	// ErrEmptyModel is returned for a model without species.
	ErrEmptyModel = errors.New("steady: model has no species")

	// ErrUnknownSpecies indicates a bound override for a species the model lacks.
	ErrUnknownSpecies = errors.New("steady: unknown species")

	// ErrBoundWidening indicates an override whose ceiling exceeds the
	// species' declared maximum. Overrides may only tighten a domain.
	ErrBoundWidening = errors.New("steady: bound exceeds declared maximum")

	// ErrInvalidBound indicates a negative or inverted bound range.
	ErrInvalidBound = errors.New("steady: invalid bound")

	// ErrEmptyDomain indicates that bounds leave a species without any
	// admissible value: the model is infeasible under these bounds.
	ErrEmptyDomain = errors.New("steady: empty domain")

	// ErrSpeciesOutOfRange indicates a species index outside the Bounds.
	ErrSpeciesOutOfRange = errors.New("steady: species index out of range")
)

// BoundError reports a bound that could not be applied to a named species.
type BoundError struct {
	Species string
	Err     error
}

// Error implements error.
func (e *BoundError) Error() string {
	return fmt.Sprintf("steady: species %q: %v", e.Species, e.Err)
}

// Unwrap exposes the underlying sentinel to errors.Is.
func (e *BoundError) Unwrap() error { return e.Err }

// Verdict is the three-valued result of evaluating one rule against a
// possibly partial configuration.
type Verdict uint8

const (
	// Undetermined: the species or one of its regulators is unassigned.
	Undetermined Verdict = iota
	// Satisfied: the rule prescribes the species' current value.
	Satisfied
	// Violated: the rule prescribes a different value.
	Violated
)

// String implements fmt.Stringer.
func (v Verdict) String() string {
	switch v {
	case Satisfied:
		return "satisfied"
	case Violated:
		return "violated"
	default:
		return "undetermined"
	}
}

// State is the lifecycle state of an Engine.
type State uint8

const (
	// Ready: constructed, no configuration requested yet.
	Ready State = iota
	// Searching: at least one configuration was requested and the search
	// frontier is not empty.
	Searching
	// Exhausted: every configuration has been produced. Terminal.
	Exhausted
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Searching:
		return "searching"
	default:
		return "exhausted"
	}
}

// Stats counts search work since construction or the last Reset.
type Stats struct {
	// Nodes is the number of tentative assignments.
	Nodes uint64
	// Prunes is the number of tentative assignments rejected by propagation.
	Prunes uint64
	// Solutions is the number of steady states returned.
	Solutions uint64
}

// BoundOverride narrows the named species to [Lo, Hi] before search.
type BoundOverride struct {
	Species string
	Lo, Hi  int
}

// Options configures an Engine.
type Options struct {
	// Bounds are applied in order after every species has been restricted
	// to its declared maximum.
	Bounds []BoundOverride
}

// Option configures optional Engine behavior.
type Option func(*Options)

// DefaultOptions returns Options without bound overrides.
func DefaultOptions() Options {
	return Options{}
}

// WithBound restricts the named species to values at most ceiling.
func WithBound(species string, ceiling int) Option {
	return func(o *Options) {
		o.Bounds = append(o.Bounds, BoundOverride{Species: species, Lo: 0, Hi: ceiling})
	}
}

// WithBoundRange restricts the named species to values in [lo, hi].
func WithBoundRange(species string, lo, hi int) Option {
	return func(o *Options) {
		o.Bounds = append(o.Bounds, BoundOverride{Species: species, Lo: lo, Hi: hi})
	}
}

// WithBounds applies a ceiling per species name. Names are applied in sorted
// order so that the first reported error does not depend on map iteration.
func WithBounds(ceilings map[string]int) Option {
	return func(o *Options) {
		names := make([]string, 0, len(ceilings))
		for name := range ceilings {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			o.Bounds = append(o.Bounds, BoundOverride{Species: name, Lo: 0, Hi: ceilings[name]})
		}
	}
}
