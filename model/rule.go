package model

import "fmt"

// Rule is the regulatory function of one species: a total table from the
// values of its regulators to the species' target value.
//
// Targets are stored flat in mixed radix, the first regulator being the most
// significant digit, so the table for regulators (B, C) with domains {0,1}
// and {0,1,2} is laid out as (0,0) (0,1) (0,2) (1,0) (1,1) (1,2).
// A rule without regulators holds exactly one target (a constant).
type Rule struct {
	regulators []int
	radix      []int
	targets    []int
}

// Regulators returns a copy of the regulator species indices in tuple order.
func (r *Rule) Regulators() []int {
	out := make([]int, len(r.regulators))
	copy(out, r.regulators)

	return out
}

// Arity returns the number of regulators.
func (r *Rule) Arity() int { return len(r.regulators) }

// Len returns the number of table entries (product of regulator domain sizes).
func (r *Rule) Len() int { return len(r.targets) }

// Target returns the target for a tuple of regulator values.
func (r *Rule) Target(tuple []int) (int, error) {
	if len(tuple) != len(r.regulators) {
		return 0, fmt.Errorf("%w: got %d values, want %d", ErrTupleArity, len(tuple), len(r.regulators))
	}
	off := 0
	for k, v := range tuple {
		if v < 0 || v >= r.radix[k] {
			return 0, fmt.Errorf("%w: value %d at position %d", ErrValueOutOfRange, v, k)
		}
		off = off*r.radix[k] + v
	}

	return r.targets[off], nil
}

// TargetAt reads the regulator values from a configuration indexed by species
// and returns the prescribed target. ok is false when a regulator value is
// negative (unassigned) or out of its domain.
func (r *Rule) TargetAt(cfg []int) (target int, ok bool) {
	off := 0
	for k, s := range r.regulators {
		v := cfg[s]
		if v < 0 || v >= r.radix[k] {
			return 0, false
		}
		off = off*r.radix[k] + v
	}

	return r.targets[off], true
}

// Entries calls fn for every table entry in ascending tuple order.
// The tuple slice is reused between calls; copy it to retain it.
func (r *Rule) Entries(fn func(tuple []int, target int)) {
	tuple := make([]int, len(r.regulators))
	for off, t := range r.targets {
		rem := off
		for k := len(r.radix) - 1; k >= 0; k-- {
			tuple[k] = rem % r.radix[k]
			rem /= r.radix[k]
		}
		fn(tuple, t)
	}
}

// offset converts a validated tuple into its table position.
func (r *Rule) offset(tuple []int) int {
	off := 0
	for k, v := range tuple {
		off = off*r.radix[k] + v
	}

	return off
}
