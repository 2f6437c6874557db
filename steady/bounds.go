package steady

import "fmt"

// Bounds holds, per species, the admissible subset of [0, maxValue].
// Storage is one flat row of maxValue+1 flags per species.
type Bounds struct {
	n       int
	width   int
	allowed []bool
	size    []int
}

// NewBounds returns Bounds where each of the species admits every value in
// [0, maxValue].
func NewBounds(species, maxValue int) (*Bounds, error) {
	if species < 0 || maxValue < 0 {
		return nil, fmt.Errorf("%w: %d species, maximum %d", ErrInvalidBound, species, maxValue)
	}
	b := &Bounds{
		n:       species,
		width:   maxValue + 1,
		allowed: make([]bool, species*(maxValue+1)),
		size:    make([]int, species),
	}
	for i := range b.allowed {
		b.allowed[i] = true
	}
	for s := range b.size {
		b.size[s] = b.width
	}

	return b, nil
}

// Species returns the number of species.
func (b *Bounds) Species() int { return b.n }

// MaxValue returns the global maximum the storage was sized for.
func (b *Bounds) MaxValue() int { return b.width - 1 }

// Restrict narrows species s to values at most ceiling.
func (b *Bounds) Restrict(s, ceiling int) error {
	return b.RestrictRange(s, 0, ceiling)
}

// RestrictRange narrows species s to values in [lo, hi]. When no admissible
// value would remain it returns ErrEmptyDomain and leaves s unchanged.
func (b *Bounds) RestrictRange(s, lo, hi int) error {
	if s < 0 || s >= b.n {
		return fmt.Errorf("%w: %d", ErrSpeciesOutOfRange, s)
	}
	if lo < 0 {
		lo = 0
	}

	// 1. Count survivors first so a failing call changes nothing.
	row := b.allowed[s*b.width : (s+1)*b.width]
	keep := 0
	for v := lo; v <= hi && v < b.width; v++ {
		if row[v] {
			keep++
		}
	}
	if keep == 0 {
		return fmt.Errorf("%w: species %d has no value in [%d,%d]", ErrEmptyDomain, s, lo, hi)
	}

	// 2. Clear everything outside [lo, hi].
	for v := range row {
		if v < lo || v > hi {
			row[v] = false
		}
	}
	b.size[s] = keep

	return nil
}

// Admits reports whether species s may take value v.
func (b *Bounds) Admits(s, v int) bool {
	if s < 0 || s >= b.n || v < 0 || v >= b.width {
		return false
	}

	return b.allowed[s*b.width+v]
}

// Size returns the number of admissible values of species s.
func (b *Bounds) Size(s int) int {
	if s < 0 || s >= b.n {
		return 0
	}

	return b.size[s]
}

// Floor returns the smallest admissible value of s, or -1 if none.
func (b *Bounds) Floor(s int) int {
	for v := 0; v < b.width; v++ {
		if b.Admits(s, v) {
			return v
		}
	}

	return -1
}

// Ceiling returns the largest admissible value of s, or -1 if none.
func (b *Bounds) Ceiling(s int) int {
	for v := b.width - 1; v >= 0; v-- {
		if b.Admits(s, v) {
			return v
		}
	}

	return -1
}

// Values returns the admissible values of s in increasing order.
func (b *Bounds) Values(s int) []int {
	out := make([]int, 0, b.Size(s))
	for v := 0; v < b.width; v++ {
		if b.Admits(s, v) {
			out = append(out, v)
		}
	}

	return out
}

// Clone returns an independent copy.
func (b *Bounds) Clone() *Bounds {
	c := &Bounds{
		n:       b.n,
		width:   b.width,
		allowed: make([]bool, len(b.allowed)),
		size:    make([]int, len(b.size)),
	}
	copy(c.allowed, b.allowed)
	copy(c.size, b.size)

	return c
}
