package model

import (
	"fmt"
	"regexp"
	"sort"
)

// namePattern is the accepted shape of species names in every format.
var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidName reports whether name is an acceptable species name.
func ValidName(name string) bool { return namePattern.MatchString(name) }

// Entry is one row of a rule table: the regulator values (in regulator order)
// and the target they prescribe.
type Entry struct {
	When   []int
	Target int
}

// RuleOption customizes a rule declared with Builder.SetRule.
type RuleOption func(*ruleDecl)

// WithDefault sets the target used for every combination not listed explicitly.
func WithDefault(target int) RuleOption {
	return func(d *ruleDecl) {
		t := target
		d.def = &t
	}
}

type ruleDecl struct {
	regulators []string
	entries    []Entry
	def        *int
}

type speciesDecl struct {
	name string
	max  int
	rule *ruleDecl
}

// Builder assembles a Model from species and rule declarations.
// Build performs the semantic control; a Builder is not safe for concurrent use.
type Builder struct {
	name    string
	species []speciesDecl
	byName  map[string]int
	sorted  bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{byName: make(map[string]int)}
}

// SetName sets Model.Name of the built model.
func (b *Builder) SetName(name string) *Builder {
	b.name = name

	return b
}

// SortByName makes Build order species by name instead of declaration order.
func (b *Builder) SortByName() *Builder {
	b.sorted = true

	return b
}

// AddSpecies declares a species with domain [0, maxValue].
func (b *Builder) AddSpecies(name string, maxValue int) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if _, dup := b.byName[name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateSpecies, name)
	}
	if maxValue < 0 {
		return fmt.Errorf("model: species %q: %w: %d", name, ErrNegativeMax, maxValue)
	}
	b.byName[name] = len(b.species)
	b.species = append(b.species, speciesDecl{name: name, max: maxValue})

	return nil
}

// SetRule declares the rule of an already added species. Regulators are
// referenced by name and may be declared later; they are resolved by Build.
// A second call for the same species replaces the first.
func (b *Builder) SetRule(name string, regulators []string, entries []Entry, opts ...RuleOption) error {
	i, ok := b.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSpecies, name)
	}
	d := &ruleDecl{
		regulators: append([]string(nil), regulators...),
		entries:    make([]Entry, len(entries)),
	}
	for k, e := range entries {
		d.entries[k] = Entry{When: append([]int(nil), e.When...), Target: e.Target}
	}
	for _, opt := range opts {
		opt(d)
	}
	b.species[i].rule = d

	return nil
}

// Build runs the semantic control and returns the Model.
//
// Checks, in order: at least one species; every species has a rule; every
// regulator exists and is listed once; every entry has the right arity, values
// inside the regulators' domains and a target inside the species' domain; no
// tuple is listed twice; every combination has a target (explicit or default).
func (b *Builder) Build() (*Model, error) {
	if len(b.species) == 0 {
		return nil, ErrEmptyModel
	}

	order := make([]int, len(b.species))
	for i := range order {
		order[i] = i
	}
	if b.sorted {
		sort.SliceStable(order, func(x, y int) bool {
			return b.species[order[x]].name < b.species[order[y]].name
		})
	}

	m := &Model{
		Name:    b.name,
		Species: make([]Species, len(order)),
		Rules:   make([]*Rule, len(order)),
		index:   make(map[string]int, len(order)),
	}
	for idx, di := range order {
		d := b.species[di]
		m.Species[idx] = Species{Index: idx, Name: d.name, Max: d.max}
		m.index[d.name] = idx
		if d.max > m.MaxValue {
			m.MaxValue = d.max
		}
	}

	for idx, di := range order {
		rule, err := b.compileRule(m, m.Species[idx], b.species[di].rule)
		if err != nil {
			return nil, err
		}
		m.Rules[idx] = rule
	}

	return m, nil
}

// MaxRuleEntries caps the number of regulator combinations of one rule.
const MaxRuleEntries = 1 << 22

// compileRule resolves regulator names and fills the flat target table.
func (b *Builder) compileRule(m *Model, sp Species, d *ruleDecl) (*Rule, error) {
	if d == nil {
		return nil, fmt.Errorf("model: species %q: %w", sp.Name, ErrMissingRule)
	}

	r := &Rule{
		regulators: make([]int, len(d.regulators)),
		radix:      make([]int, len(d.regulators)),
	}
	seen := make(map[int]bool, len(d.regulators))
	size := 1
	for k, name := range d.regulators {
		ri, ok := m.index[name]
		if !ok {
			return nil, fmt.Errorf("model: species %q: %w: %q", sp.Name, ErrUnknownRegulator, name)
		}
		if seen[ri] {
			return nil, fmt.Errorf("model: species %q: %w: %q", sp.Name, ErrDuplicateRegulator, name)
		}
		seen[ri] = true
		r.regulators[k] = ri
		r.radix[k] = m.Species[ri].Size()
		if size > MaxRuleEntries/r.radix[k] {
			return nil, fmt.Errorf("model: species %q: %w: more than %d combinations",
				sp.Name, ErrRuleTooLarge, MaxRuleEntries)
		}
		size *= r.radix[k]
	}

	// -1 marks combinations without a target yet.
	r.targets = make([]int, size)
	for off := range r.targets {
		r.targets[off] = -1
	}

	for _, e := range d.entries {
		if len(e.When) != len(r.regulators) {
			return nil, fmt.Errorf("model: species %q: %w: %v has %d values, want %d",
				sp.Name, ErrTupleArity, e.When, len(e.When), len(r.regulators))
		}
		for k, v := range e.When {
			if v < 0 || v >= r.radix[k] {
				return nil, fmt.Errorf("model: species %q: %w: %s=%d",
					sp.Name, ErrValueOutOfRange, d.regulators[k], v)
			}
		}
		if e.Target < 0 || e.Target > sp.Max {
			return nil, fmt.Errorf("model: species %q: %w: %d not in [0,%d]",
				sp.Name, ErrTargetOutOfRange, e.Target, sp.Max)
		}
		off := r.offset(e.When)
		if r.targets[off] >= 0 {
			return nil, fmt.Errorf("model: species %q: %w: %v", sp.Name, ErrDuplicateEntry, e.When)
		}
		r.targets[off] = e.Target
	}

	if d.def != nil && (*d.def < 0 || *d.def > sp.Max) {
		return nil, fmt.Errorf("model: species %q: %w: default %d not in [0,%d]",
			sp.Name, ErrTargetOutOfRange, *d.def, sp.Max)
	}

	var missing []int
	for off, t := range r.targets {
		if t >= 0 {
			continue
		}
		if d.def != nil {
			r.targets[off] = *d.def
			continue
		}
		missing = append(missing, off)
	}
	if len(missing) > 0 {
		first := make([]int, len(r.regulators))
		rem := missing[0]
		for k := len(r.radix) - 1; k >= 0; k-- {
			first[k] = rem % r.radix[k]
			rem /= r.radix[k]
		}
		return nil, fmt.Errorf("model: species %q: %w: %d combination(s) undefined, first %v",
			sp.Name, ErrIncompleteRule, len(missing), first)
	}

	return r, nil
}
