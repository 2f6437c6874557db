package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for model construction and loading.
var (
	// ErrSyntax indicates malformed model text. Concrete errors are *SyntaxError.
	ErrSyntax = errors.New("model: syntax error")

	// ErrEmptyModel indicates a model without any species.
	ErrEmptyModel = errors.New("model: no species declared")

	// ErrInvalidName indicates an empty or malformed species name.
	ErrInvalidName = errors.New("model: invalid species name")

	// ErrDuplicateSpecies indicates two species with the same name.
	ErrDuplicateSpecies = errors.New("model: duplicate species")

	// ErrNegativeMax indicates a species declared with a maximum below zero.
	ErrNegativeMax = errors.New("model: negative maximum value")

	// ErrUnknownSpecies indicates a rule declared for a species that was never added.
	ErrUnknownSpecies = errors.New("model: unknown species")

	// ErrMissingRule indicates a species without a regulatory rule.
	ErrMissingRule = errors.New("model: species has no rule")

	// ErrUnknownRegulator indicates a rule reading a species that is not declared.
	ErrUnknownRegulator = errors.New("model: unknown regulator")

	// ErrDuplicateRegulator indicates a regulator listed twice in one rule.
	ErrDuplicateRegulator = errors.New("model: duplicate regulator")

	// ErrTupleArity indicates a tuple whose length differs from the regulator count.
	ErrTupleArity = errors.New("model: tuple length does not match regulators")

	// ErrValueOutOfRange indicates a tuple value outside its regulator's domain.
	ErrValueOutOfRange = errors.New("model: regulator value out of range")

	// ErrDuplicateEntry indicates the same tuple listed twice in one rule.
	ErrDuplicateEntry = errors.New("model: duplicate rule entry")

	// ErrIncompleteRule indicates a regulator combination without a target.
	ErrIncompleteRule = errors.New("model: rule is not total")

	// ErrTargetOutOfRange indicates a target outside the regulated species' domain.
	ErrTargetOutOfRange = errors.New("model: target out of range")

	// ErrRuleTooLarge indicates a rule table with more than MaxRuleEntries combinations.
	ErrRuleTooLarge = errors.New("model: rule table too large")

	// ErrModelNotFound indicates the model path does not exist.
	ErrModelNotFound = errors.New("model: model file not found")

	// ErrNotRegularFile indicates the model path is a directory or device.
	ErrNotRegularFile = errors.New("model: model path is not a regular file")
)

// SyntaxError reports malformed model text with its 1-based line number.
// YAML decoding errors carry Line 0.
type SyntaxError struct {
	Line int
	Msg  string
}

// Error implements error.
func (e *SyntaxError) Error() string {
	if e.Line <= 0 {
		return "model: syntax error: " + e.Msg
	}

	return fmt.Sprintf("model: syntax error on line %d: %s", e.Line, e.Msg)
}

// Unwrap lets errors.Is(err, ErrSyntax) match every SyntaxError.
func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Species is one regulated quantity of the model.
type Species struct {
	// Index is the 0-based position of the species in Model.Species.
	Index int

	// Name identifies the species in model files and output headers.
	Name string

	// Max is the largest admissible value; the domain is [0, Max].
	Max int
}

// Size returns the number of values in the species' domain.
func (s Species) Size() int { return s.Max + 1 }

// Model is a loaded, semantically valid regulatory network.
// A Model is read-only once built.
type Model struct {
	// Name is the model file stem, or empty for models built in memory.
	Name string

	// Species lists all species in index order.
	Species []Species

	// Rules holds one rule per species, aligned with Species.
	Rules []*Rule

	// MaxValue is the largest Max over all species.
	MaxValue int

	index map[string]int
}

// Len returns the number of species.
func (m *Model) Len() int { return len(m.Species) }

// Index returns the index of the species called name.
func (m *Model) Index(name string) (int, bool) {
	if m.index != nil {
		i, ok := m.index[name]

		return i, ok
	}
	for i := range m.Species {
		if m.Species[i].Name == name {
			return i, true
		}
	}

	return -1, false
}

// Names returns the species names in index order.
func (m *Model) Names() []string {
	names := make([]string, len(m.Species))
	for i := range m.Species {
		names[i] = m.Species[i].Name
	}

	return names
}

// Rule returns the rule governing species i.
func (m *Model) Rule(i int) *Rule { return m.Rules[i] }

// FormatConfig renders a configuration as "A=0,B=1" in index order.
// Values at index >= len(Species) are ignored; negative values print as "?".
func (m *Model) FormatConfig(cfg []int) string {
	var sb strings.Builder
	for i := 0; i < len(cfg) && i < len(m.Species); i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(m.Species[i].Name)
		sb.WriteByte('=')
		if cfg[i] < 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteString(strconv.Itoa(cfg[i]))
		}
	}

	return sb.String()
}
