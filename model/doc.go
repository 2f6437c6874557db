// Package model describes qualitative models of regulatory networks and loads
// them from disk.
//
// What:
//
//   - Species: a regulated quantity with an integer domain [0, Max].
//   - Rule: a lookup table from the values of a species' regulators to the
//     value the species takes next. Rules are data, not callbacks, so callers
//     can ask which regulators a rule reads.
//   - Model: species in index order, one Rule per species and the global
//     maximum domain value (MaxValue).
//   - Builder: assembles a Model and performs the semantic control: every
//     regulator exists, every regulator-value combination has exactly one
//     target, and every target lies inside the regulated species' domain.
//
// Formats:
//
// The line format holds one species per line:
//
//	NAME:MAX [<- REG{,REG}] [: TUPLE=TARGET{; TUPLE=TARGET}] [| DEFAULT]
//
// Tuple values are separated by spaces and listed in regulator order. The
// optional default covers every combination that is not listed. Lines
// starting with '#' are comments. For example:
//
//	A:1 <- B : 0=0; 1=1
//	B:1 <- A : 0=0; 1=1
//	C:2 | 2
//
// Files ending in .yaml or .yml are decoded as YAML documents with a list of
// species, see LoadYAML.
//
// Species are ordered by name whatever the input order, so the species index
// of a given model file is stable.
//
// Errors:
//
//   - ErrSyntax (via *SyntaxError)  malformed model text
//   - ErrEmptyModel                  no species declared
//   - ErrDuplicateSpecies, ErrInvalidName, ErrNegativeMax
//   - ErrUnknownSpecies, ErrMissingRule, ErrUnknownRegulator, ErrDuplicateRegulator
//   - ErrTupleArity, ErrValueOutOfRange, ErrDuplicateEntry
//   - ErrIncompleteRule, ErrTargetOutOfRange, ErrRuleTooLarge
//   - ErrModelNotFound, ErrNotRegularFile
package model
