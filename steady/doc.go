// Package steady enumerates the steady states of a regulatory network model.
//
// A steady state is a configuration (one value per species) in which every
// species' rule, applied to the configuration, prescribes exactly the value
// the configuration already assigns to that species.
//
// What:
//
//   - Bounds: per-species admissible values, sized uniformly by the model's
//     global maximum and narrowed before search (Restrict, RestrictRange).
//   - Constraints: the rules compiled into three-valued predicates over a
//     partial configuration (Satisfied, Violated, Undetermined), together
//     with the search depth at which each rule becomes conclusive.
//   - Engine: a resumable depth-first enumerator. Each call to Next returns
//     the following steady state or reports exhaustion. The backtracking
//     frontier lives in an explicit stack of per-level frames, so the search
//     resumes exactly where the previous call stopped.
//
// Search:
//
// Species are assigned in index order, values in increasing order, which
// makes the output lexicographic. After each tentative assignment:
//
//  1. every rule whose species and regulators are now all assigned is
//     evaluated; a Violated verdict prunes the subtree;
//  2. every later species whose regulators are now all assigned has its
//     admissible set narrowed to the prescribed target, or the subtree is
//     pruned when that target is outside the species' bounds.
//
// Values are only discarded when a conclusive rule rules them out, so every
// steady state inside the bounds is produced exactly once.
//
// Errors:
//
//   - ErrNilModel, ErrEmptyModel     invalid input model
//   - ErrUnknownSpecies              bound override names no species
//   - ErrBoundWidening               override above the declared maximum
//   - ErrInvalidBound                negative or inverted override range
//   - ErrEmptyDomain                 bounds leave a species without values
//   - ErrSpeciesOutOfRange           Bounds called with a bad species index
//
// Bound errors raised by NewEngine are *BoundError values naming the species.
// An unsatisfiable model is not an error: Next simply reports exhaustion.
//
// Concurrency:
//
// An Engine is single-threaded and owns all of its state. Distinct engines
// share nothing and may run on different goroutines.
package steady
