// Package network derives the signed interaction graph of a regulatory model
// and enumerates its feedback loops.
//
// Every rule dependency becomes a directed edge regulator → regulated species.
// The edge sign is read off the rule table by raising the regulator by one
// step while every other regulator is held fixed:
//
//   - Activating     the target never decreases and sometimes increases
//   - Inhibiting     the target never increases and sometimes decreases
//   - Dual           both happen, depending on the other regulators
//   - NonFunctional  the target never changes
//
// FeedbackLoops enumerates the elementary circuits of the graph. Each circuit
// is reported once, rotated so that it starts at its smallest species index,
// and loops are sorted by length then by species indices. A loop whose edges
// are all Activating or Inhibiting is Positive with an even number of
// inhibitions and Negative otherwise; any Dual or NonFunctional edge makes it
// Ambiguous.
//
// Complexity:
//
//   - New:           O(Σ |rule table| · arity)
//   - FeedbackLoops: O((V + E) · (C + 1)), C = number of circuits
//
// The circuit count can grow exponentially with the graph; WithMaxLoops caps
// the enumeration.
package network
