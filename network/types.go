package network

import "errors"

var (
	// ErrNilModel is returned when New receives a nil model.
	ErrNilModel = errors.New("network: model is nil")

	// ErrLoopLimit is returned with the loops found so far when the
	// enumeration reaches Options.MaxLoops.
	ErrLoopLimit = errors.New("network: feedback loop limit reached")
)

// EdgeSign is the monotonic effect of a regulator on its target.
type EdgeSign uint8

const (
	NonFunctional EdgeSign = iota
	Activating
	Inhibiting
	Dual
)

// String implements fmt.Stringer.
func (s EdgeSign) String() string {
	switch s {
	case Activating:
		return "+"
	case Inhibiting:
		return "-"
	case Dual:
		return "+/-"
	default:
		return "0"
	}
}

// LoopSign is the overall sign of a feedback loop.
type LoopSign uint8

const (
	Ambiguous LoopSign = iota
	Positive
	Negative
)

// String implements fmt.Stringer.
func (s LoopSign) String() string {
	switch s {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "ambiguous"
	}
}

// Edge is a regulation From → To, species indices into the model.
type Edge struct {
	From, To int
	Sign     EdgeSign
}

// Loop is an elementary circuit. Species starts at the smallest index and
// is not closed: the last species regulates the first.
type Loop struct {
	Species []int
	Sign    LoopSign
}

// Len returns the number of edges in the loop.
func (l Loop) Len() int { return len(l.Species) }

// Options configures FeedbackLoops.
type Options struct {
	// MaxLoops stops the enumeration after this many loops; 0 means no cap.
	MaxLoops int
}

// Option configures FeedbackLoops.
type Option func(*Options)

// DefaultOptions returns Options without a cap.
func DefaultOptions() Options { return Options{} }

// WithMaxLoops caps the number of loops enumerated.
func WithMaxLoops(n int) Option {
	return func(o *Options) { o.MaxLoops = n }
}
