package runner

import (
	"errors"
	"fmt"
)

// Kind classifies a failed model run by the stage that failed.
type Kind int

const (
	// KindNone marks errors the runner did not classify.
	KindNone Kind = iota
	// KindModel: the model could not be found, read, parsed or validated.
	KindModel
	// KindBounds: a bound override is invalid or empties a domain.
	KindBounds
	// KindCompute: the search or writing its results failed.
	KindCompute
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindBounds:
		return "bounds"
	case KindCompute:
		return "compute"
	default:
		return "unknown"
	}
}

var (
	// ErrNoMatch is returned when a glob pattern matches no model file.
	ErrNoMatch = errors.New("runner: pattern matches no file")

	// ErrOutputCollision is returned when two models would write the same file.
	ErrOutputCollision = errors.New("runner: models share an output file")
)

// Error is a failed run of one model.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
}

// Unwrap exposes the cause.
func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}

	return KindNone
}
