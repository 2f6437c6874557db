package steady

import "github.com/katalvlaran/steadyspace/model"

// ForEach drains the remaining steady states, calling fn for each. It stops
// early and returns fn's error if fn fails.
func (e *Engine) ForEach(fn func(cfg []int) error) error {
	for {
		cfg, ok := e.Next()
		if !ok {
			return nil
		}
		if err := fn(cfg); err != nil {
			return err
		}
	}
}

// All drains the remaining steady states into a slice.
func (e *Engine) All() [][]int {
	var out [][]int
	_ = e.ForEach(func(cfg []int) error {
		out = append(out, cfg)

		return nil
	})

	return out
}

// Solve returns every steady state of m under opts in lexicographic order.
func Solve(m *model.Model, opts ...Option) ([][]int, error) {
	e, err := NewEngine(m, opts...)
	if err != nil {
		return nil, err
	}

	return e.All(), nil
}

// Count returns the number of steady states of m under opts.
func Count(m *model.Model, opts ...Option) (int, error) {
	e, err := NewEngine(m, opts...)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, ok := e.Next(); ok; _, ok = e.Next() {
		n++
	}

	return n, nil
}
