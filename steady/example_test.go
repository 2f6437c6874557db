package steady_test

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/steadyspace/model"
	"github.com/katalvlaran/steadyspace/steady"
)

// ExampleEngine enumerates the two steady states of a mutual activation loop.
func ExampleEngine() {
	m, err := model.ParseText(strings.NewReader(`
A:1 <- B : 0=0; 1=1
B:1 <- A : 0=0; 1=1
`))
	if err != nil {
		fmt.Println(err)
		return
	}

	e, err := steady.NewEngine(m)
	if err != nil {
		fmt.Println(err)
		return
	}
	for cfg, ok := e.Next(); ok; cfg, ok = e.Next() {
		fmt.Println(m.FormatConfig(cfg))
	}
	fmt.Println(e.State())
	// Output:
	// A=0,B=0
	// A=1,B=1
	// exhausted
}

// ExampleSolve shows a tightened bound removing a steady state.
func ExampleSolve() {
	m, _ := model.ParseText(strings.NewReader(`
A:1 <- B : 0=0; 1=1
B:1 <- A : 0=0; 1=1
`))
	states, _ := steady.Solve(m, steady.WithBound("A", 0))
	fmt.Println(states)
	// Output:
	// [[0 0]]
}
