package network_test

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/steadyspace/model"
	"github.com/katalvlaran/steadyspace/network"
)

func ExampleGraph_FeedbackLoops() {
	m, _ := model.ParseText(strings.NewReader(`
A:1 <- B : 0=0; 1=1
B:1 <- A : 0=1; 1=0
`))
	g, _ := network.New(m)
	loops, _ := g.FeedbackLoops()
	for _, l := range loops {
		fmt.Println(g.FormatLoop(l), l.Sign)
	}
	// Output:
	// A -| B -> A negative
}
