package runner

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/katalvlaran/steadyspace/model"
	"github.com/katalvlaran/steadyspace/network"
)

var titleStyle = lipgloss.NewStyle().Bold(true)

// Report is the static description of a model: species, domains,
// regulations and feedback loops.
type Report struct {
	Path      string
	Model     *model.Model
	Graph     *network.Graph
	Loops     []network.Loop
	Truncated bool
}

// Inspect loads the model at path and analyzes its interaction graph.
// maxLoops caps the loop enumeration (0 = no cap).
func Inspect(path string, maxLoops int) (*Report, error) {
	m, err := model.Load(path)
	if err != nil {
		return nil, &Error{Kind: KindModel, Path: path, Err: err}
	}
	g, err := network.New(m)
	if err != nil {
		return nil, &Error{Kind: KindModel, Path: path, Err: err}
	}
	loops, err := g.FeedbackLoops(network.WithMaxLoops(maxLoops))
	truncated := errors.Is(err, network.ErrLoopLimit)
	if err != nil && !truncated {
		return nil, &Error{Kind: KindCompute, Path: path, Err: err}
	}

	return &Report{Path: path, Model: m, Graph: g, Loops: loops, Truncated: truncated}, nil
}

// Write renders the report as text tables.
func (rep *Report) Write(w io.Writer) error {
	m := rep.Model
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("Model %s", m.Name)))
	fmt.Fprintf(&sb, "\n%d species, %d regulations, max value %d\n\n", m.Len(), rep.Graph.EdgeCount(), m.MaxValue)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SPECIES", "MAX", "REGULATORS", "ENTRIES")
	for s, sp := range m.Species {
		t.Row(sp.Name, strconv.Itoa(sp.Max), rep.regulators(s), strconv.Itoa(m.Rule(s).Len()))
	}
	sb.WriteString(t.Render())
	sb.WriteString("\n\n")

	sb.WriteString(titleStyle.Render("Feedback loops"))
	sb.WriteByte('\n')
	if len(rep.Loops) == 0 {
		sb.WriteString("  none\n")
	}
	for _, l := range rep.Loops {
		fmt.Fprintf(&sb, "  %s  (%s)\n", rep.Graph.FormatLoop(l), l.Sign)
	}
	if rep.Truncated {
		fmt.Fprintf(&sb, "  ... stopped after %d loops\n", len(rep.Loops))
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

func (rep *Report) regulators(s int) string {
	edges := rep.Graph.Regulators(s)
	if len(edges) == 0 {
		return "(constant)"
	}
	parts := make([]string, len(edges))
	for i, e := range edges {
		parts[i] = fmt.Sprintf("%s(%s)", rep.Model.Species[e.From].Name, e.Sign)
	}

	return strings.Join(parts, " ")
}
