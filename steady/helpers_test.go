package steady_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/steadyspace/model"
	"github.com/katalvlaran/steadyspace/steady"
)

// copyEntries is the identity table over a regulator with domain [0, max].
func copyEntries(max int) []model.Entry {
	out := make([]model.Entry, max+1)
	for v := 0; v <= max; v++ {
		out[v] = model.Entry{When: []int{v}, Target: v}
	}

	return out
}

// toggleModel is A <- B, B <- A, both copying their regulator over {0,1}.
func toggleModel(t testing.TB) *model.Model {
	t.Helper()
	b := model.NewBuilder()
	require.NoError(t, b.AddSpecies("A", 1))
	require.NoError(t, b.AddSpecies("B", 1))
	require.NoError(t, b.SetRule("A", []string{"B"}, copyEntries(1)))
	require.NoError(t, b.SetRule("B", []string{"A"}, copyEntries(1)))
	m, err := b.Build()
	require.NoError(t, err)

	return m
}

// randomModel builds n species with domains up to maxVal and up to maxRegs
// random regulators each, with uniformly random targets.
func randomModel(t testing.TB, rng *rand.Rand, n, maxVal, maxRegs int) *model.Model {
	t.Helper()
	b := model.NewBuilder()
	names := make([]string, n)
	maxes := make([]int, n)
	for i := 0; i < n; i++ {
		names[i] = fmt.Sprintf("S%02d", i)
		maxes[i] = rng.Intn(maxVal + 1)
		require.NoError(t, b.AddSpecies(names[i], maxes[i]))
	}
	for i := 0; i < n; i++ {
		k := rng.Intn(min(maxRegs, n) + 1)
		perm := rng.Perm(n)[:k]
		regs := make([]string, k)
		radix := make([]int, k)
		size := 1
		for j, r := range perm {
			regs[j] = names[r]
			radix[j] = maxes[r] + 1
			size *= radix[j]
		}
		entries := make([]model.Entry, 0, size)
		for off := 0; off < size; off++ {
			when := make([]int, k)
			rem := off
			for j := k - 1; j >= 0; j-- {
				when[j] = rem % radix[j]
				rem /= radix[j]
			}
			entries = append(entries, model.Entry{When: when, Target: rng.Intn(maxes[i] + 1)})
		}
		require.NoError(t, b.SetRule(names[i], regs, entries))
	}
	m, err := b.Build()
	require.NoError(t, err)

	return m
}

// bruteForce enumerates the full product space in lexicographic order and
// keeps the configurations admitted by bounds that are steady states.
func bruteForce(m *model.Model, bounds *steady.Bounds) [][]int {
	n := m.Len()
	cfg := make([]int, n)
	var out [][]int
	var rec func(i int)
	rec = func(i int) {
		if i == n {
			if steady.IsSteady(m, cfg) {
				out = append(out, append([]int(nil), cfg...))
			}
			return
		}
		for v := 0; v <= m.Species[i].Max; v++ {
			if bounds != nil && !bounds.Admits(i, v) {
				continue
			}
			cfg[i] = v
			rec(i + 1)
		}
	}
	rec(0)

	return out
}

// lexLess reports a < b in lexicographic order.
func lexLess(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}

	return false
}
