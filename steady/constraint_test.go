package steady_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/steadyspace/model"
	"github.com/katalvlaran/steadyspace/steady"
)

func TestVerdict_String(t *testing.T) {
	assert.Equal(t, "satisfied", steady.Satisfied.String())
	assert.Equal(t, "violated", steady.Violated.String())
	assert.Equal(t, "undetermined", steady.Undetermined.String())
}

func TestConstraints_Evaluate(t *testing.T) {
	c := steady.Compile(toggleModel(t))
	u := steady.Unassigned

	cases := []struct {
		name string
		s    int
		cfg  []int
		want steady.Verdict
	}{
		{"nothing assigned", 0, []int{u, u}, steady.Undetermined},
		{"species unassigned", 0, []int{u, 1}, steady.Undetermined},
		{"regulator unassigned", 0, []int{1, u}, steady.Undetermined},
		{"copy holds", 0, []int{1, 1}, steady.Satisfied},
		{"copy broken", 0, []int{0, 1}, steady.Violated},
		{"other rule broken", 1, []int{0, 1}, steady.Violated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Evaluate(tc.s, tc.cfg))
		})
	}
}

func TestConstraints_Check(t *testing.T) {
	c := steady.Compile(toggleModel(t))
	u := steady.Unassigned
	assert.Equal(t, steady.Satisfied, c.Check([]int{0, 0}))
	assert.Equal(t, steady.Violated, c.Check([]int{1, 0}))
	assert.Equal(t, steady.Undetermined, c.Check([]int{1, u}))
}

func TestConstraints_ScheduleAndTarget(t *testing.T) {
	// A constant, B <- A (forward), C <- C (self loop).
	b := model.NewBuilder()
	require.NoError(t, b.AddSpecies("A", 1))
	require.NoError(t, b.AddSpecies("B", 1))
	require.NoError(t, b.AddSpecies("C", 1))
	require.NoError(t, b.SetRule("A", nil, nil, model.WithDefault(1)))
	require.NoError(t, b.SetRule("B", []string{"A"}, []model.Entry{{When: []int{0}, Target: 1}, {When: []int{1}, Target: 0}}))
	require.NoError(t, b.SetRule("C", []string{"C"}, copyEntries(1)))
	m, err := b.Build()
	require.NoError(t, err)

	c := steady.Compile(m)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 0, c.ConclusiveAt(0))
	assert.Equal(t, 1, c.ConclusiveAt(1))
	assert.Equal(t, 2, c.ConclusiveAt(2))

	u := steady.Unassigned
	got, ok := c.Target(1, []int{1, u, u})
	assert.True(t, ok)
	assert.Equal(t, 0, got)
	_, ok = c.Target(1, []int{u, u, u})
	assert.False(t, ok)
	got, ok = c.Target(0, []int{u, u, u})
	assert.True(t, ok, "constant rules need no regulator")
	assert.Equal(t, 1, got)
}

func TestIsSteady(t *testing.T) {
	m := toggleModel(t)
	assert.True(t, steady.IsSteady(m, []int{1, 1}))
	assert.False(t, steady.IsSteady(m, []int{0, 1}))
	assert.False(t, steady.IsSteady(m, []int{0}), "wrong length")
	assert.False(t, steady.IsSteady(m, []int{2, 2}), "outside domain")
}
