package model_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/steadyspace/model"
)

// toggle builds the mutual copy model A<-B, B<-A over {0,1}.
func toggle(t *testing.T) *model.Model {
	t.Helper()
	b := model.NewBuilder()
	require.NoError(t, b.AddSpecies("A", 1))
	require.NoError(t, b.AddSpecies("B", 1))
	copyRule := []model.Entry{{When: []int{0}, Target: 0}, {When: []int{1}, Target: 1}}
	require.NoError(t, b.SetRule("A", []string{"B"}, copyRule))
	require.NoError(t, b.SetRule("B", []string{"A"}, copyRule))
	m, err := b.Build()
	require.NoError(t, err)

	return m
}

func TestBuild_Toggle(t *testing.T) {
	m := toggle(t)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 1, m.MaxValue)
	assert.Equal(t, []string{"A", "B"}, m.Names())
	assert.Equal(t, []int{1}, m.Rule(0).Regulators())
	assert.Equal(t, []int{0}, m.Rule(1).Regulators())

	i, ok := m.Index("B")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	_, ok = m.Index("Z")
	assert.False(t, ok)
}

func TestBuild_SortByName(t *testing.T) {
	b := model.NewBuilder().SortByName()
	require.NoError(t, b.AddSpecies("Zeta", 2))
	require.NoError(t, b.AddSpecies("Alpha", 1))
	require.NoError(t, b.SetRule("Zeta", nil, []model.Entry{{When: []int{}, Target: 2}}))
	require.NoError(t, b.SetRule("Alpha", []string{"Zeta"}, nil, model.WithDefault(1)))

	m, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Zeta"}, m.Names())
	assert.Equal(t, 0, m.Species[0].Index)
	assert.Equal(t, 2, m.MaxValue)
	// Alpha reads Zeta, which is now index 1.
	assert.Equal(t, []int{1}, m.Rule(0).Regulators())
	assert.Equal(t, 3, m.Rule(0).Len())
}

func TestRule_TargetLookup(t *testing.T) {
	b := model.NewBuilder()
	require.NoError(t, b.AddSpecies("X", 1))
	require.NoError(t, b.AddSpecies("Y", 2))
	require.NoError(t, b.AddSpecies("Z", 2))
	// Z = min(X+Y, 2)
	var entries []model.Entry
	for x := 0; x <= 1; x++ {
		for y := 0; y <= 2; y++ {
			entries = append(entries, model.Entry{When: []int{x, y}, Target: min(x+y, 2)})
		}
	}
	require.NoError(t, b.SetRule("X", nil, nil, model.WithDefault(0)))
	require.NoError(t, b.SetRule("Y", nil, nil, model.WithDefault(0)))
	require.NoError(t, b.SetRule("Z", []string{"X", "Y"}, entries))
	m, err := b.Build()
	require.NoError(t, err)

	r := m.Rule(2)
	assert.Equal(t, 2, r.Arity())
	assert.Equal(t, 6, r.Len())

	got, err := r.Target([]int{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	_, err = r.Target([]int{1})
	assert.ErrorIs(t, err, model.ErrTupleArity)
	_, err = r.Target([]int{0, 3})
	assert.ErrorIs(t, err, model.ErrValueOutOfRange)

	v, ok := r.TargetAt([]int{0, 2, -1})
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	_, ok = r.TargetAt([]int{-1, 2, -1})
	assert.False(t, ok, "unassigned regulator gives no target")

	var tuples [][]int
	r.Entries(func(tuple []int, target int) {
		tuples = append(tuples, append([]int(nil), tuple...))
	})
	assert.Equal(t, [][]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}, tuples)
}

func TestBuild_SemanticErrors(t *testing.T) {
	cases := []struct {
		name  string
		build func(b *model.Builder) error
		want  error
	}{
		{
			name:  "empty model",
			build: func(b *model.Builder) error { return nil },
			want:  model.ErrEmptyModel,
		},
		{
			name: "missing rule",
			build: func(b *model.Builder) error {
				return b.AddSpecies("A", 1)
			},
			want: model.ErrMissingRule,
		},
		{
			name: "unknown regulator",
			build: func(b *model.Builder) error {
				_ = b.AddSpecies("A", 1)
				return b.SetRule("A", []string{"Q"}, nil, model.WithDefault(0))
			},
			want: model.ErrUnknownRegulator,
		},
		{
			name: "duplicate regulator",
			build: func(b *model.Builder) error {
				_ = b.AddSpecies("A", 1)
				_ = b.AddSpecies("B", 1)
				_ = b.SetRule("B", nil, nil, model.WithDefault(0))
				return b.SetRule("A", []string{"B", "B"}, nil, model.WithDefault(0))
			},
			want: model.ErrDuplicateRegulator,
		},
		{
			name: "tuple arity",
			build: func(b *model.Builder) error {
				_ = b.AddSpecies("A", 1)
				return b.SetRule("A", []string{"A"}, []model.Entry{{When: []int{0, 0}, Target: 0}}, model.WithDefault(0))
			},
			want: model.ErrTupleArity,
		},
		{
			name: "value out of range",
			build: func(b *model.Builder) error {
				_ = b.AddSpecies("A", 1)
				return b.SetRule("A", []string{"A"}, []model.Entry{{When: []int{2}, Target: 0}}, model.WithDefault(0))
			},
			want: model.ErrValueOutOfRange,
		},
		{
			name: "target out of range",
			build: func(b *model.Builder) error {
				_ = b.AddSpecies("A", 1)
				return b.SetRule("A", []string{"A"}, []model.Entry{{When: []int{0}, Target: 2}, {When: []int{1}, Target: 1}})
			},
			want: model.ErrTargetOutOfRange,
		},
		{
			name: "default out of range",
			build: func(b *model.Builder) error {
				_ = b.AddSpecies("A", 1)
				return b.SetRule("A", nil, nil, model.WithDefault(5))
			},
			want: model.ErrTargetOutOfRange,
		},
		{
			name: "duplicate entry",
			build: func(b *model.Builder) error {
				_ = b.AddSpecies("A", 1)
				return b.SetRule("A", []string{"A"}, []model.Entry{{When: []int{0}, Target: 0}, {When: []int{0}, Target: 1}}, model.WithDefault(0))
			},
			want: model.ErrDuplicateEntry,
		},
		{
			name: "rule too large",
			build: func(b *model.Builder) error {
				regs := make([]string, 23)
				for i := range regs {
					regs[i] = fmt.Sprintf("R%02d", i)
					if err := b.AddSpecies(regs[i], 1); err != nil {
						return err
					}
				}
				_ = b.AddSpecies("T", 1)
				return b.SetRule("T", regs, nil, model.WithDefault(0))
			},
			want: model.ErrRuleTooLarge,
		},
		{
			name: "incomplete rule",
			build: func(b *model.Builder) error {
				_ = b.AddSpecies("A", 1)
				return b.SetRule("A", []string{"A"}, []model.Entry{{When: []int{0}, Target: 0}})
			},
			want: model.ErrIncompleteRule,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := model.NewBuilder()
			require.NoError(t, tc.build(b))
			m, err := b.Build()
			assert.Nil(t, m)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestBuilder_DeclarationErrors(t *testing.T) {
	b := model.NewBuilder()
	assert.ErrorIs(t, b.AddSpecies("", 1), model.ErrInvalidName)
	assert.ErrorIs(t, b.AddSpecies("1abc", 1), model.ErrInvalidName)
	assert.ErrorIs(t, b.AddSpecies("A", -1), model.ErrNegativeMax)
	require.NoError(t, b.AddSpecies("A", 1))
	assert.ErrorIs(t, b.AddSpecies("A", 2), model.ErrDuplicateSpecies)
	assert.ErrorIs(t, b.SetRule("B", nil, nil), model.ErrUnknownSpecies)
}

func TestModel_FormatConfig(t *testing.T) {
	m := toggle(t)
	assert.Equal(t, "A=0,B=1", m.FormatConfig([]int{0, 1}))
	assert.Equal(t, "A=1,B=?", m.FormatConfig([]int{1, -1}))
}
