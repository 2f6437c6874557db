package steady_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/steadyspace/steady"
)

func TestNewBounds(t *testing.T) {
	b, err := steady.NewBounds(3, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Species())
	assert.Equal(t, 2, b.MaxValue())
	for s := 0; s < 3; s++ {
		assert.Equal(t, []int{0, 1, 2}, b.Values(s))
		assert.Equal(t, 3, b.Size(s))
	}

	_, err = steady.NewBounds(2, -1)
	assert.ErrorIs(t, err, steady.ErrInvalidBound)
}

func TestBounds_Restrict(t *testing.T) {
	b, err := steady.NewBounds(2, 3)
	require.NoError(t, err)

	require.NoError(t, b.Restrict(0, 1))
	assert.Equal(t, []int{0, 1}, b.Values(0))
	assert.Equal(t, 1, b.Ceiling(0))
	assert.False(t, b.Admits(0, 2))
	assert.True(t, b.Admits(1, 3), "other species untouched")

	// A looser ceiling never widens.
	require.NoError(t, b.Restrict(0, 3))
	assert.Equal(t, []int{0, 1}, b.Values(0))

	require.NoError(t, b.RestrictRange(1, 2, 3))
	assert.Equal(t, []int{2, 3}, b.Values(1))
	assert.Equal(t, 2, b.Floor(1))
}

func TestBounds_EmptyDomainLeavesStateUnchanged(t *testing.T) {
	b, err := steady.NewBounds(1, 3)
	require.NoError(t, err)
	require.NoError(t, b.RestrictRange(0, 2, 3))

	err = b.Restrict(0, 1)
	assert.ErrorIs(t, err, steady.ErrEmptyDomain)
	assert.Equal(t, []int{2, 3}, b.Values(0))

	assert.ErrorIs(t, b.Restrict(0, -1), steady.ErrEmptyDomain)
}

func TestBounds_OutOfRange(t *testing.T) {
	b, err := steady.NewBounds(2, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, b.Restrict(2, 0), steady.ErrSpeciesOutOfRange)
	assert.ErrorIs(t, b.Restrict(-1, 0), steady.ErrSpeciesOutOfRange)
	assert.False(t, b.Admits(5, 0))
	assert.False(t, b.Admits(0, 2))
	assert.Equal(t, 0, b.Size(9))
	assert.Equal(t, -1, b.Ceiling(9))
}

func TestBounds_Clone(t *testing.T) {
	b, err := steady.NewBounds(1, 2)
	require.NoError(t, err)
	c := b.Clone()
	require.NoError(t, c.Restrict(0, 0))
	assert.Equal(t, []int{0, 1, 2}, b.Values(0))
	assert.Equal(t, []int{0}, c.Values(0))
}
