package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ametelin/minesweeper-agent/internal/grid"
)

func cells(cs ...grid.Cell) grid.Set {
	return grid.NewSet(cs...)
}

func cell(x, y int) grid.Cell {
	return grid.Cell{X: x, Y: y}
}

func TestNewConstraint(t *testing.T) {
	c, err := NewConstraint(cells(cell(0, 0), cell(1, 0)), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Count())
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "{0:0 1:0}=1", c.String())

	_, err = NewConstraint(cells(cell(0, 0)), 2)
	assert.ErrorAs(t, err, &InvariantError{})

	_, err = NewConstraint(cells(cell(0, 0)), -1)
	assert.ErrorAs(t, err, &InvariantError{})
}

func TestTrivialRules(t *testing.T) {
	full, err := NewConstraint(cells(cell(0, 0), cell(1, 0)), 2)
	require.NoError(t, err)
	assert.True(t, full.TriviallyHazardous().Equal(cells(cell(0, 0), cell(1, 0))))
	assert.Equal(t, 0, full.TriviallySafe().Len())

	empty, err := NewConstraint(cells(cell(0, 0), cell(1, 0)), 0)
	require.NoError(t, err)
	assert.True(t, empty.TriviallySafe().Equal(cells(cell(0, 0), cell(1, 0))))
	assert.Equal(t, 0, empty.TriviallyHazardous().Len())

	partial, err := NewConstraint(cells(cell(0, 0), cell(1, 0)), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, partial.TriviallyHazardous().Len())
	assert.Equal(t, 0, partial.TriviallySafe().Len())
}

func TestResolve(t *testing.T) {
	c, err := NewConstraint(cells(cell(0, 0), cell(1, 0), cell(2, 0)), 2)
	require.NoError(t, err)

	hazard := c.Resolve(cell(0, 0), true)
	assert.Equal(t, 1, hazard.Count())
	assert.False(t, hazard.Has(cell(0, 0)))
	assert.Equal(t, 2, hazard.Len())

	safe := c.Resolve(cell(1, 0), false)
	assert.Equal(t, 2, safe.Count())
	assert.Equal(t, 2, safe.Len())

	same := c.Resolve(cell(5, 5), true)
	assert.True(t, same.Equal(c))

	// the receiver is never touched
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 2, c.Count())
}

func TestSubtract(t *testing.T) {
	triple, err := NewConstraint(cells(cell(0, 0), cell(1, 0), cell(2, 0)), 2)
	require.NoError(t, err)
	pair, err := NewConstraint(cells(cell(0, 0), cell(1, 0)), 1)
	require.NoError(t, err)

	derived, ok := triple.Subtract(pair)
	require.True(t, ok)
	assert.Equal(t, "{2:0}=1", derived.String())

	_, ok = pair.Subtract(triple)
	assert.False(t, ok)

	// equal cell sets are not proper subsets
	other, err := NewConstraint(cells(cell(0, 0), cell(1, 0), cell(2, 0)), 1)
	require.NoError(t, err)
	_, ok = triple.Subtract(other)
	assert.False(t, ok)

	// overlap without containment
	overlap, err := NewConstraint(cells(cell(1, 0), cell(3, 0)), 1)
	require.NoError(t, err)
	_, ok = triple.Subtract(overlap)
	assert.False(t, ok)
}
