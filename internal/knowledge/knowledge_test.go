package knowledge

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ametelin/minesweeper-agent/internal/grid"
)

func TestMain(m *testing.M) {
	// Log.SetLevel(logrus.DebugLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

func newKB(t *testing.T, width, height int) *KnowledgeBase {
	t.Helper()
	kb, err := New(width, height)
	require.NoError(t, err)
	return kb
}

func assertInvariants(t *testing.T, kb *KnowledgeBase) {
	t.Helper()
	var (
		hazards = kb.KnownHazards()
		safes   = kb.KnownSafe()
	)
	for c := range hazards {
		assert.False(t, safes.Has(c), "cell %s both hazardous and safe", c)
	}
	for _, con := range kb.Constraints() {
		assert.Greater(t, con.Len(), 0, "empty constraint %s", con)
		for _, c := range con.Cells() {
			assert.False(t, hazards.Has(c) || safes.Has(c),
				"constraint %s holds resolved cell %s", con, c)
		}
	}
}

func TestObserveZeroCount(t *testing.T) {
	kb := newKB(t, 3, 3)

	require.NoError(t, kb.Observe(cell(0, 0), 0))

	assert.Equal(t, cells(cell(0, 0), cell(1, 0), cell(0, 1), cell(1, 1)), kb.KnownSafe())
	assert.Equal(t, cells(), kb.KnownHazards())
	assert.Equal(t, cells(cell(0, 0)), kb.Probed())
	assert.Equal(t, 0, kb.ConstraintCount())
	assertInvariants(t, kb)
}

func TestObserveFullCount(t *testing.T) {
	kb := newKB(t, 3, 3)

	require.NoError(t, kb.Observe(cell(1, 1), 8))

	assert.Equal(t, 8, kb.KnownHazards().Len())
	assert.False(t, kb.IsHazard(cell(1, 1)))
	assert.Equal(t, cells(cell(1, 1)), kb.KnownSafe())
	assert.Equal(t, 0, kb.ConstraintCount())
	assertInvariants(t, kb)
}

// Three observations along the top row of a 4x2 grid with hazards at
// 1:1 and 2:1. None of them pins a cell by the trivial rules alone, but
// subtracting the constraint over {0:1 1:1} from its supersets narrows
// 2:1 down to a certain hazard.
func TestSubsetInference(t *testing.T) {
	kb := newKB(t, 4, 2)

	require.NoError(t, kb.Observe(cell(0, 0), 1))
	assertInvariants(t, kb)
	assert.Equal(t, 0, kb.KnownHazards().Len())

	require.NoError(t, kb.Observe(cell(1, 0), 2))
	assertInvariants(t, kb)
	assert.Equal(t, 0, kb.KnownHazards().Len())

	require.NoError(t, kb.Observe(cell(2, 0), 2))
	assertInvariants(t, kb)

	assert.Equal(t, cells(cell(2, 1)), kb.KnownHazards())
	assert.Equal(t, cells(cell(0, 0), cell(1, 0), cell(2, 0)), kb.KnownSafe())
}

// A count explained entirely by already known hazards must neither
// produce new deductions nor raise a contradiction.
func TestCountFullyExplained(t *testing.T) {
	kb := newKB(t, 3, 3)

	// single hazard at 2:2, everything else revealed around it
	require.NoError(t, kb.Observe(cell(0, 0), 0))
	require.NoError(t, kb.Observe(cell(2, 0), 0))
	require.NoError(t, kb.Observe(cell(0, 2), 0))
	require.NoError(t, kb.Observe(cell(1, 2), 1))

	require.True(t, kb.IsHazard(cell(2, 2)))

	require.NoError(t, kb.Observe(cell(1, 1), 1))

	assert.Equal(t, cells(cell(2, 2)), kb.KnownHazards())
	assert.True(t, kb.WasProbed(cell(1, 1)))
	assert.Equal(t, 0, kb.ConstraintCount())
	assertInvariants(t, kb)
}

func TestReobserveIsNoop(t *testing.T) {
	kb := newKB(t, 3, 3)

	require.NoError(t, kb.Observe(cell(0, 0), 0))

	var (
		safes       = kb.KnownSafe()
		hazards     = kb.KnownHazards()
		probed      = kb.Probed()
		constraints = kb.ConstraintCount()
	)

	require.NoError(t, kb.Observe(cell(0, 0), 0))
	// a replayed observation is ignored even with a different count
	require.NoError(t, kb.Observe(cell(0, 0), 3))

	assert.Equal(t, safes, kb.KnownSafe())
	assert.Equal(t, hazards, kb.KnownHazards())
	assert.Equal(t, probed, kb.Probed())
	assert.Equal(t, constraints, kb.ConstraintCount())
}

func TestRejectsMalformedObservations(t *testing.T) {
	tests := []struct {
		name  string
		cell  grid.Cell
		count int
	}{
		{name: "out of bounds", cell: cell(3, 3), count: 0},
		{name: "negative x", cell: cell(-1, 0), count: 0},
		{name: "negative count", cell: cell(1, 1), count: -1},
		{name: "count exceeds neighbors", cell: cell(0, 0), count: 4},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			kb := newKB(t, 3, 3)

			err := kb.Observe(test.cell, test.count)
			assert.ErrorAs(t, err, &ObservationError{})

			// a rejected observation leaves no trace
			assert.Equal(t, 0, kb.Probed().Len())
			assert.Equal(t, 0, kb.KnownSafe().Len())
			assert.Equal(t, 0, kb.ConstraintCount())
		})
	}
}

func TestRejectionLeavesStateIntact(t *testing.T) {
	kb := newKB(t, 3, 3)

	require.NoError(t, kb.Observe(cell(0, 0), 0))

	var (
		safes  = kb.KnownSafe()
		probed = kb.Probed()
	)

	// 2:0 has one unresolved neighbor left, a count of 3 cannot hold
	err := kb.Observe(cell(2, 0), 3)
	assert.ErrorAs(t, err, &ObservationError{})

	assert.Equal(t, safes, kb.KnownSafe())
	assert.Equal(t, probed, kb.Probed())
	assert.False(t, kb.WasProbed(cell(2, 0)))
}

func TestContradictionOnKnownHazard(t *testing.T) {
	kb := newKB(t, 3, 1)

	require.NoError(t, kb.Observe(cell(0, 0), 1))
	require.True(t, kb.IsHazard(cell(1, 0)))

	err := kb.Observe(cell(1, 0), 0)
	assert.ErrorAs(t, err, &InvariantError{})
}

func TestContradictionOnConflictingCounts(t *testing.T) {
	kb := newKB(t, 2, 2)

	// on a 2x2 grid these two counts cannot both be true
	require.NoError(t, kb.Observe(cell(0, 0), 1))
	err := kb.Observe(cell(1, 1), 2)
	assert.ErrorAs(t, err, &InvariantError{})
}

func TestCertaintySetsGrowMonotonically(t *testing.T) {
	kb := newKB(t, 4, 2)

	observations := []struct {
		cell  grid.Cell
		count int
	}{
		{cell: cell(0, 0), count: 1},
		{cell: cell(1, 0), count: 2},
		{cell: cell(2, 0), count: 2},
		{cell: cell(3, 0), count: 2},
	}

	var (
		safes   = grid.NewSet()
		hazards = grid.NewSet()
	)
	for _, obs := range observations {
		require.NoError(t, kb.Observe(obs.cell, obs.count))
		assert.True(t, kb.KnownSafe().ContainsAll(safes))
		assert.True(t, kb.KnownHazards().ContainsAll(hazards))
		assertInvariants(t, kb)
		safes = kb.KnownSafe()
		hazards = kb.KnownHazards()
	}
}

func TestClearBoardResolvesCompletely(t *testing.T) {
	kb := newKB(t, 8, 8)

	size := grid.Size{Width: 8, Height: 8}
	for i := range size.CellCount() {
		require.NoError(t, kb.Observe(size.CellAt(i), 0))
	}

	assert.Equal(t, 64, kb.KnownSafe().Len())
	assert.Equal(t, 64, kb.Probed().Len())
	assert.Equal(t, 0, kb.KnownHazards().Len())
	assert.Equal(t, 0, kb.ConstraintCount())
}
