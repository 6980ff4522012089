package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ametelin/minesweeper-agent/internal/grid"
)

func cell(x, y int) grid.Cell {
	return grid.Cell{X: x, Y: y}
}

// 2x2 board with a single mine in the bottom right corner
func cornerMineBoard() *Board {
	return &Board{
		Size:  grid.Size{Width: 2, Height: 2},
		Mines: []bool{false, false, false, true},
	}
}

func TestSeedRoundTrip(t *testing.T) {
	tests := []Params{
		{Width: 9, Height: 9, MineCount: 10, Fair: true},
		{Width: 30, Height: 16, MineCount: 99, Fair: false},
	}
	for _, params := range tests {
		parsed, err := ParseSeed(params.Seed())
		require.NoError(t, err)
		assert.Equal(t, params, *parsed)
	}

	_, err := ParseSeed("9:9:10")
	assert.Error(t, err)
	_, err = ParseSeed("bogus")
	assert.Error(t, err)
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, Params{Width: 9, Height: 9, MineCount: 10}.Validate())
	assert.Error(t, Params{Width: 0, Height: 9, MineCount: 10}.Validate())
	assert.Error(t, Params{Width: 9, Height: 9, MineCount: -1}.Validate())
	// 3x3 leaves no room next to the starting cell
	assert.Error(t, Params{Width: 3, Height: 3, MineCount: 1}.Validate())
}

func TestNewBoardKeepsStartClear(t *testing.T) {
	var (
		params = Params{Width: 9, Height: 9, MineCount: 10}
		start  = cell(4, 4)
		r      = rand.New(rand.NewPCG(1, 2))
	)
	board, err := NewBoard(params, start, r)
	require.NoError(t, err)

	assert.Equal(t, 10, board.MineCount())
	for dy := -1; dy <= +1; dy++ {
		for dx := -1; dx <= +1; dx++ {
			assert.False(t, board.MineAt(cell(start.X+dx, start.Y+dy)))
		}
	}
}

func TestNearbyMines(t *testing.T) {
	board := cornerMineBoard()
	assert.Equal(t, 1, board.NearbyMines(cell(0, 0)))
	assert.Equal(t, 1, board.NearbyMines(cell(1, 0)))
	assert.Equal(t, 1, board.NearbyMines(cell(0, 1)))
	assert.Equal(t, 0, board.NearbyMines(cell(1, 1)))
}

func TestProbeOpensAndWins(t *testing.T) {
	board := cornerMineBoard()
	state, err := Start(board, Params{Width: 2, Height: 2, MineCount: 1}, cell(0, 0))
	require.NoError(t, err)

	assert.Equal(t, View{1, Covered, Covered, Covered}, state.View)
	assert.False(t, state.Finished())

	count, err := state.Probe(cell(1, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.False(t, state.Won)

	count, err = state.Probe(cell(0, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// every safe cell is open, the last mine gets shown
	assert.True(t, state.Won)
	assert.Equal(t, View{1, 1, 1, RevealedMine}, state.View)
	assert.Equal(t, []grid.Cell{cell(0, 0), cell(1, 0), cell(0, 1)}, state.Probes)

	_, err = state.Probe(cell(1, 1))
	assert.ErrorIs(t, err, ErrFinished)
}

func TestProbeMineLoses(t *testing.T) {
	board := cornerMineBoard()
	state, err := Start(board, Params{Width: 2, Height: 2, MineCount: 1}, cell(0, 0))
	require.NoError(t, err)

	count, err := state.Probe(cell(1, 1))
	require.NoError(t, err)
	assert.Equal(t, -1, count)
	assert.True(t, state.Dead)
	assert.Equal(t, ExplodedMine, state.View[3])
	// a lost probe is not part of the replayable log
	assert.Equal(t, []grid.Cell{cell(0, 0)}, state.Probes)
}

func TestReprobeReturnsCount(t *testing.T) {
	board := cornerMineBoard()
	state, err := Start(board, Params{Width: 2, Height: 2, MineCount: 1}, cell(0, 0))
	require.NoError(t, err)

	count, err := state.Probe(cell(0, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, state.Probes, 1)
}

func TestProbeOutOfBounds(t *testing.T) {
	board := cornerMineBoard()
	state, err := Start(board, Params{Width: 2, Height: 2, MineCount: 1}, cell(0, 0))
	require.NoError(t, err)

	_, err = state.Probe(cell(2, 0))
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestMarksAndForfeit(t *testing.T) {
	board := cornerMineBoard()
	state, err := Start(board, Params{Width: 2, Height: 2, MineCount: 1}, cell(0, 0))
	require.NoError(t, err)

	state.Flag(cell(1, 1))
	state.MarkSafe(cell(1, 0))
	// marks never touch opened cells
	state.Flag(cell(0, 0))

	assert.Equal(t, View{1, MarkedSafe, Covered, Flagged}, state.View)

	state.Forfeit()

	assert.True(t, state.Dead)
	assert.Equal(t, View{1, 1, 1, CorrectFlag}, state.View)
}

func TestStateGobRoundTrip(t *testing.T) {
	var (
		params = Params{Width: 9, Height: 9, MineCount: 10, Fair: true}
		r      = rand.New(rand.NewPCG(1, 2))
	)
	state, err := NewState(params, cell(4, 4), r)
	require.NoError(t, err)
	state.Flag(cell(0, 0))

	buf, err := state.Bytes()
	require.NoError(t, err)

	decoded, err := DecodeState(buf)
	require.NoError(t, err)
	assert.Equal(t, state.Params, decoded.Params)
	assert.Equal(t, state.View, decoded.View)
	assert.Equal(t, state.Probes, decoded.Probes)
	assert.Equal(t, state.Board.Mines, decoded.Board.Mines)
}
