package handlers

import (
	"math/rand/v2"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ametelin/minesweeper-agent/internal/agent"
	"github.com/ametelin/minesweeper-agent/internal/game"
	"github.com/ametelin/minesweeper-agent/internal/grid"
	"github.com/ametelin/minesweeper-agent/internal/knowledge"
	"github.com/ametelin/minesweeper-agent/internal/repository"
)

func TestMain(m *testing.M) {
	agent.Log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	knowledge.Log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	os.Exit(m.Run())
}

// fixtureSession starts a 4x1 strip with a single mine in the last
// cell. The opening probe at (0,0) reads zero, so the whole strip can
// be cleared by deduction alone.
func fixtureSession(t *testing.T) *wsSession {
	t.Helper()
	params := game.Params{Width: 4, Height: 1, MineCount: 1}
	board := &game.Board{
		Size:  params.Size(),
		Mines: []bool{false, false, false, true},
	}
	state, err := game.Start(board, params, grid.Cell{X: 0, Y: 0})
	require.NoError(t, err)
	return &wsSession{session: &repository.GameSession{}, state: state}
}

func fixtureGames() Games {
	return Games{log: logrus.New(), rnd: rand.New(rand.NewPCG(1, 2))}
}

func TestExecuteCommandProbe(t *testing.T) {
	g := fixtureGames()
	sess := fixtureSession(t)

	require.NoError(t, g.executeCommand(sess, "p 1 0"))
	assert.Equal(t, game.CellView(0), sess.state.View[1])
	assert.Equal(t, 1, sess.session.Moves)

	// reopening an open cell is a no-op move
	require.NoError(t, g.executeCommand(sess, "p 0 0"))
	assert.Equal(t, 2, sess.session.Moves)
}

func TestExecuteCommandMarks(t *testing.T) {
	g := fixtureGames()
	sess := fixtureSession(t)

	require.NoError(t, g.executeCommand(sess, "f 3 0"))
	assert.Equal(t, game.Flagged, sess.state.View[3])

	require.NoError(t, g.executeCommand(sess, "m 2 0"))
	assert.Equal(t, game.MarkedSafe, sess.state.View[2])
}

func TestExecuteCommandStep(t *testing.T) {
	g := fixtureGames()
	sess := fixtureSession(t)

	require.NoError(t, g.executeCommand(sess, "s"))
	assert.Equal(t, game.CellView(0), sess.state.View[1])
	assert.Equal(t, 1, sess.session.Moves)
	assert.Equal(t, 0, sess.session.Guesses)
}

func TestExecuteCommandAuto(t *testing.T) {
	g := fixtureGames()
	sess := fixtureSession(t)

	require.NoError(t, g.executeCommand(sess, "a"))
	assert.True(t, sess.state.Won)
	assert.Equal(t, 2, sess.session.Moves)
	assert.Equal(t, 0, sess.session.Guesses)
}

func TestExecuteCommandForfeit(t *testing.T) {
	g := fixtureGames()
	sess := fixtureSession(t)

	require.NoError(t, g.executeCommand(sess, "r"))
	assert.True(t, sess.state.Dead)
	assert.Equal(t, game.RevealedMine, sess.state.View[3])
}

func TestExecuteCommandRejectsGarbage(t *testing.T) {
	tests := []struct {
		name    string
		command string
	}{
		{"unknown command", "z 1 2"},
		{"missing arguments", "p 1"},
		{"extra arguments", "s 1"},
		{"non-integer arguments", "p a b"},
		{"out of bounds", "p 9 9"},
		{"empty command", ""},
	}
	g := fixtureGames()
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sess := fixtureSession(t)
			assert.Error(t, g.executeCommand(sess, test.command))
			assert.Equal(t, 0, sess.session.Moves)
		})
	}
}
