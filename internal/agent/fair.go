package agent

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/ametelin/minesweeper-agent/internal/game"
	"github.com/ametelin/minesweeper-agent/internal/grid"
)

const maxGenerateAttempts = 1000

// Solvable reports whether the board can be cleared from start by
// deduction alone, without a single guess.
func Solvable(board *game.Board, params game.Params, start grid.Cell) (bool, error) {
	state, err := game.Start(board, params, start)
	if err != nil {
		return false, err
	}
	a, err := New(state, nil)
	if err != nil {
		return false, err
	}
	if err := a.playCertain(); err != nil {
		return false, err
	}
	return state.Won, nil
}

// NewSolvableBoard generates boards until one comes up that deduction
// can clear from start without guessing. Dense boards may not admit
// one within the attempt limit.
func NewSolvableBoard(params game.Params, start grid.Cell, r *rand.Rand) (*game.Board, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		board, err := game.NewBoard(params, start, r)
		if err != nil {
			return nil, err
		}
		solvable, err := Solvable(board, params, start)
		if err != nil {
			return nil, err
		}
		if solvable {
			Log.WithFields(logrus.Fields{
				"seed":    params.Seed(),
				"start":   start,
				"attempt": attempt,
			}).Debug("fair board generated")
			return board, nil
		}
	}
	return nil, fmt.Errorf(
		"no fair %dx%d board with %d mines found for start %s",
		params.Width, params.Height, params.MineCount, start,
	)
}

// NewBoard generates a board honoring params.Fair.
func NewBoard(params game.Params, start grid.Cell, r *rand.Rand) (*game.Board, error) {
	if params.Fair {
		return NewSolvableBoard(params, start, r)
	}
	return game.NewBoard(params, start, r)
}
