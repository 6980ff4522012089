// Package agent drives a game with the deduction engine: it probes
// cells the engine proved safe and falls back to guessing when no
// certainty is left.
package agent

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/ametelin/minesweeper-agent/internal/game"
	"github.com/ametelin/minesweeper-agent/internal/grid"
	"github.com/ametelin/minesweeper-agent/internal/knowledge"
)

var Log = logrus.New()

var ErrNoMoves = errors.New("no moves left")

type Agent struct {
	state *game.State
	kb    *knowledge.KnowledgeBase
	rng   *rand.Rand
}

// Move is one probe made by the agent. Count carries the opened cell's
// mine count, or -1 when the move lost the game.
type Move struct {
	Cell    grid.Cell
	Count   int
	Certain bool
}

// Result sums up a finished playthrough.
type Result struct {
	Won     bool
	Moves   int
	Guesses int
}

// New attaches a fresh deduction engine to a game, replaying the
// recorded probes so the knowledge catches up with the view. r feeds
// fallback guesses only; it may be nil for a caller that sticks to
// certain moves.
func New(state *game.State, r *rand.Rand) (*Agent, error) {
	kb, err := knowledge.New(state.Width, state.Height)
	if err != nil {
		return nil, err
	}
	a := &Agent{state: state, kb: kb, rng: r}
	for _, c := range state.Probes {
		if err := a.kb.Observe(c, state.Board.NearbyMines(c)); err != nil {
			return nil, err
		}
	}
	a.syncMarks()
	return a, nil
}

func (a *Agent) State() *game.State {
	return a.state
}

func (a *Agent) Knowledge() *knowledge.KnowledgeBase {
	return a.kb
}

// NextCertainMove picks the first unprobed cell known to be safe, in
// row-major order so that runs are reproducible.
func (a *Agent) NextCertainMove() (grid.Cell, bool) {
	for _, c := range a.kb.KnownSafe().Sorted() {
		if !a.kb.WasProbed(c) {
			return c, true
		}
	}
	return grid.Cell{}, false
}

// NextFallbackMove picks uniformly among the cells that are neither
// probed nor known to be mines. It reports false when no move is left.
func (a *Agent) NextFallbackMove() (grid.Cell, bool) {
	size := a.kb.Size()
	candidates := make([]grid.Cell, 0, size.CellCount())
	for i := range size.CellCount() {
		c := size.CellAt(i)
		if !a.kb.WasProbed(c) && !a.kb.IsHazard(c) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return grid.Cell{}, false
	}
	return candidates[a.rng.IntN(len(candidates))], true
}

// Step makes one move: a certain-safe probe when deduction found one,
// a random guess otherwise. The observation is fully propagated before
// Step returns, so the next call sees every consequence.
func (a *Agent) Step() (Move, error) {
	if a.state.Finished() {
		return Move{}, game.ErrFinished
	}
	cell, certain := a.NextCertainMove()
	if !certain {
		var ok bool
		if cell, ok = a.NextFallbackMove(); !ok {
			return Move{}, ErrNoMoves
		}
	}
	count, err := a.state.Probe(cell)
	if err != nil {
		return Move{}, err
	}
	move := Move{Cell: cell, Count: count, Certain: certain}
	if count < 0 {
		Log.WithFields(logrus.Fields{
			"cell":    cell,
			"certain": certain,
		}).Debug("stepped on a mine")
		return move, nil
	}
	if err := a.kb.Observe(cell, count); err != nil {
		return move, err
	}
	a.syncMarks()
	return move, nil
}

// Play drives the game to its end.
func (a *Agent) Play() (Result, error) {
	var res Result
	for !a.state.Finished() {
		move, err := a.Step()
		if err != nil {
			return res, err
		}
		res.Moves++
		if !move.Certain {
			res.Guesses++
		}
	}
	res.Won = a.state.Won

	Log.WithFields(logrus.Fields{
		"seed":    a.state.Seed(),
		"won":     res.Won,
		"moves":   res.Moves,
		"guesses": res.Guesses,
	}).Info("playthrough finished")
	return res, nil
}

// playCertain probes certain-safe cells until the game ends or the
// engine runs out of certainties.
func (a *Agent) playCertain() error {
	for !a.state.Finished() {
		cell, ok := a.NextCertainMove()
		if !ok {
			return nil
		}
		count, err := a.state.Probe(cell)
		if err != nil {
			return err
		}
		if count < 0 {
			return fmt.Errorf("deduction opened a mine at %s", cell)
		}
		if err := a.kb.Observe(cell, count); err != nil {
			return err
		}
	}
	return nil
}

// syncMarks projects the engine's certainties onto the player view.
func (a *Agent) syncMarks() {
	if a.state.Finished() {
		return
	}
	for c := range a.kb.KnownHazards() {
		a.state.Flag(c)
	}
	for c := range a.kb.KnownSafe() {
		a.state.MarkSafe(c)
	}
}
