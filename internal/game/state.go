package game

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/ametelin/minesweeper-agent/internal/grid"
)

var (
	ErrFinished    = errors.New("game is finished")
	ErrOutOfBounds = errors.New("cell out of bounds")
)

// State is one game in progress: the immutable board plus everything
// the player has done to it so far. Probes lists the opened cells in
// order, which is enough to replay the whole session elsewhere.
type State struct {
	Params
	Board  *Board
	View   View
	Probes []grid.Cell
	Dead   bool
	Won    bool
}

func DecodeState(buf []byte) (*State, error) {
	var s State
	err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&s)
	if err != nil {
		return nil, err
	}
	return &s, err
}

func (s State) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(s)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewState generates a board and opens the starting cell on it.
func NewState(params Params, start grid.Cell, r *rand.Rand) (*State, error) {
	board, err := NewBoard(params, start, r)
	if err != nil {
		return nil, err
	}
	return Start(board, params, start)
}

// Start begins a game on a prepared board with its opening probe. The
// opening cell must be safe; generation keeps mines away from it.
func Start(board *Board, params Params, start grid.Cell) (*State, error) {
	view := make(View, board.Size.CellCount())
	for i := range view {
		view[i] = Covered
	}
	s := &State{
		Params: params,
		Board:  board,
		View:   view,
	}
	if count, err := s.Probe(start); err != nil {
		return nil, err
	} else if count < 0 {
		return nil, fmt.Errorf("mine in starting cell")
	}
	return s, nil
}

func (s *State) Finished() bool {
	return s.Dead || s.Won
}

/*
Probe opens a single cell and returns its mine count, or -1 when the
probe landed on a mine and lost the game. Opening an already open cell
returns its count again without recording another probe. Unlike the
usual desktop game, opening a zero-count cell does not cascade; chains
of safe openings are the player's job.
*/
func (s *State) Probe(c grid.Cell) (int, error) {
	if !s.Board.Size.Contains(c) {
		return 0, fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	if s.Dead || s.Won {
		return 0, ErrFinished
	}
	i := s.Board.Size.Index(c)
	if v := s.View[i]; 0 <= v && v <= 8 {
		return int(v), nil
	}
	if s.Board.MineAt(c) {
		/*
		 * The player has landed on a mine. Bad luck. Expose the
		 * mine that killed them, but not the rest.
		 */
		s.Dead = true
		s.View[i] = ExplodedMine
		return -1, nil
	}

	count := s.Board.NearbyMines(c)
	s.View[i] = CellView(count)
	s.Probes = append(s.Probes, c)

	s.checkWon()
	return count, nil
}

/*
The game is won once exactly as many cells stay covered as there are
mines: no safe cell is left to open. Mines that were never flagged get
shown on the spot.
*/
func (s *State) checkWon() {
	covered := 0
	for _, v := range s.View {
		if v < 0 {
			covered++
		}
	}
	if covered != s.Board.MineCount() {
		return
	}
	for i, v := range s.View {
		if v == Covered {
			s.View[i] = RevealedMine
		} else if v == Flagged {
			s.View[i] = CorrectFlag
		}
	}
	s.Won = true
}

// Flag marks a covered cell as a certain mine. Marks are display aids
// and never affect probing.
func (s *State) Flag(c grid.Cell) {
	i := s.Board.Size.Index(c)
	if s.View[i] == Covered || s.View[i] == MarkedSafe {
		s.View[i] = Flagged
	}
}

// MarkSafe marks a covered cell as certainly free of mines.
func (s *State) MarkSafe(c grid.Cell) {
	i := s.Board.Size.Index(c)
	if s.View[i] == Covered {
		s.View[i] = MarkedSafe
	}
}

// Forfeit gives the game up and exposes the whole board.
func (s *State) Forfeit() {
	if !(s.Dead || s.Won) {
		s.Dead = true
	}
	s.Reveal()
}

// Reveal exposes the ground truth on the view once the game is over.
func (s *State) Reveal() {
	if !(s.Dead || s.Won) {
		s.Dead = true
	}
	for i, v := range s.View {
		c := s.Board.Size.CellAt(i)
		switch {
		case v == Flagged:
			if s.Board.MineAt(c) {
				s.View[i] = CorrectFlag
			} else {
				s.View[i] = WrongFlag
			}
		case v == Covered || v == MarkedSafe:
			if s.Board.MineAt(c) {
				s.View[i] = RevealedMine
			} else {
				s.View[i] = CellView(s.Board.NearbyMines(c))
			}
		}
	}
}
