package game

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/ametelin/minesweeper-agent/internal/grid"
)

// Board is the ground truth of one game: the mine mask, laid out
// row-major. Boards never change after generation.
type Board struct {
	Size  grid.Size
	Mines []bool
}

/*
NewBoard places mines at random, none of them on start or within one
cell of it, so the first probe always opens safely. Fairness (a board
that can be cleared without ever guessing) is the caller's business:
regenerate until a solvable board comes up.
*/
func NewBoard(p Params, start grid.Cell, r *rand.Rand) (*Board, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	size := p.Size()
	if !size.Contains(start) {
		return nil, fmt.Errorf("starting cell %s outside %dx%d board", start, p.Width, p.Height)
	}

	mines := make([]bool, size.CellCount())

	/*
	 * Write down the list of possible mine locations.
	 */
	candidates := make([]int, 0, size.CellCount())
	for y := range p.Height {
		for x := range p.Width {
			if absDiff(start.Y, y) > 1 || absDiff(start.X, x) > 1 {
				candidates = append(candidates, y*p.Width+x)
			}
		}
	}
	if p.MineCount > len(candidates) {
		return nil, fmt.Errorf(
			"%d mines do not fit around starting cell %s",
			p.MineCount, start,
		)
	}

	/*
	 * Now pick n off the list at random.
	 */
	k := len(candidates)
	for range p.MineCount {
		i := r.IntN(k)
		mines[candidates[i]] = true
		k--
		candidates[i] = candidates[k]
	}

	return &Board{Size: size, Mines: mines}, nil
}

func (b *Board) MineAt(c grid.Cell) bool {
	return b.Mines[b.Size.Index(c)]
}

func (b *Board) MineCount() (count int) {
	for _, m := range b.Mines {
		if m {
			count++
		}
	}
	return
}

// NearbyMines counts the mines among all neighbors of c. It does not
// care whether c itself is mined.
func (b *Board) NearbyMines(c grid.Cell) (count int) {
	for _, n := range b.Size.Neighbors(c) {
		if b.MineAt(n) {
			count++
		}
	}
	return
}

func (b *Board) String() string {
	var sb strings.Builder
	for y := range b.Size.Height {
		for x := range b.Size.Width {
			if b.MineAt(grid.Cell{X: x, Y: y}) {
				sb.WriteString("* ")
			} else {
				sb.WriteString("- ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
