package game

import (
	"fmt"
	"strconv"
	"strings"
)

type CellView int8

const (
	MarkedSafe CellView = -3
	Covered    CellView = -2
	Flagged    CellView = -1
	/*
	 * Each item in the `view' array is one of the following values:
	 *
	 * 	- 0 to 8 mean the cell is open and has a surrounding mine
	 * 	  count.
	 *
	 *  - -1 means the cell is flagged as a certain mine.
	 *
	 *  - -2 means the cell is covered and undetermined.
	 *
	 * 	- -3 means the cell is covered but known safe.
	 *
	 * 	- 64 and up are only used once the game is over, to show
	 * 	  where the mines really were.
	 */
	CorrectFlag  CellView = 64
	ExplodedMine CellView = 65
	WrongFlag    CellView = 66
	RevealedMine CellView = 67
)

func (v CellView) String() string {
	switch {
	case v == MarkedSafe:
		return "."
	case v == Covered:
		return " "
	case v == Flagged:
		return "*"
	case 0 <= v && v <= 8:
		return strconv.Itoa(int(v))
	default:
		return "!"
	}
}

// View is what the player may see of a board, laid out row-major.
type View []CellView

func (g View) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			i := y*width + x
			if i >= len(g) {
				break
			}
			fmt.Fprint(&b, g[i].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
