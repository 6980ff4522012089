package game

import (
	"fmt"
	"strings"

	"github.com/ametelin/minesweeper-agent/internal/grid"
)

type Params struct {
	Width, Height, MineCount int
	Fair                     bool
}

func (p Params) Unpack() (w int, h int, mc int, fair bool) {
	return p.Width, p.Height, p.MineCount, p.Fair
}

func (p Params) Size() grid.Size {
	return grid.Size{Width: p.Width, Height: p.Height}
}

// Validate checks that a board with these parameters can exist. The
// first probe and its neighbors are always kept clear of mines, so at
// least nine cells stay free.
func (p Params) Validate() error {
	if !p.Size().Valid() {
		return fmt.Errorf("invalid board size %dx%d", p.Width, p.Height)
	}
	if p.MineCount < 0 {
		return fmt.Errorf("invalid mine count %d", p.MineCount)
	}
	if p.MineCount > p.Size().CellCount()-9 {
		return fmt.Errorf(
			"%d mines do not fit on a %dx%d board",
			p.MineCount, p.Width, p.Height,
		)
	}
	return nil
}

func (p Params) Seed() string {
	f := 0
	if p.Fair {
		f = 1
	}
	return fmt.Sprintf("%d:%d:%d:%d", p.Width, p.Height, p.MineCount, f)
}

func ParseSeed(seed string) (*Params, error) {
	p := &Params{}
	f := 0
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(
		sseed, "%d %d %d %d", &p.Width, &p.Height, &p.MineCount, &f,
	)
	if n != 4 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	p.Fair = f == 1
	return p, nil
}
