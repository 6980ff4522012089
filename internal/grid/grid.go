package grid

import "fmt"

// Cell is a single grid coordinate. Cells are plain values: they are
// compared, hashed and copied freely.
type Cell struct {
	X, Y int
}

func (c Cell) String() string {
	return fmt.Sprintf("%d:%d", c.X, c.Y)
}

// Cmp orders cells row-major, y before x.
func Cmp(a, b Cell) int {
	if a.Y < b.Y {
		return -1
	}
	if a.Y > b.Y {
		return 1
	}
	if a.X < b.X {
		return -1
	}
	if a.X > b.X {
		return 1
	}
	return 0
}

// Size is the fixed extent of a grid, set once at game start.
type Size struct {
	Width, Height int
}

func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

func (s Size) Contains(c Cell) bool {
	return 0 <= c.X && c.X < s.Width && 0 <= c.Y && c.Y < s.Height
}

func (s Size) CellCount() int {
	return s.Width * s.Height
}

// Index maps a cell to its row-major position.
func (s Size) Index(c Cell) int {
	return c.Y*s.Width + c.X
}

// CellAt is the inverse of [Size.Index].
func (s Size) CellAt(i int) Cell {
	return Cell{X: i % s.Width, Y: i / s.Width}
}

// Neighbors returns the in-bounds cells adjacent to c, the cell itself
// excluded, in row-major order.
func (s Size) Neighbors(c Cell) []Cell {
	ns := make([]Cell, 0, 8)
	for dy := -1; dy <= +1; dy++ {
		for dx := -1; dx <= +1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := Cell{X: c.X + dx, Y: c.Y + dy}
			if s.Contains(n) {
				ns = append(ns, n)
			}
		}
	}
	return ns
}
