package knowledge

import (
	"fmt"

	"github.com/ametelin/minesweeper-agent/internal/grid"
)

/*
A Constraint states that exactly count members of a cell set are hazards.
Constraints are immutable values; every operation returns a derived
constraint and leaves the receiver untouched. All mutation of the live
collection belongs to the [KnowledgeBase].
*/
type Constraint struct {
	cells grid.Set
	count int
}

// NewConstraint copies cells into a fresh constraint. A count outside
// [0, len(cells)] can never hold and is reported as a contradiction.
func NewConstraint(cells grid.Set, count int) (Constraint, error) {
	c := Constraint{cells: cells.Clone(), count: count}
	if !c.valid() {
		return Constraint{}, invariantf("impossible constraint %s", c)
	}
	return c, nil
}

func (c Constraint) valid() bool {
	return 0 <= c.count && c.count <= c.cells.Len()
}

func (c Constraint) Count() int {
	return c.count
}

func (c Constraint) Len() int {
	return c.cells.Len()
}

func (c Constraint) Has(cell grid.Cell) bool {
	return c.cells.Has(cell)
}

// Cells returns the member cells in row-major order.
func (c Constraint) Cells() []grid.Cell {
	return c.cells.Sorted()
}

func (c Constraint) Equal(other Constraint) bool {
	return c.count == other.count && c.cells.Equal(other.cells)
}

// Constraint implements [fmt.Stringer]
func (c Constraint) String() string {
	return fmt.Sprintf("%s=%d", c.cells, c.count)
}

// key is the canonical identity of the cell set, used to deduplicate the
// live collection. Two live constraints never share a key.
func (c Constraint) key() string {
	return c.cells.String()
}

// TriviallyHazardous returns every cell when the count equals the set size:
// each remaining cell must be a hazard. Empty otherwise.
func (c Constraint) TriviallyHazardous() grid.Set {
	if c.cells.Len() > 0 && c.count == c.cells.Len() {
		return c.cells.Clone()
	}
	return grid.NewSet()
}

// TriviallySafe returns every cell when the count is zero: no remaining
// cell can be a hazard. Empty otherwise.
func (c Constraint) TriviallySafe() grid.Set {
	if c.cells.Len() > 0 && c.count == 0 {
		return c.cells.Clone()
	}
	return grid.NewSet()
}

// Resolve removes a cell whose status became known, decrementing the count
// when the cell is a hazard. A cell outside the set yields the receiver
// unchanged. The result may be momentarily invalid; the caller checks.
func (c Constraint) Resolve(cell grid.Cell, hazard bool) Constraint {
	if !c.cells.Has(cell) {
		return c
	}
	cells := c.cells.Clone()
	cells.Delete(cell)
	count := c.count
	if hazard {
		count--
	}
	return Constraint{cells: cells, count: count}
}

// Subtract applies the subset-difference rule: when other's cells form a
// proper subset of c's, other's count accounts for exactly the hazards in
// that subset and the remaining cells carry the remaining count.
func (c Constraint) Subtract(other Constraint) (Constraint, bool) {
	if other.cells.Len() >= c.cells.Len() || !c.cells.ContainsAll(other.cells) {
		return Constraint{}, false
	}
	return Constraint{
		cells: c.cells.Diff(other.cells),
		count: c.count - other.count,
	}, true
}
