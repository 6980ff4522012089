package grid

import (
	"slices"
	"strings"
)

type void struct{}

// Set is an unordered collection of cells.
type Set map[Cell]void

func NewSet(cells ...Cell) Set {
	s := make(Set, len(cells))
	for _, c := range cells {
		s[c] = void{}
	}
	return s
}

func (s Set) Add(c Cell) {
	s[c] = void{}
}

func (s Set) Has(c Cell) bool {
	_, ok := s[c]
	return ok
}

func (s Set) Delete(c Cell) {
	delete(s, c)
}

func (s Set) Len() int {
	return len(s)
}

func (s Set) Clone() Set {
	clone := make(Set, len(s))
	for c := range s {
		clone[c] = void{}
	}
	return clone
}

func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for c := range s {
		if !other.Has(c) {
			return false
		}
	}
	return true
}

// ContainsAll reports whether every cell of other is also in s.
func (s Set) ContainsAll(other Set) bool {
	if len(other) > len(s) {
		return false
	}
	for c := range other {
		if !s.Has(c) {
			return false
		}
	}
	return true
}

// Diff returns the cells of s that are not in other.
func (s Set) Diff(other Set) Set {
	d := make(Set)
	for c := range s {
		if !other.Has(c) {
			d[c] = void{}
		}
	}
	return d
}

// Sorted returns the cells in row-major order.
func (s Set) Sorted() []Cell {
	cells := make([]Cell, 0, len(s))
	for c := range s {
		cells = append(cells, c)
	}
	slices.SortFunc(cells, Cmp)
	return cells
}

func (s Set) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, c := range s.Sorted() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.String())
	}
	b.WriteByte('}')
	return b.String()
}
