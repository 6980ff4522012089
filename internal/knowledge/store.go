package knowledge

import (
	"slices"
	"strings"

	"github.com/ametelin/minesweeper-agent/internal/grid"
	"github.com/gammazero/deque"
)

/*
We keep a large number of small localised constraints in a map keyed by
their canonical cell-set signature, which deduplicates constraints over
the same cells on insert. Constraints that still need a deduction pass
are linked into a pending queue.
*/
type entry struct {
	c      Constraint
	queued bool
}

type store struct {
	live    map[string]*entry
	pending deque.Deque[*entry]
}

func newStore() *store {
	return &store{live: make(map[string]*entry)}
}

func (s *store) size() int {
	return len(s.live)
}

func (s *store) lookup(key string) (*entry, bool) {
	e, ok := s.live[key]
	return e, ok
}

// insert adds a constraint whose key is not present and queues it for a
// deduction pass. The caller resolves duplicates and conflicts first.
func (s *store) insert(c Constraint) *entry {
	e := &entry{c: c}
	s.live[c.key()] = e
	s.enqueue(e)
	return e
}

func (s *store) remove(e *entry) {
	delete(s.live, e.c.key())
}

func (s *store) enqueue(e *entry) {
	if e.queued {
		return /* already on it */
	}
	e.queued = true
	s.pending.PushBack(e)
}

// next pops the oldest pending live constraint. Entries removed from the
// live map while queued are skipped when they surface.
func (s *store) next() (*entry, bool) {
	for s.pending.Len() != 0 {
		e := s.pending.PopFront()
		e.queued = false
		if cur, ok := s.live[e.c.key()]; ok && cur == e {
			return e, true
		}
	}
	return nil, false
}

// snapshot returns the live entries in key order, detached from later
// map mutation.
func (s *store) snapshot() []*entry {
	entries := make([]*entry, 0, len(s.live))
	for _, e := range s.live {
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b *entry) int {
		return strings.Compare(a.c.key(), b.c.key())
	})
	return entries
}

// containing returns the live entries whose constraint covers cell.
func (s *store) containing(cell grid.Cell) []*entry {
	var entries []*entry
	for _, e := range s.snapshot() {
		if e.c.Has(cell) {
			entries = append(entries, e)
		}
	}
	return entries
}
