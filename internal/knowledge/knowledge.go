// Package knowledge holds the deduction engine: it ingests hazard-count
// observations from a partially revealed grid and derives, by counting
// arguments alone, which unrevealed cells are certainly hazardous and
// which are certainly safe.
package knowledge

import (
	"fmt"

	"github.com/ametelin/minesweeper-agent/internal/grid"
	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// fact records a cell whose status became certain and still has to be
// folded into the live constraints.
type fact struct {
	cell   grid.Cell
	hazard bool
}

/*
A KnowledgeBase accumulates everything that is certain about one game
session: the live constraints plus the sets of known-hazard, known-safe
and probed cells. The certainty sets stay disjoint and only ever grow,
and no live constraint mentions a cell whose status is known.

A KnowledgeBase belongs to a single session and a single goroutine.
*/
type KnowledgeBase struct {
	size    grid.Size
	store   *store
	hazards grid.Set
	safes   grid.Set
	probed  grid.Set
	facts   deque.Deque[fact]
}

func New(width, height int) (*KnowledgeBase, error) {
	size := grid.Size{Width: width, Height: height}
	if !size.Valid() {
		return nil, fmt.Errorf("invalid grid size %dx%d", width, height)
	}
	return &KnowledgeBase{
		size:    size,
		store:   newStore(),
		hazards: grid.NewSet(),
		safes:   grid.NewSet(),
		probed:  grid.NewSet(),
	}, nil
}

/*
Observe folds one probe result into the knowledge base: cell was
revealed safe and exactly count of its neighbors are hazards. The
deduction fixpoint runs to completion before Observe returns, so a
caller never sees a half-propagated state.

A malformed observation is rejected as [ObservationError] before any
state changes. A contradiction with facts already derived surfaces as
[InvariantError]; the session is not usable afterwards. Observing an
already probed cell again is a no-op.
*/
func (kb *KnowledgeBase) Observe(cell grid.Cell, count int) error {
	if !kb.size.Contains(cell) {
		return observationf("cell %s outside %dx%d grid", cell, kb.size.Width, kb.size.Height)
	}
	if kb.probed.Has(cell) {
		return nil
	}
	if count < 0 {
		return observationf("negative hazard count %d for cell %s", count, cell)
	}
	if kb.hazards.Has(cell) {
		return invariantf("cell %s reported safe but known hazardous", cell)
	}

	// The board counts hazards among all neighbors; the new constraint
	// may only range over the unresolved ones. Hazards already known
	// explain part of the count and are subtracted up front.
	unresolved := grid.NewSet()
	flagged := 0
	for _, n := range kb.size.Neighbors(cell) {
		switch {
		case kb.hazards.Has(n):
			flagged++
		case kb.safes.Has(n):
		default:
			unresolved.Add(n)
		}
	}
	remaining := count - flagged
	if remaining < 0 || remaining > unresolved.Len() {
		return observationf(
			"cell %s reports %d hazards with %d known and %d neighbors unresolved",
			cell, count, flagged, unresolved.Len(),
		)
	}

	if err := kb.markSafe(cell); err != nil {
		return err
	}
	kb.probed.Add(cell)

	if unresolved.Len() > 0 {
		c, err := NewConstraint(unresolved, remaining)
		if err != nil {
			return err
		}
		if err := kb.add(c); err != nil {
			return err
		}
	}

	if err := kb.propagate(); err != nil {
		return err
	}

	Log.WithFields(logrus.Fields{
		"cell":        cell,
		"count":       count,
		"hazards":     kb.hazards.Len(),
		"safes":       kb.safes.Len(),
		"constraints": kb.store.size(),
	}).Debug("observation propagated")
	return nil
}

// markHazard commits cell as a certain hazard and queues the fact for a
// resolve pass over the live constraints. A cell already committed is
// skipped, so the certainty sets only ever grow.
func (kb *KnowledgeBase) markHazard(cell grid.Cell) error {
	if kb.hazards.Has(cell) {
		return nil
	}
	if kb.safes.Has(cell) {
		return invariantf("cell %s deduced hazardous but known safe", cell)
	}
	kb.hazards.Add(cell)
	kb.facts.PushBack(fact{cell: cell, hazard: true})
	Log.WithField("cell", cell).Debug("marked hazardous")
	return nil
}

func (kb *KnowledgeBase) markSafe(cell grid.Cell) error {
	if kb.safes.Has(cell) {
		return nil
	}
	if kb.hazards.Has(cell) {
		return invariantf("cell %s deduced safe but known hazardous", cell)
	}
	kb.safes.Add(cell)
	kb.facts.PushBack(fact{cell: cell, hazard: false})
	Log.WithField("cell", cell).Debug("marked safe")
	return nil
}

// add files a new or derived constraint, discarding degenerate and
// duplicate ones. Two constraints over the same cells with different
// counts cannot both hold.
func (kb *KnowledgeBase) add(c Constraint) error {
	if c.Len() == 0 {
		if c.Count() != 0 {
			return invariantf("%d hazards left among no cells", c.Count())
		}
		return nil
	}
	if !c.valid() {
		return invariantf("derived impossible constraint %s", c)
	}
	if cur, ok := kb.store.lookup(c.key()); ok {
		if cur.c.Count() != c.Count() {
			return invariantf("conflicting constraints %s and %s", cur.c, c)
		}
		return nil
	}
	kb.store.insert(c)
	return nil
}

// propagate drains queued facts and pending constraints until no rule
// fires anymore. Facts always go first: a constraint is only inspected
// once every known cell status has been folded into it.
func (kb *KnowledgeBase) propagate() error {
	for {
		for kb.facts.Len() != 0 {
			if err := kb.applyFact(kb.facts.PopFront()); err != nil {
				return err
			}
		}
		e, ok := kb.store.next()
		if !ok {
			return nil
		}
		if err := kb.deduce(e); err != nil {
			return err
		}
	}
}

// applyFact purges a newly certain cell from every live constraint. The
// affected entries are snapshotted first and replaced in a second step,
// so the scan never walks a collection it is mutating.
func (kb *KnowledgeBase) applyFact(f fact) error {
	for _, e := range kb.store.containing(f.cell) {
		kb.store.remove(e)
		if err := kb.add(e.c.Resolve(f.cell, f.hazard)); err != nil {
			return err
		}
	}
	return nil
}

// deduce applies the counting rules to one constraint: the trivial
// rules when the count pins every cell, the subset-difference rule
// against every other live constraint otherwise. Subset derivations are
// buffered during the scan and filed afterwards.
func (kb *KnowledgeBase) deduce(e *entry) error {
	if haz := e.c.TriviallyHazardous(); haz.Len() > 0 {
		for _, cell := range haz.Sorted() {
			if err := kb.markHazard(cell); err != nil {
				return err
			}
		}
		return nil
	}
	if safe := e.c.TriviallySafe(); safe.Len() > 0 {
		for _, cell := range safe.Sorted() {
			if err := kb.markSafe(cell); err != nil {
				return err
			}
		}
		return nil
	}

	var derived []Constraint
	for _, other := range kb.store.snapshot() {
		if other == e {
			continue
		}
		if d, ok := e.c.Subtract(other.c); ok {
			derived = append(derived, d)
		}
		if d, ok := other.c.Subtract(e.c); ok {
			derived = append(derived, d)
		}
	}
	for _, d := range derived {
		if err := kb.add(d); err != nil {
			return err
		}
	}
	return nil
}

func (kb *KnowledgeBase) Size() grid.Size {
	return kb.size
}

// KnownHazards returns a snapshot of the cells certain to be hazards.
func (kb *KnowledgeBase) KnownHazards() grid.Set {
	return kb.hazards.Clone()
}

// KnownSafe returns a snapshot of the cells certain to be safe, probed
// cells included.
func (kb *KnowledgeBase) KnownSafe() grid.Set {
	return kb.safes.Clone()
}

// Probed returns a snapshot of the cells observed so far.
func (kb *KnowledgeBase) Probed() grid.Set {
	return kb.probed.Clone()
}

func (kb *KnowledgeBase) IsHazard(cell grid.Cell) bool {
	return kb.hazards.Has(cell)
}

func (kb *KnowledgeBase) IsSafe(cell grid.Cell) bool {
	return kb.safes.Has(cell)
}

func (kb *KnowledgeBase) WasProbed(cell grid.Cell) bool {
	return kb.probed.Has(cell)
}

// Constraints returns a snapshot of the live constraints in canonical
// order.
func (kb *KnowledgeBase) Constraints() []Constraint {
	entries := kb.store.snapshot()
	cs := make([]Constraint, len(entries))
	for i, e := range entries {
		cs[i] = e.c
	}
	return cs
}

// ConstraintCount reports how many constraints are currently live.
func (kb *KnowledgeBase) ConstraintCount() int {
	return kb.store.size()
}
