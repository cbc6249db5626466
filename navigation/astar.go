package navigation

import (
	"fmt"
	"strconv"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"

	"github.com/lixenwraith/pathviz/core"
	"github.com/lixenwraith/pathviz/grid"
)

// openKey orders the A* open set by F, then by arena index for deterministic ties
type openKey struct {
	f   int
	idx int
}

func openKeyComparator(a, b interface{}) int {
	ka := a.(openKey)
	kb := b.(openKey)
	switch {
	case ka.f < kb.f:
		return -1
	case ka.f > kb.f:
		return 1
	}
	return utils.IntComparator(ka.idx, kb.idx)
}

// AStar is a resumable A* search, one expansion per Step
type AStar struct {
	graph       *grid.Graph
	start, goal core.Point
	goalIdx     int

	open   *treeset.Set // openKey values, minimum first
	closed int

	phase    Phase
	outcome  Outcome
	unwinder pathUnwinder
	steps    int
}

// NewAStar resets the A* fields of g and opens start
func NewAStar(g *grid.Graph, start, goal core.Point) *AStar {
	g.ResetAStar()

	a := &AStar{
		graph:   g,
		start:   start,
		goal:    goal,
		goalIdx: g.Index(goal),
		open:    treeset.NewWith(openKeyComparator),
	}

	n := g.Node(start)
	n.G = 0
	n.H = core.Manhattan(start, goal)
	n.F = n.G + n.H
	n.Membership = grid.Open
	a.open.Add(openKey{f: n.F, idx: g.Index(start)})

	return a
}

// Algorithm returns AlgoAStar
func (a *AStar) Algorithm() Algorithm {
	return AlgoAStar
}

// Phase returns the current state machine phase
func (a *AStar) Phase() Phase {
	return a.phase
}

// Exhausted reports the no-path terminal condition: still searching with an empty open set
func (a *AStar) Exhausted() bool {
	return a.phase == PhaseSearching && a.open.Empty()
}

// Outcome returns found/no-path/pending
func (a *AStar) Outcome() Outcome {
	if a.Exhausted() {
		return OutcomeNoPath
	}
	return a.outcome
}

// Terminal reports whether further steps are no-ops
func (a *AStar) Terminal() bool {
	return a.phase == PhaseDone || a.Exhausted()
}

// OpenLen returns the open set size
func (a *AStar) OpenLen() int {
	return a.open.Size()
}

// Stats returns run counters
func (a *AStar) Stats() Stats {
	return Stats{
		Steps:    a.steps,
		Frontier: a.open.Size(),
		Settled:  a.closed,
		PathLen:  a.unwinder.pathLen(),
	}
}

// Path returns the reconstructed path, nil until the goal is reached
func (a *AStar) Path() []core.Point {
	return a.unwinder.copyPath()
}

// Step advances the state machine by one transition
func (a *AStar) Step() StepResult {
	switch a.phase {
	case PhaseDone:
		return StepResult{Phase: PhaseDone}
	case PhaseUnwinding:
		return a.unwind()
	}

	if a.open.Empty() {
		return StepResult{Phase: a.phase}
	}
	a.steps++

	it := a.open.Iterator()
	it.First()
	key := it.Value().(openKey)

	if key.idx == a.goalIdx {
		path, ok := TracePath(a.graph, a.start, a.goal)
		if !ok {
			panic(fmt.Sprintf("navigation: broken predecessor chain from %v to %v", a.goal, a.start))
		}
		a.unwinder = pathUnwinder{path: path}
		a.phase = PhaseUnwinding
		a.outcome = OutcomeFound
		return StepResult{
			Phase:   a.phase,
			Effects: []Effect{{Pos: a.goal, Paint: core.PaintGoal}},
		}
	}

	a.open.Remove(key)
	x := a.graph.NodeAt(key.idx)
	x.Membership = grid.Closed
	a.closed++

	effects := make([]Effect, 0, len(x.Connections))
	for _, p := range x.Connections {
		yIdx := a.graph.Index(p)
		y := a.graph.NodeAt(yIdx)
		if y.Membership == grid.Closed {
			continue
		}

		tentative := x.G + 1
		improved := false
		if y.Membership != grid.Open {
			y.H = core.Manhattan(p, a.goal)
			y.Membership = grid.Open
			improved = true
		} else if tentative < y.G {
			a.open.Remove(openKey{f: y.F, idx: yIdx})
			improved = true
		}
		if !improved {
			continue
		}

		y.Prev = x.Pos
		y.HasPrev = true
		y.G = tentative
		y.F = y.G + y.H
		a.open.Add(openKey{f: y.F, idx: yIdx})

		effects = append(effects, Effect{
			Pos:   p,
			Paint: core.PaintFrontier,
			Label: strconv.Itoa(y.G),
		})
	}

	return StepResult{Phase: a.phase, Effects: effects}
}

func (a *AStar) unwind() StepResult {
	e, ok := a.unwinder.next()
	if !ok {
		a.phase = PhaseDone
		return StepResult{Phase: a.phase}
	}
	return StepResult{Phase: a.phase, Effects: []Effect{e}}
}
