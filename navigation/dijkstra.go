package navigation

import (
	"strconv"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/lixenwraith/pathviz/core"
	"github.com/lixenwraith/pathviz/grid"
)

// IterStatus is the signal returned by Dijkstra.Iterate
type IterStatus uint8

const (
	IterSettled   IterStatus = iota // A vertex was removed and its neighbors relaxed
	IterFinished                    // Minimum is the target or unreachable, nothing removed
	IterExhausted                   // Remaining set is empty
)

func (s IterStatus) String() string {
	switch s {
	case IterSettled:
		return "settled"
	case IterFinished:
		return "finished"
	case IterExhausted:
		return "exhausted"
	}
	return "unknown"
}

// Dijkstra is a resumable Dijkstra search over the remaining vertex set.
// Selection is a linear scan in arena index order, first strict minimum wins.
type Dijkstra struct {
	graph          *grid.Graph
	source, target core.Point
	targetIdx      int
	remaining      *treeset.Set // Arena indices of unsettled free cells
}

// NewDijkstra creates an engine and runs Setup
func NewDijkstra(g *grid.Graph, source, target core.Point) *Dijkstra {
	d := &Dijkstra{
		graph:     g,
		source:    source,
		target:    target,
		targetIdx: g.Index(target),
	}
	d.Setup()
	return d
}

// Setup resets Dijkstra fields and fills the remaining set with every free cell
func (d *Dijkstra) Setup() {
	d.graph.ResetDijkstra()
	d.remaining = treeset.NewWithIntComparator()

	for i := 0; i < d.graph.Len(); i++ {
		if !d.graph.NodeAt(i).Obstacle {
			d.remaining.Add(i)
		}
	}

	d.graph.Node(d.source).Dist = 0
}

// Remaining returns the number of unsettled vertices
func (d *Dijkstra) Remaining() int {
	return d.remaining.Size()
}

// Iterate runs one relaxation round
func (d *Dijkstra) Iterate() (core.Point, IterStatus) {
	if d.remaining.Empty() {
		return core.Point{}, IterExhausted
	}

	minIdx := -1
	minDist := grid.Infinity
	it := d.remaining.Iterator()
	for it.Next() {
		idx := it.Value().(int)
		if dist := d.graph.NodeAt(idx).Dist; minIdx < 0 || dist < minDist {
			minIdx = idx
			minDist = dist
		}
	}

	u := d.graph.NodeAt(minIdx)
	if minIdx == d.targetIdx || minDist == grid.Infinity {
		return u.Pos, IterFinished
	}

	d.remaining.Remove(minIdx)
	u.Membership = grid.Closed

	for _, p := range u.Connections {
		v := d.graph.Node(p)
		if v.Membership == grid.Closed {
			continue
		}
		if alt := u.Dist + 1; alt < v.Dist {
			v.Dist = alt
			v.Prev = u.Pos
			v.HasPrev = true
		}
	}

	return u.Pos, IterSettled
}

// Reconstruct walks predecessors from target to source; a broken chain means no path
func (d *Dijkstra) Reconstruct() ([]core.Point, error) {
	path, ok := TracePath(d.graph, d.source, d.target)
	if !ok {
		return nil, ErrNoPath
	}
	return path, nil
}

// DijkstraStepper drives a Dijkstra engine through the Searcher contract
type DijkstraStepper struct {
	engine *Dijkstra

	phase    Phase
	outcome  Outcome
	unwinder pathUnwinder
	steps    int
	settled  int
}

// NewDijkstraStepper creates a stepper over a fresh Dijkstra engine
func NewDijkstraStepper(g *grid.Graph, source, target core.Point) *DijkstraStepper {
	return &DijkstraStepper{engine: NewDijkstra(g, source, target)}
}

// Engine exposes the underlying three-phase engine
func (s *DijkstraStepper) Engine() *Dijkstra {
	return s.engine
}

// Algorithm reports AlgoDijkstra
func (s *DijkstraStepper) Algorithm() Algorithm {
	return AlgoDijkstra
}

// Phase returns the current stepping phase
func (s *DijkstraStepper) Phase() Phase {
	return s.phase
}

// Outcome returns found/no-path/pending
func (s *DijkstraStepper) Outcome() Outcome {
	return s.outcome
}

// Terminal reports whether further steps are no-ops
func (s *DijkstraStepper) Terminal() bool {
	return s.phase == PhaseDone
}

// Stats returns run counters
func (s *DijkstraStepper) Stats() Stats {
	return Stats{
		Steps:    s.steps,
		Frontier: s.engine.Remaining(),
		Settled:  s.settled,
		PathLen:  s.unwinder.pathLen(),
	}
}

// Path returns the reconstructed path, nil until the goal is reached
func (s *DijkstraStepper) Path() []core.Point {
	return s.unwinder.copyPath()
}

// Step performs one Iterate, the one-time reconstruction, or one unwind
func (s *DijkstraStepper) Step() StepResult {
	switch s.phase {
	case PhaseDone:
		return StepResult{Phase: PhaseDone}
	case PhaseUnwinding:
		e, ok := s.unwinder.next()
		if !ok {
			s.phase = PhaseDone
			return StepResult{Phase: s.phase}
		}
		return StepResult{Phase: s.phase, Effects: []Effect{e}}
	}

	s.steps++
	pos, status := s.engine.Iterate()

	switch status {
	case IterSettled:
		s.settled++
		if pos == s.engine.source {
			return StepResult{Phase: s.phase}
		}
		n := s.engine.graph.Node(pos)
		return StepResult{
			Phase: s.phase,
			Effects: []Effect{{
				Pos:   pos,
				Paint: core.PaintSettled,
				Label: strconv.Itoa(n.Dist),
			}},
		}
	}

	// Finished or exhausted: reconstruct once
	path, err := s.engine.Reconstruct()
	if err != nil {
		s.outcome = OutcomeNoPath
		s.phase = PhaseDone
		return StepResult{Phase: s.phase}
	}

	s.unwinder = pathUnwinder{path: path}
	s.outcome = OutcomeFound
	s.phase = PhaseUnwinding
	return StepResult{
		Phase:   s.phase,
		Effects: []Effect{{Pos: s.engine.target, Paint: core.PaintGoal}},
	}
}

// NewSearcher constructs the engine for algo over g
func NewSearcher(algo Algorithm, g *grid.Graph, start, goal core.Point) Searcher {
	if algo == AlgoDijkstra {
		return NewDijkstraStepper(g, start, goal)
	}
	return NewAStar(g, start, goal)
}
