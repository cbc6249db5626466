package navigation

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/pkg/errors"

	"github.com/lixenwraith/pathviz/core"
	"github.com/lixenwraith/pathviz/grid"
)

func TestDijkstraSetup(t *testing.T) {
	g := buildGrid(t,
		"..#",
		"...",
	)
	source := core.Point{X: 0, Y: 0}
	d := NewDijkstra(g, source, core.Point{X: 2, Y: 0})

	if d.Remaining() != 5 {
		t.Errorf("Expected 5 remaining vertices, got %d", d.Remaining())
	}
	if g.Node(source).Dist != 0 {
		t.Errorf("Expected source dist 0, got %d", g.Node(source).Dist)
	}
	if g.Node(core.Point{X: 1, Y: 1}).Dist != grid.Infinity {
		t.Error("Expected other vertices at Infinity")
	}
}

func TestDijkstraRemainingShrinksByOne(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 15; trial++ {
		w, h := 4+rng.Intn(10), 4+rng.Intn(10)
		source := core.Point{X: rng.Intn(w), Y: rng.Intn(h)}
		target := core.Point{X: rng.Intn(w), Y: rng.Intn(h)}
		g := randomGrid(t, rng, w, h, 0.3, source, target)

		d := NewDijkstra(g, source, target)
		removed := make(map[core.Point]bool)

		for i := 0; ; i++ {
			if i > g.Len() {
				t.Fatal("Iterate did not finish")
			}
			before := d.Remaining()
			pos, status := d.Iterate()
			after := d.Remaining()

			if status != IterSettled {
				if after != before {
					t.Errorf("trial %d: %s changed remaining %d -> %d", trial, status, before, after)
				}
				break
			}
			if after != before-1 {
				t.Errorf("trial %d: expected remaining %d, got %d", trial, before-1, after)
			}
			if removed[pos] {
				t.Errorf("trial %d: %v settled twice", trial, pos)
			}
			removed[pos] = true
			if g.Node(pos).Membership != grid.Closed {
				t.Errorf("trial %d: settled %v not closed", trial, pos)
			}
		}
	}
}

func TestDijkstraCorridor(t *testing.T) {
	g := buildGrid(t, ".....")
	source, target := core.Point{X: 0, Y: 0}, core.Point{X: 4, Y: 0}
	d := NewDijkstra(g, source, target)

	var order []core.Point
	for {
		pos, status := d.Iterate()
		if status != IterSettled {
			if status != IterFinished || pos != target {
				t.Fatalf("Expected finished at target, got %s at %v", status, pos)
			}
			break
		}
		order = append(order, pos)
	}

	want := []core.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("Expected settle order %v, got %v", want, order)
	}
	if g.Node(target).Dist != 4 {
		t.Errorf("Expected Dist(target)=4, got %d", g.Node(target).Dist)
	}
	// Finished does not remove the target
	if d.Remaining() != 1 {
		t.Errorf("Expected target to stay in remaining set, got %d", d.Remaining())
	}

	path, err := d.Reconstruct()
	if err != nil {
		t.Fatalf("Reconstruct failed: %v", err)
	}
	if !reflect.DeepEqual(path, []core.Point{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 4, Y: 0}}) {
		t.Errorf("Unexpected path %v", path)
	}
}

func TestDijkstraWalledOff(t *testing.T) {
	g := buildGrid(t,
		"..#..",
		"..#..",
	)
	source, target := core.Point{X: 0, Y: 0}, core.Point{X: 4, Y: 1}
	d := NewDijkstra(g, source, target)

	settled := 0
	var status IterStatus
	for {
		_, status = d.Iterate()
		if status != IterSettled {
			break
		}
		settled++
	}

	if status != IterFinished {
		t.Errorf("Expected finished, got %s", status)
	}
	if settled != 4 {
		t.Errorf("Expected the 4 reachable cells settled, got %d", settled)
	}
	if g.Node(target).Dist != grid.Infinity {
		t.Error("Expected target unreached")
	}

	path, err := d.Reconstruct()
	if !errors.Is(err, ErrNoPath) {
		t.Errorf("Expected ErrNoPath, got %v", err)
	}
	if path != nil {
		t.Errorf("Expected nil path, got %v", path)
	}
}

func TestDijkstraSourceIsTarget(t *testing.T) {
	g := buildGrid(t, ".")
	p := core.Point{}
	d := NewDijkstra(g, p, p)

	pos, status := d.Iterate()
	if status != IterFinished || pos != p {
		t.Errorf("Expected immediate finish, got %s at %v", status, pos)
	}
	path, err := d.Reconstruct()
	if err != nil || len(path) != 0 {
		t.Errorf("Expected empty path, got %v, %v", path, err)
	}
}

func TestDijkstraIterateIdempotentAfterFinish(t *testing.T) {
	g := buildGrid(t,
		"...",
		".#.",
		"...",
	)
	d := NewDijkstra(g, core.Point{X: 0, Y: 0}, core.Point{X: 2, Y: 2})
	for {
		if _, status := d.Iterate(); status != IterSettled {
			break
		}
	}

	before := snapshot(g)
	remaining := d.Remaining()
	for i := 0; i < 3; i++ {
		if _, status := d.Iterate(); status != IterFinished {
			t.Errorf("Expected repeated finish, got %s", status)
		}
	}
	if !equalSnapshots(before, snapshot(g)) || d.Remaining() != remaining {
		t.Error("Expected state unchanged by repeated Iterate")
	}
}

func TestDijkstraSetupRestarts(t *testing.T) {
	g := buildGrid(t, "...")
	d := NewDijkstra(g, core.Point{X: 0, Y: 0}, core.Point{X: 2, Y: 0})
	d.Iterate()
	d.Iterate()

	d.Setup()
	if d.Remaining() != 3 {
		t.Errorf("Expected 3 remaining after restart, got %d", d.Remaining())
	}
	if g.Node(core.Point{X: 1, Y: 0}).Dist != grid.Infinity {
		t.Error("Expected restart to clear distances")
	}
}

func TestDijkstraStepperEffects(t *testing.T) {
	g := buildGrid(t, "....")
	source, target := core.Point{X: 0, Y: 0}, core.Point{X: 3, Y: 0}
	s := NewDijkstraStepper(g, source, target)

	var settled, traced []Effect
	var goals int
	for _, res := range runToEnd(t, s, stepLimit(g)) {
		for _, e := range res.Effects {
			switch e.Paint {
			case core.PaintSettled:
				settled = append(settled, e)
			case core.PaintPathTrace:
				traced = append(traced, e)
			case core.PaintGoal:
				goals++
			}
		}
	}

	// Source settles without repainting
	wantSettled := []Effect{
		{Pos: core.Point{X: 1, Y: 0}, Paint: core.PaintSettled, Label: "1"},
		{Pos: core.Point{X: 2, Y: 0}, Paint: core.PaintSettled, Label: "2"},
	}
	if !reflect.DeepEqual(settled, wantSettled) {
		t.Errorf("Expected settled effects %v, got %v", wantSettled, settled)
	}
	if goals != 1 {
		t.Errorf("Expected one goal effect, got %d", goals)
	}
	if len(traced) != 3 {
		t.Errorf("Expected 3 traced cells, got %d", len(traced))
	}
	if s.Outcome() != OutcomeFound || s.Stats().PathLen != 3 {
		t.Errorf("Expected found with length 3, got %s/%d", s.Outcome(), s.Stats().PathLen)
	}
	if s.Stats().Settled != 3 {
		t.Errorf("Expected 3 settled, got %d", s.Stats().Settled)
	}
}

func TestDijkstraStepperAccessors(t *testing.T) {
	g := buildGrid(t, "...")
	s := NewDijkstraStepper(g, core.Point{X: 0, Y: 0}, core.Point{X: 2, Y: 0})

	if s.Algorithm() != AlgoDijkstra {
		t.Errorf("Expected dijkstra, got %s", s.Algorithm())
	}
	if s.Phase() != PhaseSearching || s.Outcome() != OutcomePending || s.Terminal() {
		t.Errorf("Expected fresh searching state, got %s %s", s.Phase(), s.Outcome())
	}
	if s.Path() != nil {
		t.Errorf("Expected nil path before goal, got %v", s.Path())
	}

	runToEnd(t, s, stepLimit(g))
	if !s.Terminal() || s.Outcome() != OutcomeFound {
		t.Errorf("Expected terminal found, got %s %s", s.Phase(), s.Outcome())
	}
	if st := s.Stats(); st.PathLen != 2 || st.Steps == 0 {
		t.Errorf("Expected path length 2 with steps counted, got %+v", st)
	}
	if p := s.Path(); len(p) != 2 || p[1] != (core.Point{X: 2, Y: 0}) {
		t.Errorf("Expected path ending at goal, got %v", p)
	}
}

func TestDijkstraStepperNoPath(t *testing.T) {
	g := buildGrid(t, ".#.")
	s := NewDijkstraStepper(g, core.Point{X: 0, Y: 0}, core.Point{X: 2, Y: 0})

	runToEnd(t, s, stepLimit(g))

	if s.Outcome() != OutcomeNoPath {
		t.Errorf("Expected no path, got %s", s.Outcome())
	}
	if s.Phase() != PhaseDone {
		t.Errorf("Expected done, got %s", s.Phase())
	}
	if s.Path() != nil {
		t.Errorf("Expected nil path, got %v", s.Path())
	}

	before := snapshot(g)
	if res := s.Step(); res.Phase != PhaseDone || len(res.Effects) != 0 {
		t.Errorf("Expected no-op step, got %+v", res)
	}
	if !equalSnapshots(before, snapshot(g)) {
		t.Error("Expected node state unchanged after done")
	}
}

func TestNewSearcher(t *testing.T) {
	g := buildGrid(t, "..")
	a, b := core.Point{X: 0, Y: 0}, core.Point{X: 1, Y: 0}

	if s := NewSearcher(AlgoAStar, g, a, b); s.Algorithm() != AlgoAStar {
		t.Errorf("Expected astar, got %s", s.Algorithm())
	}
	if s := NewSearcher(AlgoDijkstra, g, a, b); s.Algorithm() != AlgoDijkstra {
		t.Errorf("Expected dijkstra, got %s", s.Algorithm())
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in   string
		want Algorithm
		ok   bool
	}{
		{"astar", AlgoAStar, true},
		{"A*", AlgoAStar, true},
		{" Dijkstra ", AlgoDijkstra, true},
		{"bfs", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseAlgorithm(%q) = %v, %v", tt.in, got, err)
		}
		if !tt.ok && !errors.Is(err, ErrUnknownAlgorithm) {
			t.Errorf("Expected ErrUnknownAlgorithm for %q, got %v", tt.in, err)
		}
	}
	if AlgoAStar.Other() != AlgoDijkstra || AlgoDijkstra.Other() != AlgoAStar {
		t.Error("Other should swap algorithms")
	}
}
