package navigation

import (
	"testing"

	"github.com/lixenwraith/pathviz/core"
)

func TestFlowFieldDistances(t *testing.T) {
	g := buildGrid(t,
		".....",
		"..#..",
		"..#..",
	)
	target := core.Point{X: 4, Y: 0}
	f := FlowFieldFor(g, target)

	if !f.Valid {
		t.Fatal("Expected valid field")
	}
	tests := []struct {
		p    core.Point
		want int
	}{
		{target, 0},
		{core.Point{X: 3, Y: 0}, 1},
		{core.Point{X: 0, Y: 0}, 8},
		{core.Point{X: 2, Y: 2}, 4},
		{core.Point{X: 2, Y: 0}, -1}, // obstacle
		{core.Point{X: 9, Y: 0}, -1}, // out of bounds
	}
	for _, tt := range tests {
		if got := f.Distance(tt.p); got != tt.want {
			t.Errorf("Distance(%v): expected %d, got %d", tt.p, tt.want, got)
		}
	}
	if f.Direction(target) != DirTarget {
		t.Errorf("Expected DirTarget at target, got %d", f.Direction(target))
	}
}

func TestFlowFieldRoute(t *testing.T) {
	g := buildGrid(t,
		".....",
		"..#..",
		"..#..",
	)
	start, target := core.Point{X: 0, Y: 0}, core.Point{X: 4, Y: 0}
	f := FlowFieldFor(g, target)

	route, ok := f.Route(start)
	if !ok {
		t.Fatal("Expected route")
	}
	if len(route) != 8 {
		t.Errorf("Expected route length 8, got %d", len(route))
	}
	checkPathShape(t, route, start, target)

	if r, ok := f.Route(target); !ok || len(r) != 0 {
		t.Errorf("Expected empty route at target, got %v", r)
	}
}

func TestFlowFieldUnreachable(t *testing.T) {
	g := buildGrid(t, ".#.")
	f := FlowFieldFor(g, core.Point{X: 2, Y: 0})

	if d := f.Distance(core.Point{X: 0, Y: 0}); d != -1 {
		t.Errorf("Expected -1, got %d", d)
	}
	if _, ok := f.Route(core.Point{X: 0, Y: 0}); ok {
		t.Error("Expected no route")
	}
	if f.Direction(core.Point{X: 0, Y: 0}) != DirNone {
		t.Error("Expected DirNone for unreachable cell")
	}
}

func TestFlowFieldInvalidTarget(t *testing.T) {
	f := NewFlowField(3, 3)
	f.Compute(core.Point{X: 5, Y: 5}, func(x, y int) bool { return false })
	if f.Valid {
		t.Error("Expected invalid field for out-of-bounds target")
	}
	if f.Distance(core.Point{}) != -1 {
		t.Error("Expected -1 from invalid field")
	}
}

func TestMinHeapOrder(t *testing.T) {
	var h minHeap
	for _, d := range []int{5, 3, 8, 1, 9, 2} {
		h.push(heapEntry{dist: d})
	}
	prev := -1
	for len(h) > 0 {
		e := h.pop()
		if e.dist < prev {
			t.Errorf("Expected non-decreasing pops, got %d after %d", e.dist, prev)
		}
		prev = e.dist
	}
}
