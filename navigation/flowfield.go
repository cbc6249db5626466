package navigation

import (
	"github.com/lixenwraith/pathviz/core"
	"github.com/lixenwraith/pathviz/grid"
)

// Direction constants for flow field, index into DirVectors
const (
	DirNone   int8 = -1 // Blocked or unreachable
	DirTarget int8 = -2 // At target cell
	DirUp     int8 = 0
	DirDown   int8 = 1
	DirLeft   int8 = 2
	DirRight  int8 = 3
	DirCount  int8 = 4
)

// Direction vectors matching DirUp..DirRight, y grows upward
var DirVectors = [4]core.Point{
	{X: 0, Y: 1}, {X: 0, Y: -1}, {X: -1, Y: 0}, {X: 1, Y: 0},
}

const unreachable = 1<<31 - 1

// --- Min-heap for Dijkstra ---

type heapEntry struct {
	idx  int // Flat grid index (y*width + x)
	dist int // Step distance from target
}

type minHeap []heapEntry

func (h *minHeap) push(e heapEntry) {
	*h = append(*h, e)
	// Sift up
	i := len(*h) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if (*h)[parent].dist <= (*h)[i].dist {
			break
		}
		(*h)[parent], (*h)[i] = (*h)[i], (*h)[parent]
		i = parent
	}
}

func (h *minHeap) pop() heapEntry {
	old := *h
	n := len(old)
	e := old[0]
	old[0] = old[n-1]
	*h = old[:n-1]

	// Sift down
	i := 0
	for {
		left := 2*i + 1
		if left >= len(*h) {
			break
		}
		smallest := left
		if right := left + 1; right < len(*h) && (*h)[right].dist < (*h)[left].dist {
			smallest = right
		}
		if (*h)[i].dist <= (*h)[smallest].dist {
			break
		}
		(*h)[i], (*h)[smallest] = (*h)[smallest], (*h)[i]
		i = smallest
	}
	return e
}

// WallChecker returns true if cell blocks navigation
type WallChecker func(x, y int) bool

// FlowField is a run-to-completion distance field toward a target.
// It uses its own heap and never touches grid node state, so it can check
// either incremental engine on the same graph.
type FlowField struct {
	Width, Height int
	Directions    []int8 // Per-cell direction index, DirNone if blocked
	Distances     []int  // Step distance from target

	Target core.Point
	Valid  bool

	heap minHeap
}

// NewFlowField creates an empty flow field for the given dimensions
func NewFlowField(width, height int) *FlowField {
	size := width * height
	return &FlowField{
		Width:      width,
		Height:     height,
		Directions: make([]int8, size),
		Distances:  make([]int, size),
		Target:     core.Point{X: -1, Y: -1},
		heap:       make(minHeap, 0, size/4+1),
	}
}

func (f *FlowField) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.Width && y < f.Height
}

// Direction returns flow direction at cell, DirNone if invalid/blocked
func (f *FlowField) Direction(p core.Point) int8 {
	if !f.Valid || !f.inBounds(p.X, p.Y) {
		return DirNone
	}
	return f.Directions[p.Y*f.Width+p.X]
}

// Distance returns step distance from target, -1 if unreachable
func (f *FlowField) Distance(p core.Point) int {
	if !f.Valid || !f.inBounds(p.X, p.Y) {
		return -1
	}
	d := f.Distances[p.Y*f.Width+p.X]
	if d >= unreachable {
		return -1
	}
	return d
}

// Compute performs Dijkstra from target, then derives flow directions from
// the distance gradient (steepest descent toward target)
func (f *FlowField) Compute(target core.Point, isBlocked WallChecker) {
	if !f.inBounds(target.X, target.Y) {
		f.Valid = false
		return
	}

	size := f.Width * f.Height
	w := f.Width

	for i := 0; i < size; i++ {
		f.Directions[i] = DirNone
		f.Distances[i] = unreachable
	}

	// Phase 1: unit-cost Dijkstra
	targetIdx := target.Y*w + target.X
	f.Distances[targetIdx] = 0

	f.heap = f.heap[:0]
	f.heap.push(heapEntry{idx: targetIdx, dist: 0})

	for len(f.heap) > 0 {
		entry := f.heap.pop()

		if entry.dist > f.Distances[entry.idx] {
			continue // Stale entry
		}

		cx := entry.idx % w
		cy := entry.idx / w

		for _, d := range DirVectors {
			nx, ny := cx+d.X, cy+d.Y
			if !f.inBounds(nx, ny) || isBlocked(nx, ny) {
				continue
			}

			nIdx := ny*w + nx
			if newDist := entry.dist + 1; newDist < f.Distances[nIdx] {
				f.Distances[nIdx] = newDist
				f.heap.push(heapEntry{idx: nIdx, dist: newDist})
			}
		}
	}

	// Phase 2: steepest descent
	f.Directions[targetIdx] = DirTarget

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			idx := y*w + x
			dist := f.Distances[idx]
			if dist >= unreachable || dist == 0 {
				continue
			}

			bestDir := DirNone
			bestDist := dist
			for dirIdx := int8(0); dirIdx < DirCount; dirIdx++ {
				nx := x + DirVectors[dirIdx].X
				ny := y + DirVectors[dirIdx].Y
				if !f.inBounds(nx, ny) {
					continue
				}
				if nDist := f.Distances[ny*w+nx]; nDist < bestDist {
					bestDist = nDist
					bestDir = dirIdx
				}
			}
			f.Directions[idx] = bestDir
		}
	}

	f.Target = target
	f.Valid = true
}

// Route follows directions from 'from' to the target.
// Same convention as TracePath: excludes from, includes the target.
func (f *FlowField) Route(from core.Point) ([]core.Point, bool) {
	if f.Distance(from) < 0 {
		return nil, false
	}

	route := make([]core.Point, 0, f.Distance(from))
	p := from
	for p != f.Target {
		dir := f.Direction(p)
		if dir < 0 {
			return nil, false
		}
		p = p.Add(DirVectors[dir])
		route = append(route, p)
	}
	return route, true
}

// FlowFieldFor computes a field toward target over the obstacle layout of g
func FlowFieldFor(g *grid.Graph, target core.Point) *FlowField {
	f := NewFlowField(g.Size())
	f.Compute(target, func(x, y int) bool {
		return g.Node(core.Point{X: x, Y: y}).Obstacle
	})
	return f
}
