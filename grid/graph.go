// Package grid converts an obstacle matrix into an implicit 4-connected graph.
//
// Nodes live in a single arena addressed by flat index y*width+x, so index
// order is (y, x) lexicographic. Search engines mutate node state in place and
// reset only the fields they own when a run starts.
package grid

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/lixenwraith/pathviz/core"
)

// Infinity marks an unreached score, never incremented
const Infinity = math.MaxInt

// ErrMalformedGrid is returned for empty or ragged obstacle matrices
var ErrMalformedGrid = errors.New("malformed grid")

// Neighbor offsets in connection order: up, down, left, right
var neighborOffsets = [4]core.Point{
	{X: 0, Y: 1},
	{X: 0, Y: -1},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
}

// Membership tracks which search set a node belongs to
type Membership uint8

const (
	Unvisited Membership = iota
	Open
	Closed
)

func (m Membership) String() string {
	switch m {
	case Unvisited:
		return "unvisited"
	case Open:
		return "open"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Node is the per-cell search state shared by both engines
type Node struct {
	Pos         core.Point
	Obstacle    bool
	Connections []core.Point // Passable neighbors, fixed up/down/left/right order

	G    int // Cost from start (A*)
	H    int // Manhattan estimate to goal (A*)
	F    int // G + H (A*)
	Dist int // Cost from source (Dijkstra)

	Prev    core.Point
	HasPrev bool

	Membership Membership
}

// Graph is the arena of nodes for a rectangular grid
type Graph struct {
	width, height int
	nodes         []Node
	free          int
}

// Build converts obstacles[y][x] (row 0 is the bottom row) into a graph
func Build(obstacles [][]bool) (*Graph, error) {
	height := len(obstacles)
	if height == 0 {
		return nil, errors.Wrap(ErrMalformedGrid, "no rows")
	}
	width := len(obstacles[0])
	if width == 0 {
		return nil, errors.Wrap(ErrMalformedGrid, "empty row")
	}
	for y, row := range obstacles {
		if len(row) != width {
			return nil, errors.Wrapf(ErrMalformedGrid, "row %d has %d cells, expected %d", y, len(row), width)
		}
	}

	g := &Graph{
		width:  width,
		height: height,
		nodes:  make([]Node, width*height),
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			n := &g.nodes[y*width+x]
			n.Pos = core.Point{X: x, Y: y}
			n.Obstacle = obstacles[y][x]
			if !n.Obstacle {
				g.free++
			}
		}
	}

	// Connections need every obstacle flag set first
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.Obstacle {
			continue
		}
		n.Connections = make([]core.Point, 0, len(neighborOffsets))
		for _, d := range neighborOffsets {
			p := n.Pos.Add(d)
			if g.InBounds(p) && !g.nodes[p.Y*width+p.X].Obstacle {
				n.Connections = append(n.Connections, p)
			}
		}
	}

	g.ResetAStar()
	g.ResetDijkstra()
	return g, nil
}

// Width returns the number of columns
func (g *Graph) Width() int {
	return g.width
}

// Height returns the number of rows
func (g *Graph) Height() int {
	return g.height
}

// Size returns (width, height)
func (g *Graph) Size() (int, int) {
	return g.width, g.height
}

// Len returns the total number of cells
func (g *Graph) Len() int {
	return len(g.nodes)
}

// FreeCount returns the number of non-obstacle cells
func (g *Graph) FreeCount() int {
	return g.free
}

// InBounds reports whether p lies inside the grid
func (g *Graph) InBounds(p core.Point) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// Index returns the arena index of p, panics when out of bounds
func (g *Graph) Index(p core.Point) int {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("grid: coordinate %v outside %dx%d", p, g.width, g.height))
	}
	return p.Y*g.width + p.X
}

// Point returns the coordinate of arena index i
func (g *Graph) Point(i int) core.Point {
	return core.Point{X: i % g.width, Y: i / g.width}
}

// Node returns the node at p, panics when out of bounds
func (g *Graph) Node(p core.Point) *Node {
	return &g.nodes[g.Index(p)]
}

// NodeAt returns the node at arena index i
func (g *Graph) NodeAt(i int) *Node {
	return &g.nodes[i]
}

// ResetAStar clears G/H/F, predecessor and membership on every node
func (g *Graph) ResetAStar() {
	for i := range g.nodes {
		n := &g.nodes[i]
		n.G = Infinity
		n.H = Infinity
		n.F = Infinity
		n.Prev = core.Point{}
		n.HasPrev = false
		n.Membership = Unvisited
	}
}

// ResetDijkstra clears Dist, predecessor and membership on every node
func (g *Graph) ResetDijkstra() {
	for i := range g.nodes {
		n := &g.nodes[i]
		n.Dist = Infinity
		n.Prev = core.Point{}
		n.HasPrev = false
		n.Membership = Unvisited
	}
}
