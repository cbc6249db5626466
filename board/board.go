// Package board holds the visual state of every grid cell between renders
package board

import (
	"fmt"

	"github.com/lixenwraith/pathviz/core"
	"github.com/lixenwraith/pathviz/grid"
	"github.com/lixenwraith/pathviz/navigation"
)

// Marker flags an endpoint tile
type Marker uint8

const (
	MarkerNone Marker = iota
	MarkerSource
	MarkerTarget
)

// Tile represents a single cell on the board
type Tile struct {
	Paint  core.Paint
	Text   string
	Marker Marker
	Node   *grid.Node // Search state backing this tile
}

// SetPaint changes the tile color kind
func (t *Tile) SetPaint(p core.Paint) {
	t.Paint = p
}

// SetText changes the tile label
func (t *Tile) SetText(s string) {
	t.Text = s
}

// Board is a 2D grid of tiles with dirty tracking, y=0 is the bottom row
type Board struct {
	width  int
	height int
	tiles  []Tile
	dirty  map[core.Point]bool // Changed tiles since last ClearDirty

	source core.Point
	target core.Point
}

// New creates a board mirroring g with endpoint markers
func New(g *grid.Graph, source, target core.Point) *Board {
	w, h := g.Size()
	b := &Board{
		width:  w,
		height: h,
		tiles:  make([]Tile, w*h),
		dirty:  make(map[core.Point]bool, w*h),
		source: source,
		target: target,
	}
	for i := range b.tiles {
		b.tiles[i].Node = g.NodeAt(i)
	}
	b.Reset()
	return b
}

// Width returns the number of columns
func (b *Board) Width() int {
	return b.width
}

// Height returns the number of rows
func (b *Board) Height() int {
	return b.height
}

// Size returns (width, height)
func (b *Board) Size() (int, int) {
	return b.width, b.height
}

// Source returns the source coordinate
func (b *Board) Source() core.Point {
	return b.source
}

// Target returns the target coordinate
func (b *Board) Target() core.Point {
	return b.target
}

// Tile returns the tile at (x, y), panics when out of bounds
func (b *Board) Tile(x, y int) *Tile {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		panic(fmt.Sprintf("board: tile (%d,%d) outside %dx%d", x, y, b.width, b.height))
	}
	return &b.tiles[y*b.width+x]
}

// At is Tile addressed by point
func (b *Board) At(p core.Point) *Tile {
	return b.Tile(p.X, p.Y)
}

// Apply paints engine effects. The source tile keeps its marker paint and the
// target keeps its goal paint when the path trace reaches it.
func (b *Board) Apply(effects ...navigation.Effect) {
	for _, e := range effects {
		if e.Pos == b.source {
			continue
		}
		if e.Pos == b.target && e.Paint == core.PaintPathTrace {
			continue
		}
		t := b.At(e.Pos)
		t.Paint = e.Paint
		if e.Label != "" {
			t.Text = e.Label
		}
		b.dirty[e.Pos] = true
	}
}

// Reset restores initial paint from node obstacle flags and clears labels
func (b *Board) Reset() {
	for i := range b.tiles {
		t := &b.tiles[i]
		t.Text = ""
		t.Marker = MarkerNone
		t.Paint = core.PaintFree
		if t.Node.Obstacle {
			t.Paint = core.PaintObstacle
		}
	}
	b.At(b.source).Marker = MarkerSource
	b.At(b.target).Marker = MarkerTarget
	b.MarkAllDirty()
}

// DirtyRegions returns all dirty positions
func (b *Board) DirtyRegions() []core.Point {
	regions := make([]core.Point, 0, len(b.dirty))
	for p := range b.dirty {
		regions = append(regions, p)
	}
	return regions
}

// ClearDirty clears all dirty flags
func (b *Board) ClearDirty() {
	clear(b.dirty)
}

// MarkAllDirty forces a full redraw
func (b *Board) MarkAllDirty() {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			b.dirty[core.Point{X: x, Y: y}] = true
		}
	}
}

// Count returns the number of tiles with paint p
func (b *Board) Count(p core.Paint) int {
	n := 0
	for i := range b.tiles {
		if b.tiles[i].Paint == p {
			n++
		}
	}
	return n
}
