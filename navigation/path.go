package navigation

import (
	"github.com/lixenwraith/pathviz/core"
	"github.com/lixenwraith/pathviz/grid"
)

// TracePath walks Prev links from goal back to start.
// The result is ordered start to goal, excludes start and includes goal, so its
// length equals the path cost. Returns false if the chain breaks or loops.
func TracePath(g *grid.Graph, start, goal core.Point) ([]core.Point, bool) {
	var reversed []core.Point
	limit := g.Len()

	for p := goal; p != start; {
		n := g.Node(p)
		if !n.HasPrev || len(reversed) >= limit {
			return nil, false
		}
		reversed = append(reversed, p)
		p = n.Prev
	}

	path := make([]core.Point, len(reversed))
	for i, p := range reversed {
		path[len(reversed)-1-i] = p
	}
	return path, true
}

// pathUnwinder emits a reconstructed path one cell per step
type pathUnwinder struct {
	path    []core.Point
	emitted int
}

// next returns the following path cell, false once the path is exhausted
func (u *pathUnwinder) next() (Effect, bool) {
	if u.emitted >= len(u.path) {
		return Effect{}, false
	}
	p := u.path[u.emitted]
	u.emitted++
	return Effect{Pos: p, Paint: core.PaintPathTrace}, true
}

func (u *pathUnwinder) pathLen() int {
	if u.path == nil {
		return -1
	}
	return len(u.path)
}

func (u *pathUnwinder) copyPath() []core.Point {
	if u.path == nil {
		return nil
	}
	out := make([]core.Point, len(u.path))
	copy(out, u.path)
	return out
}
