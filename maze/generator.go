// Package maze generates obstacle maps with a recursive backtracker.
package maze

import (
	"math/rand"
	"time"

	"github.com/lixenwraith/pathviz/core"
	"github.com/lixenwraith/pathviz/mapfile"
)

const (
	wall    = true
	passage = false
)

var (
	stepDirs  = [4]core.Point{{X: 0, Y: 1}, {X: 0, Y: -1}, {X: -1, Y: 0}, {X: 1, Y: 0}}
	carveDirs = [4]core.Point{{X: 0, Y: 2}, {X: 0, Y: -2}, {X: -2, Y: 0}, {X: 2, Y: 0}}
)

// Config controls maze shape
type Config struct {
	Width, Height int // Rounded down to odd, minimum 3

	// Braid is the chance in [0,1] that a dead end gets an extra opening.
	// 0 yields a perfect maze with exactly one route between any two cells.
	Braid float64

	// OpenBorders clears the outer wall ring; source moves to the center
	// and target to the right edge
	OpenBorders bool

	Source *core.Point // nil = automatic
	Target *core.Point // nil = automatic
	Seed   int64       // 0 = time based
}

// Generate builds a maze as a validated map, row 0 at the bottom
func Generate(cfg Config) *mapfile.Map {
	rows := ensureOdd(cfg.Height)
	cols := ensureOdd(cfg.Width)

	cells := make([][]bool, rows)
	for y := range cells {
		cells[y] = make([]bool, cols)
		for x := range cells[y] {
			cells[y][x] = wall
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	srcDef := core.Point{X: 1, Y: 1}
	dstDef := core.Point{X: cols - 2, Y: rows - 2}
	if cfg.OpenBorders {
		srcDef = core.Point{X: (cols / 2) | 1, Y: (rows / 2) | 1}
		dstDef = core.Point{X: cols - 1, Y: (rows / 2) | 1}
	}
	source := clampPoint(cfg.Source, srcDef, cols, rows)
	target := clampPoint(cfg.Target, dstDef, cols, rows)

	carve(cells, source, rng)

	// Before braiding, so edge rooms count the cleared ring as an exit
	if cfg.OpenBorders {
		stripBorders(cells)
	}

	if cfg.Braid > 0 {
		braid(cells, cfg.Braid, rng)
	}

	openCell(cells, source)
	openCell(cells, target)

	return &mapfile.Map{
		Obstacles: cells,
		Source:    source,
		Target:    target,
	}
}

// carve runs the iterative recursive backtracker over odd-coordinate rooms
func carve(cells [][]bool, from core.Point, rng *rand.Rand) {
	rows, cols := len(cells), len(cells[0])

	// Rooms live on odd coordinates inside the border
	if from.X < 1 || from.X >= cols-1 || from.Y < 1 || from.Y >= rows-1 {
		from = core.Point{X: 1, Y: 1}
	}
	from.X |= 1
	from.Y |= 1
	if from.X >= cols-1 {
		from.X -= 2
	}
	if from.Y >= rows-1 {
		from.Y -= 2
	}

	stack := []core.Point{from}
	cells[from.Y][from.X] = passage
	options := make([]core.Point, 0, len(carveDirs))

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		options = options[:0]

		for _, d := range carveDirs {
			n := cur.Add(d)
			if n.X > 0 && n.X < cols-1 && n.Y > 0 && n.Y < rows-1 && cells[n.Y][n.X] == wall {
				options = append(options, d)
			}
		}

		if len(options) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := options[rng.Intn(len(options))]
		cells[cur.Y+d.Y/2][cur.X+d.X/2] = passage
		next := cur.Add(d)
		cells[next.Y][next.X] = passage
		stack = append(stack, next)
	}
}

// braid opens a wall next to some dead ends, creating cycles
func braid(cells [][]bool, chance float64, rng *rand.Rand) {
	rows, cols := len(cells), len(cells[0])
	walls := make([]core.Point, 0, len(carveDirs))

	for y := 1; y < rows-1; y += 2 {
		for x := 1; x < cols-1; x += 2 {
			if cells[y][x] == wall {
				continue
			}

			exits := 0
			for _, d := range stepDirs {
				if cells[y+d.Y][x+d.X] == passage {
					exits++
				}
			}
			if exits != 1 || rng.Float64() >= chance {
				continue
			}

			walls = walls[:0]
			for _, d := range carveDirs {
				n := core.Point{X: x + d.X, Y: y + d.Y}
				w := core.Point{X: x + d.X/2, Y: y + d.Y/2}
				if n.X < 0 || n.X >= cols || n.Y < 0 || n.Y >= rows {
					continue
				}
				if cells[n.Y][n.X] == passage && cells[w.Y][w.X] == wall && safeToOpen(cells, w) {
					walls = append(walls, w)
				}
			}

			if len(walls) > 0 {
				w := walls[rng.Intn(len(walls))]
				cells[w.Y][w.X] = passage
			}
		}
	}
}

// safeToOpen rejects openings that would create a 2x2 open block or leave a
// neighboring wall cell with no wall neighbors
func safeToOpen(cells [][]bool, p core.Point) bool {
	rows, cols := len(cells), len(cells[0])
	inside := func(x, y int) bool {
		return x >= 0 && x < cols && y >= 0 && y < rows
	}
	open := func(x, y int) bool {
		return inside(x, y) && cells[y][x] == passage
	}

	// Each 2x2 block containing p
	for _, q := range [4][2]int{{-1, -1}, {0, -1}, {-1, 0}, {0, 0}} {
		bx, by := p.X+q[0], p.Y+q[1]
		n := 0
		for _, c := range [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
			cx, cy := bx+c[0], by+c[1]
			if cx == p.X && cy == p.Y {
				continue
			}
			if open(cx, cy) {
				n++
			}
		}
		if n == 3 {
			return false
		}
	}

	for _, d := range stepDirs {
		n := p.Add(d)
		if !inside(n.X, n.Y) || cells[n.Y][n.X] != wall {
			continue
		}
		linked := false
		for _, d2 := range stepDirs {
			m := n.Add(d2)
			if m == p || !inside(m.X, m.Y) {
				continue
			}
			if cells[m.Y][m.X] == wall {
				linked = true
				break
			}
		}
		if !linked {
			return false
		}
	}

	return true
}

func stripBorders(cells [][]bool) {
	rows, cols := len(cells), len(cells[0])
	for x := 0; x < cols; x++ {
		cells[0][x] = passage
		cells[rows-1][x] = passage
	}
	for y := 0; y < rows; y++ {
		cells[y][0] = passage
		cells[y][cols-1] = passage
	}
}

func ensureOdd(n int) int {
	if n < 3 {
		return 3
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}

func clampPoint(p *core.Point, def core.Point, cols, rows int) core.Point {
	if p == nil {
		return def
	}
	return core.Point{X: clamp(p.X, 0, cols-1), Y: clamp(p.Y, 0, rows-1)}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openCell clears p and, if it has no open neighbor, a corridor to the nearest room
func openCell(cells [][]bool, p core.Point) {
	rows, cols := len(cells), len(cells[0])
	cells[p.Y][p.X] = passage

	for _, d := range stepDirs {
		n := p.Add(d)
		if n.X >= 0 && n.X < cols && n.Y >= 0 && n.Y < rows && cells[n.Y][n.X] == passage {
			return
		}
	}

	// Rooms are all carved, so walking to one joins the maze
	room := core.Point{X: nearestRoom(p.X, cols), Y: nearestRoom(p.Y, rows)}
	cur := p
	for cur.X != room.X {
		if cur.X < room.X {
			cur.X++
		} else {
			cur.X--
		}
		cells[cur.Y][cur.X] = passage
	}
	for cur.Y != room.Y {
		if cur.Y < room.Y {
			cur.Y++
		} else {
			cur.Y--
		}
		cells[cur.Y][cur.X] = passage
	}
}

// nearestRoom returns the closest odd coordinate inside the border of size n
func nearestRoom(v, n int) int {
	switch {
	case v < 1:
		return 1
	case v > n-2:
		return n - 2
	case v%2 == 0:
		return v - 1
	}
	return v
}
