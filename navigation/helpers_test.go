package navigation

import (
	"math/rand"
	"testing"

	"github.com/lixenwraith/pathviz/core"
	"github.com/lixenwraith/pathviz/grid"
)

// buildGrid parses rows listed top first, '#' is an obstacle
func buildGrid(t *testing.T, lines ...string) *grid.Graph {
	t.Helper()
	obstacles := make([][]bool, len(lines))
	for i, line := range lines {
		y := len(lines) - 1 - i
		obstacles[y] = make([]bool, len(line))
		for x, c := range line {
			obstacles[y][x] = c == '#'
		}
	}
	g, err := grid.Build(obstacles)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

// randomGrid builds a w x h grid with the given obstacle density, keeping two cells free
func randomGrid(t *testing.T, rng *rand.Rand, w, h int, density float64, keep ...core.Point) *grid.Graph {
	t.Helper()
	obstacles := make([][]bool, h)
	for y := range obstacles {
		obstacles[y] = make([]bool, w)
		for x := range obstacles[y] {
			obstacles[y][x] = rng.Float64() < density
		}
	}
	for _, p := range keep {
		obstacles[p.Y][p.X] = false
	}
	g, err := grid.Build(obstacles)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

// runToEnd steps s until terminal, failing after limit steps
func runToEnd(t *testing.T, s Searcher, limit int) []StepResult {
	t.Helper()
	var results []StepResult
	for i := 0; !s.Terminal(); i++ {
		if i >= limit {
			t.Fatalf("%s did not terminate within %d steps", s.Algorithm(), limit)
		}
		results = append(results, s.Step())
	}
	return results
}

// stepLimit bounds a run: every cell settles once, plus reconstruction and unwinding
func stepLimit(g *grid.Graph) int {
	return 3*g.Len() + 4
}

func checkPathShape(t *testing.T, path []core.Point, start, goal core.Point) {
	t.Helper()
	if len(path) == 0 {
		if start != goal {
			t.Errorf("Expected non-empty path from %v to %v", start, goal)
		}
		return
	}
	if path[len(path)-1] != goal {
		t.Errorf("Expected path to end at goal %v, got %v", goal, path[len(path)-1])
	}
	prev := start
	for i, p := range path {
		if p == start {
			t.Errorf("Path contains start at index %d", i)
		}
		if !core.Adjacent(prev, p) {
			t.Errorf("Path step %d: %v is not adjacent to %v", i, p, prev)
		}
		prev = p
	}
}

type nodeState struct {
	g, h, f, dist int
	prev          core.Point
	hasPrev       bool
	membership    grid.Membership
}

// snapshot copies the node fields a terminal step must not change
func snapshot(g *grid.Graph) []nodeState {
	out := make([]nodeState, g.Len())
	for i := range out {
		n := g.NodeAt(i)
		out[i] = nodeState{n.G, n.H, n.F, n.Dist, n.Prev, n.HasPrev, n.Membership}
	}
	return out
}

func equalSnapshots(a, b []nodeState) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
