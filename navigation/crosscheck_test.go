package navigation

import (
	"math/rand"
	"testing"

	"github.com/lixenwraith/pathviz/core"
	"github.com/lixenwraith/pathviz/grid"
)

func TestEnginesAgreeOnRandomGrids(t *testing.T) {
	seeds := []int64{1, 2, 3, 17, 256, 9001}
	for _, seed := range seeds {
		rng := rand.New(rand.NewSource(seed))
		for trial := 0; trial < 10; trial++ {
			w, h := 3+rng.Intn(20), 3+rng.Intn(12)
			source := core.Point{X: rng.Intn(w), Y: rng.Intn(h)}
			target := core.Point{X: rng.Intn(w), Y: rng.Intn(h)}
			g := randomGrid(t, rng, w, h, 0.1+rng.Float64()*0.3, source, target)

			a := NewAStar(g, source, target)
			runToEnd(t, a, stepLimit(g))
			aCost := g.Node(target).G

			d := NewDijkstraStepper(g, source, target)
			runToEnd(t, d, stepLimit(g))
			dCost := g.Node(target).Dist

			if a.Outcome() != d.Outcome() {
				t.Errorf("seed %d trial %d: outcomes differ: astar %s, dijkstra %s", seed, trial, a.Outcome(), d.Outcome())
				continue
			}
			if a.Outcome() != OutcomeFound {
				if aCost != grid.Infinity || dCost != grid.Infinity {
					t.Errorf("seed %d trial %d: unreached target has finite cost", seed, trial)
				}
				continue
			}
			if aCost != dCost {
				t.Errorf("seed %d trial %d: astar G=%d, dijkstra Dist=%d", seed, trial, aCost, dCost)
			}
			if len(a.Path()) != aCost || len(d.Path()) != dCost {
				t.Errorf("seed %d trial %d: path lengths %d/%d do not match cost %d",
					seed, trial, len(a.Path()), len(d.Path()), aCost)
			}
			checkPathShape(t, a.Path(), source, target)
			checkPathShape(t, d.Path(), source, target)
		}
	}
}

func TestEnginesAgreeOnFixtures(t *testing.T) {
	fixtures := []struct {
		name   string
		lines  []string
		source core.Point
		target core.Point
		cost   int
	}{
		{"corridor", []string{"....."}, core.Point{X: 0, Y: 0}, core.Point{X: 4, Y: 0}, 4},
		{"single cell", []string{"."}, core.Point{}, core.Point{}, 0},
		{"detour", []string{".....", "..#..", "..#.."}, core.Point{X: 0, Y: 0}, core.Point{X: 4, Y: 0}, 8},
		{"spiral", []string{
			".......",
			".#####.",
			".#...#.",
			".#.#.#.",
			".#.#...",
			".#.####",
			"...#...",
		}, core.Point{X: 0, Y: 0}, core.Point{X: 2, Y: 2}, 0},
	}

	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			g := buildGrid(t, fx.lines...)
			oracle := FlowFieldFor(g, fx.target).Distance(fx.source)
			if fx.cost > 0 && oracle != fx.cost {
				t.Fatalf("Expected oracle distance %d, got %d", fx.cost, oracle)
			}

			for _, algo := range []Algorithm{AlgoAStar, AlgoDijkstra} {
				s := NewSearcher(algo, g, fx.source, fx.target)
				runToEnd(t, s, stepLimit(g))
				if s.Stats().PathLen != oracle {
					t.Errorf("%s: expected path length %d, got %d", algo, oracle, s.Stats().PathLen)
				}
			}
		})
	}
}
