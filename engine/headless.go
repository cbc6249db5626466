package engine

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/lixenwraith/pathviz/board"
	"github.com/lixenwraith/pathviz/core"
	"github.com/lixenwraith/pathviz/grid"
	"github.com/lixenwraith/pathviz/mapfile"
	"github.com/lixenwraith/pathviz/navigation"
	"github.com/lixenwraith/pathviz/parameter"
)

// ErrStepLimit is returned when an engine fails to terminate within the step bound
var ErrStepLimit = errors.New("step limit exceeded")

// Report is the outcome of a headless run
type Report struct {
	Algorithm navigation.Algorithm
	Outcome   navigation.Outcome
	Steps     int
	Settled   int
	PathLen   int // -1 when no path
	Path      []core.Point

	OracleDistance int // Flow field distance source to target, -1 when unreachable
	CrossCheck     int // Path length from the other engine, -1 when no path
	Agree          bool
}

// headlessGlyph maps paint to the printed character
var headlessGlyph = map[core.Paint]byte{
	core.PaintFree:      '.',
	core.PaintObstacle:  '#',
	core.PaintFrontier:  '+',
	core.PaintSettled:   'o',
	core.PaintPathTrace: '*',
	core.PaintGoal:      'T',
}

// RunHeadless runs algo to completion on m, writes the final board and a
// summary line to w, and cross-checks the result against the other engine
// and the flow field
func RunHeadless(w io.Writer, m *mapfile.Map, algo navigation.Algorithm) (Report, error) {
	if err := m.Validate(); err != nil {
		return Report{}, err
	}
	g, err := grid.Build(m.Obstacles)
	if err != nil {
		return Report{}, errors.Wrap(err, "build graph")
	}

	b := board.New(g, m.Source, m.Target)
	s := navigation.NewSearcher(algo, g, m.Source, m.Target)
	klog.Infof("headless run algo=%s grid=%dx%d", algo, g.Width(), g.Height())

	if err := runSearcher(s, g, b); err != nil {
		return Report{}, errors.Wrapf(err, "%s", algo)
	}

	stats := s.Stats()
	rep := Report{
		Algorithm: algo,
		Outcome:   s.Outcome(),
		Steps:     stats.Steps,
		Settled:   stats.Settled,
		PathLen:   stats.PathLen,
		Path:      s.Path(),
	}

	rep.OracleDistance = navigation.FlowFieldFor(g, m.Target).Distance(m.Source)

	other := navigation.NewSearcher(algo.Other(), g, m.Source, m.Target)
	if err := runSearcher(other, g, nil); err != nil {
		return Report{}, errors.Wrapf(err, "%s", algo.Other())
	}
	rep.CrossCheck = other.Stats().PathLen
	rep.Agree = rep.PathLen == rep.CrossCheck && rep.PathLen == rep.OracleDistance

	if !rep.Agree {
		klog.Warningf("engines disagree: %s=%d %s=%d oracle=%d",
			algo, rep.PathLen, algo.Other(), rep.CrossCheck, rep.OracleDistance)
	}

	if err := writeHeadless(w, b, rep); err != nil {
		return Report{}, err
	}
	return rep, nil
}

// runSearcher steps s until terminal, applying effects to b when non-nil
func runSearcher(s navigation.Searcher, g *grid.Graph, b *board.Board) error {
	limit := parameter.HeadlessStepLimitFactor*g.Len() + 4
	for i := 0; !s.Terminal(); i++ {
		if i >= limit {
			return errors.Wrapf(ErrStepLimit, "%d steps", limit)
		}
		res := s.Step()
		if b != nil {
			b.Apply(res.Effects...)
		}
	}
	return nil
}

func writeHeadless(w io.Writer, b *board.Board, rep Report) error {
	bw := bufio.NewWriter(w)
	width, height := b.Size()
	line := make([]byte, width)
	for y := height - 1; y >= 0; y-- {
		for x := 0; x < width; x++ {
			t := b.Tile(x, y)
			switch {
			case t.Marker == board.MarkerSource:
				line[x] = 'S'
			case t.Marker == board.MarkerTarget:
				line[x] = 'T'
			default:
				line[x] = headlessGlyph[t.Paint]
			}
		}
		bw.Write(line)
		bw.WriteByte('\n')
	}

	fmt.Fprintf(bw, "algorithm=%s outcome=%s steps=%d settled=%d path=%d oracle=%d %s=%d agree=%v\n",
		rep.Algorithm, rep.Outcome, rep.Steps, rep.Settled, rep.PathLen,
		rep.OracleDistance, rep.Algorithm.Other(), rep.CrossCheck, rep.Agree)

	return errors.Wrap(bw.Flush(), "write report")
}
