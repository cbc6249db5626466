// Package engine drives a search engine frame by frame against a terminal screen
package engine

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/lixenwraith/pathviz/board"
	"github.com/lixenwraith/pathviz/core"
	"github.com/lixenwraith/pathviz/grid"
	"github.com/lixenwraith/pathviz/mapfile"
	"github.com/lixenwraith/pathviz/navigation"
	"github.com/lixenwraith/pathviz/parameter"
	"github.com/lixenwraith/pathviz/render"
)

// Cues receives search events for audible feedback
type Cues interface {
	Frontier()
	Found()
	NoPath()
}

type silentCues struct{}

func (silentCues) Frontier() {}
func (silentCues) Found()    {}
func (silentCues) NoPath()   {}

// Options configures a Driver
type Options struct {
	Algorithm     navigation.Algorithm
	StepsPerFrame int
	FrameInterval time.Duration
	ShowLabels    bool
	Palette       render.Palette
}

// Driver owns the graph, the board and the active searcher.
// Only the goroutine calling Run (or Tick/HandleEvent directly) touches them.
type Driver struct {
	screen   tcell.Screen
	graph    *grid.Graph
	board    *board.Board
	renderer *render.Renderer
	searcher navigation.Searcher
	cues     Cues

	source, target core.Point
	algo           navigation.Algorithm
	stepsPerFrame  int
	interval       time.Duration
	paused         bool

	lastPhase   navigation.Phase
	lastOutcome navigation.Outcome
}

// NewDriver builds the graph for m and starts a search; cues may be nil
func NewDriver(screen tcell.Screen, m *mapfile.Map, opts Options, cues Cues) (*Driver, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	g, err := grid.Build(m.Obstacles)
	if err != nil {
		return nil, errors.Wrap(err, "build graph")
	}
	if cues == nil {
		cues = silentCues{}
	}

	steps := opts.StepsPerFrame
	if steps < 1 {
		steps = parameter.DefaultStepsPerFrame
	}
	interval := opts.FrameInterval
	if interval <= 0 {
		interval = time.Second / parameter.DefaultFPS
	}

	d := &Driver{
		screen:        screen,
		graph:         g,
		board:         board.New(g, m.Source, m.Target),
		renderer:      render.NewRenderer(screen, opts.Palette, opts.ShowLabels),
		cues:          cues,
		source:        m.Source,
		target:        m.Target,
		algo:          opts.Algorithm,
		stepsPerFrame: steps,
		interval:      interval,
	}
	d.Restart()
	return d, nil
}

// Restart discards search progress and begins again with the current algorithm
func (d *Driver) Restart() {
	d.searcher = navigation.NewSearcher(d.algo, d.graph, d.source, d.target)
	d.board.Reset()
	d.renderer.Invalidate()
	d.lastPhase = d.searcher.Phase()
	d.lastOutcome = d.searcher.Outcome()
	klog.Infof("engine started algo=%s source=%v target=%v grid=%dx%d",
		d.algo, d.source, d.target, d.graph.Width(), d.graph.Height())
}

// SwitchAlgorithm restarts with the other engine
func (d *Driver) SwitchAlgorithm() {
	d.algo = d.algo.Other()
	d.Restart()
}

// Board returns the visual state
func (d *Driver) Board() *board.Board {
	return d.board
}

// Searcher returns the active engine
func (d *Driver) Searcher() navigation.Searcher {
	return d.searcher
}

// Paused reports whether ticks skip stepping
func (d *Driver) Paused() bool {
	return d.paused
}

// StepsPerFrame returns engine steps per tick
func (d *Driver) StepsPerFrame() int {
	return d.stepsPerFrame
}

// Status returns the status line content for the current state
func (d *Driver) Status() render.Status {
	return render.Status{
		Algorithm:     d.searcher.Algorithm(),
		Phase:         d.searcher.Phase(),
		Outcome:       d.searcher.Outcome(),
		Stats:         d.searcher.Stats(),
		StepsPerFrame: d.stepsPerFrame,
		Paused:        d.paused,
	}
}

// Tick advances one frame unless paused, then redraws
func (d *Driver) Tick() {
	if !d.paused {
		d.advance(d.stepsPerFrame)
	}
	d.Draw()
}

// Draw renders the board and status line
func (d *Driver) Draw() {
	d.renderer.Draw(d.board, d.Status())
}

// advance steps up to n times, stopping early on a terminal engine
func (d *Driver) advance(n int) {
	for i := 0; i < n && !d.searcher.Terminal(); i++ {
		res := d.searcher.Step()
		d.board.Apply(res.Effects...)
		d.observe(res)
	}
}

// observe fires cues and logs transitions for one step result
func (d *Driver) observe(res navigation.StepResult) {
	grew := false
	for _, e := range res.Effects {
		if e.Paint == core.PaintFrontier || e.Paint == core.PaintSettled {
			grew = true
		}
		klog.V(2).Infof("effect %v %s %q", e.Pos, e.Paint, e.Label)
	}
	if grew {
		d.cues.Frontier()
	}

	if res.Phase != d.lastPhase {
		klog.V(1).Infof("phase %s -> %s", d.lastPhase, res.Phase)
		d.lastPhase = res.Phase
	}

	outcome := d.searcher.Outcome()
	if outcome == d.lastOutcome {
		return
	}
	d.lastOutcome = outcome
	stats := d.searcher.Stats()
	switch outcome {
	case navigation.OutcomeFound:
		klog.Infof("path found len=%d steps=%d settled=%d", stats.PathLen, stats.Steps, stats.Settled)
		d.cues.Found()
	case navigation.OutcomeNoPath:
		klog.Infof("no path steps=%d settled=%d", stats.Steps, stats.Settled)
		d.cues.NoPath()
	}
}

// HandleEvent applies one terminal event; returns false when the user quits
func (d *Driver) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}

		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			d.paused = !d.paused
			klog.V(1).Infof("paused=%v", d.paused)
		case 'n':
			if d.paused {
				d.advance(1)
			}
		case '+', '=':
			d.stepsPerFrame = min(d.stepsPerFrame*2, parameter.MaxStepsPerFrame)
		case '-':
			d.stepsPerFrame = max(d.stepsPerFrame/2, 1)
		case 'r':
			d.Restart()
		case 'a':
			d.SwitchAlgorithm()
		case 'l':
			d.renderer.ToggleLabels()
		}
		d.Draw()

	case *tcell.EventResize:
		d.renderer.Invalidate()
		d.screen.Sync()
		d.Draw()
	}

	return true
}

// Run ticks at the frame interval and dispatches terminal events until quit
// or ctx is canceled. The screen must already be initialized.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)

	eventChan := make(chan tcell.Event, parameter.EventQueueSize)
	core.Go(func() {
		defer close(eventChan)
		for {
			ev := d.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-done:
				return
			}
		}
	})

	d.Draw()
	for {
		select {
		case <-ctx.Done():
			klog.Infof("driver stopped: %v", ctx.Err())
			return ctx.Err()

		case ev, ok := <-eventChan:
			if !ok {
				klog.Warningf("event source closed")
				return nil
			}
			if !d.HandleEvent(ev) {
				klog.Infof("quit requested")
				return nil
			}

		case <-ticker.C:
			d.Tick()
		}
	}
}
