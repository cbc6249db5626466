package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/pathviz/grid"
	"github.com/lixenwraith/pathviz/mapfile"
	"github.com/lixenwraith/pathviz/maze"
	"github.com/lixenwraith/pathviz/navigation"
	"github.com/lixenwraith/pathviz/parameter"
)

type genOptions struct {
	cfg    maze.Config
	output string
}

func parseFlags(args []string, out io.Writer) (*genOptions, error) {
	o := &genOptions{}
	fset := flag.NewFlagSet("map-generator", flag.ContinueOnError)
	fset.SetOutput(out)
	fset.IntVar(&o.cfg.Width, "width", parameter.MazeDefaultWidth, "Maze width, odd preferred")
	fset.IntVar(&o.cfg.Height, "height", parameter.MazeDefaultHeight, "Maze height, odd preferred")
	fset.Float64Var(&o.cfg.Braid, "braid", parameter.MazeDefaultBraid, "Dead end opening chance in [0,1]")
	fset.BoolVar(&o.cfg.OpenBorders, "open", false, "Remove the outer wall ring")
	fset.Int64Var(&o.cfg.Seed, "seed", 0, "Random seed, 0 for time based")
	fset.StringVar(&o.output, "o", "", "Output file, stdout when empty")

	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	if o.cfg.Width < 3 || o.cfg.Height < 3 {
		return nil, errors.Errorf("maze %dx%d smaller than 3x3", o.cfg.Width, o.cfg.Height)
	}
	if o.cfg.Braid < 0 || o.cfg.Braid > 1 {
		return nil, errors.Errorf("braid %g outside [0,1]", o.cfg.Braid)
	}
	return o, nil
}

// generate writes the maze to w and a summary to log
func generate(o *genOptions, w io.Writer, log io.Writer) error {
	start := time.Now()
	m := maze.Generate(o.cfg)
	dur := time.Since(start)

	if err := mapfile.Write(w, m); err != nil {
		return err
	}

	width, height := m.Size()
	fmt.Fprintf(log, "Generated %dx%d in %v\n", width, height, dur)

	g, err := grid.Build(m.Obstacles)
	if err != nil {
		return err
	}
	if d := navigation.FlowFieldFor(g, m.Target).Distance(m.Source); d >= 0 {
		fmt.Fprintf(log, "Shortest path: %d steps\n", d)
	} else {
		fmt.Fprintln(log, "Status: unsolvable (isolated source or target)")
	}
	return nil
}

// writeOutput generates into o.output, or stdout when it is empty. The file is
// closed before returning so a failed flush surfaces as an error.
func writeOutput(o *genOptions, log io.Writer) error {
	if o.output == "" {
		return generate(o, os.Stdout, log)
	}

	f, err := os.Create(o.output)
	if err != nil {
		return err
	}
	genErr := generate(o, f, log)
	closeErr := f.Close()
	if genErr != nil {
		return genErr
	}
	if closeErr != nil {
		return errors.Wrap(closeErr, "close output")
	}
	return nil
}

func main() {
	o, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "map-generator: %v\n", err)
		os.Exit(2)
	}

	if err := writeOutput(o, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "map-generator: %v\n", err)
		os.Exit(1)
	}
}
