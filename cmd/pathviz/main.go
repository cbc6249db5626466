package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/lixenwraith/pathviz/audio"
	"github.com/lixenwraith/pathviz/config"
	"github.com/lixenwraith/pathviz/core"
	"github.com/lixenwraith/pathviz/engine"
	"github.com/lixenwraith/pathviz/mapfile"
	"github.com/lixenwraith/pathviz/maze"
	"github.com/lixenwraith/pathviz/navigation"
)

const logFileName = "pathviz.log"

// options holds command line values; zero values mean "not given"
type options struct {
	configPath string
	algo       string
	steps      int
	fps        int
	mute       bool
	mazeSize   string
	seed       int64
	braid      float64
	headless   bool
	mapPath    string

	set map[string]bool // Flags given explicitly
}

func newFlagSet(out io.Writer) (*flag.FlagSet, *options) {
	o := &options{}
	fset := flag.NewFlagSet("pathviz", flag.ContinueOnError)
	fset.SetOutput(out)
	klog.InitFlags(fset)

	fset.StringVar(&o.configPath, "config", "", "TOML config file")
	fset.StringVar(&o.algo, "algo", "", "Search algorithm: astar or dijkstra")
	fset.IntVar(&o.steps, "steps", 0, "Engine steps per frame")
	fset.IntVar(&o.fps, "fps", 0, "Frames per second")
	fset.BoolVar(&o.mute, "mute", false, "Disable sound")
	fset.StringVar(&o.mazeSize, "maze", "", "Generated maze size as WxH")
	fset.Int64Var(&o.seed, "seed", 0, "Maze seed, 0 for time based")
	fset.Float64Var(&o.braid, "braid", 0, "Maze braid chance in [0,1]")
	fset.BoolVar(&o.headless, "headless", false, "Run to completion without a terminal UI and print the result")

	fset.Usage = func() {
		fmt.Fprintf(out, "Usage: pathviz [flags] [map-file]\n\nWithout a map file a maze is generated.\n\n")
		fset.PrintDefaults()
	}
	return fset, o
}

func parseArgs(args []string, out io.Writer) (*flag.FlagSet, *options, error) {
	fset, o := newFlagSet(out)
	if err := fset.Parse(args); err != nil {
		return nil, nil, err
	}
	if fset.NArg() > 1 {
		return nil, nil, errors.Errorf("expected at most one map file, got %d", fset.NArg())
	}
	o.mapPath = fset.Arg(0)
	o.set = make(map[string]bool)
	fset.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return fset, o, nil
}

// parseSize reads WxH
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, errors.Errorf("maze size %q: expected WxH", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return 0, 0, errors.Wrapf(err, "maze width %q", ws)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return 0, 0, errors.Wrapf(err, "maze height %q", hs)
	}
	return w, h, nil
}

// loadConfig reads the config file if given and applies explicit flags over it
func loadConfig(o *options) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}

	if o.set["algo"] {
		cfg.Algorithm = o.algo
	}
	if o.set["steps"] {
		cfg.StepsPerFrame = o.steps
	}
	if o.set["fps"] {
		cfg.FPS = o.fps
	}
	if o.mute {
		cfg.Sound = false
	}
	if o.set["braid"] {
		cfg.Maze.Braid = o.braid
	}
	if o.set["maze"] {
		w, h, err := parseSize(o.mazeSize)
		if err != nil {
			return nil, errors.Wrap(config.ErrBadConfig, err.Error())
		}
		cfg.Maze.Width, cfg.Maze.Height = w, h
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging routes klog to stderr for headless runs and to a file otherwise.
// Returns the log file path, empty when logging to stderr.
func setupLogging(fset *flag.FlagSet, o *options, cfg *config.Config) (string, error) {
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          false,
	})
	if !o.set["v"] {
		fset.Set("v", strconv.Itoa(cfg.Log.Verbosity))
	}

	if o.headless {
		fset.Set("logtostderr", "true")
		return "", nil
	}

	if err := os.MkdirAll(cfg.Log.Dir, 0755); err != nil {
		return "", errors.Wrap(err, "create log dir")
	}
	path := filepath.Join(cfg.Log.Dir, logFileName)
	fset.Set("logtostderr", "false")
	fset.Set("alsologtostderr", "false")
	fset.Set("log_dir", cfg.Log.Dir)
	fset.Set("log_file", path)
	return path, nil
}

func loadMap(o *options, cfg *config.Config) (*mapfile.Map, error) {
	if o.mapPath != "" {
		return mapfile.Load(o.mapPath)
	}
	return maze.Generate(maze.Config{
		Width:  cfg.Maze.Width,
		Height: cfg.Maze.Height,
		Braid:  cfg.Maze.Braid,
		Seed:   o.seed,
	}), nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fset, o, err := parseArgs(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "pathviz: %v\n", err)
		return 2
	}

	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pathviz: %v\n", err)
		return 2
	}

	if _, err := setupLogging(fset, o, cfg); err != nil {
		// Logging is optional; continue on stderr
		fmt.Fprintf(os.Stderr, "pathviz: %v\n", err)
		fset.Set("logtostderr", "true")
	}
	defer klog.Flush()

	m, err := loadMap(o, cfg)
	if err != nil {
		klog.Errorf("load map: %v", err)
		fmt.Fprintf(os.Stderr, "pathviz: %v\n", err)
		return 1
	}

	if o.headless {
		return runHeadless(m, cfg.Algo())
	}
	return runInteractive(m, cfg)
}

func runHeadless(m *mapfile.Map, algo navigation.Algorithm) int {
	rep, err := engine.RunHeadless(os.Stdout, m, algo)
	if err != nil {
		klog.Errorf("headless: %v", err)
		return 1
	}
	if !rep.Agree {
		return 1
	}
	return 0
}

func runInteractive(m *mapfile.Map, cfg *config.Config) int {
	defer func() {
		if r := recover(); r != nil {
			klog.Errorf("crashed: %v", r)
			klog.Flush()
			core.HandleCrash(r)
		}
	}()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		return 1
	}
	core.SetCrashCleanup(screen.Fini)
	defer func() {
		core.SetCrashCleanup(nil)
		screen.Fini()
	}()

	var cues engine.Cues
	if cfg.Sound {
		c := audio.NewCues(cfg.Volume)
		if err := c.Initialize(); err != nil {
			klog.Warningf("audio disabled: %v", err)
		} else {
			defer c.Cleanup()
			cues = c
		}
	}

	palette, err := cfg.Palette.Resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pathviz: %v\n", err)
		return 2
	}

	d, err := engine.NewDriver(screen, m, engine.Options{
		Algorithm:     cfg.Algo(),
		StepsPerFrame: cfg.StepsPerFrame,
		FrameInterval: cfg.FrameInterval(),
		ShowLabels:    cfg.ShowLabels,
		Palette:       palette,
	}, cues)
	if err != nil {
		klog.Errorf("driver: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		klog.Errorf("run: %v", err)
		return 1
	}
	return 0
}
