// Package config loads run settings from a TOML file
package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/lixenwraith/pathviz/navigation"
	"github.com/lixenwraith/pathviz/parameter"
	"github.com/lixenwraith/pathviz/render"
)

// ErrBadConfig is returned for unparsable, unknown or out-of-range settings
var ErrBadConfig = errors.New("bad config")

// PaletteConfig holds color names, tcell names or #rrggbb
type PaletteConfig struct {
	Background string `toml:"background"`
	Open       string `toml:"open"`
	Obstacle   string `toml:"obstacle"`
	Source     string `toml:"source"`
	Target     string `toml:"target"`
	Frontier   string `toml:"frontier"`
	Settled    string `toml:"settled"`
	Path       string `toml:"path"`
	Goal       string `toml:"goal"`
	Text       string `toml:"text"`
	Status     string `toml:"status"`
}

// LogConfig controls the log file
type LogConfig struct {
	Dir       string `toml:"dir"`
	Verbosity int    `toml:"verbosity"`
}

// MazeConfig sets generated maze defaults
type MazeConfig struct {
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Braid  float64 `toml:"braid"`
}

// Config is the full run configuration
type Config struct {
	Algorithm     string  `toml:"algorithm"`
	StepsPerFrame int     `toml:"steps_per_frame"`
	FPS           int     `toml:"fps"`
	Sound         bool    `toml:"sound"`
	Volume        float64 `toml:"volume"`
	ShowLabels    bool    `toml:"show_labels"`

	Palette PaletteConfig `toml:"palette"`
	Log     LogConfig     `toml:"log"`
	Maze    MazeConfig    `toml:"maze"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Algorithm:     parameter.DefaultAlgorithm,
		StepsPerFrame: parameter.DefaultStepsPerFrame,
		FPS:           parameter.DefaultFPS,
		Sound:         true,
		Volume:        parameter.AudioDefaultVolume,
		ShowLabels:    parameter.DefaultShowLabels,
		Palette: PaletteConfig{
			Background: parameter.ColorBackground,
			Open:       parameter.ColorOpen,
			Obstacle:   parameter.ColorObstacle,
			Source:     parameter.ColorSource,
			Target:     parameter.ColorTarget,
			Frontier:   parameter.ColorFrontier,
			Settled:    parameter.ColorSettled,
			Path:       parameter.ColorPath,
			Goal:       parameter.ColorGoal,
			Text:       parameter.ColorText,
			Status:     parameter.ColorStatus,
		},
		Log: LogConfig{
			Dir:       parameter.DefaultLogDir,
			Verbosity: parameter.DefaultLogVerbosity,
		},
		Maze: MazeConfig{
			Width:  parameter.MazeDefaultWidth,
			Height: parameter.MazeDefaultHeight,
			Braid:  parameter.MazeDefaultBraid,
		},
	}
}

// Parse decodes TOML over the defaults; absent keys keep their default
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrapf(ErrBadConfig, "%v", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Wrapf(ErrBadConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses a config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return cfg, nil
}

// Validate checks ranges and names
func (c *Config) Validate() error {
	if _, err := navigation.ParseAlgorithm(c.Algorithm); err != nil {
		return errors.Wrapf(ErrBadConfig, "algorithm: %v", err)
	}
	if c.StepsPerFrame < 1 || c.StepsPerFrame > parameter.MaxStepsPerFrame {
		return errors.Wrapf(ErrBadConfig, "steps_per_frame %d outside [1,%d]", c.StepsPerFrame, parameter.MaxStepsPerFrame)
	}
	if c.FPS < 1 || c.FPS > parameter.MaxFPS {
		return errors.Wrapf(ErrBadConfig, "fps %d outside [1,%d]", c.FPS, parameter.MaxFPS)
	}
	if c.Volume < 0 || c.Volume > 1 {
		return errors.Wrapf(ErrBadConfig, "volume %g outside [0,1]", c.Volume)
	}
	if c.Log.Verbosity < 0 {
		return errors.Wrapf(ErrBadConfig, "log verbosity %d is negative", c.Log.Verbosity)
	}
	if c.Maze.Width < 3 || c.Maze.Height < 3 {
		return errors.Wrapf(ErrBadConfig, "maze %dx%d smaller than 3x3", c.Maze.Width, c.Maze.Height)
	}
	if c.Maze.Braid < 0 || c.Maze.Braid > 1 {
		return errors.Wrapf(ErrBadConfig, "maze braid %g outside [0,1]", c.Maze.Braid)
	}
	if _, err := c.Palette.Resolve(); err != nil {
		return err
	}
	return nil
}

// Algo returns the parsed algorithm, AlgoAStar if invalid
func (c *Config) Algo() navigation.Algorithm {
	a, err := navigation.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return navigation.AlgoAStar
	}
	return a
}

// FrameInterval returns the ticker period for FPS
func (c *Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / parameter.DefaultFPS
	}
	return time.Second / time.Duration(c.FPS)
}

// Resolve converts color names to a render palette
func (p PaletteConfig) Resolve() (render.Palette, error) {
	var pal render.Palette
	fields := []struct {
		key  string
		name string
		dst  *tcell.Color
	}{
		{"background", p.Background, &pal.Background},
		{"open", p.Open, &pal.Open},
		{"obstacle", p.Obstacle, &pal.Obstacle},
		{"source", p.Source, &pal.Source},
		{"target", p.Target, &pal.Target},
		{"frontier", p.Frontier, &pal.Frontier},
		{"settled", p.Settled, &pal.Settled},
		{"path", p.Path, &pal.Path},
		{"goal", p.Goal, &pal.Goal},
		{"text", p.Text, &pal.Text},
		{"status", p.Status, &pal.Status},
	}

	for _, f := range fields {
		c := tcell.GetColor(strings.ToLower(strings.TrimSpace(f.name)))
		if c == tcell.ColorDefault {
			return render.Palette{}, errors.Wrapf(ErrBadConfig, "palette.%s: unknown color %q", f.key, f.name)
		}
		*f.dst = c
	}
	return pal, nil
}
