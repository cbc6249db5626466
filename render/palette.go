package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/pathviz/board"
	"github.com/lixenwraith/pathviz/core"
	"github.com/lixenwraith/pathviz/parameter"
)

// Palette maps tile state to colors
type Palette struct {
	Background tcell.Color // Screen and tile gap color
	Open       tcell.Color
	Obstacle   tcell.Color
	Source     tcell.Color
	Target     tcell.Color
	Frontier   tcell.Color
	Settled    tcell.Color
	Path       tcell.Color
	Goal       tcell.Color
	Text       tcell.Color
	Status     tcell.Color // Status line background
}

// DefaultPalette returns the built-in colors
func DefaultPalette() Palette {
	return Palette{
		Background: tcell.GetColor(parameter.ColorBackground),
		Open:       tcell.GetColor(parameter.ColorOpen),
		Obstacle:   tcell.GetColor(parameter.ColorObstacle),
		Source:     tcell.GetColor(parameter.ColorSource),
		Target:     tcell.GetColor(parameter.ColorTarget),
		Frontier:   tcell.GetColor(parameter.ColorFrontier),
		Settled:    tcell.GetColor(parameter.ColorSettled),
		Path:       tcell.GetColor(parameter.ColorPath),
		Goal:       tcell.GetColor(parameter.ColorGoal),
		Text:       tcell.GetColor(parameter.ColorText),
		Status:     tcell.GetColor(parameter.ColorStatus),
	}
}

// TileColor resolves the background color of a tile.
// The source always shows its marker; the target does until something paints it.
func (p Palette) TileColor(t *board.Tile) tcell.Color {
	if t.Marker == board.MarkerSource {
		return p.Source
	}
	if t.Marker == board.MarkerTarget && t.Paint == core.PaintFree {
		return p.Target
	}

	switch t.Paint {
	case core.PaintObstacle:
		return p.Obstacle
	case core.PaintFrontier:
		return p.Frontier
	case core.PaintSettled:
		return p.Settled
	case core.PaintPathTrace:
		return p.Path
	case core.PaintGoal:
		return p.Goal
	}
	return p.Open
}
