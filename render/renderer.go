// Package render draws a board and a status line into a tcell screen
package render

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/pathviz/board"
	"github.com/lixenwraith/pathviz/core"
	"github.com/lixenwraith/pathviz/navigation"
)

// MaxTileWidth caps the columns used per board cell
const MaxTileWidth = 4

// TruncMark replaces the last visible character of a label that does not fit
const TruncMark = "~"

// Status is the run summary shown on the bottom line
type Status struct {
	Algorithm     navigation.Algorithm
	Phase         navigation.Phase
	Outcome       navigation.Outcome
	Stats         navigation.Stats
	StepsPerFrame int
	Paused        bool
}

// Text formats the status line content
func (s Status) Text() string {
	path := "-"
	if s.Stats.PathLen >= 0 {
		path = strconv.Itoa(s.Stats.PathLen)
	}
	state := s.Phase.String()
	if s.Outcome == navigation.OutcomeNoPath {
		state = s.Outcome.String()
	}
	if s.Paused {
		state += " (paused)"
	}
	return fmt.Sprintf(" %s | %s | step %d | frontier %d | settled %d | path %s | x%d ",
		s.Algorithm, state, s.Stats.Steps, s.Stats.Frontier, s.Stats.Settled, path, s.StepsPerFrame)
}

// layout is the board placement on screen
type layout struct {
	tileW      int // Columns per cell including the gap column
	offX, offY int
	rows       int // Screen rows available to the board
}

// Renderer draws boards incrementally using board dirty tracking
type Renderer struct {
	screen     tcell.Screen
	palette    Palette
	showLabels bool

	lay       layout
	needsFull bool
}

// NewRenderer creates a renderer for screen
func NewRenderer(screen tcell.Screen, palette Palette, showLabels bool) *Renderer {
	return &Renderer{
		screen:     screen,
		palette:    palette,
		showLabels: showLabels,
		needsFull:  true,
	}
}

// Invalidate forces a full redraw on the next Draw, used after resize
func (r *Renderer) Invalidate() {
	r.needsFull = true
}

// ToggleLabels flips label display and schedules a full redraw
func (r *Renderer) ToggleLabels() {
	r.showLabels = !r.showLabels
	r.needsFull = true
}

func (r *Renderer) computeLayout(b *board.Board) layout {
	w, h := r.screen.Size()
	bw, bh := b.Size()

	rows := h - 1
	if rows < 0 {
		rows = 0
	}

	tileW := w / bw
	if tileW < 1 {
		tileW = 1
	}
	if tileW > MaxTileWidth {
		tileW = MaxTileWidth
	}

	offX := (w - tileW*bw) / 2
	if offX < 0 {
		offX = 0
	}
	// Boards taller than the screen keep their bottom rows, the top is clipped
	offY := (rows - bh) / 2
	if bh > rows {
		offY = rows - bh
	}
	return layout{tileW: tileW, offX: offX, offY: offY, rows: rows}
}

// Draw paints changed tiles (all tiles after Invalidate) and the status line
func (r *Renderer) Draw(b *board.Board, st Status) {
	if r.needsFull {
		r.lay = r.computeLayout(b)
		r.screen.Fill(' ', tcell.StyleDefault.Background(r.palette.Background))
		bw, bh := b.Size()
		for y := 0; y < bh; y++ {
			for x := 0; x < bw; x++ {
				r.drawTile(b, x, y)
			}
		}
		r.needsFull = false
	} else {
		for _, p := range b.DirtyRegions() {
			r.drawTile(b, p.X, p.Y)
		}
	}
	b.ClearDirty()

	r.drawStatus(st)
	r.screen.Show()
}

// ScreenPos returns the top-left screen cell of board cell (x, y), false if off screen
func (r *Renderer) ScreenPos(b *board.Board, x, y int) (int, int, bool) {
	w, _ := r.screen.Size()
	sx := r.lay.offX + x*r.lay.tileW
	sy := r.lay.offY + (b.Height() - 1 - y)
	if sy < 0 || sy >= r.lay.rows || sx >= w {
		return 0, 0, false
	}
	return sx, sy, true
}

func (r *Renderer) drawTile(b *board.Board, x, y int) {
	sx, sy, ok := r.ScreenPos(b, x, y)
	if !ok {
		return
	}

	t := b.Tile(x, y)
	style := tcell.StyleDefault.Background(r.palette.TileColor(t)).Foreground(r.palette.Text)

	// Last column is a gap when tiles are wide enough
	content := r.lay.tileW
	if content > 1 {
		content--
	}

	text := r.tileText(t)
	if len(text) > content {
		text = text[:content-1] + TruncMark
	}
	for i := 0; i < content; i++ {
		ch := ' '
		if i < len(text) {
			ch = rune(text[i])
		}
		r.screen.SetContent(sx+i, sy, ch, nil, style)
	}
	if content < r.lay.tileW {
		gap := tcell.StyleDefault.Background(r.palette.Background)
		r.screen.SetContent(sx+content, sy, ' ', nil, gap)
	}
}

func (r *Renderer) tileText(t *board.Tile) string {
	switch t.Marker {
	case board.MarkerSource:
		return "S"
	case board.MarkerTarget:
		if t.Paint == core.PaintFree || t.Paint == core.PaintGoal {
			return "T"
		}
	}
	if r.showLabels {
		return t.Text
	}
	return ""
}

func (r *Renderer) drawStatus(st Status) {
	w, h := r.screen.Size()
	if h < 1 {
		return
	}
	y := h - 1
	style := tcell.StyleDefault.Background(r.palette.Status).Foreground(r.palette.Text)

	text := st.Text()
	for x := 0; x < w; x++ {
		ch := ' '
		if x < len(text) {
			ch = rune(text[x])
		}
		r.screen.SetContent(x, y, ch, nil, style)
	}
}
