// Package mapfile reads and writes obstacle map files.
//
// One text line per grid row, top row first. Cells: '0' free, '1' obstacle,
// 's' source, 't' target. Blank lines and '#' comments are ignored, spaces
// between cells are allowed. Coordinates in the returned Map are bottom-left
// origin.
package mapfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"

	"github.com/lixenwraith/pathviz/core"
)

// ErrMalformedMap is returned for any structural problem in a map file
var ErrMalformedMap = errors.New("malformed map")

// Cell characters
const (
	CellFree     = '0'
	CellObstacle = '1'
	CellSource   = 's'
	CellTarget   = 't'
)

var mapLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Row", Pattern: `[01st]+`},
	{Name: "EOL", Pattern: `\r?\n`},
	{Name: "Space", Pattern: `[ \t\r]+`},
})

type mapFile struct {
	Lines []*mapLine `parser:"@@*"`
}

type mapLine struct {
	Pos   lexer.Position
	Cells string `parser:"@Row* EOL"`
}

var mapParser = participle.MustBuild[mapFile](
	participle.Lexer(mapLexer),
	participle.Elide("Comment", "Space"),
)

// Map is a validated rectangular obstacle map
type Map struct {
	Obstacles [][]bool // [y][x], row 0 is the bottom row
	Source    core.Point
	Target    core.Point
}

// Width returns the number of columns
func (m *Map) Width() int {
	if len(m.Obstacles) == 0 {
		return 0
	}
	return len(m.Obstacles[0])
}

// Height returns the number of rows
func (m *Map) Height() int {
	return len(m.Obstacles)
}

// Size returns (width, height)
func (m *Map) Size() (int, int) {
	return m.Width(), m.Height()
}

// Blocked reports whether p is an obstacle; out-of-bounds counts as blocked
func (m *Map) Blocked(p core.Point) bool {
	if p.X < 0 || p.Y < 0 || p.Y >= m.Height() || p.X >= m.Width() {
		return true
	}
	return m.Obstacles[p.Y][p.X]
}

// Validate checks shape and endpoint placement
func (m *Map) Validate() error {
	h := m.Height()
	if h == 0 {
		return errors.Wrap(ErrMalformedMap, "empty map")
	}
	w := len(m.Obstacles[0])
	if w == 0 {
		return errors.Wrap(ErrMalformedMap, "empty row")
	}
	for y, row := range m.Obstacles {
		if len(row) != w {
			return errors.Wrapf(ErrMalformedMap, "row y=%d has %d cells, expected %d", y, len(row), w)
		}
	}
	for _, ep := range []struct {
		name string
		p    core.Point
	}{{"source", m.Source}, {"target", m.Target}} {
		if ep.p.X < 0 || ep.p.Y < 0 || ep.p.X >= w || ep.p.Y >= h {
			return errors.Wrapf(ErrMalformedMap, "%s %v outside %dx%d", ep.name, ep.p, w, h)
		}
		if m.Obstacles[ep.p.Y][ep.p.X] {
			return errors.Wrapf(ErrMalformedMap, "%s %v is an obstacle", ep.name, ep.p)
		}
	}
	return nil
}

// Parse reads a map from data; name is used in error positions
func Parse(name string, data []byte) (*Map, error) {
	src := strings.TrimRight(string(data), " \t\r\n") + "\n"

	ast, err := mapParser.ParseString(name, src)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedMap, "%v", err)
	}

	type parsedRow struct {
		cells string
		pos   lexer.Position
	}
	var parsed []parsedRow
	for _, line := range ast.Lines {
		if line.Cells == "" {
			continue
		}
		parsed = append(parsed, parsedRow{cells: line.Cells, pos: line.Pos})
	}
	if len(parsed) == 0 {
		return nil, errors.Wrapf(ErrMalformedMap, "%s: no rows", name)
	}

	h := len(parsed)
	w := len(parsed[0].cells)
	m := &Map{Obstacles: make([][]bool, h)}
	var haveSource, haveTarget bool

	for i, row := range parsed {
		if len(row.cells) != w {
			return nil, errors.Wrapf(ErrMalformedMap, "%s: row has %d cells, expected %d", row.pos, len(row.cells), w)
		}

		y := h - 1 - i
		m.Obstacles[y] = make([]bool, w)
		for x := 0; x < w; x++ {
			p := core.Point{X: x, Y: y}
			switch row.cells[x] {
			case CellObstacle:
				m.Obstacles[y][x] = true
			case CellSource:
				if haveSource {
					return nil, errors.Wrapf(ErrMalformedMap, "%s: duplicate source at %v", row.pos, p)
				}
				haveSource = true
				m.Source = p
			case CellTarget:
				if haveTarget {
					return nil, errors.Wrapf(ErrMalformedMap, "%s: duplicate target at %v", row.pos, p)
				}
				haveTarget = true
				m.Target = p
			}
		}
	}

	if !haveSource {
		return nil, errors.Wrapf(ErrMalformedMap, "%s: missing source", name)
	}
	if !haveTarget {
		return nil, errors.Wrapf(ErrMalformedMap, "%s: missing target", name)
	}
	return m, nil
}

// Load reads and parses a map file
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read map")
	}
	return Parse(path, data)
}

// Write emits m in map file format, top row first
func Write(w io.Writer, m *Map) error {
	if err := m.Validate(); err != nil {
		return err
	}

	width, height := m.Size()
	line := make([]byte, width+1)
	line[width] = '\n'
	for y := height - 1; y >= 0; y-- {
		for x := 0; x < width; x++ {
			p := core.Point{X: x, Y: y}
			switch {
			case p == m.Source:
				line[x] = CellSource
			case p == m.Target:
				line[x] = CellTarget
			case m.Obstacles[y][x]:
				line[x] = CellObstacle
			default:
				line[x] = CellFree
			}
		}
		if _, err := w.Write(line); err != nil {
			return errors.Wrap(err, "write map")
		}
	}
	return nil
}

// Format returns m in map file format
func Format(m *Map) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String renders m for debugging, returns an error marker for invalid maps
func (m *Map) String() string {
	b, err := Format(m)
	if err != nil {
		return fmt.Sprintf("<invalid map: %v>", err)
	}
	return string(b)
}
