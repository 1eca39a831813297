package viz

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/san-kum/glyphrain/internal/render"
	"github.com/san-kum/glyphrain/internal/theme"
)

const (
	// CellWidth and CellHeight are the logical pixels covered by one
	// terminal cell.
	CellWidth  = 8
	CellHeight = 16

	// cells dimmer than this are cleared
	minLevel = 0.04
	shades   = 8
)

// Cell is one terminal character of the canvas.
type Cell struct {
	Char  rune
	Level float64
	// Head marks a glyph drawn since the last fade.
	Head bool
}

// Canvas is a render.Surface over a grid of terminal cells. The terminal
// owns fonts, so SetFont is ignored.
type Canvas struct {
	Cols, Rows    int
	width, height int
	cells         []Cell

	fill, glow color.RGBA
	styled     bool
	shadeStyle [shades]lipgloss.Style
	headStyle  lipgloss.Style
}

// NewCanvas builds a canvas of cols x rows cells.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{}
	c.Resize(cols*CellWidth, rows*CellHeight, 1)
	c.SetColors(theme.Default.Fill, theme.Default.Glow)
	return c
}

// Resize maps the logical size onto whole cells. The pixel ratio has no
// meaning for a terminal grid.
func (c *Canvas) Resize(width, height int, _ float64) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c.width, c.height = width, height
	c.Cols, c.Rows = width/CellWidth, height/CellHeight
	c.cells = make([]Cell, c.Cols*c.Rows)
	c.clear()
}

func (c *Canvas) Size() (int, int) { return c.width, c.height }

func (c *Canvas) Fill(col color.RGBA) {
	if col.A == 0xff {
		c.clear()
		return
	}
	keep := 1 - float64(col.A)/255
	for i := range c.cells {
		cell := &c.cells[i]
		cell.Head = false
		cell.Level *= keep
		if cell.Level < minLevel {
			*cell = Cell{Char: ' '}
		}
	}
}

func (c *Canvas) SetFont(render.Font) {}

func (c *Canvas) SetColors(fill, glow color.RGBA) {
	if c.styled && fill == c.fill && glow == c.glow {
		return
	}
	c.fill, c.glow, c.styled = fill, glow, true
	for i := range c.shadeStyle {
		k := float64(i+1) / shades
		c.shadeStyle[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Hex(theme.Scale(fill, k))))
	}
	c.headStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Hex(glow)))
}

func (c *Canvas) DrawGlyph(r rune, x, y, alpha float64) {
	if x < 0 || y < 0 {
		return
	}
	col, row := int(x/CellWidth), int(y/CellHeight)
	if col >= c.Cols || row >= c.Rows {
		return
	}
	c.cells[row*c.Cols+col] = Cell{Char: r, Level: math.Max(alpha, minLevel), Head: true}
}

// At returns the cell at col, row.
func (c *Canvas) At(col, row int) Cell {
	if col < 0 || row < 0 || col >= c.Cols || row >= c.Rows {
		return Cell{Char: ' '}
	}
	return c.cells[row*c.Cols+col]
}

func (c *Canvas) clear() {
	for i := range c.cells {
		c.cells[i] = Cell{Char: ' '}
	}
}

// Lines returns the grid as plain text, one string per row.
func (c *Canvas) Lines() []string {
	out := make([]string, c.Rows)
	for row := 0; row < c.Rows; row++ {
		out[row] = c.line(row, false)
	}
	return out
}

// String renders the grid with theme colors, trail cells shaded by level.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Rows; row++ {
		b.WriteString(c.line(row, true))
		if row < c.Rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (c *Canvas) line(row int, styled bool) string {
	var b strings.Builder
	cells := c.cells[row*c.Cols : (row+1)*c.Cols]
	for col := 0; col < len(cells); col++ {
		cell := cells[col]
		w := runewidth.RuneWidth(cell.Char)
		if w == 2 && col == len(cells)-1 {
			// no room for a wide glyph in the last column
			b.WriteByte(' ')
			continue
		}
		s := string(cell.Char)
		if w == 0 {
			s = " "
		}
		if styled && cell.Char != ' ' {
			s = c.styleFor(cell).Render(s)
		}
		b.WriteString(s)
		if w == 2 {
			col++
		}
	}
	return b.String()
}

func (c *Canvas) styleFor(cell Cell) lipgloss.Style {
	if cell.Head {
		return c.headStyle
	}
	i := int(cell.Level*shades) - 1
	if i < 0 {
		i = 0
	}
	if i >= shades {
		i = shades - 1
	}
	return c.shadeStyle[i]
}
