package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Shade levels. Each cell keeps the brightest level drawn into it.
const (
	ShadeGrid uint8 = iota
	ShadeDark
	ShadeMid
	ShadeLit
	ShadeLogo
	numShades
)

type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Shade         [][]uint8
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Shade:  make([][]uint8, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Shade[i] = make([]uint8, w)
	}
	c.Clear()
	return c
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) { c.SetShade(x, y, ShadeMid) }

// SetShade sets a pixel and raises the shade of its cell to at least s.
func (c *Canvas) SetShade(x, y int, s uint8) {
	row, col, bit, ok := c.locate(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= bit
	if s > c.Shade[row][col] {
		c.Shade[row][col] = s
	}
}

func (c *Canvas) locate(x, y int) (row, col int, bit rune, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, 0, false
	}
	return row, col, rune(pixelMap[y%4][x%2]), true
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Shade[i][j] = ShadeGrid
		}
	}
}

// Overlay copies every set dot of o into c with its top-left cell at (col, row).
func (c *Canvas) Overlay(o *Canvas, col, row int, s uint8) {
	for r := 0; r < o.Height; r++ {
		for k := 0; k < o.Width; k++ {
			dots := o.Grid[r][k] &^ blank
			rr, cc := row+r, col+k
			if dots == 0 || rr < 0 || cc < 0 || rr >= c.Height || cc >= c.Width {
				continue
			}
			c.Grid[rr][cc] |= dots
			if s > c.Shade[rr][cc] {
				c.Shade[rr][cc] = s
			}
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, s uint8) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.SetShade(x0, y0, s)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render colors each cell with the theme's color for its shade. Runs of equal
// shade share one style.
func (c *Canvas) Render(t Theme, background bool) string {
	var styles [numShades]lipgloss.Style
	for i := range styles {
		styles[i] = lipgloss.NewStyle().Foreground(t.Shades[i])
		if background {
			styles[i] = styles[i].Background(t.Sky)
		}
	}

	var b strings.Builder
	for r, row := range c.Grid {
		start := 0
		for k := 1; k <= len(row); k++ {
			if k < len(row) && c.Shade[r][k] == c.Shade[r][start] {
				continue
			}
			b.WriteString(styles[c.Shade[r][start]].Render(string(row[start:k])))
			start = k
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
