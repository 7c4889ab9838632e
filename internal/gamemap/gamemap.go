// Package gamemap holds the stitched tile grid produced by the dungeon
// generator and the glyph alphabet shared with room templates.
package gamemap

import "strings"

// Point is an integer cell coordinate.
type Point struct {
	X, Y int
}

// Grid is a rectangular array of glyphs indexed [y][x].
type Grid struct {
	Width, Height int
	Cells         [][]Glyph
}

// New creates a Grid filled with g.
func New(width, height int, g Glyph) *Grid {
	cells := make([][]Glyph, height)
	for y := range cells {
		cells[y] = make([]Glyph, width)
		for x := range cells[y] {
			cells[y][x] = g
		}
	}
	return &Grid{Width: width, Height: height, Cells: cells}
}

// FromRows builds a Grid from text rows. Short rows are padded with floor so
// the result is always rectangular.
func FromRows(rows []string) *Grid {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	g := New(width, len(rows), GlyphFloor)
	for y, r := range rows {
		for x := 0; x < len(r); x++ {
			g.Cells[y][x] = Glyph(r[x])
		}
	}
	return g
}

// InBounds reports whether (x, y) is within the grid.
func (m *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// At returns the glyph at (x, y). Cells outside the grid read as blank.
func (m *Grid) At(x, y int) Glyph {
	if !m.InBounds(x, y) {
		return GlyphBlank
	}
	return m.Cells[y][x]
}

// Set replaces the glyph at (x, y). Out-of-bounds writes are ignored.
func (m *Grid) Set(x, y int, g Glyph) {
	if m.InBounds(x, y) {
		m.Cells[y][x] = g
	}
}

// IsSolid reports whether the cell blocks movement.
func (m *Grid) IsSolid(x, y int) bool {
	return m.At(x, y).IsSolid()
}

// IsFloor reports whether the cell is plain floor.
func (m *Grid) IsFloor(x, y int) bool {
	return m.At(x, y) == GlyphFloor
}

// Find returns every cell holding g in row-major order.
func (m *Grid) Find(g Glyph) []Point {
	var out []Point
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Cells[y][x] == g {
				out = append(out, Point{x, y})
			}
		}
	}
	return out
}

// Rows returns the grid as text, one string per row.
func (m *Grid) Rows() []string {
	out := make([]string, m.Height)
	for y, row := range m.Cells {
		b := make([]byte, len(row))
		for x, g := range row {
			b[x] = byte(g)
		}
		out[y] = string(b)
	}
	return out
}

// String renders the grid as newline-separated rows.
func (m *Grid) String() string {
	return strings.Join(m.Rows(), "\n")
}

// Equal reports whether two grids match cell for cell.
func (m *Grid) Equal(o *Grid) bool {
	if m.Width != o.Width || m.Height != o.Height {
		return false
	}
	for y := range m.Cells {
		for x := range m.Cells[y] {
			if m.Cells[y][x] != o.Cells[y][x] {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy.
func (m *Grid) Clone() *Grid {
	c := New(m.Width, m.Height, GlyphBlank)
	for y := range m.Cells {
		copy(c.Cells[y], m.Cells[y])
	}
	return c
}
