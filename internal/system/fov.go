package system

import (
	"spellcrawl/internal/gamemap"
)

// octant transform matrices.
// For each octant, a (dx, dy) sweep pair maps to a world offset via:
//
//	worldX = cx + dx*xx + dy*xy
//	worldY = cy + dx*yx + dy*yy
var octants = [8][4]int{
	{1, 0, 0, 1},
	{0, 1, 1, 0},
	{0, -1, 1, 0},
	{-1, 0, 0, 1},
	{-1, 0, 0, -1},
	{0, -1, -1, 0},
	{0, 1, -1, 0},
	{1, 0, 0, -1},
}

// VisibleFrom returns the cells visible from origin within radius tiles,
// using recursive shadowcasting over the grid's solid glyphs. Walls that
// bound a visible area are themselves visible. Door entities do not block
// sight; only terrain does.
func VisibleFrom(grid *gamemap.Grid, origin gamemap.Point, radius int) map[gamemap.Point]bool {
	seen := map[gamemap.Point]bool{}
	if !grid.InBounds(origin.X, origin.Y) {
		return seen
	}
	seen[origin] = true
	for _, m := range octants {
		castLight(grid, seen, origin.X, origin.Y, 1, 1.0, 0.0, radius, m[0], m[1], m[2], m[3])
	}
	return seen
}

// castLight scans one octant row by row, recursing past each run of
// opaque cells with a narrowed slope window.
func castLight(grid *gamemap.Grid, seen map[gamemap.Point]bool, cx, cy, row int, start, end float64, radius, xx, xy, yx, yy int) {
	if start < end {
		return
	}
	radiusSq := float64(radius * radius)
	newStart := start

	for j := row; j <= radius; j++ {
		dy := -j
		blocked := false

		for dx := -j; dx <= 0; dx++ {
			wx := cx + dx*xx + dy*xy
			wy := cy + dx*yx + dy*yy

			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			if float64(dx*dx+dy*dy) < radiusSq && grid.InBounds(wx, wy) {
				seen[gamemap.Point{X: wx, Y: wy}] = true
			}

			opaque := grid.IsSolid(wx, wy)
			if blocked {
				if opaque {
					newStart = rSlope
				} else {
					blocked = false
					start = newStart
				}
			} else if opaque && j < radius {
				blocked = true
				castLight(grid, seen, cx, cy, j+1, start, lSlope, radius, xx, xy, yx, yy)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}
