package render

import "math"

// Camera translates between world coordinates and screen coordinates.
// World X is multiplied by 2 because emoji occupy 2 terminal columns.
type Camera struct {
	OffsetX    int
	OffsetY    int
	ViewWidth  int // in terminal columns
	ViewHeight int // in terminal rows
}

// NewCamera creates a camera centred on tile (cx, cy).
func NewCamera(cx, cy, viewW, viewH int) *Camera {
	c := &Camera{ViewWidth: viewW, ViewHeight: viewH}
	c.Center(cx, cy)
	return c
}

// Center repositions the camera so that tile (cx, cy) is in the middle.
func (c *Camera) Center(cx, cy int) {
	c.OffsetX = cx - (c.ViewWidth/2)/2
	c.OffsetY = cy - c.ViewHeight/2
}

// WorldToScreen converts tile (wx, wy) to screen (sx, sy).
// visible is false when the result falls outside the viewport.
func (c *Camera) WorldToScreen(wx, wy int) (sx, sy int, visible bool) {
	sx = (wx - c.OffsetX) * 2
	sy = wy - c.OffsetY
	visible = sx >= 0 && sx+1 < c.ViewWidth && sy >= 0 && sy < c.ViewHeight
	return
}

// PointToScreen converts a position in tile units to the screen cell of the
// tile containing it.
func (c *Camera) PointToScreen(x, y float64) (sx, sy int, visible bool) {
	return c.WorldToScreen(int(math.Floor(x)), int(math.Floor(y)))
}

// ScreenToWorld converts screen (sx, sy) to the centre of the tile under it.
func (c *Camera) ScreenToWorld(sx, sy int) (float64, float64) {
	return float64(sx/2+c.OffsetX) + 0.5, float64(sy+c.OffsetY) + 0.5
}
