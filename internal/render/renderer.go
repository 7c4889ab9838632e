// Package render draws session snapshots onto a tcell screen.
package render

import (
	"fmt"

	"spellcrawl/internal/gamemap"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// hudRows is the space reserved under the map.
const hudRows = 5

// Renderer draws the game world onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	camera *Camera
}

// NewRenderer creates a Renderer for the given screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	w, h := screen.Size()
	return &Renderer{
		screen: screen,
		camera: NewCamera(0, 0, w, max(h-hudRows, 1)),
	}
}

// ScreenToWorld converts a screen cell to a point in tile units.
func (r *Renderer) ScreenToWorld(sx, sy int) (float64, float64) {
	return r.camera.ScreenToWorld(sx, sy)
}

// Draw renders one frame: terrain, sprites, damage numbers and the HUD.
// spell names the selected spell for the HUD.
func (r *Renderer) Draw(grid *gamemap.Grid, snap Snapshot, spell string) {
	w, h := r.screen.Size()
	r.camera.ViewWidth, r.camera.ViewHeight = w, max(h-hudRows, 1)
	r.camera.Center(int(snap.Player.X), int(snap.Player.Y))

	r.screen.Clear()
	r.drawMap(grid, ThemeFor(snap.Level))
	r.drawSprites(snap.Sprites)
	r.drawFloaters(snap.Floaters)
	r.drawHUD(snap, spell)
	r.screen.Show()
}

// drawMap renders every non-blank tile in view.
func (r *Renderer) drawMap(grid *gamemap.Grid, theme LevelTiles) {
	style := tcell.StyleDefault.Background(tcell.ColorBlack)
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			g := grid.At(x, y)
			var glyph string
			switch {
			case g == gamemap.GlyphBlank:
				continue
			case g.IsWall() || g == gamemap.GlyphConnective:
				glyph = theme.Wall
			default:
				glyph = theme.Floor
			}
			if sx, sy, ok := r.camera.WorldToScreen(x, y); ok {
				r.putGlyph(sx, sy, glyph, style)
			}
		}
	}
}

// drawSprites draws sprites in snapshot order, so later ones cover earlier.
func (r *Renderer) drawSprites(sprites []Sprite) {
	for _, sp := range sprites {
		sx, sy, ok := r.camera.PointToScreen(sp.X, sp.Y)
		if !ok {
			continue
		}
		style := tcell.StyleDefault.Foreground(sp.FG).Background(tcell.ColorBlack)
		if sp.Flash {
			style = style.Background(tcell.ColorDarkRed)
		}
		r.putGlyph(sx, sy, sp.Glyph, style)
		if sp.ShowHealth && sy > 0 {
			r.drawHealthBar(sx, sy-1, sp.Health, sp.FullHealth)
		}
	}
}

// drawHealthBar draws a two-cell bar whose colour follows remaining health.
func (r *Renderer) drawHealthBar(sx, sy, cur, full int) {
	if full <= 0 {
		return
	}
	color := tcell.ColorGreen
	switch frac := float64(cur) / float64(full); {
	case frac <= 0.25:
		color = tcell.ColorRed
	case frac <= 0.5:
		color = tcell.ColorYellow
	}
	style := tcell.StyleDefault.Foreground(color).Background(tcell.ColorBlack)
	cells := 1
	if cur*2 > full {
		cells = 2
	}
	for i := 0; i < cells; i++ {
		r.screen.SetContent(sx+i, sy, '▀', nil, style)
	}
}

// drawFloaters draws damage numbers rising one row every ten ticks.
func (r *Renderer) drawFloaters(floaters []Floater) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	for _, f := range floaters {
		sx, sy, ok := r.camera.PointToScreen(f.X, f.Y)
		sy -= 1 + f.Age/10
		if !ok || sy < 0 {
			continue
		}
		r.drawText(sx, sy, fmt.Sprintf("%d", f.Amount), style)
	}
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen position (x, y).
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	r.screen.SetContent(x, y, runes[0], combc, style)
	if runewidth.StringWidth(glyph) < 2 {
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}
