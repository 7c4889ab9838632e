package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// drawHUD renders the status bar and the last messages under the map.
func (r *Renderer) drawHUD(snap Snapshot, spell string) {
	_, screenH := r.screen.Size()
	hudY := screenH - hudRows
	if hudY < 0 {
		return
	}
	r.drawHLine(hudY, tcell.ColorGray)

	p := snap.Player
	status := fmt.Sprintf("HP: %d/%d  MP: %d/%d  Gold: %d", p.Health, p.FullHealth, p.Mana, p.FullMana, p.Gold)
	if p.Companions > 0 {
		status += fmt.Sprintf("  Allies: %d", p.Companions)
	}
	status += fmt.Sprintf("  [%s]  Level %d  %s", spell, snap.Level, snap.LevelName)
	r.drawText(0, hudY+1, status, tcell.StyleDefault.Foreground(tcell.ColorWhite))

	start := max(len(snap.Messages)-3, 0)
	for i, msg := range snap.Messages[start:] {
		r.drawText(0, hudY+2+i, msg, tcell.StyleDefault.Foreground(tcell.ColorLightYellow))
	}
}

func (r *Renderer) drawHLine(y int, color tcell.Color) {
	w, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(color)
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, '─', nil, style)
	}
}

// drawText writes text from column x, advancing by each rune's width.
func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	col := x
	for _, ch := range text {
		r.screen.SetContent(col, y, ch, nil, style)
		col += max(runewidth.RuneWidth(ch), 1)
	}
}
