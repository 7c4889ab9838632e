package game

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"spellcrawl/assets"
	"spellcrawl/internal/component"
	"spellcrawl/internal/render"
	"spellcrawl/internal/save"

	"github.com/gdamore/tcell/v2"
)

// moveHold is how many ticks a movement key keeps the player walking.
// Terminals report key repeats, not releases.
const moveHold = 12

// Game drives a Session from a terminal: it turns keys and mouse clicks into
// intents, ticks at a fixed rate and draws each frame.
type Game struct {
	screen   tcell.Screen
	renderer *render.Renderer
	session  *Session
	store    *save.Store // nil disables saving
	slot     string

	spell      component.SpellKind
	moveX      float64
	moveY      float64
	moveUntil  int64
	cursorX    float64
	cursorY    float64
	cursorSet  bool
	castQueued bool
	dashQueued bool
	hireQueued bool
}

// NewGame wraps an initialised screen. store may be nil.
func NewGame(screen tcell.Screen, session *Session, store *save.Store, slot string) *Game {
	screen.EnableMouse()
	return &Game{
		screen:   screen,
		renderer: render.NewRenderer(screen),
		session:  session,
		store:    store,
		slot:     slot,
	}
}

// Run plays until the player quits, dies or ctx is cancelled. The session
// must have a level loaded.
func (g *Game) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 32)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(g.screen, events, done)

	rate := max(g.session.cfg.TickRate, 1)
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if quit, err := g.handleEvent(ctx, ev); quit || err != nil {
				return err
			}
		case <-ticker.C:
			g.session.Tick(g.intents())
			if g.session.PlayerDead() {
				g.recordRun(ctx)
				g.draw()
				g.showEndScreen(events)
				return nil
			}
			if g.session.ExitReached() {
				if err := g.session.LoadLevel(ctx, g.session.Level()+1, nil); err != nil {
					return err
				}
				g.moveUntil = 0
			}
			g.draw()
		}
	}
}

// pollEvents forwards screen events until the screen is finalised or done
// is closed.
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			close(events)
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

func (g *Game) draw() {
	g.renderer.Draw(g.session.Grid(), g.session.Snapshot(), assets.Spell(g.spell).Name)
}

// handleEvent applies one terminal event. It reports true when the player
// asked to quit.
func (g *Game) handleEvent(ctx context.Context, ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		g.screen.Sync()
	case *tcell.EventMouse:
		sx, sy := ev.Position()
		g.cursorX, g.cursorY = g.renderer.ScreenToWorld(sx, sy)
		g.cursorSet = true
		if ev.Buttons()&tcell.Button1 != 0 {
			g.castQueued = true
		}
	case *tcell.EventKey:
		action := keyToAction(ev)
		switch action {
		case ActionQuit:
			return true, nil
		case ActionSave:
			return false, g.save(ctx)
		case ActionDash:
			g.dashQueued = true
		case ActionRecruit:
			g.hireQueued = true
		case ActionCast:
			g.castQueued = true
		case ActionStop:
			g.moveUntil = 0
		default:
			if kind, ok := actionToSpell(action); ok {
				g.spell = kind
				return false, nil
			}
			if dx, dy := actionToDelta(action); dx != 0 || dy != 0 {
				g.moveX, g.moveY = dx, dy
				g.moveUntil = g.session.Now() + moveHold
			}
		}
	}
	return false, nil
}

// intents drains the pending one-shot requests into this tick's intents.
func (g *Game) intents() Intents {
	var in Intents
	if g.session.Now() < g.moveUntil {
		in.MoveX, in.MoveY = g.moveX, g.moveY
	}
	in.Dash = g.dashQueued
	in.Recruit = g.hireQueued
	if g.castQueued {
		in.Cast = g.castTarget()
	}
	g.dashQueued, g.castQueued, g.hireQueued = false, false, false
	return in
}

// castTarget aims at the mouse cursor, or one tile ahead of the player's
// facing when the mouse has not been used.
func (g *Game) castTarget() *CastIntent {
	if g.cursorSet {
		return &CastIntent{Spell: g.spell, X: g.cursorX, Y: g.cursorY}
	}
	p := g.session.Snapshot().Player
	dx, dy := p.FaceX, p.FaceY
	if dx == 0 && dy == 0 {
		dx = 1
	}
	return &CastIntent{Spell: g.spell, X: p.X + dx, Y: p.Y + dy}
}

func (g *Game) save(ctx context.Context) error {
	if g.store == nil {
		g.session.addMessage("Saving is disabled.")
		return nil
	}
	if err := g.store.Save(ctx, g.slot, g.session.Record()); err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	g.session.addMessage(fmt.Sprintf("Saved to slot %q.", g.slot))
	return nil
}

// recordRun appends the finished run to the store's history. A failed write
// is logged and otherwise ignored.
func (g *Game) recordRun(ctx context.Context) {
	if g.store == nil {
		return
	}
	st := g.session.Stats()
	run := save.Run{
		Level:       g.session.Level(),
		Ticks:       g.session.Now(),
		DamageDealt: st.DamageDealt,
		DamageTaken: st.DamageTaken,
		Gold:        st.Gold,
		Kills:       st.Kills,
	}
	if err := g.store.RecordRun(ctx, run); err != nil {
		g.session.logger.Warn("record run failed", "error", err)
	}
}

// putText writes a string to the screen at (x, y), one column per rune.
func (g *Game) putText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		g.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// showEndScreen renders the run summary and waits for any key.
func (g *Game) showEndScreen(events <-chan tcell.Event) {
	stats := g.session.Stats()

	type killEntry struct {
		class string
		count int
	}
	var kills []killEntry
	total := 0
	for c, n := range stats.Kills {
		kills = append(kills, killEntry{c, n})
		total += n
	}
	slices.SortFunc(kills, func(a, b killEntry) int {
		return cmp.Or(cmp.Compare(b.count, a.count), cmp.Compare(a.class, b.class))
	})

	white := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	gold := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	dim := tcell.StyleDefault.Foreground(tcell.ColorLightYellow)
	red := tcell.StyleDefault.Foreground(tcell.ColorRed)

	label := func(y int, l, v string) {
		g.putText(2, y, l, dim)
		g.putText(22, y, v, white)
	}

	for {
		g.screen.Clear()
		y := 1
		g.putText(2, y, "THE DUNGEON CLAIMS YOU", gold)
		y += 2
		label(y, "Level Reached:", fmt.Sprintf("%d  %s", g.session.Level(), assets.LevelName(g.session.Level())))
		y++
		label(y, "Ticks Survived:", fmt.Sprintf("%d", g.session.Now()))
		y++
		label(y, "Gold:", fmt.Sprintf("%d", stats.Gold))
		y += 2
		label(y, "Monsters Slain:", fmt.Sprintf("%d", total))
		y++
		for _, k := range kills {
			name := k.class
			if m, ok := assets.Monster(k.class); ok {
				name = m.Emoji + " " + m.Name
			}
			g.putText(4, y, fmt.Sprintf("%s x%d", name, k.count), dim)
			y++
		}
		y++
		label(y, "Damage Dealt:", fmt.Sprintf("%d", stats.DamageDealt))
		y++
		label(y, "Damage Taken:", fmt.Sprintf("%d", stats.DamageTaken))
		y += 2
		g.putText(2, y, "Press any key", red)
		g.screen.Show()

		ev, ok := <-events
		if !ok {
			return
		}
		switch ev.(type) {
		case *tcell.EventResize:
			g.screen.Sync()
		case *tcell.EventKey:
			return
		}
	}
}
