package system

import (
	"fmt"
	"math"
	"math/rand"

	"spellcrawl/assets"
	"spellcrawl/internal/component"
	"spellcrawl/internal/ecs"
	"spellcrawl/internal/gamemap"

	"github.com/gdamore/tcell/v2"
)

// Impact animation timing, in ticks.
const (
	ImpactFrames = 8
	EffectFrame  = 3
)

// Visible area in tiles. Spells that do not aim at the cursor fly to a
// point FarDistance away so they leave the screen instead of stopping.
const (
	ViewportWidth  = 40
	ViewportHeight = 22
)

// FarDistance is twice the viewport diagonal.
var FarDistance = 2 * math.Hypot(ViewportWidth, ViewportHeight)

// maxSubstep bounds how far a projectile moves between collision checks.
const maxSubstep = 0.25

var projectileBody = component.Body{W: 0.4, H: 0.4}

// CastSpell spawns a projectile of kind from caster toward the cursor and
// spends the caster's mana. It returns false without spawning when the
// caster cannot afford the spell. A cursor on top of the caster is a
// caller error and panics.
func CastSpell(w *ecs.World, caster ecs.EntityID, kind component.SpellKind, cursorX, cursorY float64) (ecs.EntityID, bool) {
	def := assets.Spell(kind)
	pos := w.Get(caster, component.CPosition).(component.Position)
	dx, dy := cursorX-pos.X, cursorY-pos.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		panic(fmt.Sprintf("system: %s cast with zero-length aim vector", kind))
	}

	if mc := w.Get(caster, component.CMana); mc != nil {
		m := mc.(component.Mana)
		if m.Current < def.ManaCost {
			return ecs.NilEntity, false
		}
		m.Current -= def.ManaCost
		w.Add(caster, m)
	}

	tx, ty := cursorX, cursorY
	if !def.AimAtCursor {
		tx = pos.X + dx/dist*FarDistance
		ty = pos.Y + dy/dist*FarDistance
	}

	targets := component.KindMonster
	if isKind(w, caster, component.KindMonster) {
		targets = component.KindPlayer
	}

	id := w.CreateEntity()
	w.Add(id, pos)
	w.Add(id, projectileBody)
	w.Add(id, component.Renderable{Glyph: def.Emoji, FGColor: tcell.ColorWhite, BGColor: tcell.ColorDefault, RenderOrder: 3})
	p := component.Projectile{
		Kind:    kind,
		Caster:  caster,
		Targets: targets,
		TargetX: tx,
		TargetY: ty,
		Damage:  def.Damage,
		Element: def.Element,
		State:   component.Traveling,
		Pierced: make(map[ecs.EntityID]bool),
	}
	if def.Teleport {
		p.Marker = w.CreateEntity()
		w.Add(p.Marker, component.Position{X: cursorX, Y: cursorY})
		w.Add(p.Marker, component.Renderable{Glyph: assets.GlyphMarker, FGColor: tcell.ColorAqua, BGColor: tcell.ColorDefault, RenderOrder: 0})
	}
	w.Add(id, p)
	return id, true
}

// isTarget reports whether actor a belongs to the group projectile p hits.
// Spells aimed at players also hit companions.
func isTarget(p component.Projectile, a component.Actor) bool {
	return (a.Kind == component.KindMonster) == (p.Targets == component.KindMonster)
}

// TickProjectiles advances every projectile one tick and returns the hits
// it caused.
func TickProjectiles(w *ecs.World, grid *gamemap.Grid, rng *rand.Rand, now int64) []DamageEvent {
	var events []DamageEvent
	for _, id := range w.Query(component.CProjectile, component.CPosition) {
		if w.Pending(id) {
			continue
		}
		p := w.Get(id, component.CProjectile).(component.Projectile)
		switch p.State {
		case component.Traveling:
			events = append(events, travel(w, grid, rng, now, id, &p)...)
		case component.Impacted:
			p.Frame++
			if p.Frame == EffectFrame && !p.Applied {
				p.Applied = true
				events = append(events, impact(w, grid, rng, now, id, p)...)
			}
			if p.Frame >= ImpactFrames {
				p.State = component.Despawned
				w.Defer(id)
				if p.Marker != ecs.NilEntity {
					w.Defer(p.Marker)
				}
			}
		}
		w.Add(id, p)
	}
	return events
}

// travel moves a projectile toward its target in small substeps. A
// projectile already at its target becomes Impacted. A blocked
// non-piercing projectile snaps its target to where it stopped, so it
// impacts on the next tick.
func travel(w *ecs.World, grid *gamemap.Grid, rng *rand.Rand, now int64, id ecs.EntityID, p *component.Projectile) []DamageEvent {
	pos := w.Get(id, component.CPosition).(component.Position)
	if pos.X == p.TargetX && pos.Y == p.TargetY {
		p.State = component.Impacted
		p.Frame = 0
		setGlyph(w, id, assets.GlyphImpact)
		return nil
	}

	def := assets.Spell(p.Kind)
	var events []DamageEvent
	remaining := def.Speed
	for remaining > 0 {
		dx, dy := p.TargetX-pos.X, p.TargetY-pos.Y
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			break
		}
		step := min(remaining, maxSubstep, dist)
		nx, ny := pos.X+dx/dist*step, pos.Y+dy/dist*step
		if step == dist {
			nx, ny = p.TargetX, p.TargetY
		}
		remaining -= step

		if def.Piercing {
			pos.X, pos.Y = nx, ny
			for _, t := range targetsTouching(w, *p, nx, ny, projectileBody) {
				if !p.Pierced[t] {
					p.Pierced[t] = true
					events = append(events, ApplyDamage(w, rng, now, t, p.Damage, p.Element, def.ActionTime))
				}
			}
			continue
		}
		if projectileBlocked(w, grid, *p, nx, ny) {
			p.TargetX, p.TargetY = pos.X, pos.Y
			break
		}
		pos.X, pos.Y = nx, ny
	}
	w.Add(id, pos)
	return events
}

// projectileBlocked reports whether a projectile at (x, y) touches a solid
// tile, a closed door, breakable furniture or a live target.
func projectileBlocked(w *ecs.World, grid *gamemap.Grid, p component.Projectile, x, y float64) bool {
	if solidTileUnder(grid, x, y, projectileBody) {
		return true
	}
	for _, id := range w.Query(component.CTagSolid, component.CPosition) {
		if !w.Has(id, component.CDoor) && !w.Has(id, component.CTagBreakable) {
			continue
		}
		op := w.Get(id, component.CPosition).(component.Position)
		if overlaps(x, y, projectileBody, op.X, op.Y, bodyOf(w, id)) {
			return true
		}
	}
	return len(targetsTouching(w, p, x, y, projectileBody)) > 0
}

// targetsTouching returns the live members of p's target group whose
// bodies overlap a box at (x, y).
func targetsTouching(w *ecs.World, p component.Projectile, x, y float64, b component.Body) []ecs.EntityID {
	var out []ecs.EntityID
	for _, id := range w.Query(component.CActor, component.CPosition) {
		if !Living(w, id) || !isTarget(p, w.Get(id, component.CActor).(component.Actor)) {
			continue
		}
		op := w.Get(id, component.CPosition).(component.Position)
		if overlaps(x, y, b, op.X, op.Y, bodyOf(w, id)) {
			out = append(out, id)
		}
	}
	return out
}

// circleHitsBox reports whether a circle overlaps a centred box.
func circleHitsBox(cx, cy, r, bx, by float64, b component.Body) bool {
	minX, minY, maxX, maxY := b.Bounds(bx, by)
	nx := math.Max(minX, math.Min(cx, maxX))
	ny := math.Max(minY, math.Min(cy, maxY))
	return math.Hypot(cx-nx, cy-ny) <= r
}

// impact fires a projectile's effect once: teleport the caster, or damage
// every live target within the radius. Breakable furniture and doors in
// the radius are destroyed either way.
func impact(w *ecs.World, grid *gamemap.Grid, rng *rand.Rand, now int64, id ecs.EntityID, p component.Projectile) []DamageEvent {
	def := assets.Spell(p.Kind)
	pos := w.Get(id, component.CPosition).(component.Position)

	var events []DamageEvent
	if def.Teleport {
		if Living(w, p.Caster) {
			teleport(w, grid, p.Caster, pos.X, pos.Y)
		}
	} else {
		for _, t := range w.Query(component.CActor, component.CPosition) {
			if p.Pierced[t] || !Living(w, t) || !isTarget(p, w.Get(t, component.CActor).(component.Actor)) {
				continue
			}
			tp := w.Get(t, component.CPosition).(component.Position)
			if circleHitsBox(pos.X, pos.Y, def.Radius, tp.X, tp.Y, bodyOf(w, t)) {
				events = append(events, ApplyDamage(w, rng, now, t, p.Damage, p.Element, def.ActionTime))
			}
		}
	}

	for _, t := range w.Query(component.CPosition) {
		if !w.Has(t, component.CTagBreakable) && !w.Has(t, component.CDoor) {
			continue
		}
		tp := w.Get(t, component.CPosition).(component.Position)
		if circleHitsBox(pos.X, pos.Y, def.Radius, tp.X, tp.Y, bodyOf(w, t)) {
			destroy(w, t)
		}
	}
	return events
}

// teleport moves id to (x, y), backing off toward its current position
// until its body fits. It stays put if no free spot is found within a tile.
func teleport(w *ecs.World, grid *gamemap.Grid, id ecs.EntityID, x, y float64) {
	from := w.Get(id, component.CPosition).(component.Position)
	body := bodyOf(w, id)
	dx, dy := from.X-x, from.Y-y
	dist := math.Hypot(dx, dy)
	for back := 0.0; back <= 1; back += 0.1 {
		px, py := x, y
		if dist > 0 {
			b := min(back, dist)
			px, py = x+dx/dist*b, y+dy/dist*b
		}
		if hit, _ := collides(w, grid, id, px, py, body); !hit {
			w.Add(id, component.Position{X: px, Y: py})
			return
		}
	}
}
