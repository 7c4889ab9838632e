package system

import (
	"spellcrawl/assets"
	"spellcrawl/internal/component"
	"spellcrawl/internal/ecs"
)

// Kill starts the death animation. The entity stops moving and colliding
// at once and is removed after DeathAnimTicks.
func Kill(w *ecs.World, id ecs.EntityID) {
	if w.Has(id, component.CDying) {
		return
	}
	w.Add(id, component.Dying{Ticks: DeathAnimTicks})
	w.Remove(id, component.CVelocity)
	w.Remove(id, component.CDash)
	w.Remove(id, component.CWander)
	w.Remove(id, component.CTagSolid)
}

// TickDying advances death animations and defers removal of entities whose
// animation has finished. The caller commits the world afterwards.
func TickDying(w *ecs.World) []ecs.EntityID {
	var done []ecs.EntityID
	for _, id := range w.Query(component.CDying) {
		d := w.Get(id, component.CDying).(component.Dying)
		d.Ticks--
		w.Add(id, d)
		if d.Ticks <= 0 {
			w.Defer(id)
			done = append(done, id)
		}
	}
	return done
}

// Living reports whether id is an actor that can still act and be hit.
func Living(w *ecs.World, id ecs.EntityID) bool {
	if !w.Alive(id) || w.Has(id, component.CDying) || w.Pending(id) {
		return false
	}
	hc := w.Get(id, component.CHealth)
	return hc != nil && hc.(component.Health).Current > 0
}

func setGlyph(w *ecs.World, id ecs.EntityID, glyph string) {
	if c := w.Get(id, component.CRenderable); c != nil {
		r := c.(component.Renderable)
		r.Glyph = glyph
		w.Add(id, r)
	}
}

// destroy removes breakable furniture and doors hit by a spell.
func destroy(w *ecs.World, id ecs.EntityID) {
	w.Remove(id, component.CTagSolid)
	setGlyph(w, id, assets.GlyphImpact)
	w.Defer(id)
}
