package system

import (
	"spellcrawl/internal/component"
	"spellcrawl/internal/ecs"
)

// Status effect tuning.
const (
	SlowFactor     = 0.5 // fraction of base speed while slowed
	PoisonInterval = 30  // ticks between poison firings
	PoisonDamage   = 1   // damage per poison firing
)

// extendStatus applies the timed status an element carries. Ice slows for
// actionTime ticks; poison adds actionTime stacks when the hit is strong
// enough. A newly poisoned entity fires its first stack one interval later.
func extendStatus(w *ecs.World, id ecs.EntityID, base int, element component.Element, actionTime int) {
	if actionTime <= 0 {
		return
	}
	var st component.Status
	if c := w.Get(id, component.CStatus); c != nil {
		st = c.(component.Status)
	}
	switch {
	case element == component.ElementIce:
		st.SlowTicks += actionTime
	case element == component.ElementPoison && base >= 5:
		if st.PoisonStacks == 0 {
			st.PoisonTimer = PoisonInterval
		}
		st.PoisonStacks += actionTime
	default:
		return
	}
	w.Add(id, st)
}

// TickStatus advances slow, poison and hit-flash timers by one tick. The
// slow counter drops every tick; poison drops one stack per
// PoisonInterval ticks and deals PoisonDamage each time it fires.
func TickStatus(w *ecs.World, now int64) []DamageEvent {
	var events []DamageEvent
	for _, id := range w.Query(component.CHealth) {
		h := w.Get(id, component.CHealth).(component.Health)
		if h.Flash > 0 {
			h.Flash--
			w.Add(id, h)
		}
	}
	for _, id := range w.Query(component.CStatus) {
		if w.Has(id, component.CDying) {
			continue
		}
		st := w.Get(id, component.CStatus).(component.Status)
		if st.SlowTicks > 0 {
			st.SlowTicks--
		}
		fire := false
		if st.PoisonStacks > 0 {
			st.PoisonTimer--
			if st.PoisonTimer <= 0 {
				st.PoisonStacks--
				st.PoisonTimer = PoisonInterval
				fire = true
			}
		}
		if st.PoisonStacks == 0 {
			st.PoisonTimer = 0
		}
		w.Add(id, st)
		if fire {
			events = append(events, Hurt(w, now, id, PoisonDamage, component.ElementPoison))
		}
	}
	return events
}

// HealthBarVisible reports whether a health bar should still be drawn for
// an entity last hit at h.LastHit.
func HealthBarVisible(h component.Health, now int64) bool {
	return h.LastHit >= 0 && now-h.LastHit < HealthBarTicks
}
