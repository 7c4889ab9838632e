package system

import (
	"math"
	"math/rand"

	"spellcrawl/assets"
	"spellcrawl/internal/component"
	"spellcrawl/internal/ecs"
)

// Combat feedback timing, in ticks.
const (
	HitFlashTicks  = 6
	HealthBarTicks = 180
	DeathAnimTicks = 30
)

// Variance is the maximum fractional deviation applied to every hit.
const Variance = 0.2

// DamageEvent is a floating damage number for the renderer. It is never
// stored.
type DamageEvent struct {
	Target  ecs.EntityID
	Amount  int
	Element component.Element
	X, Y    float64
	Killed  bool
}

// ApplyDamage resolves one hit on id. In order: dead or dying targets are
// ignored; ice and poison extend their status by actionTime; a non-negative
// hit flashes the target and shows its health bar; the class multiplier
// and a ±Variance roll from rng scale the damage; health is clamped to
// [0, full] and reaching zero starts the death animation.
// Negative base damage heals.
func ApplyDamage(w *ecs.World, rng *rand.Rand, now int64, id ecs.EntityID, base int, element component.Element, actionTime int) DamageEvent {
	hc := w.Get(id, component.CHealth)
	if hc == nil || w.Has(id, component.CDying) || hc.(component.Health).Current <= 0 {
		return DamageEvent{Target: id}
	}

	extendStatus(w, id, base, element, actionTime)

	h := w.Get(id, component.CHealth).(component.Health)
	if base >= 0 {
		h.Flash = HitFlashTicks
		h.LastHit = now
	}

	var class string
	if c := w.Get(id, component.CActor); c != nil {
		class = c.(component.Actor).Class
	}
	amount := float64(base) * assets.Multiplier(class, element)
	amount *= 1 + Variance*(2*rng.Float64()-1)
	// Anything past one full bar in either direction has the same effect.
	full := float64(h.Full)
	amount = min(max(amount, -full), full)
	w.Add(id, h)
	return hurt(w, now, id, int(math.Round(amount)), element)
}

// Hurt subtracts a fixed amount with no multiplier or variance. Status
// ticks use it.
func Hurt(w *ecs.World, now int64, id ecs.EntityID, amount int, element component.Element) DamageEvent {
	hc := w.Get(id, component.CHealth)
	if hc == nil || w.Has(id, component.CDying) || hc.(component.Health).Current <= 0 {
		return DamageEvent{Target: id}
	}
	return hurt(w, now, id, amount, element)
}

func hurt(w *ecs.World, now int64, id ecs.EntityID, amount int, element component.Element) DamageEvent {
	h := w.Get(id, component.CHealth).(component.Health)
	before := h.Current
	h.Current = min(max(h.Current-amount, 0), h.Full)
	w.Add(id, h)

	ev := DamageEvent{Target: id, Amount: before - h.Current, Element: element}
	if c := w.Get(id, component.CPosition); c != nil {
		p := c.(component.Position)
		ev.X, ev.Y = p.X, p.Y
	}
	if h.Current == 0 {
		Kill(w, id)
		ev.Killed = true
	}
	return ev
}
