package system

import (
	"math"
	"math/rand"

	"spellcrawl/assets"
	"spellcrawl/internal/component"
	"spellcrawl/internal/ecs"
	"spellcrawl/internal/gamemap"
)

// AI tuning.
const (
	AttackCooldown = 45  // ticks between contact attacks
	WanderRadius   = 5   // tiles around the monster a wander target is drawn from
	FollowDistance = 1.5 // companions stop this close to the player
	reachEpsilon   = 0.2
)

// UpdateAI steers monsters and companions for one tick. Monsters chase the
// nearest player or companion in sight and strike on contact; otherwise
// they walk to a random floor cell nearby. Companions follow the player.
func UpdateAI(w *ecs.World, grid *gamemap.Grid, rng *rand.Rand, now int64) []DamageEvent {
	var events []DamageEvent
	for _, id := range w.Query(component.CAI, component.CActor, component.CPosition) {
		if !Living(w, id) {
			continue
		}
		actor := w.Get(id, component.CActor).(component.Actor)
		ai := w.Get(id, component.CAI).(component.AI)
		if ai.Cooldown > 0 {
			ai.Cooldown--
		}
		switch actor.Kind {
		case component.KindMonster:
			if ev, ok := monsterTurn(w, grid, rng, now, id, actor, &ai); ok {
				events = append(events, ev)
			}
		case component.KindCompanion:
			companionTurn(w, id)
		}
		w.Add(id, ai)
	}
	return events
}

func monsterTurn(w *ecs.World, grid *gamemap.Grid, rng *rand.Rand, now int64, id ecs.EntityID, actor component.Actor, ai *component.AI) (DamageEvent, bool) {
	pos := w.Get(id, component.CPosition).(component.Position)
	target, tpos, ok := nearestHostile(w, grid, id, pos, ai.SightRange)
	if !ok {
		wander(w, grid, rng, id, pos)
		return DamageEvent{}, false
	}
	w.Remove(id, component.CWander)

	if touching(w, id, pos, target, tpos) {
		Steer(w, id, 0, 0)
		if ai.Cooldown > 0 {
			return DamageEvent{}, false
		}
		ai.Cooldown = AttackCooldown
		class, _ := assets.Monster(actor.Class)
		return ApplyDamage(w, rng, now, target, class.Damage, component.ElementNone, 0), true
	}
	Steer(w, id, tpos.X-pos.X, tpos.Y-pos.Y)
	return DamageEvent{}, false
}

// nearestHostile finds the closest living actor hostile to id within sight
// whose cell is not hidden behind walls. Ties go to the lower entity ID.
func nearestHostile(w *ecs.World, grid *gamemap.Grid, id ecs.EntityID, pos component.Position, sight float64) (ecs.EntityID, component.Position, bool) {
	self := w.Get(id, component.CActor).(component.Actor)
	best, bestDist := ecs.NilEntity, math.Inf(1)
	var bestPos component.Position
	var visible map[gamemap.Point]bool
	for _, other := range w.Query(component.CActor, component.CPosition) {
		if other == id || !Living(w, other) {
			continue
		}
		if !self.Kind.Hostile(w.Get(other, component.CActor).(component.Actor).Kind) {
			continue
		}
		op := w.Get(other, component.CPosition).(component.Position)
		d := math.Hypot(op.X-pos.X, op.Y-pos.Y)
		if d > sight || d >= bestDist {
			continue
		}
		if visible == nil {
			visible = VisibleFrom(grid, gamemap.Point{X: int(pos.X), Y: int(pos.Y)}, int(sight)+1)
		}
		if !visible[gamemap.Point{X: int(op.X), Y: int(op.Y)}] {
			continue
		}
		best, bestDist, bestPos = other, d, op
	}
	return best, bestPos, best != ecs.NilEntity
}

func touching(w *ecs.World, a ecs.EntityID, ap component.Position, b ecs.EntityID, bp component.Position) bool {
	ab, bb := bodyOf(w, a), bodyOf(w, b)
	grow := component.Body{W: ab.W + 0.1, H: ab.H + 0.1}
	return overlaps(ap.X, ap.Y, grow, bp.X, bp.Y, bb)
}

// wander walks toward the current wander target, drawing a new floor cell
// when there is none or it has been reached.
func wander(w *ecs.World, grid *gamemap.Grid, rng *rand.Rand, id ecs.EntityID, pos component.Position) {
	var tgt component.Wander
	if c := w.Get(id, component.CWander); c != nil {
		tgt = c.(component.Wander)
		if math.Hypot(tgt.X-pos.X, tgt.Y-pos.Y) > reachEpsilon {
			Steer(w, id, tgt.X-pos.X, tgt.Y-pos.Y)
			return
		}
	}
	cx := int(pos.X) + rng.Intn(2*WanderRadius+1) - WanderRadius
	cy := int(pos.Y) + rng.Intn(2*WanderRadius+1) - WanderRadius
	if !grid.IsFloor(cx, cy) {
		w.Remove(id, component.CWander)
		Steer(w, id, 0, 0)
		return
	}
	tgt = component.Wander{X: float64(cx) + 0.5, Y: float64(cy) + 0.5}
	w.Add(id, tgt)
	Steer(w, id, tgt.X-pos.X, tgt.Y-pos.Y)
}

func companionTurn(w *ecs.World, id ecs.EntityID) {
	pos := w.Get(id, component.CPosition).(component.Position)
	for _, p := range w.Query(component.CActor, component.CPosition) {
		if !isKind(w, p, component.KindPlayer) || !Living(w, p) {
			continue
		}
		pp := w.Get(p, component.CPosition).(component.Position)
		if math.Hypot(pp.X-pos.X, pp.Y-pos.Y) > FollowDistance {
			Steer(w, id, pp.X-pos.X, pp.Y-pos.Y)
		} else {
			Steer(w, id, 0, 0)
		}
		return
	}
	Steer(w, id, 0, 0)
}
