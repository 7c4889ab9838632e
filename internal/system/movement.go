package system

import (
	"math"

	"spellcrawl/assets"
	"spellcrawl/internal/component"
	"spellcrawl/internal/ecs"
	"spellcrawl/internal/gamemap"
)

// defaultBody is used for entities without a Body component.
var defaultBody = component.Body{W: 0.8, H: 0.8}

// MoveResult describes the outcome of a Move call.
type MoveResult struct {
	BlockedX bool
	BlockedY bool
	Bumped   ecs.EntityID // solid entity that stopped the move, if any
}

// Blocked reports whether either axis was reverted.
func (r MoveResult) Blocked() bool { return r.BlockedX || r.BlockedY }

func bodyOf(w *ecs.World, id ecs.EntityID) component.Body {
	if c := w.Get(id, component.CBody); c != nil {
		return c.(component.Body)
	}
	return defaultBody
}

// overlaps reports whether two centred boxes intersect.
func overlaps(ax, ay float64, a component.Body, bx, by float64, b component.Body) bool {
	return math.Abs(ax-bx)*2 < a.W+b.W && math.Abs(ay-by)*2 < a.H+b.H
}

// solidTileUnder reports whether any solid tile intersects a box at (x, y).
// Tile (cx, cy) covers [cx, cx+1) x [cy, cy+1).
func solidTileUnder(grid *gamemap.Grid, x, y float64, b component.Body) bool {
	minX, minY, maxX, maxY := b.Bounds(x, y)
	const eps = 1e-9
	for cy := int(math.Floor(minY)); cy <= int(math.Floor(maxY-eps)); cy++ {
		for cx := int(math.Floor(minX)); cx <= int(math.Floor(maxX-eps)); cx++ {
			if grid.IsSolid(cx, cy) {
				return true
			}
		}
	}
	return false
}

// collides tests a box against the static collision set: solid tiles and
// entities tagged solid. It returns the entity hit, if any.
func collides(w *ecs.World, grid *gamemap.Grid, self ecs.EntityID, x, y float64, b component.Body) (bool, ecs.EntityID) {
	if solidTileUnder(grid, x, y, b) {
		return true, ecs.NilEntity
	}
	for _, other := range w.Query(component.CTagSolid, component.CPosition) {
		if other == self {
			continue
		}
		op := w.Get(other, component.CPosition).(component.Position)
		if overlaps(x, y, b, op.X, op.Y, bodyOf(w, other)) {
			return true, other
		}
	}
	return false, ecs.NilEntity
}

// Move displaces id by (dx, dy), one axis at a time. An axis whose step
// overlaps the static collision set is reverted and its velocity zeroed.
// Blocked actors lose their dash and wander target; a blocked player also
// opens the door or chest it bumped. Corners can still catch an actor
// moving diagonally.
func Move(w *ecs.World, grid *gamemap.Grid, id ecs.EntityID, dx, dy float64) MoveResult {
	posComp := w.Get(id, component.CPosition)
	if posComp == nil {
		return MoveResult{BlockedX: dx != 0, BlockedY: dy != 0}
	}
	pos := posComp.(component.Position)
	body := bodyOf(w, id)

	var res MoveResult
	if dx != 0 {
		pos.X += dx
		if hit, other := collides(w, grid, id, pos.X, pos.Y, body); hit {
			pos.X -= dx
			res.BlockedX = true
			res.Bumped = other
		}
	}
	if dy != 0 {
		pos.Y += dy
		if hit, other := collides(w, grid, id, pos.X, pos.Y, body); hit {
			pos.Y -= dy
			res.BlockedY = true
			if res.Bumped == ecs.NilEntity {
				res.Bumped = other
			}
		}
	}
	w.Add(id, pos)

	if res.Blocked() {
		onBlocked(w, id, res)
	}
	return res
}

func onBlocked(w *ecs.World, id ecs.EntityID, res MoveResult) {
	if c := w.Get(id, component.CVelocity); c != nil {
		v := c.(component.Velocity)
		if res.BlockedX {
			v.DX = 0
		}
		if res.BlockedY {
			v.DY = 0
		}
		w.Add(id, v)
	}
	w.Remove(id, component.CDash)
	w.Remove(id, component.CWander)

	if res.Bumped == ecs.NilEntity || !isKind(w, id, component.KindPlayer) {
		return
	}
	if c := w.Get(res.Bumped, component.CDoor); c != nil {
		OpenDoor(w, res.Bumped)
	}
	if c := w.Get(res.Bumped, component.CChest); c != nil && !c.(component.Chest).Opened {
		OpenChest(w, res.Bumped, id)
	}
}

// OpenDoor opens a closed door so it no longer blocks movement.
func OpenDoor(w *ecs.World, door ecs.EntityID) {
	d := w.Get(door, component.CDoor).(component.Door)
	if d.Open {
		return
	}
	d.Open = true
	w.Add(door, d)
	w.Remove(door, component.CTagSolid)
	setGlyph(w, door, assets.GlyphDoorOpen)
}

// OpenChest moves a chest's gold into the opener's purse.
func OpenChest(w *ecs.World, chest, opener ecs.EntityID) int {
	c := w.Get(chest, component.CChest).(component.Chest)
	if c.Opened {
		return 0
	}
	gold := c.Gold
	c.Opened, c.Gold = true, 0
	w.Add(chest, c)
	setGlyph(w, chest, assets.GlyphChestOpen)
	if pc := w.Get(opener, component.CPurse); pc != nil {
		p := pc.(component.Purse)
		p.Gold += gold
		w.Add(opener, p)
	}
	return gold
}

func isKind(w *ecs.World, id ecs.EntityID, k component.ActorKind) bool {
	c := w.Get(id, component.CActor)
	return c != nil && c.(component.Actor).Kind == k
}

// EffectiveSpeed returns the base speed of id scaled by slow.
func EffectiveSpeed(w *ecs.World, id ecs.EntityID) float64 {
	c := w.Get(id, component.CActor)
	if c == nil {
		return 0
	}
	speed := c.(component.Actor).Speed
	if sc := w.Get(id, component.CStatus); sc != nil && sc.(component.Status).Slowed() {
		speed *= SlowFactor
	}
	return speed
}

// Steer sets id's velocity to EffectiveSpeed along (dx, dy). A zero vector
// stops the actor.
func Steer(w *ecs.World, id ecs.EntityID, dx, dy float64) {
	l := math.Hypot(dx, dy)
	if l == 0 {
		w.Add(id, component.Velocity{})
		return
	}
	s := EffectiveSpeed(w, id) / l
	w.Add(id, component.Velocity{DX: dx * s, DY: dy * s})
}

// MoveActors advances every living actor by its velocity, or by its dash
// while one is active, and updates facing from the signs of the step.
func MoveActors(w *ecs.World, grid *gamemap.Grid) {
	for _, id := range w.Query(component.CActor, component.CPosition) {
		if w.Has(id, component.CDying) {
			continue
		}
		var dx, dy float64
		if c := w.Get(id, component.CVelocity); c != nil {
			v := c.(component.Velocity)
			dx, dy = v.DX, v.DY
		}
		if c := w.Get(id, component.CDash); c != nil {
			d := c.(component.Dash)
			dx, dy = d.DX, d.DY
			d.Ticks--
			if d.Ticks <= 0 {
				w.Remove(id, component.CDash)
			} else {
				w.Add(id, d)
			}
		}
		if dir, ok := component.DirectionOf(dx, dy); ok {
			w.Add(id, component.Facing{Dir: dir})
		}
		if dx != 0 || dy != 0 {
			Move(w, grid, id, dx, dy)
		}
	}
}
