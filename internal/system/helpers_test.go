package system

import (
	"math/rand"

	"spellcrawl/internal/component"
	"spellcrawl/internal/ecs"
	"spellcrawl/internal/gamemap"
)

// openRoom is a 12x8 room with a solid border.
func openRoom() *gamemap.Grid {
	return gamemap.FromRows([]string{
		"400000000005",
		"2..........3",
		"2..........3",
		"2..........3",
		"2..........3",
		"2..........3",
		"2..........3",
		"611111111117",
	})
}

func newRNG() *rand.Rand { return rand.New(rand.NewSource(1)) }

func spawnActor(w *ecs.World, kind component.ActorKind, class string, x, y float64, hp int) ecs.EntityID {
	id := w.CreateEntity()
	w.Add(id, component.Position{X: x, Y: y})
	w.Add(id, component.Body{W: 0.8, H: 0.8})
	w.Add(id, component.Actor{Kind: kind, Class: class, Speed: 0.1})
	w.Add(id, component.Health{Current: hp, Full: hp, LastHit: -1})
	w.Add(id, component.Velocity{})
	return id
}

func spawnDoor(w *ecs.World, cx, cy int) ecs.EntityID {
	id := w.CreateEntity()
	w.Add(id, component.Position{X: float64(cx) + 0.5, Y: float64(cy) + 0.5})
	w.Add(id, component.Body{W: 1, H: 1})
	w.Add(id, component.Door{})
	w.Add(id, component.TagSolid{})
	w.Add(id, component.Renderable{Glyph: "D"})
	return id
}

func health(w *ecs.World, id ecs.EntityID) component.Health {
	return w.Get(id, component.CHealth).(component.Health)
}

func position(w *ecs.World, id ecs.EntityID) component.Position {
	return w.Get(id, component.CPosition).(component.Position)
}
