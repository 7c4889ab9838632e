package component

import "spellcrawl/internal/ecs"

const (
	CHealth ecs.ComponentType = 2
	CMana   ecs.ComponentType = 10
	CDying  ecs.ComponentType = 18
)

// Health tracks hit points plus the hit-flash and health-bar timers.
type Health struct {
	Current, Full int
	LastHit       int64 // tick of the most recent hit, -1 if never hit
	Flash         int   // ticks of hit flash remaining
}

func (Health) Type() ecs.ComponentType { return CHealth }

// Mana is the player's spell resource.
type Mana struct {
	Current, Full int
}

func (Mana) Type() ecs.ComponentType { return CMana }

// Dying marks an entity playing its death animation. It no longer moves,
// collides or takes damage and is removed when Ticks reaches zero.
type Dying struct {
	Ticks int
}

func (Dying) Type() ecs.ComponentType { return CDying }
