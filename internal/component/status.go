package component

import "spellcrawl/internal/ecs"

const CStatus ecs.ComponentType = 7

// Status holds the timed effects spells leave on an entity.
type Status struct {
	SlowTicks    int // ticks of slow remaining
	PoisonStacks int // poison firings remaining
	PoisonTimer  int // ticks until the next poison firing
}

func (Status) Type() ecs.ComponentType { return CStatus }

// Slowed reports whether the slow counter is active.
func (s Status) Slowed() bool { return s.SlowTicks > 0 }

// Poisoned reports whether any poison stacks remain.
func (s Status) Poisoned() bool { return s.PoisonStacks > 0 }
