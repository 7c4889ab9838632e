package component

import "spellcrawl/internal/ecs"

const (
	CActor  ecs.ComponentType = 11
	CDash   ecs.ComponentType = 13
	CWander ecs.ComponentType = 5
	CAI     ecs.ComponentType = 20
)

// ActorKind tags the three kinds of living actors.
type ActorKind uint8

const (
	KindPlayer ActorKind = iota
	KindCompanion
	KindMonster
)

func (k ActorKind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindCompanion:
		return "companion"
	case KindMonster:
		return "monster"
	}
	return "unknown"
}

// Hostile reports whether actors of kind k attack actors of kind o.
func (k ActorKind) Hostile(o ActorKind) bool {
	return (k == KindMonster) != (o == KindMonster)
}

// Actor identifies a living entity and its movement speed.
type Actor struct {
	Kind  ActorKind
	Class string // monster class key, empty for players and companions
	Name  string
	Speed float64 // base tiles per tick
}

func (Actor) Type() ecs.ComponentType { return CActor }

// Dash is a short burst of fixed-direction movement.
type Dash struct {
	DX, DY float64
	Ticks  int
}

func (Dash) Type() ecs.ComponentType { return CDash }

// Wander is a floor cell an idle monster walks toward.
type Wander struct {
	X, Y float64
}

func (Wander) Type() ecs.ComponentType { return CWander }

// AI drives non-player actors.
type AI struct {
	SightRange float64
	Cooldown   int // ticks until the actor may attack again
}

func (AI) Type() ecs.ComponentType { return CAI }

const CPurse ecs.ComponentType = 19

// Purse is the gold a player has collected.
type Purse struct {
	Gold int
}

func (Purse) Type() ecs.ComponentType { return CPurse }
