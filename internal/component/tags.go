package component

import "spellcrawl/internal/ecs"

const (
	CTagSolid     ecs.ComponentType = 8
	CTagBreakable ecs.ComponentType = 9
	CDoor         ecs.ComponentType = 15
	CChest        ecs.ComponentType = 16
	CExit         ecs.ComponentType = 17
)

// TagSolid marks an entity that blocks movement like a wall.
type TagSolid struct{}

func (TagSolid) Type() ecs.ComponentType { return CTagSolid }

// TagBreakable marks furniture destroyed by spell impacts.
type TagBreakable struct{}

func (TagBreakable) Type() ecs.ComponentType { return CTagBreakable }

// Door sits in a carved opening. A closed door is solid.
type Door struct {
	Open bool
}

func (Door) Type() ecs.ComponentType { return CDoor }

// Chest holds gold until the player bumps it.
type Chest struct {
	Gold   int
	Opened bool
}

func (Chest) Type() ecs.ComponentType { return CChest }

// Exit marks the level's end cell.
type Exit struct{}

func (Exit) Type() ecs.ComponentType { return CExit }
