package component

import "spellcrawl/internal/ecs"

const CProjectile ecs.ComponentType = 14

// Element is the damage type carried by a spell.
type Element uint8

const (
	ElementNone Element = iota
	ElementFire
	ElementIce
	ElementPoison
	ElementLightning
	ElementEarth
)

// Elements lists every element in declaration order.
var Elements = []Element{ElementNone, ElementFire, ElementIce, ElementPoison, ElementLightning, ElementEarth}

var elementNames = [...]string{"none", "fire", "ice", "poison", "lightning", "earth"}

func (e Element) String() string {
	if int(e) < len(elementNames) {
		return elementNames[e]
	}
	return "unknown"
}

// SpellKind is one of the six castable spells.
type SpellKind uint8

const (
	SpellFireball SpellKind = iota
	SpellFrostbolt
	SpellVenom
	SpellLightning
	SpellQuake
	SpellBlink
)

var spellNames = [...]string{"fireball", "frostbolt", "venom", "lightning", "quake", "blink"}

func (k SpellKind) String() string {
	if int(k) < len(spellNames) {
		return spellNames[k]
	}
	return "unknown"
}

// ProjectileState is the spell lifecycle. It only moves forward.
type ProjectileState uint8

const (
	Traveling ProjectileState = iota
	Impacted
	Despawned
)

func (s ProjectileState) String() string {
	switch s {
	case Traveling:
		return "traveling"
	case Impacted:
		return "impacted"
	}
	return "despawned"
}

// Projectile is an in-flight or impacting spell.
type Projectile struct {
	Kind    SpellKind
	Caster  ecs.EntityID
	Targets ActorKind // kind of actor this spell damages; players hit monsters
	TargetX float64
	TargetY float64
	Damage  int
	Element Element
	State   ProjectileState
	Frame   int                   // impact animation frame
	Applied bool                  // impact effect has fired
	Pierced map[ecs.EntityID]bool // targets already damaged in flight
	Marker  ecs.EntityID          // blink destination sprite
}

func (Projectile) Type() ecs.ComponentType { return CProjectile }
