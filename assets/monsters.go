package assets

import "spellcrawl/internal/component"

// Element multipliers. Each monster class has one weakness and one
// resistance; every other element deals normal damage.
const (
	WeaknessFactor   = 2.0
	ResistanceFactor = 0.25
)

// MonsterClass is the static balance data for one monster kind.
type MonsterClass struct {
	Key        string
	Name       string
	Emoji      string
	Health     int
	Speed      float64 // tiles per tick
	Damage     int     // contact damage
	SightRange float64
	Weakness   component.Element
	Resistance component.Element
}

// Monsters is the ordered monster table. Keys are recorded in the monster
// seed stream.
var Monsters = []MonsterClass{
	{Key: "slime", Name: "Slime", Emoji: "🟢", Health: 20, Speed: 0.04, Damage: 2, SightRange: 6,
		Weakness: component.ElementFire, Resistance: component.ElementPoison},
	{Key: "skeleton", Name: "Skeleton", Emoji: "💀", Health: 30, Speed: 0.06, Damage: 4, SightRange: 8,
		Weakness: component.ElementEarth, Resistance: component.ElementIce},
	{Key: "bat", Name: "Bat", Emoji: "🦇", Health: 12, Speed: 0.1, Damage: 2, SightRange: 10,
		Weakness: component.ElementLightning, Resistance: component.ElementEarth},
	{Key: "golem", Name: "Golem", Emoji: "🗿", Health: 60, Speed: 0.03, Damage: 8, SightRange: 5,
		Weakness: component.ElementIce, Resistance: component.ElementFire},
	{Key: "wraith", Name: "Wraith", Emoji: "👻", Health: 25, Speed: 0.07, Damage: 5, SightRange: 9,
		Weakness: component.ElementFire, Resistance: component.ElementLightning},
}

// Monster looks up a class by key.
func Monster(key string) (MonsterClass, bool) {
	for _, m := range Monsters {
		if m.Key == key {
			return m, true
		}
	}
	return MonsterClass{}, false
}

// MonsterKeys returns the class keys in table order.
func MonsterKeys() []string {
	keys := make([]string, len(Monsters))
	for i, m := range Monsters {
		keys[i] = m.Key
	}
	return keys
}

// Multiplier returns the damage factor element e deals to monster class key.
// Non-monsters (empty or unknown key) take normal damage.
func Multiplier(key string, e component.Element) float64 {
	m, ok := Monster(key)
	if !ok {
		return 1
	}
	switch e {
	case m.Weakness:
		return WeaknessFactor
	case m.Resistance:
		return ResistanceFactor
	}
	return 1
}
