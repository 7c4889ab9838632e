package assets

import "spellcrawl/internal/component"

// SpellDef is the static balance data for one spell kind. The simulation
// reads the numbers; the HUD reads Name, Emoji and Description.
type SpellDef struct {
	Kind        component.SpellKind
	Name        string
	Emoji       string
	Description string
	Element     component.Element
	Damage      int
	ManaCost    int
	ActionTime  int     // ticks of slow or poison stacks applied on hit
	Speed       float64 // tiles per tick while traveling
	Radius      float64 // impact radius in tiles
	AimAtCursor bool    // fly to the cursor instead of past it
	Piercing    bool    // never blocked; damages each target passed once
	Teleport    bool    // moves the caster to the impact point
}

// Spells is indexed by component.SpellKind.
var Spells = [...]SpellDef{
	component.SpellFireball: {
		Kind:        component.SpellFireball,
		Name:        "Fireball",
		Emoji:       "🔥",
		Description: "A slow ball of flame that bursts on the first thing it touches",
		Element:     component.ElementFire,
		Damage:      12,
		ManaCost:    10,
		Speed:       0.5,
		Radius:      0.6,
	},
	component.SpellFrostbolt: {
		Kind:        component.SpellFrostbolt,
		Name:        "Frostbolt",
		Emoji:       "❄",
		Description: "Chills the target, halving its speed for two seconds",
		Element:     component.ElementIce,
		Damage:      8,
		ManaCost:    8,
		ActionTime:  120,
		Speed:       0.45,
		Radius:      0.6,
	},
	component.SpellVenom: {
		Kind:        component.SpellVenom,
		Name:        "Venom",
		Emoji:       "🧪",
		Description: "Poisons the target, dealing damage every half second",
		Element:     component.ElementPoison,
		Damage:      10,
		ManaCost:    8,
		ActionTime:  10,
		Speed:       0.4,
		Radius:      0.6,
	},
	component.SpellLightning: {
		Kind:        component.SpellLightning,
		Name:        "Lightning",
		Emoji:       "⚡",
		Description: "Strikes the cursor instantly, hitting everything along the way",
		Element:     component.ElementLightning,
		Damage:      15,
		ManaCost:    15,
		Speed:       64,
		Radius:      0.8,
		AimAtCursor: true,
		Piercing:    true,
	},
	component.SpellQuake: {
		Kind:        component.SpellQuake,
		Name:        "Quake",
		Emoji:       "🪨",
		Description: "Shakes the ground at the cursor, crushing everything nearby",
		Element:     component.ElementEarth,
		Damage:      20,
		ManaCost:    25,
		Speed:       0.35,
		Radius:      2.0,
		AimAtCursor: true,
	},
	component.SpellBlink: {
		Kind:        component.SpellBlink,
		Name:        "Blink",
		Emoji:       "✨",
		Description: "Teleports you to where the spark lands",
		Element:     component.ElementNone,
		ManaCost:    12,
		Speed:       0.8,
		Radius:      0.4,
		Teleport:    true,
	},
}

// Spell returns the definition for kind.
func Spell(kind component.SpellKind) SpellDef {
	return Spells[kind]
}
