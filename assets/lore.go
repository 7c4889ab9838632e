package assets

// LevelLore holds atmospheric lines per level (index 0 unused). Levels past
// the end reuse the last entry.
var LevelLore = [][]string{
	{},
	{ // Sunken Cellars
		"Wine racks rot in the damp. Whatever was stored here drank it first.",
		"Water drips in a slow rhythm. Something below keeps time with it.",
		"A barrel is stencilled 'DO NOT OPEN'. It has been opened from the inside.",
	},
	{ // Bone Galleries
		"Skulls line the niches in neat rows. A few have been rearranged recently.",
		"Someone catalogued the bones here by hand. The ledger stops mid-sentence.",
		"The dust is thick everywhere except a trail leading deeper.",
	},
	{ // Flooded Crypt
		"Cold water laps at the sarcophagi. Not all of the lids are where they belong.",
		"Your torchlight shimmers on the water. Your reflection is a step behind.",
		"A drowned bell tolls once, somewhere far off, without wind.",
	},
	{ // Ember Halls
		"The stones are warm to the touch. The heat comes from further down.",
		"Soot-black murals show a wizard sealing a door. The door is open now.",
		"Embers drift upward through cracks in the floor like slow fireflies.",
	},
	{ // The Undervault
		"Every wall is carved with the same warding sigil. Most of them are cracked.",
		"The air tastes of old magic and older dust.",
		"A voice you almost recognise counts the doors you have opened.",
	},
}

// MonsterLore describes each monster class by key.
var MonsterLore = map[string]string{
	"slime":    "A patient mass of acid and appetite. Fire makes it hiss; poison only feeds it.",
	"skeleton": "Bound bones that remember drills long after their soldiers forgot. Frost barely slows them.",
	"bat":      "A cave bat swollen by stray enchantments. Lightning drops it from the air.",
	"golem":    "Quarried stone given one command and no rest. Fire only warms it; ice splits it.",
	"wraith":   "A cold echo of a fallen mage. It drinks lightning and flinches from flame.",
}

// LoreFor returns one lore line for level. pick chooses among the level's
// lines and may be any non-negative number.
func LoreFor(level, pick int) string {
	if level < 1 {
		level = 1
	}
	if level >= len(LevelLore) {
		level = len(LevelLore) - 1
	}
	lines := LevelLore[level]
	return lines[pick%len(lines)]
}
