package assets

// Emoji used by the terminal renderer.
const (
	GlyphPlayer    = "🧙"
	GlyphCompanion = "🧝"
	GlyphExit      = "🔽"
	GlyphDoor      = "🚪"
	GlyphDoorOpen  = "▫"
	GlyphChest     = "🧰"
	GlyphChestOpen = "📭"
	GlyphBox       = "📦"
	GlyphTorch     = "🕯"
	GlyphMarker    = "◎"
	GlyphImpact    = "💥"
)

// PlayerStats are the starting values for a new run.
const (
	PlayerHealth    = 50
	PlayerMana      = 60
	PlayerSpeed     = 0.12
	CompanionHealth = 30
	CompanionSpeed  = 0.1
	ManaRegenTicks  = 20 // ticks per point of mana regained
)

// Hiring allies.
const (
	CompanionCost = 25 // gold
	MaxCompanions = 3
)

// CompanionNames are handed out to hired allies in order.
var CompanionNames = []string{"Pip", "Wren", "Tamsin", "Bram", "Odile"}

// LevelNames maps dungeon level (1-indexed) to its display name. Levels
// past the end reuse the last name.
var LevelNames = []string{
	"",
	"Sunken Cellars",
	"Bone Galleries",
	"Flooded Crypt",
	"Ember Halls",
	"The Undervault",
}

// LevelName returns the display name for level.
func LevelName(level int) string {
	if level < 1 {
		level = 1
	}
	if level >= len(LevelNames) {
		level = len(LevelNames) - 1
	}
	return LevelNames[level]
}
