package render

// LevelTiles holds the glyphs used to draw one level's terrain.
type LevelTiles struct {
	Wall  string
	Floor string
}

// TileThemes maps dungeon level (1-indexed) to its tile set. Index 0 is
// used for anything out of range.
var TileThemes = []LevelTiles{
	{Wall: "🧱", Floor: "🟫"},
	// Sunken Cellars: damp stone
	{Wall: "🧱", Floor: "🟫"},
	// Bone Galleries
	{Wall: "🦴", Floor: "⬛"},
	// Flooded Crypt
	{Wall: "🪨", Floor: "🟦"},
	// Ember Halls
	{Wall: "🌋", Floor: "🟥"},
	// The Undervault
	{Wall: "💀", Floor: "🟪"},
}

// ThemeFor returns the tile set for level.
func ThemeFor(level int) LevelTiles {
	if level < 1 || level >= len(TileThemes) {
		return TileThemes[0]
	}
	return TileThemes[level]
}
