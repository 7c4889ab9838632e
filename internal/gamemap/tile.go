package gamemap

// Glyph is one cell of a room template or of the stitched tile grid.
type Glyph byte

// Terrain and marker glyphs.
const (
	GlyphFloor Glyph = '.'
	GlyphBlank Glyph = ' '

	GlyphBox   Glyph = 'B' // breakable furniture
	GlyphChest Glyph = 'C'
	GlyphTorch Glyph = 'T'
	GlyphStart Glyph = 'S'
	GlyphEnd   Glyph = 'E'

	// GlyphConnective is the secret-room wall, resolved by edge detection.
	GlyphConnective Glyph = 'F'
)

// Door placeholders, named by the side of the room they sit on.
const (
	DoorTop    Glyph = 't'
	DoorBottom Glyph = 'b'
	DoorLeft   Glyph = 'l'
	DoorRight  Glyph = 'r'
)

// Wall and corner glyphs.
const (
	WallTop        Glyph = '0'
	WallBottom     Glyph = '1'
	WallLeft       Glyph = '2'
	WallRight      Glyph = '3'
	CornerTopLeft  Glyph = '4'
	CornerTopRight Glyph = '5'
	CornerBotLeft  Glyph = '6'
	CornerBotRight Glyph = '7'
	WallEndEast    Glyph = '8' // horizontal run ends, opening to the east
	WallEndWest    Glyph = '9' // horizontal run ends, opening to the west
	WallEndSouth   Glyph = '-' // vertical run ends, opening to the south
	WallEndNorth   Glyph = '=' // vertical run ends, opening to the north
)

// IsWall reports whether g is one of the twelve wall/corner glyphs.
func (g Glyph) IsWall() bool {
	return (g >= '0' && g <= '9') || g == WallEndSouth || g == WallEndNorth
}

// IsDoor reports whether g is an unresolved door placeholder.
func (g Glyph) IsDoor() bool {
	return g == DoorTop || g == DoorBottom || g == DoorLeft || g == DoorRight
}

// IsSolid reports whether actors and projectiles are stopped by g.
// Blank cells are the void outside rooms and count as solid.
func (g Glyph) IsSolid() bool {
	return g.IsWall() || g.IsDoor() || g == GlyphBlank || g == GlyphConnective
}

// Valid reports whether g belongs to the template alphabet.
func (g Glyph) Valid() bool {
	switch g {
	case GlyphFloor, GlyphBlank, GlyphBox, GlyphChest, GlyphTorch,
		GlyphStart, GlyphEnd, GlyphConnective:
		return true
	}
	return g.IsWall() || g.IsDoor()
}
