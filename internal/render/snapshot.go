package render

import "github.com/gdamore/tcell/v2"

// Sprite is one drawable entity.
type Sprite struct {
	X, Y       float64 // tile units, centre of the entity
	Glyph      string
	FG         tcell.Color
	Order      int
	Health     int
	FullHealth int
	ShowHealth bool
	Flash      bool
}

// Floater is a damage number drifting above where a hit landed.
type Floater struct {
	X, Y   float64
	Amount int
	Age    int
}

// PlayerStatus feeds the HUD.
type PlayerStatus struct {
	X, Y       float64
	FaceX      float64 // unit step of the last movement direction
	FaceY      float64
	Health     int
	FullHealth int
	Mana       int
	FullMana   int
	Gold       int
	Companions int
	Dead       bool
}

// Snapshot is a read-only view of one simulation tick.
type Snapshot struct {
	Tick      int64
	Level     int
	LevelName string
	Player    PlayerStatus
	Sprites   []Sprite // sorted back to front
	Floaters  []Floater
	Messages  []string
}
