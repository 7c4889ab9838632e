package component

import "spellcrawl/internal/ecs"

const (
	CPosition ecs.ComponentType = 1
	CVelocity ecs.ComponentType = 4
	CFacing   ecs.ComponentType = 6
	CBody     ecs.ComponentType = 12
)

// Position is the centre of an entity in tile units.
type Position struct {
	X, Y float64
}

func (Position) Type() ecs.ComponentType { return CPosition }

// Velocity is the per-tick delta requested for an entity.
type Velocity struct {
	DX, DY float64
}

func (Velocity) Type() ecs.ComponentType { return CVelocity }

// Body is an axis-aligned box centred on Position.
type Body struct {
	W, H float64
}

func (Body) Type() ecs.ComponentType { return CBody }

// Bounds returns the box edges for an entity at (x, y).
func (b Body) Bounds(x, y float64) (minX, minY, maxX, maxY float64) {
	return x - b.W/2, y - b.H/2, x + b.W/2, y + b.H/2
}

// Direction is one of eight compass facings.
type Direction uint8

const (
	DirS Direction = iota
	DirSW
	DirW
	DirNW
	DirN
	DirNE
	DirE
	DirSE
)

var directionNames = [...]string{"S", "SW", "W", "NW", "N", "NE", "E", "SE"}

func (d Direction) String() string { return directionNames[d] }

var directionDeltas = [...][2]float64{{0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}}

// Delta returns the unit step, per axis, for d.
func (d Direction) Delta() (dx, dy float64) {
	v := directionDeltas[d]
	return v[0], v[1]
}

// DirectionOf maps the signs of a velocity to a facing. ok is false for a
// zero vector, in which case the caller keeps its previous facing.
func DirectionOf(dx, dy float64) (d Direction, ok bool) {
	sx, sy := sign(dx), sign(dy)
	switch {
	case sx == 0 && sy == 0:
		return 0, false
	case sx == 0 && sy > 0:
		return DirS, true
	case sx < 0 && sy > 0:
		return DirSW, true
	case sx < 0 && sy == 0:
		return DirW, true
	case sx < 0 && sy < 0:
		return DirNW, true
	case sx == 0 && sy < 0:
		return DirN, true
	case sx > 0 && sy < 0:
		return DirNE, true
	case sx > 0 && sy == 0:
		return DirE, true
	default:
		return DirSE, true
	}
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Facing is the last non-zero movement direction.
type Facing struct {
	Dir Direction
}

func (Facing) Type() ecs.ComponentType { return CFacing }
