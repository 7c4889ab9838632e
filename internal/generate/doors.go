package generate

import (
	"spellcrawl/internal/gamemap"
	"spellcrawl/internal/seed"
)

type pt = gamemap.Point

func add(a, b pt) pt       { return pt{X: a.X + b.X, Y: a.Y + b.Y} }
func scale(a pt, n int) pt { return pt{X: a.X * n, Y: a.Y * n} }

// doorRule describes how a placeholder on one side of a room resolves.
// Directions are relative to the placeholder: inward points into its room,
// along runs with the wall.
type doorRule struct {
	inward  pt
	along   pt
	wall    gamemap.Glyph // plain wall for this side
	endNext gamemap.Glyph // wall end whose opening lies one step +along
	endPrev gamemap.Glyph // wall end whose opening lies one step -along
	partner gamemap.Glyph // facing placeholder one step outward, if this side pairs
}

func (r doorRule) outward() pt { return scale(r.inward, -1) }

var doorRules = map[gamemap.Glyph]doorRule{
	gamemap.DoorRight: {
		inward: pt{X: -1}, along: pt{Y: 1}, wall: gamemap.WallRight,
		endNext: gamemap.WallEndSouth, endPrev: gamemap.WallEndNorth,
		partner: gamemap.DoorLeft,
	},
	gamemap.DoorLeft: {
		inward: pt{X: 1}, along: pt{Y: 1}, wall: gamemap.WallLeft,
		endNext: gamemap.WallEndSouth, endPrev: gamemap.WallEndNorth,
	},
	gamemap.DoorBottom: {
		inward: pt{Y: -1}, along: pt{X: 1}, wall: gamemap.WallBottom,
		endNext: gamemap.WallEndEast, endPrev: gamemap.WallEndWest,
		partner: gamemap.DoorTop,
	},
	gamemap.DoorTop: {
		inward: pt{Y: 1}, along: pt{X: 1}, wall: gamemap.WallTop,
		endNext: gamemap.WallEndEast, endPrev: gamemap.WallEndWest,
	},
}

func floorAt(g *gamemap.Grid, p pt) bool { return g.IsFloor(p.X, p.Y) }

// canOpen reports whether the cell inside the room in front of p is floor.
func (r doorRule) canOpen(g *gamemap.Grid, p pt) bool {
	return floorAt(g, add(p, r.inward))
}

// canWiden reports whether the opening at p can grow one cell along the
// wall: the cell in front of the extension is floor and the wall goes on
// past it.
func (r doorRule) canWiden(g *gamemap.Grid, p pt) bool {
	next := add(p, r.along)
	far := add(next, r.along)
	return floorAt(g, add(next, r.inward)) && g.At(far.X, far.Y).IsWall()
}

// carve turns width cells starting at p into floor and caps the wall on
// both sides. It returns the opened cells.
func (r doorRule) carve(g *gamemap.Grid, p pt, width int) []pt {
	before := add(p, scale(r.along, -1))
	g.Set(before.X, before.Y, r.endNext)
	cells := make([]pt, 0, width)
	for i := range width {
		c := add(p, scale(r.along, i))
		g.Set(c.X, c.Y, gamemap.GlyphFloor)
		cells = append(cells, c)
	}
	after := add(p, scale(r.along, width))
	g.Set(after.X, after.Y, r.endPrev)
	return cells
}

// seal replaces p and its two wall neighbours with plain wall. A neighbour
// whose run ends in blank two steps from p gets an end cap.
func (r doorRule) seal(g *gamemap.Grid, p pt) {
	for i := -1; i <= 1; i++ {
		c := add(p, scale(r.along, i))
		g.Set(c.X, c.Y, r.wall)
	}
	if b := add(p, scale(r.along, -2)); g.At(b.X, b.Y) == gamemap.GlyphBlank {
		c := add(p, scale(r.along, -1))
		g.Set(c.X, c.Y, r.endPrev)
	}
	if b := add(p, scale(r.along, 2)); g.At(b.X, b.Y) == gamemap.GlyphBlank {
		c := add(p, r.along)
		g.Set(c.X, c.Y, r.endNext)
	}
}

// openingWidth draws the short and long odds. It returns 0 when the wall
// stays closed. widen is only consulted after the short draw succeeds.
func openingWidth(seq *seed.Sequence, ch Chances, widen func() bool) (int, error) {
	short, err := seq.NextBoolean(ch.Short)
	if err != nil || !short {
		return 0, err
	}
	if !widen() {
		return 1, nil
	}
	long, err := seq.NextBoolean(ch.Long)
	if err != nil {
		return 0, err
	}
	if long {
		return 2, nil
	}
	return 1, nil
}

// resolveDoors replaces every door placeholder in row-major order. A right
// or bottom placeholder facing its partner decides for both sides at once,
// so a shared wall is never carved twice. It returns the cells that should
// hold a door.
func resolveDoors(g *gamemap.Grid, seq *seed.Sequence, ch Chances) ([]pt, error) {
	var doors []pt
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			rule, ok := doorRules[g.At(x, y)]
			if !ok {
				continue
			}
			p := pt{X: x, Y: y}
			q := add(p, rule.outward())
			var (
				cells []pt
				err   error
			)
			if rule.partner != 0 && g.At(q.X, q.Y) == rule.partner {
				cells, err = resolvePair(g, seq, ch, rule, p, doorRules[rule.partner], q)
			} else {
				cells, err = resolveSingle(g, seq, ch, rule, p)
			}
			if err != nil {
				return nil, err
			}
			doors = append(doors, cells...)
		}
	}
	return doors, nil
}

func resolvePair(g *gamemap.Grid, seq *seed.Sequence, ch Chances, r doorRule, p pt, pr doorRule, q pt) ([]pt, error) {
	width := 0
	if r.canOpen(g, p) && pr.canOpen(g, q) {
		var err error
		width, err = openingWidth(seq, ch, func() bool {
			return r.canWiden(g, p) && pr.canWiden(g, q)
		})
		if err != nil {
			return nil, err
		}
	}
	if width == 0 {
		r.seal(g, p)
		pr.seal(g, q)
		return nil, nil
	}
	cells := r.carve(g, p, width)
	pr.carve(g, q, width)
	return cells, nil
}

func resolveSingle(g *gamemap.Grid, seq *seed.Sequence, ch Chances, r doorRule, p pt) ([]pt, error) {
	out := add(p, r.outward())
	width := 0
	if r.canOpen(g, p) && floorAt(g, out) &&
		floorAt(g, add(out, r.along)) && floorAt(g, add(out, scale(r.along, -1))) {
		var err error
		width, err = openingWidth(seq, ch, func() bool {
			return r.canWiden(g, p) && floorAt(g, add(out, scale(r.along, 2)))
		})
		if err != nil {
			return nil, err
		}
	}
	if width == 0 {
		r.seal(g, p)
		return nil, nil
	}
	return r.carve(g, p, width), nil
}

// resolveConnective turns secret-room F walls into directional walls from
// their neighbours. It never draws from the sequence.
func resolveConnective(g *gamemap.Grid) {
	src := g.Clone()
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if src.At(x, y) == gamemap.GlyphConnective {
				g.Set(x, y, connectiveGlyph(src, x, y))
			}
		}
	}
}

func connectiveGlyph(g *gamemap.Grid, x, y int) gamemap.Glyph {
	linked := func(dx, dy int) bool {
		c := g.At(x+dx, y+dy)
		return c == gamemap.GlyphConnective || c.IsDoor()
	}
	blank := func(dx, dy int) bool { return g.At(x+dx, y+dy) == gamemap.GlyphBlank }
	inside := func(dx, dy int) bool { return !g.At(x+dx, y+dy).IsSolid() }

	n, s, w, e := linked(0, -1), linked(0, 1), linked(-1, 0), linked(1, 0)
	switch {
	case e && s && !n && !w:
		return gamemap.CornerTopLeft
	case w && s && !n && !e:
		return gamemap.CornerTopRight
	case e && n && !s && !w:
		return gamemap.CornerBotLeft
	case w && n && !s && !e:
		return gamemap.CornerBotRight
	case e || w:
		if inside(0, -1) || blank(0, 1) {
			return gamemap.WallBottom
		}
		return gamemap.WallTop
	case n || s:
		if inside(-1, 0) || blank(1, 0) {
			return gamemap.WallRight
		}
		return gamemap.WallLeft
	}
	switch {
	case blank(0, 1):
		return gamemap.WallBottom
	case blank(-1, 0):
		return gamemap.WallLeft
	case blank(1, 0):
		return gamemap.WallRight
	}
	return gamemap.WallTop
}
