package generate

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"spellcrawl/internal/catalog"
	"spellcrawl/internal/gamemap"
	"spellcrawl/internal/seed"

	"go.opentelemetry.io/otel/attribute"
)

// Pools for the population streams.
var (
	MonsterCounts = []string{"0", "1", "2", "3"}
	GoldAmounts   = []string{"5", "10", "25", "50"}
)

// MonsterSpawn describes one monster to create.
type MonsterSpawn struct {
	Class string
	X, Y  int
}

// ChestSpawn describes the gold held by one chest.
type ChestSpawn struct {
	X, Y int
	Gold int
}

// Population is the output of the monster and loot streams.
type Population struct {
	Monsters []MonsterSpawn
	Chests   []ChestSpawn
}

// Populate draws monsters for every evil and double room, then gold for
// every chest, each from its own sequence so they replay independently of
// the layout stream. No two monsters share a tile.
func (g *Generator) Populate(ctx context.Context, res *Result, classes []string, monsters, loot *seed.Sequence) (*Population, error) {
	_, span := g.tracer.Start(ctx, "dungeon.populate")
	defer span.End()

	doors := make(map[gamemap.Point]bool, len(res.Doors))
	for _, d := range res.Doors {
		doors[d] = true
	}

	var pop Population
	for _, room := range res.Rooms {
		if room.Category != catalog.CategoryEvil && room.Category != catalog.CategoryDouble {
			continue
		}
		spawns, err := populateRoom(res.Grid, doors, room, classes, monsters)
		if err != nil {
			return nil, fmt.Errorf("populate room %s at %d,%d: %w", room.Key, room.X, room.Y, err)
		}
		pop.Monsters = append(pop.Monsters, spawns...)
	}

	for _, c := range res.Grid.Find(gamemap.GlyphChest) {
		tok, err := loot.NextChoice(GoldAmounts)
		if err != nil {
			return nil, fmt.Errorf("chest at %d,%d: %w", c.X, c.Y, err)
		}
		gold, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("chest at %d,%d: %w: gold %q", c.X, c.Y, seed.ErrMalformedToken, tok)
		}
		pop.Chests = append(pop.Chests, ChestSpawn{X: c.X, Y: c.Y, Gold: gold})
	}

	span.SetAttributes(
		attribute.Int("monsters", len(pop.Monsters)),
		attribute.Int("chests", len(pop.Chests)),
	)
	g.logger.Debug("dungeon populated",
		"monsters", len(pop.Monsters),
		"chests", len(pop.Chests),
		"monster_tokens", monsters.Len(),
		"loot_tokens", loot.Len(),
	)
	return &pop, nil
}

func populateRoom(grid *gamemap.Grid, doors map[gamemap.Point]bool, room PlacedRoom, classes []string, seq *seed.Sequence) ([]MonsterSpawn, error) {
	tok, err := seq.NextChoice(MonsterCounts)
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: monster count %q", seed.ErrMalformedToken, tok)
	}

	// free holds room-relative "x:y" keys of unclaimed floor cells.
	var free []string
	for y := 0; y < room.H; y++ {
		for x := 0; x < room.W; x++ {
			p := gamemap.Point{X: room.X + x, Y: room.Y + y}
			if grid.IsFloor(p.X, p.Y) && !doors[p] {
				free = append(free, cellKey(x, y))
			}
		}
	}

	var out []MonsterSpawn
	for i := 0; i < n && len(free) > 0; i++ {
		class, err := seq.NextChoice(classes)
		if err != nil {
			return nil, err
		}
		cell, err := seq.NextChoice(free)
		if err != nil {
			return nil, err
		}
		x, y, err := parseCellKey(cell)
		if err != nil {
			return nil, err
		}
		for j, k := range free {
			if k == cell {
				free = append(free[:j], free[j+1:]...)
				break
			}
		}
		out = append(out, MonsterSpawn{Class: class, X: room.X + x, Y: room.Y + y})
	}
	return out, nil
}

func cellKey(x, y int) string {
	return strconv.Itoa(x) + ":" + strconv.Itoa(y)
}

func parseCellKey(s string) (x, y int, err error) {
	xs, ys, ok := strings.Cut(s, ":")
	if ok {
		x, err = strconv.Atoi(xs)
		if err == nil {
			y, err = strconv.Atoi(ys)
		}
	}
	if !ok || err != nil {
		return 0, 0, fmt.Errorf("%w: cell %q", seed.ErrMalformedToken, s)
	}
	return x, y, nil
}
