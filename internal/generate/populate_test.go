package generate

import (
	"context"
	"math/rand"
	"slices"
	"strconv"
	"testing"

	"spellcrawl/internal/catalog"
	"spellcrawl/internal/seed"
)

var testClasses = []string{"slime", "bat", "golem"}

func TestPopulateReplays(t *testing.T) {
	g := newTestGenerator(t)
	ctx := context.Background()
	for s := int64(0); s < 20; s++ {
		res := generate(t, g, []string{"L5"}, s)
		mon := seed.New(rand.New(rand.NewSource(s + 100)))
		loot := seed.New(rand.New(rand.NewSource(s + 200)))
		pop, err := g.Populate(ctx, res, testClasses, mon, loot)
		if err != nil {
			t.Fatalf("seed %d: Populate: %v", s, err)
		}

		again, err := g.Populate(ctx, res, testClasses, seed.Replay(mon.Tokens()), seed.Replay(loot.Tokens()))
		if err != nil {
			t.Fatalf("seed %d: replay: %v", s, err)
		}
		if !slices.Equal(pop.Monsters, again.Monsters) || !slices.Equal(pop.Chests, again.Chests) {
			t.Fatalf("seed %d: replayed population differs", s)
		}
	}
}

func TestPopulatePlacesMonstersOnFreeFloor(t *testing.T) {
	g := newTestGenerator(t)
	for s := int64(0); s < 20; s++ {
		res := generate(t, g, []string{"L4"}, s)
		pop, err := g.Populate(context.Background(), res, testClasses,
			seed.New(rand.New(rand.NewSource(s))), seed.New(rand.New(rand.NewSource(s))))
		if err != nil {
			t.Fatal(err)
		}
		seen := map[[2]int]bool{}
		for _, m := range pop.Monsters {
			if !res.Grid.IsFloor(m.X, m.Y) {
				t.Fatalf("seed %d: monster on %q at %d,%d", s, res.Grid.At(m.X, m.Y), m.X, m.Y)
			}
			if seen[[2]int{m.X, m.Y}] {
				t.Fatalf("seed %d: two monsters at %d,%d", s, m.X, m.Y)
			}
			seen[[2]int{m.X, m.Y}] = true
			if !slices.Contains(testClasses, m.Class) {
				t.Fatalf("seed %d: unknown class %q", s, m.Class)
			}
			inRoom := false
			for _, r := range res.Rooms {
				if r.Contains(m.X, m.Y) && (r.Category == catalog.CategoryEvil || r.Category == catalog.CategoryDouble) {
					inRoom = true
				}
			}
			if !inRoom {
				t.Fatalf("seed %d: monster at %d,%d outside any monster room", s, m.X, m.Y)
			}
		}
		// L4 has exactly one secret room and each holds one chest.
		if len(pop.Chests) != 1 {
			t.Fatalf("seed %d: %d chests, want 1", s, len(pop.Chests))
		}
		if !slices.Contains(GoldAmounts, strconv.Itoa(pop.Chests[0].Gold)) {
			t.Fatalf("seed %d: gold %d not in pool", s, pop.Chests[0].Gold)
		}
	}
}

func TestPopulateRejectsMalformedTokens(t *testing.T) {
	g := newTestGenerator(t)
	res := generate(t, g, []string{"L1"}, 1)
	_, err := g.Populate(context.Background(), res, testClasses, seed.Replay([]string{"many"}), seed.Replay(nil))
	if err == nil {
		t.Fatal("expected error for non-numeric monster count")
	}
	if _, _, err := parseCellKey("3-4"); err == nil {
		t.Fatal("expected error for malformed cell key")
	}
	if x, y, err := parseCellKey("11:7"); err != nil || x != 11 || y != 7 {
		t.Fatalf("parseCellKey = %d,%d,%v", x, y, err)
	}
}
