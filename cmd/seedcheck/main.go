// Command seedcheck verifies that recorded seeds rebuild identical levels.
//
// With file arguments each file is read as a save record and its level is
// replayed twice. Without arguments it generates -runs fresh levels and
// replays each from its own recorded tokens.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"slices"

	"spellcrawl/assets"
	"spellcrawl/internal/catalog"
	"spellcrawl/internal/generate"
	"spellcrawl/internal/logger"
	"spellcrawl/internal/save"
	"spellcrawl/internal/seed"
	"spellcrawl/internal/telemetry"
)

type checker struct {
	gen    *generate.Generator
	strict bool
	out    io.Writer
	print  bool
}

func main() {
	runs := flag.Int("runs", 100, "fresh levels to generate when no files are given")
	level := flag.Int("level", 0, "level to generate (0 cycles through every level form)")
	rngSeed := flag.Int64("seed", 1, "random seed for fresh levels")
	strict := flag.Bool("strict", false, "reject replayed tokens outside the offered pool")
	verbose := flag.Bool("v", false, "print each replayed grid")
	flag.Parse()

	lg, closeLog := logger.New(logger.Config{Level: "warn", ConsoleEnabled: true, ConsoleFormat: "text"}, os.Stderr)
	defer closeLog()

	cat, err := catalog.Default()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	c := &checker{
		gen: generate.New(cat,
			generate.WithLogger(lg),
			generate.WithTracer(telemetry.NoopTracer()),
		),
		strict: *strict,
		out:    os.Stdout,
		print:  *verbose,
	}

	ctx := context.Background()
	var failures int
	if flag.NArg() > 0 {
		for _, path := range flag.Args() {
			if err := c.checkFile(ctx, path); err != nil {
				lg.Error("replay mismatch", "file", path, "error", err)
				failures++
			}
		}
	} else {
		rng := rand.New(rand.NewSource(*rngSeed))
		failures = c.checkFresh(ctx, lg, rng, *runs, *level)
	}

	if failures > 0 {
		fmt.Fprintf(os.Stderr, "%d failed\n", failures)
		os.Exit(1)
	}
	fmt.Fprintln(c.out, "ok")
}

func (c *checker) checkFresh(ctx context.Context, lg *slog.Logger, rng *rand.Rand, runs, level int) int {
	cat := c.gen.Catalog()
	var failures int
	for i := range runs {
		lvl := level
		if lvl == 0 {
			lvl = i%len(cat.FormKeys()) + 1
		}
		rec, err := c.fresh(ctx, cat.FormsForLevel(lvl), lvl, rng)
		if err != nil {
			lg.Error("generate", "run", i, "level", lvl, "error", err)
			failures++
			continue
		}
		if err := c.checkRecord(ctx, rec); err != nil {
			lg.Error("replay mismatch", "run", i, "level", lvl, "seed", rec.Generation, "error", err)
			failures++
		}
	}
	return failures
}

// fresh draws a level and its population and returns the streams as a record.
func (c *checker) fresh(ctx context.Context, forms []string, level int, rng *rand.Rand) (*save.Record, error) {
	res, err := c.gen.Generate(ctx, forms, seed.New(rng))
	if err != nil {
		return nil, err
	}
	monsters, loot := seed.New(rng), seed.New(rng)
	if _, err := c.gen.Populate(ctx, res, assets.MonsterKeys(), monsters, loot); err != nil {
		return nil, err
	}
	return &save.Record{
		Generation: res.Seed.Tokens(),
		Monsters:   monsters.Tokens(),
		Loot:       loot.Tokens(),
		Player:     save.Player{Level: level},
	}, nil
}

func (c *checker) checkFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	rec, err := save.Parse(string(data))
	if err != nil {
		return err
	}
	return c.checkRecord(ctx, rec)
}

type replayed struct {
	res *generate.Result
	pop *generate.Population
}

// checkRecord replays rec twice and compares both builds. Every token of
// every stream must be consumed.
func (c *checker) checkRecord(ctx context.Context, rec *save.Record) error {
	forms := c.gen.Catalog().FormsForLevel(max(rec.Player.Level, 1))
	var builds [2]replayed
	for i := range builds {
		b, err := c.replay(ctx, forms, rec)
		if err != nil {
			return err
		}
		builds[i] = b
	}
	a, b := builds[0], builds[1]
	if !a.res.Grid.Equal(b.res.Grid) {
		return errors.New("grids differ")
	}
	if !slices.Equal(a.res.Doors, b.res.Doors) {
		return errors.New("door lists differ")
	}
	if !slices.Equal(a.pop.Monsters, b.pop.Monsters) || !slices.Equal(a.pop.Chests, b.pop.Chests) {
		return errors.New("populations differ")
	}
	if c.print {
		fmt.Fprintf(c.out, "form %s, %d doors, %d monsters, %d chests\n%s\n\n",
			a.res.Form, len(a.res.Doors), len(a.pop.Monsters), len(a.pop.Chests), a.res.Grid)
	}
	return nil
}

func (c *checker) replay(ctx context.Context, forms []string, rec *save.Record) (replayed, error) {
	var opts []seed.Option
	if c.strict {
		opts = append(opts, seed.WithStrictPools())
	}
	layout := seed.Replay(rec.Generation, opts...)
	monsters := seed.Replay(rec.Monsters, opts...)
	loot := seed.Replay(rec.Loot, opts...)

	res, err := c.gen.Generate(ctx, forms, layout)
	if err != nil {
		return replayed{}, fmt.Errorf("layout: %w", err)
	}
	pop, err := c.gen.Populate(ctx, res, assets.MonsterKeys(), monsters, loot)
	if err != nil {
		return replayed{}, fmt.Errorf("population: %w", err)
	}
	for name, s := range map[string]*seed.Sequence{"layout": layout, "monster": monsters, "loot": loot} {
		if n := s.Remaining(); n != 0 {
			return replayed{}, fmt.Errorf("%s stream has %d unused tokens", name, n)
		}
	}
	return replayed{res: res, pop: pop}, nil
}
