// Package generate builds dungeon levels by stitching room templates into a
// tile grid according to a level form, then resolving door placeholders.
// Every random decision is drawn through a seed.Sequence so a recorded
// sequence replays to an identical grid.
package generate

import (
	"context"
	"fmt"
	"log/slog"

	"spellcrawl/internal/catalog"
	"spellcrawl/internal/gamemap"
	"spellcrawl/internal/seed"
	"spellcrawl/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Chances are the percent thresholds of the recorded boolean draws.
type Chances struct {
	Swap   int `yaml:"swap" env:"SWAP"`     // start and end trade places
	Double int `yaml:"double" env:"DOUBLE"` // two adjacent rooms merge
	Short  int `yaml:"short" env:"SHORT"`   // a door placeholder opens
	Long   int `yaml:"long" env:"LONG"`     // an opening widens to two tiles
}

// DefaultChances are the stock generation odds.
func DefaultChances() Chances {
	return Chances{Swap: 50, Double: 15, Short: 45, Long: 35}
}

// PlacedRoom records where a template landed in the stitched grid.
type PlacedRoom struct {
	Key      string
	Category catalog.Category
	X, Y     int // top-left tile
	W, H     int
}

// Contains reports whether tile (x, y) lies inside the room.
func (r PlacedRoom) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Result is a finished level.
type Result struct {
	Form  string
	Grid  *gamemap.Grid
	Seed  *seed.Sequence
	Rooms []PlacedRoom
	Doors []gamemap.Point // carved opening cells that get a closed door
}

// Generator produces levels from a catalog.
type Generator struct {
	catalog *catalog.Catalog
	chances Chances
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Option configures a Generator.
type Option func(*Generator)

// WithChances overrides the default generation odds.
func WithChances(c Chances) Option {
	return func(g *Generator) { g.chances = c }
}

// WithLogger sets the logger used for generation summaries.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithTracer sets the tracer used for generation spans.
func WithTracer(t trace.Tracer) Option {
	return func(g *Generator) { g.tracer = t }
}

// New creates a Generator over cat.
func New(cat *catalog.Catalog, opts ...Option) *Generator {
	g := &Generator{
		catalog: cat,
		chances: DefaultChances(),
		logger:  slog.Default(),
		tracer:  telemetry.Tracer("generate"),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Catalog returns the catalog the generator draws from.
func (g *Generator) Catalog() *catalog.Catalog { return g.catalog }

// Generate builds one level. forms is the pool of form keys to draw from;
// seq is either a fresh generating sequence or a recorded one to replay.
// On error no grid is returned: a short or corrupt replay sequence means the
// saved level cannot be rebuilt.
func (g *Generator) Generate(ctx context.Context, forms []string, seq *seed.Sequence) (*Result, error) {
	_, span := g.tracer.Start(ctx, "dungeon.generate")
	defer span.End()

	key, err := seq.NextChoice(forms)
	if err != nil {
		return nil, fmt.Errorf("choose form: %w", err)
	}
	form, ok := g.catalog.Form(key)
	if !ok {
		return nil, fmt.Errorf("choose form: %w: unknown form %q", seed.ErrUnexpectedToken, key)
	}
	swap, err := seq.NextBoolean(g.chances.Swap)
	if err != nil {
		return nil, fmt.Errorf("start/end swap: %w", err)
	}

	rooms, err := g.resolveSlots(form, swap, seq)
	if err != nil {
		return nil, err
	}
	grid := g.stitch(rooms)
	resolveConnective(grid)
	doors, err := resolveDoors(grid, seq, g.chances)
	if err != nil {
		return nil, fmt.Errorf("resolve doors: %w", err)
	}

	span.SetAttributes(
		attribute.String("form", key),
		attribute.Bool("replay", seq.Replaying()),
		attribute.Int("tokens", seq.Len()),
		attribute.Int("rooms", len(rooms)),
		attribute.Int("width", grid.Width),
		attribute.Int("height", grid.Height),
	)
	g.logger.Debug("dungeon generated",
		"form", key,
		"replay", seq.Replaying(),
		"tokens", seq.Len(),
		"rooms", len(rooms),
		"size", fmt.Sprintf("%dx%d", grid.Width, grid.Height),
	)

	return &Result{Form: key, Grid: grid, Seed: seq, Rooms: rooms, Doors: doors}, nil
}
