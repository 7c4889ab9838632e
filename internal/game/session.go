// Package game runs one play session: it builds levels from the generator,
// spawns their entities and advances the simulation a tick at a time.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"spellcrawl/assets"
	"spellcrawl/internal/catalog"
	"spellcrawl/internal/component"
	"spellcrawl/internal/config"
	"spellcrawl/internal/ecs"
	"spellcrawl/internal/factory"
	"spellcrawl/internal/gamemap"
	"spellcrawl/internal/generate"
	"spellcrawl/internal/save"
	"spellcrawl/internal/seed"
	"spellcrawl/internal/system"
	"spellcrawl/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Dash tuning.
const (
	DashTicks  = 8
	DashFactor = 3.0 // dash speed as a multiple of walking speed
)

const maxMessages = 50

// MissingActorError is returned when a generated level lacks a marker the
// session needs to place an actor.
type MissingActorError struct {
	Level  int
	Form   string
	Marker gamemap.Glyph
}

func (e *MissingActorError) Error() string {
	return fmt.Sprintf("level %d (form %s): no %q marker", e.Level, e.Form, rune(e.Marker))
}

// Stats are per-run counters shown when the run ends.
type Stats struct {
	DamageDealt int
	DamageTaken int
	Kills       map[string]int // monster class -> count
	Gold        int
}

// Session owns the world and grid of the level being played.
type Session struct {
	cfg    *config.Config
	gen    *generate.Generator
	logger *slog.Logger
	tracer trace.Tracer
	rng    *rand.Rand // combat and AI randomness, never recorded

	world    *ecs.World
	grid     *gamemap.Grid
	result   *generate.Result
	monsters *seed.Sequence
	loot     *seed.Sequence
	level    int
	now      int64
	player   ecs.EntityID
	start    gamemap.Point
	exited   bool
	hired    int

	floaters []floater
	messages []string
	stats    Stats
}

type floater struct {
	x, y   float64
	amount int
	age    int
}

const floaterTicks = 40

// Option configures a Session.
type Option func(*Session)

// WithRand seeds the session. Fresh levels draw their seed streams from it
// as well, so a fixed source makes a whole run reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithTracer overrides the session tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Session) { s.tracer = t }
}

// NewSession creates a session with no level loaded.
func NewSession(cfg *config.Config, cat *catalog.Catalog, logger *slog.Logger, opts ...Option) *Session {
	s := &Session{
		cfg:    cfg,
		logger: logger,
		tracer: telemetry.Tracer("game"),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		stats:  Stats{Kills: make(map[string]int)},
	}
	for _, o := range opts {
		o(s)
	}
	s.gen = generate.New(cat,
		generate.WithChances(cfg.Generation),
		generate.WithLogger(logger),
		generate.WithTracer(s.tracer),
	)
	return s
}

// LoadLevel builds level and replaces the current world with it. With a
// record the dungeon and its population are replayed from the record's
// streams and the player and companions are restored from it; otherwise
// fresh streams are drawn and the player carries over from the previous
// level, if any.
func (s *Session) LoadLevel(ctx context.Context, level int, rec *save.Record) (err error) {
	ctx, span := s.tracer.Start(ctx, "session.load_level")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	var carry *save.Record
	layout, monsters, loot := s.freshStreams()
	if rec != nil {
		level = rec.Player.Level
		layout = seed.Replay(rec.Generation)
		monsters = seed.Replay(rec.Monsters)
		loot = seed.Replay(rec.Loot)
		carry = rec
	} else if s.world != nil {
		carry = s.Record()
	}
	level = max(level, 1)

	res, err := s.gen.Generate(ctx, s.gen.Catalog().FormsForLevel(level), layout)
	if err != nil {
		return fmt.Errorf("load level %d: %w", level, err)
	}
	pop, err := s.gen.Populate(ctx, res, assets.MonsterKeys(), monsters, loot)
	if err != nil {
		return fmt.Errorf("load level %d: %w", level, err)
	}

	starts := res.Grid.Find(gamemap.GlyphStart)
	if len(starts) == 0 {
		return &MissingActorError{Level: level, Form: res.Form, Marker: gamemap.GlyphStart}
	}
	if len(res.Grid.Find(gamemap.GlyphEnd)) == 0 {
		return &MissingActorError{Level: level, Form: res.Form, Marker: gamemap.GlyphEnd}
	}
	// Lenient replay passes any class token through, so resolve them all
	// before the current level is replaced.
	classes := make([]assets.MonsterClass, len(pop.Monsters))
	for i, m := range pop.Monsters {
		class, ok := assets.Monster(m.Class)
		if !ok {
			return fmt.Errorf("load level %d: %w: unknown monster class %q", level, seed.ErrUnexpectedToken, m.Class)
		}
		classes[i] = class
	}

	s.world = ecs.NewWorld()
	s.grid = res.Grid
	s.result = res
	s.monsters, s.loot = monsters, loot
	s.level = level
	s.start = starts[0]
	s.exited = false
	s.floaters = nil

	s.spawnMarkers()
	for _, d := range res.Doors {
		factory.NewDoor(s.world, d)
	}
	for _, c := range pop.Chests {
		factory.NewChest(s.world, gamemap.Point{X: c.X, Y: c.Y}, c.Gold)
	}
	for i, m := range pop.Monsters {
		c := factory.Center(gamemap.Point{X: m.X, Y: m.Y})
		factory.NewMonster(s.world, classes[i], c.X, c.Y)
	}
	s.spawnPlayer(carry, rec != nil)

	span.SetAttributes(
		attribute.Int("level", level),
		attribute.String("form", res.Form),
		attribute.Bool("restored", rec != nil),
		attribute.Int("monsters", len(pop.Monsters)),
		attribute.Int("chests", len(pop.Chests)),
	)
	s.logger.Info("level loaded",
		"level", level,
		"form", res.Form,
		"restored", rec != nil,
		"monsters", len(pop.Monsters),
		"chests", len(pop.Chests),
		"tokens", res.Seed.Len(),
	)
	s.addMessage(fmt.Sprintf("You enter %s.", assets.LevelName(level)))
	s.addMessage(assets.LoreFor(level, res.Seed.Len()))
	return nil
}

func (s *Session) freshStreams() (layout, monsters, loot *seed.Sequence) {
	sub := func() *seed.Sequence { return seed.New(rand.New(rand.NewSource(s.rng.Int63()))) }
	return sub(), sub(), sub()
}

// spawnMarkers turns furniture and exit markers into entities and clears
// them from the grid, leaving floor.
func (s *Session) spawnMarkers() {
	for _, p := range s.grid.Find(gamemap.GlyphEnd) {
		factory.NewExit(s.world, p)
	}
	for _, p := range s.grid.Find(gamemap.GlyphBox) {
		factory.NewBox(s.world, p)
	}
	for _, p := range s.grid.Find(gamemap.GlyphTorch) {
		factory.NewTorch(s.world, p)
	}
	for _, g := range []gamemap.Glyph{gamemap.GlyphStart, gamemap.GlyphEnd, gamemap.GlyphBox, gamemap.GlyphTorch, gamemap.GlyphChest} {
		for _, p := range s.grid.Find(g) {
			s.grid.Set(p.X, p.Y, gamemap.GlyphFloor)
		}
	}
}

// spawnPlayer places the player on the start marker, or where a restored
// record says, and brings along carried state and companions.
func (s *Session) spawnPlayer(carry *save.Record, restored bool) {
	at := factory.Center(s.start)
	x, y := at.X, at.Y
	if restored {
		x, y = carry.Player.X, carry.Player.Y
	}
	s.player = factory.NewPlayer(s.world, x, y)
	if carry == nil {
		return
	}

	p := carry.Player
	h := s.world.Get(s.player, component.CHealth).(component.Health)
	h.Current = min(max(p.Health, 1), h.Full)
	s.world.Add(s.player, h)
	m := s.world.Get(s.player, component.CMana).(component.Mana)
	m.Current = min(max(p.Mana, 0), m.Full)
	s.world.Add(s.player, m)
	s.world.Add(s.player, component.Purse{Gold: p.Money})

	for i, c := range carry.Companions {
		cx, cy := c.X, c.Y
		if !restored {
			cx, cy = s.besidePlayer(i)
		}
		factory.NewCompanion(s.world, cx, cy, c.Name, c.Health, c.Mana)
	}
}

// besidePlayer returns the centre of the i-th free floor cell around the
// start marker, falling back to the marker itself.
func (s *Session) besidePlayer(i int) (float64, float64) {
	var free []gamemap.Point
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			p := gamemap.Point{X: s.start.X + dx, Y: s.start.Y + dy}
			if (dx != 0 || dy != 0) && s.grid.IsFloor(p.X, p.Y) {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		c := factory.Center(s.start)
		return c.X, c.Y
	}
	c := factory.Center(free[i%len(free)])
	return c.X, c.Y
}

// Recruit adds a companion next to the player without charging gold.
func (s *Session) Recruit(name string) ecs.EntityID {
	pos := s.world.Get(s.player, component.CPosition).(component.Position)
	x, y := pos.X, pos.Y
	for _, d := range [][2]float64{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		cx, cy := int(math.Floor(pos.X+d[0])), int(math.Floor(pos.Y+d[1]))
		if s.grid.IsFloor(cx, cy) {
			x, y = float64(cx)+0.5, float64(cy)+0.5
			break
		}
	}
	return factory.NewCompanion(s.world, x, y, name, assets.CompanionHealth, 0)
}

// World exposes the entity registry, for tests and tools.
func (s *Session) World() *ecs.World { return s.world }

// Grid returns the current level's tiles.
func (s *Session) Grid() *gamemap.Grid { return s.grid }

// Level returns the current dungeon level.
func (s *Session) Level() int { return s.level }

// Player returns the player entity.
func (s *Session) Player() ecs.EntityID { return s.player }

// Now returns the current tick.
func (s *Session) Now() int64 { return s.now }

// ExitReached reports whether the player has stepped onto the exit.
func (s *Session) ExitReached() bool { return s.exited }

// PlayerDead reports whether the player has died.
func (s *Session) PlayerDead() bool { return !system.Living(s.world, s.player) }

// Stats returns the run counters.
func (s *Session) Stats() Stats { return s.stats }

// Record captures the current level's streams and the live actors.
func (s *Session) Record() *save.Record {
	rec := &save.Record{
		Generation: s.result.Seed.Tokens(),
		Monsters:   s.monsters.Tokens(),
		Loot:       s.loot.Tokens(),
		Player:     save.Player{Level: s.level},
	}
	if c := s.world.Get(s.player, component.CPosition); c != nil {
		pos := c.(component.Position)
		rec.Player.X, rec.Player.Y = pos.X, pos.Y
		rec.Player.YOffset = pos.Y - factory.Center(s.start).Y
	}
	if c := s.world.Get(s.player, component.CHealth); c != nil {
		rec.Player.Health = c.(component.Health).Current
	}
	if c := s.world.Get(s.player, component.CMana); c != nil {
		rec.Player.Mana = c.(component.Mana).Current
	}
	if c := s.world.Get(s.player, component.CPurse); c != nil {
		rec.Player.Money = c.(component.Purse).Gold
	}
	for _, id := range s.companions() {
		pos := s.world.Get(id, component.CPosition).(component.Position)
		comp := save.Companion{
			X:      pos.X,
			Y:      pos.Y,
			Health: s.world.Get(id, component.CHealth).(component.Health).Current,
			Name:   s.world.Get(id, component.CActor).(component.Actor).Name,
		}
		if c := s.world.Get(id, component.CMana); c != nil {
			comp.Mana = c.(component.Mana).Current
		}
		rec.Companions = append(rec.Companions, comp)
	}
	return rec
}

func (s *Session) companions() []ecs.EntityID {
	var out []ecs.EntityID
	for _, id := range s.world.Query(component.CActor, component.CPosition) {
		a := s.world.Get(id, component.CActor).(component.Actor)
		if a.Kind == component.KindCompanion && system.Living(s.world, id) {
			out = append(out, id)
		}
	}
	return out
}

func (s *Session) addMessage(msg string) {
	s.messages = append(s.messages, msg)
	if len(s.messages) > maxMessages {
		s.messages = s.messages[len(s.messages)-maxMessages:]
	}
}
