package game

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"spellcrawl/assets"
	"spellcrawl/internal/catalog"
	"spellcrawl/internal/component"
	"spellcrawl/internal/config"
	"spellcrawl/internal/ecs"
	"spellcrawl/internal/factory"
	"spellcrawl/internal/gamemap"
	"spellcrawl/internal/logger"
	"spellcrawl/internal/save"
	"spellcrawl/internal/seed"
	"spellcrawl/internal/telemetry"
)

func newTestSession(t *testing.T, rngSeed int64) *Session {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}
	return NewSession(config.Default(), cat, logger.Discard(),
		WithRand(rand.New(rand.NewSource(rngSeed))),
		WithTracer(telemetry.NoopTracer()),
	)
}

func loadedSession(t *testing.T, rngSeed int64, level int) *Session {
	t.Helper()
	s := newTestSession(t, rngSeed)
	if err := s.LoadLevel(context.Background(), level, nil); err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	return s
}

// clearMonsters removes every generated monster so a test can place its own.
func clearMonsters(s *Session) {
	w := s.World()
	for _, id := range w.Query(component.CActor) {
		if w.Get(id, component.CActor).(component.Actor).Kind == component.KindMonster {
			w.DestroyEntity(id)
		}
	}
}

func playerPos(s *Session) component.Position {
	return s.World().Get(s.Player(), component.CPosition).(component.Position)
}

func count(w *ecs.World, types ...ecs.ComponentType) int {
	return len(w.Query(types...))
}

func TestLoadLevelSpawnsFromMarkers(t *testing.T) {
	s := loadedSession(t, 1, 1)
	w, grid := s.World(), s.Grid()

	for _, g := range []gamemap.Glyph{gamemap.GlyphStart, gamemap.GlyphEnd, gamemap.GlyphBox, gamemap.GlyphChest, gamemap.GlyphTorch} {
		if n := len(grid.Find(g)); n != 0 {
			t.Errorf("%d %q markers left on the grid", n, rune(g))
		}
	}
	want := factory.Center(s.start)
	if p := playerPos(s); p != want {
		t.Errorf("player at %+v; want start centre %+v", p, want)
	}
	if n := count(w, component.CExit); n != 1 {
		t.Errorf("%d exits; want 1", n)
	}
	if n := count(w, component.CDoor); n != len(s.result.Doors) {
		t.Errorf("%d doors; want %d", n, len(s.result.Doors))
	}
	if s.Level() != 1 || s.PlayerDead() || s.ExitReached() {
		t.Errorf("fresh level state: level=%d dead=%v exit=%v", s.Level(), s.PlayerDead(), s.ExitReached())
	}
}

func TestRecordRestoresLevel(t *testing.T) {
	ctx := context.Background()
	s := loadedSession(t, 2, 3)
	s.Recruit("Pip")
	for i := 0; i < 10; i++ {
		s.Tick(Intents{MoveX: 1})
	}
	rec := s.Record()
	if len(rec.Companions) != 1 || rec.Companions[0].Name != "Pip" {
		t.Fatalf("record companions = %+v", rec.Companions)
	}

	restored := newTestSession(t, 99)
	if err := restored.LoadLevel(ctx, 1, rec); err != nil {
		t.Fatalf("LoadLevel from record: %v", err)
	}
	if restored.Level() != 3 {
		t.Errorf("level = %d; want 3", restored.Level())
	}
	if !restored.Grid().Equal(s.Grid()) {
		t.Errorf("restored grid differs:\n%s\nwant\n%s", restored.Grid(), s.Grid())
	}
	if got, want := playerPos(restored), playerPos(s); got != want {
		t.Errorf("player at %+v; want %+v", got, want)
	}
	if got := restored.Record(); got.Player != rec.Player || len(got.Companions) != 1 {
		t.Errorf("re-recorded state = %+v; want %+v", got, rec)
	}
	if a, b := count(s.World(), component.CChest), count(restored.World(), component.CChest); a != b {
		t.Errorf("chests: %d vs %d", a, b)
	}
}

func TestLoadLevelFailureKeepsCurrentLevel(t *testing.T) {
	s := loadedSession(t, 3, 1)
	before := s.Grid()
	rec := s.Record()
	rec.Generation = rec.Generation[:3]

	err := s.LoadLevel(context.Background(), 1, rec)
	if !errors.Is(err, seed.ErrSequenceExhausted) {
		t.Fatalf("err = %v; want ErrSequenceExhausted", err)
	}
	if s.Grid() != before {
		t.Error("failed load replaced the current grid")
	}
}

func TestUnknownMonsterClassKeepsCurrentLevel(t *testing.T) {
	var (
		s   *Session
		rec *save.Record
	)
	for rngSeed := int64(1); rngSeed <= 30 && rec == nil; rngSeed++ {
		s = loadedSession(t, rngSeed, 1)
		r := s.Record()
		for i, tok := range r.Monsters {
			if _, ok := assets.Monster(tok); ok {
				r.Monsters[i] = "dragon"
				rec = r
				break
			}
		}
	}
	if rec == nil {
		t.Fatal("no seed produced a monster to rename")
	}
	before, player := s.Grid(), s.Player()

	err := s.LoadLevel(context.Background(), 1, rec)
	if !errors.Is(err, seed.ErrUnexpectedToken) {
		t.Fatalf("err = %v; want ErrUnexpectedToken", err)
	}
	if s.Grid() != before || s.Player() != player {
		t.Error("failed load replaced the current level")
	}
	if !s.World().Has(s.Player(), component.CPosition) || s.PlayerDead() {
		t.Error("player lost after a failed load")
	}
}

func TestHireAlly(t *testing.T) {
	tests := []struct {
		name     string
		gold     int
		allies   int
		wantAlly int
		wantGold int
		wantSaid string
	}{
		{"paid", assets.CompanionCost + 5, 0, 1, 5, "Pip joins you."},
		{"too poor", assets.CompanionCost - 1, 0, 0, assets.CompanionCost - 1, "An ally costs 25 gold."},
		{"party full", 100, assets.MaxCompanions, assets.MaxCompanions, 100, "You cannot lead any more allies."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loadedSession(t, 12, 1)
			clearMonsters(s)
			for i := 0; i < tt.allies; i++ {
				s.Recruit("Old")
			}
			s.World().Add(s.Player(), component.Purse{Gold: tt.gold})

			s.Tick(Intents{Recruit: true})
			snap := s.Snapshot()
			if snap.Player.Companions != tt.wantAlly {
				t.Errorf("allies = %d; want %d", snap.Player.Companions, tt.wantAlly)
			}
			if snap.Player.Gold != tt.wantGold {
				t.Errorf("gold = %d; want %d", snap.Player.Gold, tt.wantGold)
			}
			if last := snap.Messages[len(snap.Messages)-1]; last != tt.wantSaid {
				t.Errorf("last message = %q; want %q", last, tt.wantSaid)
			}
			if rec := s.Record(); len(rec.Companions) != tt.wantAlly {
				t.Errorf("record holds %d companions; want %d", len(rec.Companions), tt.wantAlly)
			}
		})
	}
}

func TestMissingActorError(t *testing.T) {
	var err error = &MissingActorError{Level: 2, Form: "L3", Marker: gamemap.GlyphStart}
	var mae *MissingActorError
	if !errors.As(err, &mae) || mae.Marker != gamemap.GlyphStart {
		t.Fatalf("errors.As failed for %v", err)
	}
	if got := err.Error(); got != `level 2 (form L3): no 'S' marker` {
		t.Errorf("Error() = %q", got)
	}
}

func TestCastKillsMonsterAndCountsIt(t *testing.T) {
	s := loadedSession(t, 4, 1)
	clearMonsters(s)
	p := playerPos(s)
	class, _ := assets.Monster("slime")
	m := factory.NewMonster(s.World(), class, p.X+3, p.Y)
	h := s.World().Get(m, component.CHealth).(component.Health)
	h.Current = 1
	s.World().Add(m, h)

	events := s.Tick(Intents{Cast: &CastIntent{Spell: component.SpellLightning, X: p.X + 4, Y: p.Y}})
	if len(events) != 1 || events[0].Target != m || !events[0].Killed {
		t.Fatalf("events = %+v; want one killing hit on the slime", events)
	}
	stats := s.Stats()
	if stats.Kills["slime"] != 1 || stats.DamageDealt != 1 {
		t.Errorf("stats = %+v", stats)
	}
	mana := s.World().Get(s.Player(), component.CMana).(component.Mana)
	if want := assets.PlayerMana - assets.Spell(component.SpellLightning).ManaCost; mana.Current != want {
		t.Errorf("mana = %d; want %d", mana.Current, want)
	}
	if snap := s.Snapshot(); len(snap.Floaters) != 1 || snap.Floaters[0].Amount != 1 {
		t.Errorf("floaters = %+v", snap.Floaters)
	}
}

func TestCastOnPlayerIsIgnored(t *testing.T) {
	s := loadedSession(t, 4, 1)
	p := playerPos(s)
	s.Tick(Intents{Cast: &CastIntent{Spell: component.SpellFireball, X: p.X, Y: p.Y}})
	if n := count(s.World(), component.CProjectile); n != 0 {
		t.Errorf("%d projectiles; want none", n)
	}
}

func TestManaRegenerates(t *testing.T) {
	s := loadedSession(t, 5, 1)
	clearMonsters(s)
	s.World().Add(s.Player(), component.Mana{Current: 10, Full: assets.PlayerMana})
	for i := 0; i < assets.ManaRegenTicks*3; i++ {
		s.Tick(Intents{})
	}
	if m := s.World().Get(s.Player(), component.CMana).(component.Mana); m.Current != 13 {
		t.Errorf("mana = %d; want 13", m.Current)
	}
}

func TestDashMovesFasterThanWalking(t *testing.T) {
	walk := loadedSession(t, 6, 1)
	dash := loadedSession(t, 6, 1)
	clearMonsters(walk)
	clearMonsters(dash)
	start := playerPos(walk)

	walk.Tick(Intents{MoveX: 1})
	dash.Tick(Intents{MoveX: 1, Dash: true})
	walked := playerPos(walk).X - start.X
	dashed := playerPos(dash).X - start.X
	if walked <= 0 || dashed <= walked*2 {
		t.Errorf("walked %v, dashed %v; want dash about %vx faster", walked, dashed, DashFactor)
	}
	if !dash.World().Has(dash.Player(), component.CDash) {
		t.Error("dash should last more than one tick")
	}
}

func TestExitCarriesPlayerToNextLevel(t *testing.T) {
	s := loadedSession(t, 7, 1)
	clearMonsters(s)
	w := s.World()
	w.Add(s.Player(), component.Health{Current: 33, Full: assets.PlayerHealth, LastHit: -1})
	w.Add(s.Player(), component.Purse{Gold: 40})
	exit := w.Query(component.CExit)[0]
	w.Add(s.Player(), w.Get(exit, component.CPosition).(component.Position))

	s.Tick(Intents{})
	if !s.ExitReached() {
		t.Fatal("standing on the exit should reach it")
	}
	if err := s.LoadLevel(context.Background(), s.Level()+1, nil); err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	if s.Level() != 2 || s.ExitReached() {
		t.Errorf("level = %d exit = %v after descending", s.Level(), s.ExitReached())
	}
	rec := s.Record()
	if rec.Player.Health != 33 || rec.Player.Money != 40 {
		t.Errorf("carried state = %+v; want health 33, gold 40", rec.Player)
	}
	if rec.Player.YOffset != 0 {
		t.Errorf("fresh level should place the player on the start marker, offset %v", rec.Player.YOffset)
	}
}

func TestPlayerDeath(t *testing.T) {
	s := loadedSession(t, 8, 1)
	clearMonsters(s)
	p := playerPos(s)
	class, _ := assets.Monster("golem")
	factory.NewMonster(s.World(), class, p.X+0.8, p.Y)
	s.World().Add(s.Player(), component.Health{Current: 1, Full: assets.PlayerHealth, LastHit: -1})

	s.Tick(Intents{})
	if !s.PlayerDead() {
		t.Fatal("player should die from the golem's hit")
	}
	if !s.Snapshot().Player.Dead {
		t.Error("snapshot should report the player dead")
	}
	if s.Stats().DamageTaken != 1 {
		t.Errorf("damage taken = %d; want 1", s.Stats().DamageTaken)
	}
}

func TestSnapshotSortedBackToFront(t *testing.T) {
	s := loadedSession(t, 9, 2)
	snap := s.Snapshot()
	if len(snap.Sprites) == 0 {
		t.Fatal("no sprites")
	}
	for i := 1; i < len(snap.Sprites); i++ {
		if snap.Sprites[i].Order < snap.Sprites[i-1].Order {
			t.Fatalf("sprite %d drawn before a lower layer", i)
		}
	}
	if last := snap.Sprites[len(snap.Sprites)-1]; last.Glyph != assets.GlyphPlayer {
		t.Errorf("top sprite = %q; want the player", last.Glyph)
	}
	if snap.LevelName != assets.LevelName(2) || snap.Player.FullMana != assets.PlayerMana {
		t.Errorf("snapshot header = %+v", snap)
	}
}
