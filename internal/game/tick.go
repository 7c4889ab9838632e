package game

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"spellcrawl/assets"
	"spellcrawl/internal/component"
	"spellcrawl/internal/ecs"
	"spellcrawl/internal/render"
	"spellcrawl/internal/system"
)

// CastIntent aims a spell at a point in tile units.
type CastIntent struct {
	Spell component.SpellKind
	X, Y  float64
}

// Intents are the player's requests for one tick.
type Intents struct {
	MoveX, MoveY float64 // direction; zero stands still
	Dash         bool
	Cast         *CastIntent
	Recruit      bool // hire an ally for CompanionCost gold
}

// Tick advances the simulation one step: player intents, AI, status
// effects, movement, projectiles, deaths, then deferred removals. It
// returns every hit that landed this tick.
func (s *Session) Tick(in Intents) []system.DamageEvent {
	s.now++
	w := s.world

	if system.Living(w, s.player) {
		s.applyIntents(in)
	}
	var events []system.DamageEvent
	events = append(events, system.UpdateAI(w, s.grid, s.rng, s.now)...)
	events = append(events, system.TickStatus(w, s.now)...)
	s.regenMana()
	system.MoveActors(w, s.grid)
	events = append(events, system.TickProjectiles(w, s.grid, s.rng, s.now)...)
	system.TickDying(w)

	s.record(events)
	s.checkExit()
	w.Commit()
	s.ageFloaters()
	return events
}

func (s *Session) applyIntents(in Intents) {
	w := s.world
	if in.Recruit {
		s.hire()
	}
	if w.Has(s.player, component.CDash) {
		return
	}
	system.Steer(w, s.player, in.MoveX, in.MoveY)
	if in.Dash && (in.MoveX != 0 || in.MoveY != 0) {
		l := math.Hypot(in.MoveX, in.MoveY)
		speed := system.EffectiveSpeed(w, s.player) * DashFactor
		w.Add(s.player, component.Dash{DX: in.MoveX / l * speed, DY: in.MoveY / l * speed, Ticks: DashTicks})
	}
	if in.Cast != nil {
		pos := w.Get(s.player, component.CPosition).(component.Position)
		if in.Cast.X == pos.X && in.Cast.Y == pos.Y {
			return
		}
		if _, ok := system.CastSpell(w, s.player, in.Cast.Spell, in.Cast.X, in.Cast.Y); !ok {
			s.addMessage(fmt.Sprintf("Not enough mana for %s.", assets.Spell(in.Cast.Spell).Name))
		}
	}
}

// hire spends gold on a new ally next to the player.
func (s *Session) hire() {
	n := len(s.companions())
	if n >= assets.MaxCompanions {
		s.addMessage("You cannot lead any more allies.")
		return
	}
	var purse component.Purse
	if c := s.world.Get(s.player, component.CPurse); c != nil {
		purse = c.(component.Purse)
	}
	if purse.Gold < assets.CompanionCost {
		s.addMessage(fmt.Sprintf("An ally costs %d gold.", assets.CompanionCost))
		return
	}
	purse.Gold -= assets.CompanionCost
	s.world.Add(s.player, purse)
	name := assets.CompanionNames[s.hired%len(assets.CompanionNames)]
	s.hired++
	s.Recruit(name)
	s.addMessage(fmt.Sprintf("%s joins you.", name))
}

// regenMana restores one point of mana to every living caster each
// ManaRegenTicks ticks.
func (s *Session) regenMana() {
	if s.now%assets.ManaRegenTicks != 0 {
		return
	}
	for _, id := range s.world.Query(component.CMana) {
		if !system.Living(s.world, id) {
			continue
		}
		m := s.world.Get(id, component.CMana).(component.Mana)
		if m.Current < m.Full {
			m.Current++
			s.world.Add(id, m)
		}
	}
}

// record updates run stats and spawns damage numbers.
func (s *Session) record(events []system.DamageEvent) {
	for _, ev := range events {
		s.floaters = append(s.floaters, floater{x: ev.X, y: ev.Y, amount: ev.Amount})
		if ev.Target == s.player {
			s.stats.DamageTaken += ev.Amount
			if ev.Killed {
				s.addMessage("You die...")
			}
			continue
		}
		c := s.world.Get(ev.Target, component.CActor)
		if c == nil {
			continue
		}
		a := c.(component.Actor)
		if a.Kind != component.KindMonster {
			if ev.Killed {
				s.addMessage(fmt.Sprintf("%s falls.", a.Name))
			}
			continue
		}
		s.stats.DamageDealt += ev.Amount
		if ev.Killed {
			s.stats.Kills[a.Class]++
			s.addMessage(fmt.Sprintf("The %s is destroyed.", a.Name))
			if lore, ok := assets.MonsterLore[a.Class]; ok && s.stats.Kills[a.Class] == 1 {
				s.addMessage(lore)
			}
		}
	}
	if c := s.world.Get(s.player, component.CPurse); c != nil {
		s.stats.Gold = c.(component.Purse).Gold
	}
}

func (s *Session) checkExit() {
	if s.exited || !system.Living(s.world, s.player) {
		return
	}
	pos := s.world.Get(s.player, component.CPosition).(component.Position)
	for _, id := range s.world.Query(component.CExit, component.CPosition) {
		ep := s.world.Get(id, component.CPosition).(component.Position)
		if math.Abs(ep.X-pos.X) < 0.5 && math.Abs(ep.Y-pos.Y) < 0.5 {
			s.exited = true
			s.addMessage("You find the way down.")
			return
		}
	}
}

func (s *Session) ageFloaters() {
	kept := s.floaters[:0]
	for _, f := range s.floaters {
		f.age++
		if f.age < floaterTicks {
			kept = append(kept, f)
		}
	}
	s.floaters = kept
}

// Snapshot returns a drawable copy of the current state.
func (s *Session) Snapshot() render.Snapshot {
	w := s.world
	snap := render.Snapshot{
		Tick:      s.now,
		Level:     s.level,
		LevelName: assets.LevelName(s.level),
		Messages:  slices.Clone(s.messages),
	}

	type keyed struct {
		id ecs.EntityID
		sp render.Sprite
	}
	var sprites []keyed
	for _, id := range w.Query(component.CRenderable, component.CPosition) {
		pos := w.Get(id, component.CPosition).(component.Position)
		r := w.Get(id, component.CRenderable).(component.Renderable)
		sp := render.Sprite{X: pos.X, Y: pos.Y, Glyph: r.Glyph, FG: r.FGColor, Order: r.RenderOrder}
		if c := w.Get(id, component.CHealth); c != nil {
			h := c.(component.Health)
			sp.Health, sp.FullHealth = h.Current, h.Full
			sp.ShowHealth = system.HealthBarVisible(h, s.now)
			sp.Flash = h.Flash > 0
		}
		sprites = append(sprites, keyed{id, sp})
	}
	slices.SortStableFunc(sprites, func(a, b keyed) int {
		return cmp.Or(
			cmp.Compare(a.sp.Order, b.sp.Order),
			cmp.Compare(a.sp.Y, b.sp.Y),
			cmp.Compare(a.id, b.id),
		)
	})
	for _, k := range sprites {
		snap.Sprites = append(snap.Sprites, k.sp)
	}
	for _, f := range s.floaters {
		snap.Floaters = append(snap.Floaters, render.Floater{X: f.x, Y: f.y, Amount: f.amount, Age: f.age})
	}

	p := render.PlayerStatus{Dead: s.PlayerDead(), Companions: len(s.companions())}
	if c := w.Get(s.player, component.CPosition); c != nil {
		pos := c.(component.Position)
		p.X, p.Y = pos.X, pos.Y
	}
	if c := w.Get(s.player, component.CFacing); c != nil {
		p.FaceX, p.FaceY = c.(component.Facing).Dir.Delta()
	}
	if c := w.Get(s.player, component.CHealth); c != nil {
		h := c.(component.Health)
		p.Health, p.FullHealth = h.Current, h.Full
	}
	if c := w.Get(s.player, component.CMana); c != nil {
		m := c.(component.Mana)
		p.Mana, p.FullMana = m.Current, m.Full
	}
	if c := w.Get(s.player, component.CPurse); c != nil {
		p.Gold = c.(component.Purse).Gold
	}
	snap.Player = p
	return snap
}
