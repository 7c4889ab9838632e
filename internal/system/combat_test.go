package system

import (
	"math"
	"testing"

	"spellcrawl/internal/component"
	"spellcrawl/internal/ecs"
)

func TestApplyDamageClampsHealth(t *testing.T) {
	tests := []struct {
		name  string
		class string
		base  int
		elem  component.Element
	}{
		{"huge", "golem", 1_000_000, component.ElementIce},
		{"exact", "", 20, component.ElementNone},
		{"heal past full", "slime", -500, component.ElementNone},
		{"resisted", "golem", 3, component.ElementFire},
		{"zero", "bat", 0, component.ElementLightning},
		{"max int32", "wraith", math.MaxInt32, component.ElementFire},
		{"max int", "golem", math.MaxInt, component.ElementIce},
		{"min int", "slime", math.MinInt, component.ElementFire},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, rng := ecs.NewWorld(), newRNG()
			id := spawnActor(w, component.KindMonster, tt.class, 2, 2, 20)
			ApplyDamage(w, rng, 1, id, tt.base, tt.elem, 0)
			h := health(w, id)
			if h.Current < 0 || h.Current > h.Full {
				t.Fatalf("health %d outside [0,%d]", h.Current, h.Full)
			}
		})
	}
}

func TestHugeHealNeverKills(t *testing.T) {
	w, rng := ecs.NewWorld(), newRNG()
	id := spawnActor(w, component.KindMonster, "slime", 2, 2, 20)
	w.Add(id, component.Health{Current: 10, Full: 20, LastHit: -1})

	ev := ApplyDamage(w, rng, 1, id, math.MinInt, component.ElementFire, 0)
	if ev.Killed || w.Has(id, component.CDying) {
		t.Fatalf("heal killed the target: %+v", ev)
	}
	if h := health(w, id); h.Current != h.Full {
		t.Errorf("health = %d; want full %d", h.Current, h.Full)
	}
}

func TestApplyDamageUsesClassMultiplier(t *testing.T) {
	tests := []struct {
		class    string
		elem     component.Element
		min, max int
	}{
		{"golem", component.ElementIce, 16, 24},      // weak: 10*2
		{"golem", component.ElementFire, 2, 3},       // resists: 10*0.25
		{"golem", component.ElementLightning, 8, 12}, // neutral
		{"skeleton", component.ElementEarth, 16, 24}, // weak
		{"skeleton", component.ElementIce, 2, 3},     // resists
		{"", component.ElementFire, 8, 12},           // players take normal damage
	}
	for _, tt := range tests {
		for i := range 50 {
			w, rng := ecs.NewWorld(), newRNG()
			rng.Seed(int64(i))
			id := spawnActor(w, component.KindMonster, tt.class, 2, 2, 1000)
			ev := ApplyDamage(w, rng, 1, id, 10, tt.elem, 0)
			if ev.Amount < tt.min || ev.Amount > tt.max {
				t.Fatalf("%s vs %s: damage %d outside [%d,%d]", tt.class, tt.elem, ev.Amount, tt.min, tt.max)
			}
		}
	}
}

func TestApplyDamageHitFeedback(t *testing.T) {
	w, rng := ecs.NewWorld(), newRNG()
	id := spawnActor(w, component.KindMonster, "slime", 2, 2, 50)
	ApplyDamage(w, rng, 42, id, 5, component.ElementNone, 0)
	h := health(w, id)
	if h.Flash != HitFlashTicks || h.LastHit != 42 {
		t.Fatalf("flash=%d lastHit=%d", h.Flash, h.LastHit)
	}
	if !HealthBarVisible(h, 42+HealthBarTicks-1) || HealthBarVisible(h, 42+HealthBarTicks) {
		t.Fatal("health bar visibility window wrong")
	}

	other := spawnActor(w, component.KindMonster, "slime", 4, 2, 50)
	ApplyDamage(w, rng, 43, other, -5, component.ElementNone, 0)
	if h := health(w, other); h.Flash != 0 || h.LastHit != -1 {
		t.Fatal("healing should not flash")
	}
}

func TestDeadTargetIsNoop(t *testing.T) {
	w, rng := ecs.NewWorld(), newRNG()
	id := spawnActor(w, component.KindMonster, "bat", 2, 2, 5)
	ev := ApplyDamage(w, rng, 1, id, 1000, component.ElementNone, 0)
	if !ev.Killed || !w.Has(id, component.CDying) {
		t.Fatal("lethal hit should start the death animation")
	}
	again := ApplyDamage(w, rng, 2, id, 1000, component.ElementPoison, 50)
	if again.Amount != 0 || again.Killed {
		t.Fatalf("hit on dying target = %+v", again)
	}
	if w.Has(id, component.CStatus) {
		t.Fatal("dying target should not gain status")
	}
}

func TestDeathAnimationThenRemoval(t *testing.T) {
	w := ecs.NewWorld()
	id := spawnActor(w, component.KindMonster, "bat", 2, 2, 5)
	Kill(w, id)
	for i := 0; i < DeathAnimTicks-1; i++ {
		TickDying(w)
		w.Commit()
		if !w.Alive(id) {
			t.Fatalf("removed after %d ticks", i+1)
		}
	}
	if done := TickDying(w); len(done) != 1 || done[0] != id {
		t.Fatalf("TickDying = %v", done)
	}
	w.Commit()
	if w.Alive(id) {
		t.Fatal("entity should be removed after the death animation")
	}
}

func TestStatusExtension(t *testing.T) {
	w, rng := ecs.NewWorld(), newRNG()
	id := spawnActor(w, component.KindMonster, "skeleton", 2, 2, 500)

	ApplyDamage(w, rng, 1, id, 8, component.ElementIce, 120)
	ApplyDamage(w, rng, 2, id, 8, component.ElementIce, 120)
	if st := w.Get(id, component.CStatus).(component.Status); st.SlowTicks != 240 {
		t.Fatalf("slow = %d, want 240", st.SlowTicks)
	}

	ApplyDamage(w, rng, 3, id, 4, component.ElementPoison, 10)
	if st := w.Get(id, component.CStatus).(component.Status); st.PoisonStacks != 0 {
		t.Fatalf("weak poison hit added %d stacks", st.PoisonStacks)
	}
}

func TestPoisonScenario(t *testing.T) {
	w, rng := ecs.NewWorld(), newRNG()
	id := spawnActor(w, component.KindMonster, "skeleton", 2, 2, 100)

	ApplyDamage(w, rng, 0, id, 10, component.ElementPoison, 10)
	st := w.Get(id, component.CStatus).(component.Status)
	if st.PoisonStacks != 10 {
		t.Fatalf("poison stacks = %d, want 10", st.PoisonStacks)
	}
	start := health(w, id).Current

	var now int64
	for ; now < 10*PoisonInterval-1; now++ {
		TickStatus(w, now)
	}
	if got := start - health(w, id).Current; got != 9*PoisonDamage {
		t.Fatalf("after %d ticks lost %d, want %d", now, got, 9*PoisonDamage)
	}
	TickStatus(w, now)
	if got := start - health(w, id).Current; got != 10*PoisonDamage {
		t.Fatalf("lost %d, want exactly %d", got, 10*PoisonDamage)
	}
	for range 5 * PoisonInterval {
		TickStatus(w, now)
	}
	if got := start - health(w, id).Current; got != 10*PoisonDamage {
		t.Fatalf("poison kept firing: lost %d", got)
	}
}

func TestSlowIndependentOfPoison(t *testing.T) {
	w := ecs.NewWorld()
	id := spawnActor(w, component.KindMonster, "skeleton", 2, 2, 100)
	w.Add(id, component.Status{SlowTicks: 2, PoisonStacks: 1, PoisonTimer: PoisonInterval})
	TickStatus(w, 0)
	TickStatus(w, 1)
	st := w.Get(id, component.CStatus).(component.Status)
	if st.SlowTicks != 0 || st.PoisonStacks != 1 {
		t.Fatalf("status = %+v", st)
	}
}
