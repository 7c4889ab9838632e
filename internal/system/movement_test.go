package system

import (
	"testing"

	"spellcrawl/internal/component"
	"spellcrawl/internal/ecs"
	"spellcrawl/internal/gamemap"
)

func TestMoveSucceeds(t *testing.T) {
	w, grid := ecs.NewWorld(), openRoom()
	id := spawnActor(w, component.KindPlayer, "", 3.5, 3.5, 10)
	res := Move(w, grid, id, 0.25, 0.25)
	if res.Blocked() {
		t.Fatalf("unexpected block: %+v", res)
	}
	if p := position(w, id); p.X != 3.75 || p.Y != 3.75 {
		t.Fatalf("position = %+v, want (3.75,3.75)", p)
	}
}

func TestMoveAxisSeparated(t *testing.T) {
	w, grid := ecs.NewWorld(), openRoom()
	// Hugging the top wall: X movement survives, Y is reverted.
	id := spawnActor(w, component.KindPlayer, "", 3.5, 1.5, 10)
	w.Add(id, component.Velocity{DX: 0.25, DY: -0.25})
	w.Add(id, component.Dash{DX: 0.25, DY: -0.25, Ticks: 5})
	w.Add(id, component.Wander{X: 9, Y: 1})

	res := Move(w, grid, id, 0.25, -0.25)
	if res.BlockedX || !res.BlockedY {
		t.Fatalf("want only Y blocked, got %+v", res)
	}
	p := position(w, id)
	if p.X != 3.75 || p.Y != 1.5 {
		t.Fatalf("position = %+v", p)
	}
	v := w.Get(id, component.CVelocity).(component.Velocity)
	if v.DX != 0.25 || v.DY != 0 {
		t.Fatalf("velocity = %+v, want Y zeroed only", v)
	}
	if w.Has(id, component.CDash) || w.Has(id, component.CWander) {
		t.Fatal("block should cancel dash and clear wander target")
	}
}

func TestDiagonalCatchesConvexCorner(t *testing.T) {
	grid := gamemap.FromRows([]string{
		"400000000005",
		"2..........3",
		"2..........3",
		"2....3.....3",
		"2..........3",
		"2..........3",
		"2..........3",
		"611111111117",
	})
	w := ecs.NewWorld()
	id := spawnActor(w, component.KindPlayer, "", 4.5, 4.5, 10)

	// The X step clips the pillar's corner on the Y pass, so the actor
	// slides east instead of passing diagonally.
	res := Move(w, grid, id, 0.25, -0.25)
	if res.BlockedX || !res.BlockedY {
		t.Fatalf("want only Y blocked, got %+v", res)
	}
	if p := position(w, id); p.X != 4.75 || p.Y != 4.5 {
		t.Fatalf("position = %+v", p)
	}
}

func TestPlayerBumpOpensDoor(t *testing.T) {
	w, grid := ecs.NewWorld(), openRoom()
	door := spawnDoor(w, 5, 3)
	player := spawnActor(w, component.KindPlayer, "", 4.5, 3.5, 10)
	res := Move(w, grid, player, 0.2, 0)
	if !res.BlockedX || res.Bumped != door {
		t.Fatalf("expected door bump, got %+v", res)
	}
	if !w.Get(door, component.CDoor).(component.Door).Open || w.Has(door, component.CTagSolid) {
		t.Fatal("door should be open and passable")
	}
	if res := Move(w, grid, player, 0.2, 0); res.Blocked() {
		t.Fatal("open door should not block")
	}
}

func TestMonsterBumpLeavesDoorClosed(t *testing.T) {
	w, grid := ecs.NewWorld(), openRoom()
	door := spawnDoor(w, 5, 3)
	m := spawnActor(w, component.KindMonster, "slime", 4.5, 3.5, 10)
	Move(w, grid, m, 0.2, 0)
	if w.Get(door, component.CDoor).(component.Door).Open {
		t.Fatal("monsters must not open doors")
	}
}

func TestPlayerBumpOpensChest(t *testing.T) {
	w, grid := ecs.NewWorld(), openRoom()
	chest := w.CreateEntity()
	w.Add(chest, component.Position{X: 5.5, Y: 3.5})
	w.Add(chest, component.Body{W: 1, H: 1})
	w.Add(chest, component.Chest{Gold: 25})
	w.Add(chest, component.TagSolid{})
	player := spawnActor(w, component.KindPlayer, "", 4.5, 3.5, 10)
	w.Add(player, component.Purse{})

	Move(w, grid, player, 0.2, 0)
	if got := w.Get(player, component.CPurse).(component.Purse).Gold; got != 25 {
		t.Fatalf("gold = %d, want 25", got)
	}
	Move(w, grid, player, 0.2, 0)
	if got := w.Get(player, component.CPurse).(component.Purse).Gold; got != 25 {
		t.Fatalf("chest paid twice: gold = %d", got)
	}
}

func TestMoveActorsSetsFacingAndSpendsDash(t *testing.T) {
	w, grid := ecs.NewWorld(), openRoom()
	id := spawnActor(w, component.KindPlayer, "", 5.5, 4.5, 10)
	w.Add(id, component.Facing{Dir: component.DirN})
	w.Add(id, component.Dash{DX: -0.1, DY: 0.1, Ticks: 2})

	MoveActors(w, grid)
	if f := w.Get(id, component.CFacing).(component.Facing); f.Dir != component.DirSW {
		t.Fatalf("facing = %s, want SW", f.Dir)
	}
	MoveActors(w, grid)
	if w.Has(id, component.CDash) {
		t.Fatal("dash should expire after its ticks")
	}
	// Zero velocity keeps the last facing.
	MoveActors(w, grid)
	if f := w.Get(id, component.CFacing).(component.Facing); f.Dir != component.DirSW {
		t.Fatalf("facing changed on a still tick: %s", f.Dir)
	}
}

func TestDirectionOf(t *testing.T) {
	tests := []struct {
		dx, dy float64
		want   component.Direction
	}{
		{0, 1, component.DirS},
		{-1, 1, component.DirSW},
		{-2, 0, component.DirW},
		{-1, -3, component.DirNW},
		{0, -1, component.DirN},
		{0.5, -0.5, component.DirNE},
		{1, 0, component.DirE},
		{1, 1, component.DirSE},
	}
	for _, tt := range tests {
		got, ok := component.DirectionOf(tt.dx, tt.dy)
		if !ok || got != tt.want {
			t.Errorf("DirectionOf(%v,%v) = %s,%v want %s", tt.dx, tt.dy, got, ok, tt.want)
		}
	}
	if _, ok := component.DirectionOf(0, 0); ok {
		t.Error("zero vector should not yield a facing")
	}
	for d := component.DirS; d <= component.DirSE; d++ {
		if got, _ := component.DirectionOf(d.Delta()); got != d {
			t.Errorf("DirectionOf(%s.Delta()) = %s", d, got)
		}
	}
}

func TestSlowHalvesSpeed(t *testing.T) {
	w := ecs.NewWorld()
	id := spawnActor(w, component.KindMonster, "slime", 3, 3, 10)
	if got := EffectiveSpeed(w, id); got != 0.1 {
		t.Fatalf("speed = %v", got)
	}
	w.Add(id, component.Status{SlowTicks: 3})
	if got := EffectiveSpeed(w, id); got != 0.1*SlowFactor {
		t.Fatalf("slowed speed = %v", got)
	}
}
