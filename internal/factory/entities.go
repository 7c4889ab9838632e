// Package factory builds entities with their full component sets so the
// session and tests spawn them the same way.
package factory

import (
	"spellcrawl/assets"
	"spellcrawl/internal/component"
	"spellcrawl/internal/ecs"
	"spellcrawl/internal/gamemap"

	"github.com/gdamore/tcell/v2"
)

// ActorBody is the collision box of every actor.
var ActorBody = component.Body{W: 0.8, H: 0.8}

var tileBody = component.Body{W: 1, H: 1}

// Render layers, lowest drawn first.
const (
	layerFloor = iota
	layerProp
	layerActor
	layerPlayer
)

// Center returns the position of the centre of cell p.
func Center(p gamemap.Point) component.Position {
	return component.Position{X: float64(p.X) + 0.5, Y: float64(p.Y) + 0.5}
}

// NewPlayer creates the player at (x, y) with a fresh run's stats.
func NewPlayer(w *ecs.World, x, y float64) ecs.EntityID {
	id := newActor(w, x, y, component.Actor{
		Kind:  component.KindPlayer,
		Name:  "player",
		Speed: assets.PlayerSpeed,
	}, assets.PlayerHealth)
	w.Add(id, component.Mana{Current: assets.PlayerMana, Full: assets.PlayerMana})
	w.Add(id, component.Purse{})
	w.Add(id, component.Renderable{
		Glyph:       assets.GlyphPlayer,
		FGColor:     tcell.ColorYellow,
		BGColor:     tcell.ColorDefault,
		RenderOrder: layerPlayer,
	})
	return id
}

// NewCompanion creates an assistant that follows the player.
func NewCompanion(w *ecs.World, x, y float64, name string, hp, mana int) ecs.EntityID {
	id := newActor(w, x, y, component.Actor{
		Kind:  component.KindCompanion,
		Name:  name,
		Speed: assets.CompanionSpeed,
	}, assets.CompanionHealth)
	h := w.Get(id, component.CHealth).(component.Health)
	h.Current = min(max(hp, 0), h.Full)
	w.Add(id, h)
	w.Add(id, component.Mana{Current: mana, Full: max(mana, assets.PlayerMana)})
	w.Add(id, component.AI{})
	w.Add(id, component.Renderable{
		Glyph:       assets.GlyphCompanion,
		FGColor:     tcell.ColorGreen,
		BGColor:     tcell.ColorDefault,
		RenderOrder: layerActor,
	})
	return id
}

// NewMonster creates a monster of the given class.
func NewMonster(w *ecs.World, class assets.MonsterClass, x, y float64) ecs.EntityID {
	id := newActor(w, x, y, component.Actor{
		Kind:  component.KindMonster,
		Class: class.Key,
		Name:  class.Name,
		Speed: class.Speed,
	}, class.Health)
	w.Add(id, component.AI{SightRange: class.SightRange})
	w.Add(id, component.Renderable{
		Glyph:       class.Emoji,
		FGColor:     tcell.ColorRed,
		BGColor:     tcell.ColorDefault,
		RenderOrder: layerActor,
	})
	return id
}

func newActor(w *ecs.World, x, y float64, a component.Actor, hp int) ecs.EntityID {
	id := w.CreateEntity()
	w.Add(id, component.Position{X: x, Y: y})
	w.Add(id, component.Velocity{})
	w.Add(id, component.Facing{Dir: component.DirE})
	w.Add(id, ActorBody)
	w.Add(id, a)
	w.Add(id, component.Health{Current: hp, Full: hp, LastHit: -1})
	w.Add(id, component.Status{})
	return id
}

// NewDoor creates a closed door filling cell p.
func NewDoor(w *ecs.World, p gamemap.Point) ecs.EntityID {
	id := newProp(w, p, assets.GlyphDoor, tcell.ColorOlive)
	w.Add(id, component.Door{})
	w.Add(id, component.TagSolid{})
	return id
}

// NewChest creates a closed chest holding gold.
func NewChest(w *ecs.World, p gamemap.Point, gold int) ecs.EntityID {
	id := newProp(w, p, assets.GlyphChest, tcell.ColorYellow)
	w.Add(id, component.Chest{Gold: gold})
	w.Add(id, component.TagSolid{})
	return id
}

// NewBox creates breakable furniture.
func NewBox(w *ecs.World, p gamemap.Point) ecs.EntityID {
	id := newProp(w, p, assets.GlyphBox, tcell.ColorOlive)
	w.Add(id, component.TagSolid{})
	w.Add(id, component.TagBreakable{})
	return id
}

// NewExit creates the level exit.
func NewExit(w *ecs.World, p gamemap.Point) ecs.EntityID {
	id := newProp(w, p, assets.GlyphExit, tcell.ColorWhite)
	w.Add(id, component.Exit{})
	return id
}

// NewTorch creates a wall torch. It is scenery only.
func NewTorch(w *ecs.World, p gamemap.Point) ecs.EntityID {
	id := w.CreateEntity()
	w.Add(id, Center(p))
	w.Add(id, component.Renderable{
		Glyph:       assets.GlyphTorch,
		FGColor:     tcell.ColorOrange,
		BGColor:     tcell.ColorDefault,
		RenderOrder: layerFloor,
	})
	return id
}

func newProp(w *ecs.World, p gamemap.Point, glyph string, fg tcell.Color) ecs.EntityID {
	id := w.CreateEntity()
	w.Add(id, Center(p))
	w.Add(id, tileBody)
	w.Add(id, component.Renderable{
		Glyph:       glyph,
		FGColor:     fg,
		BGColor:     tcell.ColorDefault,
		RenderOrder: layerProp,
	})
	return id
}
