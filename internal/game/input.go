package game

import (
	"spellcrawl/internal/component"

	"github.com/gdamore/tcell/v2"
)

// Action is a player request decoded from a key.
type Action uint8

const (
	ActionNone Action = iota
	ActionMoveN
	ActionMoveS
	ActionMoveE
	ActionMoveW
	ActionMoveNE
	ActionMoveNW
	ActionMoveSE
	ActionMoveSW
	ActionStop
	ActionDash
	ActionCast
	ActionSpell1
	ActionSpell2
	ActionSpell3
	ActionSpell4
	ActionSpell5
	ActionSpell6
	ActionRecruit
	ActionSave
	ActionQuit
)

// keyToAction maps a tcell key event to a game action.
func keyToAction(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyUp:
		return ActionMoveN
	case tcell.KeyDown:
		return ActionMoveS
	case tcell.KeyRight:
		return ActionMoveE
	case tcell.KeyLeft:
		return ActionMoveW
	case tcell.KeyEscape:
		return ActionQuit
	case tcell.KeyEnter:
		return ActionCast
	}

	switch ev.Rune() {
	case 'k', 'K', 'w', 'W':
		return ActionMoveN
	case 'j', 'J', 's':
		return ActionMoveS
	case 'l', 'L', 'd', 'D':
		return ActionMoveE
	case 'h', 'H', 'a', 'A':
		return ActionMoveW
	case 'y', 'Y':
		return ActionMoveNW
	case 'u', 'U':
		return ActionMoveNE
	case 'b', 'B':
		return ActionMoveSW
	case 'n', 'N':
		return ActionMoveSE
	case '.':
		return ActionStop
	case ' ':
		return ActionDash
	case 'f', 'F':
		return ActionCast
	case '1':
		return ActionSpell1
	case '2':
		return ActionSpell2
	case '3':
		return ActionSpell3
	case '4':
		return ActionSpell4
	case '5':
		return ActionSpell5
	case '6':
		return ActionSpell6
	case 'r', 'R':
		return ActionRecruit
	case 'S':
		return ActionSave
	case 'q', 'Q':
		return ActionQuit
	}
	return ActionNone
}

// actionToDelta converts a movement action to a direction.
func actionToDelta(a Action) (float64, float64) {
	switch a {
	case ActionMoveN:
		return 0, -1
	case ActionMoveS:
		return 0, 1
	case ActionMoveE:
		return 1, 0
	case ActionMoveW:
		return -1, 0
	case ActionMoveNE:
		return 1, -1
	case ActionMoveNW:
		return -1, -1
	case ActionMoveSE:
		return 1, 1
	case ActionMoveSW:
		return -1, 1
	}
	return 0, 0
}

// actionToSpell maps the spell hotkeys to spell kinds.
func actionToSpell(a Action) (component.SpellKind, bool) {
	if a < ActionSpell1 || a > ActionSpell6 {
		return 0, false
	}
	return component.SpellKind(a - ActionSpell1), true
}
