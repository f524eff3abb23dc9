package tui

import "github.com/wricardo/gridquest/game/engine"

// Action is what a key press asks the game to do.
type Action int

const (
	ActionNone Action = iota
	ActionMove
	ActionMenu
	ActionReset
	ActionQuit
)

// Key is a decoded key press. Direction is set for ActionMove and Menu
// (0-based) for ActionMenu.
type Key struct {
	Action    Action
	Direction engine.Direction
	Menu      int
}

// ParseKey decodes the bytes of one read from a raw-mode terminal. Arrow
// keys arrive as CSI (ESC [ A) or SS3 (ESC O A) sequences; wasd and hjkl
// are accepted as well.
func ParseKey(b []byte) Key {
	if len(b) == 0 {
		return Key{}
	}

	if b[0] == 0x1b {
		if len(b) >= 3 && (b[1] == '[' || b[1] == 'O') {
			switch b[2] {
			case 'A':
				return move(engine.Up)
			case 'B':
				return move(engine.Down)
			case 'C':
				return move(engine.Right)
			case 'D':
				return move(engine.Left)
			}
		}
		if len(b) == 1 {
			return Key{Action: ActionQuit}
		}
		return Key{}
	}

	switch c := b[0]; {
	case c == 3, c == 4, c == 'q', c == 'Q':
		return Key{Action: ActionQuit}
	case c == 'w', c == 'k':
		return move(engine.Up)
	case c == 's', c == 'j':
		return move(engine.Down)
	case c == 'a', c == 'h':
		return move(engine.Left)
	case c == 'd', c == 'l':
		return move(engine.Right)
	case c == 'r', c == 'R':
		return Key{Action: ActionReset}
	case c >= '1' && c <= '9':
		return Key{Action: ActionMenu, Menu: int(c - '1')}
	}
	return Key{}
}

func move(d engine.Direction) Key {
	return Key{Action: ActionMove, Direction: d}
}
