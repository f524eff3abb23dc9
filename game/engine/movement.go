package engine

// CanEnter reports whether the player may step onto (x,y). Obstacles need
// at least one of every required item; nothing is consumed.
func (w *World) CanEnter(x, y int) bool {
	if !w.InBounds(x, y) {
		return false
	}
	c := w.cells[y][x]
	switch c.Kind {
	case Empty, Goal, Item:
		return true
	case Obstacle:
		for _, r := range c.Requires {
			if w.inventory[r] < 1 {
				return false
			}
		}
		return true
	}
	return false
}

// Destination returns the cell one step from the player in dir. ok is false
// for an unknown direction or a step off the grid.
func (w *World) Destination(dir Direction) (Position, bool) {
	dx, dy := dir.Delta()
	if dx == 0 && dy == 0 {
		return w.player, false
	}
	p := Position{X: w.player.X + dx, Y: w.player.Y + dy}
	if !w.InBounds(p.X, p.Y) {
		return w.player, false
	}
	return p, true
}

// MovePlayerTo moves the player onto (x,y) if CanEnter allows it: the
// position changes, the surrounding 3x3 block is revealed, one day passes,
// and an item on the destination is picked up. It does nothing otherwise.
func (w *World) MovePlayerTo(x, y int) MoveOutcome {
	out := MoveOutcome{From: w.player, To: w.player}
	if !w.CanEnter(x, y) {
		return out
	}

	w.player = Position{X: x, Y: y}
	w.reveal(w.player)
	w.day++

	out.Moved = true
	out.To = w.player
	if c := &w.cells[y][x]; c.Kind == Item {
		out.Picked = c.Item
		out.Count = w.pickup(c)
	}
	return out
}

// SetPlayer puts the player on (x,y) without spending a day or picking
// anything up. The new surroundings are revealed.
func (w *World) SetPlayer(x, y int) bool {
	if !w.InBounds(x, y) {
		return false
	}
	w.player = Position{X: x, Y: y}
	w.reveal(w.player)
	return true
}

func (w *World) pickup(c *Cell) int {
	name := c.Item
	*c = Cell{Kind: Empty, Visible: c.Visible}
	w.AddItem(name)
	return w.inventory[name]
}
