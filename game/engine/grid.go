package engine

// Grid mutators for extensions. Each one checks its precondition and
// returns false, changing nothing, when it does not hold.

// PlaceItem drops an item named name onto an empty cell.
func (w *World) PlaceItem(x, y int, name string) bool {
	if name == "" || !w.InBounds(x, y) || w.Kind(x, y) != Empty {
		return false
	}
	c := &w.cells[y][x]
	c.Kind, c.Item = Item, name
	return true
}

// RemoveGridItem clears the item lying on (x,y).
func (w *World) RemoveGridItem(x, y int) bool {
	if w.Kind(x, y) != Item {
		return false
	}
	c := &w.cells[y][x]
	c.Kind, c.Item = Empty, ""
	return true
}

// RenameItem changes the name of the item lying on (x,y).
func (w *World) RenameItem(x, y int, name string) bool {
	if name == "" || w.Kind(x, y) != Item {
		return false
	}
	w.cells[y][x].Item = name
	return true
}

// AddObstacleRequirement turns an empty cell into an obstacle needing
// item, or adds item to an existing obstacle's requirements.
func (w *World) AddObstacleRequirement(x, y int, item string) bool {
	if item == "" || !w.InBounds(x, y) {
		return false
	}
	c := &w.cells[y][x]
	switch c.Kind {
	case Empty:
		c.Kind, c.Requires = Obstacle, []string{item}
	case Obstacle:
		c.Requires = appendUnique(c.Requires, item)
	default:
		return false
	}
	return true
}

// ClearObstacle turns an obstacle back into an empty cell.
func (w *World) ClearObstacle(x, y int) bool {
	if w.Kind(x, y) != Obstacle {
		return false
	}
	c := &w.cells[y][x]
	c.Kind, c.Requires = Empty, nil
	return true
}

// SetVisible overrides the fog for one cell. This is the only way a
// revealed cell is hidden again.
func (w *World) SetVisible(x, y int, visible bool) bool {
	if !w.InBounds(x, y) {
		return false
	}
	w.cells[y][x].Visible = visible
	return true
}

// Each calls fn for every cell in row-major order.
func (w *World) Each(fn func(p Position, c Cell)) {
	for y := range w.cells {
		for x := range w.cells[y] {
			fn(Position{X: x, Y: y}, w.cells[y][x].clone())
		}
	}
}
