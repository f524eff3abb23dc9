package engine

import (
	"slices"
	"strings"
)

// CellKind is what occupies a grid cell. The string values are the ones
// reported to extensions and transports.
type CellKind string

const (
	Empty    CellKind = "empty"
	Item     CellKind = "item"
	Obstacle CellKind = "obstacle"
	Goal     CellKind = "goal"
)

// Cell is a single grid square. Item is set only for Item cells and
// Requires only for Obstacle cells.
type Cell struct {
	Kind     CellKind `json:"kind"`
	Item     string   `json:"item,omitempty"`
	Requires []string `json:"requires,omitempty"`
	Visible  bool     `json:"visible"`
}

func (c Cell) clone() Cell {
	c.Requires = slices.Clone(c.Requires)
	return c
}

// Position represents x,y coordinates. X grows to the right, Y downwards.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction is one of the four moves a player can request.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists every valid direction in a stable order.
var Directions = []Direction{Up, Down, Left, Right}

// ParseDirection accepts a direction name in any case, plus the compass
// aliases north/south/west/east.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "north", "n":
		return Up, true
	case "down", "south", "s":
		return Down, true
	case "left", "west", "w":
		return Left, true
	case "right", "east", "e":
		return Right, true
	}
	return "", false
}

// Delta returns the step a direction makes on the grid.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// MoveOutcome reports what a MovePlayerTo call did.
type MoveOutcome struct {
	Moved  bool     `json:"moved"`
	From   Position `json:"from"`
	To     Position `json:"to"`
	Picked string   `json:"picked,omitempty"`
	Count  int      `json:"count,omitempty"`
}
