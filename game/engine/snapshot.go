package engine

// Fog is the kind reported for cells the player has not revealed.
const Fog = "fog"

// SnapshotCell is a cell as the player sees it.
type SnapshotCell struct {
	Kind     string   `json:"kind"`
	Item     string   `json:"item,omitempty"`
	Requires []string `json:"requires,omitempty"`
}

// Snapshot is a read-only, JSON-friendly view of a world with fog applied.
type Snapshot struct {
	Width        int              `json:"width"`
	Height       int              `json:"height"`
	Grid         [][]SnapshotCell `json:"grid"`
	Player       Position         `json:"player"`
	Goal         *Position        `json:"goal,omitempty"`
	Inventory    map[string]int   `json:"inventory"`
	LastAcquired string           `json:"last_acquired,omitempty"`
	Day          int              `json:"day"`
	Date         string           `json:"date"`
	Won          bool             `json:"won"`
}

// Snapshot captures the current state. Hidden cells are reported as Fog and
// the goal position is only included once its cell has been revealed.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Width:        w.width,
		Height:       w.height,
		Grid:         make([][]SnapshotCell, w.height),
		Player:       w.player,
		Inventory:    w.Inventory(),
		LastAcquired: w.lastAcquired,
		Day:          w.day,
		Date:         w.CurrentDate().Format(DateLayout),
		Won:          w.IsGameWon(),
	}
	for y := range w.cells {
		s.Grid[y] = make([]SnapshotCell, w.width)
		for x, c := range w.cells[y] {
			if !c.Visible {
				s.Grid[y][x] = SnapshotCell{Kind: Fog}
				continue
			}
			s.Grid[y][x] = SnapshotCell{
				Kind:     string(c.Kind),
				Item:     c.Item,
				Requires: append([]string(nil), c.Requires...),
			}
		}
	}
	if w.IsVisible(w.goal.X, w.goal.Y) {
		g := w.goal
		s.Goal = &g
	}
	return s
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
