package engine

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/gridquest/game/config"
	"github.com/wricardo/gridquest/logging"
)

var (
	ErrNilConfig         = errors.New("world: nil config")
	ErrInvalidDimensions = errors.New("world: grid width and height must be between 1 and MaxDimension")
	ErrStartOutOfBounds  = errors.New("world: start is outside the grid")
	ErrGoalOutOfBounds   = errors.New("world: goal is outside the grid")
)

// MaxDimension bounds each side of the grid so a map cannot make a session
// allocate an unbounded number of cells.
const MaxDimension = 1000

// DateLayout is how CurrentDate is rendered for extensions and transports.
const DateLayout = "2006-01-02"

// World is the mutable state of one play session: grid, fog, player,
// inventory and the day counter. It is not safe for concurrent use.
type World struct {
	cells        [][]Cell
	width        int
	height       int
	player       Position
	goal         Position
	inventory    map[string]int
	lastAcquired string
	day          int
	startDate    time.Time
	log          logrus.FieldLogger
}

// Option customises NewWorld.
type Option func(*World)

// WithStartDate sets the calendar date of day zero. Defaults to today.
func WithStartDate(t time.Time) Option {
	return func(w *World) { w.startDate = t }
}

// WithLogger sets the logger used for skipped placements.
func WithLogger(log logrus.FieldLogger) Option {
	return func(w *World) { w.log = log }
}

// NewWorld builds a world from a parsed map. Items and obstacles that fall
// outside the grid or on the goal are skipped with a warning. An item on
// the start cell is picked up straight away.
func NewWorld(cfg *config.GameConfig, opts ...Option) (*World, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Width < 1 || cfg.Height < 1 || cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, cfg.Width, cfg.Height)
	}

	w := &World{
		width:     cfg.Width,
		height:    cfg.Height,
		player:    Position{X: cfg.Start.X, Y: cfg.Start.Y},
		goal:      Position{X: cfg.Goal.X, Y: cfg.Goal.Y},
		inventory: make(map[string]int),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = logging.Or(w.log).WithField("component", "world")
	if w.startDate.IsZero() {
		y, m, d := time.Now().Date()
		w.startDate = time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	}

	if !w.InBounds(w.player.X, w.player.Y) {
		return nil, fmt.Errorf("%w: %v", ErrStartOutOfBounds, cfg.Start)
	}
	if !w.InBounds(w.goal.X, w.goal.Y) {
		return nil, fmt.Errorf("%w: %v", ErrGoalOutOfBounds, cfg.Goal)
	}

	w.cells = make([][]Cell, w.height)
	for y := range w.cells {
		w.cells[y] = make([]Cell, w.width)
		for x := range w.cells[y] {
			w.cells[y][x] = Cell{Kind: Empty}
		}
	}
	w.cells[w.goal.Y][w.goal.X].Kind = Goal

	for _, it := range cfg.Items {
		for _, p := range it.Locations {
			if !w.placeable(p, "item", it.Name) {
				continue
			}
			w.cells[p.Y][p.X] = Cell{Kind: Item, Item: it.Name}
		}
	}
	for _, ob := range cfg.Obstacles {
		for _, p := range ob.Locations {
			if !w.placeable(p, "obstacle", fmt.Sprint(ob.Requires)) {
				continue
			}
			c := &w.cells[p.Y][p.X]
			if c.Kind != Obstacle {
				*c = Cell{Kind: Obstacle}
			}
			for _, r := range ob.Requires {
				c.Requires = appendUnique(c.Requires, r)
			}
		}
	}

	w.reveal(w.player)
	if c := &w.cells[w.player.Y][w.player.X]; c.Kind == Item {
		w.pickup(c)
	}
	return w, nil
}

func (w *World) placeable(p config.Point, what, name string) bool {
	fields := logrus.Fields{"kind": what, "name": name, "at": p.String()}
	if !w.InBounds(p.X, p.Y) {
		w.log.WithFields(fields).Warn("placement outside the grid skipped")
		return false
	}
	if p.X == w.goal.X && p.Y == w.goal.Y {
		w.log.WithFields(fields).Warn("placement on the goal skipped")
		return false
	}
	return true
}

// Width returns the number of columns.
func (w *World) Width() int { return w.width }

// Height returns the number of rows.
func (w *World) Height() int { return w.height }

// InBounds reports whether (x,y) is on the grid.
func (w *World) InBounds(x, y int) bool {
	return x >= 0 && x < w.width && y >= 0 && y < w.height
}

// Cell returns a copy of the cell at (x,y).
func (w *World) Cell(x, y int) (Cell, bool) {
	if !w.InBounds(x, y) {
		return Cell{}, false
	}
	return w.cells[y][x].clone(), true
}

// Kind returns the kind of the cell at (x,y), or Empty off the grid.
func (w *World) Kind(x, y int) CellKind {
	if !w.InBounds(x, y) {
		return Empty
	}
	return w.cells[y][x].Kind
}

// ItemAt returns the item lying at (x,y), or "" if there is none.
func (w *World) ItemAt(x, y int) string {
	if !w.InBounds(x, y) || w.cells[y][x].Kind != Item {
		return ""
	}
	return w.cells[y][x].Item
}

// Requirements returns the items needed to enter (x,y), or nil when the
// cell is not an obstacle.
func (w *World) Requirements(x, y int) []string {
	if !w.InBounds(x, y) || w.cells[y][x].Kind != Obstacle {
		return nil
	}
	return append([]string(nil), w.cells[y][x].Requires...)
}

// IsVisible reports whether (x,y) has been revealed. False off the grid.
func (w *World) IsVisible(x, y int) bool {
	return w.InBounds(x, y) && w.cells[y][x].Visible
}

// Player returns the player's position.
func (w *World) Player() Position { return w.player }

// Goal returns the goal position.
func (w *World) Goal() Position { return w.goal }

// IsGameWon reports whether the player stands on the goal.
func (w *World) IsGameWon() bool {
	return w.player == w.goal
}

// Day returns the number of days elapsed.
func (w *World) Day() int { return w.day }

// AdvanceDay moves the calendar on by one day.
func (w *World) AdvanceDay() { w.day++ }

// StartDate returns the date of day zero.
func (w *World) StartDate() time.Time { return w.startDate }

// CurrentDate returns the start date plus the days elapsed.
func (w *World) CurrentDate() time.Time {
	return w.startDate.AddDate(0, 0, w.day)
}

// Inventory returns a copy of the inventory.
func (w *World) Inventory() map[string]int {
	return maps.Clone(w.inventory)
}

// Count returns how many of name the player holds.
func (w *World) Count(name string) int { return w.inventory[name] }

// LastAcquired returns the most recently acquired item name, or "".
func (w *World) LastAcquired() string { return w.lastAcquired }

// reveal marks the 3x3 block around p as visible, clipped to the grid.
func (w *World) reveal(p Position) {
	for y := p.Y - 1; y <= p.Y+1; y++ {
		for x := p.X - 1; x <= p.X+1; x++ {
			if w.InBounds(x, y) {
				w.cells[y][x].Visible = true
			}
		}
	}
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
