// Package capability is the surface extensions and scripts use to observe
// and change a running game.
//
// Every query answers off-grid coordinates with a fixed sentinel ("empty",
// "", nil or false) and every mutation reports failure with false, so
// extension code never needs to bounds-check or recover.
package capability

import (
	"github.com/wricardo/gridquest/game/event"
)

// Cell contents reported by GridSquareContents.
const (
	ContentsEmpty    = "empty"
	ContentsItem     = "item"
	ContentsObstacle = "obstacle"
	ContentsGoal     = "goal"
)

// MenuOption is an entry an extension asked to show in the game menu.
type MenuOption struct {
	Extension string `json:"extension"`
	Text      string `json:"text"`
}

// API is what an extension is given at initialisation.
type API interface {
	PlayerLocation() (x, y int)
	SetPlayerLocation(x, y int) bool

	PlayerInventory() map[string]int
	AddItemToInventory(name string, qty int) bool
	RemoveItemFromInventory(name string, qty int) bool
	LastAcquiredItem() string

	GridSize() (width, height int)
	GridSquareContents(x, y int) string
	ItemAt(x, y int) string
	ObstacleRequirements(x, y int) []string
	IsGridSquareVisible(x, y int) bool

	SetGridSquareVisible(x, y int, visible bool) bool
	AddItemToGrid(x, y int, name string) bool
	RemoveItemFromGrid(x, y int) bool
	SetGridItemName(x, y int, name string) bool
	AddObstacleToGrid(x, y int, requirement string) bool
	RemoveObstacleFromGrid(x, y int) bool

	RequestMenuOption(extension, text string) bool
	MenuOptions() []MenuOption

	CurrentDate() string
	DaysElapsed() int
	AdvanceDate()

	AddCallback(s event.Subscriber)
	RemoveCallback(s event.Subscriber) bool
	NotifyPlayerMove(direction string, x, y int)
	NotifyItemAcquired(name string, count int)
	NotifyMenuSelected(extension string)
}
