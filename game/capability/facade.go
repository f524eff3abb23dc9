package capability

import (
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/gridquest/game/engine"
	"github.com/wricardo/gridquest/game/event"
	"github.com/wricardo/gridquest/logging"
)

// Facade implements API over a world and its event bus. It does not own
// either of them.
type Facade struct {
	world *engine.World
	bus   *event.Bus
	menu  []MenuOption
	log   logrus.FieldLogger
}

var _ API = (*Facade)(nil)

// New wraps world and bus.
func New(world *engine.World, bus *event.Bus, log logrus.FieldLogger) *Facade {
	return &Facade{
		world: world,
		bus:   bus,
		log:   logging.Or(log).WithField("component", "capability"),
	}
}

func (f *Facade) PlayerLocation() (int, int) {
	p := f.world.Player()
	return p.X, p.Y
}

// SetPlayerLocation teleports the player. No day passes and nothing is
// picked up.
func (f *Facade) SetPlayerLocation(x, y int) bool {
	return f.checked("set player location", x, y, f.world.SetPlayer(x, y))
}

func (f *Facade) PlayerInventory() map[string]int {
	return f.world.Inventory()
}

func (f *Facade) AddItemToInventory(name string, qty int) bool {
	return f.world.AddItems(name, qty)
}

func (f *Facade) RemoveItemFromInventory(name string, qty int) bool {
	return f.world.RemoveItem(name, qty)
}

func (f *Facade) LastAcquiredItem() string {
	return f.world.LastAcquired()
}

func (f *Facade) GridSize() (int, int) {
	return f.world.Width(), f.world.Height()
}

func (f *Facade) GridSquareContents(x, y int) string {
	return string(f.world.Kind(x, y))
}

func (f *Facade) ItemAt(x, y int) string {
	return f.world.ItemAt(x, y)
}

func (f *Facade) ObstacleRequirements(x, y int) []string {
	return f.world.Requirements(x, y)
}

func (f *Facade) IsGridSquareVisible(x, y int) bool {
	return f.world.IsVisible(x, y)
}

func (f *Facade) SetGridSquareVisible(x, y int, visible bool) bool {
	return f.checked("set visible", x, y, f.world.SetVisible(x, y, visible))
}

func (f *Facade) AddItemToGrid(x, y int, name string) bool {
	return f.checked("add item", x, y, f.world.PlaceItem(x, y, name))
}

func (f *Facade) RemoveItemFromGrid(x, y int) bool {
	return f.checked("remove item", x, y, f.world.RemoveGridItem(x, y))
}

func (f *Facade) SetGridItemName(x, y int, name string) bool {
	return f.checked("rename item", x, y, f.world.RenameItem(x, y, name))
}

func (f *Facade) AddObstacleToGrid(x, y int, requirement string) bool {
	return f.checked("add obstacle", x, y, f.world.AddObstacleRequirement(x, y, requirement))
}

func (f *Facade) RemoveObstacleFromGrid(x, y int) bool {
	return f.checked("remove obstacle", x, y, f.world.ClearObstacle(x, y))
}

// RequestMenuOption adds a menu entry for extension, or replaces the text
// of the one it already has.
func (f *Facade) RequestMenuOption(extension, text string) bool {
	if extension == "" || text == "" {
		return false
	}
	for i := range f.menu {
		if f.menu[i].Extension == extension {
			f.menu[i].Text = text
			return true
		}
	}
	f.menu = append(f.menu, MenuOption{Extension: extension, Text: text})
	f.log.WithFields(logrus.Fields{"extension": extension, "text": text}).Debug("menu option added")
	return true
}

// MenuOptions returns the menu entries in the order they were requested.
func (f *Facade) MenuOptions() []MenuOption {
	return slices.Clone(f.menu)
}

// CurrentDate returns the in-game date as YYYY-MM-DD.
func (f *Facade) CurrentDate() string {
	return f.world.CurrentDate().Format(engine.DateLayout)
}

func (f *Facade) DaysElapsed() int {
	return f.world.Day()
}

func (f *Facade) AdvanceDate() {
	f.world.AdvanceDay()
}

func (f *Facade) AddCallback(s event.Subscriber) {
	f.bus.Add(s)
}

func (f *Facade) RemoveCallback(s event.Subscriber) bool {
	return f.bus.Remove(s)
}

func (f *Facade) NotifyPlayerMove(direction string, x, y int) {
	f.bus.PlayerMoved(direction, x, y)
}

func (f *Facade) NotifyItemAcquired(name string, count int) {
	f.bus.ItemAcquired(name, count)
}

func (f *Facade) NotifyMenuSelected(extension string) {
	f.bus.MenuSelected(extension)
}

func (f *Facade) checked(op string, x, y int, ok bool) bool {
	if !ok {
		f.log.WithFields(logrus.Fields{"op": op, "x": x, "y": y}).Debug("mutation rejected")
	}
	return ok
}
