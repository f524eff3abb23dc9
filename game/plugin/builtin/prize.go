package builtin

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/gridquest/game/capability"
	"github.com/wricardo/gridquest/game/engine"
)

const (
	PrizeName = "Prize"

	// PrizeItem is awarded once the player has collected enough.
	PrizeItem = "Golden Trophy"

	// PrizeThreshold counts item pickups plus distinct obstacles passed.
	PrizeThreshold = 5
)

// Prize awards a single PrizeItem when items acquired plus distinct
// obstacle cells walked through reaches PrizeThreshold.
type Prize struct {
	quiet
	api       capability.API
	items     int
	traversed mapset.Set[engine.Position]
	given     bool
}

func NewPrize() *Prize {
	return &Prize{traversed: mapset.New[engine.Position]()}
}

func (p *Prize) Initialize(api capability.API) error {
	p.api = api
	api.AddCallback(p)
	return nil
}

func (p *Prize) Name() string { return PrizeName }

func (p *Prize) MenuText() (string, bool) { return "", false }

func (p *Prize) Cleanup() error {
	if p.api != nil {
		p.api.RemoveCallback(p)
	}
	return nil
}

func (p *Prize) OnPlayerMove(_ string, x, y int) {
	if p.api.GridSquareContents(x, y) != capability.ContentsObstacle {
		return
	}
	pos := engine.Position{X: x, Y: y}
	if p.traversed.Has(pos) {
		return
	}
	p.traversed.Put(pos)
	p.check()
}

func (p *Prize) OnItemAcquired(string, int) {
	p.items++
	p.check()
}

// Score is the current progress towards the prize.
func (p *Prize) Score() int {
	return p.items + p.traversed.Size()
}

func (p *Prize) check() {
	if p.given || p.Score() < PrizeThreshold {
		return
	}
	p.given = true
	p.api.AddItemToInventory(PrizeItem, 1)
}
