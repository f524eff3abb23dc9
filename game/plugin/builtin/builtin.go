// Package builtin holds the extensions that ship with gridquest. Register
// makes them loadable by name from a map file:
//
//	plugin gridquest.plugins.Teleport
//	plugin Prize
package builtin

import (
	"math/rand/v2"
	"time"

	"github.com/wricardo/gridquest/game/capability"
	"github.com/wricardo/gridquest/game/plugin"
)

// Namespace prefixes the canonical name of every built-in extension.
const Namespace = "gridquest.plugins."

// Register adds every built-in extension to reg.
func Register(reg *plugin.Registry) error {
	factories := map[string]plugin.Factory{
		PenaltyName:  func() (any, error) { return NewPenalty(time.Now, nil), nil },
		PrizeName:    func() (any, error) { return NewPrize(), nil },
		RevealName:   func() (any, error) { return NewReveal(), nil },
		TeleportName: func() (any, error) { return NewTeleport(nil), nil },
	}
	for _, name := range []string{PenaltyName, PrizeName, RevealName, TeleportName} {
		if err := reg.Register(Namespace+name, factories[name]); err != nil {
			return err
		}
	}
	return nil
}

// quiet supplies no-op callbacks for events an extension ignores.
type quiet struct{}

func (quiet) OnPlayerMove(string, int, int) {}
func (quiet) OnItemAcquired(string, int)    {}
func (quiet) OnMenuSelected(string)         {}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// each visits every cell of the grid in row-major order.
func each(api capability.API, fn func(x, y int)) {
	w, h := api.GridSize()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fn(x, y)
		}
	}
}
