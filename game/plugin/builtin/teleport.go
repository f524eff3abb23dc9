package builtin

import (
	"math/rand/v2"

	"github.com/wricardo/gridquest/game/capability"
)

const (
	TeleportName = "Teleport"

	teleportReady = "Teleport to random location"
	teleportUsed  = "Teleport (Used)"

	// teleportAttempts bounds the search for an empty landing cell.
	teleportAttempts = 100
)

// Teleport offers a one-shot menu action that moves the player to a random
// empty cell.
type Teleport struct {
	quiet
	api  capability.API
	rng  *rand.Rand
	used bool
}

// NewTeleport returns a Teleport drawing from rng, or from a randomly
// seeded source when rng is nil.
func NewTeleport(rng *rand.Rand) *Teleport {
	if rng == nil {
		rng = newRand()
	}
	return &Teleport{rng: rng}
}

func (t *Teleport) Initialize(api capability.API) error {
	t.api = api
	api.AddCallback(t)
	api.RequestMenuOption(TeleportName, teleportReady)
	return nil
}

func (t *Teleport) Name() string { return TeleportName }

func (t *Teleport) MenuText() (string, bool) {
	if t.used {
		return teleportUsed, true
	}
	return teleportReady, true
}

func (t *Teleport) Cleanup() error {
	if t.api != nil {
		t.api.RemoveCallback(t)
	}
	return nil
}

// Used reports whether the teleport has been spent.
func (t *Teleport) Used() bool { return t.used }

func (t *Teleport) OnMenuSelected(extension string) {
	if extension != TeleportName || t.used {
		return
	}
	w, h := t.api.GridSize()
	x, y := t.rng.IntN(w), t.rng.IntN(h)
	for i := 1; i < teleportAttempts && t.api.GridSquareContents(x, y) != capability.ContentsEmpty; i++ {
		x, y = t.rng.IntN(w), t.rng.IntN(h)
	}
	t.api.SetPlayerLocation(x, y)
	t.used = true
	t.api.RequestMenuOption(TeleportName, teleportUsed)
}
