package builtin

import (
	"strings"

	"github.com/wricardo/gridquest/game/capability"
)

const RevealName = "Reveal"

// Reveal lifts the fog from the goal and every item the first time the
// player picks up something with "map" in its name.
type Reveal struct {
	quiet
	api  capability.API
	done bool
}

func NewReveal() *Reveal { return &Reveal{} }

func (r *Reveal) Initialize(api capability.API) error {
	r.api = api
	api.AddCallback(r)
	return nil
}

func (r *Reveal) Name() string { return RevealName }

func (r *Reveal) MenuText() (string, bool) { return "", false }

func (r *Reveal) Cleanup() error {
	if r.api != nil {
		r.api.RemoveCallback(r)
	}
	return nil
}

func (r *Reveal) OnItemAcquired(name string, _ int) {
	if r.done || !strings.Contains(strings.ToLower(name), "map") {
		return
	}
	r.done = true
	each(r.api, func(x, y int) {
		switch r.api.GridSquareContents(x, y) {
		case capability.ContentsGoal, capability.ContentsItem:
			r.api.SetGridSquareVisible(x, y, true)
		}
	})
}
