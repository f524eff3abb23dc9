package builtin

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/wricardo/gridquest/game/capability"
)

const (
	PenaltyName = "Penalty"

	// PenaltyDelay is how long a player may dawdle between moves.
	PenaltyDelay = 5 * time.Second
)

// Penalty punishes slow play: a move made more than PenaltyDelay after the
// previous one drops a visible obstacle on the first empty neighbour of the
// player. The obstacle needs a "Penalty Key" nobody can find.
type Penalty struct {
	quiet
	api      capability.API
	now      func() time.Time
	rng      *rand.Rand
	lastMove time.Time
}

// NewPenalty returns a Penalty using now as its clock. A nil rng gets a
// randomly seeded one.
func NewPenalty(now func() time.Time, rng *rand.Rand) *Penalty {
	if now == nil {
		now = time.Now
	}
	if rng == nil {
		rng = newRand()
	}
	return &Penalty{now: now, rng: rng}
}

func (p *Penalty) Initialize(api capability.API) error {
	p.api = api
	api.AddCallback(p)
	return nil
}

func (p *Penalty) Name() string { return PenaltyName }

func (p *Penalty) MenuText() (string, bool) { return "", false }

func (p *Penalty) Cleanup() error {
	if p.api != nil {
		p.api.RemoveCallback(p)
	}
	return nil
}

func (p *Penalty) OnPlayerMove(_ string, x, y int) {
	now := p.now()
	if !p.lastMove.IsZero() && now.Sub(p.lastMove) > PenaltyDelay {
		p.block(x, y)
	}
	p.lastMove = now
}

func (p *Penalty) block(px, py int) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			x, y := px+dx, py+dy
			if p.api.GridSquareContents(x, y) != capability.ContentsEmpty {
				continue
			}
			key := fmt.Sprintf("Penalty Key %d", p.rng.IntN(1000))
			if p.api.AddObstacleToGrid(x, y, key) {
				p.api.SetGridSquareVisible(x, y, true)
				return
			}
		}
	}
}
