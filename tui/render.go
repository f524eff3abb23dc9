package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gookit/color"
	"github.com/leonelquinteros/gotext"

	"github.com/wricardo/gridquest/game/engine"
	"github.com/wricardo/gridquest/game/session"
)

// Grid symbols.
const (
	IconPlayer   = "@"
	IconGoal     = "G"
	IconItem     = "*"
	IconObstacle = "#"
	IconEmpty    = "·"
	IconFog      = "░"
)

// MaxMessages is how many recent messages a frame shows.
const MaxMessages = 5

// Translator looks up a UI string. A *gotext.Locale's Get method fits.
type Translator func(str string, vars ...any) string

// Renderer turns a session state into a text frame.
type Renderer struct {
	tr Translator

	colorPlayer   color.Style
	colorGoal     color.Style
	colorItem     color.Style
	colorObstacle color.Style
	colorSubtle   color.Style
	colorTitle    color.Style
	colorWin      color.Style
}

// NewRenderer builds a renderer. A nil loc uses the package-level gotext
// configuration, which returns strings untranslated until configured.
func NewRenderer(loc *gotext.Locale) *Renderer {
	tr := Translator(gotext.Get)
	if loc != nil {
		tr = loc.Get
	}
	return &Renderer{
		tr:            tr,
		colorPlayer:   color.Style{color.FgGreen, color.BgBlack, color.OpBold},
		colorGoal:     color.Style{color.FgYellow, color.OpBold},
		colorItem:     color.Style{color.FgMagenta},
		colorObstacle: color.Style{color.FgRed},
		colorSubtle:   color.Style{color.FgGray},
		colorTitle:    color.Style{color.FgCyan, color.OpBold},
		colorWin:      color.Style{color.FgGreen, color.OpBold},
	}
}

// LoadLocale reads the "default" domain for lang from dir (laid out as
// dir/<lang>/LC_MESSAGES/default.po). It returns nil when lang is empty.
func LoadLocale(dir, lang string) *gotext.Locale {
	if lang == "" {
		return nil
	}
	loc := gotext.NewLocale(dir, lang)
	loc.AddDomain("default")
	return loc
}

// Cell returns the styled symbol for one cell.
func (r *Renderer) Cell(cell engine.SnapshotCell) string {
	switch engine.CellKind(cell.Kind) {
	case engine.Item:
		return r.colorItem.Sprint(IconItem)
	case engine.Obstacle:
		return r.colorObstacle.Sprint(IconObstacle)
	case engine.Goal:
		return r.colorGoal.Sprint(IconGoal)
	case engine.Empty:
		return r.colorSubtle.Sprint(IconEmpty)
	}
	return r.colorSubtle.Sprint(IconFog)
}

// Grid draws the map with a border, player on top.
func (r *Renderer) Grid(state *session.State) string {
	var b strings.Builder
	border := "+" + strings.Repeat("-", state.Width) + "+\n"
	b.WriteString(border)
	for y, row := range state.Grid {
		b.WriteString("|")
		for x, cell := range row {
			if x == state.Player.X && y == state.Player.Y {
				b.WriteString(r.colorPlayer.Sprint(IconPlayer))
				continue
			}
			b.WriteString(r.Cell(cell))
		}
		b.WriteString("|\n")
	}
	b.WriteString(border)
	return b.String()
}

// Inventory lists held items alphabetically.
func (r *Renderer) Inventory(inv map[string]int) string {
	if len(inv) == 0 {
		return r.tr("Inventory: (empty)")
	}
	names := make([]string, 0, len(inv))
	for name := range inv {
		names = append(names, name)
	}
	slices.Sort(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		label := r.colorItem.Sprint(name)
		if inv[name] > 1 {
			label += fmt.Sprintf(" x%d", inv[name])
		}
		parts = append(parts, label)
	}
	return r.tr("Inventory: %s", strings.Join(parts, ", "))
}

// Frame renders a complete screen.
func (r *Renderer) Frame(title string, state *session.State, messages []string) string {
	var b strings.Builder

	b.WriteString(r.colorTitle.Sprint(title))
	b.WriteString("  ")
	b.WriteString(r.tr("Day %d, %s", state.Day, state.Date))
	b.WriteString("\n\n")
	b.WriteString(r.Grid(state))
	b.WriteString(r.Inventory(state.Inventory))
	b.WriteString("\n")

	if len(state.Menu) > 0 {
		b.WriteString("\n")
		b.WriteString(r.tr("Menu:"))
		b.WriteString("\n")
		for i, opt := range state.Menu {
			if i >= 9 {
				break
			}
			fmt.Fprintf(&b, "  %d) %s\n", i+1, opt.Text)
		}
	}

	if n := len(messages); n > 0 {
		b.WriteString("\n")
		for _, msg := range messages[max(0, n-MaxMessages):] {
			b.WriteString(msg)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if state.Won {
		b.WriteString(r.colorWin.Sprint(r.tr("You reached the goal in %d days!", state.Day)))
		b.WriteString("\n")
		b.WriteString(r.colorSubtle.Sprint(r.tr("r reset · q quit")))
	} else {
		b.WriteString(r.colorSubtle.Sprint(r.tr("arrows/wasd move · 1-9 menu · r reset · q quit")))
	}
	b.WriteString("\n")
	return b.String()
}
