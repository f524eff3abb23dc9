// Package validate checks map files before they are played. It reports:
//   - declarations the parser dropped
//   - a missing or zero-sized grid, and start or goal off the grid
//   - placements that will be skipped (off the grid, on the goal) or that
//     collide with another placement
//   - plugin references no registered extension answers to
//   - scripts that do not compile
//   - whether the goal can be reached from the start by collecting the
//     items the map places
package validate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/gridquest/game/config"
	"github.com/wricardo/gridquest/game/engine"
	"github.com/wricardo/gridquest/game/plugin"
	"github.com/wricardo/gridquest/game/script"
)

// ValidationResult captures the outcome of validating a single map.
// Errors make the map unplayable; warnings describe declarations that
// will be ignored or a goal that extensions would have to open up.
type ValidationResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Info     []string `json:"info"`
}

func (r *ValidationResult) errorf(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) infof(format string, args ...any) {
	r.Info = append(r.Info, fmt.Sprintf(format, args...))
}

// ValidateFile reads, decodes and validates one map file. Plugin
// references are resolved against reg; a nil registry skips that check.
func ValidateFile(path string, reg *plugin.Registry) ValidationResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ValidationResult{
			File:   filepath.Base(path),
			Errors: []string{fmt.Sprintf("Failed to read file: %v", err)},
		}
	}
	text, err := config.Decode(filepath.Base(path), data)
	if err != nil {
		return ValidationResult{
			File:   filepath.Base(path),
			Errors: []string{fmt.Sprintf("Failed to decode file: %v", err)},
		}
	}

	cfg := config.Parse(text)
	cfg.Name = config.MapName(filepath.Base(path))
	result := ValidateConfig(cfg, reg)
	result.File = filepath.Base(path)
	return result
}

// ValidateConfig checks an already parsed map.
func ValidateConfig(cfg *config.GameConfig, reg *plugin.Registry) ValidationResult {
	result := ValidationResult{
		File:     cfg.Name,
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{},
		Info:     []string{},
	}

	for _, d := range cfg.Diagnostics {
		result.warnf("Dropped declaration: %s", d)
	}

	switch {
	case cfg.Width < 1 || cfg.Height < 1:
		result.errorf("Grid must be at least 1x1, got %dx%d", cfg.Width, cfg.Height)
	case cfg.Width > engine.MaxDimension || cfg.Height > engine.MaxDimension:
		result.errorf("Grid must be at most %dx%d, got %dx%d", engine.MaxDimension, engine.MaxDimension, cfg.Width, cfg.Height)
	}
	inBounds := func(p config.Point) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < cfg.Width && p.Y < cfg.Height
	}
	if !inBounds(cfg.Start) {
		result.errorf("Start %s is outside the grid", cfg.Start)
	}
	if !inBounds(cfg.Goal) {
		result.errorf("Goal %s is outside the grid", cfg.Goal)
	}
	if cfg.Start == cfg.Goal {
		result.warnf("Start and goal are the same cell %s", cfg.Start)
	}

	checkPlacements(cfg, inBounds, &result)

	if reg != nil {
		for _, ref := range cfg.Plugins {
			if _, _, err := reg.Resolve(ref); err != nil {
				result.warnf("Plugin %q will not load: %v", ref, err)
			}
		}
	}
	for i, body := range cfg.Scripts {
		if err := script.Check(body); err != nil {
			result.errorf("Script%d does not compile: %v", i, err)
		}
	}

	if !result.Valid {
		return result
	}

	if reachable(cfg) {
		result.infof("✓ Goal reachable from start")
	} else {
		result.warnf("Goal %s cannot be reached from start %s with the items on the map", cfg.Goal, cfg.Start)
	}

	result.infof("✓ Grid: %dx%d", cfg.Width, cfg.Height)
	result.infof("✓ Items: %d, obstacles: %d", len(cfg.Items), len(cfg.Obstacles))
	result.infof("✓ Plugins: %d, scripts: %d", len(cfg.Plugins), len(cfg.Scripts))
	result.infof("✓ Start to goal: %d steps at least", engine.ManhattanDistance(
		engine.Position{X: cfg.Start.X, Y: cfg.Start.Y},
		engine.Position{X: cfg.Goal.X, Y: cfg.Goal.Y},
	))
	return result
}

// checkPlacements warns about placements the world will skip or resolve.
func checkPlacements(cfg *config.GameConfig, inBounds func(config.Point) bool, result *ValidationResult) {
	itemCells := mapset.New[config.Point]()
	obstacleCells := mapset.New[config.Point]()

	for _, it := range cfg.Items {
		for _, p := range it.Locations {
			switch {
			case !inBounds(p):
				result.warnf("Item %q at %s is outside the grid", it.Name, p)
			case p == cfg.Goal:
				result.warnf("Item %q at %s is on the goal", it.Name, p)
			case itemCells.Has(p):
				result.warnf("Item %q at %s replaces another item", it.Name, p)
			default:
				itemCells.Put(p)
			}
		}
	}
	for i, ob := range cfg.Obstacles {
		for _, p := range ob.Locations {
			switch {
			case !inBounds(p):
				result.warnf("Obstacle %d at %s is outside the grid", i+1, p)
			case p == cfg.Goal:
				result.warnf("Obstacle %d at %s is on the goal", i+1, p)
			case p == cfg.Start:
				result.warnf("Obstacle %d at %s is on the start", i+1, p)
			case itemCells.Has(p):
				result.warnf("Obstacle %d at %s hides an item", i+1, p)
			case obstacleCells.Has(p):
				result.warnf("Obstacle %d at %s overlaps another obstacle", i+1, p)
			default:
				obstacleCells.Put(p)
			}
		}
	}
}

// reachable reports whether the goal can be reached by walking from the
// start, picking up every item met on the way. Obstacles open once their
// requirements are held, so the flood fill is repeated until no new item
// is collected.
func reachable(cfg *config.GameConfig) bool {
	world, err := engine.NewWorld(cfg)
	if err != nil {
		return false
	}

	held := mapset.New[string]()
	for name := range world.Inventory() {
		held.Put(name)
	}
	start := world.Player()

	for {
		visited := mapset.New[engine.Position]()
		queue := []engine.Position{start}
		collected := false

		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]
			if visited.Has(p) {
				continue
			}
			visited.Put(p)

			if name := world.ItemAt(p.X, p.Y); name != "" && !held.Has(name) {
				held.Put(name)
				collected = true
			}
			for _, dir := range engine.Directions {
				dx, dy := dir.Delta()
				n := engine.Position{X: p.X + dx, Y: p.Y + dy}
				if !world.InBounds(n.X, n.Y) || visited.Has(n) || !passable(world, held, n) {
					continue
				}
				queue = append(queue, n)
			}
		}

		if visited.Has(world.Goal()) {
			return true
		}
		if !collected {
			return false
		}
	}
}

func passable(world *engine.World, held mapset.Set[string], p engine.Position) bool {
	if world.Kind(p.X, p.Y) != engine.Obstacle {
		return true
	}
	for _, r := range world.Requirements(p.X, p.Y) {
		if !held.Has(r) {
			return false
		}
	}
	return true
}
