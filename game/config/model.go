package config

import (
	"fmt"
	"slices"
)

// Point is a grid coordinate (or a width/height pair for size).
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Item is a named pickup placed at one or more locations.
type Item struct {
	Name      string  `json:"name"`
	Message   string  `json:"message,omitempty"`
	Locations []Point `json:"locations"`
}

// Obstacle gates one or more cells behind a set of required items.
type Obstacle struct {
	Locations []Point  `json:"locations"`
	Requires  []string `json:"requires"`
}

// Diagnostic records a declaration the parser could not use.
type Diagnostic struct {
	Line    int    `json:"line"`
	Keyword string `json:"keyword"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Keyword, d.Message)
}

// GameConfig is the parsed form of a map declaration file.
// It is not modified after Parse returns.
type GameConfig struct {
	Name        string       `json:"name,omitempty"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Start       Point        `json:"start"`
	Goal        Point        `json:"goal"`
	Items       []Item       `json:"items,omitempty"`
	Obstacles   []Obstacle   `json:"obstacles,omitempty"`
	Plugins     []string     `json:"plugins,omitempty"`
	Scripts     []string     `json:"scripts,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// addItem merges by name: a second declaration of the same item appends its
// locations to the first. The first non-empty message wins.
func (c *GameConfig) addItem(item Item) {
	for i := range c.Items {
		if c.Items[i].Name != item.Name {
			continue
		}
		c.Items[i].Locations = append(c.Items[i].Locations, item.Locations...)
		if c.Items[i].Message == "" {
			c.Items[i].Message = item.Message
		}
		return
	}
	c.Items = append(c.Items, item)
}

// addObstacle merges declarations whose requirement sets are equal,
// regardless of the order the requirements were written in.
func (c *GameConfig) addObstacle(ob Obstacle) {
	for i := range c.Obstacles {
		if sameSet(c.Obstacles[i].Requires, ob.Requires) {
			c.Obstacles[i].Locations = append(c.Obstacles[i].Locations, ob.Locations...)
			return
		}
	}
	c.Obstacles = append(c.Obstacles, ob)
}

// FindItem returns the item declared under name.
func (c *GameConfig) FindItem(name string) (Item, bool) {
	for _, it := range c.Items {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}

// Empty reports whether nothing usable was declared.
func (c *GameConfig) Empty() bool {
	return c.Width == 0 && c.Height == 0 && len(c.Items) == 0 &&
		len(c.Obstacles) == 0 && len(c.Plugins) == 0 && len(c.Scripts) == 0
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, s := range a {
		if !slices.Contains(b, s) {
			return false
		}
	}
	return true
}
