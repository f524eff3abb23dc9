// Package plugin loads extensions by name and keeps track of the ones that
// are running.
//
// Native extensions come from a Registry of factories. Scripted handlers
// are built elsewhere and handed over with Adopt. Both are driven through
// the same Extension interface; Origin only records where one came from.
package plugin

import (
	"github.com/wricardo/gridquest/game/capability"
)

// Extension is the contract every loaded extension fulfils. Initialize
// usually registers the extension for events with api.AddCallback and
// Cleanup removes it again.
type Extension interface {
	Initialize(api capability.API) error
	Name() string
	MenuText() (string, bool)
	Cleanup() error
}

// Origin tells native extensions and scripted handlers apart.
type Origin int

const (
	Native Origin = iota
	Scripted
)

func (o Origin) String() string {
	switch o {
	case Native:
		return "native"
	case Scripted:
		return "scripted"
	}
	return "unknown"
}

// MarshalText lets Origin appear as a string in JSON.
func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}
