package plugin

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownExtension   = errors.New("unknown extension")
	ErrAmbiguousReference = errors.New("ambiguous extension reference")
	ErrDuplicateName      = errors.New("extension name already registered")
)

// Factory builds a fresh extension. It returns any so that a factory for a
// type that does not implement Extension is caught by the loader rather
// than the compiler, the same way a misconfigured reference would be.
type Factory func() (any, error)

// Registry maps canonical extension names to factories. Names are usually
// dotted paths such as "gridquest.plugins.Teleport".
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" || f == nil {
		return fmt.Errorf("register %q: name and factory are required", name)
	}
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	r.factories[name] = f
	return nil
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve finds the factory for ref. An exact name wins; otherwise ref is
// matched on its last dotted segment, so "Teleport" and
// "edu.example.Teleport" both find "gridquest.plugins.Teleport" as long as
// only one registered name ends that way.
func (r *Registry) Resolve(ref string) (string, Factory, error) {
	if f, ok := r.factories[ref]; ok {
		return ref, f, nil
	}

	short := lastSegment(ref)
	var matches []string
	for name := range r.factories {
		if lastSegment(name) == short {
			matches = append(matches, name)
		}
	}
	switch len(matches) {
	case 0:
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownExtension, ref)
	case 1:
		return matches[0], r.factories[matches[0]], nil
	default:
		sort.Strings(matches)
		return "", nil, fmt.Errorf("%w: %s matches %s", ErrAmbiguousReference, ref, strings.Join(matches, ", "))
	}
}

func lastSegment(ref string) string {
	if i := strings.LastIndexByte(ref, '.'); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
