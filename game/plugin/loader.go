package plugin

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/gridquest/game/capability"
	"github.com/wricardo/gridquest/logging"
)

var (
	ErrExtensionNotFound = errors.New("extension not found")
	ErrNotAnExtension    = errors.New("factory result does not implement Extension")
)

// Entry is a running extension.
type Entry struct {
	Extension Extension
	Origin    Origin
	Ref       string
}

// Info describes a running extension for listings.
type Info struct {
	Name     string `json:"name"`
	Origin   Origin `json:"origin"`
	Ref      string `json:"ref"`
	MenuText string `json:"menu_text,omitempty"`
}

// Loader instantiates extensions against one capability API and keeps
// them in load order. It is not safe for concurrent use.
type Loader struct {
	registry *Registry
	api      capability.API
	entries  []*Entry
	byName   map[string]*Entry
	log      logrus.FieldLogger
}

// NewLoader returns a loader resolving references through registry and
// initialising extensions with api, which must not be nil.
func NewLoader(registry *Registry, api capability.API, log logrus.FieldLogger) *Loader {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Loader{
		registry: registry,
		api:      api,
		byName:   make(map[string]*Entry),
		log:      logging.Or(log).WithField("component", "plugins"),
	}
}

// Load resolves, builds and initialises each reference in order. A
// reference that fails at any step is logged and skipped; the returned
// slice holds the extensions that loaded.
func (l *Loader) Load(refs []string) []Extension {
	var loaded []Extension
	for _, ref := range refs {
		ext, err := l.load(ref)
		if err != nil {
			l.log.WithError(err).WithField("ref", ref).Error("failed to load extension")
			continue
		}
		loaded = append(loaded, ext)
		l.log.WithFields(logrus.Fields{"ref": ref, "extension": ext.Name()}).Info("extension loaded")
	}
	return loaded
}

func (l *Loader) load(ref string) (Extension, error) {
	_, factory, err := l.registry.Resolve(ref)
	if err != nil {
		return nil, err
	}

	var v any
	if err := guard("construct", func() error {
		var ferr error
		v, ferr = factory()
		return ferr
	}); err != nil {
		return nil, err
	}

	ext, ok := v.(Extension)
	if !ok || ext == nil {
		return nil, fmt.Errorf("%w: %T", ErrNotAnExtension, v)
	}
	return ext, l.adopt(ext, Native, ref)
}

// Adopt initialises an extension built outside the registry, such as a
// scripted handler, and keeps it alongside the native ones.
func (l *Loader) Adopt(ext Extension, origin Origin) error {
	if ext == nil {
		return ErrNotAnExtension
	}
	return l.adopt(ext, origin, ext.Name())
}

func (l *Loader) adopt(ext Extension, origin Origin, ref string) error {
	name := ext.Name()
	if _, dup := l.byName[name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	if err := guard("initialize", func() error { return ext.Initialize(l.api) }); err != nil {
		// Let a half-initialised extension unregister whatever it managed to.
		_ = guard("cleanup", ext.Cleanup)
		return err
	}

	e := &Entry{Extension: ext, Origin: origin, Ref: ref}
	l.entries = append(l.entries, e)
	l.byName[name] = e
	return nil
}

// Get returns the running extension called name.
func (l *Loader) Get(name string) (Extension, bool) {
	e, ok := l.byName[name]
	if !ok {
		return nil, false
	}
	return e.Extension, true
}

// Entries returns the running extensions in load order.
func (l *Loader) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = *e
	}
	return out
}

// Infos describes the running extensions in load order.
func (l *Loader) Infos() []Info {
	infos := make([]Info, 0, len(l.entries))
	for _, e := range l.entries {
		text, _ := e.Extension.MenuText()
		infos = append(infos, Info{Name: e.Extension.Name(), Origin: e.Origin, Ref: e.Ref, MenuText: text})
	}
	return infos
}

// Menu lists what the game menu should show: every extension with menu
// text, in load order, followed by options requested through the API by
// extensions that have none of their own.
func (l *Loader) Menu() []capability.MenuOption {
	var opts []capability.MenuOption
	seen := make(map[string]bool)
	for _, e := range l.entries {
		if text, ok := e.Extension.MenuText(); ok && text != "" {
			name := e.Extension.Name()
			opts = append(opts, capability.MenuOption{Extension: name, Text: text})
			seen[name] = true
		}
	}
	for _, o := range l.api.MenuOptions() {
		if !seen[o.Extension] {
			opts = append(opts, o)
			seen[o.Extension] = true
		}
	}
	return opts
}

// Select reports a menu selection for the named extension to every
// subscriber. The name must belong to a running extension or to a menu
// option requested through the API.
func (l *Loader) Select(name string) error {
	_, running := l.byName[name]
	requested := slices.ContainsFunc(l.api.MenuOptions(), func(o capability.MenuOption) bool {
		return o.Extension == name
	})
	if !running && !requested {
		return fmt.Errorf("%w: %s", ErrExtensionNotFound, name)
	}
	l.api.NotifyMenuSelected(name)
	return nil
}

// UnloadAll calls Cleanup on every extension, newest first, and forgets
// them. Failures are logged and do not stop the others.
func (l *Loader) UnloadAll() {
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		if err := guard("cleanup", e.Extension.Cleanup); err != nil {
			l.log.WithError(err).WithField("extension", e.Extension.Name()).Warn("extension cleanup failed")
		}
	}
	l.entries = nil
	l.byName = make(map[string]*Entry)
}

// guard runs fn, turning a panic into an error tagged with stage.
func guard(stage string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", stage, r)
		}
	}()
	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", stage, err)
	}
	return nil
}
