package session

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/gridquest/game/capability"
	"github.com/wricardo/gridquest/game/config"
	"github.com/wricardo/gridquest/game/engine"
	"github.com/wricardo/gridquest/game/event"
	"github.com/wricardo/gridquest/game/plugin"
	"github.com/wricardo/gridquest/game/plugin/builtin"
	"github.com/wricardo/gridquest/game/script"
	"github.com/wricardo/gridquest/logging"
)

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrGameWon          = errors.New("game already won")
)

// Event types recorded by a session.
const (
	EventMove = "move"
	EventItem = "item"
	EventMenu = "menu"
	EventWon  = "won"
)

// Event is one notification seen on the session's bus, including those
// raised by extensions.
type Event struct {
	Type      string           `json:"type"`
	Message   string           `json:"message"`
	Position  *engine.Position `json:"position,omitempty"`
	Item      string           `json:"item,omitempty"`
	Count     int              `json:"count,omitempty"`
	Extension string           `json:"extension,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// Result describes what a Move or SelectMenu call did.
type Result struct {
	Action    string          `json:"action"`
	Direction string          `json:"direction,omitempty"`
	Extension string          `json:"extension,omitempty"`
	Moved     bool            `json:"moved"`
	From      engine.Position `json:"from"`
	To        engine.Position `json:"to"`
	Picked    string          `json:"picked,omitempty"`
	Count     int             `json:"count,omitempty"`
	Message   string          `json:"message,omitempty"`
	Missing   []string        `json:"missing,omitempty"`
	Events    []Event         `json:"events"`
	Won       bool            `json:"won"`
}

// State is a snapshot of the world plus what the menu currently offers.
type State struct {
	engine.Snapshot
	Menu       []capability.MenuOption `json:"menu"`
	Extensions []plugin.Info           `json:"extensions"`
}

type options struct {
	registry  *plugin.Registry
	startDate time.Time
	log       logrus.FieldLogger
}

// Option customises New and NewManager.
type Option func(*options)

// WithRegistry sets the registry native plugins are resolved against.
// Defaults to one holding the built-in plugins.
func WithRegistry(reg *plugin.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithStartDate sets the in-game date of day zero.
func WithStartDate(t time.Time) Option {
	return func(o *options) { o.startDate = t }
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	o.log = logging.Or(o.log)
	if o.registry == nil {
		o.registry = plugin.NewRegistry()
		if err := builtin.Register(o.registry); err != nil {
			o.log.WithError(err).Error("failed to register built-in plugins")
		}
	}
	return o
}

// Session is one game in progress: a world, its event bus and the
// extensions listening on it. Methods are safe for concurrent use; they
// serialise on the session.
type Session struct {
	ID             string
	Config         *config.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time

	opts   options
	log    logrus.FieldLogger
	world  *engine.World
	bus    *event.Bus
	api    *capability.Facade
	loader *plugin.Loader
	events []Event
	won    bool
	mu     sync.Mutex
}

// New starts a session on cfg: it builds the world, loads the native
// plugins the map names and runs its scripts.
func New(id string, cfg *config.GameConfig, opts ...Option) (*Session, error) {
	now := time.Now()
	o := buildOptions(opts)
	s := &Session{
		ID:             id,
		Config:         cfg,
		CreatedAt:      now,
		LastAccessedAt: now,
		opts:           o,
		log:            o.log.WithField("session", id),
	}
	if err := s.start(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) start() error {
	worldOpts := []engine.Option{engine.WithLogger(s.log)}
	if !s.opts.startDate.IsZero() {
		worldOpts = append(worldOpts, engine.WithStartDate(s.opts.startDate))
	}
	world, err := engine.NewWorld(s.Config, worldOpts...)
	if err != nil {
		return fmt.Errorf("failed to create world: %w", err)
	}

	s.world = world
	s.bus = event.NewBus(s.log)
	s.api = capability.New(world, s.bus, s.log)
	s.loader = plugin.NewLoader(s.opts.registry, s.api, s.log)
	s.events = nil
	s.won = false

	s.loader.Load(s.Config.Plugins)
	for _, h := range script.NewHost(s.api, s.log).Run(script.Sources(s.Config.Scripts)) {
		if err := s.loader.Adopt(h, plugin.Scripted); err != nil {
			s.log.WithError(err).WithField("script", h.Name()).Error("failed to start script handler")
		}
	}
	s.bus.Add(s.recorder())

	s.checkWin()
	return nil
}

// recorder turns every bus notification into an Event.
func (s *Session) recorder() event.Subscriber {
	return &event.Funcs{
		Move: func(direction string, x, y int) {
			s.record(Event{
				Type:     EventMove,
				Message:  fmt.Sprintf("Moved %s to (%d,%d)", direction, x, y),
				Position: &engine.Position{X: x, Y: y},
			})
		},
		Item: func(name string, count int) {
			s.record(Event{
				Type:    EventItem,
				Message: fmt.Sprintf("Acquired %s (%d held)", name, count),
				Item:    name,
				Count:   count,
			})
		},
		Menu: func(extension string) {
			s.record(Event{
				Type:      EventMenu,
				Message:   "Selected " + extension,
				Extension: extension,
			})
		},
	}
}

func (s *Session) record(e Event) {
	e.Timestamp = time.Now()
	s.events = append(s.events, e)
}

// Move takes one step in direction. A blocked step is not an error: the
// result reports Moved false and, for obstacles, the missing items.
func (s *Session) Move(direction string) (*Result, error) {
	dir, ok := engine.ParseDirection(direction)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastAccessedAt = time.Now()
	if s.won {
		return nil, ErrGameWon
	}

	mark := len(s.events)
	res := &Result{Action: EventMove, Direction: string(dir), From: s.world.Player(), To: s.world.Player()}

	to, ok := s.world.Destination(dir)
	if !ok {
		res.Message = "The edge of the world blocks the way."
		return s.finish(res, mark), nil
	}
	out := s.world.MovePlayerTo(to.X, to.Y)
	if !out.Moved {
		res.Missing = s.missing(to)
		res.Message = "An obstacle blocks the way."
		return s.finish(res, mark), nil
	}

	res.Moved = true
	if out.Picked != "" {
		res.Picked, res.Count = out.Picked, out.Count
		if item, found := s.Config.FindItem(out.Picked); found && item.Message != "" {
			res.Message = item.Message
		} else {
			res.Message = "You picked up " + out.Picked + "."
		}
		s.api.NotifyItemAcquired(out.Picked, out.Count)
	}
	s.api.NotifyPlayerMove(string(dir), out.To.X, out.To.Y)
	s.checkWin()

	return s.finish(res, mark), nil
}

// SelectMenu reports a menu choice to the extensions.
func (s *Session) SelectMenu(extension string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastAccessedAt = time.Now()
	if s.won {
		return nil, ErrGameWon
	}

	mark := len(s.events)
	res := &Result{Action: EventMenu, Extension: extension, From: s.world.Player()}
	if err := s.loader.Select(extension); err != nil {
		return nil, err
	}
	s.checkWin()
	res.To = s.world.Player()
	res.Moved = res.To != res.From
	return s.finish(res, mark), nil
}

func (s *Session) finish(res *Result, mark int) *Result {
	res.To = s.world.Player()
	res.Events = slices.Clone(s.events[mark:])
	if res.Events == nil {
		res.Events = []Event{}
	}
	res.Won = s.won
	return res
}

// checkWin handles reaching the goal, once.
func (s *Session) checkWin() {
	if s.won || !s.world.IsGameWon() {
		return
	}
	s.won = true
	g := s.world.Goal()
	s.record(Event{Type: EventWon, Message: "You reached the goal!", Position: &g})
	s.log.WithField("day", s.world.Day()).Info("goal reached")
}

func (s *Session) missing(p engine.Position) []string {
	var out []string
	for _, r := range s.world.Requirements(p.X, p.Y) {
		if s.world.Count(r) < 1 {
			out = append(out, r)
		}
	}
	return out
}

// LastAccessed returns when the session was last moved, selected or reset.
func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LastAccessedAt
}

// Won reports whether the goal has been reached.
func (s *Session) Won() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.won
}

// State returns the current snapshot and menu.
func (s *Session) State() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &State{
		Snapshot:   s.world.Snapshot(),
		Menu:       s.loader.Menu(),
		Extensions: s.loader.Infos(),
	}
}

// Events returns every event recorded since the session started.
func (s *Session) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.events)
}

// Describe returns the player-visible view of one cell. Hidden cells are
// reported as fog.
func (s *Session) Describe(x, y int) (engine.SnapshotCell, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.world.Cell(x, y)
	if !ok {
		return engine.SnapshotCell{}, false
	}
	if !c.Visible {
		return engine.SnapshotCell{Kind: engine.Fog}, true
	}
	return engine.SnapshotCell{Kind: string(c.Kind), Item: c.Item, Requires: c.Requires}, true
}

// Reset unloads every extension and starts over from the map.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loader.UnloadAll()
	s.LastAccessedAt = time.Now()
	return s.start()
}

// Close unloads every extension. The session must not be used afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loader.UnloadAll()
}
