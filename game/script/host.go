// Package script runs the Lua snippets embedded in a map and turns the
// handler each one defines into an extension.
//
// Every script gets its own Lua state with a restricted standard library
// and a global table named api exposing the capability surface. After the
// chunk runs, the first of MyCallback, GameCallback, ScriptCallback and
// Callback that is defined becomes the handler:
//
//   - a function is called with no arguments and must return the handler
//   - a table with a new function is constructed with handler:new()
//   - any other table is the handler itself
//
// The handler needs a handleEvent method. It is called as
// handler:handleEvent(kind, ...) with kind "move" (direction, x, y),
// "item" (name, count) or "menu" (extension). A string field menuText, if
// present, is offered as a menu entry.
package script

import (
	"errors"
	"fmt"

	"github.com/Shopify/go-lua"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/gridquest/game/capability"
	"github.com/wricardo/gridquest/logging"
)

// HandlerNames are the globals probed for a handler, in order.
var HandlerNames = []string{"MyCallback", "GameCallback", "ScriptCallback", "Callback"}

// APIGlobal is the name the capability table is bound to.
const APIGlobal = "api"

// instanceKey is where a state keeps its handler in the Lua registry.
const instanceKey = "gridquest.handler"

var (
	ErrNoHandler      = errors.New("script defines no handler")
	ErrNoHandleEvent  = errors.New("handler has no handleEvent method")
	ErrBadConstructor = errors.New("handler constructor did not return a table")
)

// Source is a named script body.
type Source struct {
	Name string
	Body string
}

// Sources names bodies Script0, Script1, ... in order.
func Sources(bodies []string) []Source {
	out := make([]Source, len(bodies))
	for i, b := range bodies {
		out[i] = Source{Name: fmt.Sprintf("Script%d", i), Body: b}
	}
	return out
}

// Host runs scripts against one capability API.
type Host struct {
	api capability.API
	log logrus.FieldLogger
}

// NewHost returns a host whose scripts see api.
func NewHost(api capability.API, log logrus.FieldLogger) *Host {
	return &Host{api: api, log: logging.Or(log).WithField("component", "scripts")}
}

// Run executes each source in its own state and returns the handlers that
// were found. A script that fails to compile, errors while running or
// defines no usable handler is logged and skipped.
func (h *Host) Run(sources []Source) []*Handler {
	var handlers []*Handler
	for _, src := range sources {
		log := h.log.WithField("script", src.Name)
		handler, err := h.run(src, log)
		switch {
		case errors.Is(err, ErrNoHandler):
			log.Info("script ran without registering a handler")
		case err != nil:
			log.WithError(err).Error("script failed")
		default:
			handlers = append(handlers, handler)
			log.Debug("script handler ready")
		}
	}
	return handlers
}

func (h *Host) run(src Source, log logrus.FieldLogger) (*Handler, error) {
	l := newState()
	bindAPI(l, h.api, log)

	if err := lua.LoadString(l, src.Body); err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	if err := l.ProtectedCall(0, 0, 0); err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	if err := findHandler(l); err != nil {
		return nil, err
	}
	return &Handler{name: src.Name, l: l, log: log}, nil
}

// Check compiles body without running it.
func Check(body string) error {
	l := lua.NewState()
	if err := lua.LoadString(l, body); err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	return nil
}

// newState opens the libraries a script may use. File and process access
// (io, os, package, debug) are left out.
func newState() *lua.State {
	l := lua.NewState()
	for _, lib := range []lua.RegistryFunction{
		{Name: "_G", Function: lua.BaseOpen},
		{Name: "string", Function: lua.StringOpen},
		{Name: "table", Function: lua.TableOpen},
		{Name: "math", Function: lua.MathOpen},
		{Name: "bit32", Function: lua.Bit32Open},
	} {
		lua.Require(l, lib.Name, lib.Function, true)
		l.Pop(1)
	}
	for _, name := range []string{"dofile", "loadfile"} {
		l.PushNil()
		l.SetGlobal(name)
	}
	return l
}

// findHandler leaves the handler instance stored under instanceKey.
func findHandler(l *lua.State) error {
	for _, name := range HandlerNames {
		l.Global(name)
		switch l.TypeOf(-1) {
		case lua.TypeFunction:
			if err := l.ProtectedCall(0, 1, 0); err != nil {
				return fmt.Errorf("%s(): %w", name, err)
			}
		case lua.TypeTable:
			l.Field(-1, "new")
			if l.IsFunction(-1) {
				l.PushValue(-2)
				if err := l.ProtectedCall(1, 1, 0); err != nil {
					return fmt.Errorf("%s:new(): %w", name, err)
				}
				l.Remove(-2)
			} else {
				l.Pop(1)
			}
		default:
			l.Pop(1)
			continue
		}

		if !l.IsTable(-1) {
			l.Pop(1)
			return fmt.Errorf("%w: %s", ErrBadConstructor, name)
		}
		l.Field(-1, "handleEvent")
		ok := l.IsFunction(-1)
		l.Pop(1)
		if !ok {
			l.Pop(1)
			return fmt.Errorf("%w: %s", ErrNoHandleEvent, name)
		}
		l.SetField(lua.RegistryIndex, instanceKey)
		return nil
	}
	return ErrNoHandler
}
