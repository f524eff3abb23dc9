package script

import (
	"github.com/Shopify/go-lua"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/gridquest/game/capability"
	"github.com/wricardo/gridquest/game/event"
)

// Handler is a scripted handler. It subscribes itself to the event bus when
// initialised and forwards each event to handleEvent in its Lua state.
type Handler struct {
	name string
	l    *lua.State
	api  capability.API
	log  logrus.FieldLogger
}

func (h *Handler) Name() string { return h.name }

func (h *Handler) Initialize(api capability.API) error {
	h.api = api
	api.AddCallback(h)
	return nil
}

// MenuText returns the handler's menuText field when it is a non-empty
// string.
func (h *Handler) MenuText() (string, bool) {
	h.l.Field(lua.RegistryIndex, instanceKey)
	defer h.l.Pop(1)
	h.l.Field(-1, "menuText")
	defer h.l.Pop(1)
	if h.l.TypeOf(-1) != lua.TypeString {
		return "", false
	}
	text, _ := h.l.ToString(-1)
	return text, text != ""
}

func (h *Handler) Cleanup() error {
	if h.api != nil {
		h.api.RemoveCallback(h)
	}
	return nil
}

func (h *Handler) OnPlayerMove(direction string, x, y int) {
	h.dispatch(event.KindMove, func(l *lua.State) int {
		l.PushString(direction)
		l.PushInteger(x)
		l.PushInteger(y)
		return 3
	})
}

func (h *Handler) OnItemAcquired(name string, count int) {
	h.dispatch(event.KindItem, func(l *lua.State) int {
		l.PushString(name)
		l.PushInteger(count)
		return 2
	})
}

func (h *Handler) OnMenuSelected(extension string) {
	h.dispatch(event.KindMenu, func(l *lua.State) int {
		l.PushString(extension)
		return 1
	})
}

// dispatch calls handler:handleEvent(kind, ...) where push leaves the
// remaining arguments on the stack and returns how many it pushed. Errors
// raised by the script are logged and go no further.
func (h *Handler) dispatch(kind event.Kind, push func(*lua.State) int) {
	l := h.l
	l.Field(lua.RegistryIndex, instanceKey)
	l.Field(-1, "handleEvent")
	if !l.IsFunction(-1) {
		l.Pop(2)
		return
	}
	l.PushValue(-2)
	l.PushString(string(kind))
	n := push(l)

	if err := l.ProtectedCall(n+2, 0, 0); err != nil {
		h.log.WithError(err).WithField("event", kind).Error("script handler failed")
		l.Pop(2)
		return
	}
	l.Pop(1)
}
