package plugin_test

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/gridquest/game/capability"
	"github.com/wricardo/gridquest/game/config"
	"github.com/wricardo/gridquest/game/engine"
	"github.com/wricardo/gridquest/game/event"
	"github.com/wricardo/gridquest/game/plugin"
)

// fakeExt records its lifecycle and subscribes to events on Initialize.
type fakeExt struct {
	name       string
	menu       string
	initErr    error
	cleanupErr error
	panicOn    string

	api     capability.API
	cleaned bool
	moves   int
}

func (f *fakeExt) Initialize(api capability.API) error {
	if f.panicOn == "init" {
		panic("init exploded")
	}
	f.api = api
	api.AddCallback(f)
	return f.initErr
}

func (f *fakeExt) Name() string { return f.name }

func (f *fakeExt) MenuText() (string, bool) { return f.menu, f.menu != "" }

func (f *fakeExt) Cleanup() error {
	if f.panicOn == "cleanup" {
		panic("cleanup exploded")
	}
	f.cleaned = true
	if f.api != nil {
		f.api.RemoveCallback(f)
	}
	return f.cleanupErr
}

func (f *fakeExt) OnPlayerMove(string, int, int)   { f.moves++ }
func (f *fakeExt) OnItemAcquired(string, int)      {}
func (f *fakeExt) OnMenuSelected(extension string) {}

type notAnExtension struct{}

func newAPI(t *testing.T) (*capability.Facade, *event.Bus) {
	t.Helper()
	world, err := engine.NewWorld(config.Parse("size (3,3)\ngoal (2,2)"))
	require.NoError(t, err)
	bus := event.NewBus(nil)
	return capability.New(world, bus, nil), bus
}

func factoryFor(ext *fakeExt) plugin.Factory {
	return func() (any, error) { return ext, nil }
}

func TestRegistryResolve(t *testing.T) {
	reg := plugin.NewRegistry()
	require.NoError(t, reg.Register("gridquest.plugins.Teleport", func() (any, error) { return nil, nil }))
	require.NoError(t, reg.Register("gridquest.plugins.Prize", func() (any, error) { return nil, nil }))
	require.NoError(t, reg.Register("other.Prize", func() (any, error) { return nil, nil }))

	tests := []struct {
		ref      string
		wantName string
		wantErr  error
	}{
		{"gridquest.plugins.Teleport", "gridquest.plugins.Teleport", nil},
		{"Teleport", "gridquest.plugins.Teleport", nil},
		{"edu.curtin.gameplugins.Teleport", "gridquest.plugins.Teleport", nil},
		{"other.Prize", "other.Prize", nil},
		{"Prize", "", plugin.ErrAmbiguousReference},
		{"Missing", "", plugin.ErrUnknownExtension},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			name, _, err := reg.Resolve(tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
		})
	}

	assert.ErrorIs(t, reg.Register("other.Prize", func() (any, error) { return nil, nil }), plugin.ErrDuplicateName)
	assert.Error(t, reg.Register("", nil))
	assert.Equal(t, []string{"gridquest.plugins.Prize", "gridquest.plugins.Teleport", "other.Prize"}, reg.Names())
}

func TestLoaderIsolatesFailures(t *testing.T) {
	api, bus := newAPI(t)
	log, hook := test.NewNullLogger()

	good1 := &fakeExt{name: "Good1", menu: "Do it"}
	good2 := &fakeExt{name: "Good2"}
	failing := &fakeExt{name: "Failing", initErr: errors.New("nope")}
	panicky := &fakeExt{name: "Panicky", panicOn: "init"}

	reg := plugin.NewRegistry()
	require.NoError(t, reg.Register("x.Good1", factoryFor(good1)))
	require.NoError(t, reg.Register("x.Good2", factoryFor(good2)))
	require.NoError(t, reg.Register("x.Failing", factoryFor(failing)))
	require.NoError(t, reg.Register("x.Panicky", factoryFor(panicky)))
	require.NoError(t, reg.Register("x.Broken", func() (any, error) { return nil, errors.New("no constructor") }))
	require.NoError(t, reg.Register("x.Wrong", func() (any, error) { return &notAnExtension{}, nil }))
	require.NoError(t, reg.Register("x.Exploding", func() (any, error) { panic("ctor exploded") }))

	loader := plugin.NewLoader(reg, api, log)
	loaded := loader.Load([]string{
		"Unknown", "x.Broken", "x.Good1", "x.Wrong", "x.Failing", "x.Panicky", "x.Exploding", "x.Good2", "Good1",
	})

	require.Len(t, loaded, 2)
	assert.Same(t, good1, loaded[0])
	assert.Same(t, good2, loaded[1])

	errorsLogged := 0
	for _, e := range hook.AllEntries() {
		if e.Message == "failed to load extension" {
			errorsLogged++
		}
	}
	assert.Equal(t, 7, errorsLogged, "unknown, broken, wrong type, init error, init panic, ctor panic, duplicate")

	assert.True(t, failing.cleaned, "failed Initialize gets a chance to clean up")
	assert.Equal(t, 2, bus.Len(), "only the loaded extensions stay subscribed")

	ext, ok := loader.Get("Good2")
	require.True(t, ok)
	assert.Same(t, good2, ext)
	_, ok = loader.Get("Failing")
	assert.False(t, ok)
}

func TestLoaderAdoptAndInfos(t *testing.T) {
	api, _ := newAPI(t)
	native := &fakeExt{name: "Native", menu: "Native menu"}
	scripted := &fakeExt{name: "Script0"}

	reg := plugin.NewRegistry()
	require.NoError(t, reg.Register("x.Native", factoryFor(native)))

	loader := plugin.NewLoader(reg, api, nil)
	loader.Load([]string{"x.Native"})
	require.NoError(t, loader.Adopt(scripted, plugin.Scripted))
	assert.ErrorIs(t, loader.Adopt(&fakeExt{name: "Script0"}, plugin.Scripted), plugin.ErrDuplicateName)

	assert.Equal(t, []plugin.Info{
		{Name: "Native", Origin: plugin.Native, Ref: "x.Native", MenuText: "Native menu"},
		{Name: "Script0", Origin: plugin.Scripted, Ref: "Script0"},
	}, loader.Infos())

	entries := loader.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, plugin.Scripted, entries[1].Origin)
	assert.Equal(t, "scripted", entries[1].Origin.String())
}

func TestLoaderMenuAndSelect(t *testing.T) {
	api, bus := newAPI(t)
	withMenu := &fakeExt{name: "Teleport", menu: "Teleport to random location"}
	quiet := &fakeExt{name: "Quiet"}

	reg := plugin.NewRegistry()
	require.NoError(t, reg.Register("x.Teleport", factoryFor(withMenu)))
	require.NoError(t, reg.Register("x.Quiet", factoryFor(quiet)))
	loader := plugin.NewLoader(reg, api, nil)
	loader.Load([]string{"x.Teleport", "x.Quiet"})

	api.RequestMenuOption("Quiet", "Quiet action")
	api.RequestMenuOption("Teleport", "ignored, MenuText wins")

	assert.Equal(t, []capability.MenuOption{
		{Extension: "Teleport", Text: "Teleport to random location"},
		{Extension: "Quiet", Text: "Quiet action"},
	}, loader.Menu())

	var selected []string
	bus.Add(&event.Funcs{Menu: func(e string) { selected = append(selected, e) }})

	require.NoError(t, loader.Select("Teleport"))
	require.NoError(t, loader.Select("Quiet"))
	assert.ErrorIs(t, loader.Select("Nobody"), plugin.ErrExtensionNotFound)
	assert.Equal(t, []string{"Teleport", "Quiet"}, selected)
}

func TestLoaderUnloadAll(t *testing.T) {
	api, bus := newAPI(t)
	log, hook := test.NewNullLogger()

	a := &fakeExt{name: "A"}
	b := &fakeExt{name: "B", cleanupErr: errors.New("sticky")}
	c := &fakeExt{name: "C", panicOn: "cleanup"}
	d := &fakeExt{name: "D"}

	reg := plugin.NewRegistry()
	for _, e := range []*fakeExt{a, b, c, d} {
		require.NoError(t, reg.Register("x."+e.name, factoryFor(e)))
	}
	loader := plugin.NewLoader(reg, api, log)
	require.Len(t, loader.Load([]string{"A", "B", "C", "D"}), 4)

	require.NotPanics(t, loader.UnloadAll)

	assert.True(t, a.cleaned)
	assert.True(t, b.cleaned)
	assert.True(t, d.cleaned)
	assert.Empty(t, loader.Entries())
	_, ok := loader.Get("A")
	assert.False(t, ok)
	assert.Equal(t, 1, bus.Len(), "C never got to unsubscribe")

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Message == "extension cleanup failed" {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings)
}
