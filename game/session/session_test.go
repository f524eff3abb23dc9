package session

import (
	"errors"
	"testing"
	"time"

	"github.com/wricardo/gridquest/game/config"
	"github.com/wricardo/gridquest/game/engine"
	"github.com/wricardo/gridquest/game/event"
	"github.com/wricardo/gridquest/game/plugin"
)

const scenarioMap = `size (4,4)
start (0,0)
goal (3,3)
item "Key" {
    at (1,0)
    message "A small brass key."
}
obstacle {
    at (2,0)
    requires "Key"
}
`

func newTestSession(t *testing.T, text string) *Session {
	t.Helper()
	sess, err := New("test", config.Parse(text), WithStartDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(sess.Close)
	return sess
}

func mustMove(t *testing.T, s *Session, dir string) *Result {
	t.Helper()
	res, err := s.Move(dir)
	if err != nil {
		t.Fatalf("Move(%s): %v", dir, err)
	}
	return res
}

func TestSession_Scenario(t *testing.T) {
	s := newTestSession(t, scenarioMap)

	res := mustMove(t, s, "right")
	if !res.Moved || res.Picked != "Key" || res.Count != 1 {
		t.Fatalf("expected to pick up the key, got %+v", res)
	}
	if res.Message != "A small brass key." {
		t.Errorf("Message = %q", res.Message)
	}
	if len(res.Events) != 2 || res.Events[0].Type != EventItem || res.Events[1].Type != EventMove {
		t.Errorf("expected item then move events, got %+v", res.Events)
	}

	for _, dir := range []string{"right", "down", "down", "down"} {
		if res := mustMove(t, s, dir); !res.Moved {
			t.Fatalf("move %s blocked at %v", dir, res.From)
		}
	}
	if s.Won() {
		t.Fatal("won too early")
	}

	res = mustMove(t, s, "right")
	if !res.Won {
		t.Fatal("expected to reach the goal")
	}
	last := res.Events[len(res.Events)-1]
	if last.Type != EventWon {
		t.Errorf("last event = %s, want %s", last.Type, EventWon)
	}

	state := s.State()
	if state.Day != 6 || state.Date != "2024-03-07" {
		t.Errorf("day %d date %s, want 6 2024-03-07", state.Day, state.Date)
	}
	if state.Inventory["Key"] != 1 {
		t.Errorf("inventory = %v", state.Inventory)
	}

	if _, err := s.Move("left"); !errors.Is(err, ErrGameWon) {
		t.Errorf("expected ErrGameWon after winning, got %v", err)
	}
}

func TestSession_BlockedMoves(t *testing.T) {
	tests := []struct {
		name    string
		moves   []string
		missing []string
	}{
		{name: "edge of the grid", moves: []string{"up"}},
		{name: "obstacle without key", moves: []string{"down", "right", "right", "up"}, missing: []string{"Key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, scenarioMap)
			var res *Result
			for _, dir := range tt.moves {
				res = mustMove(t, s, dir)
			}
			day := s.State().Day

			if res.Moved {
				t.Fatalf("expected the last move to be blocked, got %+v", res)
			}
			if res.From != res.To {
				t.Errorf("player moved from %v to %v", res.From, res.To)
			}
			if len(res.Events) != 0 {
				t.Errorf("blocked move produced events: %+v", res.Events)
			}
			if len(res.Missing) != len(tt.missing) || (len(tt.missing) > 0 && res.Missing[0] != tt.missing[0]) {
				t.Errorf("Missing = %v, want %v", res.Missing, tt.missing)
			}
			if s.State().Day != day {
				t.Error("blocked move spent a day")
			}
		})
	}
}

func TestSession_InvalidDirection(t *testing.T) {
	s := newTestSession(t, scenarioMap)
	if _, err := s.Move("sideways"); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("expected ErrInvalidDirection, got %v", err)
	}
	if res := mustMove(t, s, "EAST"); !res.Moved || res.Direction != "right" {
		t.Errorf("compass alias not accepted: %+v", res)
	}
}

func TestSession_NotificationOrder(t *testing.T) {
	s := newTestSession(t, scenarioMap)

	var seen []string
	s.bus.Add(&event.Funcs{
		Item: func(name string, count int) {
			if s.world.Player() != (engine.Position{X: 1, Y: 0}) {
				t.Error("item event before the player moved")
			}
			if s.world.Count(name) != count {
				t.Error("item event before the pickup")
			}
			seen = append(seen, "item:"+name)
		},
		Move: func(direction string, x, y int) {
			seen = append(seen, "move:"+direction)
		},
	})

	mustMove(t, s, "right")
	if len(seen) != 2 || seen[0] != "item:Key" || seen[1] != "move:right" {
		t.Errorf("notifications = %v", seen)
	}
}

func TestSession_PickupSeenOnceFromMoveCallback(t *testing.T) {
	s := newTestSession(t, scenarioMap)

	type view struct {
		at       engine.Position
		contents string
		keys     int
	}
	var views []view
	s.bus.Add(&event.Funcs{Move: func(_ string, x, y int) {
		views = append(views, view{
			at:       engine.Position{X: x, Y: y},
			contents: s.api.GridSquareContents(1, 0),
			keys:     s.api.PlayerInventory()["Key"],
		})
	}})

	for _, dir := range []string{"right", "right", "left"} {
		if res := mustMove(t, s, dir); !res.Moved {
			t.Fatalf("move %s blocked", dir)
		}
	}

	if len(views) != 3 {
		t.Fatalf("move callback ran %d times, want 3", len(views))
	}
	for i, v := range views {
		if v.contents != "empty" {
			t.Errorf("move %d at %v: key cell = %q, want empty", i+1, v.at, v.contents)
		}
		if v.keys != 1 {
			t.Errorf("move %d at %v: Key count = %d, want 1", i+1, v.at, v.keys)
		}
	}
	if got := s.State().Inventory["Key"]; got != 1 {
		t.Errorf("final Key count = %d, want 1", got)
	}
}

// A step off the grid is refused before anything happens: the player stays
// put, no day passes and no move notification reaches extensions.
func TestSession_EdgeStepNotifiesNobody(t *testing.T) {
	s := newTestSession(t, scenarioMap)

	calls := 0
	s.bus.Add(&event.Funcs{Move: func(string, int, int) { calls++ }})

	for _, dir := range []string{"up", "left"} {
		res := mustMove(t, s, dir)
		if res.Moved || res.To != (engine.Position{X: 0, Y: 0}) {
			t.Errorf("%s from the corner: %+v", dir, res)
		}
		if len(res.Events) != 0 {
			t.Errorf("%s from the corner recorded %+v", dir, res.Events)
		}
	}
	if calls != 0 {
		t.Errorf("move callback ran %d times for edge steps", calls)
	}
	if day := s.State().Day; day != 0 {
		t.Errorf("Day = %d after edge steps, want 0", day)
	}
	if len(s.Events()) != 0 {
		t.Errorf("session events = %+v", s.Events())
	}
}

func TestSession_CallbackChangesAreVisible(t *testing.T) {
	s := newTestSession(t, scenarioMap)

	s.bus.Add(&event.Funcs{Move: func(string, int, int) {
		s.api.SetPlayerLocation(3, 3)
	}})

	res := mustMove(t, s, "down")
	if res.To != (engine.Position{X: 3, Y: 3}) {
		t.Errorf("To = %v, want the teleport target", res.To)
	}
	if !res.Won {
		t.Error("win check should see the callback's teleport")
	}
}

func TestSession_ScriptsAndPlugins(t *testing.T) {
	s := newTestSession(t, scenarioMap+`plugin Teleport
plugin edu.curtin.gameplugins.Nope
script !{
Warp = {}
Warp.__index = Warp
function Warp.new(cls)
    api.requestMenuOption("Warp", "Warp to goal")
    return setmetatable({}, cls)
end
function Warp:handleEvent(kind, ext)
    if kind == "menu" and ext == "Warp" then api.setPlayerLocation(3, 3) end
end
MyCallback = Warp
}
`)

	state := s.State()
	if len(state.Extensions) != 2 {
		t.Fatalf("extensions = %+v", state.Extensions)
	}
	if state.Extensions[0].Name != "Teleport" || state.Extensions[1].Name != "Script0" {
		t.Errorf("extension order = %+v", state.Extensions)
	}
	if state.Extensions[1].Origin != plugin.Scripted {
		t.Errorf("Script0 origin = %v", state.Extensions[1].Origin)
	}
	if len(state.Menu) != 2 || state.Menu[0].Extension != "Teleport" || state.Menu[1].Text != "Warp to goal" {
		t.Errorf("menu = %+v", state.Menu)
	}

	if _, err := s.SelectMenu("Nope"); !errors.Is(err, plugin.ErrExtensionNotFound) {
		t.Errorf("expected ErrExtensionNotFound, got %v", err)
	}

	res, err := s.SelectMenu("Warp")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Moved || !res.Won {
		t.Errorf("expected the warp to win the game, got %+v", res)
	}
	if res.Events[0].Type != EventMenu || res.Events[0].Extension != "Warp" {
		t.Errorf("events = %+v", res.Events)
	}
}

func TestSession_Reset(t *testing.T) {
	s := newTestSession(t, scenarioMap+"plugin Prize\n")
	mustMove(t, s, "right")
	mustMove(t, s, "right")

	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	state := s.State()
	if state.Player != (engine.Position{}) || state.Day != 0 || len(state.Inventory) != 0 {
		t.Errorf("state not reset: %+v", state.Snapshot)
	}
	if len(s.Events()) != 0 {
		t.Errorf("events not cleared: %v", s.Events())
	}
	if len(state.Extensions) != 1 || s.bus.Len() != 2 {
		t.Errorf("expected one plugin and the recorder, got %d extensions and %d subscribers", len(state.Extensions), s.bus.Len())
	}
}

func TestSession_Describe(t *testing.T) {
	s := newTestSession(t, scenarioMap)

	tests := []struct {
		x, y int
		ok   bool
		kind string
	}{
		{1, 0, true, "item"},
		{3, 3, true, engine.Fog},
		{0, 0, true, "empty"},
		{4, 0, false, ""},
	}
	for _, tt := range tests {
		cell, ok := s.Describe(tt.x, tt.y)
		if ok != tt.ok || cell.Kind != tt.kind {
			t.Errorf("Describe(%d,%d) = %+v %v, want %s %v", tt.x, tt.y, cell, ok, tt.kind, tt.ok)
		}
	}
}

func TestNew_InvalidMap(t *testing.T) {
	if _, err := New("x", config.Parse("size (0,3)")); !errors.Is(err, engine.ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
}
