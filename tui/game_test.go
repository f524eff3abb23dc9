package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/wricardo/gridquest/game/config"
	"github.com/wricardo/gridquest/game/engine"
	"github.com/wricardo/gridquest/game/session"
)

const corridor = `size (4,1)
start (0,0)
goal (3,0)
item "Badge" {
    at (1,0)
    message "A visitor badge."
}
obstacle {
    at (2,0)
    requires "Badge" "Pass"
}
plugin Teleport
`

func newGame(t *testing.T, in string) (*Game, *session.Session, *bytes.Buffer) {
	t.Helper()
	cfg := config.Parse(corridor)
	cfg.Name = "corridor"
	sess, err := session.New("t1", cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(sess.Close)

	out := &bytes.Buffer{}
	return NewGame(sess, NewRenderer(nil), strings.NewReader(in), out, nil), sess, out
}

func TestGameHandle(t *testing.T) {
	g, sess, _ := newGame(t, "")

	if g.Handle(Key{Action: ActionMove, Direction: engine.Right}) {
		t.Fatal("move should not quit")
	}
	if sess.State().Player != (engine.Position{X: 1}) {
		t.Fatalf("player = %+v", sess.State().Player)
	}

	g.Handle(Key{Action: ActionMove, Direction: engine.Right})
	msgs := g.Messages()
	if len(msgs) != 3 || msgs[0] != "A visitor badge." || msgs[2] != "You still need: Pass" {
		t.Errorf("messages = %q", msgs)
	}

	g.Handle(Key{Action: ActionMenu, Menu: 5})
	g.Handle(Key{Action: ActionMenu, Menu: 0})
	if got := g.Messages(); got[len(got)-1] != "Selected Teleport" {
		t.Errorf("menu selection not reported: %q", got)
	}

	g.Handle(Key{Action: ActionReset})
	if sess.State().Player != (engine.Position{}) || len(g.Messages()) != 1 {
		t.Errorf("reset: player %+v messages %q", sess.State().Player, g.Messages())
	}

	if !g.Handle(Key{Action: ActionQuit}) {
		t.Error("quit key should quit")
	}
}

func TestGameRun(t *testing.T) {
	g, sess, out := newGame(t, "d")

	if err := g.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if sess.State().Player.X != 1 {
		t.Errorf("player = %+v", sess.State().Player)
	}
	if !strings.Contains(out.String(), "\r\n") || !strings.Contains(out.String(), clearScreen) {
		t.Error("frames should be written for a raw terminal")
	}
	if !strings.Contains(out.String(), "corridor") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestGameRunQuits(t *testing.T) {
	g, sess, _ := newGame(t, "q")
	g.Run(context.Background())
	if sess.State().Player.X != 0 {
		t.Error("quit should not move")
	}
}
