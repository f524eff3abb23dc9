package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/wricardo/gridquest/game/session"
	"github.com/wricardo/gridquest/logging"
)

const clearScreen = "\x1b[H\x1b[2J"

// Game plays one session in a terminal.
type Game struct {
	sess     *session.Session
	r        *Renderer
	in       io.Reader
	out      io.Writer
	log      logrus.FieldLogger
	messages []string
}

// NewGame wires a session to a renderer and the given streams.
func NewGame(sess *session.Session, r *Renderer, in io.Reader, out io.Writer, log logrus.FieldLogger) *Game {
	return &Game{
		sess: sess,
		r:    r,
		in:   in,
		out:  out,
		log:  logging.Or(log).WithField("component", "tui"),
	}
}

// Run draws the game and handles key presses until the player quits, in
// is exhausted or ctx is done. When in is a terminal it is switched to
// raw mode for the duration.
func (g *Game) Run(ctx context.Context) error {
	if f, ok := g.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		old, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return err
		}
		defer term.Restore(int(f.Fd()), old)

		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w < g.sess.Config.Width+2 {
			g.say(g.r.tr("The terminal is narrower than the map."))
		}
	}

	g.draw()
	buf := make([]byte, 8)
	for {
		if ctx.Err() != nil {
			return nil
		}
		n, err := g.in.Read(buf)
		if n > 0 && g.Handle(ParseKey(buf[:n])) {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		g.draw()
	}
}

// Handle applies one key and reports whether the player asked to quit.
func (g *Game) Handle(k Key) bool {
	switch k.Action {
	case ActionQuit:
		return true

	case ActionMove:
		res, err := g.sess.Move(string(k.Direction))
		if errors.Is(err, session.ErrGameWon) {
			return false
		}
		if err != nil {
			g.log.WithError(err).Warn("move failed")
			return false
		}
		g.report(res)

	case ActionMenu:
		menu := g.sess.State().Menu
		if k.Menu >= len(menu) {
			return false
		}
		res, err := g.sess.SelectMenu(menu[k.Menu].Extension)
		if err != nil {
			if !errors.Is(err, session.ErrGameWon) {
				g.log.WithError(err).Warn("menu selection failed")
			}
			return false
		}
		g.report(res)

	case ActionReset:
		if err := g.sess.Reset(); err != nil {
			g.log.WithError(err).Error("reset failed")
			return false
		}
		g.messages = nil
		g.say(g.r.tr("The map has been reset."))
	}
	return false
}

// Messages returns the messages shown so far, oldest first.
func (g *Game) Messages() []string {
	return g.messages
}

func (g *Game) report(res *session.Result) {
	if res.Message != "" {
		g.say(res.Message)
	}
	if len(res.Missing) > 0 {
		g.say(g.r.tr("You still need: %s", strings.Join(res.Missing, ", ")))
	}
	for _, e := range res.Events {
		if e.Type == session.EventMove || e.Type == session.EventItem {
			continue
		}
		g.say(e.Message)
	}
}

func (g *Game) say(msg string) {
	g.messages = append(g.messages, msg)
	if len(g.messages) > MaxMessages {
		g.messages = g.messages[len(g.messages)-MaxMessages:]
	}
}

func (g *Game) draw() {
	frame := g.r.Frame(g.sess.Config.Name, g.sess.State(), g.messages)
	// raw mode does not translate newlines
	io.WriteString(g.out, clearScreen+strings.ReplaceAll(frame, "\n", "\r\n"))
}
