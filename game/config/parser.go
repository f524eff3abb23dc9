package config

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/gridquest/logging"
)

// Declaration keywords. A trimmed line that starts with one of these followed
// by whitespace opens a new declaration; every other line continues the
// current one.
const (
	KeywordSize     = "size"
	KeywordStart    = "start"
	KeywordGoal     = "goal"
	KeywordItem     = "item"
	KeywordObstacle = "obstacle"
	KeywordPlugin   = "plugin"
	KeywordScript   = "script"
)

var (
	keywordRe  = regexp.MustCompile(`^(size|start|goal|item|obstacle|plugin|script)(\s|$)`)
	pairRe     = regexp.MustCompile(`\(\s*(-?\d+)\s*,\s*(-?\d+)\s*\)`)
	quotedRe   = regexp.MustCompile(`"([^"]*)"`)
	atRe       = regexp.MustCompile(`\bat\b`)
	messageRe  = regexp.MustCompile(`\bmessage\b`)
	requiresRe = regexp.MustCompile(`\brequires\b`)
)

// Parser turns map declaration text into a GameConfig. It never fails:
// declarations it cannot use are dropped and reported as diagnostics.
type Parser struct {
	log logrus.FieldLogger
}

// NewParser returns a parser that reports dropped declarations to log.
// A nil logger discards them.
func NewParser(log logrus.FieldLogger) *Parser {
	return &Parser{log: logging.Or(log).WithField("component", "parser")}
}

// Parse is shorthand for NewParser(nil).Parse(text).
func Parse(text string) *GameConfig {
	return NewParser(nil).Parse(text)
}

type declaration struct {
	keyword string
	line    int
	text    strings.Builder
}

// Parse scans text line by line and returns the assembled configuration.
func (p *Parser) Parse(text string) *GameConfig {
	cfg := &GameConfig{}
	var cur *declaration

	flush := func() {
		if cur != nil {
			p.apply(cfg, cur)
		}
		cur = nil
	}

	for i, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		lineNo := i + 1

		if m := keywordRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			cur = &declaration{keyword: m[1], line: lineNo}
			cur.text.WriteString(trimmed)
			continue
		}

		if cur == nil {
			p.diagnose(cfg, lineNo, "", "text outside of any declaration ignored")
			continue
		}
		if cur.keyword == KeywordScript {
			cur.text.WriteString("\n")
			cur.text.WriteString(raw)
		} else {
			cur.text.WriteString(" ")
			cur.text.WriteString(trimmed)
		}
	}
	flush()

	return cfg
}

func (p *Parser) apply(cfg *GameConfig, d *declaration) {
	body := d.text.String()[len(d.keyword):]

	switch d.keyword {
	case KeywordSize, KeywordStart, KeywordGoal:
		pt, ok := firstPair(body)
		if !ok {
			p.diagnose(cfg, d.line, d.keyword, "no (x,y) pair found")
			return
		}
		switch d.keyword {
		case KeywordSize:
			cfg.Width, cfg.Height = pt.X, pt.Y
		case KeywordStart:
			cfg.Start = pt
		case KeywordGoal:
			cfg.Goal = pt
		}

	case KeywordItem:
		p.parseItem(cfg, d, body)

	case KeywordObstacle:
		p.parseObstacle(cfg, d, body)

	case KeywordPlugin:
		fields := strings.Fields(body)
		if len(fields) == 0 || fields[0] == "=" {
			p.diagnose(cfg, d.line, d.keyword, "missing extension reference")
			return
		}
		cfg.Plugins = append(cfg.Plugins, fields[0])

	case KeywordScript:
		script, ok := scriptBody(body)
		if !ok {
			p.diagnose(cfg, d.line, d.keyword, "missing or unterminated !{ ... } body")
			return
		}
		if strings.TrimSpace(script) == "" {
			p.diagnose(cfg, d.line, d.keyword, "empty script body")
			return
		}
		cfg.Scripts = append(cfg.Scripts, script)
	}
}

func (p *Parser) parseItem(cfg *GameConfig, d *declaration, body string) {
	loc := quotedRe.FindStringSubmatchIndex(body)
	if loc == nil || loc[3] == loc[2] {
		p.diagnose(cfg, d.line, d.keyword, "missing item name")
		return
	}
	name := body[loc[2]:loc[3]]
	rest := body[loc[1]:]

	at := atRe.FindStringIndex(rest)
	if at == nil {
		p.diagnose(cfg, d.line, d.keyword, "item "+strconv.Quote(name)+" has no 'at' clause")
		return
	}
	locPart := rest[at[1]:]
	var message string
	if mi := messageRe.FindStringIndex(locPart); mi != nil {
		if m := quotedRe.FindStringSubmatch(locPart[mi[1]:]); m != nil {
			message = m[1]
		}
		locPart = locPart[:mi[0]]
	}

	locs := allPairs(locPart)
	if len(locs) == 0 {
		p.diagnose(cfg, d.line, d.keyword, "item "+strconv.Quote(name)+" has no locations")
		return
	}
	cfg.addItem(Item{Name: name, Message: message, Locations: locs})
}

func (p *Parser) parseObstacle(cfg *GameConfig, d *declaration, body string) {
	req := requiresRe.FindStringIndex(body)
	if req == nil {
		p.diagnose(cfg, d.line, d.keyword, "missing 'requires' clause")
		return
	}

	var requires []string
	for _, m := range quotedRe.FindAllStringSubmatch(body[req[1]:], -1) {
		if m[1] == "" || slices.Contains(requires, m[1]) {
			continue
		}
		requires = append(requires, m[1])
	}
	if len(requires) == 0 {
		p.diagnose(cfg, d.line, d.keyword, "no required items listed")
		return
	}

	at := atRe.FindStringIndex(body[:req[0]])
	if at == nil {
		p.diagnose(cfg, d.line, d.keyword, "missing 'at' clause")
		return
	}
	locs := allPairs(body[at[1]:req[0]])
	if len(locs) == 0 {
		p.diagnose(cfg, d.line, d.keyword, "no locations listed")
		return
	}
	cfg.addObstacle(Obstacle{Locations: locs, Requires: requires})
}

func (p *Parser) diagnose(cfg *GameConfig, line int, keyword, msg string) {
	cfg.Diagnostics = append(cfg.Diagnostics, Diagnostic{Line: line, Keyword: keyword, Message: msg})
	p.log.WithFields(logrus.Fields{"line": line, "keyword": keyword}).Warn(msg)
}

// scriptBody returns the text between "!{" and the first "}" that closes
// depth zero. A body with an extra "}" is cut at that brace.
func scriptBody(s string) (string, bool) {
	open := strings.Index(s, "!{")
	if open < 0 {
		return "", false
	}
	start := open + 2
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return s[start:i], true
			}
			depth--
		}
	}
	return "", false
}

func firstPair(s string) (Point, bool) {
	m := pairRe.FindStringSubmatch(s)
	if m == nil {
		return Point{}, false
	}
	return toPoint(m)
}

func allPairs(s string) []Point {
	var pts []Point
	for _, m := range pairRe.FindAllStringSubmatch(s, -1) {
		if pt, ok := toPoint(m); ok {
			pts = append(pts, pt)
		}
	}
	return pts
}

func toPoint(m []string) (Point, bool) {
	x, err := strconv.Atoi(m[1])
	if err != nil {
		return Point{}, false
	}
	y, err := strconv.Atoi(m[2])
	if err != nil {
		return Point{}, false
	}
	return Point{X: x, Y: y}, true
}
