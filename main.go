// Command gridquest serves, plays and checks grid exploration maps.
//
// Commands:
//  1. "serve" – runs the HTTP server exposing the REST API, WebSocket updates and an /mcp endpoint
//  2. "play" – plays a map in the terminal
//  3. "mcp" – runs an MCP stdio server, starting an internal HTTP API if none is reachable
//  4. "check" – validates map files and exits non-zero if any is invalid
//
// Defaults come from the environment (and an optional .env file); flags
// override them.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/gridquest/game/config"
	"github.com/wricardo/gridquest/game/plugin"
	"github.com/wricardo/gridquest/game/plugin/builtin"
	"github.com/wricardo/gridquest/game/session"
	"github.com/wricardo/gridquest/logging"
	"github.com/wricardo/gridquest/settings"
	"github.com/wricardo/gridquest/tui"
	"github.com/wricardo/gridquest/validate"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "GridQuest"
)

func main() {
	s, err := settings.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand(s).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newCommand builds the CLI with defaults taken from s.
func newCommand(s settings.Settings) *cli.Command {
	return &cli.Command{
		Name:    "gridquest",
		Usage:   "explore grid maps with pluggable extensions",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: s.LogLevel, Usage: "logrus level (debug, info, warn, error)"},
			&cli.StringFlag{Name: "log-format", Value: s.LogFormat, Usage: "text or json"},
			&cli.StringFlag{Name: "map-dir", Value: s.MapDir, Usage: "directory containing .map files"},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP server (REST API, WebSocket and /mcp)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "host", Value: s.Host},
					&cli.IntFlag{Name: "port", Value: s.Port},
					&cli.BoolFlag{Name: "ngrok", Value: s.Ngrok.Enabled, Usage: "also serve through an ngrok tunnel"},
					&cli.StringFlag{Name: "ngrok-auth", Value: s.Ngrok.AuthToken, Usage: "ngrok auth token"},
					&cli.StringFlag{Name: "ngrok-domain", Value: s.Ngrok.Domain, Usage: "custom ngrok domain (optional)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					log := newLogger(cmd)
					svc, sessions, err := initializeServices(cmd.String("map-dir"), log)
					if err != nil {
						return err
					}
					go sessionCleanupRoutine(ctx, sessions, log)

					return runHTTPServer(ctx, svc, serverOptions{
						addr:        fmt.Sprintf("%s:%d", cmd.String("host"), int(cmd.Int("port"))),
						ngrok:       cmd.Bool("ngrok"),
						ngrokAuth:   cmd.String("ngrok-auth"),
						ngrokDomain: cmd.String("ngrok-domain"),
					}, log)
				},
			},
			{
				Name:      "play",
				Usage:     "play a map in the terminal",
				ArgsUsage: "<map name or file>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "locale", Value: s.Locale, Usage: "UI language"},
					&cli.StringFlag{Name: "locale-dir", Value: s.LocaleDir},
					&cli.StringFlag{Name: "log-file", Usage: "write logs here instead of discarding them"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					log := newLogger(cmd)
					log.SetOutput(io.Discard)
					if path := cmd.String("log-file"); path != "" {
						f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
						if err != nil {
							return err
						}
						defer f.Close()
						log.SetOutput(f)
					}

					cfg, err := loadMap(cmd.String("map-dir"), cmd.Args().First(), log)
					if err != nil {
						return err
					}
					sess, err := session.New("local", cfg, session.WithLogger(log))
					if err != nil {
						return err
					}
					defer sess.Close()

					r := tui.NewRenderer(tui.LoadLocale(cmd.String("locale-dir"), cmd.String("locale")))
					return tui.NewGame(sess, r, os.Stdin, os.Stdout, log).Run(ctx)
				},
			},
			{
				Name:  "mcp",
				Usage: "run an MCP stdio server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "api-url", Value: fmt.Sprintf("http://localhost:%d", s.Port), Usage: "REST API to use when it is reachable"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					log := newLogger(cmd)
					svc, _, err := initializeServices(cmd.String("map-dir"), log)
					if err != nil {
						return err
					}
					return runStdioMCP(ctx, svc, cmd.String("api-url"), log)
				},
			},
			{
				Name:      "check",
				Usage:     "validate map files",
				ArgsUsage: "<file.map>...",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					paths := cmd.Args().Slice()
					if len(paths) == 0 {
						return cli.Exit("check: no map files given", 2)
					}
					if invalid := runCheck(os.Stdout, newRegistry(newLogger(cmd)), paths); invalid > 0 {
						return cli.Exit(fmt.Sprintf("%d of %d maps are invalid", invalid, len(paths)), 1)
					}
					return nil
				},
			},
		},
	}
}

func newLogger(cmd *cli.Command) *logrus.Logger {
	return logging.New(cmd.String("log-level"), cmd.String("log-format"))
}

// newRegistry returns a registry holding the built-in extensions.
func newRegistry(log logrus.FieldLogger) *plugin.Registry {
	reg := plugin.NewRegistry()
	if err := builtin.Register(reg); err != nil {
		log.WithError(err).Error("failed to register built-in plugins")
	}
	return reg
}

// loadMap resolves arg as a map file when it names one, or as a map id in
// mapDir otherwise. An empty arg selects the default map.
func loadMap(mapDir, arg string, log logrus.FieldLogger) (*config.GameConfig, error) {
	if arg != "" && config.IsMapFile(arg) {
		if _, err := os.Stat(arg); err == nil {
			data, err := os.ReadFile(arg)
			if err != nil {
				return nil, err
			}
			text, err := config.Decode(filepath.Base(arg), data)
			if err != nil {
				return nil, err
			}
			cfg := config.NewParser(log).Parse(text)
			cfg.Name = config.MapName(filepath.Base(arg))
			return cfg, nil
		}
	}

	maps, err := config.NewManager(mapDir, log)
	if err != nil {
		return nil, err
	}
	if arg == "" {
		return maps.GetDefault(), nil
	}
	return maps.LoadConfig(config.MapName(arg))
}

// runCheck validates every path, prints a report to w and returns how many
// maps were invalid.
func runCheck(w io.Writer, reg *plugin.Registry, paths []string) int {
	invalid := 0
	for _, path := range paths {
		result := validate.ValidateFile(path, reg)
		status := "OK"
		if !result.Valid {
			status = "INVALID"
			invalid++
		}
		fmt.Fprintf(w, "%s: %s\n", path, status)
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  error: %s\n", e)
		}
		for _, warn := range result.Warnings {
			fmt.Fprintf(w, "  warning: %s\n", warn)
		}
		for _, info := range result.Info {
			fmt.Fprintf(w, "  %s\n", info)
		}
	}
	return invalid
}
