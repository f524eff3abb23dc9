// Package settings loads process settings from the environment, after
// reading an optional .env file.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Settings holds everything the CLI needs before flags are applied.
type Settings struct {
	Host      string `env:"HOST"       envDefault:"localhost"`
	Port      int    `env:"PORT"       envDefault:"8080"`
	MapDir    string `env:"MAP_DIR"    envDefault:"maps"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	Locale    string `env:"LOCALE"     envDefault:"en"`
	LocaleDir string `env:"LOCALE_DIR" envDefault:"locales"`

	Ngrok Ngrok `envPrefix:"NGROK_"`
}

// Ngrok configures the optional public tunnel for the HTTP server.
type Ngrok struct {
	Enabled   bool   `env:"ENABLED"`
	AuthToken string `env:"AUTHTOKEN"`
	Domain    string `env:"DOMAIN"`
}

// Load reads files (default ".env") into the environment without
// overriding variables that are already set, then parses Settings.
// Missing files are ignored.
func Load(files ...string) (Settings, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

// Addr is the host:port the HTTP server listens on.
func (s Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
