package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/gridquest/logging"
)

var (
	ErrMapNotFound = errors.New("map not found")
	ErrInvalidMap  = errors.New("invalid map")
)

// DefaultMapName is loaded as the default when present in the map directory.
const DefaultMapName = "classic"

// fallbackMap is used when the map directory holds nothing usable.
const fallbackMap = `size (4,4)
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

// Info summarises a map file for listings.
type Info struct {
	Filename    string `json:"filename"`
	MapID       string `json:"map_id"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Items       int    `json:"items"`
	Obstacles   int    `json:"obstacles"`
	Plugins     int    `json:"plugins"`
	Scripts     int    `json:"scripts"`
	Diagnostics int    `json:"diagnostics"`
}

// Manager loads map files from a directory and caches the parsed result.
type Manager struct {
	mapDir        string
	parser        *Parser
	log           logrus.FieldLogger
	defaultConfig *GameConfig
	configs       map[string]*GameConfig
	mu            sync.RWMutex
}

// NewManager creates a manager over mapDir, which must exist.
func NewManager(mapDir string, log logrus.FieldLogger) (*Manager, error) {
	if _, err := os.Stat(mapDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("map directory does not exist: %s", mapDir)
	}

	log = logging.Or(log)
	m := &Manager{
		mapDir:  mapDir,
		parser:  NewParser(log),
		log:     log.WithField("component", "maps"),
		configs: make(map[string]*GameConfig),
	}
	m.loadDefaultConfig()
	return m, nil
}

// LoadConfig returns the parsed map called name, reading it on first use.
func (m *Manager) LoadConfig(name string) (*GameConfig, error) {
	m.mu.RLock()
	if cfg, ok := m.configs[name]; ok {
		m.mu.RUnlock()
		return cfg, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if cfg, ok := m.configs[name]; ok {
		return cfg, nil
	}

	path, err := m.findFile(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}
	text, err := Decode(filepath.Base(path), data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}

	cfg := m.parser.Parse(text)
	cfg.Name = name
	if cfg.Empty() {
		return nil, fmt.Errorf("%w: %s declares nothing", ErrInvalidMap, name)
	}
	if len(cfg.Diagnostics) > 0 {
		m.log.WithFields(logrus.Fields{"map": name, "diagnostics": len(cfg.Diagnostics)}).
			Warn("map loaded with dropped declarations")
	}

	m.configs[name] = cfg
	return cfg, nil
}

// ListConfigs describes every map file in the directory, sorted by id.
// Files that fail to load are skipped.
func (m *Manager) ListConfigs() ([]*Info, error) {
	entries, err := os.ReadDir(m.mapDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read map directory: %w", err)
	}

	var infos []*Info
	for _, entry := range entries {
		if entry.IsDir() || !IsMapFile(entry.Name()) {
			continue
		}
		name := MapName(entry.Name())
		cfg, err := m.LoadConfig(name)
		if err != nil {
			m.log.WithError(err).WithField("file", entry.Name()).Debug("skipping map")
			continue
		}
		infos = append(infos, &Info{
			Filename:    entry.Name(),
			MapID:       name,
			Width:       cfg.Width,
			Height:      cfg.Height,
			Items:       len(cfg.Items),
			Obstacles:   len(cfg.Obstacles),
			Plugins:     len(cfg.Plugins),
			Scripts:     len(cfg.Scripts),
			Diagnostics: len(cfg.Diagnostics),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].MapID < infos[j].MapID })
	return infos, nil
}

// GetDefault returns the default map.
func (m *Manager) GetDefault() *GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault makes the named map the default.
func (m *Manager) SetDefault(name string) error {
	cfg, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = cfg
	return nil
}

// RefreshCache drops every cached map so files are re-read on next use.
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.configs = make(map[string]*GameConfig)
	m.mu.Unlock()

	m.loadDefaultConfig()
}

// findFile resolves a map id to a file, trying each known suffix.
func (m *Manager) findFile(name string) (string, error) {
	if filepath.Base(name) != name {
		return "", fmt.Errorf("%w: %s", ErrMapNotFound, name)
	}
	for _, ext := range []string{MapExt, UTF8MapExt, UTF16MapExt, UTF32MapExt} {
		path := filepath.Join(m.mapDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrMapNotFound, name)
}

func (m *Manager) loadDefaultConfig() {
	cfg, err := m.LoadConfig(DefaultMapName)
	if err != nil {
		if infos, listErr := m.ListConfigs(); listErr == nil && len(infos) > 0 {
			cfg, err = m.LoadConfig(infos[0].MapID)
		}
	}
	if err != nil || cfg == nil {
		cfg = m.parser.Parse(fallbackMap)
		cfg.Name = "default"
	}

	m.mu.Lock()
	m.defaultConfig = cfg
	m.mu.Unlock()
}
