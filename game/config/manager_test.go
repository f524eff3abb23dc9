package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

func writeMapFile(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write map file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		writeMapFile(t, dir, "classic.map", scenarioMap)

		m, err := NewManager(dir, nil)
		if err != nil {
			t.Fatalf("NewManager() error = %v", err)
		}
		if def := m.GetDefault(); def == nil || def.Name != DefaultMapName {
			t.Errorf("default = %+v, want classic", def)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		if _, err := NewManager(filepath.Join(t.TempDir(), "nope"), nil); err == nil {
			t.Error("expected error for a missing directory")
		}
	})

	t.Run("empty directory falls back to built-in map", func(t *testing.T) {
		m, err := NewManager(t.TempDir(), nil)
		if err != nil {
			t.Fatal(err)
		}
		def := m.GetDefault()
		if def == nil || def.Width != 4 || len(def.Items) != 1 {
			t.Errorf("fallback default = %+v", def)
		}
	})

	t.Run("first map becomes default without classic", func(t *testing.T) {
		dir := t.TempDir()
		writeMapFile(t, dir, "beta.map", "size (2,2)")
		writeMapFile(t, dir, "alpha.map", "size (3,3)")

		m, err := NewManager(dir, nil)
		if err != nil {
			t.Fatal(err)
		}
		if def := m.GetDefault(); def.Name != "alpha" {
			t.Errorf("default = %q, want alpha", def.Name)
		}
	})
}

func TestManagerLoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeMapFile(t, dir, "classic.map", scenarioMap)
	writeMapFile(t, dir, "empty.map", "\n\n")
	writeMapFile(t, dir, "sloppy.map", "size (3,3)\nobstacle { at (1,1) }\n")
	wide, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().String("size (7,2)\n")
	if err != nil {
		t.Fatal(err)
	}
	writeMapFile(t, dir, "wide.utf16.map", wide)

	m, err := NewManager(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("loads and caches", func(t *testing.T) {
		a, err := m.LoadConfig("classic")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		b, _ := m.LoadConfig("classic")
		if a != b {
			t.Error("expected cached pointer on second load")
		}
	})

	t.Run("utf16 file by suffix", func(t *testing.T) {
		cfg, err := m.LoadConfig("wide")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Width != 7 || cfg.Height != 2 {
			t.Errorf("size = %dx%d", cfg.Width, cfg.Height)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if _, err := m.LoadConfig("missing"); !errors.Is(err, ErrMapNotFound) {
			t.Errorf("err = %v, want ErrMapNotFound", err)
		}
	})

	t.Run("path traversal is not found", func(t *testing.T) {
		if _, err := m.LoadConfig("../classic"); !errors.Is(err, ErrMapNotFound) {
			t.Errorf("err = %v, want ErrMapNotFound", err)
		}
	})

	t.Run("empty map is invalid", func(t *testing.T) {
		if _, err := m.LoadConfig("empty"); !errors.Is(err, ErrInvalidMap) {
			t.Errorf("err = %v, want ErrInvalidMap", err)
		}
	})

	t.Run("lenient map keeps diagnostics", func(t *testing.T) {
		cfg, err := m.LoadConfig("sloppy")
		if err != nil {
			t.Fatal(err)
		}
		if len(cfg.Diagnostics) != 1 {
			t.Errorf("diagnostics = %v", cfg.Diagnostics)
		}
	})

	t.Run("concurrent loads", func(t *testing.T) {
		m.RefreshCache()
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := m.LoadConfig("classic"); err != nil {
					t.Errorf("LoadConfig() error = %v", err)
				}
			}()
		}
		wg.Wait()
	})
}

func TestManagerListConfigs(t *testing.T) {
	dir := t.TempDir()
	writeMapFile(t, dir, "classic.map", scenarioMap)
	writeMapFile(t, dir, "broken.map", "")
	writeMapFile(t, dir, "readme.txt", "not a map")
	if err := os.Mkdir(filepath.Join(dir, "sub.map"), 0o755); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	infos, err := m.ListConfigs()
	if err != nil {
		t.Fatalf("ListConfigs() error = %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("got %d maps, want 1: %+v", len(infos), infos)
	}
	info := infos[0]
	if info.MapID != "classic" || info.Width != 4 || info.Items != 1 || info.Obstacles != 1 {
		t.Errorf("info = %+v", info)
	}
}

func TestManagerSetDefault(t *testing.T) {
	dir := t.TempDir()
	writeMapFile(t, dir, "classic.map", scenarioMap)
	writeMapFile(t, dir, "tiny.map", "size (1,1)")

	m, err := NewManager(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SetDefault("tiny"); err != nil {
		t.Fatalf("SetDefault() error = %v", err)
	}
	if m.GetDefault().Name != "tiny" {
		t.Errorf("default = %q", m.GetDefault().Name)
	}
	if err := m.SetDefault("missing"); !errors.Is(err, ErrMapNotFound) {
		t.Errorf("err = %v", err)
	}
}
