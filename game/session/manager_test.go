package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/gridquest/game/config"
)

func createTestConfig() *config.GameConfig {
	cfg := config.Parse(`size (5,5)
start (0,0)
goal (4,4)
item "Lamp" {
    at (2,0)
}
`)
	cfg.Name = "test"
	return cfg
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	cfg := createTestConfig()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", cfg)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.world == nil {
			t.Error("Expected world to be initialized")
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", cfg)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character session ID, got %q", session.ID)
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", cfg)
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", cfg)
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("invalid ID", func(t *testing.T) {
		_, err := manager.Create("a/b", cfg)
		if !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := manager.Create("invalid-test", config.Parse("goal (1,1)"))
		if err == nil {
			t.Error("Expected error for a map without a size")
		}
		if _, err := manager.Get("invalid-test"); !errors.Is(err, ErrSessionNotFound) {
			t.Error("Failed session should not be stored")
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create("get-test", createTestConfig())

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session != created {
			t.Errorf("Expected session '%s', got '%s'", created.ID, session.ID)
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session != created {
			t.Errorf("Expected same session regardless of case")
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		_, err := manager.Get("non-existent")
		if !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_GetOrCreate(t *testing.T) {
	manager := NewManager()
	cfg := createTestConfig()

	first, err := manager.GetOrCreate("new-session", cfg)
	if err != nil {
		t.Fatalf("Failed to get or create session: %v", err)
	}
	second, err := manager.GetOrCreate("new-session", cfg)
	if err != nil {
		t.Fatalf("Failed to get existing session: %v", err)
	}
	if first != second {
		t.Error("Expected the existing session to be returned")
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", manager.Count())
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	cfg := createTestConfig()
	cfg.Plugins = []string{"Prize"}

	sess, _ := manager.Create("delete-test", cfg)
	if sess.bus.Len() != 2 {
		t.Fatalf("Expected plugin and recorder on the bus, got %d", sess.bus.Len())
	}

	t.Run("delete existing session", func(t *testing.T) {
		if err := manager.Delete("DELETE-TEST"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if _, err := manager.Get("delete-test"); !errors.Is(err, ErrSessionNotFound) {
			t.Error("Expected session to be deleted")
		}
		if sess.bus.Len() != 1 {
			t.Errorf("Expected plugins to be unloaded, %d subscribers left", sess.bus.Len())
		}
	})

	t.Run("delete non-existent session", func(t *testing.T) {
		if err := manager.Delete("non-existent"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	cfg := createTestConfig()

	for _, id := range []string{"list-1", "list-2", "list-3"} {
		if _, err := manager.Create(id, cfg); err != nil {
			t.Fatal(err)
		}
	}

	sessions := manager.List()
	if len(sessions) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(sessions))
	}
	for i, want := range []string{"list-1", "list-2", "list-3"} {
		if sessions[i].ID != want {
			t.Errorf("sessions[%d] = %s, want %s", i, sessions[i].ID, want)
		}
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	cfg := createTestConfig()

	active, _ := manager.Create("active", cfg)
	expired, _ := manager.Create("expired", cfg)

	expired.LastAccessedAt = time.Now().Add(-2 * time.Hour)
	active.LastAccessedAt = time.Now()

	if deleted := manager.CleanupExpiredSessions(time.Hour); deleted != 1 {
		t.Errorf("Expected 1 session to be deleted, got %d", deleted)
	}
	if _, err := manager.Get("expired"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected expired session to be deleted")
	}
	if _, err := manager.Get("active"); err != nil {
		t.Error("Expected active session to still exist")
	}
}

func TestManager_MoveUpdatesLastAccessed(t *testing.T) {
	manager := NewManager()
	sess, _ := manager.Create("access-test", createTestConfig())
	original := sess.LastAccessedAt

	time.Sleep(10 * time.Millisecond)
	if _, err := sess.Move("right"); err != nil {
		t.Fatal(err)
	}
	if !sess.LastAccessedAt.After(original) {
		t.Error("Expected LastAccessedAt to be updated")
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	cfg := createTestConfig()

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			sess, err := manager.Create(fmt.Sprintf("c-%d", id), cfg)
			if err != nil {
				errs <- err
				return
			}
			if _, err := sess.Move("down"); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() != 50 {
		t.Errorf("Expected 50 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	cfg := createTestConfig()

	session1, _ := manager.Create("iso-1", cfg)
	session2, _ := manager.Create("iso-2", cfg)

	if _, err := session1.Move("right"); err != nil {
		t.Fatal(err)
	}

	if session2.world.Player().X != 0 {
		t.Error("Session 2 should not be affected by session 1 moves")
	}
	if session1.world.Player().X != 1 {
		t.Error("Session 1 should have moved")
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	cfg := createTestConfig()

	generatedIDs := make(map[string]bool)
	for i := 0; i < 50; i++ {
		session, err := manager.Create("", cfg)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if generatedIDs[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		generatedIDs[session.ID] = true
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got %d", len(session.ID))
		}
	}
}

func TestManager_CloseAll(t *testing.T) {
	manager := NewManager()
	manager.Create("a", createTestConfig())
	manager.Create("b", createTestConfig())

	manager.CloseAll()
	if manager.Count() != 0 {
		t.Errorf("Expected no sessions, got %d", manager.Count())
	}
}
