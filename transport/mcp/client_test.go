package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/gridquest/api"
	"github.com/wricardo/gridquest/game/config"
	"github.com/wricardo/gridquest/game/engine"
	"github.com/wricardo/gridquest/game/service"
	"github.com/wricardo/gridquest/game/session"
)

const corridorMap = `size (5,1)
start (0,0)
goal (4,0)
item "Badge" {
    at (1,0)
}
obstacle {
    at (3,0)
    requires "Badge"
}
plugin Teleport
`

func newTestClient(t *testing.T) *Client {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "classic.map"), []byte(corridorMap), 0o644); err != nil {
		t.Fatal(err)
	}
	maps, err := config.NewManager(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	sessions := session.NewManager()
	t.Cleanup(sessions.CloseAll)

	srv := httptest.NewServer(api.NewServer(service.NewGameService(sessions, maps, nil), nil, nil))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", nil)
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	request := mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result == nil || len(result.Content) == 0 {
		t.Fatal("empty result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text, result.IsError
}

func createSession(t *testing.T, c *Client) string {
	t.Helper()
	text, isErr := call(t, c.handleCreateSession, map[string]any{})
	if isErr {
		t.Fatalf("create_session failed: %s", text)
	}
	line, _, _ := strings.Cut(text, "\n")
	return strings.TrimPrefix(line, "Created session: ")
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/", nil)

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestToolsList(t *testing.T) {
	client := NewClient("http://localhost:8080", nil)

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	resp := client.GetMCPServer().HandleMessage(context.Background(), msg)
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}

	for _, tool := range []string{
		"create_session", "list_sessions", "get_session", "game_state", "move",
		"bulk_move", "select_menu", "reset_game", "event_history", "list_maps",
		"game_instructions", "describe_cell",
	} {
		if !strings.Contains(string(data), `"`+tool+`"`) {
			t.Errorf("tool %s not listed", tool)
		}
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "map not found", "hint": "available maps: classic"})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	err := client.apiCall(context.Background(), "GET", "/api/maps/x", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "map not found") || !strings.Contains(err.Error(), "classic") {
		t.Errorf("unexpected error %v", err)
	}

	bare := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bare.Close()
	err = NewClient(bare.URL, nil).apiCall(context.Background(), "GET", "/", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestClient_apiCall_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", nil)
	client.httpClient.Timeout = 200 * time.Millisecond

	text, isErr := call(t, client.handleListSessions, map[string]any{})
	if !isErr || text == "" {
		t.Errorf("expected a tool error, got %q", text)
	}
}

func TestClient_Gameplay(t *testing.T) {
	client := newTestClient(t)
	id := createSession(t, client)
	if len(id) != 4 {
		t.Fatalf("unexpected session id %q", id)
	}

	text, _ := call(t, client.handleGameState, map[string]any{"session_id": id})
	for _, want := range []string{"Position: (0,0)", "Day: 0", "Inventory: (empty)", "@*?", "[Teleport]"} {
		if !strings.Contains(text, want) {
			t.Errorf("game_state missing %q:\n%s", want, text)
		}
	}

	text, isErr := call(t, client.handleMove, map[string]any{"session_id": id, "direction": "right", "intent": "grab the badge"})
	if isErr || !strings.Contains(text, "✓ Move successful: right (0,0)→(1,0)") || !strings.Contains(text, "You picked up Badge.") {
		t.Errorf("move:\n%s", text)
	}

	text, isErr = call(t, client.handleMove, map[string]any{"session_id": id, "direction": "up"})
	if isErr || !strings.Contains(text, "✗ Move failed") {
		t.Errorf("blocked move:\n%s", text)
	}

	text, isErr = call(t, client.handleMove, map[string]any{"session_id": id, "direction": "sideways"})
	if !isErr || !strings.Contains(text, "invalid direction") {
		t.Errorf("invalid direction:\n%s", text)
	}

	text, _ = call(t, client.handleDescribeCell, map[string]any{"session_id": id, "x": 3, "y": 0})
	if !strings.Contains(text, "Kind: fog") {
		t.Errorf("describe_cell:\n%s", text)
	}

	text, isErr = call(t, client.handleBulkMove, map[string]any{"session_id": id, "moves": []any{"right", "right", "right"}})
	if isErr || !strings.Contains(text, "Executed 3/3 moves") || !strings.Contains(text, "VICTORY") {
		t.Errorf("bulk_move:\n%s", text)
	}

	text, _ = call(t, client.handleEventHistory, map[string]any{"session_id": id, "limit": 2})
	if !strings.Contains(text, "page 1/") || !strings.Contains(text, "[won]") {
		t.Errorf("event_history:\n%s", text)
	}

	text, isErr = call(t, client.handleReset, map[string]any{"session_id": id})
	if isErr || !strings.Contains(text, "Position: (0,0)") {
		t.Errorf("reset_game:\n%s", text)
	}
}

func TestClient_SelectMenu(t *testing.T) {
	client := newTestClient(t)
	id := createSession(t, client)

	text, isErr := call(t, client.handleSelectMenu, map[string]any{"session_id": id, "extension": "Teleport"})
	if isErr || !strings.Contains(text, "✓ Menu action Teleport") {
		t.Errorf("select_menu:\n%s", text)
	}

	text, isErr = call(t, client.handleSelectMenu, map[string]any{"session_id": id, "extension": "Nope"})
	if !isErr || !strings.Contains(text, "extension not found") {
		t.Errorf("unknown extension:\n%s", text)
	}

	_, isErr = call(t, client.handleSelectMenu, map[string]any{"session_id": id})
	if !isErr {
		t.Error("missing extension should be a tool error")
	}
}

func TestClient_SessionsAndMaps(t *testing.T) {
	client := newTestClient(t)
	id := createSession(t, client)

	text, _ := call(t, client.handleListSessions, map[string]any{})
	if !strings.Contains(text, "Active Sessions (1)") || !strings.Contains(text, id) {
		t.Errorf("list_sessions:\n%s", text)
	}

	text, _ = call(t, client.handleGetSession, map[string]any{"session_id": id})
	if !strings.Contains(text, "Map: classic") {
		t.Errorf("get_session:\n%s", text)
	}

	text, isErr := call(t, client.handleGetSession, map[string]any{"session_id": "zzzz"})
	if !isErr || !strings.Contains(text, "session not found") {
		t.Errorf("unknown session:\n%s", text)
	}

	text, _ = call(t, client.handleListMaps, map[string]any{})
	if !strings.Contains(text, "- classic: 5x1, 1 items, 1 obstacles, 1 extensions") {
		t.Errorf("list_maps:\n%s", text)
	}

	text, isErr = call(t, client.handleCreateSession, map[string]any{"map": "atlantis"})
	if !isErr || !strings.Contains(text, "available maps: classic") {
		t.Errorf("unknown map:\n%s", text)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080", nil)

	text, _ := call(t, client.handleGameInstructions, map[string]any{})
	for _, content := range []string{"GAME OBJECTIVE:", "GRID LEGEND:", "@ = You", "select_menu"} {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions", content)
		}
	}
}

func TestFormatGameState(t *testing.T) {
	goal := engine.Position{X: 2, Y: 1}
	state := &session.State{
		Snapshot: engine.Snapshot{
			Width:  3,
			Height: 2,
			Grid: [][]engine.SnapshotCell{
				{{Kind: "empty"}, {Kind: "item", Item: "Key"}, {Kind: "obstacle", Requires: []string{"Key"}}},
				{{Kind: "fog"}, {Kind: "empty"}, {Kind: "goal"}},
			},
			Player:    engine.Position{X: 0, Y: 0},
			Goal:      &goal,
			Inventory: map[string]int{"Map": 1, "Coin": 3},
			Day:       2,
			Date:      "2024-03-03",
		},
	}

	text := formatGameState(state)
	for _, want := range []string{"@*#\n?.G\n", "Goal: (2,1) | Distance: 3", "Inventory: Coin x3, Map", "Date: 2024-03-03"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}

	if got := possibleMoves(state); len(got) != 1 || got[0] != "right" {
		t.Errorf("possibleMoves = %v, want [right]", got)
	}

	if formatGameState(nil) != "No game state available" {
		t.Error("nil state not handled")
	}
}
