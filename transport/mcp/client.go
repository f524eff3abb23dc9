package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/gridquest/game/config"
	"github.com/wricardo/gridquest/game/engine"
	"github.com/wricardo/gridquest/game/service"
	"github.com/wricardo/gridquest/game/session"
	"github.com/wricardo/gridquest/logging"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
	log        logrus.FieldLogger
}

// NewClient creates a new MCP client that calls the REST API at baseURL
func NewClient(baseURL string, log logrus.FieldLogger) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: logging.Or(log).WithField("component", "mcp"),
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"GridQuest",
		Version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`GridQuest - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Walk from the start square to the goal. The map is hidden until you get
close: every step reveals the 3x3 block around you. Obstacles only let you
through once you carry every item they require. Each step takes one day.

AVAILABLE TOOLS:
- create_session: Start a game on a map
- list_sessions / get_session: Inspect running games
- list_maps: List available maps
- game_state: Current grid, inventory, date and menu
- move / bulk_move: Walk (up/down/left/right) - requires intent explanation
- select_menu: Trigger a menu action offered by an extension
- describe_cell: Details about one cell, including missing requirements
- event_history: What happened so far
- reset_game: Start the map over
- game_instructions: Full rules and grid legend

NOTE: The 'intent' parameter on move/bulk_move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session, optionally on a named map",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"map": map[string]any{
					"type":        "string",
					"description": "Map to play (optional, see list_maps)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the player one square",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"direction": map[string]any{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
				"intent": map[string]any{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Execute up to %d moves in sequence, stopping at the first blocked one", service.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"moves": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "string",
						"enum": []string{"up", "down", "left", "right"},
					},
					"description": "Array of moves",
				},
				"intent": map[string]any{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_menu",
		Description: "Select a menu action offered by an extension (see the Menu section of game_state)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"extension": map[string]any{
					"type":        "string",
					"description": "Name of the extension that offered the action",
				},
			},
			Required: []string{"session_id", "extension"},
		},
	}, c.handleSelectMenu)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to its initial state",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "event_history",
		Description: "Get the events of a session, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"page": map[string]any{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleEventHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_maps",
		Description: "List available maps",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListMaps)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get game instructions and the grid legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe one grid cell: what is there, what it requires and whether you can enter it now",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"x": map[string]any{
					"type":        "integer",
					"description": "X coordinate (column, 0-based)",
				},
				"y": map[string]any{
					"type":        "integer",
					"description": "Y coordinate (row, 0-based)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("path", path).Warn("api call failed")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			if hint := errResp["hint"]; hint != "" {
				return fmt.Errorf("%s (%s)", msg, hint)
			}
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func sessionPath(request mcp.CallToolRequest, suffix string) (string, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return "", err
	}
	return "/api/sessions/" + url.PathEscape(id) + suffix, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if name := request.GetString("map", ""); name != "" {
		body["map"] = name
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created session: %s\n%s", info.ID, formatSessionInfo(&info))), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "playing"
		if s.State != nil && s.State.Won {
			status = "won"
		}
		fmt.Fprintf(&b, "- %s (Map: %s, Created: %s, %s)\n",
			s.ID, s.MapName, s.CreatedAt.Format("15:04:05"), status)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "GET", path, nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state session.State
	if err := c.apiCall(ctx, "GET", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "/move")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	direction, err := request.RequireString("direction")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c.log.WithFields(logrus.Fields{"direction": direction, "intent": request.GetString("intent", "")}).Debug("move")

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", path, map[string]string{"direction": direction}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "/bulk-move")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	moves := request.GetStringSlice("moves", nil)
	if len(moves) == 0 {
		return mcp.NewToolResultError("moves must be a non-empty array of directions"), nil
	}
	c.log.WithFields(logrus.Fields{"moves": len(moves), "intent": request.GetString("intent", "")}).Debug("bulk move")

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", path, map[string][]string{"moves": moves}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(&result)), nil
}

func (c *Client) handleSelectMenu(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "/menu")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	extension, err := request.RequireString("extension")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", path, map[string]string{"extension": extension}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "/reset")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string         `json:"message"`
		State   *session.State `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message + "\n\n" + formatGameState(response.State)), nil
}

func (c *Client) handleEventHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "/history")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	query := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		query.Set("page", fmt.Sprint(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListMaps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var maps []config.Info
	if err := c.apiCall(ctx, "GET", "/api/maps", nil, &maps); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available maps:\n")
	for _, m := range maps {
		fmt.Fprintf(&b, "- %s: %dx%d, %d items, %d obstacles", m.MapID, m.Width, m.Height, m.Items, m.Obstacles)
		if m.Plugins+m.Scripts > 0 {
			fmt.Fprintf(&b, ", %d extensions", m.Plugins+m.Scripts)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `GridQuest - Complete Instructions

GAME OBJECTIVE:
Reach the goal square. You win the moment you step on it (or an extension
puts you there).

GRID LEGEND:
@ = You
G = Goal
* = Item (picked up automatically when you step on it)
# = Obstacle (passable once you hold every required item)
. = Empty
? = Not yet revealed

Row 0 is the top of the grid and x grows to the right.

RULES:
- Every successful step takes one day; the date advances with it.
- Moving off the grid or into an obstacle you cannot pass costs nothing.
- After each step the 3x3 block around you becomes visible.
- Items stay in your inventory; some maps place the same item several times.

EXTENSIONS:
Maps may load extensions that react to your moves, change the grid or add
menu actions. Menu actions are listed under "Menu" in game_state; use
select_menu with the extension name to trigger one.

STRATEGY:
1. Use describe_cell on an obstacle to see exactly which items are missing.
2. Explore fog systematically; items needed later are often off the direct path.
3. Prefer bulk_move for straight runs; it stops at the first blocked step
   and tells you why.

Good luck!`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	x, err := request.RequireInt("x")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	y, err := request.RequireInt("y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := sessionPath(request, fmt.Sprintf("/cells/%d/%d", x, y))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var cell service.CellInfo
	if err := c.apiCall(ctx, "GET", path, nil, &cell); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCell(&cell)), nil
}

// Formatting helpers

func formatSessionInfo(info *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nMap: %s\nCreated: %s\n",
		info.ID, info.MapName, info.CreatedAt.Format("2006-01-02 15:04:05"))
	if len(info.Diagnostics) > 0 {
		fmt.Fprintf(&b, "Map warnings: %d declarations ignored\n", len(info.Diagnostics))
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(info.State))
	return b.String()
}

// cellChar is the legend character for a snapshot cell.
func cellChar(cell engine.SnapshotCell) string {
	switch engine.CellKind(cell.Kind) {
	case engine.Item:
		return "*"
	case engine.Obstacle:
		return "#"
	case engine.Goal:
		return "G"
	case engine.Empty:
		return "."
	}
	return "?"
}

func formatGrid(state *session.State) string {
	var b strings.Builder
	for y, row := range state.Grid {
		for x, cell := range row {
			if x == state.Player.X && y == state.Player.Y {
				b.WriteString("@")
				continue
			}
			b.WriteString(cellChar(cell))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatGameState(state *session.State) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Position: (%d,%d) | Date: %s | Day: %d\n",
		state.Player.X, state.Player.Y, state.Date, state.Day)
	if state.Goal != nil {
		fmt.Fprintf(&b, "Goal: (%d,%d) | Distance: %d\n",
			state.Goal.X, state.Goal.Y, engine.ManhattanDistance(state.Player, *state.Goal))
	}

	if len(state.Inventory) > 0 {
		b.WriteString("Inventory: ")
		b.WriteString(formatInventory(state.Inventory))
		b.WriteString("\n")
	} else {
		b.WriteString("Inventory: (empty)\n")
	}
	b.WriteString("\n")
	b.WriteString(formatGrid(state))

	if len(state.Menu) > 0 {
		b.WriteString("\nMenu:\n")
		for _, opt := range state.Menu {
			fmt.Fprintf(&b, "- [%s] %s\n", opt.Extension, opt.Text)
		}
	}

	if state.Won {
		b.WriteString("\n🎉 VICTORY!")
	}
	return b.String()
}

func formatInventory(inv map[string]int) string {
	names := make([]string, 0, len(inv))
	for name := range inv {
		names = append(names, name)
	}
	slices.Sort(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		if inv[name] > 1 {
			parts = append(parts, fmt.Sprintf("%s x%d", name, inv[name]))
		} else {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ", ")
}

func formatEvents(b *strings.Builder, events []session.Event) {
	if len(events) == 0 {
		return
	}
	b.WriteString("Events:\n")
	for _, event := range events {
		fmt.Fprintf(b, "- %s: %s\n", event.Type, event.Message)
	}
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Result != nil {
		switch {
		case result.Action == session.EventMenu:
			fmt.Fprintf(&b, "✓ Menu action %s\n", result.Extension)
		case result.Moved:
			fmt.Fprintf(&b, "✓ Move successful: %s (%d,%d)→(%d,%d)\n",
				result.Direction, result.From.X, result.From.Y, result.To.X, result.To.Y)
		default:
			fmt.Fprintf(&b, "✗ Move failed: %s\n", result.Direction)
		}
		if result.Message != "" {
			b.WriteString(result.Message + "\n")
		}
		if len(result.Missing) > 0 {
			fmt.Fprintf(&b, "Missing: %s\n", strings.Join(result.Missing, ", "))
		}
		formatEvents(&b, result.Events)
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.State))
	return b.String()
}

func formatBulkMoveResult(result *service.BulkMoveResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Executed %d/%d moves (%d,%d)→(%d,%d)\n",
		result.MovesExecuted, result.RequestedMoves,
		result.StartPos.X, result.StartPos.Y, result.EndPos.X, result.EndPos.Y)
	if result.Truncated {
		fmt.Fprintf(&b, "Only the first %d moves were used\n", result.Limit)
	}
	if result.StopReasonCode != "" {
		fmt.Fprintf(&b, "Stopped on move %d: %s\n", result.StoppedOnMove, result.StopReasonCode)
	}
	if len(result.Picked) > 0 {
		fmt.Fprintf(&b, "Picked up: %s\n", strings.Join(result.Picked, ", "))
	}
	if n := len(result.Steps); n > 0 && !result.Steps[n-1].Moved {
		last := result.Steps[n-1]
		b.WriteString(last.Message + "\n")
		if len(last.Missing) > 0 {
			fmt.Fprintf(&b, "Missing: %s\n", strings.Join(last.Missing, ", "))
		}
	}

	if moves := possibleMoves(result.State); len(moves) > 0 {
		fmt.Fprintf(&b, "Possible moves: %s\n", strings.Join(moves, ","))
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.State))
	return b.String()
}

// possibleMoves lists directions leading to a revealed cell the player can
// enter with the current inventory.
func possibleMoves(state *session.State) []string {
	if state == nil {
		return nil
	}
	var moves []string
	for _, dir := range engine.Directions {
		dx, dy := dir.Delta()
		x, y := state.Player.X+dx, state.Player.Y+dy
		if y < 0 || y >= len(state.Grid) || x < 0 || x >= len(state.Grid[y]) {
			continue
		}
		cell := state.Grid[y][x]
		if cell.Kind == engine.Fog {
			continue
		}
		ok := true
		for _, r := range cell.Requires {
			if state.Inventory[r] < 1 {
				ok = false
				break
			}
		}
		if ok {
			moves = append(moves, string(dir))
		}
	}
	return moves
}

func formatCell(cell *service.CellInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cell at position (%d, %d):\n━━━━━━━━━━━━━━━━━━━━━━━━\n", cell.X, cell.Y)
	fmt.Fprintf(&b, "Kind: %s\n", cell.Kind)
	if cell.Item != "" {
		fmt.Fprintf(&b, "Item: %s\n", cell.Item)
	}
	if len(cell.Requires) > 0 {
		fmt.Fprintf(&b, "Requires: %s\n", strings.Join(cell.Requires, ", "))
	}
	if len(cell.Missing) > 0 {
		fmt.Fprintf(&b, "Missing: %s\n", strings.Join(cell.Missing, ", "))
	}
	fmt.Fprintf(&b, "Enterable now: %v\n", cell.Enterable)
	fmt.Fprintf(&b, "Distance from you: %d", cell.Distance)
	if cell.Kind == engine.Fog {
		b.WriteString("\nThis cell has not been revealed yet.")
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Events (page %d/%d, %d total):\n", history.Page, history.TotalPages, history.TotalEvents)
	for _, e := range history.Events {
		fmt.Fprintf(&b, "- %s [%s] %s\n", e.Timestamp.Format("15:04:05"), e.Type, e.Message)
	}
	if history.HasNext {
		fmt.Fprintf(&b, "More events on page %d\n", history.Page+1)
	}
	return b.String()
}
