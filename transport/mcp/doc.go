// Package mcp exposes the game to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call becomes a request to the
// REST API (see package api) and the JSON reply is rendered as text an
// agent can read. Grids use the legend
//
//	@ you   G goal   * item   # obstacle   . empty   ? not revealed
//
// Tools: create_session, list_sessions, get_session, list_maps,
// game_state, move, bulk_move, select_menu, describe_cell, event_history,
// reset_game and game_instructions.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080", log)
//	server.ServeStdio(client.GetMCPServer())
package mcp
