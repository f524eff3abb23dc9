// Package api exposes the game service over HTTP.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions {"map": "classic"} - start a game (default map when empty)
//   - GET /api/sessions?sort=created|accessed&order=asc|desc&limit=N
//   - GET /api/sessions/{id}
//   - DELETE /api/sessions/{id}
//
// Play:
//   - GET /api/sessions/{id}/state
//   - POST /api/sessions/{id}/move {"direction": "up"}
//   - POST /api/sessions/{id}/bulk-move {"moves": ["up", "left"]}
//   - POST /api/sessions/{id}/menu {"extension": "Teleport"}
//   - POST /api/sessions/{id}/reset
//   - GET /api/sessions/{id}/history?page=1&limit=20&order=desc
//   - GET /api/sessions/{id}/cells/{x}/{y}
//
// Maps:
//   - GET /api/maps
//   - GET /api/maps/{name}
//
// Other:
//   - GET /ws?session={id} - live state updates (only when a hub is configured)
//   - GET /health
//
// Errors are returned as {"error": "...", "hint": "..."}. Unknown sessions,
// maps and extensions map to 404, malformed input to 400 and actions on a
// finished game to 409.
package api
