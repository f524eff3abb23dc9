// Package websocket pushes game state to browsers watching a session.
//
// A Hub keeps the connected clients grouped by session id (compared
// case-insensitively). After every move, menu selection or reset the API
// calls BroadcastToSession and each client of that session receives
//
//	{"session_id": "ab12", "event": "state_update", "state": {...}}
//
// Clients connect to /ws?session=<id>. Anything they send is ignored;
// reading only keeps the ping/pong deadline alive. A client whose send
// buffer is full is dropped.
//
// Usage:
//
//	hub := websocket.NewHub(log)
//	go hub.Run(ctx)
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
