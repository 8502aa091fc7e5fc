// Package websocket provides WebSocket transport for the 512 sliding tile
// game.
//
// The websocket package implements:
//   - Real-time state broadcasting to connected clients
//   - Session-aware WebSocket connections
//   - Per-tile event streaming through the board's listener protocol
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// goroutine that manages reading, writing, and cleanup.
//
// Message Protocol:
//
// Messages are JSON-encoded with the following structure:
//   - State updates: {session_id, event: "state_update", game_state: {...}}
//   - Tile events: {session_id, event: "tile_created" | "tile_updated" |
//     "tile_removed", data: {row, col, value}}
//
// Tile events come from a TileBroadcaster subscribed to the session's board,
// so clients can animate individual tile moves and merges instead of
// re-rendering the whole grid.
//
// Session Integration:
//
// WebSocket connections are session-aware. Clients specify their session ID
// via query parameter (?session=abc1) when establishing the connection.
// Updates are broadcast only to clients connected to the same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// inside the HTTP handler for /ws
//	hub.ServeWS(w, r, sessionID)
//
// Concurrency:
//
// The hub and client handlers are designed for concurrent operation.
// Multiple clients can connect, disconnect, and send messages simultaneously
// without blocking each other.
package websocket
