// Package api provides HTTP REST API handlers for the 512 sliding tile game.
//
// The api package implements:
//   - RESTful endpoints for game operations
//   - Session management endpoints
//   - Configuration listing and creation
//   - WebSocket upgrade handling
//   - Static file serving
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session
//   - GET /api/sessions - List all sessions
//   - GET /api/sessions/unified - Aggregated multi-session view
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Get current game state
//   - POST /api/sessions/{id}/move - Execute a single move
//   - POST /api/sessions/{id}/bulk-move - Execute a sequence of moves
//   - POST /api/sessions/{id}/reset - Reset the game
//   - GET /api/sessions/{id}/history - Get move history with pagination
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - POST /api/configs - Save a new configuration
//   - GET /api/configs/{name} - Get a specific configuration
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Moves are sent as POST with a JSON
// body:
//
//	{
//	  "direction": "up|down|left|right",
//	  "reset": true|false              // optional reset before move
//	}
//
// Bulk moves take {"moves": ["up", "left", ...]} instead of a single
// direction.
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api

//
// Enriched Responses (Move and Bulk Move)
//
// Move (POST /api/sessions/{id}/move)
//   Response:
//     - step: { idx, dir, score_before, score_after, merges, spawned{row,col,value}, success, victory? }
//     - events: [{ type: "move|merge|spawn|victory|game_over|reset", message, timestamp, tile? }]
//
// Bulk Move (POST /api/sessions/{id}/bulk-move)
//   Response:
//     - requested_moves, moves_executed
//     - stopped_reason (text), stop_reason_code (blocked|game_over|victory), stopped_on_move (1-based), truncated, limit
//     - steps: [{ idx, dir, score_before, score_after, merges, spawned?, success, victory? }]
//     - start_score, end_score, score_delta, start_highest, end_highest
//     - possible_moves: ["up","right"]
