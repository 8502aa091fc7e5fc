// Package mcp provides Model Context Protocol server implementation for the 512 sliding tile game.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for game operations
//   - Session-aware command execution
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - game_state: Get current game state with a rendered board
//   - move: Execute a single directional slide
//   - bulk_move: Execute multiple moves in sequence
//   - reset_game: Reset game to a fresh board
//   - move_history: Retrieve move history with pagination
//   - create_session: Create new game session with config selection
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - list_configs: List available game configurations
//   - game_instructions: Full rules and strategy notes
//   - describe_tile: Inspect a single board cell and its merge candidates
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: HTTP endpoint for remote MCP integration
//
// Architecture:
//
// The Client type is a thin proxy: every tool call is translated into a
// REST call against the API server, and the JSON response is formatted
// into text for the agent. Game state never lives in this package.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Autonomously play the game
//   - Develop and test merge strategies
//   - Analyze board states and make decisions
//   - Manage multiple game sessions
//   - Learn from move history
package mcp
