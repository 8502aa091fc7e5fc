package service

import (
	"time"

	"github.com/slidegame/fivetwelve/game/engine"
	"github.com/slidegame/fivetwelve/game/model"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success   bool              `json:"success"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
	Step      *StepInfo         `json:"step,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // blocked|game_over|victory
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartScore   int `json:"start_score"`
	EndScore     int `json:"end_score"`
	ScoreDelta   int `json:"score_delta"`
	StartHighest int `json:"start_highest"`
	EndHighest   int `json:"end_highest"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Final status aids
	GameOver      bool     `json:"game_over"`
	Victory       bool     `json:"victory,omitempty"`
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record for each executed move in the bulk call
type StepInfo struct {
	Idx         int              `json:"idx"`
	Dir         string           `json:"dir"`
	ScoreBefore int              `json:"score_before"`
	ScoreAfter  int              `json:"score_after"`
	Merges      int              `json:"merges"`
	Spawned     *engine.TileInfo `json:"spawned,omitempty"`
	Success     bool             `json:"success"`
	Victory     bool             `json:"victory,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string           `json:"type"` // "move", "merge", "spawn", "victory", "game_over", "reset"
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Tile      *engine.TileInfo `json:"tile,omitempty"`
}

// CollectedEvent is a tile event captured at notification time. The tile's
// fields are copied because the tile keeps mutating after the event fires.
type CollectedEvent struct {
	Kind  model.EventKind
	Row   int
	Col   int
	Value int
}

// EventCollector buffers tile events emitted by the board between drains.
// The service attaches one per session so each move can report the merges
// and spawns it produced.
type EventCollector struct {
	events []CollectedEvent
}

// Notify implements model.Listener.
func (c *EventCollector) Notify(event model.GameEvent) {
	c.events = append(c.events, CollectedEvent{
		Kind:  event.Kind,
		Row:   event.Tile.Row,
		Col:   event.Tile.Col,
		Value: event.Tile.Value,
	})
}

// Drain returns the buffered events and empties the buffer.
func (c *EventCollector) Drain() []CollectedEvent {
	events := c.events
	c.events = nil
	return events
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename     string `json:"filename"`
	ConfigID     string `json:"config_id"` // The identifier to use for session creation
	Name         string `json:"name"`      // Display name
	Description  string `json:"description"`
	Rows         int    `json:"rows"`
	Cols         int    `json:"cols"`
	WinningValue int    `json:"winning_value"`
}
