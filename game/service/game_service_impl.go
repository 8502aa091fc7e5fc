package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/slidegame/fivetwelve/game/engine"
	"github.com/slidegame/fivetwelve/game/model"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	// Fallback: return as-is or "default"
	if configName == "" {
		return "default"
	}
	return configName
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// Determine the config identifier to return - prefer the input configName if provided,
	// otherwise look up the config_id by display name
	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID, // Return the config_id, not the display name
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     s.getConfigID(session.Config.Name), // Return config_id consistently
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			ConfigName:     s.getConfigID(sess.Config.Name), // Return config_id consistently
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			GameState:      sess.Engine.GetState(),
			GameConfig:     sess.Config,
		})
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Subscribe attaches a listener to the session's board
func (s *gameServiceImpl) Subscribe(ctx context.Context, sessionID string, listener model.Listener) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}
	sess.Engine.AddListener(listener)
	return nil
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Get session
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	// Update last accessed time
	s.sessions.UpdateLastAccessed(sessionID)

	// Collect events
	events := []GameEvent{}

	// Handle reset if requested
	if reset {
		sess.Engine.Reset()
		s.drainCollector(sess) // discard the starting-tile spawns
		events = append(events, GameEvent{
			Type:      "reset",
			Message:   "Game reset to initial state",
			Timestamp: time.Now(),
		})
	}

	prevState := sess.Engine.GetState()

	// A finished game (won or stuck) accepts no further moves; the state
	// and history stay readable, and a reset starts a new attempt.
	if prevState.GameOver {
		return &MoveResult{
			Success:   false,
			GameState: prevState,
			Message:   prevState.Message,
			Events:    events,
		}, nil
	}

	// Execute move
	prevScore := prevState.Score
	wasVictory := prevState.Victory
	success := sess.Engine.Move(direction)
	state := sess.Engine.GetState()

	// Build result
	result := &MoveResult{
		Success:   success,
		GameState: state,
		Message:   state.Message,
		Events:    events,
	}

	if success {
		collected := s.drainCollector(sess)
		moveEvents := buildMoveEvents(direction, collected, state, wasVictory)
		result.Events = append(result.Events, moveEvents...)

		merges := 0
		var spawned *engine.TileInfo
		for _, ev := range collected {
			switch ev.Kind {
			case model.TileRemoved:
				merges++
			case model.TileCreated:
				spawned = &engine.TileInfo{Row: ev.Row, Col: ev.Col, Value: ev.Value}
			}
		}
		result.Step = &StepInfo{
			Idx:         1,
			Dir:         direction,
			ScoreBefore: prevScore,
			ScoreAfter:  state.Score,
			Merges:      merges,
			Spawned:     spawned,
			Success:     true,
			Victory:     state.Victory && !wasVictory,
		}
	} else {
		// Blocked moves spawn nothing; drop any stray events.
		s.drainCollector(sess)
	}

	// Auto-save session after move
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after move: %v\n", sessionID, err)
	}

	return result, nil
}

// BulkMove executes multiple moves in sequence
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	// Update last accessed
	s.sessions.UpdateLastAccessed(sessionID)

	// Handle reset before snapshotting the start state
	var resetEvents []GameEvent
	if reset {
		sess.Engine.Reset()
		s.drainCollector(sess)
		resetEvents = append(resetEvents, GameEvent{
			Type:      "reset",
			Message:   "Game reset to initial state",
			Timestamp: time.Now(),
		})
	}

	// Initialize result and capture start snapshot
	state := sess.Engine.GetState()
	startScore := state.Score
	startHighest := state.HighestTile

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         append(make([]GameEvent, 0), resetEvents...),
		Success:        true,
		StartScore:     startScore,
		StartHighest:   startHighest,
		GameOver:       state.GameOver,
		Message:        state.Message,
	}

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	// Execute moves
	for i, move := range moves {
		if sess.Engine.IsGameOver() {
			if sess.Engine.IsVictory() {
				result.StoppedReason = "victory"
				result.StopReasonCode = "victory"
			} else {
				result.StoppedReason = "game_over"
				result.StopReasonCode = "game_over"
			}
			result.StoppedOnMove = result.MovesExecuted + 1
			break
		}

		prevState := sess.Engine.GetState()
		prevScore := prevState.Score
		wasVictory := prevState.Victory
		success := sess.Engine.Move(move)
		collected := s.drainCollector(sess)

		if !success {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d blocked: %s", i+1, move)
			result.StopReasonCode = "blocked"
			result.StoppedOnMove = i + 1
			break
		}

		result.MovesExecuted++
		currState := sess.Engine.GetState()

		// Collect events for this move
		result.Events = append(result.Events, buildMoveEvents(move, collected, currState, wasVictory)...)

		merges := 0
		var spawned *engine.TileInfo
		for _, ev := range collected {
			switch ev.Kind {
			case model.TileRemoved:
				merges++
			case model.TileCreated:
				spawned = &engine.TileInfo{Row: ev.Row, Col: ev.Col, Value: ev.Value}
			}
		}
		result.Steps = append(result.Steps, StepInfo{
			Idx:         i + 1,
			Dir:         move,
			ScoreBefore: prevScore,
			ScoreAfter:  currState.Score,
			Merges:      merges,
			Spawned:     spawned,
			Success:     true,
			Victory:     currState.Victory && !wasVictory,
		})
	}

	result.GameState = sess.Engine.GetState()

	// Finalize snapshots
	endState := result.GameState
	result.EndScore = endState.Score
	result.ScoreDelta = endState.Score - startScore
	result.EndHighest = endState.HighestTile
	result.GameOver = endState.GameOver
	result.Victory = endState.Victory
	result.Message = endState.Message

	// If we ended due to game over without explicit stop reason code
	if result.GameOver && result.StopReasonCode == "" {
		if endState.Victory {
			result.StopReasonCode = "victory"
		} else {
			result.StopReasonCode = "game_over"
		}
	}

	// Decision aids
	result.PossibleMoves = endState.PossibleMoves

	// Auto-save session after bulk moves
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after bulk moves: %v\n", sessionID, err)
	}

	return result, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	state := sess.Engine.Reset()
	s.drainCollector(sess)

	// Auto-save session after reset
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after reset: %v\n", sessionID, err)
	}

	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	// Get the slice of moves
	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Reverse order (most recent first)
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else {
		// Normal chronological order
		if start < total {
			moves = history[start:end]
		}
	}

	// Ensure moves is not nil
	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// drainCollector empties the session's event buffer. Sessions restored from
// old save files may lack a collector.
func (s *gameServiceImpl) drainCollector(sess *Session) []CollectedEvent {
	if sess.Collector == nil {
		return nil
	}
	return sess.Collector.Drain()
}

// buildMoveEvents converts the tile events captured during a move into
// service-level events: one "merge" per absorbed tile, one "spawn" per
// created tile, plus "victory" or "game_over" when the move ended the game.
func buildMoveEvents(direction string, collected []CollectedEvent, state *engine.GameState, wasVictory bool) []GameEvent {
	events := []GameEvent{{
		Type:      "move",
		Message:   fmt.Sprintf("Moved %s", direction),
		Timestamp: time.Now(),
	}}

	for _, ev := range collected {
		tile := &engine.TileInfo{Row: ev.Row, Col: ev.Col, Value: ev.Value}
		switch ev.Kind {
		case model.TileRemoved:
			events = append(events, GameEvent{
				Type:      "merge",
				Message:   fmt.Sprintf("Two %d tiles merged into %d", ev.Value, ev.Value*2),
				Timestamp: time.Now(),
				Tile:      tile,
			})
		case model.TileCreated:
			events = append(events, GameEvent{
				Type:      "spawn",
				Message:   fmt.Sprintf("New %d tile at (%d,%d)", ev.Value, ev.Row, ev.Col),
				Timestamp: time.Now(),
				Tile:      tile,
			})
		}
	}

	if state.Victory && !wasVictory {
		events = append(events, GameEvent{
			Type:      "victory",
			Message:   state.Message,
			Timestamp: time.Now(),
		})
	}
	if state.GameOver && !state.Victory {
		events = append(events, GameEvent{
			Type:      "game_over",
			Message:   state.Message,
			Timestamp: time.Now(),
		})
	}

	return events
}
