package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/slidegame/fivetwelve/game/model"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	IsGameOver() bool
	IsVictory() bool
	GetScore() int
	GetHighestTile() int

	// Movement operations
	Move(direction string) bool
	CanMove(direction string) bool
	GetPossibleMoves() []string
	BulkMove(moves []string) []bool

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry

	// Model access for event subscribers
	Board() *model.Board
	AddListener(l model.Listener)
}

// GameEngine implements the Engine interface. It is the controller side of
// the model-view-controller split: it owns a model.Board, drives it with
// directional moves and tile spawns, and keeps score and history
// bookkeeping. Views observe the board directly through its listener
// protocol; the engine never renders anything.
type GameEngine struct {
	config *GameConfig
	board  *model.Board
	rng    *rand.Rand

	victory bool

	// listeners are re-attached to every board the engine creates, so a
	// subscription survives Reset and SetConfig.
	listeners []model.Listener

	moveHistory  []MoveHistoryEntry
	totalMoves   int
	currentMoves []MoveHistoryEntry
	message      string
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig) (*GameEngine, error) {
	return NewEngineWithRand(config, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewEngineWithRand creates a new game engine with a caller-supplied random
// source, used by tests for deterministic spawns.
func NewEngineWithRand(config *GameConfig, rng *rand.Rand) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{
		config: config,
		rng:    rng,
	}
	e.startBoard()
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with default configuration
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultGameConfig())
	if err != nil {
		// The default config always validates
		panic(fmt.Sprintf("engine: default config rejected: %v", err))
	}
	return e
}

// startBoard replaces the board with a fresh one holding the configured
// number of starting tiles.
func (e *GameEngine) startBoard() {
	e.board = model.NewBoard(e.config.Rows, e.config.Cols, e.rng)
	for _, l := range e.listeners {
		e.board.AddListener(l)
	}
	for i := 0; i < e.config.StartingTiles; i++ {
		e.spawnTile()
	}
	e.victory = false
	e.message = e.config.Messages.Welcome
}

// spawnTile places a random tile using the configured 4-tile probability
func (e *GameEngine) spawnTile() *model.Tile {
	value := 2
	if e.rng.Float64() <= e.config.FourProbability {
		value = 4
	}
	return e.board.PlaceTile(value)
}

// Board returns the underlying model board. Callers register listeners on
// it to observe tile events; they must not mutate it directly.
func (e *GameEngine) Board() *model.Board {
	return e.board
}

// AddListener subscribes l to tile events on the current board and on every
// board the engine creates afterwards. Subscriptions cannot be removed.
func (e *GameEngine) AddListener(l model.Listener) {
	e.listeners = append(e.listeners, l)
	e.board.AddListener(l)
}

// GetState returns a snapshot of the current game state
func (e *GameEngine) GetState() *GameState {
	grid := e.board.ToGrid()

	highest := 0
	empty := 0
	for _, row := range grid {
		for _, v := range row {
			if v > highest {
				highest = v
			}
			if v == 0 {
				empty++
			}
		}
	}

	return &GameState{
		Grid:              grid,
		Score:             e.board.Score(),
		HighestTile:       highest,
		EmptyCells:        empty,
		Message:           e.message,
		GameOver:          e.IsGameOver(),
		Victory:           e.victory,
		ConfigName:        e.config.Name,
		MoveHistory:       e.moveHistory,
		TotalMoves:        e.totalMoves,
		CurrentMoves:      e.currentMoves,
		CurrentMovesCount: len(e.currentMoves),
		PossibleMoves:     e.GetPossibleMoves(),
	}
}

// SetState restores the board and history from a snapshot (used for
// persistence loading). The grid dimensions must match the configuration.
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if len(state.Grid) != e.config.Rows {
		return fmt.Errorf("state grid has %d rows, config expects %d", len(state.Grid), e.config.Rows)
	}
	for i, row := range state.Grid {
		if len(row) != e.config.Cols {
			return fmt.Errorf("state grid row %d has %d columns, config expects %d", i, len(row), e.config.Cols)
		}
	}

	board := model.NewBoard(e.config.Rows, e.config.Cols, e.rng)
	for _, l := range e.listeners {
		board.AddListener(l)
	}
	board.FromGrid(state.Grid)
	e.board = board
	e.victory = state.Victory
	e.message = state.Message
	e.moveHistory = state.MoveHistory
	e.totalMoves = state.TotalMoves
	e.currentMoves = state.CurrentMoves
	return nil
}

// Reset resets the game to initial state. Cumulative history and totals are
// preserved across resets; only the current segment is cleared.
func (e *GameEngine) Reset() *GameState {
	e.startBoard()
	e.currentMoves = nil
	return e.GetState()
}

// IsGameOver reports whether the game has ended: either the winning value
// was reached or no direction can change the board. Victory is terminal;
// a won game does not continue toward higher tiles.
func (e *GameEngine) IsGameOver() bool {
	if e.victory {
		return true
	}
	for _, dir := range Directions {
		if e.CanMove(dir) {
			return false
		}
	}
	return true
}

// IsVictory reports whether a tile has reached the configured winning value
func (e *GameEngine) IsVictory() bool {
	return e.victory
}

// GetScore returns the current score, the sum of all tile values
func (e *GameEngine) GetScore() int {
	return e.board.Score()
}

// GetHighestTile returns the largest tile value on the board
func (e *GameEngine) GetHighestTile() int {
	highest := 0
	for _, row := range e.board.ToGrid() {
		for _, v := range row {
			if v > highest {
				highest = v
			}
		}
	}
	return highest
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and restarts the game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	e.config = config
	e.startBoard()
	e.moveHistory = nil
	e.totalMoves = 0
	e.currentMoves = nil
	return nil
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.moveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.moveHistory) == 0 {
		return nil
	}
	return &e.moveHistory[len(e.moveHistory)-1]
}

// addMoveToHistory appends a move record to both the cumulative history and
// the current segment.
func (e *GameEngine) addMoveToHistory(action string, scoreBefore int, spawned *TileInfo, success bool) {
	entry := MoveHistoryEntry{
		Action:     action,
		ScoreAfter: e.board.Score(),
		ScoreDelta: e.board.Score() - scoreBefore,
		Spawned:    spawned,
		Timestamp:  time.Now().Unix(),
		Success:    success,
		MoveNumber: e.totalMoves + 1,
	}
	e.moveHistory = append(e.moveHistory, entry)
	e.totalMoves++
	e.currentMoves = append(e.currentMoves, entry)
}
