package engine

import (
	"fmt"

	"github.com/slidegame/fivetwelve/game/model"
)

// Move slides all tiles in the given direction. When the board changes, a
// new tile spawns on a random empty cell and the move is recorded as
// successful; a move that changes nothing spawns nothing. Reports whether
// the board changed.
func (e *GameEngine) Move(direction string) bool {
	scoreBefore := e.board.Score()

	moved := applyDirection(e.board, direction)

	var spawned *TileInfo
	if moved {
		// A successful move always frees at least one cell, so the spawn
		// precondition holds.
		tile := e.spawnTile()
		spawned = &TileInfo{Row: tile.Row, Col: tile.Col, Value: tile.Value}

		if !e.victory && e.GetHighestTile() >= e.config.WinningValue {
			e.victory = true
			e.message = fmt.Sprintf(e.config.Messages.Victory, e.config.WinningValue)
		} else if e.victory {
			// A won game keeps its winning message
		} else if e.IsGameOver() {
			e.message = fmt.Sprintf(e.config.Messages.GameOver, e.board.Score())
		} else if e.config.Messages.Moved != "" {
			e.message = fmt.Sprintf(e.config.Messages.Moved, direction, e.board.Score())
		} else {
			e.message = ""
		}
	} else if e.config.Messages.Blocked != "" {
		e.message = fmt.Sprintf(e.config.Messages.Blocked, direction)
	} else {
		e.message = ""
	}

	e.addMoveToHistory(direction, scoreBefore, spawned, moved)
	return moved
}

// CanMove reports whether a move in the given direction would change the
// board. It dry-runs the slide on a scratch board so no events fire and no
// tile spawns.
func (e *GameEngine) CanMove(direction string) bool {
	grid := e.board.ToGrid()
	scratch := model.NewBoard(e.config.Rows, e.config.Cols, e.rng)
	scratch.FromGrid(grid)
	return applyDirection(scratch, direction)
}

// GetPossibleMoves returns all directions that would change the board
func (e *GameEngine) GetPossibleMoves() []string {
	var possible []string
	for _, dir := range Directions {
		if e.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// BulkMove executes multiple moves in sequence, returning success status
// for each. It stops early once the game is over.
func (e *GameEngine) BulkMove(moves []string) []bool {
	results := make([]bool, 0, len(moves))

	for _, direction := range moves {
		if e.IsGameOver() {
			break
		}
		results = append(results, e.Move(direction))
	}

	return results
}

// applyDirection dispatches a direction name to the board's move methods.
// Unknown directions change nothing.
func applyDirection(board *model.Board, direction string) bool {
	switch direction {
	case DirUp:
		return board.Up()
	case DirDown:
		return board.Down()
	case DirLeft:
		return board.Left()
	case DirRight:
		return board.Right()
	default:
		return false
	}
}
