package model

import (
	"fmt"
	"math/rand"
	"time"
)

// Default board dimensions and tile spawn distribution
const (
	DefaultRows = 4
	DefaultCols = 4

	// FourProbability is the chance a randomly placed tile is a 4 rather
	// than a 2.
	FourProbability = 0.1
)

// Movement deltas, one cell per step
var (
	DirUp    = Vec{X: -1, Y: 0}
	DirDown  = Vec{X: 1, Y: 0}
	DirLeft  = Vec{X: 0, Y: -1}
	DirRight = Vec{X: 0, Y: 1}
)

// Board is the game grid. It owns every tile it holds: a tile reference
// appears in at most one cell, and for every occupied cell (r,c) the tile's
// cached Row/Col agree with the storage slot. The board never calls into
// rendering code; state changes surface only through the embedded Notifier.
//
// The board is single-threaded: every mutating call completes fully,
// including all notifications, before returning. Callers embedding it in a
// concurrent host must serialize access themselves.
type Board struct {
	Notifier

	rows  int
	cols  int
	tiles [][]*Tile
	rng   *rand.Rand
}

// NewBoard creates an empty rows x cols board. A nil rng falls back to a
// time-seeded source; tests pass a fixed-seed rand.Rand for determinism.
func NewBoard(rows, cols int, rng *rand.Rand) *Board {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	tiles := make([][]*Tile, rows)
	for r := range tiles {
		tiles[r] = make([]*Tile, cols)
	}
	return &Board{
		rows:  rows,
		cols:  cols,
		tiles: tiles,
		rng:   rng,
	}
}

// NewDefaultBoard creates an empty 4x4 board with a time-seeded source
func NewDefaultBoard() *Board {
	return NewBoard(DefaultRows, DefaultCols, nil)
}

// Rows returns the number of rows
func (b *Board) Rows() int {
	return b.rows
}

// Cols returns the number of columns
func (b *Board) Cols() int {
	return b.cols
}

// Get returns the tile at pos, or nil for an empty cell
func (b *Board) Get(pos Vec) *Tile {
	return b.tiles[pos.X][pos.Y]
}

// set stores tile (or nil) at pos without touching the tile's cached
// position; callers keep the two in sync.
func (b *Board) set(pos Vec, tile *Tile) {
	b.tiles[pos.X][pos.Y] = tile
}

// InBounds reports whether pos is a legal position on the board
func (b *Board) InBounds(pos Vec) bool {
	return pos.X >= 0 && pos.X < b.rows && pos.Y >= 0 && pos.Y < b.cols
}

// emptyPositions returns the positions of all unoccupied cells
func (b *Board) emptyPositions() []Vec {
	var empties []Vec
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			if b.tiles[r][c] == nil {
				empties = append(empties, Vec{X: r, Y: c})
			}
		}
	}
	return empties
}

// newOwnedTile creates a tile whose own notifications also reach the
// board's listeners. Tile-level subscriptions still work as usual; this
// gives board-level subscribers the full event stream without polling
// individual tiles.
func (b *Board) newOwnedTile(pos Vec, value int) *Tile {
	tile := NewTile(pos, value)
	tile.AddListener(ListenerFunc(b.NotifyAll))
	return tile
}

// HasEmpty reports whether at least one cell is unoccupied
func (b *Board) HasEmpty() bool {
	return len(b.emptyPositions()) > 0
}

// PlaceTile creates a tile with the given value at a uniformly random empty
// cell, stores it, emits tile_created, and returns it. Calling it on a full
// board is a caller bug and panics.
func (b *Board) PlaceTile(value int) *Tile {
	empties := b.emptyPositions()
	if len(empties) == 0 {
		panic("model: PlaceTile called on a board with no empty cell")
	}
	pos := empties[b.rng.Intn(len(empties))]
	tile := b.newOwnedTile(pos, value)
	b.set(pos, tile)
	b.NotifyAll(GameEvent{Kind: TileCreated, Tile: tile})
	return tile
}

// PlaceRandomTile places a tile whose value is 4 with probability
// FourProbability and 2 otherwise. Same precondition as PlaceTile.
func (b *Board) PlaceRandomTile() *Tile {
	value := 2
	if b.rng.Float64() <= FourProbability {
		value = 4
	}
	return b.PlaceTile(value)
}

// Score sums the values of all tiles on the board
func (b *Board) Score() int {
	score := 0
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			if tile := b.tiles[r][c]; tile != nil {
				score += tile.Value
			}
		}
	}
	return score
}

// FromGrid replaces all board contents from a plain integer matrix where 0
// denotes an empty cell. No events are emitted: this is setup scaffolding,
// not gameplay. The matrix dimensions must match the board's; a mismatch is
// a caller bug and panics.
func (b *Board) FromGrid(values [][]int) {
	if len(values) != b.rows {
		panic(fmt.Sprintf("model: FromGrid got %d rows, board has %d", len(values), b.rows))
	}
	for r, row := range values {
		if len(row) != b.cols {
			panic(fmt.Sprintf("model: FromGrid row %d has %d columns, board has %d", r, len(row), b.cols))
		}
		for c, value := range row {
			if value == 0 {
				b.tiles[r][c] = nil
			} else {
				b.tiles[r][c] = b.newOwnedTile(Vec{X: r, Y: c}, value)
			}
		}
	}
}

// ToGrid returns the board as a plain integer matrix with 0 for empty cells
func (b *Board) ToGrid() [][]int {
	result := make([][]int, b.rows)
	for r := 0; r < b.rows; r++ {
		result[r] = make([]int, b.cols)
		for c := 0; c < b.cols; c++ {
			if tile := b.tiles[r][c]; tile != nil {
				result[r][c] = tile.Value
			}
		}
	}
	return result
}

// moveTile relocates the tile at from into the empty slot at to, keeping
// the position cache and the array in step within one operation.
func (b *Board) moveTile(from, to Vec) {
	tile := b.Get(from)
	tile.MoveTo(to)
	b.set(to, tile)
	b.set(from, nil)
}

// Slide moves the tile at pos (if any) one step at a time in direction dir
// until it reaches the edge of the board, bumps into a different-valued
// tile, or merges with an equal-valued one. A tile merges at most once per slide,
// even if a further equal-valued tile lies beyond. Reports whether the tile
// moved or merged.
func (b *Board) Slide(pos, dir Vec) bool {
	if b.Get(pos) == nil {
		return false
	}
	moved := false
	for {
		next := pos.Add(dir)
		if !b.InBounds(next) {
			return moved
		}
		switch {
		case b.Get(next) == nil:
			b.moveTile(pos, next)
			moved = true
		case SameValue(b.Get(pos), b.Get(next)):
			// The moving tile absorbs the one it ran into, then takes
			// its slot.
			b.Get(pos).Merge(b.Get(next))
			b.moveTile(pos, next)
			return true
		default:
			return moved
		}
		pos = next
	}
}

// The four directional moves apply Slide to every occupied cell. The scan
// order is load-bearing: each row/column starts from the side the tiles are
// moving toward, so a tile already at rest is never revisited and
// double-merged. Each move reports whether any tile moved or merged.

// Right slides every tile toward the last column
func (b *Board) Right() bool {
	moved := false
	for r := 0; r < b.rows; r++ {
		for c := b.cols - 1; c >= 0; c-- {
			if b.Slide(Vec{X: r, Y: c}, DirRight) {
				moved = true
			}
		}
	}
	return moved
}

// Left slides every tile toward column 0
func (b *Board) Left() bool {
	moved := false
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			if b.Slide(Vec{X: r, Y: c}, DirLeft) {
				moved = true
			}
		}
	}
	return moved
}

// Up slides every tile toward row 0
func (b *Board) Up() bool {
	moved := false
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			if b.Slide(Vec{X: r, Y: c}, DirUp) {
				moved = true
			}
		}
	}
	return moved
}

// Down slides every tile toward the last row
func (b *Board) Down() bool {
	moved := false
	for r := b.rows - 1; r >= 0; r-- {
		for c := 0; c < b.cols; c++ {
			if b.Slide(Vec{X: r, Y: c}, DirDown) {
				moved = true
			}
		}
	}
	return moved
}
