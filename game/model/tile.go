package model

import "fmt"

// Tile is a single numbered piece occupying one grid cell. A tile knows its
// own row, column, and value, and how to announce changes to itself; all
// board bookkeeping (which array slot holds which tile) belongs to Board.
type Tile struct {
	Notifier `json:"-"`

	Row   int `json:"row"`
	Col   int `json:"col"`
	Value int `json:"value"`
}

// NewTile creates a tile at pos with the given value
func NewTile(pos Vec, value int) *Tile {
	return &Tile{
		Row:   pos.X,
		Col:   pos.Y,
		Value: value,
	}
}

// Pos returns the tile's cached position as a Vec
func (t *Tile) Pos() Vec {
	return Vec{X: t.Row, Y: t.Col}
}

// MoveTo updates the tile's cached position and notifies listeners. It does
// not touch board array slots; the caller keeps the position-cache invariant
// intact by updating the board entry in the same operation.
func (t *Tile) MoveTo(pos Vec) {
	t.Row = pos.X
	t.Col = pos.Y
	t.NotifyAll(GameEvent{Kind: TileUpdated, Tile: t})
}

// Merge absorbs other into t: t's value grows by other's value, t announces
// its update, then other announces its removal. Detaching other from the
// board array is the caller's responsibility, performed in the same move
// step. Other must not be referenced again after this call.
func (t *Tile) Merge(other *Tile) {
	t.Value += other.Value
	t.NotifyAll(GameEvent{Kind: TileUpdated, Tile: t})
	other.NotifyAll(GameEvent{Kind: TileRemoved, Tile: other})
}

// SameValue reports whether two tiles carry the same value. It exists only
// for merge detection during a slide; it says nothing about tile identity.
func SameValue(a, b *Tile) bool {
	return a.Value == b.Value
}

// String formats the tile for debugging
func (t *Tile) String() string {
	return fmt.Sprintf("Tile[%d,%d]:%d", t.Row, t.Col, t.Value)
}
