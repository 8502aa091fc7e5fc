// Package model holds the game state and logic of 512, a sliding-tile
// numeric merge game in the 2048 family. It is the model part of a
// model-view-controller split: it owns the grid, the tiles, the slide and
// merge rules, and the score, and it depends on no rendering technology.
//
// State changes become visible outside the model only through the
// listener protocol. Any consumer implementing Notify(GameEvent) can be
// registered on a Board or a Tile with AddListener and receives an ordered,
// synchronous stream of tile_created, tile_updated, and tile_removed
// events:
//
//	board := model.NewDefaultBoard()
//	board.AddListener(model.ListenerFunc(func(ev model.GameEvent) {
//		log.Printf("%s %v", ev.Kind, ev.Tile)
//	}))
//	board.PlaceRandomTile()
//	board.Left()
//
// A controller drives the game by calling the directional moves and
// PlaceRandomTile; the directional moves report whether anything moved or
// merged so the controller can decide when to spawn a tile and when the
// game is over.
package model
