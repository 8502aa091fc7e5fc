// Package engine drives the 512 game on top of the model package.
//
// The Engine interface defines the controller-facing contract, implemented
// by GameEngine: directional moves with automatic tile spawning, dry-run
// move legality checks, victory and game-over detection, score and history
// bookkeeping, and state snapshots for persistence. GameConfig defines the
// game rules (board dimensions, winning value, spawn distribution) loaded
// from JSON files.
//
// Usage:
//
//	config := engine.DefaultGameConfig()
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	moved := gameEngine.Move("left")
//	state := gameEngine.GetState()
//
// Rendering is out of the engine's scope: views subscribe to the underlying
// model board's listener protocol via gameEngine.Board().AddListener and
// react to tile_created, tile_updated, and tile_removed events.
package engine
