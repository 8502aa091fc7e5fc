// Package config provides configuration management for the 512 game server.
//
// The config package handles:
//   - Loading game configurations from JSON files
//   - Configuration validation and caching
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Game configurations are stored as JSON files in the configs directory.
// Each configuration defines:
//   - Board dimensions (rows, cols)
//   - The winning tile value (a power of two, 512 by default)
//   - The spawn distribution (probability of a 4 instead of a 2)
//   - The number of starting tiles
//   - Message templates for game events
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific configuration
//	gameConfig, err := manager.LoadConfig("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Get default configuration
//	defaultConfig := manager.GetDefault()
//
//	// List available configurations
//	configs, err := manager.ListConfigs()
//
// When no config files are present, the manager falls back to the built-in
// classic 4x4 game targeting 512.
package config
