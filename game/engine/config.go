package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate grid dimensions
	if config.Rows < MinGridSize || config.Rows > MaxGridSize {
		return fmt.Errorf("config validation: rows must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Rows)
	}
	if config.Cols < MinGridSize || config.Cols > MaxGridSize {
		return fmt.Errorf("config validation: cols must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Cols)
	}

	// Validate winning value: a power of two large enough to require merges
	if config.WinningValue < MinWinningValue {
		return fmt.Errorf("config validation: winning_value must be at least %d, got %d", MinWinningValue, config.WinningValue)
	}
	if config.WinningValue&(config.WinningValue-1) != 0 {
		return fmt.Errorf("config validation: winning_value must be a power of two, got %d", config.WinningValue)
	}

	// Validate spawn distribution
	if config.FourProbability < 0 || config.FourProbability > 1 {
		return fmt.Errorf("config validation: four_probability must be between 0 and 1, got %g", config.FourProbability)
	}

	// Validate starting tiles: the opening board must not be full
	if config.StartingTiles < 1 {
		return fmt.Errorf("config validation: starting_tiles must be at least 1, got %d", config.StartingTiles)
	}
	if config.StartingTiles >= config.Rows*config.Cols {
		return fmt.Errorf("config validation: starting_tiles must be less than %d cells, got %d",
			config.Rows*config.Cols, config.StartingTiles)
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Victory == "" {
		return fmt.Errorf("config validation: messages.victory is required")
	}
	if config.Messages.GameOver == "" {
		return fmt.Errorf("config validation: messages.game_over is required")
	}

	// Validate format strings
	if !strings.Contains(config.Messages.Victory, "%d") {
		return fmt.Errorf("config validation: messages.victory must contain %%d for the winning value")
	}
	if !strings.Contains(config.Messages.GameOver, "%d") {
		return fmt.Errorf("config validation: messages.game_over must contain %%d for the final score")
	}
	if config.Messages.Moved != "" {
		if !strings.Contains(config.Messages.Moved, "%s") || !strings.Contains(config.Messages.Moved, "%d") {
			return fmt.Errorf("config validation: messages.moved must contain %%s for the direction and %%d for the score")
		}
	}
	if config.Messages.Blocked != "" && !strings.Contains(config.Messages.Blocked, "%s") {
		return fmt.Errorf("config validation: messages.blocked must contain %%s for the direction")
	}

	return nil
}

// DefaultGameConfig returns the classic 4x4 game with a 512 target
func DefaultGameConfig() *GameConfig {
	config := &GameConfig{
		Name:            "Classic 512",
		Description:     "Classic 4x4 board. Merge tiles until one reaches 512.",
		Rows:            DefaultGridSize,
		Cols:            DefaultGridSize,
		WinningValue:    DefaultWinningValue,
		FourProbability: 0.1,
		StartingTiles:   DefaultStartTiles,
	}
	config.Messages.Welcome = "Welcome to 512! Slide tiles with up/down/left/right."
	config.Messages.Moved = "Moved %s. Score: %d"
	config.Messages.Blocked = "Nothing can move %s"
	config.Messages.Victory = "You reached %d, you win!"
	config.Messages.GameOver = "No moves left. Final score: %d"
	return config
}

// LoadGameConfig reads and validates a game configuration from a JSON file
func LoadGameConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
