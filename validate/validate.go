// Command validate provides a small CLI that validates game configuration JSON
// files in the ../configs directory. It checks:
//   - JSON structure and required fields
//   - Board dimensions (at least 2x2)
//   - Winning value constraints (power of two, at least 8)
//   - Spawn settings (four_probability in [0,1], starting tiles fit the board)
//   - Required message keys and their format verbs
//   - Solvability: the winning value must be buildable on the board
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config mirrors the JSON schema for a game configuration.
type Config struct {
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Rows            int               `json:"rows"`
	Cols            int               `json:"cols"`
	WinningValue    int               `json:"winning_value"`
	FourProbability float64           `json:"four_probability"`
	StartingTiles   int               `json:"starting_tiles"`
	Messages        map[string]string `json:"messages"`
}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateConfig loads and validates a single configuration JSON file.
// It performs structural checks, board/spawn validation, message presence,
// and a solvability check for the winning value.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if config.Name == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Missing name")
	}

	// Validate board dimensions
	if config.Rows < 2 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("rows must be at least 2, got %d", config.Rows))
	}
	if config.Cols < 2 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("cols must be at least 2, got %d", config.Cols))
	}

	// Validate winning value
	if config.WinningValue < 8 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("winning_value must be at least 8, got %d", config.WinningValue))
	} else if !isPowerOfTwo(config.WinningValue) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("winning_value must be a power of two, got %d", config.WinningValue))
	}

	// Validate spawn settings
	if config.FourProbability < 0 || config.FourProbability > 1 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("four_probability must be in [0,1], got %g", config.FourProbability))
	}
	if config.StartingTiles < 1 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("starting_tiles must be positive, got %d", config.StartingTiles))
	}
	if config.Rows >= 2 && config.Cols >= 2 && config.StartingTiles > config.Rows*config.Cols {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("starting_tiles (%d) cannot exceed board cells (%d)", config.StartingTiles, config.Rows*config.Cols))
	}

	// Validate messages
	requiredMessages := []string{
		"welcome",
		"victory",
		"game_over",
	}
	for _, msg := range requiredMessages {
		if _, exists := config.Messages[msg]; !exists {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Missing required message: %s", msg))
		}
	}

	// Message format verbs must match what the engine substitutes
	verbChecks := []struct {
		key   string
		verbs []string
	}{
		{"victory", []string{"%d"}},
		{"game_over", []string{"%d"}},
		{"moved", []string{"%s", "%d"}},
		{"blocked", []string{"%s"}},
	}
	for _, check := range verbChecks {
		text, exists := config.Messages[check.key]
		if !exists {
			// moved/blocked are optional; the required set is checked above
			continue
		}
		for _, verb := range check.verbs {
			if !strings.Contains(text, verb) {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Message %q must contain %s", check.key, verb))
			}
		}
	}

	// Solvability: the winning tile must physically fit on the board
	if result.Valid {
		solvability := validateSolvability(&config)
		if !solvability.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, solvability.Errors...)
	}

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Board: %dx%d", config.Rows, config.Cols))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Winning value: %d", config.WinningValue))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Starting tiles: %d", config.StartingTiles))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Four probability: %g", config.FourProbability))
	}

	return result
}

// validateSolvability checks that the winning value is achievable on the
// configured board. A full board of n cells, filled optimally, can hold a
// chain 2, 4, 8, ... doubling once per cell, so the largest buildable tile
// from 2-spawns is 2^n. Configs demanding more than that can never be won.
func validateSolvability(config *Config) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	cells := config.Rows * config.Cols
	if cells <= 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Cannot validate solvability: empty board")
		return result
	}

	// Count doublings needed to reach the winning value from a 2 tile
	doublings := 0
	for v := 2; v < config.WinningValue; v *= 2 {
		doublings++
	}

	// Building 2^k needs k tiles on the board at once in the worst case
	if doublings+1 > cells {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Solvability failure: winning value %d needs %d cells in the worst case, board has %d", config.WinningValue, doublings+1, cells))
		return result
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ Solvability: %d reachable on a %dx%d board", config.WinningValue, config.Rows, config.Cols))
	return result
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// main scans ../configs for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
