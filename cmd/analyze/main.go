// Command analyze prints quick, human-readable heuristics about configuration
// files in the project's configs directory. It summarizes board dimensions,
// winning value, merge depth, lower bounds on moves and score at victory, and
// highlights configs whose winning value cannot fit on the board.
package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
)

// AnalysisConfig is a light struct for reading config files used by analysis.
type AnalysisConfig struct {
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Rows            int               `json:"rows"`
	Cols            int               `json:"cols"`
	WinningValue    int               `json:"winning_value"`
	FourProbability float64           `json:"four_probability"`
	StartingTiles   int               `json:"starting_tiles"`
	Messages        map[string]string `json:"messages"`
}

func main() {
	configs := []string{
		"big.json",
		"classic.json",
		"sprint.json",
	}

	for _, configFile := range configs {
		fmt.Printf("\n=== Analyzing %s ===\n", configFile)
		analyzeConfig(filepath.Join("configs", configFile))
	}
}

func analyzeConfig(path string) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return
	}

	var config AnalysisConfig
	if err := json.Unmarshal(data, &config); err != nil {
		fmt.Printf("Error parsing JSON: %v\n", err)
		return
	}

	cells := config.Rows * config.Cols

	fmt.Printf("Name: %s\n", config.Name)
	fmt.Printf("Board: %d x %d (%d cells)\n", config.Rows, config.Cols, cells)
	fmt.Printf("Winning Value: %d\n", config.WinningValue)
	fmt.Printf("Starting Tiles: %d\n", config.StartingTiles)
	fmt.Printf("Four Probability: %g\n", config.FourProbability)

	// Merge depth: how many doublings from a 2 tile to the winning value
	depth := mergeDepth(config.WinningValue)
	fmt.Printf("Merge Depth: %d doublings from a 2 tile\n", depth)

	// Lower bound on spawns: building the winning value purely from 2s
	// consumes winning_value/2 tiles, and each move spawns exactly one
	twosNeeded := config.WinningValue / 2
	minMoves := twosNeeded - config.StartingTiles
	if minMoves < 0 {
		minMoves = 0
	}
	fmt.Printf("Tiles Consumed by Winning Tile: %d (as 2s)\n", twosNeeded)
	fmt.Printf("Minimum Moves to Win: ~%d (every spawn a 2, every move a merge)\n", minMoves)

	// Score lower bound: merging 2s all the way up scores winning_value
	// per doubling level, since every intermediate value is created
	// win/value times
	minScore := config.WinningValue * depth
	fmt.Printf("Minimum Score at Victory: %d\n", minScore)

	// Capacity check: the winning tile needs depth+1 cells at once in the
	// worst case; a smaller board can never be won
	if depth+1 > cells {
		fmt.Printf("⚠️  CRITICAL: winning value %d needs %d cells in the worst case, board has %d!\n",
			config.WinningValue, depth+1, cells)
		fmt.Printf("   This config can never be won\n")
	} else {
		headroom := cells - (depth + 1)
		fmt.Printf("✅ Winning value fits: %d spare cells beyond the worst-case chain\n", headroom)
		if headroom <= 2 {
			fmt.Printf("⚠️  WARNING: very tight board - expect frequent game overs\n")
		}
	}
}

// mergeDepth returns how many doublings separate a 2 tile from the target.
// Targets below 2 report zero.
func mergeDepth(target int) int {
	depth := 0
	for v := 2; v < target; v *= 2 {
		depth++
	}
	return depth
}
