// Command play runs the 512 game as an interactive terminal client.
// It drives the engine directly, without the HTTP server, and is mostly
// useful for trying out configs and for manual play during development.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/slidegame/fivetwelve/game/config"
	"github.com/slidegame/fivetwelve/game/engine"
	"github.com/slidegame/fivetwelve/game/model"
)

func main() {
	cmd := &cli.Command{
		Name:  "play",
		Usage: "Play 512 in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config-dir",
				Value: "configs",
				Usage: "Directory containing game configurations",
			},
			&cli.StringFlag{
				Name:  "config",
				Value: "",
				Usage: "Config name to play (default config when empty)",
			},
			&cli.IntFlag{
				Name:  "rows",
				Value: 0,
				Usage: "Override board rows",
			},
			&cli.IntFlag{
				Name:  "cols",
				Value: 0,
				Usage: "Override board columns",
			},
			&cli.IntFlag{
				Name:  "target",
				Value: 0,
				Usage: "Override winning value",
			},
			&cli.IntFlag{
				Name:  "seed",
				Value: 0,
				Usage: "Seed the spawn RNG (0 uses the clock)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			gameConfig, err := resolveConfig(cmd.String("config-dir"), cmd.String("config"))
			if err != nil {
				return err
			}

			if rows := int(cmd.Int("rows")); rows > 0 {
				gameConfig.Rows = rows
			}
			if cols := int(cmd.Int("cols")); cols > 0 {
				gameConfig.Cols = cols
			}
			if target := int(cmd.Int("target")); target > 0 {
				gameConfig.WinningValue = target
			}

			var eng *engine.GameEngine
			if seed := int64(cmd.Int("seed")); seed != 0 {
				eng, err = engine.NewEngineWithRand(gameConfig, rand.New(rand.NewSource(seed)))
			} else {
				eng, err = engine.NewEngine(gameConfig)
			}
			if err != nil {
				return fmt.Errorf("failed to create engine: %w", err)
			}

			playLoop(os.Stdin, os.Stdout, eng)
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// resolveConfig loads the named config from the directory, falling back to
// the directory's default config when no name is given.
func resolveConfig(configDir, name string) (*engine.GameConfig, error) {
	manager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configs from %s: %w", configDir, err)
	}

	if name == "" {
		return manager.GetDefault(), nil
	}

	gameConfig, err := manager.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %q: %w", name, err)
	}
	return gameConfig, nil
}

// playLoop reads single-letter commands from r and plays them on the engine,
// rendering the board to w after every command until the game ends or the
// player quits.
func playLoop(r io.Reader, w io.Writer, eng *engine.GameEngine) {
	// Count merges live off the board's event stream
	merges := 0
	eng.AddListener(model.ListenerFunc(func(ev model.GameEvent) {
		if ev.Kind == model.TileRemoved {
			merges++
		}
	}))

	cfg := eng.GetConfig()
	reader := bufio.NewReader(r)

	fmt.Fprintf(w, "=== %s ===\n", cfg.Name)
	fmt.Fprintf(w, "Reach %d to win.\n", cfg.WinningValue)
	fmt.Fprintln(w, "Controls: w=Up, s=Down, a=Left, d=Right, r=Reset, q=Quit")
	fmt.Fprintln(w)

	for {
		state := eng.GetState()
		fmt.Fprint(w, engine.RenderASCII(state.Grid))
		fmt.Fprintf(w, "Score: %d | Highest: %d | Merges: %d\n", state.Score, state.HighestTile, merges)

		if state.GameOver {
			if state.Victory {
				fmt.Fprintf(w, "You win! Built a %d tile.\n", state.HighestTile)
			} else {
				fmt.Fprintf(w, "Game over. Final score: %d\n", state.Score)
			}
			break
		}

		fmt.Fprint(w, "Move: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			break
		}

		input = strings.TrimSpace(strings.ToLower(input))
		switch input {
		case "q":
			fmt.Fprintln(w, "Quit.")
			return
		case "r":
			merges = 0
			eng.Reset()
			fmt.Fprintln(w, "Board reset.")
			fmt.Fprintln(w)
			continue
		}

		direction, ok := parseDirection(input)
		if !ok {
			fmt.Fprintln(w, "Invalid input. Use w/a/s/d, r to reset, q to quit.")
			continue
		}

		if !eng.Move(direction) {
			fmt.Fprintf(w, "Nothing can move %s.\n", direction)
		}
		fmt.Fprintln(w)
	}
}

func parseDirection(input string) (string, bool) {
	switch input {
	case "w":
		return "up", true
	case "s":
		return "down", true
	case "a":
		return "left", true
	case "d":
		return "right", true
	default:
		return "", false
	}
}
