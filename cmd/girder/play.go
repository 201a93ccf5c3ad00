package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/girder/internal/platform/tui"
	"github.com/vovakirdan/girder/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a level",
	Long: `Play the given level, or pick one from the menu when no level is given.
Levels are named pack/level or by bare level ID.

Controls:
  Arrows/WASD  - Move the carrier
  X / Z        - Turn the carrier clockwise / counter-clockwise
  V / C        - Swing the held beam clockwise / counter-clockwise
  Space/P      - Lift or drop the beam
  U/Backspace  - Undo
  R            - Restart the level
  Tab          - Skip the running animation
  N/Enter      - Next level (after solving)
  Ctrl+S       - Save the position and leave
  Esc          - Back to the level list (the position is saved)
  Q/Ctrl+C     - Quit

Examples:
  girder play
  girder play builtin/01-first-lift
  girder play 03-needle --fps 30`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	e := loadEnv()

	// Get terminal size
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	cfg := e.playConfig(width, height)

	store := e.openStore()
	if store != nil {
		defer store.Close()
	}

	var runErr error
	if len(args) == 0 {
		runErr = tui.RunApp(e.catalog(), store, e.logger, cfg)
	} else {
		ref, lvl, err := registry.FindLevel(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Run 'girder list' to see available levels.")
			os.Exit(1)
		}
		pack, err := registry.Create(ref.Pack)
		if err != nil {
			fatalf("Error: %v", err)
		}
		lvls, err := pack.Levels()
		if err != nil {
			fatalf("Error loading pack %s: %v", ref.Pack, err)
		}
		runErr = tui.Run(ref.Pack, lvls, lvl, store, e.logger, cfg)
	}

	if runErr != nil {
		if store != nil {
			store.Close()
		}
		fatalf("Error running girder: %v", runErr)
	}
}
