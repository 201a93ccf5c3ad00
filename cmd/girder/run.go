package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/girder/internal/puzzle"
	"github.com/vovakirdan/girder/internal/registry"
	"github.com/vovakirdan/girder/internal/storage"
)

var (
	flagScriptFile string
	flagTrace      bool
	flagRecord     bool
)

var runCmd = &cobra.Command{
	Use:   "run <level> [script]",
	Short: "Replay a command script without a UI",
	Long: `Apply a command script to a level and print the final board.

Every command runs to completion, so no animation window is involved.
Script tokens are separated by spaces or commas; '#' starts a comment:
  N E S W     - Move (also north/up, east/right, ...)
  cw ccw      - Turn the carrier
  bcw bccw    - Swing the held beam
  p           - Lift or drop the beam
  u           - Undo

The command exits with status 2 if the script does not solve the level.

Examples:
  girder run 01-first-lift "E p E E S"
  girder run builtin/02-corner --file solution.txt --trace
  girder run 01-first-lift "E p E E S" --record`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runRun,
}

func init() {
	runCmd.Flags().StringVarP(&flagScriptFile, "file", "f", "", "Read the script from a file")
	runCmd.Flags().BoolVar(&flagTrace, "trace", false, "Print the board after every command")
	runCmd.Flags().BoolVar(&flagRecord, "record", false, "Record a solve in the progress database")
}

func runRun(cmd *cobra.Command, args []string) {
	e := loadEnv()

	var src string
	switch {
	case flagScriptFile != "" && len(args) == 2:
		fatalf("Error: give the script either inline or with --file, not both")
	case flagScriptFile != "":
		data, err := os.ReadFile(flagScriptFile)
		if err != nil {
			fatalf("Error reading script: %v", err)
		}
		src = string(data)
	case len(args) == 2:
		src = args[1]
	default:
		fatalf("Error: no script given")
	}

	cmds, err := puzzle.ParseScript(src)
	if err != nil {
		fatalf("Error parsing script: %v", err)
	}

	ref, lvl, err := registry.FindLevel(args[0])
	if err != nil {
		fatalf("Error: %v", err)
	}
	session, err := lvl.NewSession(e.cfg.EngineOptions())
	if err != nil {
		fatalf("Error starting level %s: %v", ref, err)
	}

	solvedAt := 0
	if session.IsWin() {
		solvedAt = -1
	}
	session.Subscribe(puzzle.ListenerFunc(func(ev puzzle.Event) {
		if ev.Kind == puzzle.EventWin && solvedAt == 0 {
			solvedAt = session.Engine().Stats().Moves
		}
	}))

	e.logger.Debug("running script", "level", ref.String(), "commands", len(cmds))
	start := time.Now()

	fmt.Printf("%s - %s\n\n", ref, lvl.Name)
	if flagTrace {
		fmt.Println(session)
		fmt.Println()
	}

	for i, c := range cmds {
		r := session.Step(c)
		if flagTrace || r != puzzle.Accepted {
			fmt.Printf("%3d. %-4s %s\n", i+1, c, r)
		}
		if flagTrace {
			fmt.Println(session)
			fmt.Println()
		}
	}

	stats := session.Engine().Stats()
	if !flagTrace {
		fmt.Println()
		fmt.Println(session)
		fmt.Println()
	}
	fmt.Printf("moves: %d  undos: %d  rejected: %d\n", stats.Moves, stats.Undos, stats.Rejected)

	switch {
	case solvedAt < 0:
		fmt.Println("The level starts solved.")
	case solvedAt > 0:
		line := fmt.Sprintf("Solved after %d moves", solvedAt)
		if lvl.Par > 0 {
			line += fmt.Sprintf(" (par %d)", lvl.Par)
		}
		fmt.Println(line + ".")
		if !session.IsWin() {
			fmt.Println("The script went on past the solve.")
		}
	default:
		fmt.Println("Not solved.")
	}

	solved := session.IsWin()
	if solved && flagRecord {
		record(e, storage.Completion{
			PackID:   ref.Pack,
			LevelID:  ref.Level,
			Moves:    stats.Moves,
			Undos:    stats.Undos,
			Duration: time.Since(start),
		})
	}
	if !solved {
		os.Exit(2)
	}
}

func record(e env, c storage.Completion) {
	store, err := storage.Open(e.cfg.Storage.DBPath)
	if err != nil {
		fatalf("Error opening progress database: %v", err)
	}
	defer store.Close()

	if _, err := store.RecordCompletion(c); err != nil {
		fatalf("Error recording solve: %v", err)
	}
	fmt.Printf("Recorded %s/%s in %d moves.\n", c.PackID, c.LevelID, c.Moves)
}
