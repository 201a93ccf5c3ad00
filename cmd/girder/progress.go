package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/girder/internal/registry"
	"github.com/vovakirdan/girder/internal/storage"
)

var flagClear bool

var progressCmd = &cobra.Command{
	Use:   "progress [pack | pack/level]",
	Short: "Show solved levels and best results",
	Long: `Display solve counts and best results for every level, or for one pack.
Given a single level, list its most recent solves instead.

Examples:
  girder progress
  girder progress builtin
  girder progress builtin/02-corner
  girder progress builtin --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runProgress,
}

func init() {
	progressCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded solves of the pack")
}

func runProgress(_ *cobra.Command, args []string) {
	e := loadEnv()

	store, err := storage.Open(e.cfg.Storage.DBPath)
	if err != nil {
		fatalf("Error opening progress database: %v", err)
	}
	defer store.Close()

	filter := ""
	if len(args) == 1 {
		filter = args[0]
	}

	if flagClear {
		if filter == "" || strings.Contains(filter, "/") {
			fatalf("Error: --clear needs a pack ID")
		}
		if err := store.ClearProgress(filter); err != nil {
			fatalf("Error clearing progress: %v", err)
		}
		fmt.Printf("Cleared progress of pack %s.\n", filter)
		return
	}

	if strings.Contains(filter, "/") {
		showHistory(store, filter)
		return
	}
	showProgress(e, store, filter)
}

// showProgress prints one table per pack.
func showProgress(e env, store *storage.Store, packID string) {
	all, err := store.AllProgress()
	if err != nil {
		fatalf("Error retrieving progress: %v", err)
	}
	byLevel := make(map[string]storage.Progress, len(all))
	for _, p := range all {
		byLevel[p.PackID+"/"+p.LevelID] = p
	}

	shown := 0
	for _, entry := range e.catalog() {
		if packID != "" && entry.Pack.ID != packID {
			continue
		}
		shown++

		solved := 0
		for _, lvl := range entry.Levels {
			if _, ok := byLevel[entry.Pack.ID+"/"+lvl.ID]; ok {
				solved++
			}
		}
		fmt.Printf("%s - %d/%d solved\n", entry.Pack.Title, solved, len(entry.Levels))
		fmt.Println()

		// Print header
		fmt.Printf("  %-20s  %-4s  %-5s  %-6s  %-8s  %s\n", "Level", "Par", "Best", "Solves", "Fastest", "Last")
		fmt.Printf("  %-20s  %-4s  %-5s  %-6s  %-8s  %s\n", "-----", "---", "----", "------", "-------", "----")

		for _, lvl := range entry.Levels {
			par := "-"
			if lvl.Par > 0 {
				par = fmt.Sprintf("%d", lvl.Par)
			}
			p, ok := byLevel[entry.Pack.ID+"/"+lvl.ID]
			if !ok {
				fmt.Printf("  %-20s  %-4s  %-5s  %-6s  %-8s  %s\n", lvl.ID, par, "-", "0", "-", "-")
				continue
			}
			best := fmt.Sprintf("%d", p.BestMoves)
			if lvl.Par > 0 && p.BestMoves <= lvl.Par {
				best += "*"
			}
			fmt.Printf("  %-20s  %-4s  %-5s  %-6d  %-8s  %s\n",
				lvl.ID, par, best, p.Solves, p.BestTime.Round(100*time.Millisecond), p.LastSolve.Format("2006-01-02 15:04"))
		}
		fmt.Println()
	}

	if shown == 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown pack %q\n", packID)
		fmt.Fprintln(os.Stderr, "Run 'girder list' to see available packs.")
		os.Exit(1)
	}
}

// showHistory prints the recent solves of one level.
func showHistory(store *storage.Store, ref string) {
	r, lvl, err := registry.FindLevel(ref)
	if err != nil {
		fatalf("Error: %v", err)
	}

	completions, err := store.Completions(r.Pack, r.Level, 10)
	if err != nil {
		fatalf("Error retrieving solves: %v", err)
	}

	fmt.Printf("Recent solves - %s (%s)\n", lvl.Name, r)
	fmt.Println()

	if len(completions) == 0 {
		fmt.Println("No solves recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'girder play %s' to set the first result!\n", r)
		return
	}

	fmt.Printf("  %-5s  %-5s  %-8s  %s\n", "Moves", "Undos", "Time", "Date")
	fmt.Printf("  %-5s  %-5s  %-8s  %s\n", "-----", "-----", "----", "----")
	for _, c := range completions {
		fmt.Printf("  %-5d  %-5d  %-8s  %s\n", c.Moves, c.Undos, c.Duration.Round(100*time.Millisecond), c.CreatedAt.Format("2006-01-02 15:04"))
	}

	if best, err := store.BestCompletion(r.Pack, r.Level); err == nil && best != nil {
		fmt.Println()
		fmt.Printf("Best: %d moves\n", best.Moves)
	}
}
