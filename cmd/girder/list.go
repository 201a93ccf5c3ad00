package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List level packs and levels",
	Long:  `Shows every registered level pack with its levels, par, and your best result.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	e := loadEnv()
	catalog := e.catalog()

	if len(catalog) == 0 {
		fmt.Println("No levels available.")
		return
	}

	store := e.openStore()
	if store != nil {
		defer store.Close()
	}

	// Calculate column widths
	maxRefLen := 5 // "Level" header
	for _, entry := range catalog {
		for _, lvl := range entry.Levels {
			if n := len(entry.Pack.ID) + 1 + len(lvl.ID); n > maxRefLen {
				maxRefLen = n
			}
		}
	}

	for _, entry := range catalog {
		fmt.Printf("%s (%d levels)\n", entry.Pack.Title, len(entry.Levels))
		fmt.Println()
		fmt.Printf("  %-*s  %-24s  %-4s  %s\n", maxRefLen, "Level", "Name", "Par", "Best")
		fmt.Printf("  %-*s  %-24s  %-4s  %s\n", maxRefLen, "-----", "----", "---", "----")

		for _, lvl := range entry.Levels {
			par := "-"
			if lvl.Par > 0 {
				par = fmt.Sprintf("%d", lvl.Par)
			}
			best := "-"
			if store != nil {
				if c, err := store.BestCompletion(entry.Pack.ID, lvl.ID); err == nil && c != nil {
					best = fmt.Sprintf("%d", c.Moves)
				}
			}
			fmt.Printf("  %-*s  %-24s  %-4s  %s\n", maxRefLen, entry.Pack.ID+"/"+lvl.ID, lvl.Name, par, best)
		}
		fmt.Println()
	}

	fmt.Println("Run 'girder play <level>' to play a level.")
}
