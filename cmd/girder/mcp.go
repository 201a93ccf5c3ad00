package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/girder/internal/platform/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [level]",
	Short: "Serve a puzzle session over MCP on stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout so that an MCP client
can play girder through tools (list_levels, load_level, state, move,
rotate_carrier, rotate_beam, toggle_pickup, undo, run_script, restart).

Solves are recorded in the progress database. Logs go to stderr.

Examples:
  girder mcp
  girder mcp builtin/01-first-lift`,
	Args: cobra.MaximumNArgs(1),
	Run:  runMCP,
}

func runMCP(_ *cobra.Command, args []string) {
	e := loadEnv()

	store := e.openStore()
	if store != nil {
		defer store.Close()
	}

	srv := mcp.NewServer(mcp.Config{
		Options: e.cfg.EngineOptions(),
		Store:   store,
		Logger:  e.logger,
	})
	if len(args) == 1 {
		if err := srv.Load(args[0]); err != nil {
			fatalf("Error: %v", err)
		}
	}

	e.logger.Info("serving MCP on stdio", "version", mcp.Version)
	if err := srv.ServeStdio(); err != nil {
		e.logger.Error("MCP server stopped", "error", err)
	}
}
