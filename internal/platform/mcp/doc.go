// Package mcp exposes a girder session as a Model Context Protocol server.
//
// The server owns a single puzzle session and drives it headlessly: every
// command is stepped to completion, so there is no busy window between tool
// calls. Wins are recorded in the progress store like TUI wins.
//
// MCP Tools:
//   - list_levels: List the registered packs and their levels
//   - load_level: Load a level by "pack/level" or bare level ID
//   - state: Show the board, counters and win status
//   - move: Move the carrier one cell
//   - rotate_carrier: Turn the carrier (and a held beam) a quarter turn
//   - rotate_beam: Swing a held beam about the carrier
//   - toggle_pickup: Lift or drop the beam
//   - undo: Revert the last action
//   - run_script: Run a sequence of command tokens
//   - restart: Reload the current level
//
// Usage:
//
//	srv := mcp.NewServer(mcp.Config{Store: store, Logger: logger})
//	srv.Load("builtin/01-first-lift")
//	srv.ServeStdio()
package mcp
