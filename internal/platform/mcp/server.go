package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vovakirdan/girder/internal/levels"
	"github.com/vovakirdan/girder/internal/puzzle"
	"github.com/vovakirdan/girder/internal/registry"
	"github.com/vovakirdan/girder/internal/storage"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

var errNoLevel = errors.New("no level loaded; call load_level first")

// Config configures a Server.
type Config struct {
	Options puzzle.EngineOptions
	Store   *storage.Store // Optional; wins are not recorded without it
	Logger  *log.Logger    // Optional; must not write to stdout
}

// Server serves one puzzle session over MCP. Tool calls may arrive
// concurrently, so all session access holds mu.
type Server struct {
	mu      sync.Mutex
	cfg     Config
	session *puzzle.Session
	ref     registry.Ref
	level   levels.Level
	started time.Time
	won     bool // set by the win listener, cleared when reported

	mcpServer *server.MCPServer
}

// NewServer creates a server with no level loaded.
func NewServer(cfg Config) *Server {
	s := &Server{cfg: cfg}
	s.initMCPServer()
	return s
}

func (s *Server) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		"girder",
		Version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`girder - beam carrier puzzle

GOAL:
Stand on a goal tile (G) while holding the beam.

BOARD GLYPHS:
# obstacle  . open  G goal  _ out of play
^ > v < carrier facing north/east/south/west
= and | beam lying east-west or north-south

RULES:
- The carrier moves one cell at a time and never turns while moving.
- A held beam occupies the carrier's cell and the next cell in its orientation.
- Pick up a beam lying in front of or under the carrier with toggle_pickup.
- Blocked commands are rejected and change nothing.

Start with list_levels and load_level, then use state to look at the board.`),
	)

	s.registerTools()
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List the available level packs and their levels",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListLevels)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "load_level",
		Description: "Load a level and start playing it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"ref": map[string]interface{}{
					"type":        "string",
					"description": "Level reference: pack/level (e.g. builtin/01-first-lift) or a bare level ID",
				},
			},
			Required: []string{"ref"},
		},
	}, s.handleLoadLevel)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "state",
		Description: "Show the board, move counters and win status",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the carrier one cell; a held beam moves with it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"direction": map[string]interface{}{
					"type":        "string",
					"description": "Direction to move",
					"enum":        []string{"north", "east", "south", "west"},
				},
			},
			Required: []string{"direction"},
		},
	}, s.handleMove)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "rotate_carrier",
		Description: "Turn the carrier a quarter turn; a held beam swings with it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"clockwise": map[string]interface{}{
					"type":        "boolean",
					"description": "Turn clockwise (default true)",
				},
			},
		},
	}, s.handleRotateCarrier)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "rotate_beam",
		Description: "Swing the held beam a quarter turn about the carrier without turning the carrier",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"clockwise": map[string]interface{}{
					"type":        "boolean",
					"description": "Swing clockwise (default true)",
				},
			},
		},
	}, s.handleRotateBeam)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "toggle_pickup",
		Description: "Drop the held beam, or pick up the beam lying in front of or under the carrier",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleTogglePickup)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "undo",
		Description: "Revert the most recent action",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleUndo)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "run_script",
		Description: "Run several commands in order. Tokens: N E S W, cw ccw, bcw bccw, p (pickup/drop), u (undo)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"script": map[string]interface{}{
					"type":        "string",
					"description": "Whitespace or comma separated command tokens",
				},
			},
			Required: []string{"script"},
		},
	}, s.handleRunScript)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "restart",
		Description: "Reload the current level from its start",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleRestart)
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves MCP over stdin and stdout until stdin closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// OnEvent implements puzzle.Listener.
func (s *Server) OnEvent(e puzzle.Event) {
	if e.Kind == puzzle.EventWin {
		s.won = true
	}
}

// Load resolves ref through the registry and starts a fresh session on it.
func (s *Server) Load(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ref)
}

func (s *Server) load(ref string) error {
	r, lvl, err := registry.FindLevel(ref)
	if err != nil {
		return err
	}

	s.won = false
	if s.session == nil {
		session, err := lvl.NewSession(s.cfg.Options)
		if err != nil {
			return err
		}
		s.session = session
		// The starting layout was evaluated before we subscribed.
		s.won = session.IsWin()
		session.Subscribe(s)
	} else if err := s.session.Load(lvl.Data); err != nil {
		return err
	}

	s.ref = r
	s.level = lvl
	s.started = time.Now()
	s.debug("level loaded", "level", r.String())
	s.recordWin()
	return nil
}

// step runs cmd to completion and reports the outcome.
func (s *Server) step(cmd puzzle.Command) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return mcp.NewToolResultError(errNoLevel.Error()), nil
	}
	r := s.session.Step(cmd)
	solved := s.recordWin()
	return mcp.NewToolResultText(s.report(fmt.Sprintf("%s: %s", cmd, r), solved)), nil
}

// recordWin stores a completion if a win was signalled since the last call.
// Returns true if one was.
func (s *Server) recordWin() bool {
	if !s.won {
		return false
	}
	s.won = false

	if s.cfg.Store == nil {
		return true
	}
	stats := s.session.Engine().Stats()
	_, err := s.cfg.Store.RecordCompletion(storage.Completion{
		PackID:   s.ref.Pack,
		LevelID:  s.ref.Level,
		Moves:    stats.Moves,
		Undos:    stats.Undos,
		Duration: time.Since(s.started),
	})
	if err != nil && s.cfg.Logger != nil {
		s.cfg.Logger.Warn("could not record completion", "level", s.ref.String(), "error", err)
	}
	return true
}

// report formats the session state after an action.
func (s *Server) report(headline string, solved bool) string {
	var b strings.Builder
	stats := s.session.Engine().Stats()

	fmt.Fprintf(&b, "%s\n", headline)
	fmt.Fprintf(&b, "level: %s (%s)\n\n", s.ref, s.level.Name)
	b.WriteString(s.session.String())
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "moves: %d  undos: %d", stats.Moves, stats.Undos)
	if s.level.Par > 0 {
		fmt.Fprintf(&b, "  par: %d", s.level.Par)
	}
	if s.session.Engine().Carrying() {
		fmt.Fprintf(&b, "  carrying beam (%s)", s.session.Engine().BeamOrientation())
	}
	b.WriteString("\n")

	switch {
	case solved:
		fmt.Fprintf(&b, "SOLVED in %d moves!\n", stats.Moves)
	case s.session.IsWin():
		b.WriteString("solved\n")
	}
	return b.String()
}

func (s *Server) debug(msg string, keyvals ...interface{}) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Debug(msg, keyvals...)
	}
}

func (s *Server) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalog, err := registry.Catalog()
	if len(catalog) == 0 && err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	for _, e := range catalog {
		fmt.Fprintf(&b, "%s (%s)\n", e.Pack.ID, e.Pack.Title)
		for _, lvl := range e.Levels {
			fmt.Fprintf(&b, "  %s/%s  %s", e.Pack.ID, lvl.ID, lvl.Name)
			if lvl.Par > 0 {
				fmt.Fprintf(&b, "  par %d", lvl.Par)
			}
			b.WriteString("\n")
		}
	}
	if err != nil {
		fmt.Fprintf(&b, "\nsome packs failed to load: %v\n", err)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleLoadLevel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	ref, _ := args["ref"].(string)
	if ref == "" {
		return mcp.NewToolResultError("ref is required"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ref); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.report("loaded", false)), nil
}

func (s *Server) handleState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return mcp.NewToolResultError(errNoLevel.Error()), nil
	}
	return mcp.NewToolResultText(s.report("state", false)), nil
}

func (s *Server) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	direction, _ := args["direction"].(string)

	d, err := puzzle.ParseDirection(direction)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.step(puzzle.Move(d))
}

func (s *Server) handleRotateCarrier(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.step(puzzle.RotateCarrier(clockwiseArg(request)))
}

func (s *Server) handleRotateBeam(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.step(puzzle.RotateBeam(clockwiseArg(request)))
}

func (s *Server) handleTogglePickup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.step(puzzle.TogglePickup())
}

func (s *Server) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.step(puzzle.Undo())
}

func (s *Server) handleRunScript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	script, _ := args["script"].(string)

	cmds, err := puzzle.ParseScript(script)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return mcp.NewToolResultError(errNoLevel.Error()), nil
	}

	var (
		lines  []string
		solved bool
	)
	for i, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		r := s.session.Step(cmd)
		lines = append(lines, fmt.Sprintf("%d. %s: %s", i+1, cmd, r))
		if s.recordWin() {
			solved = true
			break
		}
	}
	if len(lines) == 0 {
		lines = append(lines, "empty script")
	}
	return mcp.NewToolResultText(s.report(strings.Join(lines, "\n"), solved)), nil
}

func (s *Server) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return mcp.NewToolResultError(errNoLevel.Error()), nil
	}
	s.won = false
	s.session.Restart()
	s.started = time.Now()
	s.recordWin()
	return mcp.NewToolResultText(s.report("restarted", false)), nil
}

// clockwiseArg reads the optional clockwise flag, defaulting to true.
func clockwiseArg(request mcp.CallToolRequest) bool {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if cw, ok := args["clockwise"].(bool); ok {
		return cw
	}
	return true
}
