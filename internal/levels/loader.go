// Package levels provides level loading functionality for girder.
// This package depends on puzzle but puzzle does not depend on levels.
package levels

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/girder/internal/levels/formats"
	"github.com/vovakirdan/girder/internal/puzzle"
)

// Level represents a complete level definition.
type Level struct {
	ID       string
	Name     string
	Par      int
	Data     puzzle.LevelData
	Metadata map[string]string
	FilePath string
}

// NewSession creates a puzzle session for this level.
func (l *Level) NewSession(opts puzzle.EngineOptions) (*puzzle.Session, error) {
	return puzzle.NewSession(l.Data, opts)
}

// Loader handles loading levels from a directory tree.
type Loader struct {
	FS     fs.FS
	Root   string
	Logger *log.Logger // Optional; receives skipped files at debug level
}

// NewLoader creates a new level loader for a directory on disk.
func NewLoader(root string) *Loader {
	return &Loader{FS: os.DirFS(root), Root: "."}
}

// NewFSLoader creates a loader over an fs.FS, such as an embedded pack.
func NewFSLoader(fsys fs.FS, root string) *Loader {
	return &Loader{FS: fsys, Root: root}
}

// LoadAll recursively scans and loads all level files.
// Invalid files are skipped. Returns levels sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level
	seen := make(map[string]string)

	err := fs.WalkDir(l.FS, l.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(path.Ext(p))
		if !isSupportedExtension(ext) {
			return nil
		}

		level, err := l.LoadFile(p)
		if err != nil {
			l.debug("skipping level file", "path", p, "err", err)
			return nil
		}
		if prev, dup := seen[level.ID]; dup {
			l.debug("skipping duplicate level id", "id", level.ID, "path", p, "first", prev)
			return nil
		}
		seen[level.ID] = p

		levels = append(levels, level)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	// Sort by ID for determinism
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})

	return levels, nil
}

// LoadFile loads a single level file.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := fs.ReadFile(l.FS, p)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", p, err)
	}

	ext := strings.ToLower(path.Ext(p))
	parsed, err := parseByExtension(data, ext)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", p, err)
	}

	return Level{
		ID:       parsed.ID,
		Name:     parsed.Name,
		Par:      parsed.Par,
		Data:     parsed.Data,
		Metadata: parsed.Metadata,
		FilePath: p,
	}, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}

	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}

	return Level{}, fmt.Errorf("level not found: %s", id)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

func (l *Loader) debug(msg string, keyvals ...interface{}) {
	if l.Logger != nil {
		l.Logger.Debug(msg, keyvals...)
	}
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
