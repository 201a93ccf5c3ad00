// Package registry provides a global registry for level pack factories.
// Packs register themselves in init() functions (or from the CLI for packs
// configured at runtime), allowing frontends to discover levels without
// hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vovakirdan/girder/internal/levels"
)

// Pack is a named collection of levels.
type Pack interface {
	// ID returns a unique identifier for this pack (e.g., "builtin").
	// Used in level references ("builtin/01-first-lift") and progress storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Levels returns the valid levels of the pack, sorted by ID.
	Levels() ([]levels.Level, error)
}

// PackInfo contains metadata about a registered pack.
type PackInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a pack.
type Factory func() Pack

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a pack factory to the registry.
// Panics if a pack with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: pack %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	p := f()
	titles[id] = p.Title()
}

// Unregister removes a pack. It is a no-op for unknown IDs.
func Unregister(id string) {
	mu.Lock()
	defer mu.Unlock()

	delete(factories, id)
	delete(titles, id)
}

// List returns information about all registered packs, sorted by ID.
func List() []PackInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]PackInfo, 0, len(factories))
	for id := range factories {
		result = append(result, PackInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a pack by its ID.
// Returns an error if the pack ID is not registered.
func Create(id string) (Pack, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown pack %q", id)
	}

	return f(), nil
}

// Exists checks if a pack with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// Ref is a fully qualified level reference.
type Ref struct {
	Pack  string
	Level string
}

// String returns "pack/level".
func (r Ref) String() string {
	return r.Pack + "/" + r.Level
}

// FindLevel resolves "pack/level" or a bare level ID. A bare ID is looked up
// in every pack in ID order and the first match wins.
func FindLevel(ref string) (Ref, levels.Level, error) {
	packID, levelID, qualified := strings.Cut(ref, "/")
	if !qualified {
		levelID = packID
	}

	var candidates []string
	if qualified {
		if !Exists(packID) {
			return Ref{}, levels.Level{}, fmt.Errorf("registry: unknown pack %q", packID)
		}
		candidates = []string{packID}
	} else {
		for _, info := range List() {
			candidates = append(candidates, info.ID)
		}
	}

	for _, id := range candidates {
		p, err := Create(id)
		if err != nil {
			return Ref{}, levels.Level{}, err
		}
		lvls, err := p.Levels()
		if err != nil {
			return Ref{}, levels.Level{}, err
		}
		for _, l := range lvls {
			if l.ID == levelID {
				return Ref{Pack: id, Level: l.ID}, l, nil
			}
		}
	}

	return Ref{}, levels.Level{}, fmt.Errorf("registry: level %q not found", ref)
}

// Entry is one pack with its loaded levels.
type Entry struct {
	Pack   PackInfo
	Levels []levels.Level
}

// Catalog loads every registered pack in ID order. Packs that fail to load
// are reported in the error but do not hide the others.
func Catalog() ([]Entry, error) {
	var (
		out  []Entry
		errs []error
	)
	for _, info := range List() {
		p, err := Create(info.ID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lvls, err := p.Levels()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, Entry{Pack: info, Levels: lvls})
	}
	return out, errors.Join(errs...)
}
