package levels

import "fmt"

// Pack is a named, ordered collection of levels backed by a loader.
type Pack struct {
	id     string
	title  string
	loader *Loader
}

// NewPack creates a pack over a loader.
func NewPack(id, title string, loader *Loader) *Pack {
	return &Pack{id: id, title: title, loader: loader}
}

// ID returns the pack identifier.
func (p *Pack) ID() string { return p.id }

// Title returns the display name.
func (p *Pack) Title() string { return p.title }

// Loader returns the underlying loader.
func (p *Pack) Loader() *Loader { return p.loader }

// Levels loads every valid level in the pack, sorted by ID.
func (p *Pack) Levels() ([]Level, error) {
	lvls, err := p.loader.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", p.id, err)
	}
	return lvls, nil
}

// Next returns the level after id in pack order.
// The second value is false when id is last or unknown.
func Next(lvls []Level, id string) (Level, bool) {
	for i, l := range lvls {
		if l.ID == id && i+1 < len(lvls) {
			return lvls[i+1], true
		}
	}
	return Level{}, false
}
