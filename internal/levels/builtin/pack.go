// Package builtin registers the level pack shipped inside the binary.
package builtin

import (
	"embed"

	"github.com/vovakirdan/girder/internal/levels"
	"github.com/vovakirdan/girder/internal/registry"
)

// PackID is the registry ID of the embedded pack.
const PackID = "builtin"

//go:embed *.yaml
var files embed.FS

func init() {
	registry.Register(PackID, New)
}

// New returns the embedded pack.
func New() registry.Pack {
	return levels.NewPack(PackID, "Builtin", levels.NewFSLoader(files, "."))
}
