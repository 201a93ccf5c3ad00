package formats

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/girder/internal/puzzle"
)

func TestParseYAML(t *testing.T) {
	src := `
id: demo
name: Demo
par: 4
facing: south
beam: west
map: |
  #_..
  .BcG
metadata:
  hint: try it
`
	lvl, err := ParseYAML([]byte(src))
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	if lvl.ID != "demo" || lvl.Name != "Demo" || lvl.Par != 4 {
		t.Errorf("got id=%q name=%q par=%d", lvl.ID, lvl.Name, lvl.Par)
	}
	if lvl.Metadata["hint"] != "try it" {
		t.Errorf("metadata hint = %q", lvl.Metadata["hint"])
	}

	d := lvl.Data
	if d.Width != 4 || d.Height != 2 {
		t.Fatalf("size = %dx%d, want 4x2", d.Width, d.Height)
	}
	if d.CarrierFacing != puzzle.South || d.BeamOrientation != puzzle.West || d.BeamHeld {
		t.Errorf("facing=%v beam=%v held=%v", d.CarrierFacing, d.BeamOrientation, d.BeamHeld)
	}

	board, carrier, beam, err := d.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if carrier.Position != puzzle.C(2, 1) {
		t.Errorf("carrier at %v, want (2,1)", carrier.Position)
	}
	if beam.Root != puzzle.C(1, 1) {
		t.Errorf("beam at %v, want (1,1)", beam.Root)
	}
	checks := map[puzzle.Cell]puzzle.TileKind{
		puzzle.C(0, 0): puzzle.TileObstacle,
		puzzle.C(1, 0): puzzle.TileOutOfPlay,
		puzzle.C(2, 1): puzzle.TileGoal,
		puzzle.C(3, 1): puzzle.TileGoal,
		puzzle.C(0, 1): puzzle.TileOpen,
	}
	for c, want := range checks {
		if got := board.Classify(c); got != want {
			t.Errorf("Classify(%v) = %v, want %v", c, got, want)
		}
	}
}

func TestParseYAMLDefaults(t *testing.T) {
	lvl, err := ParseYAML([]byte("id: plain\nmap: |\n  CB.\n"))
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	if lvl.Name != "plain" {
		t.Errorf("Name = %q, want id as fallback", lvl.Name)
	}
	if lvl.Data.CarrierFacing != puzzle.East || lvl.Data.BeamOrientation != puzzle.East {
		t.Error("facing and beam orientation should default to East")
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"bad yaml", "id: [", "yaml unmarshal"},
		{"no id", "map: |\n  CB.\n", "no id"},
		{"bad facing", "id: x\nfacing: up-ish\nmap: |\n  CB.\n", "facing"},
		{"empty map", "id: x\nmap: \"\"\n", "map is empty"},
		{"ragged map", "id: x\nmap: |\n  CB.\n  ..\n", "row 2"},
		{"unknown glyph", "id: x\nmap: |\n  CB?\n", "unknown glyph"},
		{"invalid level", "id: x\nmap: |\n  C..\n", "BEAM_COUNT"},
		{"held with beam glyph", "id: x\nheld: true\nmap: |\n  C.B.\n", "BEAM_COUNT"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tc.src))
			if err == nil {
				t.Fatal("ParseYAML() should fail")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q should contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestParseYAMLKeepsValidationError(t *testing.T) {
	_, err := ParseYAML([]byte("id: x\nmap: |\n  CB#\n"))
	var ve *puzzle.ValidationError
	if !errors.As(err, &ve) || ve.Code != puzzle.CodeBeamBlocked {
		t.Errorf("error = %v, want wrapped %s validation error", err, puzzle.CodeBeamBlocked)
	}
}
