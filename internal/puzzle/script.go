package puzzle

import (
	"fmt"
	"strings"
)

// ParseCommand parses a single script token:
//
//	N E S W (or north/up, east/right, ...)  move
//	cw ccw                                  rotate carrier
//	bcw bccw                                rotate beam
//	p                                       pick up / drop
//	u                                       undo
func ParseCommand(token string) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "cw":
		return RotateCarrier(true), nil
	case "ccw":
		return RotateCarrier(false), nil
	case "bcw":
		return RotateBeam(true), nil
	case "bccw":
		return RotateBeam(false), nil
	case "p", "pick", "pickup", "drop":
		return TogglePickup(), nil
	case "u", "z", "undo":
		return Undo(), nil
	}
	d, err := ParseDirection(token)
	if err != nil {
		return Command{}, fmt.Errorf("unknown command %q", token)
	}
	return Move(d), nil
}

// ParseScript parses whitespace or comma separated tokens. Text after '#' on a
// line is a comment.
func ParseScript(src string) ([]Command, error) {
	var cmds []Command
	for lineNo, line := range strings.Split(src, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\r'
		})
		for _, f := range fields {
			cmd, err := ParseCommand(f)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
			}
			cmds = append(cmds, cmd)
		}
	}
	return cmds, nil
}

// FormatScript renders commands back into script tokens.
func FormatScript(cmds []Command) string {
	tokens := make([]string, len(cmds))
	for i, c := range cmds {
		tokens[i] = c.String()
	}
	return strings.Join(tokens, " ")
}
