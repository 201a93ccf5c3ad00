package puzzle

import (
	"strings"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		token string
		want  Command
	}{
		{"N", Move(North)},
		{"right", Move(East)},
		{"s", Move(South)},
		{"West", Move(West)},
		{"cw", RotateCarrier(true)},
		{"CCW", RotateCarrier(false)},
		{"bcw", RotateBeam(true)},
		{"bccw", RotateBeam(false)},
		{"p", TogglePickup()},
		{"drop", TogglePickup()},
		{"u", Undo()},
		{"undo", Undo()},
	}

	for _, tc := range tests {
		got, err := ParseCommand(tc.token)
		if err != nil {
			t.Errorf("ParseCommand(%q) error = %v", tc.token, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseCommand(%q) = %v, want %v", tc.token, got, tc.want)
		}
	}

	if _, err := ParseCommand("jump"); err == nil {
		t.Error("ParseCommand(\"jump\") should fail")
	}
}

func TestParseScript(t *testing.T) {
	src := `# pick up and walk to the goal
p, e e
cw s   # turn and step
u
`
	cmds, err := ParseScript(src)
	if err != nil {
		t.Fatalf("ParseScript() error = %v", err)
	}
	want := []Command{TogglePickup(), Move(East), Move(East), RotateCarrier(true), Move(South), Undo()}
	if len(cmds) != len(want) {
		t.Fatalf("ParseScript() returned %d commands, want %d", len(cmds), len(want))
	}
	for i := range want {
		if cmds[i] != want[i] {
			t.Errorf("command %d = %v, want %v", i, cmds[i], want[i])
		}
	}

	if got := FormatScript(cmds); got != "p E E cw S u" {
		t.Errorf("FormatScript() = %q", got)
	}
}

func TestParseScriptReportsLine(t *testing.T) {
	_, err := ParseScript("e e\nw x")
	if err == nil {
		t.Fatal("ParseScript() should fail on an unknown token")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q should name line 2", err)
	}
}

func TestFormatScriptRoundTrip(t *testing.T) {
	cmds := []Command{Move(North), RotateBeam(false), TogglePickup(), RotateCarrier(false), Undo()}
	parsed, err := ParseScript(FormatScript(cmds))
	if err != nil {
		t.Fatalf("ParseScript() error = %v", err)
	}
	for i := range cmds {
		if parsed[i] != cmds[i] {
			t.Errorf("command %d = %v, want %v", i, parsed[i], cmds[i])
		}
	}
}
