// Package anim plays back accepted moves and rotations and tells the puzzle
// engine when playback has finished. It is the presentation side of the
// engine's busy window.
package anim

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/vovakirdan/girder/internal/puzzle"
)

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in_quad":      ease.InQuad,
	"out_quad":     ease.OutQuad,
	"in_out_quad":  ease.InOutQuad,
	"in_cubic":     ease.InCubic,
	"out_cubic":    ease.OutCubic,
	"in_out_cubic": ease.InOutCubic,
	"in_out_sine":  ease.InOutSine,
	"out_back":     ease.OutBack,
	"out_bounce":   ease.OutBounce,
}

// ParseEasing returns the easing function registered under name.
func ParseEasing(name string) (ease.TweenFunc, error) {
	f, ok := easings[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q (known: %s)", name, strings.Join(EasingNames(), ", "))
	}
	return f, nil
}

// EasingNames lists the accepted easing names in sorted order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for n := range easings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Timing configures playback durations.
type Timing struct {
	Move   time.Duration
	Rotate time.Duration
	Easing ease.TweenFunc
}

// DefaultTiming returns the stock durations.
func DefaultTiming() Timing {
	return Timing{
		Move:   120 * time.Millisecond,
		Rotate: 160 * time.Millisecond,
		Easing: ease.OutQuad,
	}
}

// Pose is an interpolated view of the carrier and beam. Angles are measured in
// quarter turns clockwise from North.
type Pose struct {
	CarrierX, CarrierY float32
	CarrierAngle       float32
	BeamX, BeamY       float32
	BeamAngle          float32
	Carrying           bool
}

// PoseOf converts a committed snapshot into a pose.
func PoseOf(s puzzle.Snapshot) Pose {
	return Pose{
		CarrierX:     float32(s.CarrierPos.X),
		CarrierY:     float32(s.CarrierPos.Y),
		CarrierAngle: float32(s.CarrierFacing),
		BeamX:        float32(s.BeamRoot.X),
		BeamY:        float32(s.BeamRoot.Y),
		BeamAngle:    float32(s.BeamOrientation),
		Carrying:     s.Carrying,
	}
}

// Carrier returns the cell the carrier is drawn on and the facing it is drawn with.
func (p Pose) Carrier() (puzzle.Cell, puzzle.Direction) {
	return puzzle.C(round(p.CarrierX), round(p.CarrierY)), quarter(p.CarrierAngle)
}

// Beam returns the cell the beam root is drawn on and the orientation it is drawn with.
func (p Pose) Beam() (puzzle.Cell, puzzle.Direction) {
	return puzzle.C(round(p.BeamX), round(p.BeamY)), quarter(p.BeamAngle)
}

// lerp interpolates between two poses. Angles take the short way round.
func lerp(a, b Pose, t float32) Pose {
	return Pose{
		CarrierX:     a.CarrierX + (b.CarrierX-a.CarrierX)*t,
		CarrierY:     a.CarrierY + (b.CarrierY-a.CarrierY)*t,
		CarrierAngle: a.CarrierAngle + angleDelta(a.CarrierAngle, b.CarrierAngle)*t,
		BeamX:        a.BeamX + (b.BeamX-a.BeamX)*t,
		BeamY:        a.BeamY + (b.BeamY-a.BeamY)*t,
		BeamAngle:    a.BeamAngle + angleDelta(a.BeamAngle, b.BeamAngle)*t,
		Carrying:     b.Carrying,
	}
}

// angleDelta returns the signed quarter-turn difference in [-2, 2).
func angleDelta(from, to float32) float32 {
	d := int(round(to)-round(from)) % 4
	if d < -2 {
		d += 4
	}
	if d >= 2 {
		d -= 4
	}
	return float32(d)
}

func round(f float32) int {
	if f < 0 {
		return -int(-f + 0.5)
	}
	return int(f + 0.5)
}

func quarter(angle float32) puzzle.Direction {
	q := round(angle) % 4
	if q < 0 {
		q += 4
	}
	return puzzle.Direction(q)
}

// Animator interpolates one command at a time.
type Animator struct {
	timing Timing
	tween  *gween.Tween
	cmd    puzzle.Command
	from   Pose
	to     Pose
	t      float32
}

// New creates an idle animator.
func New(timing Timing) *Animator {
	if timing.Easing == nil {
		timing.Easing = ease.Linear
	}
	return &Animator{timing: timing}
}

// Start begins playback of cmd from one committed state to the next.
// Any playback in progress is replaced.
func (a *Animator) Start(cmd puzzle.Command, from, to puzzle.Snapshot) {
	d := a.timing.Move
	if cmd.Kind == puzzle.CmdRotateCarrier || cmd.Kind == puzzle.CmdRotateBeam {
		d = a.timing.Rotate
	}
	a.cmd = cmd
	a.from = PoseOf(from)
	a.to = PoseOf(to)
	a.t = 0
	a.tween = gween.New(0, 1, float32(d.Seconds()), a.timing.Easing)
}

// Retarget snaps playback to a new destination without restarting the clock.
func (a *Animator) Retarget(to puzzle.Snapshot) {
	p := PoseOf(to)
	a.from = p
	a.to = p
}

// Update advances playback by dt. It returns true exactly once, on the update
// that finishes the current playback.
func (a *Animator) Update(dt time.Duration) bool {
	if a.tween == nil {
		return false
	}
	t, finished := a.tween.Update(float32(dt.Seconds()))
	a.t = t
	if finished {
		a.tween = nil
		a.t = 1
		a.from = a.to
		return true
	}
	return false
}

// Cancel drops playback without reporting completion.
func (a *Animator) Cancel() {
	a.tween = nil
	a.t = 1
	a.from = a.to
}

// Active reports whether playback is in progress.
func (a *Animator) Active() bool {
	return a.tween != nil
}

// Command returns the command being played back.
func (a *Animator) Command() puzzle.Command {
	return a.cmd
}

// Pose returns the current interpolated pose.
func (a *Animator) Pose() Pose {
	if a.tween == nil {
		return a.to
	}
	return lerp(a.from, a.to, a.t)
}
