package anim

import (
	"time"

	"github.com/vovakirdan/girder/internal/puzzle"
)

// Player drives an Animator from a session's events and reports finished
// playback back to the session. One Player serves one session.
type Player struct {
	session *puzzle.Session
	anim    *Animator
	last    puzzle.Snapshot
}

// NewPlayer subscribes a player to the session.
func NewPlayer(s *puzzle.Session, timing Timing) *Player {
	p := &Player{
		session: s,
		anim:    New(timing),
		last:    s.Snapshot(),
	}
	p.anim.Retarget(p.last)
	s.Subscribe(p)
	return p
}

// OnEvent implements puzzle.Listener.
func (p *Player) OnEvent(e puzzle.Event) {
	switch e.Kind {
	case puzzle.EventReset:
		p.anim.Cancel()
		p.anim.Retarget(e.State)
	case puzzle.EventCommand:
		if e.Result != puzzle.Accepted {
			return
		}
		if e.Command.Animated() {
			p.anim.Start(e.Command, p.last, e.State)
		} else {
			// Pickup, drop, and undo are instant. An undo that lands while a
			// window is open cancels the command in flight, so its playback
			// is dropped too.
			p.anim.Cancel()
			p.anim.Retarget(e.State)
		}
	}
	p.last = e.State
}

// Update advances playback by dt and closes the engine's busy window when
// playback ends. Returns true if it did.
func (p *Player) Update(dt time.Duration) bool {
	if !p.anim.Update(dt) {
		return false
	}
	return p.session.Complete()
}

// Skip finishes any playback at once.
func (p *Player) Skip() bool {
	if !p.anim.Active() {
		return false
	}
	p.anim.Cancel()
	return p.session.Complete()
}

// Active reports whether playback is in progress.
func (p *Player) Active() bool {
	return p.anim.Active()
}

// Pose returns the pose to draw.
func (p *Player) Pose() Pose {
	return p.anim.Pose()
}
