package playback

import (
	"sync"
	"time"
)

// State is the playback state shared between the pacing loop and the
// control surface. Every field is read and written under mu, and mu is
// never held across I/O or sleeps.
type State struct {
	mu             sync.Mutex
	enabled        bool
	resetRequested bool
	cursor         time.Duration
	lastCue        string
	hasLastCue     bool
}

// Snapshot is a consistent copy of State taken under its guard.
type Snapshot struct {
	Enabled        bool
	ResetRequested bool
	Cursor         time.Duration
	LastCue        string
	HasLastCue     bool
}

// NewState returns a disabled state with the cursor at the origin.
func NewState() *State {
	return &State{}
}

// Toggle flips the enabled flag and returns the new value.
func (s *State) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = !s.enabled
	return s.enabled
}

// RequestReset asks the next tick to move the cursor back to zero.
func (s *State) RequestReset() {
	s.mu.Lock()
	s.resetRequested = true
	s.mu.Unlock()
}

// Begin opens a tick. It reports enabled=false without touching the
// cursor when playback is off. Otherwise it applies a pending reset and
// returns the cursor to sample.
func (s *State) Begin() (cursor time.Duration, enabled, reset bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return s.cursor, false, false
	}
	if s.resetRequested {
		s.cursor = 0
		s.resetRequested = false
		reset = true
	}
	return s.cursor, true, reset
}

// Rewind moves the cursor back to zero after a frame could not be read.
func (s *State) Rewind() {
	s.mu.Lock()
	s.cursor = 0
	s.mu.Unlock()
}

// ObserveCue records the cue active at the sampled cursor and reports
// whether text must be dispatched. An active cue is dispatched only when
// it differs from the last one sent; no active cue forgets the last one
// so the same text is sent again when it next becomes active.
func (s *State) ObserveCue(text string, active bool) (dispatch bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !active {
		s.lastCue, s.hasLastCue = "", false
		return false
	}
	if s.hasLastCue && s.lastCue == text {
		return false
	}
	s.lastCue, s.hasLastCue = text, true
	return true
}

// Advance moves the cursor forward by step, wrapping to zero once it
// reaches or passes duration, and returns the new cursor.
func (s *State) Advance(step, duration time.Duration) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = Next(s.cursor, step, duration)
	return s.cursor
}

// Snapshot returns a consistent copy of all fields.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Enabled:        s.enabled,
		ResetRequested: s.resetRequested,
		Cursor:         s.cursor,
		LastCue:        s.lastCue,
		HasLastCue:     s.hasLastCue,
	}
}

// Next returns cursor+step, or zero if that reaches duration.
func Next(cursor, step, duration time.Duration) time.Duration {
	next := cursor + step
	if next >= duration {
		return 0
	}
	return next
}
