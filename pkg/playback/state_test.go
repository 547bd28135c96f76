package playback

import (
	"sync"
	"testing"
	"time"
)

func TestNewState_StartsDisabledAtOrigin(t *testing.T) {
	s := NewState().Snapshot()
	if s.Enabled || s.ResetRequested || s.Cursor != 0 || s.HasLastCue {
		t.Errorf("unexpected initial state %+v", s)
	}
}

func TestState_BeginWhileDisabled(t *testing.T) {
	s := NewState()
	s.RequestReset()

	if _, enabled, _ := s.Begin(); enabled {
		t.Fatal("expected disabled")
	}
	if !s.Snapshot().ResetRequested {
		t.Error("reset must stay pending while disabled")
	}
}

func TestState_ResetAppliesOnce(t *testing.T) {
	s := NewState()
	s.Toggle()
	for i := 0; i < 7; i++ {
		s.Advance(50*time.Millisecond, 10*time.Second)
	}
	s.RequestReset()

	cursor, enabled, reset := s.Begin()
	if !enabled || !reset || cursor != 0 {
		t.Fatalf("expected reset to origin, got cursor=%v enabled=%v reset=%v", cursor, enabled, reset)
	}
	if s.Snapshot().ResetRequested {
		t.Error("reset flag must clear after one application")
	}

	s.Advance(50*time.Millisecond, 10*time.Second)
	cursor, _, reset = s.Begin()
	if reset || cursor != 50*time.Millisecond {
		t.Errorf("second Begin must not reset, got cursor=%v reset=%v", cursor, reset)
	}
}

func TestState_TogglePreservesCursor(t *testing.T) {
	s := NewState()
	s.Toggle()
	for i := 0; i < 13; i++ {
		s.Advance(50*time.Millisecond, 10*time.Second)
	}
	before := s.Snapshot().Cursor

	if s.Toggle() {
		t.Fatal("expected disabled after second toggle")
	}
	if !s.Toggle() {
		t.Fatal("expected enabled after third toggle")
	}

	cursor, _, _ := s.Begin()
	if cursor != before {
		t.Errorf("cursor changed across toggle: %v -> %v", before, cursor)
	}
}

func TestNext_Wrap(t *testing.T) {
	const step = 50 * time.Millisecond
	const duration = 10 * time.Second

	tests := []struct {
		cursor time.Duration
		want   time.Duration
	}{
		{0, step},
		{2 * time.Second, 2*time.Second + step},
		{duration - 2*step, duration - step},
		{duration - step, 0},
		{duration - time.Millisecond, 0},
	}

	for _, tt := range tests {
		if got := Next(tt.cursor, step, duration); got != tt.want {
			t.Errorf("Next(%v) = %v, want %v", tt.cursor, got, tt.want)
		}
	}
}

func TestNext_StaysInRange(t *testing.T) {
	const duration = 1234 * time.Millisecond
	steps := []time.Duration{time.Millisecond, 7 * time.Millisecond, 50 * time.Millisecond, duration, 2 * duration}

	for _, step := range steps {
		cursor := time.Duration(0)
		for i := 0; i < 500; i++ {
			cursor = Next(cursor, step, duration)
			if cursor < 0 || cursor >= duration {
				t.Fatalf("step %v: cursor %v out of [0, %v)", step, cursor, duration)
			}
		}
	}
}

func TestState_ObserveCue(t *testing.T) {
	s := NewState()

	steps := []struct {
		text   string
		active bool
		want   bool
	}{
		{"Hello", true, true},
		{"Hello", true, false},
		{"Hello", true, false},
		{"World", true, true},
		{"", false, false},
		{"World", true, true},
		{"", true, true},
		{"", true, false},
	}

	for i, step := range steps {
		if got := s.ObserveCue(step.text, step.active); got != step.want {
			t.Errorf("step %d (%q, %v): dispatch = %v, want %v", i, step.text, step.active, got, step.want)
		}
	}
}

func TestState_ConcurrentAccess(t *testing.T) {
	s := NewState()
	s.Toggle()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.Begin()
			s.ObserveCue("x", i%3 == 0)
			s.Advance(time.Millisecond, time.Second)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if i%2 == 0 {
				s.Toggle()
			} else {
				s.RequestReset()
			}
			s.Snapshot()
		}
	}()
	wg.Wait()

	if c := s.Snapshot().Cursor; c < 0 || c >= time.Second {
		t.Errorf("cursor %v out of range", c)
	}
}
