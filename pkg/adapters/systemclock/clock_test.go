package systemclock

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestClock_Sleep(t *testing.T) {
	c := New()
	start := c.Now()
	if err := c.Sleep(context.Background(), 20*time.Millisecond); err != nil {
		t.Fatalf("Sleep failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("slept only %v", elapsed)
	}
}

func TestClock_SleepNonPositive(t *testing.T) {
	c := New()
	start := time.Now()
	if err := c.Sleep(context.Background(), -time.Second); err != nil {
		t.Fatalf("Sleep failed: %v", err)
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Error("negative sleep must return immediately")
	}
}

func TestClock_SleepCancelled(t *testing.T) {
	c := New()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := c.Sleep(ctx, time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("cancel must interrupt the sleep")
	}
}
