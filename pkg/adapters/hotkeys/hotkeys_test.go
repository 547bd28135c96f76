package hotkeys

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeBackend struct {
	mu      sync.Mutex
	hooks   map[string][]func()
	done    chan bool
	started chan struct{}
	ended   bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		hooks:   make(map[string][]func()),
		done:    make(chan bool),
		started: make(chan struct{}),
	}
}

func (f *fakeBackend) Known(key string) bool {
	return key == "-" || key == "=" || key == "f9"
}

func (f *fakeBackend) Register(key string, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooks[key] = append(f.hooks[key], fn)
}

func (f *fakeBackend) Start() <-chan bool {
	close(f.started)
	return f.done
}

func (f *fakeBackend) End() {
	f.mu.Lock()
	f.ended = true
	f.mu.Unlock()
	close(f.done)
}

func (f *fakeBackend) press(key string) {
	f.mu.Lock()
	fns := f.hooks[key]
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func TestBind_UnknownKey(t *testing.T) {
	ch := newChannel(newFakeBackend())
	if err := ch.Bind("not-a-key", func() {}); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Bind() error = %v, want ErrUnknownKey", err)
	}
}

func TestRun_DispatchesUntilCancelled(t *testing.T) {
	fb := newFakeBackend()
	ch := newChannel(fb)

	var toggles, resets int
	var mu sync.Mutex
	if err := ch.Bind("-", func() { mu.Lock(); toggles++; mu.Unlock() }); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if err := ch.Bind("=", func() { mu.Lock(); resets++; mu.Unlock() }); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- ch.Run(ctx) }()

	select {
	case <-fb.started:
	case <-time.After(time.Second):
		t.Fatal("Run did not start the backend")
	}

	fb.press("-")
	fb.press("-")
	fb.press("=")

	if err := ch.Bind("f9", func() {}); !errors.Is(err, ErrRunning) {
		t.Errorf("Bind() while running error = %v, want ErrRunning", err)
	}

	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	if toggles != 2 || resets != 1 {
		t.Errorf("toggles = %d, resets = %d", toggles, resets)
	}
	if !fb.ended {
		t.Error("backend should be ended")
	}
}

func TestRun_BackendStops(t *testing.T) {
	fb := newFakeBackend()
	ch := newChannel(fb)
	close(fb.done)

	if err := ch.Run(context.Background()); err == nil {
		t.Error("expected error when the event loop stops on its own")
	}
}
