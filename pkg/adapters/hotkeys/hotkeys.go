// Package hotkeys implements ports.ControlChannel with system-wide key
// hooks from gohook. Hooks fire regardless of which window has focus.
package hotkeys

import (
	"context"
	"errors"
	"fmt"
	"sync"

	hook "github.com/robotn/gohook"

	"github.com/user/vidbanner/pkg/ports"
)

var (
	// ErrUnknownKey is returned by Bind for a key gohook has no code for.
	ErrUnknownKey = errors.New("hotkeys: unknown key")
	// ErrRunning is returned by Bind after Run has started.
	ErrRunning = errors.New("hotkeys: already running")
)

// backend is the process-global hook registry.
type backend interface {
	Known(key string) bool
	Register(key string, fn func())
	// Start begins delivering events and returns a channel closed once
	// delivery has stopped.
	Start() <-chan bool
	End()
}

// Channel collects key bindings and dispatches them while Run is active.
type Channel struct {
	backend backend

	mu       sync.Mutex
	bindings map[string][]func()
	running  bool
}

// New creates a Channel on the gohook backend.
func New() *Channel {
	return newChannel(gohookBackend{})
}

func newChannel(b backend) *Channel {
	return &Channel{backend: b, bindings: make(map[string][]func())}
}

// Bind registers fn for key presses of key.
func (c *Channel) Bind(key string, fn func()) error {
	if !c.backend.Known(key) {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return ErrRunning
	}
	c.bindings[key] = append(c.bindings[key], fn)
	return nil
}

// Run installs the hooks and blocks until ctx is cancelled.
func (c *Channel) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrRunning
	}
	c.running = true
	for key, fns := range c.bindings {
		for _, fn := range fns {
			c.backend.Register(key, fn)
		}
	}
	c.mu.Unlock()

	done := c.backend.Start()
	select {
	case <-ctx.Done():
		c.backend.End()
		<-done
		return ctx.Err()
	case <-done:
		return errors.New("hotkeys: event loop stopped")
	}
}

type gohookBackend struct{}

func (gohookBackend) Known(key string) bool {
	_, ok := hook.Keycode[key]
	return ok
}

func (gohookBackend) Register(key string, fn func()) {
	hook.Register(hook.KeyDown, []string{key}, func(hook.Event) { fn() })
}

func (gohookBackend) Start() <-chan bool {
	return hook.Process(hook.Start())
}

func (gohookBackend) End() {
	hook.End()
}

var _ ports.ControlChannel = (*Channel)(nil)
