package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/vidbanner/pkg/ports"
)

// ControlChannel is a mock implementation of ports.ControlChannel.
// Press simulates a key event.
type ControlChannel struct {
	mu       sync.Mutex
	handlers map[string][]func()

	BindErr error
}

// NewControlChannel creates an empty mock control channel.
func NewControlChannel() *ControlChannel {
	return &ControlChannel{handlers: make(map[string][]func())}
}

func (m *ControlChannel) Bind(key string, fn func()) error {
	if m.BindErr != nil {
		return m.BindErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[key] = append(m.handlers[key], fn)
	return nil
}

func (m *ControlChannel) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// Press invokes every handler bound to key.
func (m *ControlChannel) Press(key string) error {
	m.mu.Lock()
	fns := append([]func(){}, m.handlers[key]...)
	m.mu.Unlock()
	if len(fns) == 0 {
		return fmt.Errorf("no handler bound to %q", key)
	}
	for _, fn := range fns {
		fn()
	}
	return nil
}

// Keys returns the number of distinct keys bound.
func (m *ControlChannel) Keys() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handlers)
}

var _ ports.ControlChannel = (*ControlChannel)(nil)
