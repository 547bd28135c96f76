package mocks

import (
	"context"
	"sync"

	"github.com/user/vidbanner/pkg/ports"
)

// OutputChannel is a mock implementation of ports.OutputChannel that
// records every emission in order.
type OutputChannel struct {
	mu sync.Mutex

	TriggerErr error
	CueErr     error

	triggers int
	cues     []string
	events   []string
}

func (m *OutputChannel) EmitTrigger(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triggers++
	m.events = append(m.events, "trigger")
	return m.TriggerErr
}

func (m *OutputChannel) EmitCue(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cues = append(m.cues, text)
	m.events = append(m.events, "cue:"+text)
	return m.CueErr
}

// Triggers returns the number of EmitTrigger calls.
func (m *OutputChannel) Triggers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.triggers
}

// Cues returns the texts passed to EmitCue, in order.
func (m *OutputChannel) Cues() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.cues...)
}

// Events returns "trigger" and "cue:<text>" entries in call order.
func (m *OutputChannel) Events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.events...)
}

var _ ports.OutputChannel = (*OutputChannel)(nil)
