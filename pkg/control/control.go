// Package control maps external trigger events onto playback state.
package control

import (
	"errors"
	"fmt"

	"github.com/user/vidbanner/pkg/playback"
	"github.com/user/vidbanner/pkg/ports"
)

// Keys names the two bindings of the control surface.
type Keys struct {
	Toggle string // Starts or stops playback
	Reset  string // Moves playback back to the start
}

// DefaultKeys returns the default bindings: "-" toggles, "=" (the
// unshifted "+" key) resets.
func DefaultKeys() Keys {
	return Keys{Toggle: "-", Reset: "="}
}

// Validate checks both keys are set and distinct.
func (k Keys) Validate() error {
	if k.Toggle == "" || k.Reset == "" {
		return errors.New("control: toggle and reset keys are required")
	}
	if k.Toggle == k.Reset {
		return fmt.Errorf("control: toggle and reset share key %q", k.Toggle)
	}
	return nil
}

// Surface turns control events into state mutations. Its methods hold the
// state guard only for the mutation itself and are safe to call from any
// goroutine.
type Surface struct {
	state  *playback.State
	logger ports.Logger
}

// NewSurface creates a Surface over state.
func NewSurface(state *playback.State, logger ports.Logger) *Surface {
	return &Surface{state: state, logger: logger}
}

// Toggle flips playback on or off.
func (s *Surface) Toggle() {
	if s.state.Toggle() {
		s.logger.Info("ENABLED")
	} else {
		s.logger.Info("DISABLED")
	}
}

// Reset asks the pacing loop to restart from zero on its next tick.
func (s *Surface) Reset() {
	s.state.RequestReset()
	s.logger.Info("Resetting to 0 second.")
}

// Attach binds the surface to a control channel.
func (s *Surface) Attach(ch ports.ControlChannel, keys Keys) error {
	if err := keys.Validate(); err != nil {
		return err
	}
	if err := ch.Bind(keys.Toggle, s.Toggle); err != nil {
		return fmt.Errorf("bind toggle key %q: %w", keys.Toggle, err)
	}
	if err := ch.Bind(keys.Reset, s.Reset); err != nil {
		return fmt.Errorf("bind reset key %q: %w", keys.Reset, err)
	}
	return nil
}
