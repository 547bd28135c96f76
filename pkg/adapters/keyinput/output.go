// Package keyinput implements ports.OutputChannel by synthesizing keyboard
// input and clipboard writes with robotgo.
package keyinput

import (
	"context"
	"fmt"
	"time"

	"github.com/user/vidbanner/pkg/ports"
)

// Options configures the keystroke sequences and their pacing.
type Options struct {
	Token         string        // Trigger token pasted from the clipboard
	ChatKey       string        // Opens the consumer's chat / command input
	TextKey       string        // Opens the consumer's text input for cues
	PasteKey      string        // Paste key, pressed with PasteModifier
	PasteModifier string
	EnterKey      string

	TriggerDelay time.Duration // Pause between trigger steps
	CueDelay     time.Duration // Pause between cue steps
	CharDelay    time.Duration // Pause after each typed character
}

// DefaultOptions returns the stock key bindings and pacing.
func DefaultOptions() Options {
	return Options{
		Token:         "@banner vid",
		ChatKey:       "y",
		TextKey:       "t",
		PasteKey:      "v",
		PasteModifier: "ctrl",
		EnterKey:      "enter",
		TriggerDelay:  20 * time.Millisecond,
		CueDelay:      50 * time.Millisecond,
		CharDelay:     10 * time.Millisecond,
	}
}

// Validate checks that every key is set and no delay is negative.
func (o Options) Validate() error {
	keys := map[string]string{
		"chat key":  o.ChatKey,
		"text key":  o.TextKey,
		"paste key": o.PasteKey,
		"enter key": o.EnterKey,
	}
	for name, key := range keys {
		if key == "" {
			return fmt.Errorf("keyinput: %s must not be empty", name)
		}
	}
	if o.TriggerDelay < 0 || o.CueDelay < 0 || o.CharDelay < 0 {
		return fmt.Errorf("keyinput: delays must not be negative")
	}
	return nil
}

// Output types into whichever window has input focus.
type Output struct {
	driver Driver
	clock  ports.Clock
	opts   Options
}

// New creates an Output backed by robotgo.
func New(clock ports.Clock, opts Options) *Output {
	return NewWithDriver(RobotDriver{}, clock, opts)
}

// NewWithDriver creates an Output with a custom input driver.
func NewWithDriver(driver Driver, clock ports.Clock, opts Options) *Output {
	return &Output{driver: driver, clock: clock, opts: opts}
}

// EmitTrigger copies the token, opens chat, pastes and confirms.
func (o *Output) EmitTrigger(ctx context.Context) error {
	if err := o.driver.WriteClipboard(o.opts.Token); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	steps := []func() error{
		func() error { return o.driver.Tap(o.opts.ChatKey) },
		func() error { return o.driver.Tap(o.opts.PasteKey, o.opts.PasteModifier) },
		func() error { return o.driver.Tap(o.opts.EnterKey) },
	}
	for _, step := range steps {
		if err := o.clock.Sleep(ctx, o.opts.TriggerDelay); err != nil {
			return err
		}
		if err := step(); err != nil {
			return fmt.Errorf("tap: %w", err)
		}
	}
	return nil
}

// EmitCue opens the text input, types text one character at a time and
// confirms. The text is sent as-is.
func (o *Output) EmitCue(ctx context.Context, text string) error {
	if err := o.clock.Sleep(ctx, o.opts.CueDelay); err != nil {
		return err
	}
	if err := o.driver.Tap(o.opts.TextKey); err != nil {
		return fmt.Errorf("tap: %w", err)
	}
	if err := o.clock.Sleep(ctx, o.opts.CueDelay); err != nil {
		return err
	}

	for _, r := range text {
		o.driver.Type(string(r))
		if err := o.clock.Sleep(ctx, o.opts.CharDelay); err != nil {
			return err
		}
	}

	if err := o.clock.Sleep(ctx, o.opts.CueDelay); err != nil {
		return err
	}
	if err := o.driver.Tap(o.opts.EnterKey); err != nil {
		return fmt.Errorf("tap: %w", err)
	}
	return nil
}

var _ ports.OutputChannel = (*Output)(nil)
