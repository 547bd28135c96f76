// Package pacer runs the real-time loop that samples the video at a virtual
// cursor, publishes the downsampled frame and keeps subtitle text in sync.
package pacer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/user/vidbanner/pkg/playback"
	"github.com/user/vidbanner/pkg/ports"
)

// Fit selects how a frame is mapped onto the output size.
type Fit string

const (
	// FitStretch scales each axis independently to the output size.
	FitStretch Fit = "stretch"
	// FitContain keeps the aspect ratio and letterboxes with Background.
	FitContain Fit = "contain"
)

// Config contains the fixed settings of a Loop.
type Config struct {
	Destination  string        // Published image path
	Width        int           // Output image width
	Height       int           // Output image height
	Interval     time.Duration // Target cadence, cursor step per tick
	IdleInterval time.Duration // Re-check period while disabled
	Fit          Fit
	Background   color.Color // Letterbox color for FitContain
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Width:        64,
		Height:       64,
		Interval:     50 * time.Millisecond,
		IdleInterval: 100 * time.Millisecond,
		Fit:          FitStretch,
		Background:   color.Black,
	}
}

// Validate checks that the config can drive a loop.
func (c Config) Validate() error {
	if c.Destination == "" {
		return errors.New("pacer: destination path is required")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("pacer: output size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("pacer: interval must be positive, got %v", c.Interval)
	}
	if c.IdleInterval <= 0 {
		return fmt.Errorf("pacer: idle interval must be positive, got %v", c.IdleInterval)
	}
	switch c.Fit {
	case FitStretch, FitContain:
	default:
		return fmt.Errorf("pacer: unknown fit %q", c.Fit)
	}
	return nil
}

// CueIndex answers which subtitle text is active at a time offset.
type CueIndex interface {
	Lookup(t time.Duration) (string, bool)
}

// Outcome classifies what a single tick did.
type Outcome int

const (
	// OutcomeIdle means playback was disabled; nothing was sampled.
	OutcomeIdle Outcome = iota
	// OutcomeMiss means no frame was available and the cursor was rewound.
	OutcomeMiss
	// OutcomePublished means a frame was published and the trigger sent.
	OutcomePublished
	// OutcomePublishFailed means the frame could not be published.
	OutcomePublishFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIdle:
		return "idle"
	case OutcomeMiss:
		return "miss"
	case OutcomePublished:
		return "published"
	case OutcomePublishFailed:
		return "publish-failed"
	default:
		return "unknown"
	}
}

// TickResult describes one iteration of the loop.
type TickResult struct {
	Outcome Outcome
	Reset   bool          // A pending reset was applied
	Cursor  time.Duration // Cursor the frame was sampled at
	Next    time.Duration // Cursor after advancing
	Cue     string        // Cue text dispatched this tick
	CueSent bool
}

// Loop is the pacing loop. It is the only writer of the cursor.
type Loop struct {
	source    ports.FrameSource
	cues      CueIndex
	publisher ports.FramePublisher
	output    ports.OutputChannel
	renderer  ports.Renderer
	clock     ports.Clock
	state     *playback.State
	video     playback.Descriptor
	config    Config
	logger    ports.Logger
}

// New creates a Loop. cues may be nil when no subtitles are loaded.
func New(
	source ports.FrameSource,
	cues CueIndex,
	publisher ports.FramePublisher,
	output ports.OutputChannel,
	renderer ports.Renderer,
	clock ports.Clock,
	state *playback.State,
	video playback.Descriptor,
	config Config,
	logger ports.Logger,
) *Loop {
	return &Loop{
		source:    source,
		cues:      cues,
		publisher: publisher,
		output:    output,
		renderer:  renderer,
		clock:     clock,
		state:     state,
		video:     video,
		config:    config,
		logger:    logger.WithComponent("pacer"),
	}
}

// Run ticks until ctx is cancelled and then returns ctx.Err().
// No single tick can stop the loop.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := l.clock.Now()
		result := l.Tick(ctx)

		var wait time.Duration
		switch result.Outcome {
		case OutcomeIdle:
			wait = l.config.IdleInterval
		case OutcomeMiss:
			// Retry from the origin without waiting.
			continue
		default:
			// Under load the slip is accepted; there is no catch-up.
			wait = l.config.Interval - l.clock.Now().Sub(start)
		}

		if err := l.clock.Sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Tick runs one iteration without the trailing pacing sleep.
func (l *Loop) Tick(ctx context.Context) TickResult {
	cursor, enabled, reset := l.state.Begin()
	if !enabled {
		return TickResult{Outcome: OutcomeIdle}
	}
	if reset {
		l.logger.Debug("Reset applied, cursor at 0")
	}

	result := TickResult{Reset: reset, Cursor: cursor}

	img, ok := l.source.FrameAt(cursor)
	if !ok {
		l.state.Rewind()
		l.logger.Debug("No frame at %.2f second, rewinding to start", cursor.Seconds())
		result.Outcome = OutcomeMiss
		return result
	}

	frame := l.downsample(img)
	if err := l.publisher.Publish(ctx, frame, l.config.Destination); err != nil {
		if ctx.Err() == nil {
			l.logger.Warn("Failed to publish frame: %s", err)
		}
		result.Outcome = OutcomePublishFailed
	} else {
		result.Outcome = OutcomePublished
		l.logger.Info("Frame %.2f second -> %s", cursor.Seconds(), l.config.Destination)

		if err := l.output.EmitTrigger(ctx); err != nil && ctx.Err() == nil {
			l.logger.Warn("Failed to send trigger: %s", err)
		}
	}

	l.syncCue(ctx, cursor, &result)

	result.Next = l.state.Advance(l.config.Interval, l.video.Duration)
	return result
}

func (l *Loop) syncCue(ctx context.Context, cursor time.Duration, result *TickResult) {
	var text string
	var active bool
	if l.cues != nil {
		text, active = l.cues.Lookup(cursor)
	}
	if !l.state.ObserveCue(text, active) {
		return
	}

	result.Cue, result.CueSent = text, true
	l.logger.Debug("Cue at %.2f second: %s", cursor.Seconds(), text)
	if err := l.output.EmitCue(ctx, text); err != nil && ctx.Err() == nil {
		l.logger.Warn("Failed to send cue: %s", err)
	}
}

func (l *Loop) downsample(img image.Image) image.Image {
	if l.config.Fit == FitContain {
		return l.renderer.FitImage(img, l.config.Width, l.config.Height, l.config.Background)
	}
	return l.renderer.ResizeImage(img, l.config.Width, l.config.Height)
}
