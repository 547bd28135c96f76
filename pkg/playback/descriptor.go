// Package playback holds the video descriptor and the guarded playback state
// shared by the pacing loop and the control surface.
package playback

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/user/vidbanner/pkg/ports"
)

// ErrInvalidDescriptor is returned when video metadata cannot yield a
// positive duration.
var ErrInvalidDescriptor = errors.New("playback: invalid video descriptor")

// Descriptor is the immutable timing metadata of the loaded video.
type Descriptor struct {
	FrameRate  float64
	FrameCount float64
	Duration   time.Duration
}

// NewDescriptor derives a Descriptor from raw source metadata.
// Duration is FrameCount / FrameRate and must be strictly positive.
func NewDescriptor(info ports.VideoInfo) (Descriptor, error) {
	if !(info.FrameRate > 0) || math.IsInf(info.FrameRate, 0) {
		return Descriptor{}, fmt.Errorf("%w: frame rate %v", ErrInvalidDescriptor, info.FrameRate)
	}
	if !(info.FrameCount > 0) || math.IsInf(info.FrameCount, 0) {
		return Descriptor{}, fmt.Errorf("%w: frame count %v", ErrInvalidDescriptor, info.FrameCount)
	}

	seconds := info.FrameCount / info.FrameRate
	d := time.Duration(seconds * float64(time.Second))
	if d <= 0 {
		return Descriptor{}, fmt.Errorf("%w: duration %v", ErrInvalidDescriptor, d)
	}

	return Descriptor{
		FrameRate:  info.FrameRate,
		FrameCount: info.FrameCount,
		Duration:   d,
	}, nil
}
