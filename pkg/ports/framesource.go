// Package ports defines interfaces for the collaborators around the pacing loop.
package ports

import (
	"image"
	"time"
)

// VideoInfo is the raw metadata reported by a frame source.
type VideoInfo struct {
	FrameRate  float64 // Frames per second
	FrameCount float64 // Total number of frames
}

// FrameSource abstracts a seekable, decoded video stream.
type FrameSource interface {
	// Info returns the stream metadata read when the source was opened.
	Info() VideoInfo

	// FrameAt seeks to t and decodes the frame shown at that time.
	// Seeks may go backwards. A failed seek or decode, or a t past the
	// end of the stream, reports ok=false instead of an error.
	FrameAt(t time.Duration) (img image.Image, ok bool)

	// Close releases the underlying stream.
	Close() error
}
