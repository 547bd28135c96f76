package mocks

import (
	"image"
	"sync"
	"time"

	"github.com/user/vidbanner/pkg/ports"
)

// FrameSource is a mock implementation of ports.FrameSource.
// By default every seek inside the video duration returns a small
// solid image; Missing marks cursors whose decode fails.
type FrameSource struct {
	mu sync.Mutex

	VideoInfo   ports.VideoInfo
	Missing     map[time.Duration]bool
	FrameAtFunc func(t time.Duration) (image.Image, bool)

	calls  []time.Duration
	closed bool
}

// NewFrameSource creates a mock source reporting fps and frame count.
func NewFrameSource(fps, frames float64) *FrameSource {
	return &FrameSource{
		VideoInfo: ports.VideoInfo{FrameRate: fps, FrameCount: frames},
		Missing:   make(map[time.Duration]bool),
	}
}

func (m *FrameSource) Info() ports.VideoInfo {
	return m.VideoInfo
}

func (m *FrameSource) FrameAt(t time.Duration) (image.Image, bool) {
	m.mu.Lock()
	m.calls = append(m.calls, t)
	missing := m.Missing[t]
	m.mu.Unlock()

	if m.FrameAtFunc != nil {
		return m.FrameAtFunc(t)
	}
	if missing {
		return nil, false
	}
	img := image.NewRGBA(image.Rect(0, 0, 16, 9))
	shade := uint8(t / time.Millisecond % 256)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = shade
		img.Pix[i+3] = 255
	}
	return img, true
}

func (m *FrameSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Calls returns every cursor FrameAt was asked for, in order.
func (m *FrameSource) Calls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.calls...)
}

// Closed reports whether Close was called.
func (m *FrameSource) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var _ ports.FrameSource = (*FrameSource)(nil)
