// Package cvsource implements ports.FrameSource with OpenCV through gocv.
package cvsource

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/user/vidbanner/pkg/ports"
)

// ErrNotOpened is returned when OpenCV cannot open the video file.
var ErrNotOpened = errors.New("cvsource: video could not be opened")

// capture is the part of gocv.VideoCapture the source relies on.
type capture interface {
	Get(prop gocv.VideoCaptureProperties) float64
	SeekMsec(ms float64)
	ReadImage() (image.Image, bool)
	Close() error
}

// Source reads frames from a video file with a single OpenCV capture.
// The capture is not safe for concurrent use, so seeks are serialized.
type Source struct {
	mu       sync.Mutex
	cap      capture
	info     ports.VideoInfo
	duration time.Duration
	closed   bool
}

// Open opens path with gocv.VideoCaptureFile.
func Open(path string) (*Source, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotOpened, path)
	}
	return newSource(&gocvCapture{vc: vc, frame: gocv.NewMat()}), nil
}

func newSource(c capture) *Source {
	info := ports.VideoInfo{
		FrameRate:  c.Get(gocv.VideoCaptureFPS),
		FrameCount: c.Get(gocv.VideoCaptureFrameCount),
	}
	var duration time.Duration
	if info.FrameRate > 0 {
		duration = time.Duration(info.FrameCount / info.FrameRate * float64(time.Second))
	}
	return &Source{cap: c, info: info, duration: duration}
}

// Info returns the FPS and frame count reported by OpenCV.
func (s *Source) Info() ports.VideoInfo {
	return s.info
}

// FrameAt positions the capture at t in milliseconds and reads one frame.
func (s *Source) FrameAt(t time.Duration) (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || t < 0 || t >= s.duration {
		return nil, false
	}

	s.cap.SeekMsec(float64(t) / float64(time.Millisecond))
	return s.cap.ReadImage()
}

// Close releases the capture and its frame buffer.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.cap.Close()
}

type gocvCapture struct {
	vc    *gocv.VideoCapture
	frame gocv.Mat
}

func (g *gocvCapture) Get(prop gocv.VideoCaptureProperties) float64 {
	return g.vc.Get(prop)
}

func (g *gocvCapture) SeekMsec(ms float64) {
	g.vc.Set(gocv.VideoCapturePosMsec, ms)
}

func (g *gocvCapture) ReadImage() (image.Image, bool) {
	if ok := g.vc.Read(&g.frame); !ok || g.frame.Empty() {
		return nil, false
	}
	img, err := g.frame.ToImage()
	if err != nil {
		return nil, false
	}
	return img, true
}

func (g *gocvCapture) Close() error {
	if err := g.frame.Close(); err != nil {
		g.vc.Close()
		return err
	}
	return g.vc.Close()
}

var _ ports.FrameSource = (*Source)(nil)
