// Package ffmpegsource implements ports.FrameSource by running ffmpeg once
// per seek. Stream metadata comes from the MP4 container via mp4probe.
package ffmpegsource

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/user/vidbanner/pkg/adapters/logger"
	"github.com/user/vidbanner/pkg/adapters/mp4probe"
	"github.com/user/vidbanner/pkg/ports"
)

// DefaultTimeout bounds a single frame extraction.
const DefaultTimeout = 5 * time.Second

// Options configures the ffmpeg frame source.
type Options struct {
	// FFmpegPath is an optional custom path to the ffmpeg binary.
	FFmpegPath string
	// Timeout bounds each ffmpeg invocation. Zero means DefaultTimeout.
	Timeout time.Duration
	// Logger receives per-seek failures at debug level. Nil discards them.
	Logger ports.Logger
}

type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Source extracts single frames from a video file with ffmpeg.
type Source struct {
	path       string
	ffmpegPath string
	info       ports.VideoInfo
	duration   time.Duration
	timeout    time.Duration
	run        runFunc
	log        ports.Logger

	mu     sync.Mutex
	closed bool
}

// Open locates ffmpeg and probes path for its frame rate and frame count.
func Open(path string, opts Options) (*Source, error) {
	ffmpegPath, err := FindFFmpeg(opts.FFmpegPath)
	if err != nil {
		return nil, err
	}

	info, err := mp4probe.ProbeFile(path)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}

	return newSource(path, ffmpegPath, info, opts, runCommand), nil
}

func newSource(path, ffmpegPath string, info ports.VideoInfo, opts Options, run runFunc) *Source {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoop()
	}

	var duration time.Duration
	if info.FrameRate > 0 {
		duration = time.Duration(info.FrameCount / info.FrameRate * float64(time.Second))
	}

	return &Source{
		path:       path,
		ffmpegPath: ffmpegPath,
		info:       info,
		duration:   duration,
		timeout:    timeout,
		run:        run,
		log:        log.WithComponent("ffmpegsource"),
	}
}

// Info returns the probed metadata.
func (s *Source) Info() ports.VideoInfo {
	return s.info
}

// FrameAt decodes the frame shown at t.
func (s *Source) FrameAt(t time.Duration) (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || t < 0 || t >= s.duration {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	out, err := s.run(ctx, s.ffmpegPath, frameArgs(s.path, t)...)
	if err != nil {
		s.log.Debug("ffmpeg seek to %s failed: %v", t, err)
		return nil, false
	}
	if len(out) == 0 {
		return nil, false
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		s.log.Debug("decode png at %s: %v", t, err)
		return nil, false
	}
	return img, true
}

// Close marks the source closed. Later seeks report no frame.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// frameArgs seeks on the input side so ffmpeg jumps to the nearest
// keyframe before decoding up to t.
func frameArgs(path string, t time.Duration) []string {
	return []string{
		"-v", "error",
		"-ss", strconv.FormatFloat(t.Seconds(), 'f', 3, 64),
		"-i", path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"pipe:1",
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w\nstderr: %s", err, stderr.String())
	}
	return stdout.Bytes(), nil
}

var _ ports.FrameSource = (*Source)(nil)
