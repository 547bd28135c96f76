// Package smartsource opens a frame source with the configured backend,
// falling back from OpenCV to ffmpeg when asked to choose.
package smartsource

import (
	"errors"
	"fmt"

	"github.com/user/vidbanner/pkg/adapters/cvsource"
	"github.com/user/vidbanner/pkg/adapters/ffmpegsource"
	"github.com/user/vidbanner/pkg/ports"
)

// Backend names a frame decoding backend.
type Backend string

const (
	// BackendAuto tries OpenCV first and falls back to ffmpeg.
	BackendAuto Backend = "auto"
	// BackendOpenCV decodes with gocv.
	BackendOpenCV Backend = "opencv"
	// BackendFFmpeg runs ffmpeg per seek.
	BackendFFmpeg Backend = "ffmpeg"
)

// ErrUnknownBackend is returned for a backend name outside auto|opencv|ffmpeg.
var ErrUnknownBackend = errors.New("smartsource: unknown backend")

// ParseBackend validates a backend name. Empty means auto.
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case "", BackendAuto:
		return BackendAuto, nil
	case BackendOpenCV, BackendFFmpeg:
		return Backend(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}

// Info describes the source that was opened.
type Info struct {
	// Backend is the backend actually in use.
	Backend Backend
	// Fallback is the OpenCV error that caused auto to pick ffmpeg.
	Fallback error
}

// Options configures backend selection.
type Options struct {
	Backend Backend
	// FFmpegPath is an optional custom path to the ffmpeg binary.
	FFmpegPath string
	Logger     ports.Logger
}

type opener func(path string, opts Options) (ports.FrameSource, error)

var (
	openOpenCV opener = func(path string, _ Options) (ports.FrameSource, error) {
		return cvsource.Open(path)
	}
	openFFmpeg opener = func(path string, opts Options) (ports.FrameSource, error) {
		return ffmpegsource.Open(path, ffmpegsource.Options{
			FFmpegPath: opts.FFmpegPath,
			Logger:     opts.Logger,
		})
	}
)

// Open opens path with the selected backend.
//
// The selection flow for auto:
//   - OpenCV, if it opens the file and reports a usable FPS and frame count
//   - ffmpeg otherwise
func Open(path string, opts Options) (ports.FrameSource, Info, error) {
	switch opts.Backend {
	case BackendOpenCV:
		src, err := openOpenCV(path, opts)
		if err != nil {
			return nil, Info{}, err
		}
		return src, Info{Backend: BackendOpenCV}, nil

	case BackendFFmpeg:
		src, err := openFFmpeg(path, opts)
		if err != nil {
			return nil, Info{}, err
		}
		return src, Info{Backend: BackendFFmpeg}, nil

	case "", BackendAuto:
		src, cvErr := openOpenCV(path, opts)
		if cvErr == nil {
			if usable(src.Info()) {
				return src, Info{Backend: BackendOpenCV}, nil
			}
			src.Close()
			cvErr = fmt.Errorf("opencv reported fps=%v frames=%v", src.Info().FrameRate, src.Info().FrameCount)
		}

		src, err := openFFmpeg(path, opts)
		if err != nil {
			return nil, Info{}, errors.Join(cvErr, err)
		}
		return src, Info{Backend: BackendFFmpeg, Fallback: cvErr}, nil

	default:
		return nil, Info{}, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

func usable(info ports.VideoInfo) bool {
	return info.FrameRate > 0 && info.FrameCount > 0
}
