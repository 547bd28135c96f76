// Package filepublisher publishes frames to disk with write-then-rename so
// external readers never observe a partially written image.
package filepublisher

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/user/vidbanner/pkg/adapters/osfilesystem"
	"github.com/user/vidbanner/pkg/ports"
)

// Options configures a Publisher.
type Options struct {
	// RetryBackoff is the wait between rename attempts while the
	// destination is locked (default: 100ms).
	RetryBackoff time.Duration

	// JPEGQuality is used for .jpg/.jpeg destinations (default: 90).
	JPEGQuality int

	// IsLocked classifies rename errors as transient. Defaults to
	// osfilesystem.IsLocked.
	IsLocked func(error) bool
}

// Publisher implements ports.FramePublisher on a ports.FileSystem.
type Publisher struct {
	fs       ports.FileSystem
	renderer ports.Renderer
	clock    ports.Clock
	logger   ports.Logger
	opts     Options
}

// New creates a Publisher.
func New(fs ports.FileSystem, renderer ports.Renderer, clock ports.Clock, logger ports.Logger, opts Options) *Publisher {
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 100 * time.Millisecond
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = 90
	}
	if opts.IsLocked == nil {
		opts.IsLocked = osfilesystem.IsLocked
	}
	return &Publisher{
		fs:       fs,
		renderer: renderer,
		clock:    clock,
		logger:   logger.WithComponent("publisher"),
		opts:     opts,
	}
}

// TempPath returns the sibling path a frame is staged at before the rename:
// "dir/vid.png" stages at "dir/vid.tmp.png". Keeping the stage in the same
// directory keeps the rename on one volume.
func TempPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".tmp" + ext
}

// FormatFor picks the encoding from the destination extension.
func FormatFor(path string) (ports.ImageFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return ports.FormatPNG, nil
	case ".jpg", ".jpeg":
		return ports.FormatJPEG, nil
	default:
		return 0, fmt.Errorf("filepublisher: unsupported image extension %q", filepath.Ext(path))
	}
}

// Publish encodes img, writes it next to path and renames it into place.
// While the rename fails because a reader holds the destination, it
// retries every RetryBackoff until it succeeds or ctx is cancelled.
func (p *Publisher) Publish(ctx context.Context, img image.Image, path string) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	data, err := p.renderer.EncodeImage(img, format, p.opts.JPEGQuality)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	tmp := TempPath(path)
	if err := p.fs.WriteFile(tmp, data); err != nil {
		p.discard(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}

	for attempt := 1; ; attempt++ {
		err := p.fs.Rename(tmp, path)
		if err == nil {
			return nil
		}
		if !p.opts.IsLocked(err) {
			p.discard(tmp)
			return fmt.Errorf("replace %s: %w", path, err)
		}
		if attempt == 1 {
			p.logger.Debug("Destination locked, retrying: %s", err)
		}
		if err := p.clock.Sleep(ctx, p.opts.RetryBackoff); err != nil {
			p.discard(tmp)
			return err
		}
	}
}

// discard removes a staged frame left behind by a failed publish.
func (p *Publisher) discard(tmp string) {
	if ok, err := p.fs.Exists(tmp); err != nil || !ok {
		return
	}
	if err := p.fs.Remove(tmp); err != nil {
		p.logger.Debug("remove %s: %v", tmp, err)
	}
}

var _ ports.FramePublisher = (*Publisher)(nil)
