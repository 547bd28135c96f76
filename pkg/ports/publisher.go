package ports

import (
	"context"
	"image"
)

// FramePublisher makes an image visible to external readers.
type FramePublisher interface {
	// Publish replaces the file at path with img. Readers of path see
	// either the previous complete image or the new one, never a partial
	// write. Publish blocks while the destination is locked by a reader.
	Publish(ctx context.Context, img image.Image, path string) error
}
