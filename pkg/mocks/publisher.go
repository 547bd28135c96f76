package mocks

import (
	"context"
	"image"
	"sync"

	"github.com/user/vidbanner/pkg/ports"
)

// FramePublisher is a mock implementation of ports.FramePublisher.
type FramePublisher struct {
	mu sync.Mutex

	PublishFunc func(ctx context.Context, img image.Image, path string) error

	Paths  []string
	Images []image.Image
}

func (m *FramePublisher) Publish(ctx context.Context, img image.Image, path string) error {
	if m.PublishFunc != nil {
		if err := m.PublishFunc(ctx, img, path); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Paths = append(m.Paths, path)
	m.Images = append(m.Images, img)
	return nil
}

// Count returns the number of successful publishes.
func (m *FramePublisher) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Paths)
}

var _ ports.FramePublisher = (*FramePublisher)(nil)
