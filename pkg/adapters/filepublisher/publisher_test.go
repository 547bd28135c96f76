package filepublisher

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/user/vidbanner/pkg/adapters/ggrenderer"
	"github.com/user/vidbanner/pkg/adapters/logger"
	"github.com/user/vidbanner/pkg/adapters/osfilesystem"
	"github.com/user/vidbanner/pkg/adapters/systemclock"
	"github.com/user/vidbanner/pkg/mocks"
	"github.com/user/vidbanner/pkg/ports"
)

func TestTempPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/game/Sprites/vid.png", "/game/Sprites/vid.tmp.png"},
		{"frame.jpg", "frame.tmp.jpg"},
		{"noext", "noext.tmp"},
	}
	for _, tt := range tests {
		if got := TempPath(tt.in); got != tt.want {
			t.Errorf("TempPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path    string
		want    ports.ImageFormat
		wantErr bool
	}{
		{"a.png", ports.FormatPNG, false},
		{"a.PNG", ports.FormatPNG, false},
		{"a.jpg", ports.FormatJPEG, false},
		{"a.jpeg", ports.FormatJPEG, false},
		{"a.gif", 0, true},
		{"a", 0, true},
	}
	for _, tt := range tests {
		got, err := FormatFor(tt.path)
		if (err != nil) != tt.wantErr || (!tt.wantErr && got != tt.want) {
			t.Errorf("FormatFor(%q) = %v, %v", tt.path, got, err)
		}
	}
}

func TestPublish_StagesThenRenames(t *testing.T) {
	fsys := mocks.NewFileSystem()
	var order []string
	fsys.RenameFunc = func(oldPath, newPath string) error {
		order = append(order, "rename "+oldPath+" -> "+newPath)
		return nil
	}

	p := New(fsys, &mocks.Renderer{}, mocks.NewClock(time.Now()), logger.NewNoop(), Options{})
	if err := p.Publish(context.Background(), image.NewRGBA(image.Rect(0, 0, 4, 4)), "/out/vid.png"); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if len(order) != 1 || order[0] != "rename /out/vid.tmp.png -> /out/vid.png" {
		t.Errorf("unexpected renames %v", order)
	}
	if _, ok := fsys.GetFile("/out/vid.png"); !ok {
		t.Error("destination must exist after publish")
	}
	if _, ok := fsys.GetFile("/out/vid.tmp.png"); ok {
		t.Error("temp file must not remain after publish")
	}
}

func TestPublish_RetriesWhileLocked(t *testing.T) {
	fsys := mocks.NewFileSystem()
	attempts := 0
	fsys.RenameFunc = func(oldPath, newPath string) error {
		attempts++
		if attempts <= 3 {
			return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: fs.ErrPermission}
		}
		return nil
	}
	clock := mocks.NewClock(time.Now())

	p := New(fsys, &mocks.Renderer{}, clock, logger.NewNoop(), Options{RetryBackoff: 100 * time.Millisecond})
	if err := p.Publish(context.Background(), image.NewRGBA(image.Rect(0, 0, 4, 4)), "vid.png"); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if attempts != 4 {
		t.Errorf("expected 4 rename attempts, got %d", attempts)
	}
	sleeps := clock.Sleeps()
	if len(sleeps) != 3 {
		t.Fatalf("expected 3 backoffs, got %v", sleeps)
	}
	for _, d := range sleeps {
		if d != 100*time.Millisecond {
			t.Errorf("expected fixed 100ms backoff, got %v", d)
		}
	}
	if fsys.Renames() != 1 {
		t.Errorf("expected one completed rename, got %d", fsys.Renames())
	}
}

func TestPublish_LockedUntilCancelled(t *testing.T) {
	fsys := mocks.NewFileSystem()
	fsys.RenameFunc = func(oldPath, newPath string) error {
		return fs.ErrPermission
	}
	clock := mocks.NewClock(time.Now())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clock.OnSleep = func(time.Duration) {
		if len(clock.Sleeps()) == 50 {
			cancel()
		}
	}

	p := New(fsys, &mocks.Renderer{}, clock, logger.NewNoop(), Options{})
	err := p.Publish(ctx, image.NewRGBA(image.Rect(0, 0, 1, 1)), "vid.png")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(clock.Sleeps()) != 50 {
		t.Errorf("expected retries until cancel, got %d", len(clock.Sleeps()))
	}
	if _, ok := fsys.GetFile("vid.tmp.png"); ok {
		t.Error("staged frame must be removed after cancellation")
	}
}

func TestPublish_NonTransientError(t *testing.T) {
	fsys := mocks.NewFileSystem()
	boom := errors.New("read-only file system")
	fsys.RenameFunc = func(oldPath, newPath string) error { return boom }
	clock := mocks.NewClock(time.Now())

	p := New(fsys, &mocks.Renderer{}, clock, logger.NewNoop(), Options{})
	err := p.Publish(context.Background(), image.NewRGBA(image.Rect(0, 0, 1, 1)), "vid.png")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if len(clock.Sleeps()) != 0 {
		t.Error("non-transient errors must not be retried")
	}
	if _, ok := fsys.GetFile("vid.tmp.png"); ok {
		t.Error("staged frame must be removed after a failed rename")
	}
}

func TestPublish_MissingTempNotRemoved(t *testing.T) {
	fsys := mocks.NewFileSystem()
	fsys.WriteFileFunc = func(path string, data []byte) error { return errors.New("disk full") }
	removed := 0
	fsys.RemoveFunc = func(path string) error { removed++; return nil }

	p := New(fsys, &mocks.Renderer{}, mocks.NewClock(time.Now()), logger.NewNoop(), Options{})
	if err := p.Publish(context.Background(), image.NewRGBA(image.Rect(0, 0, 1, 1)), "vid.png"); err == nil {
		t.Fatal("expected write error")
	}
	if removed != 0 {
		t.Errorf("nothing was staged, expected no Remove calls, got %d", removed)
	}
}

func TestPublish_WriteAndEncodeErrors(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	clock := mocks.NewClock(time.Now())

	fsys := mocks.NewFileSystem()
	fsys.WriteFileFunc = func(path string, data []byte) error { return errors.New("disk full") }
	p := New(fsys, &mocks.Renderer{}, clock, logger.NewNoop(), Options{})
	if err := p.Publish(context.Background(), img, "vid.png"); err == nil {
		t.Error("expected write error")
	}

	renderer := &mocks.Renderer{
		EncodeImageFunc: func(image.Image, ports.ImageFormat, int) ([]byte, error) {
			return nil, errors.New("bad image")
		},
	}
	p = New(mocks.NewFileSystem(), renderer, clock, logger.NewNoop(), Options{})
	if err := p.Publish(context.Background(), img, "vid.png"); err == nil {
		t.Error("expected encode error")
	}

	if err := p.Publish(context.Background(), img, "vid.bmp"); err == nil {
		t.Error("expected unsupported extension error")
	}
}

// TestPublish_ReadersNeverSeePartialImage publishes frames on disk while a
// reader decodes the destination as fast as it can. Every successful read
// must be a complete PNG of the published size.
func TestPublish_ReadersNeverSeePartialImage(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "vid.png")

	p := New(osfilesystem.New(), ggrenderer.New(), systemclock.New(), logger.NewNoop(),
		Options{RetryBackoff: time.Millisecond})
	ctx := context.Background()

	frame := func(i int) image.Image {
		img := image.NewRGBA(image.Rect(0, 0, 64, 64))
		for px := 0; px < len(img.Pix); px += 4 {
			img.Pix[px] = uint8(i)
			img.Pix[px+1] = uint8(px)
			img.Pix[px+3] = 255
		}
		return img
	}

	if err := p.Publish(ctx, frame(0), dst); err != nil {
		t.Fatalf("initial Publish failed: %v", err)
	}

	var stop atomic.Bool
	var bad atomic.Int32
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for !stop.Load() {
			data, err := os.ReadFile(dst)
			if err != nil {
				// Windows may refuse the open mid-rename; that is not a partial read.
				continue
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil || img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
				bad.Add(1)
			}
		}
	}()

	for i := 1; i <= 100; i++ {
		if err := p.Publish(ctx, frame(i), dst); err != nil {
			stop.Store(true)
			wg.Wait()
			t.Fatalf("Publish %d failed: %v", i, err)
		}
	}
	stop.Store(true)
	wg.Wait()

	if n := bad.Load(); n != 0 {
		t.Errorf("reader saw %d partial or corrupt images", n)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if got := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA); got.R != 100 {
		t.Errorf("expected last frame to win, got R=%d", got.R)
	}
}
