package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts image processing operations.
type Renderer interface {
	// EncodeImage encodes an image to the specified format.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// ResizeImage stretches an image to exactly width x height.
	ResizeImage(img image.Image, width, height int) image.Image

	// FitImage scales an image to fit inside width x height keeping its
	// aspect ratio, centred on a bg-filled canvas.
	FitImage(img image.Image, width, height int, bg color.Color) image.Image
}

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatJPEG ImageFormat = iota
	FormatPNG
)

// String returns the usual file extension for the format, without the dot.
func (f ImageFormat) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	default:
		return "unknown"
	}
}
