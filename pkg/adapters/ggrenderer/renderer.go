// Package ggrenderer provides frame downsampling and encoding using the gg
// library and golang.org/x/image.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/vidbanner/pkg/ports"
)

// Renderer implements ports.Renderer.
type Renderer struct {
	png png.Encoder
}

// New creates a new Renderer. PNG output favours speed over size since a
// frame is encoded on every tick.
func New() *Renderer {
	return &Renderer{png: png.Encoder{CompressionLevel: png.BestSpeed}}
}

// EncodeImage encodes an image to the specified format.
func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.FormatJPEG:
		opts := &jpeg.Options{Quality: quality}
		if err := jpeg.Encode(&buf, img, opts); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG:
		if err := r.png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}

	return buf.Bytes(), nil
}

// ResizeImage stretches an image to exactly width x height.
func (r *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// FitImage scales an image to fit inside width x height, keeping its aspect
// ratio, and centres it on a canvas filled with bg.
func (r *Renderer) FitImage(img image.Image, width, height int, bg color.Color) image.Image {
	dc := gg.NewContext(width, height)
	dc.SetColor(bg)
	dc.Clear()

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return dc.Image()
	}

	scale := float64(width) / float64(b.Dx())
	if s := float64(height) / float64(b.Dy()); s < scale {
		scale = s
	}
	w := max(1, int(float64(b.Dx())*scale+0.5))
	h := max(1, int(float64(b.Dy())*scale+0.5))

	dc.DrawImageAnchored(r.ResizeImage(img, w, h), width/2, height/2, 0.5, 0.5)
	return dc.Image()
}

var _ ports.Renderer = (*Renderer)(nil)
