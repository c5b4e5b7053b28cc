// Package imaging validates uploaded avatars and renders them as fixed-size squares.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

const (
	typeJPEG = "image/jpeg"
	typePNG  = "image/png"
	typeWebP = "image/webp"

	// DefaultMaxPixels bounds decoded width*height.
	DefaultMaxPixels = 40_000_000
	jpegQuality      = 90
)

var (
	magicJPEG = []byte{0xFF, 0xD8, 0xFF}
	magicPNG  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	magicRIFF = []byte("RIFF")
)

var errUnsupported = errors.New("unsupported image type")

// DetectType sniffs the image type from magic bytes; the filename is never trusted.
func DetectType(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, magicJPEG):
		return typeJPEG, nil
	case bytes.HasPrefix(data, magicPNG):
		return typePNG, nil
	case len(data) >= 12 && bytes.HasPrefix(data, magicRIFF) && string(data[8:12]) == "WEBP":
		return typeWebP, nil
	}
	return "", errUnsupported
}

func decode(data []byte, mimeType string) (image.Image, error) {
	r := bytes.NewReader(data)
	switch mimeType {
	case typeJPEG:
		return jpeg.Decode(r)
	case typePNG:
		return png.Decode(r)
	case typeWebP:
		return webp.Decode(r)
	}
	return nil, errUnsupported
}

func decodeConfig(data []byte, mimeType string) (image.Config, error) {
	r := bytes.NewReader(data)
	switch mimeType {
	case typeJPEG:
		return jpeg.DecodeConfig(r)
	case typePNG:
		return png.DecodeConfig(r)
	case typeWebP:
		return webp.DecodeConfig(r)
	}
	return image.Config{}, errUnsupported
}

// CenterCrop returns the largest centered square of img.
func CenterCrop(img image.Image) image.Image {
	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	x := b.Min.X + (b.Dx()-side)/2
	y := b.Min.Y + (b.Dy()-side)/2

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, dst.Bounds(), img, image.Pt(x, y), draw.Src)
	return dst
}

// Square center-crops img and scales it to size x size.
func Square(img image.Image, size int) image.Image {
	cropped := CenterCrop(img)
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)
	return dst
}

type Processor struct {
	maxPixels int
}

func NewProcessor(maxPixels int) *Processor {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Processor{maxPixels: maxPixels}
}

// SquareAvatar decodes data, renders a size x size square and encodes it.
// ext ".png" keeps PNG output; anything else is written as JPEG.
func (p *Processor) SquareAvatar(data []byte, ext string, size int) ([]byte, string, error) {
	if size <= 0 {
		return nil, "", domain.ErrInternal(fmt.Errorf("invalid avatar size %d", size))
	}

	mimeType, err := DetectType(data)
	if err != nil {
		return nil, "", domain.ErrInvalidImage(err)
	}

	cfg, err := decodeConfig(data, mimeType)
	if err != nil {
		return nil, "", domain.ErrInvalidImage(err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > p.maxPixels {
		return nil, "", domain.ErrInvalidImage(fmt.Errorf("image dimensions %dx%d out of range", cfg.Width, cfg.Height))
	}

	img, err := decode(data, mimeType)
	if err != nil {
		return nil, "", domain.ErrInvalidImage(err)
	}

	out := Square(img, size)

	var buf bytes.Buffer
	if ext == ".png" {
		if err := png.Encode(&buf, out); err != nil {
			return nil, "", domain.ErrInternal(err)
		}
		return buf.Bytes(), typePNG, nil
	}
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", domain.ErrInternal(err)
	}
	return buf.Bytes(), typeJPEG, nil
}
