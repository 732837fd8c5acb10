package ioutils

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"os"

	"golang.org/x/image/draw"
)

// ImageService provides image processing operations for downloaded backdrops.
//
// ImageService is used to:
//   - Read the pixel dimensions of a saved image
//   - Downscale a saved image to a maximum width
//
// Example usage:
//
//	svc := NewImageService()
//	w, h, err := svc.Dimensions("Breaking_Bad_backdrop_2.jpg")
//	err = svc.ResizeFile(ctx, "Breaking_Bad_backdrop_2.jpg", 1280)
type ImageService struct {
	// Quality is the JPEG quality used when re-encoding.
	Quality int
}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{Quality: 90}
}

// Dimensions returns the width and height of the image at path by reading
// only its header.
func (s *ImageService) Dimensions(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// ResizeImage resizes an image to fit within maxWidth, preserving the
// aspect ratio.
//
// Images that already fit are returned unchanged. Otherwise the result is
// JPEG-encoded.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
//
// Example:
//
//	// A 3840x2160 backdrop becomes 1280x720
//	resized, err := svc.ResizeImage(ctx, data, 1280)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if maxWidth <= 0 || width <= maxWidth {
		return data, nil
	}

	height = int(float64(height) * float64(maxWidth) / float64(width))
	if height < 1 {
		height = 1
	}
	width = maxWidth

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: s.Quality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ResizeFile downscales the image at path in place so that it is at most
// maxWidth pixels wide. It reports whether the file was rewritten.
func (s *ImageService) ResizeFile(ctx context.Context, path string, maxWidth int) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	resized, err := s.ResizeImage(ctx, data, maxWidth)
	if err != nil {
		return false, fmt.Errorf("resize %s: %w", path, err)
	}
	if bytes.Equal(resized, data) {
		return false, nil
	}

	if err := WriteFile(ctx, path, resized); err != nil {
		return false, err
	}
	return true, nil
}
