// Package imaging prepares photographs for a vision API request: decode,
// normalize to RGB, bound the resolution, and re-encode as base64 JPEG.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"os"

	_ "image/gif" // Register decoders for the supported raster formats.
	_ "image/png"

	"golang.org/x/image/draw"
)

const (
	// maxDimension bounds both output dimensions.
	maxDimension = 1600

	jpegQuality = 85
)

// DecodeError reports an unreadable or unsupported source image.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("imaging: decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Prepare reads the image at path and returns it as a base64-encoded JPEG
// suitable for embedding in a JSON request body. The image is converted to
// RGB (alpha discarded) and downscaled, preserving aspect ratio, so that
// neither dimension exceeds 1600 pixels; smaller images keep their native
// resolution. The source file is read once and never mutated.
func Prepare(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // path is caller-provided input to a local tool
	if err != nil {
		return "", &DecodeError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	src, _, err := image.Decode(f)
	if err != nil {
		return "", &DecodeError{Path: path, Err: err}
	}

	bounds := src.Bounds()
	w, h := fitWithin(bounds.Dx(), bounds.Dy(), maxDimension)

	// Drawing into an RGBA canvas normalizes grayscale, palette, and alpha
	// modes in one step; the JPEG encoder then emits 3-channel output.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == bounds.Dx() && h == bounds.Dy() {
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	} else {
		// CatmullRom for quality: images are processed one at a time, so
		// resampling cost does not matter but aliasing artifacts do.
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("imaging: encode %s: %w", path, err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// fitWithin returns dimensions scaled so neither exceeds limit, preserving
// aspect ratio. Dimensions already within the limit are returned unchanged.
func fitWithin(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}

	if w >= h {
		scaled := h * limit / w
		if scaled < 1 {
			scaled = 1
		}
		return limit, scaled
	}

	scaled := w * limit / h
	if scaled < 1 {
		scaled = 1
	}
	return scaled, limit
}
