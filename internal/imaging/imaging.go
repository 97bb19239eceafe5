// Package imaging decodes photos and scales them for thumbnails and terminal
// rendering.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultThumbSize is the longest edge of server-side thumbnails.
const DefaultThumbSize = 800

// Decode reads any registered image format (jpeg, png, webp).
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// FitSize returns the largest size with the aspect ratio of (w, h) that fits
// in (maxW, maxH). Images already inside the box keep their size.
func FitSize(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	if w <= maxW && h <= maxH {
		return w, h
	}
	// Compare w/maxW with h/maxH without floats.
	if w*maxH >= h*maxW {
		nh := h * maxW / w
		if nh < 1 {
			nh = 1
		}
		return maxW, nh
	}
	nw := w * maxH / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxH
}

// Fit scales img to fit in (maxW, maxH).
func Fit(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), maxW, maxH)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// Thumbnail decodes r and re-encodes it as a JPEG whose longest edge is at
// most maxEdge pixels.
func Thumbnail(r io.Reader, maxEdge int) ([]byte, error) {
	img, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if maxEdge <= 0 {
		maxEdge = DefaultThumbSize
	}
	out := Fit(img, maxEdge, maxEdge)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: 82}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
