package tui

import (
	"fmt"
	"image"
	"strings"

	"fotoroute/internal/imaging"

	"github.com/muesli/termenv"
)

type thumbEntry struct {
	img     image.Image
	err     error
	pending bool
}

// thumbCache holds decoded images and their rendered cells. It is only
// touched from Update and View.
type thumbCache struct {
	entries  map[string]*thumbEntry
	rendered map[string]string
}

func newThumbCache() *thumbCache {
	return &thumbCache{
		entries:  map[string]*thumbEntry{},
		rendered: map[string]string{},
	}
}

func thumbKey(filename string, original bool) string {
	if original {
		return filename + "|original"
	}
	return filename
}

func (c *thumbCache) has(key string) bool {
	_, ok := c.entries[key]
	return ok
}

func (c *thumbCache) get(key string) *thumbEntry {
	return c.entries[key]
}

func (c *thumbCache) markPending(key string) {
	c.entries[key] = &thumbEntry{pending: true}
}

func (c *thumbCache) put(key string, img image.Image, err error) {
	c.entries[key] = &thumbEntry{img: img, err: err}
}

// render draws img into w x h cells with half blocks: each cell shows two
// vertically stacked pixels, upper as foreground and lower as background.
func (c *thumbCache) render(key string, img image.Image, w, h int, profile termenv.Profile) string {
	if img == nil || w <= 0 || h <= 0 {
		return ""
	}
	ck := fmt.Sprintf("%s|%dx%d|%d", key, w, h, profile)
	if s, ok := c.rendered[ck]; ok {
		return s
	}
	s := renderHalfBlocks(img, w, h, profile)
	c.rendered[ck] = s
	return s
}

func renderHalfBlocks(img image.Image, w, h int, profile termenv.Profile) string {
	fit := imaging.Fit(img, w, h*2)
	b := fit.Bounds()
	padLeft := (w - b.Dx()) / 2

	var sb strings.Builder
	rows := (b.Dy() + 1) / 2
	for row := 0; row < rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.Repeat(" ", padLeft))
		for x := b.Min.X; x < b.Max.X; x++ {
			top := hexColor(fit, x, b.Min.Y+row*2)
			cell := termenv.String("▀").Foreground(profile.Color(top))
			if y := b.Min.Y + row*2 + 1; y < b.Max.Y {
				cell = cell.Background(profile.Color(hexColor(fit, x, y)))
			}
			sb.WriteString(cell.String())
		}
	}
	return sb.String()
}

func hexColor(img image.Image, x, y int) string {
	r, g, b, _ := img.At(x, y).RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
