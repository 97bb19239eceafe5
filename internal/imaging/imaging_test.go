package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitSize(t *testing.T) {
	cases := []struct {
		w, h, mw, mh int
		ww, wh       int
	}{
		{1600, 1200, 800, 800, 800, 600},
		{1200, 1600, 800, 800, 600, 800},
		{400, 300, 800, 800, 400, 300},
		{1000, 10, 100, 100, 100, 1},
		{0, 10, 100, 100, 0, 0},
	}
	for _, tc := range cases {
		w, h := FitSize(tc.w, tc.h, tc.mw, tc.mh)
		assert.Equal(t, tc.ww, w, "%dx%d", tc.w, tc.h)
		assert.Equal(t, tc.wh, h, "%dx%d", tc.w, tc.h)
	}
}

func TestThumbnail(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			src.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := Thumbnail(&buf, 10)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 5, img.Bounds().Dy())
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	_, err := Thumbnail(bytes.NewReader([]byte("nope")), 10)
	assert.Error(t, err)
}
