package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FOTOROUTE_CONFIG", "")

	c, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, c.Viewer.ClickWindow)
	assert.Equal(t, 150*time.Millisecond, c.Viewer.TransitionDelay)
	assert.Equal(t, 50.0, c.Viewer.SwipeThreshold)
	assert.Equal(t, 8, c.Viewer.CellWidthPx)
	assert.Equal(t, 16, c.Viewer.CellHeightPx)
	assert.True(t, c.Viewer.Thumbnails)
	assert.Equal(t, 800, c.Server.ThumbSize)
	assert.Equal(t, "", c.SourceKind())
	assert.NoError(t, c.Validate())
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "fotoroute.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[source]
url = "https://file.example"
token = "from-file"

[viewer]
click_window = "450ms"
swipe_threshold = 30
`), 0o644))
	t.Setenv("FOTOROUTE_SOURCE_TOKEN", "from-env")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("url", "", "")
	require.NoError(t, fs.Parse([]string{"--url", "https://flag.example"}))

	c, err := Load(Options{Path: path, Flags: fs})
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example", c.Source.URL)
	assert.Equal(t, "from-env", c.Source.Token)
	assert.Equal(t, 450*time.Millisecond, c.Viewer.ClickWindow)
	assert.Equal(t, 30.0, c.Viewer.SwipeThreshold)
	assert.Equal(t, "url", c.SourceKind())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(Options{Path: filepath.Join(t.TempDir(), "nope.toml")})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FOTOROUTE_CONFIG", "")
	c, err := Load(Options{})
	require.NoError(t, err)

	bad := c
	bad.Viewer.ClickWindow = 0
	bad.Viewer.SwipeThreshold = -1
	err = bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "click_window")
	assert.Contains(t, err.Error(), "swipe_threshold")

	bad = c
	bad.Source.URL = "https://x"
	bad.Source.Dir = "/photos"
	assert.ErrorContains(t, bad.Validate(), "choose one")

	bad = c
	bad.Log.Format = "xml"
	assert.ErrorContains(t, bad.Validate(), "log.format")
}
