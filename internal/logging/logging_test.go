package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fotoroute/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToFallback(t *testing.T) {
	var buf bytes.Buffer
	l, closeFn, err := New(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)
	defer closeFn()

	l.WithField("index", 3).Debug("moved")
	assert.Contains(t, buf.String(), `"index":3`)
	assert.Contains(t, buf.String(), `"msg":"moved"`)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fotoroute.log")
	l, closeFn, err := New(config.LogConfig{Path: path}, nil)
	require.NoError(t, err)
	l.Info("hello")
	require.NoError(t, closeFn())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, _, err := New(config.LogConfig{Level: "loud"}, nil)
	assert.Error(t, err)
}
