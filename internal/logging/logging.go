// Package logging builds the logrus logger shared by the CLI, viewer and server.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fotoroute/internal/config"

	"github.com/sirupsen/logrus"
)

// New returns a logger configured from cfg and a close func for its output.
//
// With no path the logger writes to fallback; pass io.Discard from the viewer,
// which owns the terminal.
func New(cfg config.LogConfig, fallback io.Writer) (*logrus.Logger, func() error, error) {
	l := logrus.New()

	level := logrus.InfoLevel
	if s := strings.TrimSpace(cfg.Level); s != "" {
		lv, err := logrus.ParseLevel(s)
		if err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		level = lv
	}
	l.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: cfg.Path != ""})
	}

	closeFn := func() error { return nil }
	switch {
	case strings.TrimSpace(cfg.Path) != "":
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log: %w", err)
		}
		l.SetOutput(f)
		closeFn = f.Close
	case fallback != nil:
		l.SetOutput(fallback)
	default:
		l.SetOutput(io.Discard)
	}
	return l, closeFn, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
