// Package publish writes a route out as a small Markdown travel journal.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"fotoroute/internal/model"
	"fotoroute/internal/nav"
)

type WriteOptions struct {
	Title     string
	ImageBase string
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteRoute writes index.md plus one page per country run under toDir.
func WriteRoute(r *model.Route, toDir string, opt WriteOptions) (WriteResult, error) {
	if r == nil {
		return WriteResult{}, errors.New("missing route")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	ropt := RenderOptions{Title: opt.Title, ImageBase: opt.ImageBase}
	index, err := RenderRouteMarkdown(r, ropt)
	if err != nil {
		return WriteResult{}, err
	}
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	indexPath := filepath.Join(toDir, "index.md")
	if err := writeFile(indexPath, []byte(index), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	// Stop on the first failed page.
	written := []string{indexPath}
	items := nav.ItemsFromPhotos(r.Photos)
	for i, run := range nav.GroupRuns(items) {
		p := filepath.Join(toDir, runPageName(i, run))
		if err := writeFile(p, []byte(RenderRunMarkdown(items, run, ropt)), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, p)
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
