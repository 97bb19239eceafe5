package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fotoroute/internal/model"

	"gopkg.in/yaml.v3"
)

// FileSource reads a route from a JSON or YAML file. Photo files are looked
// up next to the route file.
type FileSource struct {
	Path string
}

func (f FileSource) Key() string {
	if abs, err := filepath.Abs(f.Path); err == nil {
		return "file:" + abs
	}
	return "file:" + f.Path
}

func (f FileSource) Route(ctx context.Context) (*model.Route, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read route file: %w", err)
	}
	r, err := DecodeRoute(b, filepath.Ext(f.Path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return withStats(r), nil
}

func (f FileSource) Thumb(ctx context.Context, filename string, original bool) ([]byte, error) {
	return readPhoto(filepath.Dir(f.Path), filename)
}

// DecodeRoute decodes JSON, or YAML when ext is .yaml/.yml. A bare list of
// photos is accepted as well as the {photos, stats} object.
func DecodeRoute(b []byte, ext string) (*model.Route, error) {
	var r model.Route
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &r); err != nil {
			var photos []model.Photo
			if yerr := yaml.Unmarshal(b, &photos); yerr != nil {
				return nil, fmt.Errorf("decode yaml route: %w", err)
			}
			r.Photos = photos
		}
	default:
		trimmed := strings.TrimSpace(string(b))
		if strings.HasPrefix(trimmed, "[") {
			if err := json.Unmarshal(b, &r.Photos); err != nil {
				return nil, fmt.Errorf("decode json route: %w", err)
			}
			break
		}
		if err := json.Unmarshal(b, &r); err != nil {
			return nil, fmt.Errorf("decode json route: %w", err)
		}
	}
	return &r, nil
}

// readPhoto reads filename from dir, refusing names that escape it.
func readPhoto(dir, filename string) ([]byte, error) {
	name, err := CleanName(filename)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	return b, nil
}

// ErrBadFilename is returned for names that are empty or leave the library.
var ErrBadFilename = errors.New("invalid filename")

// CleanName validates a library-relative photo name.
func CleanName(filename string) (string, error) {
	name := filepath.FromSlash(strings.TrimSpace(filename))
	if name == "" || filepath.IsAbs(name) {
		return "", ErrBadFilename
	}
	clean := filepath.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", ErrBadFilename
	}
	return clean, nil
}
