package feed

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"fotoroute/internal/logging"
	"fotoroute/internal/model"

	"github.com/gobwas/glob"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"github.com/sirupsen/logrus"
)

// DefaultPattern matches the photo files a library scan picks up. Names are
// lower-cased before matching.
const DefaultPattern = "*.{jpg,jpeg,png,webp}"

var registerExif sync.Once

// DirSource builds a route by scanning a photo directory.
//
// The location of a photo is the name of the folder it sits in, so a library
// laid out as "Lisbon, Portugal/IMG_1.jpg" groups by country. Time and GPS come
// from EXIF when present.
type DirSource struct {
	Root    string
	Pattern string
	Log     logrus.FieldLogger
}

func (d DirSource) Key() string {
	if abs, err := filepath.Abs(d.Root); err == nil {
		return "dir:" + abs
	}
	return "dir:" + d.Root
}

func (d DirSource) Route(ctx context.Context) (*model.Route, error) {
	photos, err := d.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return withStats(&model.Route{Photos: photos}), nil
}

func (d DirSource) Thumb(ctx context.Context, filename string, original bool) ([]byte, error) {
	return readPhoto(d.Root, filename)
}

func (d DirSource) log() logrus.FieldLogger {
	if d.Log != nil {
		return d.Log
	}
	return logging.Discard()
}

// Scan walks Root and returns matching photos ordered by capture time, then path.
// Photos without a capture time sort after those with one.
func (d DirSource) Scan(ctx context.Context) ([]model.Photo, error) {
	pattern := d.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, fmt.Errorf("photo pattern %q: %w", pattern, err)
	}
	registerExif.Do(func() { exif.RegisterParsers(mknote.All...) })

	logger := d.log().WithField("root", d.Root)
	var photos []model.Photo
	err = filepath.WalkDir(d.Root, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if e.IsDir() {
			if path != d.Root && strings.HasPrefix(e.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !g.Match(strings.ToLower(e.Name())) {
			return nil
		}
		rel, err := filepath.Rel(d.Root, path)
		if err != nil {
			return err
		}
		p := model.Photo{
			Filename: filepath.ToSlash(rel),
			Location: folderLocation(rel),
		}
		readExif(path, &p, logger)
		photos = append(photos, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", d.Root, err)
	}

	sort.SliceStable(photos, func(i, j int) bool {
		a, b := photos[i].TakenAt, photos[j].TakenAt
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return photos[i].Filename < photos[j].Filename
	})
	logger.WithField("photos", len(photos)).Debug("library scanned")
	return photos, nil
}

// folderLocation uses the innermost folder name; files at the root have none.
func folderLocation(rel string) string {
	dir := filepath.Dir(rel)
	if dir == "." || dir == "" {
		return ""
	}
	return filepath.Base(dir)
}

func readExif(path string, p *model.Photo, logger logrus.FieldLogger) {
	f, err := os.Open(path)
	if err != nil {
		logger.WithError(err).WithField("file", path).Warn("open photo")
		return
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		// No EXIF is normal for screenshots and exports.
		logger.WithField("file", path).Debugf("no exif: %v", err)
		return
	}
	if tm, err := x.DateTime(); err == nil {
		tm = time.Date(tm.Year(), tm.Month(), tm.Day(), tm.Hour(), tm.Minute(), tm.Second(), 0, time.UTC)
		p.TakenAt = &tm
	}
	if lat, lon, err := x.LatLong(); err == nil {
		p.Lat, p.Lon = lat, lon
	}
}
