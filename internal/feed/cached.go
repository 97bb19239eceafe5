package feed

import (
	"context"
	"errors"
	"time"

	"fotoroute/internal/model"
	"fotoroute/internal/store"

	"github.com/sirupsen/logrus"
)

// Fetched is a route plus where it came from.
type Fetched struct {
	Route     *model.Route
	FetchedAt time.Time
	// Stale is set when the source failed and the cached copy was used.
	Stale bool
	Err   error
}

// ErrOffline is the live error reported when Offline skips the source.
var ErrOffline = errors.New("feed: offline")

// Cached wraps a Source with the on-disk route cache. A successful fetch is
// written through; a failed one falls back to the last cached route.
type Cached struct {
	Source Source
	Store  store.Store
	Log    logrus.FieldLogger
	Now    func() time.Time
	// Offline serves only the cached route.
	Offline bool
}

func (c *Cached) Key() string { return c.Source.Key() }

func (c *Cached) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Cached) Route(ctx context.Context) (*model.Route, error) {
	f, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return f.Route, nil
}

func (c *Cached) Thumb(ctx context.Context, filename string, original bool) ([]byte, error) {
	return c.Source.Thumb(ctx, filename, original)
}

// Fetch returns the live route, or the cached one marked stale when the live
// fetch fails. The live error is returned only when nothing is cached.
func (c *Cached) Fetch(ctx context.Context) (*Fetched, error) {
	key := c.Source.Key()
	var r *model.Route
	err := ErrOffline
	if !c.Offline {
		r, err = c.Source.Route(ctx)
	}
	if err == nil {
		at := c.now()
		if serr := c.Store.SaveRoute(ctx, key, *r, at); serr != nil && c.Log != nil {
			c.Log.WithError(serr).WithField("source", key).Warn("route cache write failed")
		}
		return &Fetched{Route: r, FetchedAt: at}, nil
	}

	cached, cerr := c.Store.LoadRoute(ctx, key)
	if cerr != nil {
		if c.Log != nil && !errors.Is(cerr, store.ErrNoCachedRoute) {
			c.Log.WithError(cerr).WithField("source", key).Warn("route cache read failed")
		}
		return nil, err
	}
	if c.Log != nil {
		c.Log.WithError(err).WithFields(logrus.Fields{
			"source":     key,
			"fetched_at": cached.FetchedAt,
		}).Warn("using cached route")
	}
	route := cached.Route
	return &Fetched{Route: withStats(&route), FetchedAt: cached.FetchedAt, Stale: true, Err: err}, nil
}

// Load fetches the route from src, going through the cache when src is a
// *Cached.
func Load(ctx context.Context, src Source) (*Fetched, error) {
	if c, ok := src.(*Cached); ok {
		return c.Fetch(ctx)
	}
	r, err := src.Route(ctx)
	if err != nil {
		return nil, err
	}
	return &Fetched{Route: r, FetchedAt: time.Now()}, nil
}
