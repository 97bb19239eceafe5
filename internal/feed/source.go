// Package feed loads the photo route the viewer navigates: from a remote
// server, a route file, or a local photo directory.
package feed

import (
	"context"
	"fmt"

	"fotoroute/internal/model"
)

// Source delivers a route and the image bytes for its photos.
type Source interface {
	// Key identifies the source across runs (cache and resume state).
	Key() string
	Route(ctx context.Context) (*model.Route, error)
	// Thumb returns image bytes for filename. original asks for the full-size
	// file instead of a thumbnail.
	Thumb(ctx context.Context, filename string, original bool) ([]byte, error)
}

// StatusError is a non-2xx response from a route server.
type StatusError struct {
	Code    int
	Message string
}

func (e StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// withStats fills in stats when the source did not deliver any.
func withStats(r *model.Route) *model.Route {
	if r != nil && r.Stats == nil {
		st := ComputeStats(r.Photos)
		r.Stats = &st
	}
	return r
}
