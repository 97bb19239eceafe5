package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"fotoroute/internal/model"
)

func TestViewerState_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}

	// Missing file => default state.
	st0, err := s.LoadViewerState()
	if err != nil {
		t.Fatalf("LoadViewerState: %v", err)
	}
	if st0 == nil || st0.Version != 1 || st0.TutorialSeen {
		t.Fatalf("expected default state; got %#v", st0)
	}

	want := &ViewerState{
		Version:      1,
		TutorialSeen: true,
		LastFilename: "IMG_0042.jpg",
		LastSource:   "https://photos.example/",
	}
	if err := s.SaveViewerState(want); err != nil {
		t.Fatalf("SaveViewerState: %v", err)
	}
	got, err := s.LoadViewerState()
	if err != nil {
		t.Fatalf("LoadViewerState (after save): %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}
	if _, err := os.Stat(filepath.Join(s.Dir, viewerStateFileName+".tmp")); !os.IsNotExist(err) {
		t.Fatalf("expected tmp file to be renamed away; stat err=%v", err)
	}
}

func TestViewerState_CorruptedFallsBackToDefault(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	if err := os.WriteFile(s.viewerStatePath(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	st, err := s.LoadViewerState()
	if err != nil {
		t.Fatalf("LoadViewerState: %v", err)
	}
	if st.Version != 1 || st.TutorialSeen {
		t.Fatalf("expected default state; got %#v", st)
	}
}

func TestViewerState_NoDirIsNoop(t *testing.T) {
	t.Parallel()

	s := Store{}
	if err := s.SaveViewerState(&ViewerState{TutorialSeen: true}); err != nil {
		t.Fatalf("SaveViewerState: %v", err)
	}
	st, err := s.LoadViewerState()
	if err != nil {
		t.Fatalf("LoadViewerState: %v", err)
	}
	if st.TutorialSeen {
		t.Fatalf("expected nothing persisted without a dir")
	}
}

func TestViewerState_ResumeFilename(t *testing.T) {
	t.Parallel()

	st := &ViewerState{LastFilename: "a.jpg", LastSource: "dir:/photos"}
	if got := st.ResumeFilename("dir:/photos"); got != "a.jpg" {
		t.Fatalf("expected a.jpg, got %q", got)
	}
	if got := st.ResumeFilename("dir:/other"); got != "" {
		t.Fatalf("expected no resume for other source, got %q", got)
	}
}

func TestRouteCache_SaveLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	if _, err := s.LoadRoute(ctx, "src"); err != ErrNoCachedRoute {
		t.Fatalf("expected ErrNoCachedRoute, got %v", err)
	}

	fetched := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	r := model.Route{
		Photos: []model.Photo{{Filename: "a.jpg", Lat: 38.7, Lon: -9.1, Location: "Lisbon, Portugal"}},
		Stats:  &model.Stats{TotalKm: 12.5, Countries: 1, Days: 1, PhotoCount: 1},
	}
	if err := s.SaveRoute(ctx, "src", r, fetched); err != nil {
		t.Fatalf("SaveRoute: %v", err)
	}

	r.Photos = append(r.Photos, model.Photo{Filename: "b.jpg"})
	if err := s.SaveRoute(ctx, "src", r, fetched.Add(time.Hour)); err != nil {
		t.Fatalf("SaveRoute (replace): %v", err)
	}

	got, err := s.LoadRoute(ctx, "src")
	if err != nil {
		t.Fatalf("LoadRoute: %v", err)
	}
	if len(got.Route.Photos) != 2 || got.Route.Photos[0].Location != "Lisbon, Portugal" {
		t.Fatalf("unexpected cached route: %#v", got.Route)
	}
	if got.Route.Stats == nil || got.Route.Stats.TotalKm != 12.5 {
		t.Fatalf("expected stats to survive the cache, got %#v", got.Route.Stats)
	}
	if !got.FetchedAt.Equal(fetched.Add(time.Hour)) {
		t.Fatalf("expected fetched_at %v, got %v", fetched.Add(time.Hour), got.FetchedAt)
	}

	if _, err := s.LoadRoute(ctx, "other"); err != ErrNoCachedRoute {
		t.Fatalf("expected ErrNoCachedRoute for other source, got %v", err)
	}
}
