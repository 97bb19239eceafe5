package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fotoroute/internal/model"
	"fotoroute/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRouteAndThumb(t *testing.T) {
	var gotPaths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.RequestURI())
		if r.URL.Query().Get("token") != "tok" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"bad token"}`))
			return
		}
		switch {
		case r.URL.Path == "/api/route":
			_, _ = w.Write([]byte(`{"photos":[{"filename":"a.jpg","lat":38.72,"lon":-9.14,"location":"Lisbon, Portugal","date_str":"01.06.2024"}],"stats":{"total_km":3.5,"countries":1,"days":1,"photo_count":1}}`))
		case r.URL.Path == "/api/thumb/Porto, Portugal/b.jpg":
			_, _ = w.Write([]byte("jpeg-bytes:" + r.URL.Query().Get("size")))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok")
	assert.Equal(t, "url:"+srv.URL, c.Key())

	r, err := c.Route(context.Background())
	require.NoError(t, err)
	require.Len(t, r.Photos, 1)
	assert.Equal(t, "Lisbon, Portugal", r.Photos[0].Location)
	require.NotNil(t, r.Stats)
	assert.Equal(t, 3.5, r.Stats.TotalKm)

	b, err := c.Thumb(context.Background(), "Porto, Portugal/b.jpg", true)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes:original", string(b))

	b, err = c.Thumb(context.Background(), "Porto, Portugal/b.jpg", false)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes:", string(b))
}

func TestClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"bad token"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "nope").Route(context.Background())
	require.Error(t, err)
	var se StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.Code)
	assert.Equal(t, "bad token", se.Message)
}

func TestFileSourceJSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "route.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"filename":"a.jpg","location":"Kotor, Montenegro"}]`), 0o644))
	yamlPath := filepath.Join(dir, "route.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("photos:\n  - filename: b.jpg\n    lat: 41.15\n    lon: -8.61\n    location: Porto, Portugal\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("img"), 0o644))

	r, err := FileSource{Path: jsonPath}.Route(context.Background())
	require.NoError(t, err)
	require.Len(t, r.Photos, 1)
	require.NotNil(t, r.Stats, "stats are computed when missing")
	assert.Equal(t, 1, r.Stats.Countries)

	r, err = FileSource{Path: yamlPath}.Route(context.Background())
	require.NoError(t, err)
	require.Len(t, r.Photos, 1)
	assert.Equal(t, 41.15, r.Photos[0].Lat)

	b, err := FileSource{Path: jsonPath}.Thumb(context.Background(), "a.jpg", false)
	require.NoError(t, err)
	assert.Equal(t, "img", string(b))

	_, err = FileSource{Path: jsonPath}.Thumb(context.Background(), "../etc/passwd", false)
	assert.ErrorIs(t, err, ErrBadFilename)
}

func TestDirSourceScan(t *testing.T) {
	root := t.TempDir()
	write := func(rel string) {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("not really an image"), 0o644))
	}
	write("Porto, Portugal/b.JPG")
	write("Lisbon, Portugal/a.jpg")
	write("Lisbon, Portugal/notes.txt")
	write(".thumbs/x.jpg")
	write("loose.png")

	d := DirSource{Root: root}
	photos, err := d.Scan(context.Background())
	require.NoError(t, err)

	var names []string
	for _, p := range photos {
		names = append(names, p.Filename)
	}
	assert.Equal(t, []string{"Lisbon, Portugal/a.jpg", "Porto, Portugal/b.JPG", "loose.png"}, names)
	assert.Equal(t, "Lisbon, Portugal", photos[0].Location)
	assert.Equal(t, "", photos[2].Location)

	r, err := d.Route(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, r.Stats.PhotoCount)
	assert.Equal(t, 1, r.Stats.Countries)
}

func TestComputeStats(t *testing.T) {
	d1 := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	d3 := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	photos := []model.Photo{
		{Lat: 38.7223, Lon: -9.1393, Location: "Lisbon, Portugal", TakenAt: &d1},
		{Location: "Sintra, Portugal", TakenAt: &d2},
		{Lat: 41.1579, Lon: -8.6291, Location: "Porto, Portugal", TakenAt: &d3},
		{Lat: 40.4168, Lon: -3.7038, Location: "Madrid, Spain", DateStr: "04.06.2024"},
		{Location: "nowhere"},
	}
	st := ComputeStats(photos)
	assert.Equal(t, 5, st.PhotoCount)
	assert.Equal(t, 2, st.Countries)
	assert.Equal(t, 3, st.Days)
	// Lisbon-Porto is ~274 km, Porto-Madrid ~422 km.
	assert.InDelta(t, 696, st.TotalKm, 10)

	assert.Equal(t, model.Stats{}, ComputeStats(nil))
}

type failingSource struct{ key string }

func (f failingSource) Key() string { return f.key }
func (f failingSource) Route(context.Context) (*model.Route, error) {
	return nil, errors.New("offline")
}
func (f failingSource) Thumb(context.Context, string, bool) ([]byte, error) {
	return nil, errors.New("offline")
}

type staticSource struct {
	key   string
	route model.Route
}

func (s staticSource) Key() string { return s.key }
func (s staticSource) Route(context.Context) (*model.Route, error) {
	r := s.route
	return &r, nil
}
func (s staticSource) Thumb(context.Context, string, bool) ([]byte, error) { return nil, nil }

func TestCachedFallsBackToStoredRoute(t *testing.T) {
	ctx := context.Background()
	st := store.Store{Dir: t.TempDir()}
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	live := &Cached{
		Source: staticSource{key: "url:x", route: model.Route{Photos: []model.Photo{{Filename: "a.jpg"}}}},
		Store:  st,
		Now:    func() time.Time { return at },
	}
	f, err := live.Fetch(ctx)
	require.NoError(t, err)
	assert.False(t, f.Stale)

	offline := &Cached{Source: failingSource{key: "url:x"}, Store: st}
	f, err = offline.Fetch(ctx)
	require.NoError(t, err)
	assert.True(t, f.Stale)
	assert.EqualError(t, f.Err, "offline")
	assert.True(t, f.FetchedAt.Equal(at))
	require.Len(t, f.Route.Photos, 1)
	assert.Equal(t, "a.jpg", f.Route.Photos[0].Filename)

	_, err = (&Cached{Source: failingSource{key: "url:other"}, Store: st}).Fetch(ctx)
	assert.EqualError(t, err, "offline")
}

func TestCachedOfflineSkipsSource(t *testing.T) {
	ctx := context.Background()
	st := store.Store{Dir: t.TempDir()}
	src := staticSource{key: "url:y", route: model.Route{Photos: []model.Photo{{Filename: "b.jpg"}}}}

	_, err := (&Cached{Source: src, Store: st, Offline: true}).Fetch(ctx)
	assert.ErrorIs(t, err, ErrOffline)

	_, err = (&Cached{Source: src, Store: st}).Fetch(ctx)
	require.NoError(t, err)

	f, err := (&Cached{Source: src, Store: st, Offline: true}).Fetch(ctx)
	require.NoError(t, err)
	assert.True(t, f.Stale)
	assert.ErrorIs(t, f.Err, ErrOffline)
	require.Len(t, f.Route.Photos, 1)
}

func TestLoadPlainSource(t *testing.T) {
	src := staticSource{key: "file:x", route: model.Route{Photos: []model.Photo{{Filename: "a.jpg"}}}}
	f, err := Load(context.Background(), src)
	require.NoError(t, err)
	assert.False(t, f.Stale)
	assert.False(t, f.FetchedAt.IsZero())
	require.Len(t, f.Route.Photos, 1)
}
