package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fotoroute/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestServer(t *testing.T, adminHash string) (*httptest.Server, *Library) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Lisbon, Portugal"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Lisbon, Portugal", "a.png"), pngBytes(t, 64, 32), 0o644))

	lib := NewLibrary(root, nil)
	s := New(lib, "view", adminHash, 16, nil)
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return srv, lib
}

func getRoute(t *testing.T, url string) model.Route {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var r model.Route
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	return r
}

func TestRouteRequiresToken(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/api/route?token=wrong")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	r := getRoute(t, srv.URL+"/api/route?token=view")
	require.Len(t, r.Photos, 1)
	assert.Equal(t, "Lisbon, Portugal/a.png", r.Photos[0].Filename)
	assert.Equal(t, "Lisbon, Portugal", r.Photos[0].Location)
	require.NotNil(t, r.Stats)
	assert.Equal(t, 1, r.Stats.PhotoCount)
}

func TestThumbAndOriginal(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/api/thumb/Lisbon%2C%20Portugal/a.png?token=view")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	img, _, err := image.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())

	resp2, err := http.Get(srv.URL + "/api/thumb/Lisbon%2C%20Portugal/a.png?token=view&size=original")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	orig, _, err := image.Decode(resp2.Body)
	require.NoError(t, err)
	assert.Equal(t, 64, orig.Bounds().Dx())

	resp3, err := http.Get(srv.URL + "/api/thumb/missing.png?token=view")
	require.NoError(t, err)
	resp3.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp3.StatusCode)
}

func TestLibraryPathRejectsTraversal(t *testing.T) {
	lib := NewLibrary(t.TempDir(), nil)
	for _, name := range []string{"../secret.jpg", "/etc/passwd", "", "a/../../b.jpg"} {
		_, err := lib.Path(name)
		assert.Error(t, err, name)
	}
	p, err := lib.Path("Lisbon, Portugal/a.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, lib.Root))
}

func uploadRequest(t *testing.T, url, name, password string, data []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("photo", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("admin_token", password))
	require.NoError(t, mw.Close())

	resp, err := http.Post(url+"/api/upload", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	return resp
}

func TestUpload(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	srv, _ := newTestServer(t, hash)

	resp := uploadRequest(t, srv.URL, "b.png", "wrong", pngBytes(t, 4, 4))
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = uploadRequest(t, srv.URL, "notes.txt", "secret", []byte("hi"))
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = uploadRequest(t, srv.URL, "b.png", "secret", pngBytes(t, 4, 4))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		OK       bool   `json:"ok"`
		Filename string `json:"filename"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.OK)
	assert.True(t, strings.HasSuffix(out.Filename, "-b.png"))

	r := getRoute(t, srv.URL+"/api/route?token=view")
	assert.Len(t, r.Photos, 2)
}

func TestUploadDisabledWithoutHash(t *testing.T) {
	srv, _ := newTestServer(t, "")
	resp := uploadRequest(t, srv.URL, "b.png", "anything", pngBytes(t, 4, 4))
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLibraryWatchRescans(t *testing.T) {
	root := t.TempDir()
	lib := NewLibrary(root, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, lib.Rescan(ctx))
	done := make(chan error, 1)
	go func() { done <- lib.Watch(ctx, 20*time.Millisecond) }()

	// Give the watcher a moment to register the root.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "new.png"), pngBytes(t, 2, 2), 0o644))

	assert.Eventually(t, func() bool {
		r, err := lib.Route(ctx)
		return err == nil && len(r.Photos) == 1
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, "pw"))
	assert.ErrorIs(t, CheckPassword(hash, "nope"), ErrInvalidCredentials)
	assert.ErrorIs(t, CheckPassword("", "pw"), ErrUploadsDisabled)
	_, err = HashPassword("")
	assert.Error(t, err)
}
