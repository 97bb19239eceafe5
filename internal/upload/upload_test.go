package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	names  []string
	tokens []string
	reject map[string]bool
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	file, hdr, err := r.FormFile("photo")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"no photo"}`))
		return
	}
	_, _ = io.ReadAll(file)
	f.names = append(f.names, hdr.Filename)
	f.tokens = append(f.tokens, r.FormValue("admin_token"))
	if f.reject[hdr.Filename] {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"wrong password"}`))
		return
	}
	_, _ = w.Write([]byte(`{"ok":true}`))
}

func writeFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	var out []string
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte("jpeg"), 0o644))
		out = append(out, p)
	}
	return out
}

func TestUploadAllSequential(t *testing.T) {
	fs := &fakeServer{}
	srv := httptest.NewServer(fs)
	defer srv.Close()

	var progress []int
	u := &Uploader{
		Endpoint: Endpoint(srv.URL + "/"),
		Progress: func(done, total int, path string, err error) { progress = append(progress, done) },
	}
	res, err := u.UploadAll(context.Background(), writeFiles(t, "a.jpg", "b.jpg", "c.jpg"), "pw")
	require.NoError(t, err)
	assert.Equal(t, Result{Total: 3, Succeeded: 3}, res)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, fs.names)
	assert.Equal(t, []string{"pw", "pw", "pw"}, fs.tokens)
	assert.Equal(t, []int{1, 2, 3}, progress)
}

func TestUploadAllFirstFailureAborts(t *testing.T) {
	fs := &fakeServer{reject: map[string]bool{"a.jpg": true}}
	srv := httptest.NewServer(fs)
	defer srv.Close()

	u := &Uploader{Endpoint: Endpoint(srv.URL)}
	res, err := u.UploadAll(context.Background(), writeFiles(t, "a.jpg", "b.jpg"), "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAborted))

	var se ServerError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.Code)
	assert.Equal(t, "wrong password", se.Message)

	assert.Equal(t, []string{"a.jpg"}, fs.names, "nothing after the first failure is attempted")
	assert.Equal(t, 0, res.Succeeded)
	assert.Equal(t, 2, res.Total)
}

func TestUploadAllLaterFailureOnlyLowersCount(t *testing.T) {
	fs := &fakeServer{reject: map[string]bool{"b.jpg": true}}
	srv := httptest.NewServer(fs)
	defer srv.Close()

	u := &Uploader{Endpoint: Endpoint(srv.URL)}
	paths := writeFiles(t, "a.jpg", "b.jpg", "c.jpg")
	res, err := u.UploadAll(context.Background(), paths, "pw")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, []string{paths[1]}, res.Failed)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, fs.names)
}

func TestUploadAllMissingFirstFileContinues(t *testing.T) {
	fs := &fakeServer{}
	srv := httptest.NewServer(fs)
	defer srv.Close()

	paths := writeFiles(t, "b.jpg")
	missing := filepath.Join(t.TempDir(), "missing.jpg")
	u := &Uploader{Endpoint: Endpoint(srv.URL)}
	res, err := u.UploadAll(context.Background(), append([]string{missing}, paths...), "pw")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, []string{missing}, res.Failed)
	assert.Equal(t, []string{"b.jpg"}, fs.names)
}

func TestUploadAllTransportErrorOnFirstFileContinues(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := Endpoint(srv.URL)
	srv.Close()

	var errs []error
	u := &Uploader{
		Endpoint: endpoint,
		Progress: func(done, total int, path string, err error) { errs = append(errs, err) },
	}
	res, err := u.UploadAll(context.Background(), writeFiles(t, "a.jpg", "b.jpg"), "pw")
	require.NoError(t, err)
	assert.Len(t, errs, 2, "both files are attempted")
	assert.Equal(t, 0, res.Succeeded)
	assert.Len(t, res.Failed, 2)
	for _, e := range errs {
		assert.False(t, errors.Is(e, ErrAborted))
	}
}
