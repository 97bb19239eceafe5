// Package server serves a local photo library in the route feed format the
// viewer reads, and accepts uploads into it.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fotoroute/internal/feed"
	"fotoroute/internal/imaging"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const maxUploadBytes = 64 << 20

type Server struct {
	Library   *Library
	ViewToken string
	AdminHash string
	ThumbSize int
	Log       logrus.FieldLogger

	accept glob.Glob
}

func New(lib *Library, viewToken, adminHash string, thumbSize int, log logrus.FieldLogger) *Server {
	if log == nil {
		log = lib.Log
	}
	pattern := lib.Pattern
	if pattern == "" {
		pattern = feed.DefaultPattern
	}
	return &Server{
		Library:   lib,
		ViewToken: viewToken,
		AdminHash: adminHash,
		ThumbSize: thumbSize,
		Log:       log,
		accept:    glob.MustCompile(strings.ToLower(pattern)),
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/route", s.handleRoute).Methods(http.MethodGet)
	r.HandleFunc("/api/thumb/{filename:.+}", s.handleThumb).Methods(http.MethodGet)
	r.HandleFunc("/api/upload", s.handleUpload).Methods(http.MethodPost)
	return r
}

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.Log.WithField("addr", addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func jsonResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func errorResponse(w http.ResponseWriter, status int, err error) {
	jsonResponse(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	if err := checkToken(s.ViewToken, r.URL.Query().Get("token")); err != nil {
		errorResponse(w, http.StatusForbidden, err)
		return
	}
	route, err := s.Library.Route(r.Context())
	if err != nil {
		s.Log.WithError(err).Error("route")
		errorResponse(w, http.StatusInternalServerError, errors.New("library unavailable"))
		return
	}
	jsonResponse(w, http.StatusOK, route)
}

func (s *Server) handleThumb(w http.ResponseWriter, r *http.Request) {
	if err := checkToken(s.ViewToken, r.URL.Query().Get("token")); err != nil {
		errorResponse(w, http.StatusForbidden, err)
		return
	}
	path, err := s.Library.Path(mux.Vars(r)["filename"])
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err)
		return
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			errorResponse(w, http.StatusNotFound, errors.New("photo not found"))
			return
		}
		errorResponse(w, http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	if r.URL.Query().Get("size") == "original" {
		st, err := f.Stat()
		if err != nil {
			errorResponse(w, http.StatusInternalServerError, err)
			return
		}
		http.ServeContent(w, r, filepath.Base(path), st.ModTime(), f)
		return
	}

	b, err := imaging.Thumbnail(f, s.ThumbSize)
	if err != nil {
		s.Log.WithError(err).WithField("file", path).Warn("thumbnail")
		errorResponse(w, http.StatusUnprocessableEntity, errors.New("cannot render thumbnail"))
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "max-age=3600")
	_, _ = w.Write(b)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		errorResponse(w, http.StatusBadRequest, errors.New("invalid upload"))
		return
	}
	if err := CheckPassword(s.AdminHash, r.FormValue("admin_token")); err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, ErrUploadsDisabled) {
			status = http.StatusForbidden
		}
		errorResponse(w, status, err)
		return
	}

	file, hdr, err := r.FormFile("photo")
	if err != nil {
		errorResponse(w, http.StatusBadRequest, errors.New("missing photo"))
		return
	}
	defer file.Close()

	base := filepath.Base(filepath.Clean("/" + hdr.Filename))
	if base == "/" || base == "." || !s.accept.Match(strings.ToLower(base)) {
		errorResponse(w, http.StatusBadRequest, errors.New("unsupported file type"))
		return
	}
	name := uuid.NewString() + "-" + base
	dest := filepath.Join(s.Library.Root, name)
	if err := writeUpload(dest, file); err != nil {
		s.Log.WithError(err).WithField("file", dest).Error("store upload")
		errorResponse(w, http.StatusInternalServerError, errors.New("could not store photo"))
		return
	}
	s.Log.WithField("file", name).Info("photo uploaded")

	if err := s.Library.Rescan(r.Context()); err != nil {
		s.Log.WithError(err).Warn("rescan after upload")
	}
	jsonResponse(w, http.StatusOK, map[string]any{"ok": true, "filename": name})
}

func writeUpload(dest string, src io.Reader) error {
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return err
	}
	return out.Close()
}
