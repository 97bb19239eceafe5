// Package upload sends photos to a route server one file at a time.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"fotoroute/internal/logging"

	"github.com/sirupsen/logrus"
)

// ErrAborted wraps the server's rejection of the first file, after which
// nothing else is attempted.
var ErrAborted = errors.New("upload aborted")

// ServerError is an upload rejected by the server.
type ServerError struct {
	Code    int
	Message string
}

func (e ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upload rejected (%d)", e.Code)
	}
	return fmt.Sprintf("upload rejected (%d): %s", e.Code, e.Message)
}

type Result struct {
	Total     int
	Succeeded int
	Failed    []string
}

type Uploader struct {
	// Endpoint is the full upload URL, e.g. https://host/api/upload.
	Endpoint string
	HTTP     *http.Client
	Log      logrus.FieldLogger

	// Progress, when set, is called after each attempt.
	Progress func(done, total int, path string, err error)
}

// Endpoint builds the upload URL for a server base URL.
func Endpoint(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/api/upload"
}

// UploadAll uploads paths in order. A server rejection of the first file
// (usually a wrong credential) aborts the batch with ErrAborted. Any other
// failure, including transport errors on the first file, is logged and only
// lowers the count.
func (u *Uploader) UploadAll(ctx context.Context, paths []string, credential string) (Result, error) {
	res := Result{Total: len(paths)}
	for i, p := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		err := u.uploadOne(ctx, p, credential)
		if u.Progress != nil {
			u.Progress(i+1, len(paths), p, err)
		}
		if err == nil {
			res.Succeeded++
			u.log().WithFields(logrus.Fields{"file": p, "attempt": i + 1}).Info("uploaded")
			continue
		}
		res.Failed = append(res.Failed, p)
		var rejected ServerError
		if i == 0 && errors.As(err, &rejected) {
			return res, fmt.Errorf("%w: %s: %w", ErrAborted, filepath.Base(p), err)
		}
		u.log().WithError(err).WithFields(logrus.Fields{"file": p, "attempt": i + 1}).Warn("upload failed")
	}
	return res, nil
}

func (u *Uploader) log() logrus.FieldLogger {
	if u.Log != nil {
		return u.Log
	}
	return logging.Discard()
}

func (u *Uploader) client() *http.Client {
	if u.HTTP != nil {
		return u.HTTP
	}
	return http.DefaultClient
}

func (u *Uploader) uploadOne(ctx context.Context, path, credential string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("photo", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	if err := mw.WriteField("admin_token", credential); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.Endpoint, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := u.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	var env struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(b, &env)
	return ServerError{Code: resp.StatusCode, Message: env.Error}
}
