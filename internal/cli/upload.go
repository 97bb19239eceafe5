package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fotoroute/internal/server"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newUploadCmd(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "upload <photo>...",
		Short: "Upload photos to the server given by --url",
		Long: strings.TrimSpace(`
Upload photos to the server given by --url.

The admin password is taken from --password, then FOTOROUTE_ADMIN_PASSWORD,
then prompted for. If the first photo is rejected nothing else is sent; later
failures are reported and the rest continue.
`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := app.logger(cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			u := app.uploader(log)
			if u == nil {
				return writeErr(cmd, errors.New("upload: needs --url"))
			}

			secret, err := readPassword(cmd, password, "Admin password: ")
			if err != nil {
				return writeErr(cmd, err)
			}
			if secret == "" {
				return writeErr(cmd, errors.New("upload: empty password"))
			}

			u.Progress = func(done, total int, path string, err error) {
				status := "ok"
				if err != nil {
					status = err.Error()
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] %s: %s\n", done, total, filepath.Base(path), status)
			}
			res, err := u.UploadAll(cmd.Context(), args, secret)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"total":     res.Total,
					"succeeded": res.Succeeded,
					"failed":    nonNil(res.Failed),
				},
			})
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Admin password (prefer FOTOROUTE_ADMIN_PASSWORD or the prompt)")
	return cmd
}

func newHashPasswordCmd(app *App) *cobra.Command {
	var password string

	return &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for server.admin_hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := readPassword(cmd, password, "Password: ")
			if err != nil {
				return writeErr(cmd, err)
			}
			hash, err := server.HashPassword(secret)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   map[string]any{"hash": hash},
				"_hints": []string{"set server.admin_hash (or FOTOROUTE_SERVER_ADMIN_HASH) to this value"},
			})
		},
	}
}

// readPassword prefers flag, then FOTOROUTE_ADMIN_PASSWORD, then a no-echo
// prompt on a terminal, then one line of stdin.
func readPassword(cmd *cobra.Command, flag, prompt string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if v := os.Getenv("FOTOROUTE_ADMIN_PASSWORD"); v != "" {
		return v, nil
	}
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
