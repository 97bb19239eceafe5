package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fotoroute/internal/server"

	"github.com/spf13/cobra"
)

const libraryRescanDebounce = 500 * time.Millisecond

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a photo folder as a route feed",
		Long: strings.TrimSpace(`
Serve a photo folder to viewers over HTTP.

Photos are grouped by the folder they sit in ("Lisbon, Portugal/IMG_1.jpg")
and ordered by EXIF capture time. The folder is rescanned when it changes.
Uploads are accepted only when server.admin_hash is set (see hash-password).
`),
		Example: strings.TrimSpace(`
fotoroute serve --library ~/Pictures/trip --addr :8080
FOTOROUTE_SERVER_VIEW_TOKEN=s3cret fotoroute serve --library ~/Pictures/trip
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg.Server
			root := strings.TrimSpace(cfg.Library)
			if root == "" {
				return writeErr(cmd, errors.New("serve: missing --library"))
			}
			if st, err := os.Stat(root); err != nil || !st.IsDir() {
				return writeErr(cmd, fmt.Errorf("serve: library %s is not a directory", root))
			}

			log, err := app.logger(cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			lib := server.NewLibrary(root, log)
			if err := lib.Rescan(ctx); err != nil {
				return writeErr(cmd, err)
			}
			go func() {
				if err := lib.Watch(ctx, libraryRescanDebounce); err != nil {
					log.WithError(err).Warn("library watch stopped")
				}
			}()

			if cfg.AdminHash == "" {
				log.Warn("server.admin_hash is not set; uploads are disabled")
			}
			srv := server.New(lib, cfg.ViewToken, cfg.AdminHash, cfg.ThumbSize, log)
			fmt.Fprintf(cmd.ErrOrStderr(), "fotoroute serving %s at http://%s/\n", root, cfg.Addr)
			if err := srv.ListenAndServe(ctx, cfg.Addr); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().String("addr", "127.0.0.1:8080", "Bind address (host:port or :port)")
	cmd.Flags().String("library", "", "Photo folder to serve")
	return cmd
}
