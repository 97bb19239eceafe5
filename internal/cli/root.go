package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"fotoroute/internal/config"
	"fotoroute/internal/feed"
	"fotoroute/internal/format"
	"fotoroute/internal/logging"
	"fotoroute/internal/store"
	"fotoroute/internal/tui"
	"fotoroute/internal/upload"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	PrettyJSON bool
	Format     string

	cfg      config.Config
	log      *logrus.Logger
	closeLog func() error
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "fotoroute",
		Short:        "Browse a travel photo route in the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Browse a photo server
  fotoroute --url https://photos.example.com --token s3cret

  # Browse a local folder tree ("Lisbon, Portugal/IMG_0001.jpg", ...)
  fotoroute --dir ~/Pictures/trip

  # Scriptable commands
  fotoroute route --file route.yaml --format yaml
  fotoroute stats --url https://photos.example.com

  # Serve a photo folder to viewers
  fotoroute serve --library ~/Pictures/trip --addr :8080
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive viewer.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runViewer(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(config.Options{Path: app.ConfigPath, Flags: cmd.Flags()})
		if err != nil {
			return writeErr(cmd, err)
		}
		if err := cfg.Validate(); err != nil {
			return writeErr(cmd, err)
		}
		app.cfg = cfg
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.closeLog == nil {
			return nil
		}
		err := app.closeLog()
		app.closeLog = nil
		return err
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.ConfigPath, "config", "", "Config file (default ~/.config/fotoroute/config.toml)")
	pf.String("url", "", "Photo server base URL")
	pf.String("token", "", "View token sent with --url requests")
	pf.String("dir", "", "Browse a local photo directory instead of a server")
	pf.String("file", "", "Browse a route file (JSON or YAML)")
	pf.Bool("offline", false, "Use the cached route for --url without contacting the server")
	pf.String("log", "", "Write logs to this file")
	pf.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	pf.StringVar(&app.Format, "format", envOr("FOTOROUTE_FORMAT", "json"), "Output format (json|yaml)")

	cmd.AddCommand(newViewCmd(app))
	cmd.AddCommand(newRouteCmd(app))
	cmd.AddCommand(newStatsCmd(app))
	cmd.AddCommand(newFindCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newUploadCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newHashPasswordCmd(app))

	return cmd
}

func runViewer(cmd *cobra.Command, app *App) error {
	// The viewer owns the terminal: log to the configured file or nowhere.
	log, err := app.logger(nil)
	if err != nil {
		return writeErr(cmd, err)
	}
	src, err := app.source(log)
	if err != nil {
		return writeErr(cmd, err)
	}
	return tui.Run(tui.Options{
		Source:   src,
		Store:    app.store(),
		Viewer:   app.cfg.Viewer,
		Log:      log,
		Uploader: app.uploader(log),
	})
}

// logger opens the configured log once per command. Without a log path it
// writes to fallback.
func (app *App) logger(fallback io.Writer) (*logrus.Logger, error) {
	if app.log != nil {
		return app.log, nil
	}
	l, closeFn, err := logging.New(app.cfg.Log, fallback)
	if err != nil {
		return nil, err
	}
	app.log = l
	app.closeLog = closeFn
	return l, nil
}

func (app *App) store() store.Store {
	dir := strings.TrimSpace(app.cfg.State.Dir)
	if dir == "" {
		dir = store.DefaultDir()
	}
	return store.Store{Dir: dir}
}

// source builds the configured route source. Remote routes go through the
// on-disk cache so the viewer still starts when the server is unreachable.
func (app *App) source(log logrus.FieldLogger) (feed.Source, error) {
	c := app.cfg.Source
	switch app.cfg.SourceKind() {
	case "url":
		return &feed.Cached{
			Source:  feed.NewClient(c.URL, c.Token),
			Store:   app.store(),
			Log:     log,
			Offline: c.Offline,
		}, nil
	case "dir":
		return feed.DirSource{Root: c.Dir, Log: log}, nil
	case "file":
		return feed.FileSource{Path: c.File}, nil
	}
	return nil, errNoSource
}

// uploader is nil unless the route comes from a server.
func (app *App) uploader(log logrus.FieldLogger) *upload.Uploader {
	if app.cfg.SourceKind() != "url" {
		return nil
	}
	return &upload.Uploader{Endpoint: upload.Endpoint(app.cfg.Source.URL), Log: log}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
